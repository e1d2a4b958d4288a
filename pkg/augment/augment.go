// SPDX-License-Identifier: Apache-2.0

// Package augment implements the Augmenter (spec.md §4.6): given a desired
// model and a small declarative spec naming tables plus a named
// audit_columns template, it injects the template's prototype columns and
// (if the template has one) a BEFORE UPDATE trigger and its backing
// function into each named table. The result is an ordinary *model.Database
// that runs through the standard differ/scheduler path unchanged.
package augment

import (
	"bytes"
	"fmt"
	"sort"
	"text/template"

	"github.com/lib/pq"

	"github.com/dbschema/dbschema/pkg/model"
)

// Apply mutates db in place, injecting every table augmentation spec names,
// and returns it (the augmented desired model M' of spec.md §4.6). Unknown
// tables and unknown template names are reported as errors rather than
// silently skipped, since a misspelled table name in an augment spec would
// otherwise produce a silently-incomplete audit trail.
func Apply(db *model.Database, spec *Spec) (*model.Database, error) {
	for _, key := range spec.sortedTableKeys() {
		aug := spec.Tables[key]
		schemaName, tableName, err := splitTableKey(key)
		if err != nil {
			return nil, err
		}
		if err := applyTable(db, schemaName, tableName, aug); err != nil {
			return nil, fmt.Errorf("augmenting %s: %w", key, err)
		}
	}
	return db, nil
}

func applyTable(db *model.Database, schemaName, tableName string, aug TableAugment) error {
	if aug.AuditColumns == "" {
		return nil
	}
	proto, ok := namedTemplates[aug.AuditColumns]
	if !ok {
		return fmt.Errorf("unknown audit_columns template %q", aug.AuditColumns)
	}

	s, ok := db.Schemas[schemaName]
	if !ok {
		return fmt.Errorf("schema %q not found", schemaName)
	}
	t, ok := s.Tables[tableName]
	if !ok {
		return fmt.Errorf("table %q not found in schema %q", tableName, schemaName)
	}

	for _, cp := range proto.Columns {
		if hasColumn(t, cp.Name) {
			continue
		}
		c := model.NewColumn(schemaName, tableName, cp.Name)
		c.Type = cp.Type
		c.NotNull = cp.NotNull
		if cp.Default != "" {
			def := cp.Default
			c.Default = &def
		}
		t.Columns = append(t.Columns, c)
	}

	if proto.TriggerBody == "" {
		return nil
	}

	funcName := fmt.Sprintf("%s_audit", tableName)
	trigName := fmt.Sprintf("%s_audit_trigger", tableName)

	funcSQL, err := executeTemplate("function", functionTemplate, triggerContext{
		FunctionName: funcName,
		Body:         proto.TriggerBody,
	})
	if err != nil {
		return err
	}
	trigSQL, err := executeTemplate("trigger", triggerTemplate, triggerContext{
		FunctionName: funcName,
		TriggerName:  trigName,
		TableName:    tableName,
	})
	if err != nil {
		return err
	}

	fn := model.NewFunction(schemaName, funcName, "")
	fn.Returns = "trigger"
	fn.Language = "plpgsql"
	fn.Source = funcSQL
	s.Functions[fn.Key().String()] = fn

	trg := model.NewTrigger(schemaName, tableName, trigName)
	trg.Definition = trigSQL
	trg.Function = funcName
	t.Triggers[trigName] = trg

	return nil
}

func hasColumn(t *model.Table, name string) bool {
	for _, c := range t.Columns {
		if c.Name == name {
			return true
		}
	}
	return false
}

// triggerContext is the template.Execute argument for both prototypes,
// substituted once left-to-right as spec.md §4.6 requires.
type triggerContext struct {
	FunctionName string
	TriggerName  string
	TableName    string
	Body         string
}

func executeTemplate(name, content string, ctx triggerContext) (string, error) {
	tmpl := template.Must(template.
		New(name).
		Funcs(template.FuncMap{
			"ql": pq.QuoteLiteral,
			"qi": pq.QuoteIdentifier,
		}).
		Parse(content))

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, ctx); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func splitTableKey(key string) (schema, table string, err error) {
	for i := 0; i < len(key); i++ {
		if key[i] == '.' {
			return key[:i], key[i+1:], nil
		}
	}
	return "", "", fmt.Errorf("table key %q must be schema.table", key)
}

func (s *Spec) sortedTableKeys() []string {
	keys := make([]string, 0, len(s.Tables))
	for k := range s.Tables {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
