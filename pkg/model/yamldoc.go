// SPDX-License-Identifier: Apache-2.0

package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ToMap produces the deterministic map[string]any tree described in
// spec.md §4.2/§6: schemas sorted by name, sub-objects sorted by
// (kind, name) within each schema, columns preserving catalog order.
// Two runs over the same catalog produce byte-identical output once
// passed through Encode (spec.md §4.2 "Determinism").
func ToMap(db *Database) map[string]any {
	out := map[string]any{}

	schemaNames := sortedKeys(db.Schemas)
	for _, name := range schemaNames {
		s := db.Schemas[name]
		out["schema "+name] = schemaToMap(s)
	}

	for _, name := range sortedKeys(db.Extensions) {
		out["extension "+name] = attrsOf(db.Extensions[name])
	}
	for _, l := range sortedKeys(db.Languages) {
		out["language "+l] = attrsOf(db.Languages[l])
	}
	for _, f := range sortedKeys(db.FDWs) {
		out["foreign_data_wrapper "+f] = attrsOf(db.FDWs[f])
	}
	for name, c := range db.Casts {
		out[fmt.Sprintf("cast (%s AS %s)", c.SourceType, c.TargetType)] = attrsOf(c)
		_ = name
	}

	return out
}

func schemaToMap(s *Schema) map[string]any {
	m := attrsOf(s)

	for _, name := range sortedKeys(s.Tables) {
		m["table "+name] = tableToMap(s.Tables[name])
	}
	for _, name := range sortedKeys(s.Views) {
		m["view "+name] = attrsOf(s.Views[name])
	}
	for _, name := range sortedKeys(s.MatViews) {
		m["materialized_view "+name] = attrsOf(s.MatViews[name])
	}
	for _, name := range sortedKeys(s.Sequences) {
		if s.Sequences[name].IsOwned() {
			continue // not written; the owning column's default or identity stands for it
		}
		m["sequence "+name] = attrsOf(s.Sequences[name])
	}
	for _, name := range sortedKeys(s.Functions) {
		f := s.Functions[name]
		m["function "+f.QualifiedName()] = attrsOf(f)
	}
	for _, name := range sortedKeys(s.Aggregates) {
		a := s.Aggregates[name]
		m["aggregate "+a.Name+"("+a.ArgTypes+")"] = attrsOf(a)
	}
	for _, name := range sortedKeys(s.Domains) {
		m["domain "+name] = attrsOf(s.Domains[name])
	}
	for _, name := range sortedKeys(s.Types) {
		m["type "+name] = attrsOf(s.Types[name])
	}
	for _, name := range sortedKeys(s.Collations) {
		m["collation "+name] = attrsOf(s.Collations[name])
	}
	for _, name := range sortedKeys(s.Conversions) {
		m["conversion "+name] = attrsOf(s.Conversions[name])
	}
	for _, name := range sortedKeys(s.ForeignTables) {
		m["foreign_table "+name] = attrsOf(s.ForeignTables[name])
	}
	for _, name := range sortedKeys(s.Operators) {
		o := s.Operators[name]
		m["operator "+o.Name+"("+o.LeftType+","+o.RightType+")"] = attrsOf(o)
	}
	for _, name := range sortedKeys(s.OpClasses) {
		c := s.OpClasses[name]
		m["operator_class "+c.Name+" using "+c.IndexMethod] = attrsOf(c)
	}
	for _, name := range sortedKeys(s.OpFamilies) {
		f := s.OpFamilies[name]
		m["operator_family "+f.Name+" using "+f.IndexMethod] = attrsOf(f)
	}
	for _, name := range sortedKeys(s.TSParsers) {
		m["ts_parser "+name] = attrsOf(s.TSParsers[name])
	}
	for _, name := range sortedKeys(s.TSDicts) {
		m["ts_dictionary "+name] = attrsOf(s.TSDicts[name])
	}
	for _, name := range sortedKeys(s.TSTemplates) {
		m["ts_template "+name] = attrsOf(s.TSTemplates[name])
	}
	for _, name := range sortedKeys(s.TSConfigs) {
		m["ts_configuration "+name] = attrsOf(s.TSConfigs[name])
	}
	for _, name := range sortedKeys(s.EventTriggers) {
		m["event_trigger "+name] = attrsOf(s.EventTriggers[name])
	}

	return m
}

func tableToMap(t *Table) map[string]any {
	m := attrsOf(t)

	// Columns preserve catalog order (spec.md §3 invariant 3); all other
	// child collections are sorted by name.
	cols := make([]any, 0, len(t.Columns))
	for _, c := range t.Columns {
		cols = append(cols, map[string]any{c.Name: attrsOf(c)})
	}
	m["columns"] = cols

	if t.PrimaryKey != nil {
		m["primary_key"] = map[string]any{t.PrimaryKey.Name: attrsOf(t.PrimaryKey)}
	}
	if len(t.CheckConstraints) > 0 {
		cc := map[string]any{}
		for _, name := range sortedKeys(t.CheckConstraints) {
			cc[name] = attrsOf(t.CheckConstraints[name])
		}
		m["check_constraints"] = cc
	}
	if len(t.UniqueConstraints) > 0 {
		uc := map[string]any{}
		for _, name := range sortedKeys(t.UniqueConstraints) {
			uc[name] = attrsOf(t.UniqueConstraints[name])
		}
		m["unique_constraints"] = uc
	}
	if len(t.ExcludeConstraints) > 0 {
		ec := map[string]any{}
		for _, name := range sortedKeys(t.ExcludeConstraints) {
			ec[name] = attrsOf(t.ExcludeConstraints[name])
		}
		m["exclude_constraints"] = ec
	}
	if len(t.ForeignKeys) > 0 {
		fk := map[string]any{}
		for _, name := range sortedKeys(t.ForeignKeys) {
			fk[name] = attrsOf(t.ForeignKeys[name])
		}
		m["foreign_keys"] = fk
	}
	if len(t.Indexes) > 0 {
		idx := map[string]any{}
		for _, name := range sortedKeys(t.Indexes) {
			idx[name] = attrsOf(t.Indexes[name])
		}
		m["indexes"] = idx
	}
	if len(t.Triggers) > 0 {
		trg := map[string]any{}
		for _, name := range sortedKeys(t.Triggers) {
			trg[name] = attrsOf(t.Triggers[name])
		}
		m["triggers"] = trg
	}
	if len(t.Rules) > 0 {
		r := map[string]any{}
		for _, name := range sortedKeys(t.Rules) {
			r[name] = attrsOf(t.Rules[name])
		}
		m["rules"] = r
	}

	return m
}

// attrsOf reflects an object's JSON-tagged fields into a map, the generic
// fallback mapping used for every leaf kind (spec.md doesn't require a
// bespoke map shape beyond the nesting demonstrated in §6's example; the
// per-kind Go struct's own `json` tags already define each kind's
// attribute names). Owner/privileges/description are merged in from Base.
func attrsOf(o Object) map[string]any {
	b, err := json.Marshal(o)
	if err != nil {
		return map[string]any{}
	}
	var m map[string]any
	_ = json.Unmarshal(b, &m)
	if m == nil {
		m = map[string]any{}
	}
	if p, ok := o.(Privileged); ok && len(p.Privileges()) > 0 {
		m["privileges"] = privilegesToMap(p.Privileges())
	}
	if old, ok := o.Renamed(); ok {
		m["oldname"] = old.Name()
	}
	return m
}

func privilegesToMap(privs []Privilege) []map[string]any {
	byGrantee := map[string][]string{}
	order := []string{}
	for _, p := range privs {
		if _, ok := byGrantee[p.Grantee]; !ok {
			order = append(order, p.Grantee)
		}
		byGrantee[p.Grantee] = append(byGrantee[p.Grantee], strings.ToLower(p.Privilege))
	}
	sort.Strings(order)
	out := make([]map[string]any, 0, len(order))
	for _, g := range order {
		out = append(out, map[string]any{g: byGrantee[g]})
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Encode renders a document map as YAML, using literal block style for any
// scalar string containing a newline (spec.md §4.2 "Multi-line textual
// fields ... are emitted with a literal block style"; trailing whitespace
// on each line is stripped first).
func Encode(doc map[string]any) ([]byte, error) {
	node, err := toNode(doc)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(node); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func toNode(v any) (*yaml.Node, error) {
	switch val := v.(type) {
	case string:
		return stringNode(val), nil
	case map[string]any:
		keys := sortedKeys(val)
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, k := range keys {
			kn := stringNode(k)
			vn, err := toNode(val[k])
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, kn, vn)
		}
		return n, nil
	case []any:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, e := range val {
			en, err := toNode(e)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, en)
		}
		return n, nil
	case []map[string]any:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, e := range val {
			en, err := toNode(e)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, en)
		}
		return n, nil
	case []string:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, e := range val {
			n.Content = append(n.Content, stringNode(e))
		}
		return n, nil
	default:
		var n yaml.Node
		if err := n.Encode(val); err != nil {
			return nil, err
		}
		return &n, nil
	}
}

func stringNode(s string) *yaml.Node {
	n := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
	if strings.Contains(s, "\n") {
		lines := strings.Split(s, "\n")
		for i, l := range lines {
			lines[i] = strings.TrimRight(l, " \t")
		}
		n.Value = strings.Join(lines, "\n")
		n.Style = yaml.LiteralStyle
	}
	return n
}

// Decode parses a YAML document into the generic map form consumed by
// FromMap.
func Decode(data []byte) (map[string]any, error) {
	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// FromMap is the inverse of ToMap: it rebuilds a *Database from the
// generic document produced by Decode. Each "<kind> <name>" top-level key
// is split on the first space (spec.md §6's naming convention); the
// remainder is handed to encoding/json via a JSON round trip into the
// concrete struct so the same tags drive both directions.
func FromMap(doc map[string]any) (*Database, error) {
	db := NewDatabase()

	for key, v := range doc {
		kindWord, name, ok := splitKindKey(key)
		if !ok {
			continue
		}
		switch kindWord {
		case "schema":
			s, err := schemaFromMap(name, v)
			if err != nil {
				return nil, fmt.Errorf("schema %q: %w", name, err)
			}
			db.Schemas[name] = s
		case "extension":
			e := NewExtension(name)
			if err := populate(v, e); err != nil {
				return nil, err
			}
			db.Extensions[name] = e
		case "language":
			l := NewLanguage(name)
			if err := populate(v, l); err != nil {
				return nil, err
			}
			db.Languages[name] = l
		case "foreign_data_wrapper":
			f := NewFDW(name)
			if err := populate(v, f); err != nil {
				return nil, err
			}
			db.FDWs[name] = f
		case "cast":
			src, dst, ok := splitCastKey(name)
			if !ok {
				continue
			}
			c := NewCast(src, dst)
			if err := populate(v, c); err != nil {
				return nil, err
			}
			db.Casts[c.Key().String()] = c
		}
	}

	return db, nil
}

func schemaFromMap(name string, v any) (*Schema, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected mapping, got %T", v)
	}
	s := NewSchema(name)
	if err := populate(m, s); err != nil {
		return nil, err
	}

	for key, child := range m {
		kindWord, childName, ok := splitKindKey(key)
		if !ok {
			continue
		}
		switch kindWord {
		case "table":
			t, err := tableFromMap(name, childName, child)
			if err != nil {
				return nil, fmt.Errorf("table %q: %w", childName, err)
			}
			s.Tables[childName] = t
		case "view":
			o := NewView(name, childName)
			if err := populate(child, o); err != nil {
				return nil, err
			}
			s.Views[childName] = o
		case "materialized_view":
			o := NewMatView(name, childName)
			if err := populate(child, o); err != nil {
				return nil, err
			}
			s.MatViews[childName] = o
		case "sequence":
			o := NewSequence(name, childName)
			if err := populate(child, o); err != nil {
				return nil, err
			}
			s.Sequences[childName] = o
		case "function":
			fname, argTypes := splitSignature(childName)
			o := NewFunction(name, fname, argTypes)
			if err := populate(child, o); err != nil {
				return nil, err
			}
			s.Functions[o.Key().String()] = o
		case "aggregate":
			aname, argTypes := splitSignature(childName)
			o := NewAggregate(name, aname, argTypes)
			if err := populate(child, o); err != nil {
				return nil, err
			}
			s.Aggregates[o.Key().String()] = o
		case "domain":
			o := NewDomain(name, childName)
			if err := populate(child, o); err != nil {
				return nil, err
			}
			s.Domains[childName] = o
		case "collation":
			o := NewCollation(name, childName)
			if err := populate(child, o); err != nil {
				return nil, err
			}
			s.Collations[childName] = o
		case "conversion":
			o := NewConversion(name, childName)
			if err := populate(child, o); err != nil {
				return nil, err
			}
			s.Conversions[childName] = o
		case "foreign_table":
			o := NewForeignTable(name, childName)
			if err := populate(child, o); err != nil {
				return nil, err
			}
			s.ForeignTables[childName] = o
		case "type":
			o := NewType(name, childName, TypeKindBase) // TypeOf overwritten by populate below
			if err := populate(child, o); err != nil {
				return nil, err
			}
			s.Types[childName] = o
		case "operator":
			opName, left, right := splitOperatorSignature(childName)
			o := NewOperator(name, opName, left, right)
			if err := populate(child, o); err != nil {
				return nil, err
			}
			s.Operators[o.Key().String()] = o
		case "operator_class":
			opcName, indexMethod := splitUsingKey(childName)
			o := NewOperatorClass(name, opcName, indexMethod)
			if err := populate(child, o); err != nil {
				return nil, err
			}
			s.OpClasses[o.Key().String()] = o
		case "operator_family":
			opfName, indexMethod := splitUsingKey(childName)
			o := NewOperatorFamily(name, opfName, indexMethod)
			if err := populate(child, o); err != nil {
				return nil, err
			}
			s.OpFamilies[o.Key().String()] = o
		case "ts_parser":
			o := NewTSParser(name, childName)
			if err := populate(child, o); err != nil {
				return nil, err
			}
			s.TSParsers[childName] = o
		case "ts_dictionary":
			o := NewTSDictionary(name, childName)
			if err := populate(child, o); err != nil {
				return nil, err
			}
			s.TSDicts[childName] = o
		case "ts_template":
			o := NewTSTemplate(name, childName)
			if err := populate(child, o); err != nil {
				return nil, err
			}
			s.TSTemplates[childName] = o
		case "ts_configuration":
			o := NewTSConfig(name, childName)
			if err := populate(child, o); err != nil {
				return nil, err
			}
			s.TSConfigs[childName] = o
		case "event_trigger":
			o := NewEventTrigger(childName)
			if err := populate(child, o); err != nil {
				return nil, err
			}
			s.EventTriggers[childName] = o
		}
	}

	return s, nil
}

// splitOperatorSignature splits "name(left,right)" back into its operator
// name and operand types, the inverse of the "operator name(left,right)"
// map key. A missing side (unary operators) yields an empty operand type.
func splitOperatorSignature(s string) (name, left, right string) {
	name, args := splitSignature(s)
	parts := strings.SplitN(args, ",", 2)
	left = parts[0]
	if len(parts) == 2 {
		right = parts[1]
	}
	return name, left, right
}

// splitUsingKey splits "name using indexmethod" back into its parts, the
// inverse of the "operator_class name using indexmethod" map key.
func splitUsingKey(s string) (name, indexMethod string) {
	i := strings.LastIndex(s, " using ")
	if i < 0 {
		return s, ""
	}
	return s[:i], s[i+len(" using "):]
}

func tableFromMap(schema, name string, v any) (*Table, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected mapping, got %T", v)
	}
	t := NewTable(schema, name)
	if err := populate(m, t); err != nil {
		return nil, err
	}

	// populate filled Columns with unnamed entries from the same list;
	// rebuild it from the named column mappings.
	t.Columns = nil
	if cols, ok := m["columns"].([]any); ok {
		for _, raw := range cols {
			entry, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			for colName, colBody := range entry {
				c := NewColumn(schema, name, colName)
				if err := populate(colBody, c); err != nil {
					return nil, fmt.Errorf("column %q: %w", colName, err)
				}
				t.Columns = append(t.Columns, c)
			}
		}
	}

	if pk, ok := m["primary_key"].(map[string]any); ok {
		for pkName, pkBody := range pk {
			p := NewPrimaryKey(schema, name, pkName)
			if err := populate(pkBody, p); err != nil {
				return nil, err
			}
			t.PrimaryKey = p
		}
	}

	for group, dst := range map[string]func(string, any) error{
		"check_constraints": func(n string, b any) error {
			c := NewCheckConstraint(schema, name, n)
			if err := populate(b, c); err != nil {
				return err
			}
			t.CheckConstraints[n] = c
			return nil
		},
		"unique_constraints": func(n string, b any) error {
			c := NewUniqueConstraint(schema, name, n)
			if err := populate(b, c); err != nil {
				return err
			}
			t.UniqueConstraints[n] = c
			return nil
		},
		"foreign_keys": func(n string, b any) error {
			c := NewForeignKey(schema, name, n)
			if err := populate(b, c); err != nil {
				return err
			}
			t.ForeignKeys[n] = c
			return nil
		},
		"exclude_constraints": func(n string, b any) error {
			c := NewExcludeConstraint(schema, name, n)
			if err := populate(b, c); err != nil {
				return err
			}
			t.ExcludeConstraints[n] = c
			return nil
		},
		"indexes": func(n string, b any) error {
			c := NewIndex(schema, name, n)
			if err := populate(b, c); err != nil {
				return err
			}
			t.Indexes[n] = c
			return nil
		},
		"triggers": func(n string, b any) error {
			c := NewTrigger(schema, name, n)
			if err := populate(b, c); err != nil {
				return err
			}
			t.Triggers[n] = c
			return nil
		},
		"rules": func(n string, b any) error {
			c := NewRule(schema, name, n)
			if err := populate(b, c); err != nil {
				return err
			}
			t.Rules[n] = c
			return nil
		},
	} {
		section, ok := m[group].(map[string]any)
		if !ok {
			continue
		}
		for n, b := range section {
			if err := dst(n, b); err != nil {
				return nil, fmt.Errorf("%s %q: %w", group, n, err)
			}
		}
	}

	return t, nil
}

// populate round-trips a generic map (or any JSON-marshalable value) into
// a concrete *Object via its json tags — the mirror image of attrsOf. An
// "oldname" key, if present, is applied as a one-shot rename directive
// (spec.md §4.3 "oldname"): it replaces the last path component of the
// object's own key to build the key it claims to have been renamed from.
func populate(v any, dst Object) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return err
	}
	if m, ok := v.(map[string]any); ok {
		if old, ok := m["oldname"].(string); ok && old != "" {
			path := append([]string(nil), dst.Key().Path...)
			if len(path) > 0 {
				path[len(path)-1] = old
			}
			if setter, ok := dst.(interface{ SetOldName(...string) }); ok {
				setter.SetOldName(path...)
			}
		}
	}
	return nil
}

// splitKindKey splits a "<kind word> <name>" document key on its first
// space, the inverse of the "kind name" keys ToMap writes.
func splitKindKey(key string) (kind, name string, ok bool) {
	i := strings.IndexByte(key, ' ')
	if i < 0 {
		return "", "", false
	}
	return key[:i], key[i+1:], true
}

// splitSignature splits "name(argtypes)" back into its parts, the inverse
// of Function.QualifiedName / the "aggregate name(argtypes)" map key.
func splitSignature(s string) (name, argTypes string) {
	i := strings.IndexByte(s, '(')
	if i < 0 || !strings.HasSuffix(s, ")") {
		return s, ""
	}
	return s[:i], s[i+1 : len(s)-1]
}

func splitCastKey(name string) (source, target string, ok bool) {
	name = strings.TrimPrefix(name, "(")
	name = strings.TrimSuffix(name, ")")
	parts := strings.SplitN(name, " AS ", 2)
	if len(parts) != 2 {
		return "", "", false
	}
	return parts[0], parts[1], true
}
