// SPDX-License-Identifier: Apache-2.0

package scheduler

import (
	"fmt"
	"strings"

	"github.com/dbschema/dbschema/pkg/model"
)

// alterGenericStmts renders the Alter for every kind except Table, which
// pkg/differ diffs with the bespoke TableDelta shape (ddl_table.go). Views,
// functions and sequences get a real ALTER/CREATE OR REPLACE; domains get
// their NOT NULL/DEFAULT/CHECK deltas translated directly since Postgres
// has ALTER DOMAIN for exactly that attribute set. Everything else is
// rendered as DROP followed by CREATE of the new definition — Postgres
// has no ALTER for most of these kinds (collations, conversions, casts,
// operator families, text search objects) so replacing the object is the
// only option; the caller's dependency-graph ordering still applies since
// both statements share the object's own key.
func alterGenericStmts(oldObj, newObj model.Object) ([]string, error) {
	var stmts []string

	switch v := newObj.(type) {
	case *model.View:
		cols := ""
		if len(v.Columns) > 0 {
			cols = " (" + quoteIdentList(v.Columns) + ")"
		}
		stmts = append(stmts, ensureSemicolon(fmt.Sprintf("CREATE OR REPLACE VIEW %s%s AS %s", qualified(v.Schema, v.Name), cols, v.Definition)))
	case *model.Function:
		stmts = append(stmts, strings.Replace(createFunctionStmt(v), "CREATE FUNCTION", "CREATE OR REPLACE FUNCTION", 1))
	case *model.Sequence:
		old, _ := oldObj.(*model.Sequence)
		s, err := alterSequenceStmt(old, v)
		if err != nil {
			return nil, err
		}
		if s != "" {
			stmts = append(stmts, s)
		}
	case *model.Domain:
		old, _ := oldObj.(*model.Domain)
		stmts = append(stmts, alterDomainStmts(old, v)...)
	default:
		dropSQL, err := dropStmt(oldObj)
		if err != nil {
			return nil, err
		}
		createSQL, err := createStmt(newObj)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, dropSQL, createSQL)
	}

	if ownerStmt := ownerChangeStmt(oldObj, newObj); ownerStmt != "" {
		stmts = append(stmts, ownerStmt)
	}
	return stmts, nil
}

func alterSequenceStmt(old, v *model.Sequence) (string, error) {
	if old == nil {
		return "", fmt.Errorf("scheduler: sequence alter missing old object")
	}
	var actions []string
	if old.DataType != v.DataType && v.DataType != "" {
		actions = append(actions, "AS "+v.DataType)
	}
	if old.Increment != v.Increment {
		actions = append(actions, fmt.Sprintf("INCREMENT BY %d", v.Increment))
	}
	if !int64PtrEqual(old.MinValue, v.MinValue) {
		if v.MinValue != nil {
			actions = append(actions, fmt.Sprintf("MINVALUE %d", *v.MinValue))
		} else {
			actions = append(actions, "NO MINVALUE")
		}
	}
	if !int64PtrEqual(old.MaxValue, v.MaxValue) {
		if v.MaxValue != nil {
			actions = append(actions, fmt.Sprintf("MAXVALUE %d", *v.MaxValue))
		} else {
			actions = append(actions, "NO MAXVALUE")
		}
	}
	if old.Cycle != v.Cycle {
		if v.Cycle {
			actions = append(actions, "CYCLE")
		} else {
			actions = append(actions, "NO CYCLE")
		}
	}
	if len(actions) == 0 {
		return "", nil
	}
	return ensureSemicolon(fmt.Sprintf("ALTER SEQUENCE %s %s", qualified(v.Schema, v.Name), strings.Join(actions, " "))), nil
}

func alterDomainStmts(old, v *model.Domain) []string {
	if old == nil {
		return nil
	}
	q := qualified(v.Schema, v.Name)
	var stmts []string

	if old.NotNull != v.NotNull {
		if v.NotNull {
			stmts = append(stmts, ensureSemicolon(fmt.Sprintf("ALTER DOMAIN %s SET NOT NULL", q)))
		} else {
			stmts = append(stmts, ensureSemicolon(fmt.Sprintf("ALTER DOMAIN %s DROP NOT NULL", q)))
		}
	}
	if !strPtrEqual(old.Default, v.Default) {
		if v.Default != nil {
			stmts = append(stmts, ensureSemicolon(fmt.Sprintf("ALTER DOMAIN %s SET DEFAULT %s", q, *v.Default)))
		} else {
			stmts = append(stmts, ensureSemicolon(fmt.Sprintf("ALTER DOMAIN %s DROP DEFAULT", q)))
		}
	}
	for _, name := range sortedMapKeys(old.Constraints) {
		if _, ok := v.Constraints[name]; !ok {
			stmts = append(stmts, ensureSemicolon(fmt.Sprintf("ALTER DOMAIN %s DROP CONSTRAINT %s", q, quoteIdent(name))))
		}
	}
	for _, name := range sortedMapKeys(v.Constraints) {
		if _, ok := old.Constraints[name]; !ok {
			stmts = append(stmts, ensureSemicolon(fmt.Sprintf("ALTER DOMAIN %s ADD CONSTRAINT %s CHECK (%s)", q, quoteIdent(name), v.Constraints[name])))
		}
	}
	return stmts
}

// ownerChangeStmt renders ALTER ... OWNER TO for kinds diffed generically
// (table owner changes go through TableDelta.OwnerChanged instead, so
// Table never reaches here). grantTarget's "<KEYWORD> <name>" fragment
// doubles as the ALTER statement's object reference for every kind that
// can own objects.
func ownerChangeStmt(oldObj, newObj model.Object) string {
	owner := newObj.Owner()
	if owner == "" || owner == oldObj.Owner() {
		return ""
	}
	target, err := grantTarget(newObj)
	if err != nil {
		return ""
	}
	return ensureSemicolon(fmt.Sprintf("ALTER %s OWNER TO %s", target, quoteIdent(owner)))
}

func int64PtrEqual(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func strPtrEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
