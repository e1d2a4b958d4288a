// SPDX-License-Identifier: Apache-2.0

package scheduler

import (
	"fmt"

	"github.com/dbschema/dbschema/pkg/differ"
	"github.com/dbschema/dbschema/pkg/model"
)

// shouldSkipObject reports whether o never gets its own DDL unit: columns
// are rendered entirely as part of their owning table's header or
// TableDelta (spec.md §4.5), and a sequence owned by a column is created
// and dropped implicitly alongside that column (spec.md §8 scenario 4) —
// both kinds are still diffed at their own key so Comment/GrantRevoke
// changes on them are real, but Create/Drop/Alter are not.
func shouldSkipObject(o model.Object) bool {
	if o == nil {
		return true
	}
	switch v := o.(type) {
	case *model.Column:
		return true
	case *model.Sequence:
		return v.IsOwned()
	}
	return false
}

// precomputeHandledKeys collects every key that already has a natural
// Create/Drop/Alter/Rename change of its own, so the table-alter path
// knows not to synthesize a redundant conflicting-index drop/recreate for
// an index that is already being created, dropped or altered directly.
func precomputeHandledKeys(changes []differ.Change) map[string]bool {
	out := map[string]bool{}
	for _, ch := range changes {
		switch ch.Kind {
		case differ.ChangeCreate, differ.ChangeDrop:
			if ch.Object != nil {
				out[ch.Object.Key().String()] = true
			}
		case differ.ChangeAlter:
			if ch.New != nil {
				out[ch.New.Key().String()] = true
			}
		case differ.ChangeRename:
			out[ch.OldKey.String()] = true
			out[ch.NewKey.String()] = true
		}
	}
	return out
}

// expandAll turns the flat change list into schedulable units, merging
// every Change that targets the same key (a paired object commonly gets
// independent Comment, GrantRevoke and Alter records from pkg/differ) into
// one unit so the ordering pass never sees two units claiming one key.
func expandAll(changes []differ.Change) ([]unit, error) {
	handled := precomputeHandledKeys(changes)

	byID := map[string]*unit{}
	var order []string
	add := func(key model.Key, isDrop bool, stmts []Statement) error {
		if len(stmts) == 0 {
			return nil
		}
		id := fmt.Sprintf("%s|%t", key.String(), isDrop)
		u, ok := byID[id]
		if !ok {
			u = &unit{key: key, isDrop: isDrop}
			byID[id] = u
			order = append(order, id)
		}
		u.stmts = append(u.stmts, stmts...)
		return nil
	}

	for _, ch := range changes {
		switch ch.Kind {
		case differ.ChangeCreate:
			if err := expandCreateChange(ch, add); err != nil {
				return nil, err
			}
		case differ.ChangeDrop:
			if err := expandDropChange(ch, add); err != nil {
				return nil, err
			}
		case differ.ChangeRename:
			sql, err := renameStmt(ch.OldKey, ch.NewKey)
			if err != nil {
				return nil, err
			}
			if err := add(ch.NewKey, false, []Statement{{SQL: sql, Change: ch}}); err != nil {
				return nil, err
			}
		case differ.ChangeAlter:
			if err := expandAlterChange(ch, handled, add); err != nil {
				return nil, err
			}
		case differ.ChangeComment:
			sql, err := commentStmt(ch.Object, ch.Comment)
			if err != nil {
				return nil, err
			}
			if err := add(ch.Object.Key(), false, []Statement{{SQL: sql, Change: ch}}); err != nil {
				return nil, err
			}
		case differ.ChangeGrantRevoke:
			stmts, err := grantRevokeStmts(ch.Object, ch.Grants, ch.Revokes)
			if err != nil {
				return nil, err
			}
			if err := add(ch.Object.Key(), false, toStatements(stmts, ch)); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("scheduler: unknown change kind %q", ch.Kind)
		}
	}

	units := make([]unit, 0, len(order))
	for _, id := range order {
		units = append(units, *byID[id])
	}
	return units, nil
}

type adder func(key model.Key, isDrop bool, stmts []Statement) error

func expandCreateChange(ch differ.Change, add adder) error {
	if shouldSkipObject(ch.Object) {
		return nil
	}
	var sql string
	var err error
	if t, ok := ch.Object.(*model.Table); ok {
		sql = createTableHeaderStmt(t)
	} else {
		sql, err = createStmt(ch.Object)
	}
	if err != nil {
		return err
	}
	return add(ch.Object.Key(), false, []Statement{{SQL: sql, Change: ch}})
}

func expandDropChange(ch differ.Change, add adder) error {
	if shouldSkipObject(ch.Object) {
		return nil
	}
	sql, err := dropStmt(ch.Object)
	if err != nil {
		return err
	}
	return add(ch.Object.Key(), true, []Statement{{SQL: sql, Change: ch}})
}

func expandAlterChange(ch differ.Change, handled map[string]bool, add adder) error {
	if shouldSkipObject(ch.New) {
		return nil
	}

	if t, ok := ch.New.(*model.Table); ok {
		old, ok := ch.Old.(*model.Table)
		if !ok {
			return fmt.Errorf("scheduler: table alter change missing old table")
		}
		raw, ok := ch.Deltas["table"]
		if !ok {
			return nil
		}
		delta, ok := raw.(differ.TableDelta)
		if !ok {
			return fmt.Errorf("scheduler: table alter delta has unexpected type %T", raw)
		}

		stmts := alterTableStmts(t, delta)
		if err := add(t.Key(), false, toStatements(stmts, ch)); err != nil {
			return err
		}

		for _, idx := range conflictingIndexes(old, t, delta) {
			if handled[idx.Key().String()] {
				continue
			}
			dropSQL, err := dropStmt(idx)
			if err != nil {
				return err
			}
			if err := add(idx.Key(), true, []Statement{{SQL: dropSQL, Change: ch}}); err != nil {
				return err
			}
			newIdx := t.Indexes[idx.Name]
			createSQL, err := createStmt(newIdx)
			if err != nil {
				return err
			}
			if err := add(idx.Key(), false, []Statement{{SQL: createSQL, Change: ch}}); err != nil {
				return err
			}
		}
		return nil
	}

	stmts, err := alterGenericStmts(ch.Old, ch.New)
	if err != nil {
		return err
	}
	return add(ch.New.Key(), false, toStatements(stmts, ch))
}

func toStatements(sqls []string, ch differ.Change) []Statement {
	out := make([]Statement, 0, len(sqls))
	for _, s := range sqls {
		out = append(out, Statement{SQL: s, Change: ch})
	}
	return out
}
