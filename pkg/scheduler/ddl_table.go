// SPDX-License-Identifier: Apache-2.0

package scheduler

import (
	"fmt"
	"strings"

	"github.com/dbschema/dbschema/pkg/differ"
	"github.com/dbschema/dbschema/pkg/model"
)

// columnDef renders one column as it appears inline in a CREATE TABLE
// header or ADD COLUMN clause.
func columnDef(c *model.Column) string {
	parts := []string{quoteIdent(c.Name), c.Type}
	if c.Collation != "" {
		parts = append(parts, "COLLATE", quoteIdent(c.Collation))
	}
	if c.NotNull {
		parts = append(parts, "NOT NULL")
	}
	if c.Default != nil {
		parts = append(parts, "DEFAULT", *c.Default)
	}
	if c.Identity != nil {
		parts = append(parts, "GENERATED", c.Identity.Generation, "AS IDENTITY")
	}
	return strings.Join(parts, " ")
}

// createTableHeaderStmt renders only the table shell and its columns
// (spec.md §4.5 "split table creates into a header ... and a tail"): the
// primary key, unique/check/foreign-key constraints, indexes, triggers and
// rules are all separately keyed objects in pkg/differ's plan and get
// their own ALTER TABLE ADD CONSTRAINT / CREATE INDEX / CREATE TRIGGER /
// CREATE RULE units, ordered after this one by the dependency graph.
func createTableHeaderStmt(t *model.Table) string {
	if t.PartitionParent != "" {
		bound := t.PartitionBound
		if bound == "" {
			bound = "DEFAULT"
		}
		stmt := fmt.Sprintf("CREATE TABLE %s PARTITION OF %s",
			qualified(t.Schema, t.Name), qualified(t.Schema, t.PartitionParent))
		if strings.EqualFold(bound, "DEFAULT") {
			stmt += " DEFAULT"
		} else {
			stmt += " " + bound
		}
		return ensureSemicolon(stmt)
	}

	cols := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		cols = append(cols, columnDef(c))
	}
	stmt := fmt.Sprintf("CREATE TABLE %s (\n  %s\n)", qualified(t.Schema, t.Name), strings.Join(cols, ",\n  "))
	if len(t.Inherits) > 0 {
		parents := make([]string, len(t.Inherits))
		for i, p := range t.Inherits {
			parents[i] = qualified(t.Schema, p)
		}
		stmt += fmt.Sprintf(" INHERITS (%s)", strings.Join(parents, ", "))
	}
	if t.PartitionKey != "" {
		stmt += " PARTITION BY " + t.PartitionKey
	}
	if t.Tablespace != "" {
		stmt += " TABLESPACE " + quoteIdent(t.Tablespace)
	}
	return ensureSemicolon(stmt)
}

// alterTableStmts renders every statement implied by one table's
// TableDelta (spec.md §4.4's table attribute-delta set), in the order
// Postgres expects within a single ALTER TABLE pass: drop columns first,
// add columns, then per-column attribute alters, then owner/tablespace.
func alterTableStmts(newTable *model.Table, delta differ.TableDelta) []string {
	var out []string
	q := qualified(newTable.Schema, newTable.Name)

	for _, name := range delta.DroppedColumns {
		out = append(out, ensureSemicolon(fmt.Sprintf("ALTER TABLE %s DROP COLUMN %s", q, quoteIdent(name))))
	}
	for _, c := range delta.AddedColumns {
		out = append(out, ensureSemicolon(fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s", q, columnDef(c))))
	}
	for _, cd := range delta.AlteredColumns {
		actions := columnAlterActions(newTable, cd)
		if len(actions) == 0 {
			continue
		}
		out = append(out, ensureSemicolon(fmt.Sprintf("ALTER TABLE %s %s", q, strings.Join(actions, ", "))))
	}
	if delta.OwnerChanged {
		out = append(out, ensureSemicolon(fmt.Sprintf("ALTER TABLE %s OWNER TO %s", q, quoteIdent(delta.Owner))))
	}
	if delta.TablespaceChanged {
		out = append(out, ensureSemicolon(fmt.Sprintf("ALTER TABLE %s SET TABLESPACE %s", q, quoteIdent(delta.Tablespace))))
	}
	return out
}

func columnAlterActions(newTable *model.Table, cd differ.ColumnDelta) []string {
	col := quoteIdent(cd.Name)
	var actions []string
	if cd.TypeChanged || cd.CollationChanged {
		typeAction := fmt.Sprintf("ALTER COLUMN %s TYPE %s", col, cd.NewType)
		if newCol := newTable.GetColumn(cd.Name); newCol != nil && newCol.Collation != "" {
			typeAction += " COLLATE " + quoteIdent(newCol.Collation)
		}
		typeAction += fmt.Sprintf(" USING %s::%s", col, cd.NewType)
		actions = append(actions, typeAction)
	}
	if cd.NotNullChanged {
		if cd.NotNull {
			actions = append(actions, fmt.Sprintf("ALTER COLUMN %s SET NOT NULL", col))
		} else {
			actions = append(actions, fmt.Sprintf("ALTER COLUMN %s DROP NOT NULL", col))
		}
	}
	if cd.DefaultChanged {
		if cd.Default != nil {
			actions = append(actions, fmt.Sprintf("ALTER COLUMN %s SET DEFAULT %s", col, *cd.Default))
		} else {
			actions = append(actions, fmt.Sprintf("ALTER COLUMN %s DROP DEFAULT", col))
		}
	}
	if cd.StatisticsChanged {
		stats := -1
		if cd.Statistics != nil {
			stats = *cd.Statistics
		}
		actions = append(actions, fmt.Sprintf("ALTER COLUMN %s SET STATISTICS %d", col, stats))
	}
	if cd.StorageChanged && cd.Storage != "" {
		actions = append(actions, fmt.Sprintf("ALTER COLUMN %s SET STORAGE %s", col, cd.Storage))
	}
	return actions
}

// conflictingIndexes finds indexes on newTable whose columns include one
// of the columns whose type or collation changed in delta. Postgres
// refuses ALTER COLUMN ... TYPE while such an index exists, so the
// scheduler must drop it first and recreate it after the ALTER TABLE
// (spec.md §4.5's DROP-before-everything-else pass naturally places the
// drop half there; the recreate half is ordered back in with the rest).
// oldTable supplies the index definition to drop (identical to newTable's
// copy since an index that itself changed already has its own Change
// record and is excluded here by the caller via the seen-key check).
func conflictingIndexes(oldTable *model.Table, newTable *model.Table, delta differ.TableDelta) []*model.Index {
	changed := map[string]bool{}
	for _, cd := range delta.AlteredColumns {
		if cd.TypeChanged || cd.CollationChanged {
			changed[cd.Name] = true
		}
	}
	if len(changed) == 0 {
		return nil
	}
	var out []*model.Index
	for name, idx := range newTable.Indexes {
		oldIdx, ok := oldTable.Indexes[name]
		if !ok {
			continue // already a Create in its own right
		}
		for _, col := range idx.Columns {
			if changed[col] {
				out = append(out, oldIdx)
				break
			}
		}
	}
	return out
}
