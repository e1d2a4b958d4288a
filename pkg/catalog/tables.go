// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/dbschema/dbschema/pkg/model"
)

func (r *Reader) readTables(ctx context.Context, out *model.Database, ext extensionOwnedFilter) error {
	tf := newTableFilter(r.opts.IncludeTables, r.opts.ExcludeTables)
	for schemaName, s := range out.Schemas {
		rows, err := r.db.QueryContext(ctx, tableListQuery, schemaName)
		if err != nil {
			return fmt.Errorf("listing tables in %q: %w", schemaName, err)
		}

		var entries []struct {
			oid, name, owner, tablespace string
			acl                          []string
			comment                      sql.NullString
			partitioned                  bool
		}
		for rows.Next() {
			var e struct {
				oid, name, owner, tablespace string
				acl                          []string
				comment                      sql.NullString
				partitioned                  bool
			}
			if err := rows.Scan(&e.oid, &e.name, &e.owner, pq.Array(&e.acl), &e.comment, &e.tablespace, &e.partitioned); err != nil {
				rows.Close()
				return err
			}
			entries = append(entries, e)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}

		for _, e := range entries {
			if ext.owned(e.oid) {
				continue
			}
			if !tf.allows(schemaName, e.name) {
				continue
			}
			t := model.NewTable(schemaName, e.name)
			t.SetOID(e.oid)
			t.SetOwner(e.owner)
			t.Tablespace = e.tablespace
			if e.comment.Valid {
				t.SetDescription(e.comment.String)
			}
			if !r.opts.NoPrivileges {
				t.SetPrivileges(decodeACL(e.acl))
			}

			attrNames, err := r.readColumns(ctx, t, e.oid)
			if err != nil {
				return fmt.Errorf("columns of %s.%s: %w", schemaName, e.name, err)
			}
			if err := r.readConstraints(ctx, t, e.oid, attrNames); err != nil {
				return fmt.Errorf("constraints of %s.%s: %w", schemaName, e.name, err)
			}
			if err := r.readIndexes(ctx, t, e.oid); err != nil {
				return fmt.Errorf("indexes of %s.%s: %w", schemaName, e.name, err)
			}
			if err := r.readTriggers(ctx, t, e.oid); err != nil {
				return fmt.Errorf("triggers of %s.%s: %w", schemaName, e.name, err)
			}
			if err := r.readRules(ctx, t, e.oid); err != nil {
				return fmt.Errorf("rules of %s.%s: %w", schemaName, e.name, err)
			}

			s.Tables[e.name] = t
		}
	}
	return nil
}

// readColumns populates t.Columns in catalog (attnum) order and returns the
// attnum -> column name map constraints use to translate conkey/confkey
// arrays (spec.md §3 invariant 3: column order is preserved verbatim).
func (r *Reader) readColumns(ctx context.Context, t *model.Table, relOID string) (map[int]string, error) {
	query := columnListQueryLegacy
	if r.version.AtLeast(PG10) {
		query = columnListQuery
	}
	rows, err := r.db.QueryContext(ctx, query, relOID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	attrNames := map[int]string{}
	attnum := 0
	for rows.Next() {
		attnum++
		var name, typ, collation, identity, storage string
		var notNull bool
		var def sql.NullString
		var stats sql.NullInt64
		if err := rows.Scan(&name, &typ, &notNull, &def, &collation, &stats, &identity, &storage); err != nil {
			return nil, err
		}
		c := model.NewColumn(t.Schema, t.Name, name)
		c.Type = typ
		c.NotNull = notNull
		if def.Valid {
			c.Default = &def.String
		}
		c.Collation = collation
		c.Storage = storage
		if stats.Valid {
			n := int(stats.Int64)
			c.Statistics = &n
		}
		if identity == "a" || identity == "d" {
			gen := "ALWAYS"
			if identity == "d" {
				gen = "BY DEFAULT"
			}
			c.Identity = &model.ColumnIdentity{Generation: gen}
		}
		t.Columns = append(t.Columns, c)
		attrNames[attnum] = name
	}
	return attrNames, rows.Err()
}

func (r *Reader) readConstraints(ctx context.Context, t *model.Table, relOID string, attrNames map[int]string) error {
	rows, err := r.db.QueryContext(ctx, constraintListQuery, relOID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var name, contype, def, onDelete, onUpdate, refRelOID string
		var conkey, confkey []int64
		var deferrable, deferred bool
		if err := rows.Scan(&name, &contype, &def, pq.Array(&conkey), &refRelOID, pq.Array(&confkey), &onUpdate, &onDelete, &deferrable, &deferred); err != nil {
			return err
		}
		cols := namesFor(attrNames, conkey)

		switch contype {
		case "p":
			pk := model.NewPrimaryKey(t.Schema, t.Name, name)
			pk.Columns = cols
			t.PrimaryKey = pk
		case "c":
			cc := model.NewCheckConstraint(t.Schema, t.Name, name)
			cc.Columns = cols
			cc.Expression = def
			t.CheckConstraints[name] = cc
		case "u":
			uc := model.NewUniqueConstraint(t.Schema, t.Name, name)
			uc.Columns = cols
			t.UniqueConstraints[name] = uc
		case "f":
			fk := model.NewForeignKey(t.Schema, t.Name, name)
			fk.Columns = cols
			fk.OnDelete = onDelete
			fk.OnUpdate = onUpdate
			fk.Deferrable = deferrable
			fk.InitiallyDeferred = deferred
			refSchema, refTable, err := r.resolveRelation(ctx, refRelOID)
			if err != nil {
				return fmt.Errorf("resolving referenced table for %s: %w", name, err)
			}
			fk.ReferencedSchema = refSchema
			fk.ReferencedTable = refTable
			fk.ReferencedColumns = namesFor(attrNames, confkey)
			fk.References = model.ForeignKeyReference{
				Schema:  refSchema,
				Table:   refTable,
				Columns: fk.ReferencedColumns,
			}
			t.ForeignKeys[name] = fk
		case "x":
			ec := model.NewExcludeConstraint(t.Schema, t.Name, name)
			ec.Definition = def
			t.ExcludeConstraints[name] = ec
		}
	}
	return rows.Err()
}

func (r *Reader) resolveRelation(ctx context.Context, oid string) (schema, table string, err error) {
	row, err := r.db.QueryContext(ctx, `SELECT n.nspname, c.relname FROM pg_class c JOIN pg_namespace n ON n.oid = c.relnamespace WHERE c.oid = $1`, oid)
	if err != nil {
		return "", "", err
	}
	defer row.Close()
	if row.Next() {
		if err := row.Scan(&schema, &table); err != nil {
			return "", "", err
		}
	}
	return schema, table, row.Err()
}

func namesFor(attrNames map[int]string, positions []int64) []string {
	out := make([]string, 0, len(positions))
	for _, p := range positions {
		if n, ok := attrNames[int(p)]; ok {
			out = append(out, n)
		}
	}
	return out
}

func (r *Reader) readIndexes(ctx context.Context, t *model.Table, relOID string) error {
	rows, err := r.db.QueryContext(ctx, indexListQuery, relOID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var name, def, method, predicate, tablespace string
		var unique bool
		if err := rows.Scan(&name, &def, &unique, &method, &predicate, &tablespace); err != nil {
			return err
		}
		idx := model.NewIndex(t.Schema, t.Name, name)
		idx.Definition = def
		idx.Unique = unique
		idx.Method = method
		idx.Predicate = predicate
		idx.Tablespace = tablespace
		t.Indexes[name] = idx
	}
	return rows.Err()
}

func (r *Reader) readTriggers(ctx context.Context, t *model.Table, relOID string) error {
	rows, err := r.db.QueryContext(ctx, triggerListQuery, relOID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var name, def, function string
		if err := rows.Scan(&name, &def, &function); err != nil {
			return err
		}
		trg := model.NewTrigger(t.Schema, t.Name, name)
		trg.Definition = def
		trg.Function = function
		t.Triggers[name] = trg
	}
	return rows.Err()
}

func (r *Reader) readRules(ctx context.Context, t *model.Table, relOID string) error {
	rows, err := r.db.QueryContext(ctx, ruleListQuery, relOID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var name, def string
		if err := rows.Scan(&name, &def); err != nil {
			return err
		}
		rl := model.NewRule(t.Schema, t.Name, name)
		rl.Definition = def
		t.Rules[name] = rl
	}
	return rows.Err()
}
