// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"github.com/dbschema/dbschema/pkg/model"
)

// readSequences stores every sequence in its schema's Sequences map. A
// column-owned sequence also gets OwnedTable/OwnedColumn set and is named
// on the owning model.Column's OwnedSequence; ToMap leaves such sequences
// out of the YAML document (spec.md §3 invariant 6).
func (r *Reader) readSequences(ctx context.Context, out *model.Database) error {
	for schemaName, s := range out.Schemas {
		rows, err := r.db.QueryContext(ctx, sequenceListQuery, schemaName)
		if err != nil {
			return err
		}

		var entries []struct {
			oid, name, owner string
			acl              []string
			comment          sql.NullString
		}
		for rows.Next() {
			var e struct {
				oid, name, owner string
				acl              []string
				comment          sql.NullString
			}
			if err := rows.Scan(&e.oid, &e.name, &e.owner, pq.Array(&e.acl), &e.comment); err != nil {
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
			seq := model.NewSequence(schemaName, e.name)
			seq.SetOID(e.oid)
			seq.SetOwner(e.owner)
			if e.comment.Valid {
				seq.SetDescription(e.comment.String)
			}
			if !r.opts.NoPrivileges {
				seq.SetPrivileges(decodeACL(e.acl))
			}
			if err := r.readSequenceAttrs(ctx, seq, schemaName, e.name); err != nil {
				return err
			}

			ownerOID, ownerCol, err := r.readSequenceOwnership(ctx, e.oid)
			if err != nil {
				return err
			}
			if ownerCol != "" {
				ownerSchema, ownerTable, err := r.resolveRelation(ctx, ownerOID)
				if err != nil {
					return err
				}
				if t, ok := out.Schemas[ownerSchema]; ok {
					if tbl, ok := t.Tables[ownerTable]; ok {
						seq.OwnedTable = ownerTable
						seq.OwnedColumn = ownerCol
						if col := tbl.GetColumn(ownerCol); col != nil {
							col.OwnedSequence = seq.Key().String()
						}
					}
				}
			}

			s.Sequences[e.name] = seq
		}
	}
	return nil
}

func (r *Reader) readSequenceAttrs(ctx context.Context, seq *model.Sequence, schemaName, name string) error {
	row, err := r.db.QueryContext(ctx, sequenceAttrsQuery, schemaName, name)
	if err != nil {
		return err
	}
	defer row.Close()

	if row.Next() {
		var min, max sql.NullInt64
		if err := row.Scan(&seq.DataType, &seq.StartValue, &seq.Increment, &min, &max, &seq.Cycle); err != nil {
			return err
		}
		if min.Valid {
			v := min.Int64
			seq.MinValue = &v
		}
		if max.Valid {
			v := max.Int64
			seq.MaxValue = &v
		}
	}
	return row.Err()
}

func (r *Reader) readSequenceOwnership(ctx context.Context, seqOID string) (ownerRelOID, ownerColumn string, err error) {
	row, err := r.db.QueryContext(ctx, sequenceOwnerQuery, seqOID)
	if err != nil {
		return "", "", err
	}
	defer row.Close()
	if row.Next() {
		if err := row.Scan(&ownerRelOID, &ownerColumn); err != nil {
			return "", "", err
		}
	}
	return ownerRelOID, ownerColumn, row.Err()
}
