// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"github.com/dbschema/dbschema/pkg/model"
)

func (r *Reader) readViews(ctx context.Context, out *model.Database) error {
	for schemaName, s := range out.Schemas {
		rows, err := r.db.QueryContext(ctx, viewListQuery, schemaName)
		if err != nil {
			return err
		}

		for rows.Next() {
			var oid, name, owner, def string
			var acl []string
			var comment sql.NullString
			var materialized bool
			if err := rows.Scan(&oid, &name, &owner, pq.Array(&acl), &comment, &def, &materialized); err != nil {
				rows.Close()
				return err
			}

			if materialized {
				mv := model.NewMatView(schemaName, name)
				mv.SetOID(oid)
				mv.SetOwner(owner)
				mv.Definition = def
				if comment.Valid {
					mv.SetDescription(comment.String)
				}
				if !r.opts.NoPrivileges {
					mv.SetPrivileges(decodeACL(acl))
				}
				s.MatViews[name] = mv
				continue
			}

			v := model.NewView(schemaName, name)
			v.SetOID(oid)
			v.SetOwner(owner)
			v.Definition = def
			if comment.Valid {
				v.SetDescription(comment.String)
			}
			if !r.opts.NoPrivileges {
				v.SetPrivileges(decodeACL(acl))
			}
			s.Views[name] = v
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}
	}
	return nil
}
