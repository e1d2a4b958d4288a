// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"github.com/dbschema/dbschema/pkg/model"
)

func (r *Reader) readFunctions(ctx context.Context, out *model.Database) error {
	for schemaName, s := range out.Schemas {
		rows, err := r.db.QueryContext(ctx, functionListQuery, schemaName)
		if err != nil {
			return err
		}

		for rows.Next() {
			var oid, name, argTypes, owner, returns, lang, src, volatility string
			var acl []string
			var comment sql.NullString
			var strict, secdef bool
			if err := rows.Scan(&oid, &name, &argTypes, &owner, pq.Array(&acl), &comment, &returns, &lang, &src, &volatility, &strict, &secdef); err != nil {
				rows.Close()
				return err
			}

			f := model.NewFunction(schemaName, name, argTypes)
			f.SetOID(oid)
			f.SetOwner(owner)
			f.Arguments = argTypes
			f.Returns = returns
			f.Language = lang
			f.Source = src
			f.Volatility = volatilityName(volatility)
			f.Strict = strict
			f.SecurityDefiner = secdef
			if comment.Valid {
				f.SetDescription(comment.String)
			}
			if !r.opts.NoPrivileges {
				f.SetPrivileges(decodeACL(acl))
			}
			s.Functions[f.Key().String()] = f
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}
	}
	return nil
}

func volatilityName(code string) string {
	switch code {
	case "i":
		return "IMMUTABLE"
	case "s":
		return "STABLE"
	default:
		return "VOLATILE"
	}
}
