// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"github.com/dbschema/dbschema/pkg/model"
)

// readAggregates reads pg_aggregate rows, joined back to pg_proc for the
// name/owner/acl/comment every routine kind shares (spec.md §4.3: "aggregate
// -> state/final/combine functions and state type"). A separate query from
// readFunctions: prokind = 'a' rows are excluded from functionListQuery so
// aggregates are never read twice.
func (r *Reader) readAggregates(ctx context.Context, out *model.Database) error {
	for schemaName, s := range out.Schemas {
		rows, err := r.db.QueryContext(ctx, aggregateListQuery, schemaName)
		if err != nil {
			return err
		}

		for rows.Next() {
			var oid, name, argTypes, owner, stateFunc, stateType, finalFunc, combineFunc, initCond string
			var acl []string
			var comment sql.NullString
			if err := rows.Scan(&oid, &name, &argTypes, &owner, pq.Array(&acl), &comment,
				&stateFunc, &stateType, &finalFunc, &combineFunc, &initCond); err != nil {
				rows.Close()
				return err
			}

			a := model.NewAggregate(schemaName, name, argTypes)
			a.SetOID(oid)
			a.SetOwner(owner)
			a.StateFunc = stateFunc
			a.StateType = stateType
			a.FinalFunc = finalFunc
			a.CombineFunc = combineFunc
			a.InitialCond = initCond
			if comment.Valid {
				a.SetDescription(comment.String)
			}
			if !r.opts.NoPrivileges {
				a.SetPrivileges(decodeACL(acl))
			}
			s.Aggregates[a.Key().String()] = a
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}
	}
	return nil
}
