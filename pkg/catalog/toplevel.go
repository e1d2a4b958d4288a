// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"context"
	"database/sql"

	"github.com/dbschema/dbschema/pkg/model"
)

func (r *Reader) readExtensions(ctx context.Context, out *model.Database) error {
	rows, err := r.db.QueryContext(ctx, extensionListQuery)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var name, schema, version string
		var comment sql.NullString
		if err := rows.Scan(&name, &schema, &version, &comment); err != nil {
			return err
		}
		e := model.NewExtension(name)
		e.Schema = schema
		e.Version = version
		if comment.Valid {
			e.SetDescription(comment.String)
		}
		out.Extensions[name] = e
	}
	return rows.Err()
}

func (r *Reader) readLanguages(ctx context.Context, out *model.Database) error {
	rows, err := r.db.QueryContext(ctx, languageListQuery)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		var trusted bool
		var handler, validator sql.NullString
		if err := rows.Scan(&name, &trusted, &handler, &validator); err != nil {
			return err
		}
		l := model.NewLanguage(name)
		l.Trusted = trusted
		l.HandlerFunc = handler.String
		l.ValidatorFunc = validator.String
		out.Languages[name] = l
	}
	return rows.Err()
}

func (r *Reader) readCasts(ctx context.Context, out *model.Database) error {
	rows, err := r.db.QueryContext(ctx, castListQuery)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var source, target, function, castCtx, method string
		if err := rows.Scan(&source, &target, &function, &castCtx, &method); err != nil {
			return err
		}
		c := model.NewCast(source, target)
		c.Function = function
		c.Context = castContextName(castCtx)
		c.Method = method
		out.Casts[c.Key().String()] = c
	}
	return rows.Err()
}

func castContextName(code string) string {
	switch code {
	case "a":
		return "ASSIGNMENT"
	case "i":
		return "IMPLICIT"
	default:
		return "EXPLICIT"
	}
}
