// SPDX-License-Identifier: Apache-2.0

// Package catalog reads a live Postgres database's catalogs into a
// *model.Database, the current-side input to the differ. Every query is
// issued directly against pg_catalog (spec.md §4.1): the reader never
// shells out to pg_dump or re-parses SQL it reads back (pg_get_viewdef,
// pg_get_indexdef, pg_get_constraintdef, pg_get_functiondef are all taken
// verbatim).
package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/dbschema/dbschema/pkg/db"
	"github.com/dbschema/dbschema/pkg/model"
)

// Options controls which schemas and kinds a Reader materializes.
type Options struct {
	IncludeSchemas []string
	ExcludeSchemas []string
	IncludeTables  []string
	ExcludeTables  []string
	NoOwner        bool
	NoPrivileges   bool
}

// Reader reads catalogs from one connected database.
type Reader struct {
	db      db.DB
	version ServerVersion
	opts    Options
}

// NewReader probes the server version and returns a Reader ready to Read.
func NewReader(ctx context.Context, conn db.DB, opts Options) (*Reader, error) {
	sqlDB := conn.RawConn()
	if sqlDB == nil {
		return nil, fmt.Errorf("catalog: connection does not expose a *sql.DB")
	}
	v, err := probeServerVersion(ctx, sqlDB)
	if err != nil {
		return nil, err
	}
	return &Reader{db: conn, version: v, opts: opts}, nil
}

// Read materializes the full current-state model, in the order spec.md §2
// lists as this component's output: a complete *model.Database with
// schemas, their child objects, and the handful of database-global kinds.
func (r *Reader) Read(ctx context.Context) (*model.Database, error) {
	out := model.NewDatabase()
	filter := newSchemaFilter(r.opts.IncludeSchemas, r.opts.ExcludeSchemas)
	extFilter, err := r.readExtensionOwnership(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading extension ownership: %w", err)
	}

	schemaNames, err := r.readSchemaNames(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("reading schemas: %w", err)
	}
	for _, name := range schemaNames {
		s := model.NewSchema(name)
		if err := r.readSchemaOwnerAndACL(ctx, s); err != nil {
			return nil, fmt.Errorf("schema %q: %w", name, err)
		}
		out.Schemas[name] = s
	}

	if err := r.readTables(ctx, out, extFilter); err != nil {
		return nil, err
	}
	if err := r.readViews(ctx, out); err != nil {
		return nil, err
	}
	if err := r.readSequences(ctx, out); err != nil {
		return nil, err
	}
	if err := r.readFunctions(ctx, out); err != nil {
		return nil, err
	}
	if err := r.readAggregates(ctx, out); err != nil {
		return nil, err
	}
	if err := r.readExtensions(ctx, out); err != nil {
		return nil, err
	}
	if err := r.readLanguages(ctx, out); err != nil {
		return nil, err
	}
	if err := r.readCasts(ctx, out); err != nil {
		return nil, err
	}

	if r.opts.NoOwner {
		model.StripOwners(out)
	}

	return out, nil
}

func (r *Reader) readSchemaNames(ctx context.Context, filter schemaFilter) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, schemaListQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		if filter.allows(name) {
			names = append(names, name)
		}
	}
	return names, rows.Err()
}

func (r *Reader) readSchemaOwnerAndACL(ctx context.Context, s *model.Schema) error {
	row, err := r.db.QueryContext(ctx, schemaOwnerACLQuery, s.Name)
	if err != nil {
		return err
	}
	defer row.Close()

	if row.Next() {
		var owner string
		var acl []string
		var comment sql.NullString
		if err := row.Scan(&owner, pq.Array(&acl), &comment); err != nil {
			return err
		}
		s.SetOwner(owner)
		if comment.Valid {
			s.SetDescription(comment.String)
		}
		if !r.opts.NoPrivileges {
			s.SetPrivileges(decodeACL(acl))
		}
	}
	return row.Err()
}

func (r *Reader) readExtensionOwnership(ctx context.Context) (extensionOwnedFilter, error) {
	rows, err := r.db.QueryContext(ctx, extensionMemberOIDsQuery)
	if err != nil {
		return extensionOwnedFilter{}, err
	}
	defer rows.Close()

	owned := map[string]bool{}
	for rows.Next() {
		var oid string
		if err := rows.Scan(&oid); err != nil {
			return extensionOwnedFilter{}, err
		}
		owned[oid] = true
	}
	return extensionOwnedFilter{ownedOIDs: owned}, rows.Err()
}
