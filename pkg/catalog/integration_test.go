// SPDX-License-Identifier: Apache-2.0

package catalog_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/lib/pq"

	"github.com/dbschema/dbschema/pkg/catalog"
	"github.com/dbschema/dbschema/pkg/testutils"

	errcodes "github.com/dbschema/dbschema/internal/testutils"
)

func TestMain(m *testing.M) {
	testutils.SharedTestMain(m)
}

// TestReadTableWithPrimaryKey covers spec.md §4.1's end-to-end contract:
// given a connected session, Read returns a fully populated model of a
// real table, its column and its primary key.
func TestReadTableWithPrimaryKey(t *testing.T) {
	testutils.WithReaderAndConnectionToContainer(t, catalog.Options{}, func(r *catalog.Reader, db *sql.DB) {
		ctx := context.Background()
		schema := testutils.TestSchema()

		if _, err := db.ExecContext(ctx, `CREATE TABLE films (id integer PRIMARY KEY, title text NOT NULL)`); err != nil {
			t.Fatalf("creating fixture table: %v", err)
		}

		out, err := r.Read(ctx)
		if err != nil {
			t.Fatalf("Read: %v", err)
		}

		s := out.Schemas[schema]
		if s == nil {
			t.Fatalf("schema %q not read", schema)
		}
		tbl := s.Tables["films"]
		if tbl == nil {
			t.Fatal("table films not read")
		}
		if len(tbl.Columns) != 2 {
			t.Fatalf("got %d columns, want 2", len(tbl.Columns))
		}
		if tbl.Columns[0].Name != "id" || tbl.Columns[1].Name != "title" {
			t.Fatalf("column order not preserved: %+v", tbl.Columns)
		}
		if !tbl.Columns[1].NotNull {
			t.Fatal("title should be NOT NULL")
		}
		if tbl.PrimaryKey == nil || len(tbl.PrimaryKey.Columns) != 1 || tbl.PrimaryKey.Columns[0] != "id" {
			t.Fatalf("primary key not read correctly: %+v", tbl.PrimaryKey)
		}
	})
}

// TestReadAggregateFunction covers spec.md §4.3's aggregate attribute set
// (state/final functions and state type), read via pg_aggregate rather than
// the plain function query (prokind = 'a' is excluded there).
func TestReadAggregateFunction(t *testing.T) {
	testutils.WithReaderAndConnectionToContainer(t, catalog.Options{}, func(r *catalog.Reader, db *sql.DB) {
		ctx := context.Background()
		schema := testutils.TestSchema()

		if _, err := db.ExecContext(ctx, `
			CREATE FUNCTION sum_state(state integer, val integer) RETURNS integer
			AS 'SELECT $1 + $2' LANGUAGE SQL IMMUTABLE;
			CREATE AGGREGATE my_sum(integer) (
				sfunc = sum_state,
				stype = integer,
				initcond = '0'
			);
		`); err != nil {
			t.Fatalf("creating fixture aggregate: %v", err)
		}

		out, err := r.Read(ctx)
		if err != nil {
			t.Fatalf("Read: %v", err)
		}

		s := out.Schemas[schema]
		if s == nil {
			t.Fatalf("schema %q not read", schema)
		}

		var found bool
		for _, a := range s.Aggregates {
			if a.Name == "my_sum" {
				found = true
				if a.StateFunc != "sum_state" {
					t.Errorf("StateFunc = %q, want sum_state", a.StateFunc)
				}
				if a.StateType != "integer" {
					t.Errorf("StateType = %q, want integer", a.StateType)
				}
				if a.InitialCond != "0" {
					t.Errorf("InitialCond = %q, want 0", a.InitialCond)
				}
			}
		}
		if !found {
			t.Fatal("aggregate my_sum not read")
		}

		for _, f := range s.Functions {
			if f.Name == "my_sum" {
				t.Fatal("aggregate must not also appear as a plain function")
			}
		}
	})
}

// TestReadConstraintsMatchLiveViolations covers spec.md §3's constraint-kind
// list: reads a table with one of each constraint kind the differ cares
// about (check, pk/uk, fk) and confirms the rows Read returns for each one
// agree with what the live server actually rejects, asserted via the
// precise SQLSTATE name libpq reports for each violation (spec.md §4.4's
// attribute-delta work only matters if the kinds it diffs are exactly the
// ones Postgres enforces).
func TestReadConstraintsMatchLiveViolations(t *testing.T) {
	testutils.WithReaderAndConnectionToContainer(t, catalog.Options{}, func(r *catalog.Reader, db *sql.DB) {
		ctx := context.Background()
		schema := testutils.TestSchema()

		stmts := []string{
			`CREATE TABLE genres (id integer PRIMARY KEY, name text UNIQUE NOT NULL)`,
			`INSERT INTO genres (id, name) VALUES (1, 'drama')`,
			`CREATE TABLE films (
				id integer PRIMARY KEY,
				genre_id integer NOT NULL REFERENCES genres (id),
				year integer CHECK (year > 1888)
			)`,
			`INSERT INTO films (id, genre_id, year) VALUES (1, 1, 2000)`,
		}
		for _, stmt := range stmts {
			if _, err := db.ExecContext(ctx, stmt); err != nil {
				t.Fatalf("creating fixtures: %v", err)
			}
		}

		out, err := r.Read(ctx)
		if err != nil {
			t.Fatalf("Read: %v", err)
		}

		s := out.Schemas[schema]
		if s == nil {
			t.Fatalf("schema %q not read", schema)
		}

		films := s.Tables["films"]
		if films == nil {
			t.Fatal("table films not read")
		}
		if len(films.ForeignKeys) != 1 {
			t.Fatalf("got %d foreign keys on films, want 1", len(films.ForeignKeys))
		}
		if len(films.CheckConstraints) != 1 {
			t.Fatalf("got %d check constraints on films, want 1", len(films.CheckConstraints))
		}

		genres := s.Tables["genres"]
		if genres == nil {
			t.Fatal("table genres not read")
		}
		if len(genres.UniqueConstraints) != 1 {
			t.Fatalf("got %d unique constraints on genres, want 1", len(genres.UniqueConstraints))
		}

		assertViolation(t, db, ctx,
			`INSERT INTO films (id, genre_id, year) VALUES (2, 1, 1800)`,
			errcodes.CheckViolationErrorCode)
		assertViolation(t, db, ctx,
			`INSERT INTO films (id, genre_id, year) VALUES (3, 99, 2000)`,
			errcodes.FKViolationErrorCode)
		assertViolation(t, db, ctx,
			`INSERT INTO genres (id, name) VALUES (2, 'drama')`,
			errcodes.UniqueViolationErrorCode)
		assertViolation(t, db, ctx,
			`INSERT INTO genres (id, name) VALUES (3, NULL)`,
			errcodes.NotNullViolationErrorCode)
	})
}

func assertViolation(t *testing.T, db *sql.DB, ctx context.Context, stmt, wantCode string) {
	t.Helper()

	_, err := db.ExecContext(ctx, stmt)
	if err == nil {
		t.Fatalf("expected %q to fail", stmt)
	}

	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		t.Fatalf("expected a *pq.Error, got %T: %v", err, err)
	}
	if pqErr.Code.Name() != wantCode {
		t.Fatalf("expected %q to fail with %q, got %q", stmt, wantCode, pqErr.Code.Name())
	}
}
