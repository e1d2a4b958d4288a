// SPDX-License-Identifier: Apache-2.0

package testutils

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/url"
	"os"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/dbschema/dbschema/pkg/catalog"
	"github.com/dbschema/dbschema/pkg/db"
)

// The version of postgres against which the tests are run if the
// POSTGRES_VERSION environment variable is not set.
const defaultPostgresVersion = "15.3"

// tConnStr holds the connection string to the test container created in
// SharedTestMain.
var tConnStr string

// SharedTestMain starts a postgres container to be used by all tests in a
// package. Each test then connects to the container and creates a new
// database (spec.md §6 test env: PYRSEAS_TEST_{DB,USER,HOST,PORT} name the
// equivalent knobs for a real external server; the container path below is
// this repo's default for CI).
func SharedTestMain(m *testing.M) {
	ctx := context.Background()

	waitForLogs := wait.
		ForLog("database system is ready to accept connections").
		WithOccurrence(2).
		WithStartupTimeout(5 * time.Second)

	pgVersion := os.Getenv("POSTGRES_VERSION")
	if pgVersion == "" {
		pgVersion = defaultPostgresVersion
	}

	ctr, err := postgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:"+pgVersion),
		testcontainers.WithWaitStrategy(waitForLogs),
	)
	if err != nil {
		os.Exit(1)
	}

	tConnStr, err = ctr.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		os.Exit(1)
	}

	exitCode := m.Run()

	if err := ctr.Terminate(ctx); err != nil {
		log.Printf("Failed to terminate container: %v", err)
	}

	os.Exit(exitCode)
}

// TestSchema returns the schema new test databases default to (spec.md §6's
// `PYRSEAS_TEST_*` env knobs are the equivalent for a real server).
func TestSchema() string {
	if s := os.Getenv("DBSCHEMA_TEST_SCHEMA"); s != "" {
		return s
	}
	return "public"
}

// WithConnectionToContainer creates a fresh database in the shared test
// container and hands the caller a *sql.DB and its connection string.
func WithConnectionToContainer(t *testing.T, fn func(*sql.DB, string)) {
	t.Helper()

	sqlDB, connStr, _ := setupTestDatabase(t)
	fn(sqlDB, connStr)
}

// WithReaderAndConnectionToContainer wires up a catalog.Reader against a
// fresh database in the container, for tests that exercise the Catalog
// Reader end to end (spec.md §4.1).
func WithReaderAndConnectionToContainer(t *testing.T, opts catalog.Options, fn func(*catalog.Reader, *sql.DB)) {
	t.Helper()
	ctx := context.Background()

	sqlDB, connStr, _ := setupTestDatabase(t)

	rdb, err := db.Open(connStr)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = rdb.Close() })

	r, err := catalog.NewReader(ctx, rdb, opts)
	if err != nil {
		t.Fatal(err)
	}

	fn(r, sqlDB)
}

// setupTestDatabase creates a new database in the test container and
// returns a connection to it, its connection string, and its name.
func setupTestDatabase(t *testing.T) (*sql.DB, string, string) {
	t.Helper()
	ctx := context.Background()

	tDB, err := sql.Open("postgres", tConnStr)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := tDB.Close(); err != nil {
			t.Fatalf("failed to close database connection: %v", err)
		}
	})

	dbName := randomDBName()

	_, err = tDB.ExecContext(ctx, fmt.Sprintf("CREATE DATABASE %s", pq.QuoteIdentifier(dbName)))
	if err != nil {
		t.Fatal(err)
	}

	u, err := url.Parse(tConnStr)
	if err != nil {
		t.Fatal(err)
	}
	u.Path = "/" + dbName
	connStr := u.String()

	sqlDB, err := sql.Open("postgres", connStr)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := sqlDB.Close(); err != nil {
			t.Fatalf("failed to close database connection: %v", err)
		}
	})

	return sqlDB, connStr, dbName
}
