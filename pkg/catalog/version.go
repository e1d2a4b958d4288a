// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"golang.org/x/mod/semver"
)

// ServerVersion is a Postgres major version, held as a semver-comparable
// string ("v9.4.0".."v15.0.0") so readColumns can pick versioned query text
// with golang.org/x/mod/semver instead of a hand-rolled comparator
// (spec.md §4.1: "queries are versioned").
type ServerVersion string

const (
	PG94 ServerVersion = "v9.4.0"
	PG95 ServerVersion = "v9.5.0"
	PG96 ServerVersion = "v9.6.0"
	PG10 ServerVersion = "v10.0.0"
	PG11 ServerVersion = "v11.0.0"
	PG12 ServerVersion = "v12.0.0"
	PG13 ServerVersion = "v13.0.0"
	PG14 ServerVersion = "v14.0.0"
	PG15 ServerVersion = "v15.0.0"
)

// AtLeast reports whether v is the same version as, or newer than, other.
func (v ServerVersion) AtLeast(other ServerVersion) bool {
	return semver.Compare(string(v), string(other)) >= 0
}

// probeServerVersion reads server_version_num (e.g. 150003 for 15.3) and
// converts it to a ServerVersion, the way pkg/roll/roll.go probes the
// server version once per run before deciding which behavior to use.
func probeServerVersion(ctx context.Context, db *sql.DB) (ServerVersion, error) {
	var raw string
	row := db.QueryRowContext(ctx, "SELECT current_setting('server_version_num')")
	if err := row.Scan(&raw); err != nil {
		return "", fmt.Errorf("probing server_version_num: %w", err)
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return "", fmt.Errorf("parsing server_version_num %q: %w", raw, err)
	}

	major, minor := n/10000, (n/100)%100
	if major >= 10 {
		// From PG10 onward the numbering dropped the second component
		// (150003 means 15.3, not 15.0.3).
		minor = n % 100
	}
	return ServerVersion(fmt.Sprintf("v%d.%d.0", major, minor)), nil
}
