// SPDX-License-Identifier: Apache-2.0

package connstr

import (
	"strconv"
	"strings"
)

// ConnectOptions are dbtoyaml/yamltodb/dbaugment's shared -H/-p/-U/-W
// connection flags. Fields left zero-valued are simply omitted from the
// built DSN, letting lib/pq's own libpq-compatible fallback
// (PGHOST/PGPORT/PGUSER/PGPASSWORD/PGDATABASE) fill them in — this
// package never reads those environment variables itself, since
// duplicating lib/pq's own env handling would risk drifting from libpq
// semantics.
type ConnectOptions struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

// BuildDSN renders a key=value libpq connection string carrying only the
// explicitly-set fields, so every omitted field falls through to lib/pq's
// own environment-variable handling exactly as a bare `psql` invocation
// would.
func BuildDSN(opts ConnectOptions) string {
	var parts []string
	if opts.Host != "" {
		parts = append(parts, "host="+quoteDSNValue(opts.Host))
	}
	if opts.Port != 0 {
		parts = append(parts, "port="+strconv.Itoa(opts.Port))
	}
	if opts.User != "" {
		parts = append(parts, "user="+quoteDSNValue(opts.User))
	}
	if opts.Password != "" {
		parts = append(parts, "password="+quoteDSNValue(opts.Password))
	}
	if opts.Database != "" {
		parts = append(parts, "dbname="+quoteDSNValue(opts.Database))
	}
	return strings.Join(parts, " ")
}

// quoteDSNValue renders a libpq key=value DSN value. An empty value becomes
// ''; a value containing a space, tab, quote or backslash is single-quoted
// with its quotes and backslashes escaped, matching libpq's own conninfo
// quoting rule; any other value is returned unquoted.
func quoteDSNValue(v string) string {
	if v == "" {
		return "''"
	}
	escaped := strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(v)
	if strings.ContainsAny(v, " \t'\\") {
		return "'" + escaped + "'"
	}
	return v
}
