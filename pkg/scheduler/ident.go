// SPDX-License-Identifier: Apache-2.0

package scheduler

import (
	"strings"

	"github.com/lib/pq"
)

// quoteIdent quotes a single identifier with pq.QuoteIdentifier, the same
// helper pkg/testutils uses for every
// identifier embedded in generated SQL.
func quoteIdent(s string) string {
	return pq.QuoteIdentifier(s)
}

// qualified renders a schema-qualified, quoted identifier.
func qualified(schema, name string) string {
	if schema == "" {
		return quoteIdent(name)
	}
	return quoteIdent(schema) + "." + quoteIdent(name)
}

// quoteLiteral quotes a SQL string literal.
func quoteLiteral(s string) string {
	return pq.QuoteLiteral(s)
}

func ensureSemicolon(s string) string {
	s = strings.TrimRight(s, " \t\n;")
	return s + ";"
}
