// SPDX-License-Identifier: Apache-2.0

// Package sqlcheck is a syntax-check gate over the raw SQL text a
// YAML-authored desired model embeds (view/matview definitions, trigger
// definitions, check-constraint expressions). spec.md §4.1 forbids
// re-parsing SQL the engine reads back from Postgres's own catalog
// functions, but it never forbids validating SQL a *user* typed into a
// YAML file before that text is spliced into a generated CREATE
// statement — a malformed view definition should fail at load time
// (spec.md §7 "YAML parse ... abort before any DDL is emitted"), not
// produce a syntactically invalid CREATE VIEW.
//
// This is deliberately narrow: it never rewrites or re-derives semantics
// from the parse tree, only calls pg_query.Parse as a well-formedness
// check and discards the result.
package sqlcheck

import (
	"fmt"

	pg_query "github.com/pganalyze/pg_query_go/v6"

	"github.com/dbschema/dbschema/pkg/model"
)

// SyntaxError names the object and raw text that failed to parse.
type SyntaxError struct {
	Key    model.Key
	Field  string
	Detail string
}

func (e SyntaxError) Error() string {
	return fmt.Sprintf("%s: invalid SQL in %s: %s", e.Key.String(), e.Field, e.Detail)
}

// Database parses every embedded SQL fragment in db that came from a
// user-authored YAML document (objects read from a live catalog are never
// checked here — their text is catalog-verbatim by construction) and
// returns every well-formedness failure found, rather than stopping at the
// first one, so a single abort-before-DDL report can list them all
// (spec.md §7).
func Database(db *model.Database) []error {
	var errs []error
	for _, s := range db.Schemas {
		for _, v := range s.Views {
			if v.OID() != "" {
				continue
			}
			if err := parseStatement(v.Definition); err != nil {
				errs = append(errs, SyntaxError{Key: v.Key(), Field: "definition", Detail: err.Error()})
			}
		}
		for _, mv := range s.MatViews {
			if mv.OID() != "" {
				continue
			}
			if err := parseStatement(mv.Definition); err != nil {
				errs = append(errs, SyntaxError{Key: mv.Key(), Field: "definition", Detail: err.Error()})
			}
		}
		for _, t := range s.Tables {
			for _, trg := range t.Triggers {
				if trg.OID() != "" {
					continue
				}
				if err := parseStatement(trg.Definition); err != nil {
					errs = append(errs, SyntaxError{Key: trg.Key(), Field: "definition", Detail: err.Error()})
				}
			}
			for _, cc := range t.CheckConstraints {
				if cc.OID() != "" {
					continue
				}
				if err := parseExpression(cc.Expression); err != nil {
					errs = append(errs, SyntaxError{Key: cc.Key(), Field: "expression", Detail: err.Error()})
				}
			}
		}
	}
	return errs
}

func parseStatement(sql string) error {
	if sql == "" {
		return nil
	}
	_, err := pg_query.Parse(sql)
	return err
}

// parseExpression validates a bare expression (a CHECK constraint's body
// has no statement of its own) by wrapping it in a throwaway SELECT, the
// standard way to syntax-check an expression fragment with a
// statement-level parser.
func parseExpression(expr string) error {
	if expr == "" {
		return nil
	}
	_, err := pg_query.Parse("SELECT " + expr)
	return err
}
