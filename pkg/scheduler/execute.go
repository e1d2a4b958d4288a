// SPDX-License-Identifier: Apache-2.0

package scheduler

import (
	"context"
	"database/sql"
	"strings"

	"github.com/dbschema/dbschema/pkg/db"
	"github.com/dbschema/dbschema/pkg/differ"
	"github.com/dbschema/dbschema/pkg/graph"
	"github.com/dbschema/dbschema/pkg/model"
)

// Render joins statements for Plain output mode (spec.md §4.5): one
// statement per line, written as-is to stdout or a file by the caller.
func Render(stmts []Statement) string {
	var b strings.Builder
	for _, st := range stmts {
		b.WriteString(st.SQL)
		b.WriteString("\n")
	}
	return b.String()
}

// RenderTransactional wraps the plan in BEGIN; ... COMMIT; for Transactional
// output mode, the same wrapping `pkg/roll`'s own `ensureView` reaches for
// when it needs a DROP+CREATE pair to apply atomically without a live
// connection driving it.
func RenderTransactional(stmts []Statement) string {
	var b strings.Builder
	b.WriteString("BEGIN;\n")
	b.WriteString(Render(stmts))
	b.WriteString("COMMIT;\n")
	return b.String()
}

// Execute runs the plan against rdb inside a single retryable transaction,
// rolling back on any error (spec.md §4.5 Execute mode, §5's "--single-
// transaction is the default for execute mode and MUST wrap all statements
// atomically"). It reuses db.RDB.WithRetryableTransaction directly rather
// than re-implementing lock-timeout retry, the same wrapper pkg/db already
// provides to every other blocking caller.
func Execute(ctx context.Context, rdb *db.RDB, stmts []Statement) error {
	return rdb.WithRetryableTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		for _, st := range stmts {
			if _, err := tx.ExecContext(ctx, st.SQL); err != nil {
				return err
			}
		}
		return nil
	})
}

// Revert computes the best-effort inverse of the plan that would transform
// current into desired (spec.md §4.5 Revert mode: "invert the plan (swap
// Create<->Drop, invert Rename, invert Alter by swapping old/new); best-
// effort, flagged as experimental"). Rather than hand-inverting each Change
// record — TableDelta's AddedColumns/DroppedColumns/AlteredColumns and the
// rest of the per-kind deltas are not all symmetrically invertible — it
// diffs the models in the opposite direction and re-schedules, which is
// exactly the plan a forward run from desired back to current would
// produce. This is why the mode is experimental: it reverts to whatever
// current actually looked like, not a strict undo of the exact statements
// last executed (a column default expression rewritten by Postgres's
// catalog, for instance, may not print back byte-identical to what the
// YAML originally specified).
func Revert(current, desired *model.Database, depGraph *graph.Graph) ([]Statement, error) {
	changes, err := differ.Diff(desired, current)
	if err != nil {
		return nil, err
	}
	return Schedule(changes, depGraph)
}
