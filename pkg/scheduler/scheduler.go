// SPDX-License-Identifier: Apache-2.0

// Package scheduler turns a []differ.Change plan into a totally ordered
// sequence of DDL statements (spec.md §4.5): it topologically sorts the
// plan using the dependency graph pkg/linker built over the current and
// desired models, applies the DROPs-before-everything-else policy, and
// renders each kind's statements with pkg/scheduler's per-kind emitters.
// It never decides WHAT changed — that's pkg/differ's job — only the
// order statements run in and their literal SQL text.
package scheduler

import (
	"fmt"

	"github.com/dbschema/dbschema/pkg/differ"
	"github.com/dbschema/dbschema/pkg/graph"
	"github.com/dbschema/dbschema/pkg/model"
)

// Statement is one rendered DDL string plus the change it came from, kept
// so a caller can relate each statement back to its change record.
type Statement struct {
	SQL    string
	Change differ.Change
}

// unit is one schedulable emission: one or more SQL statements that must
// run together, attached to the model.Key the dependency graph orders it
// by. A single differ.Change can expand into several units (a new table's
// header plus its constraints, indexes, triggers) since the differ emits
// one Change per object but Postgres requires several statements, each
// with its own ordering constraints, to build one table (spec.md §4.5
// "split table creates into a header ... and a tail").
type unit struct {
	key    model.Key
	isDrop bool
	stmts  []Statement
}

// Schedule orders changes into the final DDL sequence. depGraph must cover
// both the current and desired models (pkg/graph.Merge(linker.Link(current),
// linker.Link(desired))) so that both dropped and created/altered objects
// resolve their dependency edges.
func Schedule(changes []differ.Change, depGraph *graph.Graph) ([]Statement, error) {
	units, err := expandAll(changes)
	if err != nil {
		return nil, err
	}

	var drops, rest []unit
	for _, u := range units {
		if u.isDrop {
			drops = append(drops, u)
		} else {
			rest = append(rest, u)
		}
	}

	// spec.md §4.5: "all DROP statements for a given diff pass are emitted
	// before all non-DROP statements of the same pass." Within each
	// bucket, order by the dependency graph; drops run in the reverse of
	// create order since a dependent must be dropped before what it
	// depends on.
	dropOrder, err := orderUnits(drops, depGraph)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(dropOrder)-1; i < j; i, j = i+1, j-1 {
		dropOrder[i], dropOrder[j] = dropOrder[j], dropOrder[i]
	}

	restOrder, err := orderUnits(rest, depGraph)
	if err != nil {
		return nil, err
	}

	var out []Statement
	for _, u := range dropOrder {
		out = append(out, u.stmts...)
	}
	for _, u := range restOrder {
		out = append(out, u.stmts...)
	}
	return out, nil
}

// orderUnits topologically sorts units by the subgraph depGraph induces
// over their keys: a unit only depends on another unit in the same batch,
// edges to objects outside the batch (already satisfied, either because
// they already exist or because they aren't part of this plan) are
// dropped silently.
func orderUnits(units []unit, depGraph *graph.Graph) ([]unit, error) {
	if len(units) == 0 {
		return nil, nil
	}

	byKey := map[string]*unit{}
	var keys []model.Key
	for i := range units {
		u := &units[i]
		id := u.key.String()
		if _, dup := byKey[id]; dup {
			return nil, fmt.Errorf("scheduler: duplicate unit for key %q", id)
		}
		byKey[id] = u
		keys = append(keys, u.key)
	}

	sub := graph.New()
	for _, k := range keys {
		sub.AddNode(k)
		for _, dep := range depGraph.DependenciesOf(k) {
			if _, ok := byKey[dep.String()]; ok {
				sub.AddEdge(k, dep)
			}
		}
	}

	order, cycles := sub.TopoSort()
	// Cycles among table creates (mutual FKs) can't arise here: FK
	// constraints are their own unit, not part of the table header's key,
	// so the cycle-inducing edge never lands in this subgraph (spec.md
	// §9 "cycles among tables thus cause no ownership problems"). Any
	// cycle reported here is between objects this scheduler can't
	// currently split further; emit them in deterministic order rather
	// than failing the whole plan.
	for _, c := range cycles {
		order = append(order, c...)
	}

	out := make([]unit, 0, len(order))
	for _, k := range order {
		out = append(out, *byKey[k.String()])
	}
	return out, nil
}
