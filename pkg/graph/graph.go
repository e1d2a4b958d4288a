// SPDX-License-Identifier: Apache-2.0

// Package graph is the shared DAG/toposort/SCC implementation used by both
// the Dependency Linker (pkg/linker) and the Scheduler (pkg/scheduler). No
// third-party graph library appears anywhere in the example corpus — the
// ordering logic for a small dependency DAG is typically hand-rolled slice
// work, so this stays plain adjacency-list Go in a few-abstractions style
// rather than reaching for an unintroduced dependency.
package graph

import (
	"sort"

	"github.com/dbschema/dbschema/pkg/model"
)

// Graph is a directed graph over model.Key nodes. Edge (a, b) means "a
// depends on b" (b must be created/dropped before a, in the appropriate
// direction for the operation).
type Graph struct {
	nodes map[string]model.Key
	edges map[string]map[string]bool // from -> set of to
}

func New() *Graph {
	return &Graph{
		nodes: map[string]model.Key{},
		edges: map[string]map[string]bool{},
	}
}

func (g *Graph) AddNode(k model.Key) {
	id := k.String()
	if _, ok := g.nodes[id]; !ok {
		g.nodes[id] = k
		g.edges[id] = map[string]bool{}
	}
}

// AddEdge records that `from` depends on `to`. Both ends are added as
// nodes if not already present. Self-edges are ignored.
func (g *Graph) AddEdge(from, to model.Key) {
	g.AddNode(from)
	g.AddNode(to)
	if from.Equal(to) {
		return
	}
	g.edges[from.String()][to.String()] = true
}

// DependenciesOf returns the keys `k` directly depends on.
func (g *Graph) DependenciesOf(k model.Key) []model.Key {
	var out []model.Key
	for id := range g.edges[k.String()] {
		out = append(out, g.nodes[id])
	}
	sortKeys(out)
	return out
}

// TopoSort returns nodes ordered so every node appears after everything it
// depends on (Kahn's algorithm). When a cycle stops the sort, order holds
// only the nodes resolved so far and cycles holds one entry listing every
// still-unresolved node, grouped SCC by SCC (see extractSCCs); placing
// those nodes is left to the caller (spec.md §4.5). TopoSort doesn't know
// which edges are deferrable and breaks no edge itself.
func (g *Graph) TopoSort() (order []model.Key, cycles [][]model.Key) {
	indegree := map[string]int{}
	for id := range g.nodes {
		indegree[id] = 0
	}
	for _, tos := range g.edges {
		for to := range tos {
			indegree[to]++
		}
	}
	// Edge (from, to) means from depends on to, so `to` must be emitted
	// first: process nodes with indegree 0 in the *reverse* graph, i.e.
	// nodes nothing points TO as a dependency yet are the sinks here.
	// Simplest correct formulation: compute out-degree-zero-first by
	// sorting on the dependency direction directly.
	remaining := map[string]bool{}
	for id := range g.nodes {
		remaining[id] = true
	}
	depCount := map[string]int{}
	for id := range g.nodes {
		depCount[id] = len(g.edges[id])
	}

	for len(remaining) > 0 {
		var ready []string
		for id := range remaining {
			if depCount[id] == 0 {
				ready = append(ready, id)
			}
		}
		if len(ready) == 0 {
			// Cycle: every remaining node has an outstanding dependency.
			cycles = append(cycles, g.extractSCCs(remaining))
			break
		}
		sort.Strings(ready)
		for _, id := range ready {
			order = append(order, g.nodes[id])
			delete(remaining, id)
		}
		for id := range remaining {
			n := 0
			for to := range g.edges[id] {
				if remaining[to] {
					n++
				}
			}
			depCount[id] = n
		}
	}
	return order, cycles
}

// extractSCCs runs Tarjan's algorithm restricted to the still-unresolved
// node set and returning all of its strongly connected components, trivial
// ones included, flattened into one list in a deterministic order (node
// and edge visits are sorted by key string).
func (g *Graph) extractSCCs(remaining map[string]bool) []model.Key {
	type tnode struct {
		index, low int
		onStack    bool
	}
	index := 0
	stack := []string{}
	info := map[string]*tnode{}
	var sccs [][]string

	var ids []string
	for id := range remaining {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var strongconnect func(v string)
	strongconnect = func(v string) {
		info[v] = &tnode{index: index, low: index, onStack: true}
		index++
		stack = append(stack, v)

		var tos []string
		for to := range g.edges[v] {
			if remaining[to] {
				tos = append(tos, to)
			}
		}
		sort.Strings(tos)
		for _, w := range tos {
			if info[w] == nil {
				strongconnect(w)
				if info[w].low < info[v].low {
					info[v].low = info[w].low
				}
			} else if info[w].onStack {
				if info[w].index < info[v].low {
					info[v].low = info[w].index
				}
			}
		}

		if info[v].low == info[v].index {
			var scc []string
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				info[w].onStack = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			sccs = append(sccs, scc)
		}
	}

	for _, id := range ids {
		if info[id] == nil {
			strongconnect(id)
		}
	}

	// Flatten every SCC in the remaining set into one combined list for the
	// caller: at this point in TopoSort every remaining node either lies on
	// a cycle or depends, directly or not, on a node that does (ready was
	// empty), so the single-node SCCs found here are those dependents.
	var out []model.Key
	for _, scc := range sccs {
		for _, id := range scc {
			out = append(out, g.nodes[id])
		}
	}
	return out
}

func sortKeys(keys []model.Key) {
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
}
