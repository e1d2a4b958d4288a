// SPDX-License-Identifier: Apache-2.0

package graph

// Merge combines every node and edge of the given graphs into one new
// Graph. The Scheduler (spec.md §4.5) needs a single dependency graph that
// spans both the current-side and desired-side models — an object being
// dropped only has edges in the current model's graph, one being created
// only in the desired model's — so callers link each model independently
// (pkg/linker) and merge the results before scheduling.
func Merge(graphs ...*Graph) *Graph {
	out := New()
	for _, g := range graphs {
		if g == nil {
			continue
		}
		for id, k := range g.nodes {
			out.AddNode(k)
			for to := range g.edges[id] {
				out.edges[id][to] = true
				if _, ok := out.nodes[to]; !ok {
					out.nodes[to] = g.nodes[to]
				}
			}
		}
	}
	return out
}
