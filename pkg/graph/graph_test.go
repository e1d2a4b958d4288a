// SPDX-License-Identifier: Apache-2.0

package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbschema/dbschema/pkg/model"
)

func key(kind model.Kind, path ...string) model.Key {
	return model.NewKey(kind, path...)
}

func TestTopoSortOrdersDependenciesFirst(t *testing.T) {
	g := New()
	a := key(model.KindTable, "public", "a")
	b := key(model.KindTable, "public", "b")
	c := key(model.KindTable, "public", "c")

	// a depends on b, b depends on c
	g.AddEdge(a, b)
	g.AddEdge(b, c)

	order, cycles := g.TopoSort()
	require.Empty(t, cycles)
	assert.Equal(t, []model.Key{c, b, a}, order)
}

func TestTopoSortIsDeterministic(t *testing.T) {
	g := New()
	g.AddEdge(key(model.KindTable, "public", "z"), key(model.KindSchema, "public"))
	g.AddEdge(key(model.KindTable, "public", "a"), key(model.KindSchema, "public"))

	order1, _ := g.TopoSort()
	order2, _ := g.TopoSort()
	assert.Equal(t, order1, order2)
}

func TestTopoSortDetectsCycle(t *testing.T) {
	g := New()
	a := key(model.KindTable, "public", "a")
	b := key(model.KindTable, "public", "b")
	g.AddEdge(a, b)
	g.AddEdge(b, a)

	_, cycles := g.TopoSort()
	require.Len(t, cycles, 1)
	assert.ElementsMatch(t, []model.Key{a, b}, cycles[0])
}

func TestAddEdgeIgnoresSelfEdge(t *testing.T) {
	g := New()
	a := key(model.KindTable, "public", "a")
	g.AddEdge(a, a)
	assert.Empty(t, g.DependenciesOf(a))
}

func TestDependenciesOfIsSorted(t *testing.T) {
	g := New()
	a := key(model.KindTable, "public", "a")
	g.AddEdge(a, key(model.KindTable, "public", "z"))
	g.AddEdge(a, key(model.KindTable, "public", "b"))

	deps := g.DependenciesOf(a)
	require.Len(t, deps, 2)
	assert.True(t, deps[0].String() < deps[1].String())
}

func TestMergeCombinesNodesAndEdges(t *testing.T) {
	a := key(model.KindTable, "public", "a")
	b := key(model.KindTable, "public", "b")
	c := key(model.KindTable, "public", "c")

	g1 := New()
	g1.AddEdge(a, b)

	g2 := New()
	g2.AddEdge(b, c)

	merged := Merge(g1, g2)
	assert.ElementsMatch(t, []model.Key{b}, merged.DependenciesOf(a))
	assert.ElementsMatch(t, []model.Key{c}, merged.DependenciesOf(b))

	order, cycles := merged.TopoSort()
	assert.Empty(t, cycles)
	assert.Equal(t, []model.Key{c, b, a}, order)
}
