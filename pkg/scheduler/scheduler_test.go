// SPDX-License-Identifier: Apache-2.0

package scheduler

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbschema/dbschema/pkg/differ"
	"github.com/dbschema/dbschema/pkg/graph"
	"github.com/dbschema/dbschema/pkg/linker"
	"github.com/dbschema/dbschema/pkg/model"
)

func newBasicTable(schema, name string) *model.Table {
	t := model.NewTable(schema, name)
	id := model.NewColumn(schema, name, "id")
	id.Type = "integer"
	id.NotNull = true
	t.Columns = append(t.Columns, id)
	pk := model.NewPrimaryKey(schema, name, name+"_pkey")
	pk.Columns = []string{"id"}
	t.PrimaryKey = pk
	return t
}

// TestCreateTableThenPrimaryKey covers spec.md §8 scenario 1: a brand new
// table with a primary key is split into a header CREATE TABLE and a
// separate ALTER TABLE ADD CONSTRAINT, in that order.
func TestCreateTableThenPrimaryKey(t *testing.T) {
	desired := model.NewDatabase()
	s := model.NewSchema("public")
	tbl := newBasicTable("public", "films")
	s.Tables["films"] = tbl
	desired.Schemas["public"] = s

	current := model.NewDatabase()
	current.Schemas["public"] = model.NewSchema("public")

	changes, err := differ.Diff(current, desired)
	require.NoError(t, err)

	depGraph := graph.Merge(linker.Link(current), linker.Link(desired))
	stmts, err := Schedule(changes, depGraph)
	require.NoError(t, err)

	var createTableIdx, addPKIdx = -1, -1
	for i, st := range stmts {
		if strings.Contains(st.SQL, "CREATE TABLE") {
			createTableIdx = i
		}
		if strings.Contains(st.SQL, "ADD CONSTRAINT") && strings.Contains(st.SQL, "PRIMARY KEY") {
			addPKIdx = i
		}
	}
	require.NotEqual(t, -1, createTableIdx, "expected a CREATE TABLE statement")
	require.NotEqual(t, -1, addPKIdx, "expected an ADD CONSTRAINT ... PRIMARY KEY statement")
	assert.Less(t, createTableIdx, addPKIdx, "table header must precede its primary key")
}

// TestDropsRunBeforeNonDrops covers spec.md §4.5's blanket ordering
// policy: every DROP in a plan precedes every non-DROP, even when the
// dependency graph alone would not require it.
func TestDropsRunBeforeNonDrops(t *testing.T) {
	current := model.NewDatabase()
	cs := model.NewSchema("public")
	cs.Tables["old_table"] = newBasicTable("public", "old_table")
	current.Schemas["public"] = cs

	desired := model.NewDatabase()
	ds := model.NewSchema("public")
	ds.Tables["new_table"] = newBasicTable("public", "new_table")
	desired.Schemas["public"] = ds

	changes, err := differ.Diff(current, desired)
	require.NoError(t, err)

	depGraph := graph.Merge(linker.Link(current), linker.Link(desired))
	stmts, err := Schedule(changes, depGraph)
	require.NoError(t, err)

	sawCreate := false
	for _, st := range stmts {
		if strings.HasPrefix(st.SQL, "CREATE TABLE") {
			sawCreate = true
		}
		if strings.HasPrefix(st.SQL, "DROP TABLE") {
			assert.False(t, sawCreate, "a DROP must not follow a CREATE in the same plan")
		}
	}
}

// TestRenameIsNotDropCreate covers spec.md §8's rename scenario: a rename
// declared via oldname must produce a single ALTER ... RENAME, never a
// DROP paired with a CREATE.
func TestRenameIsNotDropCreate(t *testing.T) {
	newColumnOnlyTable := func(schema, name string) *model.Table {
		tbl := model.NewTable(schema, name)
		id := model.NewColumn(schema, name, "id")
		id.Type = "integer"
		tbl.Columns = append(tbl.Columns, id)
		return tbl
	}

	current := model.NewDatabase()
	cs := model.NewSchema("public")
	cs.Tables["films"] = newColumnOnlyTable("public", "films")
	current.Schemas["public"] = cs

	desired := model.NewDatabase()
	ds := model.NewSchema("public")
	renamed := newColumnOnlyTable("public", "movies")
	renamed.SetOldName("public", "films")
	ds.Tables["movies"] = renamed
	desired.Schemas["public"] = ds

	changes, err := differ.Diff(current, desired)
	require.NoError(t, err)

	depGraph := graph.Merge(linker.Link(current), linker.Link(desired))
	stmts, err := Schedule(changes, depGraph)
	require.NoError(t, err)

	require.Len(t, stmts, 1)
	assert.Contains(t, stmts[0].SQL, "RENAME TO")
}

// TestDropColumnDoesNotDropOwnedSequence covers spec.md §8 scenario 4:
// dropping a serial column implicitly drops its owned sequence, so no
// separate DROP SEQUENCE should ever appear in the plan.
func TestDropColumnDoesNotDropOwnedSequence(t *testing.T) {
	current := model.NewDatabase()
	cs := model.NewSchema("public")
	tbl := model.NewTable("public", "t")
	c1 := model.NewColumn("public", "t", "c1")
	c1.Type = "integer"
	c1.OwnedSequence = "t_c1_seq"
	tbl.Columns = append(tbl.Columns, c1)
	cs.Tables["t"] = tbl
	seq := model.NewSequence("public", "t_c1_seq")
	seq.OwnedTable = "t"
	seq.OwnedColumn = "c1"
	cs.Sequences["t_c1_seq"] = seq
	current.Schemas["public"] = cs

	desired := model.NewDatabase()
	ds := model.NewSchema("public")
	ds.Tables["t"] = model.NewTable("public", "t") // c1 dropped
	desired.Schemas["public"] = ds

	changes, err := differ.Diff(current, desired)
	require.NoError(t, err)

	depGraph := graph.Merge(linker.Link(current), linker.Link(desired))
	stmts, err := Schedule(changes, depGraph)
	require.NoError(t, err)

	for _, st := range stmts {
		assert.NotContains(t, st.SQL, "DROP SEQUENCE", "owned sequence must not be dropped standalone")
	}
}

// TestRenderTransactionalWrapsPlan covers spec.md §4.5's Transactional
// output mode.
func TestRenderTransactionalWrapsPlan(t *testing.T) {
	stmts := []Statement{{SQL: "CREATE TABLE public.films (id integer NOT NULL);"}}
	out := RenderTransactional(stmts)
	assert.True(t, strings.HasPrefix(out, "BEGIN;\n"))
	assert.True(t, strings.HasSuffix(out, "COMMIT;\n"))
	assert.Contains(t, out, stmts[0].SQL)
}

// TestRevertInvertsCreateToDrop covers spec.md §4.5's Revert mode: reverting
// a plan that created a table produces a plan that drops it.
func TestRevertInvertsCreateToDrop(t *testing.T) {
	desired := model.NewDatabase()
	ds := model.NewSchema("public")
	ds.Tables["films"] = newBasicTable("public", "films")
	desired.Schemas["public"] = ds

	current := model.NewDatabase()
	current.Schemas["public"] = model.NewSchema("public")

	depGraph := graph.Merge(linker.Link(current), linker.Link(desired))
	stmts, err := Revert(current, desired, depGraph)
	require.NoError(t, err)

	sawDrop := false
	for _, st := range stmts {
		if strings.HasPrefix(st.SQL, "DROP TABLE") {
			sawDrop = true
		}
		assert.False(t, strings.HasPrefix(st.SQL, "CREATE TABLE"), "reverting a create must not itself create")
	}
	assert.True(t, sawDrop, "expected a DROP TABLE statement reverting the original create")
}
