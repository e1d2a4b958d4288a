// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"reflect"
	"testing"

	"github.com/dbschema/dbschema/pkg/model"
)

func TestDiffEmptyToOneSchemaOneTable(t *testing.T) {
	current := model.NewDatabase()

	desired := model.NewDatabase()
	s := model.NewSchema("public")
	desired.Schemas["public"] = s
	tbl := model.NewTable("public", "t1")
	c1 := model.NewColumn("public", "t1", "c1")
	c1.Type = "integer"
	c1.NotNull = true
	tbl.Columns = append(tbl.Columns, c1)
	pk := model.NewPrimaryKey("public", "t1", "t1_pkey")
	pk.Columns = []string{"c1"}
	tbl.PrimaryKey = pk
	s.Tables["t1"] = tbl

	changes, err := Diff(current, desired)
	if err != nil {
		t.Fatalf("Diff: %v", err)
	}

	var creates []string
	for _, c := range changes {
		if c.Kind != ChangeCreate {
			t.Fatalf("unexpected change kind %v in empty->new diff: %+v", c.Kind, c)
		}
		creates = append(creates, c.Object.Key().String())
	}
	if len(creates) != 4 { // schema, table, column, primary key
		t.Fatalf("got %d creates, want 4: %v", len(creates), creates)
	}
}

func TestDiffAddColumn(t *testing.T) {
	current := baseOneTableDB(t)
	desired := baseOneTableDB(t)
	tbl := desired.Schemas["public"].Tables["t1"]
	c2 := model.NewColumn("public", "t1", "c2")
	c2.Type = "text"
	tbl.Columns = append(tbl.Columns, c2)

	changes, err := Diff(current, desired)
	if err != nil {
		t.Fatalf("Diff: %v", err)
	}
	var alters []Change
	for _, c := range changes {
		if c.Kind == ChangeAlter {
			alters = append(alters, c)
		}
	}
	if len(alters) != 1 {
		t.Fatalf("got %d alter changes, want 1: %+v", len(alters), changes)
	}
	delta, ok := alters[0].Deltas["table"].(TableDelta)
	if !ok {
		t.Fatalf("alter delta is not a TableDelta: %+v", alters[0].Deltas)
	}
	if len(delta.AddedColumns) != 1 || delta.AddedColumns[0].Name != "c2" {
		t.Fatalf("expected c2 added, got %+v", delta.AddedColumns)
	}
}

func TestDiffDropColumn(t *testing.T) {
	current := baseOneTableDB(t)
	desired := model.NewDatabase()
	s := model.NewSchema("public")
	desired.Schemas["public"] = s
	s.Tables["t1"] = model.NewTable("public", "t1") // no columns left

	changes, err := Diff(current, desired)
	if err != nil {
		t.Fatalf("Diff: %v", err)
	}
	var delta TableDelta
	found := false
	for _, c := range changes {
		if c.Kind == ChangeAlter {
			if d, ok := c.Deltas["table"].(TableDelta); ok {
				delta, found = d, true
			}
		}
	}
	if !found {
		t.Fatalf("expected an ALTER for the table, got %+v", changes)
	}
	if len(delta.DroppedColumns) != 1 || delta.DroppedColumns[0] != "c1" {
		t.Fatalf("expected c1 dropped, got %+v", delta.DroppedColumns)
	}
}

func TestDiffRenameDetection(t *testing.T) {
	current := model.NewDatabase()
	s := model.NewSchema("public")
	current.Schemas["public"] = s
	s.Tables["old_t"] = model.NewTable("public", "old_t")

	desired := model.NewDatabase()
	ds := model.NewSchema("public")
	desired.Schemas["public"] = ds
	newT := model.NewTable("public", "new_t")
	newT.SetOldName("public", "old_t")
	ds.Tables["new_t"] = newT

	changes, err := Diff(current, desired)
	if err != nil {
		t.Fatalf("Diff: %v", err)
	}

	var renames, drops, creates int
	for _, c := range changes {
		switch c.Kind {
		case ChangeRename:
			renames++
			if !c.OldKey.Equal(model.NewKey(model.KindTable, "public", "old_t")) {
				t.Errorf("unexpected OldKey %v", c.OldKey)
			}
			if !c.NewKey.Equal(model.NewKey(model.KindTable, "public", "new_t")) {
				t.Errorf("unexpected NewKey %v", c.NewKey)
			}
		case ChangeDrop:
			if c.Object.Key().Kind == model.KindTable {
				drops++
			}
		case ChangeCreate:
			if c.Object.Key().Kind == model.KindTable {
				creates++
			}
		}
	}
	if renames != 1 {
		t.Fatalf("got %d renames, want exactly 1: %+v", renames, changes)
	}
	if drops != 0 || creates != 0 {
		t.Fatalf("rename must not also emit a table drop/create pair: drops=%d creates=%d", drops, creates)
	}
}

func TestDiffRenameKindMismatchErrors(t *testing.T) {
	current := model.NewDatabase()
	s := model.NewSchema("public")
	current.Schemas["public"] = s
	s.Views["old_v"] = model.NewView("public", "old_v")

	desired := model.NewDatabase()
	ds := model.NewSchema("public")
	desired.Schemas["public"] = ds
	newT := model.NewTable("public", "new_t")
	newT.SetOldName("public", "old_v")
	ds.Tables["new_t"] = newT

	_, err := Diff(current, desired)
	if err == nil {
		t.Fatalf("expected an error when oldname resolves to a different kind")
	}
}

func TestDiffGrantOnly(t *testing.T) {
	current := baseOneTableDB(t)
	desired := baseOneTableDB(t)
	tbl := desired.Schemas["public"].Tables["t1"]
	tbl.SetPrivileges([]model.Privilege{{Grantee: "alice", Privilege: "SELECT"}})

	changes, err := Diff(current, desired)
	if err != nil {
		t.Fatalf("Diff: %v", err)
	}
	var grantChanges []Change
	for _, c := range changes {
		if c.Kind == ChangeGrantRevoke {
			grantChanges = append(grantChanges, c)
		}
	}
	if len(grantChanges) != 1 {
		t.Fatalf("got %d grant/revoke changes, want 1: %+v", len(grantChanges), changes)
	}
	gc := grantChanges[0]
	if len(gc.Grants) != 1 || gc.Grants[0].Grantee != "alice" {
		t.Fatalf("expected one grant to alice, got %+v", gc.Grants)
	}
	if len(gc.Revokes) != 0 {
		t.Fatalf("expected no revokes, got %+v", gc.Revokes)
	}
}

func TestDiffGrantRevokeOrderIsDeterministic(t *testing.T) {
	current := baseOneTableDB(t)
	currentTbl := current.Schemas["public"].Tables["t1"]
	currentTbl.SetPrivileges([]model.Privilege{
		{Grantee: "bob", Privilege: "SELECT"},
		{Grantee: "alice", Privilege: "DELETE"},
		{Grantee: "carol", Privilege: "INSERT"},
	})

	desired := baseOneTableDB(t)
	desiredTbl := desired.Schemas["public"].Tables["t1"]
	desiredTbl.SetPrivileges([]model.Privilege{
		{Grantee: "alice", Privilege: "SELECT"},
		{Grantee: "bob", Privilege: "UPDATE"},
		{Grantee: "alice", Privilege: "INSERT"},
	})

	var firstGrants, firstRevokes []model.Privilege
	for i := 0; i < 20; i++ {
		changes, err := Diff(current, desired)
		if err != nil {
			t.Fatalf("Diff: %v", err)
		}
		var gc *Change
		for j := range changes {
			if changes[j].Kind == ChangeGrantRevoke {
				gc = &changes[j]
			}
		}
		if gc == nil {
			t.Fatalf("expected a grant/revoke change, got %+v", changes)
		}
		if i == 0 {
			firstGrants, firstRevokes = gc.Grants, gc.Revokes
			if len(firstGrants) < 2 || len(firstRevokes) < 2 {
				t.Fatalf("test needs >=2 grants and >=2 revokes to exercise ordering, got %d/%d", len(firstGrants), len(firstRevokes))
			}
			continue
		}
		if !reflect.DeepEqual(gc.Grants, firstGrants) {
			t.Fatalf("grant order unstable across runs: run 0 = %+v, run %d = %+v", firstGrants, i, gc.Grants)
		}
		if !reflect.DeepEqual(gc.Revokes, firstRevokes) {
			t.Fatalf("revoke order unstable across runs: run 0 = %+v, run %d = %+v", firstRevokes, i, gc.Revokes)
		}
	}

	for i := 1; i < len(firstGrants); i++ {
		if firstGrants[i-1].Grantee > firstGrants[i].Grantee {
			t.Fatalf("grants not sorted by grantee: %+v", firstGrants)
		}
	}
	for i := 1; i < len(firstRevokes); i++ {
		if firstRevokes[i-1].Grantee > firstRevokes[i].Grantee {
			t.Fatalf("revokes not sorted by grantee: %+v", firstRevokes)
		}
	}
}

func TestDiffColumnReorderDetectsTypeChange(t *testing.T) {
	// Historical 0.8.3 bug: a column reorder combined with a type change on
	// the shifted column must still be detected as an ALTER.
	current := model.NewDatabase()
	s := model.NewSchema("public")
	current.Schemas["public"] = s
	tbl := model.NewTable("public", "t1")
	a := model.NewColumn("public", "t1", "a")
	a.Type = "integer"
	b := model.NewColumn("public", "t1", "b")
	b.Type = "integer"
	tbl.Columns = append(tbl.Columns, a, b)
	s.Tables["t1"] = tbl

	desired := model.NewDatabase()
	ds := model.NewSchema("public")
	desired.Schemas["public"] = ds
	dtbl := model.NewTable("public", "t1")
	db := model.NewColumn("public", "t1", "b")
	db.Type = "text" // type changed
	da := model.NewColumn("public", "t1", "a")
	da.Type = "integer"
	dtbl.Columns = append(dtbl.Columns, db, da) // reordered: b, a
	ds.Tables["t1"] = dtbl

	changes, err := Diff(current, desired)
	if err != nil {
		t.Fatalf("Diff: %v", err)
	}
	var delta TableDelta
	found := false
	for _, c := range changes {
		if c.Kind == ChangeAlter {
			if d, ok := c.Deltas["table"].(TableDelta); ok {
				delta = d
				found = true
			}
		}
	}
	if !found {
		t.Fatalf("expected an ALTER for the table, got %+v", changes)
	}
	if len(delta.AlteredColumns) != 1 || delta.AlteredColumns[0].Name != "b" || !delta.AlteredColumns[0].TypeChanged {
		t.Fatalf("expected column b's type change to be detected, got %+v", delta.AlteredColumns)
	}
	if len(delta.ReorderNoted) == 0 {
		t.Fatalf("expected the reorder to be noted informationally")
	}
}

func TestDiffIdempotentOnUnchangedModel(t *testing.T) {
	db := baseOneTableDB(t)
	changes, err := Diff(db, baseOneTableDB(t))
	if err != nil {
		t.Fatalf("Diff: %v", err)
	}
	if len(changes) != 0 {
		t.Fatalf("diffing a database against an identical copy should yield no changes, got %+v", changes)
	}
}

func baseOneTableDB(t *testing.T) *model.Database {
	t.Helper()
	db := model.NewDatabase()
	s := model.NewSchema("public")
	db.Schemas["public"] = s
	tbl := model.NewTable("public", "t1")
	c1 := model.NewColumn("public", "t1", "c1")
	c1.Type = "integer"
	tbl.Columns = append(tbl.Columns, c1)
	s.Tables["t1"] = tbl
	return db
}
