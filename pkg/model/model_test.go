// SPDX-License-Identifier: Apache-2.0

package model

import (
	"testing"
)

func TestKeyStringAndEqual(t *testing.T) {
	k1 := NewKey(KindTable, "public", "films")
	k2 := NewKey(KindTable, "public", "films")
	k3 := NewKey(KindTable, "public", "actors")

	if !k1.Equal(k2) {
		t.Fatalf("expected %v to equal %v", k1, k2)
	}
	if k1.Equal(k3) {
		t.Fatalf("expected %v to differ from %v", k1, k3)
	}
	if k1.Name() != "films" {
		t.Fatalf("Name() = %q, want films", k1.Name())
	}
	if got, want := k1.String(), "table:public/films"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}

func TestBaseRenamedOneShot(t *testing.T) {
	tbl := NewTable("public", "new_t")
	if _, isRename := tbl.Renamed(); isRename {
		t.Fatalf("fresh table should not report a rename")
	}
	tbl.SetOldName("public", "old_t")
	old, isRename := tbl.Renamed()
	if !isRename {
		t.Fatalf("expected a rename after SetOldName")
	}
	want := NewKey(KindTable, "public", "old_t")
	if !old.Equal(want) {
		t.Fatalf("Renamed() = %v, want %v", old, want)
	}
}

func TestDatabaseAllObjectsIncludesTableChildren(t *testing.T) {
	db := NewDatabase()
	s := NewSchema("public")
	db.Schemas["public"] = s

	tbl := NewTable("public", "t1")
	c1 := NewColumn("public", "t1", "id")
	c1.Type = "integer"
	c1.NotNull = true
	tbl.Columns = append(tbl.Columns, c1)

	pk := NewPrimaryKey("public", "t1", "t1_pkey")
	pk.Columns = []string{"id"}
	tbl.PrimaryKey = pk

	ec := NewExcludeConstraint("public", "t1", "t1_excl")
	ec.Definition = "EXCLUDE USING gist (id WITH =)"
	tbl.ExcludeConstraints["t1_excl"] = ec

	s.Tables["t1"] = tbl

	all := db.AllObjects()
	found := map[string]bool{}
	for _, o := range all {
		found[o.Key().String()] = true
	}
	for _, want := range []Key{s.Key(), tbl.Key(), c1.Key(), pk.Key(), ec.Key()} {
		if !found[want.String()] {
			t.Errorf("AllObjects() missing %v", want)
		}
	}
}

func TestStripOwners(t *testing.T) {
	db := NewDatabase()
	s := NewSchema("public")
	s.SetOwner("alice")
	db.Schemas["public"] = s

	StripOwners(db)

	if s.Owner() != "" {
		t.Fatalf("StripOwners left owner %q", s.Owner())
	}
}

func TestToMapFromMapRoundTrip(t *testing.T) {
	db := NewDatabase()
	s := NewSchema("public")
	s.SetOwner("postgres")
	db.Schemas["public"] = s

	tbl := NewTable("public", "t1")
	tbl.SetOwner("postgres")
	c1 := NewColumn("public", "t1", "c1")
	c1.Type = "integer"
	c1.NotNull = true
	c2 := NewColumn("public", "t1", "c2")
	c2.Type = "smallint"
	tbl.Columns = append(tbl.Columns, c1, c2)

	pk := NewPrimaryKey("public", "t1", "t1_pkey")
	pk.Columns = []string{"c1"}
	tbl.PrimaryKey = pk

	s.Tables["t1"] = tbl

	doc := ToMap(db)
	encoded, err := Encode(doc)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	decoded, err := Decode(encoded)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	got, err := FromMap(decoded)
	if err != nil {
		t.Fatalf("FromMap: %v", err)
	}

	gotTable := got.Schemas["public"].Tables["t1"]
	if gotTable == nil {
		t.Fatalf("round trip lost table t1")
	}
	if len(gotTable.Columns) != 2 {
		t.Fatalf("round trip produced %d columns, want 2", len(gotTable.Columns))
	}
	if gotTable.Columns[0].Name != "c1" || gotTable.Columns[1].Name != "c2" {
		t.Fatalf("round trip did not preserve column order: %v", gotTable.Columns)
	}
	if gotTable.PrimaryKey == nil || gotTable.PrimaryKey.Name != "t1_pkey" {
		t.Fatalf("round trip lost primary key")
	}
}

// TestToMapFromMapRoundTripExoticKinds covers the long-tail schema-bound
// kinds (operators, operator classes/families, text search objects, event
// triggers, types) that have no catalog reader in this build and are only
// ever populated from a parsed YAML document.
func TestToMapFromMapRoundTripExoticKinds(t *testing.T) {
	db := NewDatabase()
	s := NewSchema("public")
	db.Schemas["public"] = s

	typ := NewType("public", "point3d", TypeKindComposite)
	typ.Attributes = []TypeAttribute{{Name: "x", Type: "float8"}, {Name: "y", Type: "float8"}}
	s.Types["point3d"] = typ

	op := NewOperator("public", "=>", "integer", "integer")
	op.Function = "my_eq"
	s.Operators[op.Key().String()] = op

	opc := NewOperatorClass("public", "my_ops", "btree")
	opc.Type = "integer"
	s.OpClasses[opc.Key().String()] = opc

	opf := NewOperatorFamily("public", "my_fam", "btree")
	s.OpFamilies[opf.Key().String()] = opf

	parser := NewTSParser("public", "my_parser")
	s.TSParsers["my_parser"] = parser

	cfg := NewTSConfig("public", "my_config")
	cfg.Parser = "my_parser"
	s.TSConfigs["my_config"] = cfg

	trg := NewEventTrigger("my_event")
	trg.Event = "ddl_command_start"
	trg.Function = "audit_ddl"
	s.EventTriggers["my_event"] = trg

	doc := ToMap(db)
	encoded, err := Encode(doc)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	decoded, err := Decode(encoded)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	got, err := FromMap(decoded)
	if err != nil {
		t.Fatalf("FromMap: %v", err)
	}

	gotSchema := got.Schemas["public"]
	if gotSchema == nil {
		t.Fatal("round trip lost schema public")
	}
	if gotType := gotSchema.Types["point3d"]; gotType == nil || gotType.TypeOf != TypeKindComposite || len(gotType.Attributes) != 2 {
		t.Fatalf("round trip lost composite type point3d: %+v", gotType)
	}
	if gotOp := gotSchema.Operators[op.Key().String()]; gotOp == nil || gotOp.Function != "my_eq" {
		t.Fatalf("round trip lost operator =>(integer,integer): %+v", gotOp)
	}
	if gotOpc := gotSchema.OpClasses[opc.Key().String()]; gotOpc == nil || gotOpc.Type != "integer" {
		t.Fatalf("round trip lost operator class my_ops: %+v", gotOpc)
	}
	if gotOpf := gotSchema.OpFamilies[opf.Key().String()]; gotOpf == nil {
		t.Fatalf("round trip lost operator family my_fam")
	}
	if gotParser := gotSchema.TSParsers["my_parser"]; gotParser == nil {
		t.Fatalf("round trip lost text search parser my_parser")
	}
	if gotCfg := gotSchema.TSConfigs["my_config"]; gotCfg == nil || gotCfg.Parser != "my_parser" {
		t.Fatalf("round trip lost text search configuration my_config: %+v", gotCfg)
	}
	if gotTrg := gotSchema.EventTriggers["my_event"]; gotTrg == nil || gotTrg.Function != "audit_ddl" {
		t.Fatalf("round trip lost event trigger my_event: %+v", gotTrg)
	}
}

func TestSupportsRename(t *testing.T) {
	cases := map[Kind]bool{
		KindTable:      true,
		KindColumn:     true,
		KindCast:       false,
		KindOperator:   false,
		KindPrimaryKey: false,
	}
	for k, want := range cases {
		if got := k.SupportsRename(); got != want {
			t.Errorf("%s.SupportsRename() = %v, want %v", k, got, want)
		}
	}
}
