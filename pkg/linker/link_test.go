// SPDX-License-Identifier: Apache-2.0

package linker

import (
	"testing"

	"github.com/dbschema/dbschema/pkg/model"
)

func hasEdge(deps []model.Key, target model.Key) bool {
	for _, d := range deps {
		if d.Equal(target) {
			return true
		}
	}
	return false
}

func TestLinkCrossSchemaForeignKey(t *testing.T) {
	db := model.NewDatabase()

	public := model.NewSchema("public")
	t1 := model.NewTable("public", "t1")
	c2 := model.NewColumn("public", "t1", "c2")
	c2.Type = "integer"
	t1.Columns = append(t1.Columns, c2)
	fk := model.NewForeignKey("public", "t1", "t1_c2_fkey")
	fk.Columns = []string{"c2"}
	fk.ReferencedSchema = "s1"
	fk.ReferencedTable = "t2"
	fk.ReferencedColumns = []string{"c21"}
	t1.ForeignKeys["t1_c2_fkey"] = fk
	public.Tables["t1"] = t1
	db.Schemas["public"] = public

	s1 := model.NewSchema("s1")
	t2 := model.NewTable("s1", "t2")
	c21 := model.NewColumn("s1", "t2", "c21")
	c21.Type = "integer"
	t2.Columns = append(t2.Columns, c21)
	pk := model.NewPrimaryKey("s1", "t2", "t2_pkey")
	pk.Columns = []string{"c21"}
	t2.PrimaryKey = pk
	s1.Tables["t2"] = t2
	db.Schemas["s1"] = s1

	g := Link(db)

	deps := g.DependenciesOf(fk.Key())
	if !hasEdge(deps, t1.Key()) {
		t.Errorf("foreign key must depend on its own table: %v", deps)
	}
	if !hasEdge(deps, t2.Key()) {
		t.Errorf("foreign key must depend on the referenced table: %v", deps)
	}
	if !hasEdge(deps, pk.Key()) {
		t.Errorf("foreign key must depend on the referenced table's primary key: %v", deps)
	}
}

func TestLinkColumnDependsOnDomainType(t *testing.T) {
	db := model.NewDatabase()
	s := model.NewSchema("public")
	dom := model.NewDomain("public", "email")
	s.Domains["email"] = dom

	tbl := model.NewTable("public", "users")
	c := model.NewColumn("public", "users", "addr")
	c.Type = "email"
	tbl.Columns = append(tbl.Columns, c)
	s.Tables["users"] = tbl
	db.Schemas["public"] = s

	g := Link(db)
	deps := g.DependenciesOf(c.Key())
	if !hasEdge(deps, dom.Key()) {
		t.Errorf("column of domain type must depend on the domain: %v", deps)
	}
}

func TestLinkTriggerDependsOnTableAndFunction(t *testing.T) {
	db := model.NewDatabase()
	s := model.NewSchema("public")
	fn := model.NewFunction("public", "audit_fn", "")
	s.Functions["audit_fn()"] = fn

	tbl := model.NewTable("public", "t1")
	trg := model.NewTrigger("public", "t1", "t1_audit")
	trg.Function = "audit_fn"
	trg.Definition = "CREATE TRIGGER t1_audit BEFORE UPDATE ON t1 FOR EACH ROW EXECUTE FUNCTION audit_fn()"
	tbl.Triggers["t1_audit"] = trg
	s.Tables["t1"] = tbl
	db.Schemas["public"] = s

	g := Link(db)
	deps := g.DependenciesOf(trg.Key())
	if !hasEdge(deps, tbl.Key()) {
		t.Errorf("trigger must depend on its table: %v", deps)
	}
	if !hasEdge(deps, fn.Key()) {
		t.Errorf("trigger must depend on its function: %v", deps)
	}
}

func TestLinkOperatorDependsOnFunction(t *testing.T) {
	db := model.NewDatabase()
	s := model.NewSchema("public")
	fn := model.NewFunction("public", "my_eq", "integer, integer")
	s.Functions[fn.Key().String()] = fn

	op := model.NewOperator("public", "=>", "integer", "integer")
	op.Function = "my_eq"
	s.Operators[op.Key().String()] = op
	db.Schemas["public"] = s

	g := Link(db)
	deps := g.DependenciesOf(op.Key())
	if !hasEdge(deps, s.Key()) {
		t.Errorf("operator must depend on its schema: %v", deps)
	}
	if !hasEdge(deps, fn.Key()) {
		t.Errorf("operator must depend on its underlying function: %v", deps)
	}
}

func TestLinkTSConfigDependsOnParser(t *testing.T) {
	db := model.NewDatabase()
	s := model.NewSchema("public")
	parser := model.NewTSParser("public", "my_parser")
	s.TSParsers["my_parser"] = parser

	cfg := model.NewTSConfig("public", "my_config")
	cfg.Parser = "my_parser"
	s.TSConfigs["my_config"] = cfg
	db.Schemas["public"] = s

	g := Link(db)
	deps := g.DependenciesOf(cfg.Key())
	if !hasEdge(deps, parser.Key()) {
		t.Errorf("text search configuration must depend on its parser: %v", deps)
	}
}

func TestLinkExcludeConstraintDependsOnTable(t *testing.T) {
	db := model.NewDatabase()
	s := model.NewSchema("public")
	tbl := model.NewTable("public", "reservations")
	ec := model.NewExcludeConstraint("public", "reservations", "no_overlap")
	ec.Definition = "EXCLUDE USING gist (during WITH &&)"
	tbl.ExcludeConstraints["no_overlap"] = ec
	s.Tables["reservations"] = tbl
	db.Schemas["public"] = s

	g := Link(db)
	deps := g.DependenciesOf(ec.Key())
	if !hasEdge(deps, tbl.Key()) {
		t.Errorf("exclude constraint must depend on its table: %v", deps)
	}
}
