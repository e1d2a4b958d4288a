// SPDX-License-Identifier: Apache-2.0

// Package linker resolves the dependency edges listed in spec.md §4.3 into
// a pkg/graph.Graph over a loaded *model.Database, once per model (current
// and desired are each linked independently before the differ pairs them).
// Edges are derived from catalog records already present on the model
// (referenced table names, function names), never by re-parsing SQL —
// pkg/state/state.go's own "derive from pg_depend, not from parsing view
// bodies" discipline, generalized here to every edge source in the list.
package linker

import (
	"github.com/dbschema/dbschema/pkg/graph"
	"github.com/dbschema/dbschema/pkg/model"
)

// Link walks every object in db once and returns the dependency graph.
func Link(db *model.Database) *graph.Graph {
	g := graph.New()
	idx := buildIndex(db)

	for _, s := range db.Schemas {
		g.AddNode(s.Key())
		for _, t := range s.Tables {
			linkTable(g, idx, s, t)
		}
		for _, v := range s.Views {
			g.AddEdge(v.Key(), s.Key())
		}
		for _, v := range s.MatViews {
			g.AddEdge(v.Key(), s.Key())
			for _, i := range v.Indexes {
				g.AddEdge(i.Key(), v.Key())
			}
		}
		for _, sq := range s.Sequences {
			g.AddEdge(sq.Key(), s.Key())
		}
		for _, f := range s.Functions {
			g.AddEdge(f.Key(), s.Key())
		}
		for _, a := range s.Aggregates {
			g.AddEdge(a.Key(), s.Key())
			if fn, ok := idx.functionByName(s.Name, a.StateFunc); ok {
				g.AddEdge(a.Key(), fn.Key())
			}
			if a.FinalFunc != "" {
				if fn, ok := idx.functionByName(s.Name, a.FinalFunc); ok {
					g.AddEdge(a.Key(), fn.Key())
				}
			}
		}
		for _, d := range s.Domains {
			g.AddEdge(d.Key(), s.Key())
		}
		for _, ft := range s.ForeignTables {
			g.AddEdge(ft.Key(), s.Key())
		}
		for _, ty := range s.Types {
			g.AddEdge(ty.Key(), s.Key())
		}
		for _, c := range s.Collations {
			g.AddEdge(c.Key(), s.Key())
		}
		for _, c := range s.Conversions {
			g.AddEdge(c.Key(), s.Key())
		}
		for _, o := range s.Operators {
			g.AddEdge(o.Key(), s.Key())
			if fn, ok := idx.functionByUnqualifiedName(o.Function); ok {
				g.AddEdge(o.Key(), fn.Key())
			}
		}
		for _, oc := range s.OpClasses {
			g.AddEdge(oc.Key(), s.Key())
		}
		for _, of := range s.OpFamilies {
			g.AddEdge(of.Key(), s.Key())
		}
		for _, p := range s.TSParsers {
			g.AddEdge(p.Key(), s.Key())
		}
		for _, tmpl := range s.TSTemplates {
			g.AddEdge(tmpl.Key(), s.Key())
		}
		for _, dict := range s.TSDicts {
			g.AddEdge(dict.Key(), s.Key())
		}
		for _, cfg := range s.TSConfigs {
			g.AddEdge(cfg.Key(), s.Key())
			if p, ok := s.TSParsers[cfg.Parser]; ok {
				g.AddEdge(cfg.Key(), p.Key())
			}
		}
		for _, et := range s.EventTriggers {
			g.AddEdge(et.Key(), s.Key())
			if fn, ok := idx.functionByUnqualifiedName(et.Function); ok {
				g.AddEdge(et.Key(), fn.Key())
			}
		}
	}

	for _, e := range db.Extensions {
		g.AddNode(e.Key())
	}
	for _, c := range db.Casts {
		g.AddNode(c.Key())
	}
	for _, l := range db.Languages {
		g.AddNode(l.Key())
	}

	return g
}

func linkTable(g *graph.Graph, idx index, s *model.Schema, t *model.Table) {
	g.AddEdge(t.Key(), s.Key())

	for _, c := range t.Columns {
		g.AddEdge(c.Key(), t.Key())
		if typ, ok := idx.typeOrDomainByName(s.Name, c.Type); ok {
			g.AddEdge(c.Key(), typ)
		}
	}

	if t.PrimaryKey != nil {
		g.AddEdge(t.PrimaryKey.Key(), t.Key())
	}
	for _, cc := range t.CheckConstraints {
		g.AddEdge(cc.Key(), t.Key())
	}
	for _, uc := range t.UniqueConstraints {
		g.AddEdge(uc.Key(), t.Key())
	}
	for _, ec := range t.ExcludeConstraints {
		g.AddEdge(ec.Key(), t.Key())
	}
	for _, fk := range t.ForeignKeys {
		g.AddEdge(fk.Key(), t.Key())
		if refTable, ok := idx.tableByName(fk.ReferencedSchema, fk.ReferencedTable); ok {
			g.AddEdge(fk.Key(), refTable.Key())
			if refTable.PrimaryKey != nil {
				g.AddEdge(fk.Key(), refTable.PrimaryKey.Key())
			}
			for _, uc := range refTable.UniqueConstraints {
				if sameColumns(uc.Columns, fk.ReferencedColumns) {
					g.AddEdge(fk.Key(), uc.Key())
				}
			}
		}
	}
	for _, i := range t.Indexes {
		g.AddEdge(i.Key(), t.Key())
	}
	for _, trg := range t.Triggers {
		g.AddEdge(trg.Key(), t.Key())
		if fn, ok := idx.functionByUnqualifiedName(trg.Function); ok {
			g.AddEdge(trg.Key(), fn.Key())
		}
	}
	for _, r := range t.Rules {
		g.AddEdge(r.Key(), t.Key())
	}
}

func sameColumns(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
