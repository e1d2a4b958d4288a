// SPDX-License-Identifier: Apache-2.0

package linker

import "github.com/dbschema/dbschema/pkg/model"

// index gives the edge extractors cheap by-name lookups across the whole
// model, since catalog records name dependencies by (schema, name) rather
// than by a pre-resolved pointer (spec.md §4.3's edge sources are all
// textual/OID references the Linker must resolve).
type index struct {
	db *model.Database
}

func buildIndex(db *model.Database) index {
	return index{db: db}
}

func (x index) tableByName(schema, name string) (*model.Table, bool) {
	s, ok := x.db.Schemas[schema]
	if !ok {
		return nil, false
	}
	t, ok := s.Tables[name]
	return t, ok
}

func (x index) functionByName(schema, name string) (*model.Function, bool) {
	s, ok := x.db.Schemas[schema]
	if !ok {
		return nil, false
	}
	for _, f := range s.Functions {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

// functionByUnqualifiedName searches every schema, used for trigger
// functions where the catalog reader only recorded the proname (spec.md
// §4.3 "trigger -> table, function").
func (x index) functionByUnqualifiedName(name string) (*model.Function, bool) {
	for _, s := range x.db.Schemas {
		for _, f := range s.Functions {
			if f.Name == name {
				return f, true
			}
		}
	}
	return nil, false
}

// typeOrDomainByName resolves a column's formatted type name to a
// user-defined type or domain object, when the type isn't a builtin
// (spec.md §4.3 "column type -> user-defined type or domain"). Builtins
// (integer, text, ...) have no corresponding model object and are simply
// not found here, which is not an error.
func (x index) typeOrDomainByName(schema, typeName string) (model.Key, bool) {
	s, ok := x.db.Schemas[schema]
	if !ok {
		return model.Key{}, false
	}
	if t, ok := s.Types[typeName]; ok {
		return t.Key(), true
	}
	if d, ok := s.Domains[typeName]; ok {
		return d.Key(), true
	}
	return model.Key{}, false
}
