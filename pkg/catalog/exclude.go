// SPDX-License-Identifier: Apache-2.0

package catalog

// systemSchemas are never read unless explicitly requested, matching the
// original tool's default scope (spec.md §4.1).
var systemSchemas = map[string]bool{
	"pg_catalog":         true,
	"information_schema": true,
	"pg_toast":           true,
}

func isSystemSchema(name string) bool {
	if systemSchemas[name] {
		return true
	}
	return len(name) > 8 && name[:8] == "pg_temp_" || len(name) > 9 && name[:9] == "pg_toast_"
}

// schemaFilter decides which schemas a Read should materialize: explicit
// -n/-N (include/exclude) selections from the CLI, falling back to "every
// non-system schema" when neither is given.
type schemaFilter struct {
	include map[string]bool // nil means "no include filter"
	exclude map[string]bool
}

func newSchemaFilter(include, exclude []string) schemaFilter {
	f := schemaFilter{exclude: map[string]bool{}}
	if len(include) > 0 {
		f.include = map[string]bool{}
		for _, s := range include {
			f.include[s] = true
		}
	}
	for _, s := range exclude {
		f.exclude[s] = true
	}
	return f
}

func (f schemaFilter) allows(name string) bool {
	if f.exclude[name] {
		return false
	}
	if f.include != nil {
		return f.include[name]
	}
	return !isSystemSchema(name)
}

// tableFilter decides which tables within an already-included schema a
// Read should materialize: explicit -t/-T (include/exclude) selections
// from the CLI, falling back to "every table" when neither is given.
// Mirrors schemaFilter's shape one level down (spec.md §6's -t/-T flags).
type tableFilter struct {
	include map[string]bool
	exclude map[string]bool
}

func newTableFilter(include, exclude []string) tableFilter {
	f := tableFilter{exclude: map[string]bool{}}
	if len(include) > 0 {
		f.include = map[string]bool{}
		for _, t := range include {
			f.include[t] = true
		}
	}
	for _, t := range exclude {
		f.exclude[t] = true
	}
	return f
}

// allows checks both the bare name and "schema.name" so a -t flag may be
// given either qualified or bare (the common case when -n already narrows
// to one schema).
func (f tableFilter) allows(schema, name string) bool {
	qualified := schema + "." + name
	if f.exclude[name] || f.exclude[qualified] {
		return false
	}
	if f.include != nil {
		return f.include[name] || f.include[qualified]
	}
	return true
}

// extensionOwnedFilter reports whether an OID appears in pg_depend as owned
// by an extension (spec.md §9 open question). readTables uses it to skip
// extension-owned tables; no other reader consults it, so views, sequences,
// functions and aggregates that an extension provides are still modeled.
type extensionOwnedFilter struct {
	ownedOIDs map[string]bool
}

func (f extensionOwnedFilter) owned(oid string) bool {
	return f.ownedOIDs[oid]
}
