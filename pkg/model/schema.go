// SPDX-License-Identifier: Apache-2.0

package model

// Database is the root container for one complete model: either the
// current state read from the catalogs, or the desired state parsed from
// YAML. It owns every schema-bound object plus the handful of top-level
// (non-schema-bound) kinds: extensions, casts, languages, FDWs and their
// servers/mappings.
type Database struct {
	Schemas map[string]*Schema `json:"-"`

	Extensions     map[string]*Extension     `json:"-"`
	Casts          map[string]*Cast          `json:"-"`
	Languages      map[string]*Language      `json:"-"`
	FDWs           map[string]*FDW           `json:"-"`
	ForeignServers map[string]*ForeignServer `json:"-"`
}

func NewDatabase() *Database {
	return &Database{
		Schemas:        map[string]*Schema{},
		Extensions:     map[string]*Extension{},
		Casts:          map[string]*Cast{},
		Languages:      map[string]*Language{},
		FDWs:           map[string]*FDW{},
		ForeignServers: map[string]*ForeignServer{},
	}
}

// AllObjects returns every object in the database, in no particular order.
// The differ pairs by Key() so ordering here is irrelevant; callers that
// need deterministic order (the YAML mapper) sort independently.
func (d *Database) AllObjects() []Object {
	var out []Object
	for _, s := range d.Schemas {
		out = append(out, s)
		out = append(out, s.objects()...)
	}
	for _, e := range d.Extensions {
		out = append(out, e)
	}
	for _, c := range d.Casts {
		out = append(out, c)
	}
	for _, l := range d.Languages {
		out = append(out, l)
	}
	for _, f := range d.FDWs {
		out = append(out, f)
		for _, srv := range f.Servers {
			out = append(out, srv)
			for _, um := range srv.UserMappings {
				out = append(out, um)
			}
		}
	}
	return out
}

// StripOwners clears the owner field on every object in db, the model-level
// effect of dbtoyaml's -O/--no-owner flag (spec.md §6). Applied once after
// a full Read rather than guarding every individual SetOwner call at the
// catalog layer.
func StripOwners(db *Database) {
	for _, o := range db.AllObjects() {
		o.SetOwner("")
	}
}

// StripPrivileges clears every object's privilege list, the model-level
// effect of --no-privileges (spec.md §4.4: "Skip if --no-privileges").
// yamltodb applies this to both sides before diffing so the grant/revoke
// pass never runs, rather than leaving it to cancel out per-pair.
func StripPrivileges(db *Database) {
	for _, o := range db.AllObjects() {
		if p, ok := o.(Privileged); ok {
			p.SetPrivileges(nil)
		}
	}
}

// Schema is a Postgres namespace and owns every schema-bound object kind.
type Schema struct {
	Base
	Name string `json:"-"`

	privileges []Privilege

	// Every child collection is serialized by schemaToMap's own per-kind
	// loops (each object keyed "<kind> <name>"), never by the generic
	// attrsOf reflection — so none of these carry a real json tag. A real
	// tag here would let json.Marshal(s) emit a second, conflicting
	// top-level "tables"/"operators"/... key alongside the per-object ones.
	Tables       map[string]*Table       `json:"-"`
	Views        map[string]*View        `json:"-"`
	MatViews     map[string]*MatView     `json:"-"`
	Sequences    map[string]*Sequence    `json:"-"`
	Functions    map[string]*Function    `json:"-"`
	Aggregates   map[string]*Aggregate   `json:"-"`
	Operators    map[string]*Operator    `json:"-"`
	OpClasses    map[string]*OperatorClass  `json:"-"`
	OpFamilies   map[string]*OperatorFamily `json:"-"`
	Types        map[string]*Type        `json:"-"`
	Domains      map[string]*Domain      `json:"-"`
	Collations   map[string]*Collation   `json:"-"`
	Conversions  map[string]*Conversion  `json:"-"`
	TSParsers    map[string]*TSParser    `json:"-"`
	TSDicts      map[string]*TSDictionary `json:"-"`
	TSTemplates  map[string]*TSTemplate  `json:"-"`
	TSConfigs    map[string]*TSConfig    `json:"-"`
	ForeignTables map[string]*ForeignTable `json:"-"`
	EventTriggers map[string]*EventTrigger `json:"-"` // event triggers are database-global but listed under public by convention
}

func NewSchema(name string) *Schema {
	return &Schema{
		Base:          NewBase(KindSchema, NewKey(KindSchema, name)),
		Name:          name,
		Tables:        map[string]*Table{},
		Views:         map[string]*View{},
		MatViews:      map[string]*MatView{},
		Sequences:     map[string]*Sequence{},
		Functions:     map[string]*Function{},
		Aggregates:    map[string]*Aggregate{},
		Operators:     map[string]*Operator{},
		OpClasses:     map[string]*OperatorClass{},
		OpFamilies:    map[string]*OperatorFamily{},
		Types:         map[string]*Type{},
		Domains:       map[string]*Domain{},
		Collations:    map[string]*Collation{},
		Conversions:   map[string]*Conversion{},
		TSParsers:     map[string]*TSParser{},
		TSDicts:       map[string]*TSDictionary{},
		TSTemplates:   map[string]*TSTemplate{},
		TSConfigs:     map[string]*TSConfig{},
		ForeignTables: map[string]*ForeignTable{},
		EventTriggers: map[string]*EventTrigger{},
	}
}

func (s *Schema) Privileges() []Privilege       { return s.privileges }
func (s *Schema) SetPrivileges(p []Privilege)   { s.privileges = p }

func (s *Schema) objects() []Object {
	var out []Object
	for _, t := range s.Tables {
		out = append(out, t)
		out = append(out, t.childObjects()...)
	}
	for _, v := range s.Views {
		out = append(out, v)
	}
	for _, v := range s.MatViews {
		out = append(out, v)
	}
	for _, sq := range s.Sequences {
		out = append(out, sq)
	}
	for _, f := range s.Functions {
		out = append(out, f)
	}
	for _, a := range s.Aggregates {
		out = append(out, a)
	}
	for _, o := range s.Operators {
		out = append(out, o)
	}
	for _, o := range s.OpClasses {
		out = append(out, o)
	}
	for _, o := range s.OpFamilies {
		out = append(out, o)
	}
	for _, t := range s.Types {
		out = append(out, t)
	}
	for _, t := range s.Domains {
		out = append(out, t)
	}
	for _, c := range s.Collations {
		out = append(out, c)
	}
	for _, c := range s.Conversions {
		out = append(out, c)
	}
	for _, p := range s.TSParsers {
		out = append(out, p)
	}
	for _, t := range s.TSDicts {
		out = append(out, t)
	}
	for _, t := range s.TSTemplates {
		out = append(out, t)
	}
	for _, c := range s.TSConfigs {
		out = append(out, c)
	}
	for _, ft := range s.ForeignTables {
		out = append(out, ft)
	}
	for _, et := range s.EventTriggers {
		out = append(out, et)
	}
	return out
}
