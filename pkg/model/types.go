// SPDX-License-Identifier: Apache-2.0

package model

// TypeKind distinguishes the catalog's four typtype values, modeled as one
// Type variant with a discriminator field rather than four Go types, since
// their YAML attributes overlap heavily.
type TypeKind string

const (
	TypeKindBase      TypeKind = "base"
	TypeKindComposite TypeKind = "composite"
	TypeKindEnum      TypeKind = "enum"
	TypeKindRange     TypeKind = "range"
)

// Type represents a base, composite, enum or range type. Domains (typtype
// 'd') get their own Domain struct below because their attribute set
// (base type + constraints) differs enough to warrant it, matching
// spec.md's explicit listing of "type {base,composite,enum,domain,range}"
// as five sub-kinds sharing one parent concept.
type Type struct {
	Base
	Schema string   `json:"-"`
	Name   string   `json:"-"`
	TypeOf TypeKind `json:"kind"`

	// Base type fields
	InputFunc  string `json:"input,omitempty"`
	OutputFunc string `json:"output,omitempty"`
	Internal   string `json:"internal_length,omitempty"`

	// Composite type fields: ordered attributes (spec.md §3 Containment:
	// "A composite type owns its ordered attributes").
	Attributes []TypeAttribute `json:"attributes,omitempty"`

	// Enum fields
	EnumValues []string `json:"enum_values,omitempty"`

	// Range fields
	Subtype string `json:"subtype,omitempty"`
}

func NewType(schema, name string, kind TypeKind) *Type {
	return &Type{
		Base:   NewBase(KindBaseType, NewKey(KindBaseType, schema, name)),
		Schema: schema,
		Name:   name,
		TypeOf: kind,
	}
}

type TypeAttribute struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Domain is a constrained alias over a base type.
type Domain struct {
	Base
	Schema string `json:"-"`
	Name   string `json:"-"`

	BaseType   string             `json:"type"`
	NotNull    bool               `json:"not_null,omitempty"`
	Default    *string            `json:"default,omitempty"`
	Constraints map[string]string `json:"check_constraints,omitempty"`
}

func NewDomain(schema, name string) *Domain {
	return &Domain{Base: NewBase(KindDomain, NewKey(KindDomain, schema, name)), Schema: schema, Name: name}
}

// Collation wraps an ICU/libc collation definition.
type Collation struct {
	Base
	Schema string `json:"-"`
	Name   string `json:"-"`
	LCCollate string `json:"lc_collate,omitempty"`
	LCType    string `json:"lc_ctype,omitempty"`
	Provider  string `json:"provider,omitempty"`
}

func NewCollation(schema, name string) *Collation {
	return &Collation{Base: NewBase(KindCollation, NewKey(KindCollation, schema, name)), Schema: schema, Name: name}
}

// Conversion maps one encoding to another via a function.
type Conversion struct {
	Base
	Schema string `json:"-"`
	Name   string `json:"-"`
	ForEncoding  string `json:"for_encoding"`
	ToEncoding   string `json:"to_encoding"`
	Function     string `json:"function"`
	Default      bool   `json:"default,omitempty"`
}

func NewConversion(schema, name string) *Conversion {
	return &Conversion{Base: NewBase(KindConversion, NewKey(KindConversion, schema, name)), Schema: schema, Name: name}
}
