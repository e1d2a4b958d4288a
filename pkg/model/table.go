// SPDX-License-Identifier: Apache-2.0

package model

// Table owns its columns (order-significant, spec.md §3 invariant 3), at
// most one primary key, and sets of check/unique/foreign-key constraints,
// indexes, triggers and rules (spec.md §3 "Containment").
type Table struct {
	Base
	Schema string `json:"-"`
	Name   string `json:"-"`

	privileges []Privilege

	Columns            []*Column                     `json:"columns"`
	PrimaryKey         *PrimaryKey                   `json:"primary_key,omitempty"`
	CheckConstraints   map[string]*CheckConstraint   `json:"check_constraints,omitempty"`
	UniqueConstraints  map[string]*UniqueConstraint  `json:"unique_constraints,omitempty"`
	ExcludeConstraints map[string]*ExcludeConstraint `json:"exclude_constraints,omitempty"`
	ForeignKeys        map[string]*ForeignKey        `json:"foreign_keys,omitempty"`
	Indexes            map[string]*Index             `json:"indexes,omitempty"`
	Triggers           map[string]*Trigger           `json:"triggers,omitempty"`
	Rules              map[string]*Rule              `json:"rules,omitempty"`

	Tablespace  string            `json:"tablespace,omitempty"`
	Options     map[string]string `json:"options,omitempty"`
	Inherits    []string          `json:"inherits,omitempty"`

	// Partitioning (PG >= 10): PartitionKey is set on the parent,
	// PartitionParent+PartitionBound on each partition (spec.md §4.1 edge
	// case: partitions carry a back-reference).
	PartitionKey    string `json:"partition_key,omitempty"`
	PartitionParent string `json:"partition_parent,omitempty"`
	PartitionBound  string `json:"partition_bound,omitempty"`
}

func NewTable(schema, name string) *Table {
	return &Table{
		Base:               NewBase(KindTable, NewKey(KindTable, schema, name)),
		Schema:             schema,
		Name:               name,
		CheckConstraints:   map[string]*CheckConstraint{},
		UniqueConstraints:  map[string]*UniqueConstraint{},
		ExcludeConstraints: map[string]*ExcludeConstraint{},
		ForeignKeys:        map[string]*ForeignKey{},
		Indexes:            map[string]*Index{},
		Triggers:           map[string]*Trigger{},
		Rules:              map[string]*Rule{},
	}
}

func (t *Table) Privileges() []Privilege     { return t.privileges }
func (t *Table) SetPrivileges(p []Privilege) { t.privileges = p }

// GetColumn returns a column by name, or nil.
func (t *Table) GetColumn(name string) *Column {
	for _, c := range t.Columns {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func (t *Table) childObjects() []Object {
	var out []Object
	for _, c := range t.Columns {
		out = append(out, c)
	}
	if t.PrimaryKey != nil {
		out = append(out, t.PrimaryKey)
	}
	for _, c := range t.CheckConstraints {
		out = append(out, c)
	}
	for _, c := range t.UniqueConstraints {
		out = append(out, c)
	}
	for _, c := range t.ExcludeConstraints {
		out = append(out, c)
	}
	for _, c := range t.ForeignKeys {
		out = append(out, c)
	}
	for _, i := range t.Indexes {
		out = append(out, i)
	}
	for _, tr := range t.Triggers {
		out = append(out, tr)
	}
	for _, r := range t.Rules {
		out = append(out, r)
	}
	return out
}

// Column is an ordered member of a table or composite type.
type Column struct {
	Base
	Schema string `json:"-"`
	Table  string `json:"-"`
	Name   string `json:"-"`

	privileges []Privilege

	Type       string  `json:"type"`
	NotNull    bool    `json:"not_null,omitempty"`
	Default    *string `json:"default,omitempty"`
	Collation  string  `json:"collation,omitempty"`
	Statistics *int    `json:"statistics,omitempty"`
	Storage    string  `json:"storage,omitempty"`

	// Identity is non-nil for GENERATED ... AS IDENTITY columns. The
	// backing sequence is never emitted as a standalone object (spec.md
	// §4.1 edge case).
	Identity *ColumnIdentity `json:"identity,omitempty"`

	// OwnedSequence names the sequence implicitly owned by this column
	// (serial/bigserial or identity). Dropping the column implicitly
	// drops the sequence; no separate DROP SEQUENCE is ever emitted
	// (spec.md §8 scenario 4).
	OwnedSequence string `json:"-"`
}

type ColumnIdentity struct {
	Generation string `json:"generation"` // ALWAYS | BY DEFAULT
}

func NewColumn(schema, table, name string) *Column {
	return &Column{
		Base:   NewBase(KindColumn, NewKey(KindColumn, schema, table, name)),
		Schema: schema,
		Table:  table,
		Name:   name,
	}
}

func (c *Column) Privileges() []Privilege     { return c.privileges }
func (c *Column) SetPrivileges(p []Privilege) { c.privileges = p }
