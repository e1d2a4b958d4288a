// SPDX-License-Identifier: Apache-2.0

package model

// Index represents a table index. Definition preserves pg_get_indexdef's
// raw output verbatim (spec.md §4.1 edge case / §9 open question): when an
// index mixes plain columns and expressions the structured Columns field
// may not capture everything, so Definition is kept as a faithful fallback
// for emission.
type Index struct {
	Base
	Schema     string   `json:"-"`
	Table      string   `json:"-"`
	Name       string   `json:"-"`
	Columns    []string `json:"columns"`
	Unique     bool     `json:"unique,omitempty"`
	Method     string   `json:"access_method,omitempty"`
	Predicate  string   `json:"predicate,omitempty"`
	Definition string   `json:"-"`
	Tablespace string   `json:"tablespace,omitempty"`
}

func NewIndex(schema, table, name string) *Index {
	return &Index{
		Base:   NewBase(KindIndex, NewKey(KindIndex, schema, table, name)),
		Schema: schema,
		Table:  table,
		Name:   name,
	}
}

// Trigger fires a function on table row events.
type Trigger struct {
	Base
	Schema     string `json:"-"`
	Table      string `json:"-"`
	Name       string `json:"-"`
	Definition string `json:"definition"`
	Function   string `json:"-"`
}

func NewTrigger(schema, table, name string) *Trigger {
	return &Trigger{
		Base:   NewBase(KindTrigger, NewKey(KindTrigger, schema, table, name)),
		Schema: schema,
		Table:  table,
		Name:   name,
	}
}

// Rule is a Postgres query rewrite rule attached to a table or view.
type Rule struct {
	Base
	Schema     string `json:"-"`
	Table      string `json:"-"`
	Name       string `json:"-"`
	Definition string `json:"definition"`
}

func NewRule(schema, table, name string) *Rule {
	return &Rule{
		Base:   NewBase(KindRule, NewKey(KindRule, schema, table, name)),
		Schema: schema,
		Table:  table,
		Name:   name,
	}
}

// Sequence is either freestanding or implicitly owned by a column (spec.md
// §3 invariant 6: when owned, it is never written to YAML as a standalone
// object; the owning column stands for it).
type Sequence struct {
	Base
	Schema string `json:"-"`
	Name   string `json:"-"`

	privileges []Privilege

	DataType    string `json:"data_type,omitempty"`
	StartValue  int64  `json:"start_value"`
	Increment   int64  `json:"increment"`
	MinValue    *int64 `json:"min_value,omitempty"`
	MaxValue    *int64 `json:"max_value,omitempty"`
	Cycle       bool   `json:"cycle,omitempty"`
	OwnedTable  string `json:"-"`
	OwnedColumn string `json:"-"`
}

func NewSequence(schema, name string) *Sequence {
	return &Sequence{
		Base:   NewBase(KindSequence, NewKey(KindSequence, schema, name)),
		Schema: schema,
		Name:   name,
	}
}

func (s *Sequence) Privileges() []Privilege     { return s.privileges }
func (s *Sequence) SetPrivileges(p []Privilege) { s.privileges = p }

// IsOwned reports whether this sequence is implicitly owned by a column.
// An owned sequence is left out of the YAML document and gets no
// CREATE/DROP/ALTER of its own; it is still diffed at its own key, so
// comment and privilege changes on it are emitted.
func (s *Sequence) IsOwned() bool { return s.OwnedTable != "" }
