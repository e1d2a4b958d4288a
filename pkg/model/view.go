// SPDX-License-Identifier: Apache-2.0

package model

// View and MatView store their defining query verbatim, as returned by
// pg_get_viewdef (spec.md §4.1): the engine never re-parses or
// re-derives SQL it reads back from Postgres.
type View struct {
	Base
	Schema string `json:"-"`
	Name   string `json:"-"`

	privileges []Privilege

	Definition string `json:"definition"`
	Columns    []string `json:"columns,omitempty"`
}

func NewView(schema, name string) *View {
	return &View{Base: NewBase(KindView, NewKey(KindView, schema, name)), Schema: schema, Name: name}
}

func (v *View) Privileges() []Privilege     { return v.privileges }
func (v *View) SetPrivileges(p []Privilege) { v.privileges = p }

type MatView struct {
	Base
	Schema string `json:"-"`
	Name   string `json:"-"`

	privileges []Privilege

	Definition  string `json:"definition"`
	Tablespace  string `json:"tablespace,omitempty"`
	WithData    bool   `json:"with_data,omitempty"`
	Indexes     map[string]*Index `json:"indexes,omitempty"`
}

func NewMatView(schema, name string) *MatView {
	return &MatView{Base: NewBase(KindMatView, NewKey(KindMatView, schema, name)), Schema: schema, Name: name}
}

func (v *MatView) Privileges() []Privilege     { return v.privileges }
func (v *MatView) SetPrivileges(p []Privilege) { v.privileges = p }
