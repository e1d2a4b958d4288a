// SPDX-License-Identifier: Apache-2.0

package model

// Function's key includes its argument-type signature (spec.md §3:
// function key is (schema, name, argtypes)) because Postgres allows
// overloading by argument list.
type Function struct {
	Base
	Schema  string `json:"-"`
	Name    string `json:"-"`
	ArgTypes string `json:"-"`

	privileges []Privilege

	Arguments  string `json:"arguments,omitempty"`
	Returns    string `json:"returns"`
	Language   string `json:"language"`
	Source     string `json:"source"`
	Volatility string `json:"volatility,omitempty"` // IMMUTABLE | STABLE | VOLATILE
	Strict     bool   `json:"strict,omitempty"`
	SecurityDefiner bool `json:"security_definer,omitempty"`
}

func NewFunction(schema, name, argTypes string) *Function {
	return &Function{
		Base:     NewBase(KindFunction, NewKey(KindFunction, schema, name, argTypes)),
		Schema:   schema,
		Name:     name,
		ArgTypes: argTypes,
	}
}

func (f *Function) Privileges() []Privilege     { return f.privileges }
func (f *Function) SetPrivileges(p []Privilege) { f.privileges = p }

// QualifiedName is "name(argtypes)", the external identifier used in YAML
// map keys and in generated DDL (spec.md §4.2: `"function foo(integer,
// text)"`).
func (f *Function) QualifiedName() string {
	return f.Name + "(" + f.ArgTypes + ")"
}

// Aggregate names its state/final/combine functions and state type
// (spec.md §4.3 Linker edge source list).
type Aggregate struct {
	Base
	Schema   string `json:"-"`
	Name     string `json:"-"`
	ArgTypes string `json:"-"`

	privileges []Privilege

	StateFunc   string `json:"sfunc"`
	StateType   string `json:"stype"`
	FinalFunc   string `json:"finalfunc,omitempty"`
	CombineFunc string `json:"combinefunc,omitempty"`
	InitialCond string `json:"initcond,omitempty"`
}

func NewAggregate(schema, name, argTypes string) *Aggregate {
	return &Aggregate{
		Base:     NewBase(KindAggregate, NewKey(KindAggregate, schema, name, argTypes)),
		Schema:   schema,
		Name:     name,
		ArgTypes: argTypes,
	}
}

func (a *Aggregate) Privileges() []Privilege     { return a.privileges }
func (a *Aggregate) SetPrivileges(p []Privilege) { a.privileges = p }
