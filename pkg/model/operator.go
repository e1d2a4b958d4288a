// SPDX-License-Identifier: Apache-2.0

package model

// Operator's key is (source_type, target_type) style pairing specialized
// to operators: (name, left type, right type). It depends on its operand
// types and underlying function (spec.md §4.3).
type Operator struct {
	Base
	Schema   string `json:"-"`
	Name     string `json:"-"`
	LeftType string `json:"-"`
	RightType string `json:"-"`

	Function  string `json:"function"`
	Commutator string `json:"commutator,omitempty"`
	Negator    string `json:"negator,omitempty"`
}

func NewOperator(schema, name, leftType, rightType string) *Operator {
	return &Operator{
		Base:      NewBase(KindOperator, NewKey(KindOperator, schema, name, leftType, rightType)),
		Schema:    schema,
		Name:      name,
		LeftType:  leftType,
		RightType: rightType,
	}
}

// OperatorClass groups operators/functions for use by an index access
// method (spec.md §3 kind enum).
type OperatorClass struct {
	Base
	Schema      string   `json:"-"`
	Name        string   `json:"-"`
	IndexMethod string   `json:"index_method"`
	Type        string   `json:"type"`
	Default     bool     `json:"default,omitempty"`
	Operators   []string `json:"operators,omitempty"`
	Functions   []string `json:"functions,omitempty"`
}

func NewOperatorClass(schema, name, indexMethod string) *OperatorClass {
	return &OperatorClass{
		Base:        NewBase(KindOperatorClass, NewKey(KindOperatorClass, schema, name, indexMethod)),
		Schema:      schema,
		Name:        name,
		IndexMethod: indexMethod,
	}
}

// OperatorFamily is the looser grouping above operator classes.
type OperatorFamily struct {
	Base
	Schema      string `json:"-"`
	Name        string `json:"-"`
	IndexMethod string `json:"index_method"`
}

func NewOperatorFamily(schema, name, indexMethod string) *OperatorFamily {
	return &OperatorFamily{
		Base:        NewBase(KindOperatorFamily, NewKey(KindOperatorFamily, schema, name, indexMethod)),
		Schema:      schema,
		Name:        name,
		IndexMethod: indexMethod,
	}
}
