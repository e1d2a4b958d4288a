// SPDX-License-Identifier: Apache-2.0

// Package differ computes the ordered sequence of change records between
// two linked models (spec.md §4.4): Create, Drop, Rename, Alter,
// GrantRevoke, Comment. It never emits SQL itself — pkg/scheduler turns a
// []Change into ordered DDL strings.
package differ

import "github.com/dbschema/dbschema/pkg/model"

// ChangeKind tags a Change the way model.Kind tags an object: a closed
// enum dispatched with a switch, not a type hierarchy.
type ChangeKind string

const (
	ChangeCreate      ChangeKind = "create"
	ChangeDrop        ChangeKind = "drop"
	ChangeRename      ChangeKind = "rename"
	ChangeAlter       ChangeKind = "alter"
	ChangeGrantRevoke ChangeKind = "grant_revoke"
	ChangeComment     ChangeKind = "comment"
)

// Change is one unit of the diff plan.
type Change struct {
	Kind ChangeKind

	// Create / Drop / Comment
	Object model.Object

	// Rename
	OldKey model.Key
	NewKey model.Key

	// Alter: Old and New are both non-nil, paired by key. Deltas names the
	// attributes that changed (spec.md §4.4's per-kind attribute-delta
	// sets), each mapped to a small struct describing the change — kept as
	// `any` here since the shape differs per kind/attribute and the
	// Scheduler's per-kind SQL emitters already know what to expect.
	Old, New model.Object
	Deltas   map[string]any

	// GrantRevoke
	Grants  []model.Privilege
	Revokes []model.Privilege

	// Comment
	Comment string
}

// ColumnDelta describes one column's change within a table Alter.
type ColumnDelta struct {
	Name               string
	TypeChanged        bool
	OldType, NewType    string
	NotNullChanged     bool
	NotNull            bool
	DefaultChanged     bool
	Default            *string
	CollationChanged   bool
	Collation          string
	StatisticsChanged  bool
	Statistics         *int
	StorageChanged     bool
	Storage            string
}

// TableDelta is the attr_deltas payload for a table Alter (spec.md §4.4:
// "{columns[], check_constraints, owner, tablespace, options, inheritance,
// partitioning, comment, privileges}").
type TableDelta struct {
	AddedColumns   []*model.Column
	DroppedColumns []string
	AlteredColumns []ColumnDelta
	// ReorderNoted records column names whose ordinal position changed in
	// D relative to C among survivors, purely informational: Postgres has
	// no reorder-columns DDL, so nothing is emitted for this (spec.md
	// §4.4 "position change alone is not actioned").
	ReorderNoted []string

	OwnerChanged      bool
	Owner             string
	TablespaceChanged bool
	Tablespace        string
}
