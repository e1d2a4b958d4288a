// SPDX-License-Identifier: Apache-2.0

package model

import "strings"

// Key is the stable, string-tuple identifier of an object within one model.
// Keys drive pairing during diff (spec.md §3 "Object identity") and are
// reused, formatted, as the external YAML map key (§4.2, §6).
//
// Examples: schema -> {"public"}; table -> {"public", "films"}; function ->
// {"public", "foo", "integer,text"}; cast -> {"text", "integer"}.
type Key struct {
	Kind Kind
	Path []string
}

// NewKey builds a Key from a kind tag and its identifying path components.
func NewKey(kind Kind, path ...string) Key {
	return Key{Kind: kind, Path: append([]string(nil), path...)}
}

// String renders the key the way it is compared and hashed: "kind:a/b/c".
// This is the map key used internally by every model container; it is not
// the YAML document key (see yamldoc.go for that).
func (k Key) String() string {
	return string(k.Kind) + ":" + strings.Join(k.Path, "/")
}

// Equal reports whether two keys identify the same object.
func (k Key) Equal(other Key) bool {
	return k.String() == other.String()
}

// Name returns the last path component, which is conventionally the
// object's own unqualified name (column name, constraint name, etc).
func (k Key) Name() string {
	if len(k.Path) == 0 {
		return ""
	}
	return k.Path[len(k.Path)-1]
}
