// SPDX-License-Identifier: Apache-2.0

package model

// Object is implemented by every catalog object variant. It is the minimal
// contract the differ and linker need regardless of kind: sum-type
// polymorphism (spec.md §9) in place of a class hierarchy.
type Object interface {
	Kind() Kind
	Key() Key
	Owner() string
	SetOwner(string)
	Description() string
	SetDescription(string)
	// OID is populated only on objects read from a live catalog (the
	// current-side model); it is empty on objects parsed from YAML.
	OID() string
	// DependsOn lists the keys this object requires to exist. Populated by
	// the Dependency Linker after the model is fully loaded.
	DependsOn() []Key
	AddDependency(Key)
	// Renamed returns the oldname this desired-side object claims to have
	// been renamed from, or the zero Key if this is not a rename.
	Renamed() (Key, bool)
}

// Privileged is implemented by objects that carry an ACL. Grantees are
// plain strings (spec.md §3 invariant 5: no role resolution is needed).
type Privileged interface {
	Privileges() []Privilege
	SetPrivileges([]Privilege)
}

// Privilege is one decoded ACL tuple.
type Privilege struct {
	Grantee   string `json:"grantee"`
	Grantor   string `json:"grantor,omitempty"`
	Privilege string `json:"privilege"`
	Grantable bool   `json:"grantable,omitempty"`
}

// Base is embedded by every concrete object type and supplies the common
// Object fields and methods, the way a migrations package
// shares behavior across operation variants via small composable structs
// rather than a deep hierarchy.
type Base struct {
	kind        Kind
	key         Key
	OwnerName   string `json:"owner,omitempty"`
	Comment     string `json:"comment,omitempty"`
	CatalogOID  string   `json:"-"`
	OldKeyPath  []string `json:"-"`
	Deps        []Key    `json:"-"`
}

func NewBase(kind Kind, key Key) Base {
	return Base{kind: kind, key: key}
}

func (b *Base) Kind() Kind               { return b.kind }
func (b *Base) Key() Key                 { return b.key }
func (b *Base) Owner() string            { return b.OwnerName }
func (b *Base) SetOwner(name string)     { b.OwnerName = name }
func (b *Base) Description() string      { return b.Comment }
func (b *Base) SetDescription(s string)  { b.Comment = s }
func (b *Base) OID() string              { return b.CatalogOID }
func (b *Base) SetOID(oid string)        { b.CatalogOID = oid }
func (b *Base) DependsOn() []Key         { return b.Deps }
func (b *Base) AddDependency(k Key)      { b.Deps = append(b.Deps, k) }

// SetOldName records a one-shot rename directive (spec.md §9 open
// question: oldname is one-shot and MUST NOT be persisted back into
// extracted YAML). kind must match k.key.Kind; callers build the full old
// Key by replacing only the final path component in the common case, but
// composite keys (functions, casts) pass the full old path.
func (b *Base) SetOldName(path ...string) {
	b.OldKeyPath = append([]string(nil), path...)
}

func (b *Base) Renamed() (Key, bool) {
	if len(b.OldKeyPath) == 0 {
		return Key{}, false
	}
	return Key{Kind: b.kind, Path: b.OldKeyPath}, true
}
