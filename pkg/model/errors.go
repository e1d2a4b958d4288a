// SPDX-License-Identifier: Apache-2.0

package model

import "fmt"

// Error types are concrete, field-carrying structs, one per failure kind,
// rather than a single formatted error string — callers can inspect
// fields with errors.As instead of string-matching messages.

type UnknownKeyError struct {
	Key Key
}

func (e UnknownKeyError) Error() string {
	return fmt.Sprintf("no object with key %q in model", e.Key.String())
}

// KindMismatchError is returned when an `oldname` directive resolves to an
// object of a different kind than the renamed object (spec.md §7: "`oldname`
// references an object that exists but of a different kind -> abort with
// clear message").
type KindMismatchError struct {
	OldKey    Key
	NewKind   Kind
	FoundKind Kind
}

func (e KindMismatchError) Error() string {
	return fmt.Sprintf("oldname %q refers to a %s, but %s was expected", e.OldKey.String(), e.FoundKind, e.NewKind)
}

type DuplicateKeyError struct {
	Key Key
}

func (e DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate object key %q", e.Key.String())
}

type InvalidForeignKeyError struct {
	Key    Key
	Reason string
}

func (e InvalidForeignKeyError) Error() string {
	return fmt.Sprintf("foreign key %q is invalid: %s", e.Key.String(), e.Reason)
}

type UnsupportedCapabilityError struct {
	Key        Key
	Capability string
}

func (e UnsupportedCapabilityError) Error() string {
	return fmt.Sprintf("object %q does not support %s", e.Key.String(), e.Capability)
}
