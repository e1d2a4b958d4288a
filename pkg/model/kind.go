// SPDX-License-Identifier: Apache-2.0

// Package model holds the typed, polymorphic in-memory representation of
// every Postgres catalog object that dbschema knows how to read, diff and
// emit DDL for.
package model

// Kind tags every object in the model with the catalog concept it
// represents. Kind drives key construction, YAML map-key rendering, and the
// capability dispatch used by the differ and scheduler.
type Kind string

const (
	KindSchema            Kind = "schema"
	KindTable             Kind = "table"
	KindView              Kind = "view"
	KindMatView           Kind = "materialized_view"
	KindSequence          Kind = "sequence"
	KindColumn            Kind = "column"
	KindCheckConstraint   Kind = "check_constraint"
	KindPrimaryKey        Kind = "primary_key"
	KindUniqueConstraint  Kind = "unique_constraint"
	KindExcludeConstraint Kind = "exclude_constraint"
	KindForeignKey        Kind = "foreign_key"
	KindIndex             Kind = "index"
	KindTrigger           Kind = "trigger"
	KindRule              Kind = "rule"
	KindFunction          Kind = "function"
	KindAggregate         Kind = "aggregate"
	KindOperator          Kind = "operator"
	KindOperatorClass     Kind = "operator_class"
	KindOperatorFamily    Kind = "operator_family"
	KindBaseType          Kind = "type"
	KindCompositeType     Kind = "composite_type"
	KindEnumType          Kind = "enum"
	KindDomain            Kind = "domain"
	KindRangeType         Kind = "range"
	KindCollation         Kind = "collation"
	KindConversion        Kind = "conversion"
	KindExtension         Kind = "extension"
	KindEventTrigger      Kind = "event_trigger"
	KindCast              Kind = "cast"
	KindLanguage          Kind = "language"
	KindTSParser          Kind = "text_search_parser"
	KindTSDictionary      Kind = "text_search_dictionary"
	KindTSTemplate        Kind = "text_search_template"
	KindTSConfiguration   Kind = "text_search_configuration"
	KindForeignDataWraper Kind = "foreign_data_wrapper"
	KindForeignServer     Kind = "foreign_server"
	KindUserMapping       Kind = "user_mapping"
	KindForeignTable      Kind = "foreign_table"
)

// supportsRename reports whether objects of this kind can be the subject of
// an ALTER ... RENAME statement. Some kinds (casts, operators, extensions)
// have no name of their own to rename.
func (k Kind) supportsRename() bool {
	switch k {
	case KindCast, KindOperator, KindOperatorClass, KindOperatorFamily,
		KindExtension, KindUserMapping, KindPrimaryKey:
		return false
	default:
		return true
	}
}

// SupportsRename is the exported form of supportsRename, used by pkg/differ
// and pkg/scheduler to reject a rename directive against a kind that has no
// ALTER ... RENAME equivalent in Postgres.
func (k Kind) SupportsRename() bool { return k.supportsRename() }
