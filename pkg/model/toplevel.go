// SPDX-License-Identifier: Apache-2.0

package model

// Extension is a top-level (non-schema-bound in YAML terms, though
// Postgres assigns it a schema) installed extension. Tables it provides
// are left out of the model during catalog reading (spec.md §4.3
// "extension -> implicitly provides...", §9 open question / issue #175);
// the views, sequences, functions and aggregates it provides are not
// filtered and are read like any other object.
type Extension struct {
	Base
	Name    string `json:"-"`
	Schema  string `json:"schema,omitempty"`
	Version string `json:"version,omitempty"`
}

func NewExtension(name string) *Extension {
	return &Extension{Base: NewBase(KindExtension, NewKey(KindExtension, name)), Name: name}
}

// Cast converts one type to another, optionally via a function. Its key is
// the (source_type, target_type) pair named explicitly in spec.md §3.
type Cast struct {
	Base
	SourceType string `json:"-"`
	TargetType string `json:"-"`
	Function   string `json:"function,omitempty"`
	Context    string `json:"context,omitempty"` // IMPLICIT | ASSIGNMENT | EXPLICIT
	Method     string `json:"method,omitempty"`
}

func NewCast(sourceType, targetType string) *Cast {
	return &Cast{
		Base:       NewBase(KindCast, NewKey(KindCast, sourceType, targetType)),
		SourceType: sourceType,
		TargetType: targetType,
	}
}

// Language is a PL handler registration (plpgsql, plpython3u, ...).
type Language struct {
	Base
	Name          string `json:"-"`
	Trusted       bool   `json:"trusted,omitempty"`
	HandlerFunc   string `json:"handler,omitempty"`
	ValidatorFunc string `json:"validator,omitempty"`
}

func NewLanguage(name string) *Language {
	return &Language{Base: NewBase(KindLanguage, NewKey(KindLanguage, name)), Name: name}
}

// EventTrigger fires on DDL events, database-wide.
type EventTrigger struct {
	Base
	Name     string `json:"-"`
	Event    string `json:"event"`
	Function string `json:"function"`
	Tags     []string `json:"tags,omitempty"`
	Enabled  string `json:"enabled,omitempty"` // O | D | R | A
}

func NewEventTrigger(name string) *EventTrigger {
	return &EventTrigger{Base: NewBase(KindEventTrigger, NewKey(KindEventTrigger, name)), Name: name}
}

// Text search object family (spec.md §1 object list).
type TSParser struct {
	Base
	Schema, Name string `json:"-"`
	StartFunc, TokenFunc, EndFunc, LexTypesFunc, HeadlineFunc string
}

func NewTSParser(schema, name string) *TSParser {
	return &TSParser{Base: NewBase(KindTSParser, NewKey(KindTSParser, schema, name)), Schema: schema, Name: name}
}

type TSDictionary struct {
	Base
	Schema, Name string `json:"-"`
	Template string            `json:"template"`
	Options  map[string]string `json:"options,omitempty"`
}

func NewTSDictionary(schema, name string) *TSDictionary {
	return &TSDictionary{Base: NewBase(KindTSDictionary, NewKey(KindTSDictionary, schema, name)), Schema: schema, Name: name}
}

type TSTemplate struct {
	Base
	Schema, Name string `json:"-"`
	InitFunc, LexizeFunc string
}

func NewTSTemplate(schema, name string) *TSTemplate {
	return &TSTemplate{Base: NewBase(KindTSTemplate, NewKey(KindTSTemplate, schema, name)), Schema: schema, Name: name}
}

type TSConfig struct {
	Base
	Schema, Name string `json:"-"`
	Parser   string            `json:"parser"`
	Mappings map[string][]string `json:"mappings,omitempty"` // token type -> dictionary chain
}

func NewTSConfig(schema, name string) *TSConfig {
	return &TSConfig{Base: NewBase(KindTSConfiguration, NewKey(KindTSConfiguration, schema, name)), Schema: schema, Name: name}
}

// Foreign-data family (spec.md §1 object list).
type FDW struct {
	Base
	Name            string            `json:"-"`
	Handler         string            `json:"handler,omitempty"`
	Validator       string            `json:"validator,omitempty"`
	Options         map[string]string `json:"options,omitempty"`
	Servers         map[string]*ForeignServer `json:"servers,omitempty"`
}

func NewFDW(name string) *FDW {
	return &FDW{Base: NewBase(KindForeignDataWraper, NewKey(KindForeignDataWraper, name)), Name: name, Servers: map[string]*ForeignServer{}}
}

type ForeignServer struct {
	Base
	Name string `json:"-"`
	FDWName string `json:"-"`
	Type    string `json:"type,omitempty"`
	Version string `json:"version,omitempty"`
	Options map[string]string `json:"options,omitempty"`
	UserMappings map[string]*UserMapping `json:"user_mappings,omitempty"`
}

func NewForeignServer(fdw, name string) *ForeignServer {
	return &ForeignServer{Base: NewBase(KindForeignServer, NewKey(KindForeignServer, fdw, name)), Name: name, FDWName: fdw, UserMappings: map[string]*UserMapping{}}
}

type UserMapping struct {
	Base
	Server string `json:"-"`
	User   string `json:"-"`
	Options map[string]string `json:"options,omitempty"`
}

func NewUserMapping(server, user string) *UserMapping {
	return &UserMapping{Base: NewBase(KindUserMapping, NewKey(KindUserMapping, server, user)), Server: server, User: user}
}

type ForeignTable struct {
	Base
	Schema, Name string `json:"-"`
	Server  string            `json:"server"`
	Options map[string]string `json:"options,omitempty"`
	Columns []*Column         `json:"columns"`
}

func NewForeignTable(schema, name string) *ForeignTable {
	return &ForeignTable{Base: NewBase(KindForeignTable, NewKey(KindForeignTable, schema, name)), Schema: schema, Name: name}
}
