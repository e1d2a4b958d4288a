// SPDX-License-Identifier: Apache-2.0

// Package logger narrates one dbtoyaml/yamltodb/dbaugment run: catalog-read
// progress, diff-plan summaries and DDL execution. Grounded on the
// a Logger/migrationLogger/noopLogger
// split, with the same method-per-phase shape adapted from migration
// steps to this engine's own phases.
package logger

import "github.com/pterm/pterm"

// Logger is implemented by every run's narrator. Warnings (spec.md §7's
// "NULL from a catalog definition function" class) always go through Warn,
// never mixed into the SQL/plan written to stdout.
type Logger interface {
	LogReadStart(dbname string)
	LogReadComplete(objectCount int)
	LogDiffStart()
	LogDiffComplete(changeCount int)
	LogStatement(sql string)
	LogExecuteStart(statementCount int)
	LogExecuteComplete()
	LogRollback(cause error)

	Warn(msg string, args ...any)
	Info(msg string, args ...any)
}

type runLogger struct {
	logger pterm.Logger
}

type noopLogger struct{}

// New returns the pterm-backed Logger every CLI entry point uses by
// default.
func New() Logger {
	return &runLogger{logger: pterm.DefaultLogger}
}

// NewNoop returns a Logger that discards everything, for library callers
// and tests that don't want run narration on stderr.
func NewNoop() Logger {
	return &noopLogger{}
}

func (l *runLogger) LogReadStart(dbname string) {
	l.logger.Info("reading catalogs", l.logger.Args("database", dbname))
}

func (l *runLogger) LogReadComplete(objectCount int) {
	l.logger.Info("catalogs read", l.logger.Args("object_count", objectCount))
}

func (l *runLogger) LogDiffStart() {
	l.logger.Info("computing diff")
}

func (l *runLogger) LogDiffComplete(changeCount int) {
	l.logger.Info("diff computed", l.logger.Args("change_count", changeCount))
}

func (l *runLogger) LogStatement(sql string) {
	l.logger.Debug("statement", l.logger.Args("sql", sql))
}

func (l *runLogger) LogExecuteStart(statementCount int) {
	l.logger.Info("applying plan", l.logger.Args("statement_count", statementCount))
}

func (l *runLogger) LogExecuteComplete() {
	l.logger.Info("plan applied")
}

func (l *runLogger) LogRollback(cause error) {
	l.logger.Error("rolled back", l.logger.Args("cause", cause.Error()))
}

func (l *runLogger) Warn(msg string, args ...any) {
	l.logger.Warn(msg, l.logger.Args(args))
}

func (l *runLogger) Info(msg string, args ...any) {
	l.logger.Info(msg, l.logger.Args(args))
}

func (noopLogger) LogReadStart(string)      {}
func (noopLogger) LogReadComplete(int)      {}
func (noopLogger) LogDiffStart()            {}
func (noopLogger) LogDiffComplete(int)      {}
func (noopLogger) LogStatement(string)      {}
func (noopLogger) LogExecuteStart(int)      {}
func (noopLogger) LogExecuteComplete()      {}
func (noopLogger) LogRollback(error)        {}
func (noopLogger) Warn(string, ...any)      {}
func (noopLogger) Info(string, ...any)      {}
