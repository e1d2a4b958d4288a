// SPDX-License-Identifier: Apache-2.0

// Package flags defines the connection and output flags shared by
// dbtoyaml, yamltodb and dbaugment, and reads them back through viper
// rather than having each subcommand call cmd.Flags().GetString directly.
package flags

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

// ConnectionFlags registers the -H/-p/-U/-W flags every dbschema binary
// accepts (spec.md §6).
func ConnectionFlags(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringP("host", "H", "", "Database server host or socket directory")
	fs.IntP("port", "p", 0, "Database server port")
	fs.StringP("user", "U", "", "Database user name")
	fs.BoolP("password-prompt", "W", false, "Force a password prompt")
	fs.StringP("config", "c", "", "Config file path")

	viper.BindPFlag("host", fs.Lookup("host"))
	viper.BindPFlag("port", fs.Lookup("port"))
	viper.BindPFlag("user", fs.Lookup("user"))
	viper.BindPFlag("password-prompt", fs.Lookup("password-prompt"))
	viper.BindPFlag("config", fs.Lookup("config"))
}

// SchemaSelectionFlags registers -n/-N (include/exclude schema), repeatable.
func SchemaSelectionFlags(cmd *cobra.Command) {
	cmd.Flags().StringArrayP("schema", "n", nil, "Schema to include (repeatable)")
	cmd.Flags().StringArrayP("exclude-schema", "N", nil, "Schema to exclude (repeatable)")
}

// TableSelectionFlags registers -t/-T (include/exclude table), repeatable.
// Only dbtoyaml exposes these (yamltodb's input already names exactly the
// tables its YAML document describes).
func TableSelectionFlags(cmd *cobra.Command) {
	cmd.Flags().StringArrayP("table", "t", nil, "Table to include (repeatable)")
	cmd.Flags().StringArrayP("exclude-table", "T", nil, "Table to exclude (repeatable)")
}

// DbtoyamlOutputFlags registers dbtoyaml's -o/-r/-O/-x/-m flags.
func DbtoyamlOutputFlags(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringP("output", "o", "", "Output file (default: stdout)")
	fs.StringP("repo-path", "r", ".", "Root directory for multiple-files output")
	fs.BoolP("no-owner", "O", false, "Omit object ownership information")
	fs.BoolP("no-privileges", "x", false, "Omit privilege (GRANT/REVOKE) information")
	fs.BoolP("multiple-files", "m", false, "Write one file per object under --repo-path")
}

// YamltodbFlags registers yamltodb's -1/-u/--revert flags, plus the -m
// multiple-files input counterpart (read, not write).
func YamltodbFlags(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.BoolP("single-transaction", "1", true, "Wrap all statements in one transaction when executing")
	fs.BoolP("update", "u", false, "Execute the plan against the database (default: print only)")
	fs.Bool("revert", false, "Compute the best-effort inverse plan (experimental)")
	fs.BoolP("no-privileges", "x", false, "Skip GRANT/REVOKE statements")
	fs.BoolP("multiple-files", "m", false, "Read spec from a multiple-files tree under repo-path")
	fs.StringP("repo-path", "r", ".", "Root directory for multiple-files input")
}

// Host, Port, User, PasswordPrompt and ConfigPath read back bound flag
// values via viper; NoOwner, NoPrivileges, MultipleFiles, RepoPath and
// Output take the command and read its flag set directly. Either way CLI
// commands go through these accessors rather than calling
// cmd.Flags().GetString themselves.
func Host() string         { return viper.GetString("host") }
func Port() int            { return viper.GetInt("port") }
func User() string         { return viper.GetString("user") }
func PasswordPrompt() bool { return viper.GetBool("password-prompt") }
func ConfigPath() string   { return viper.GetString("config") }

func Schemas(cmd *cobra.Command) []string        { return stringArray(cmd, "schema") }
func ExcludeSchemas(cmd *cobra.Command) []string { return stringArray(cmd, "exclude-schema") }
func Tables(cmd *cobra.Command) []string         { return stringArray(cmd, "table") }
func ExcludeTables(cmd *cobra.Command) []string  { return stringArray(cmd, "exclude-table") }

func Output(cmd *cobra.Command) string          { return mustString(cmd, "output") }
func RepoPath(cmd *cobra.Command) string        { return mustString(cmd, "repo-path") }
func NoOwner(cmd *cobra.Command) bool           { return mustBool(cmd, "no-owner") }
func NoPrivileges(cmd *cobra.Command) bool      { return mustBool(cmd, "no-privileges") }
func MultipleFiles(cmd *cobra.Command) bool     { return mustBool(cmd, "multiple-files") }
func SingleTransaction(cmd *cobra.Command) bool { return mustBool(cmd, "single-transaction") }
func Update(cmd *cobra.Command) bool            { return mustBool(cmd, "update") }
func Revert(cmd *cobra.Command) bool            { return mustBool(cmd, "revert") }

func stringArray(cmd *cobra.Command, name string) []string {
	v, _ := cmd.Flags().GetStringArray(name)
	return v
}

func mustString(cmd *cobra.Command, name string) string {
	v, _ := cmd.Flags().GetString(name)
	return v
}

func mustBool(cmd *cobra.Command, name string) bool {
	v, _ := cmd.Flags().GetBool(name)
	return v
}

// ResolvePassword returns the -W prompted password, or "" when -W wasn't
// given (letting PGPASSWORD/.pgpass take over, spec.md §6).
func ResolvePassword(cmd *cobra.Command) (string, error) {
	prompt, _ := cmd.Flags().GetBool("password-prompt")
	if !prompt {
		return "", nil
	}
	fmt.Fprint(os.Stderr, "Password: ")
	pw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return string(pw), nil
}
