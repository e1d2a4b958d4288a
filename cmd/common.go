// SPDX-License-Identifier: Apache-2.0

// Package cmd wires dbtoyaml, yamltodb and dbaugment's cobra commands to
// the pkg/catalog, pkg/differ, pkg/graph, pkg/linker, pkg/scheduler and
// pkg/layout packages, the way a cobra-based CLI wires its own
// subcommands to pkg/roll.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dbschema/dbschema/cmd/flags"
	"github.com/dbschema/dbschema/internal/config"
	"github.com/dbschema/dbschema/internal/connstr"
	"github.com/dbschema/dbschema/pkg/catalog"
	"github.com/dbschema/dbschema/pkg/db"
	"github.com/dbschema/dbschema/pkg/layout"
	"github.com/dbschema/dbschema/pkg/logger"
	"github.com/dbschema/dbschema/pkg/model"
)

// connectDB opens a connection to dbname using -H/-p/-U/-W, falling back to
// the loaded config file's connection defaults for anything the flags left
// unset, and finally to lib/pq's own PG*-env-var handling (connstr.BuildDSN
// never reads those itself).
func connectDB(cmd *cobra.Command, dbname string) (*db.RDB, error) {
	password, err := flags.ResolvePassword(cmd)
	if err != nil {
		return nil, fmt.Errorf("reading password: %w", err)
	}

	settings, err := config.Load(flags.ConfigPath())
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	host, port, user := flags.Host(), flags.Port(), flags.User()
	if host == "" {
		host = settings.Host
	}
	if port == 0 {
		port = settings.Port
	}
	if user == "" {
		user = settings.User
	}

	dsn := connstr.BuildDSN(connstr.ConnectOptions{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		Database: dbname,
	})

	conn, err := db.Open(dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to %q: %w", dbname, err)
	}
	return conn, nil
}

// catalogOptions builds catalog.Options from the -n/-N/-t/-T/-O/-x flags.
// dbtoyaml registers all of them; yamltodb has no -t/-T/-O.
func catalogOptions(cmd *cobra.Command) catalog.Options {
	return catalog.Options{
		IncludeSchemas: flags.Schemas(cmd),
		ExcludeSchemas: flags.ExcludeSchemas(cmd),
		IncludeTables:  flags.Tables(cmd),
		ExcludeTables:  flags.ExcludeTables(cmd),
		NoOwner:        flags.NoOwner(cmd),
		NoPrivileges:   flags.NoPrivileges(cmd),
	}
}

// readCatalog connects, reads the live catalogs and closes the connection,
// returning the current-state model every binary diffs or emits from.
func readCatalog(ctx context.Context, cmd *cobra.Command, dbname string, log logger.Logger) (*model.Database, error) {
	conn, err := connectDB(cmd, dbname)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	reader, err := catalog.NewReader(ctx, conn, catalogOptions(cmd))
	if err != nil {
		return nil, fmt.Errorf("probing server: %w", err)
	}

	log.LogReadStart(dbname)
	current, err := reader.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading catalogs: %w", err)
	}
	log.LogReadComplete(len(current.AllObjects()))
	return current, nil
}

// readSpec loads the desired-state document named by args[argIndex], or
// stdin if that argument is "-" or absent, or a multiple-files tree under
// --repo-path when -m was given (spec.md §6).
func readSpec(cmd *cobra.Command, args []string, argIndex int) (*model.Database, error) {
	var data []byte
	var err error

	if flags.MultipleFiles(cmd) {
		doc, rerr := layout.Read(flags.RepoPath(cmd))
		if rerr != nil {
			return nil, fmt.Errorf("reading multiple-files spec: %w", rerr)
		}
		return model.FromMap(doc)
	}

	specArg := "-"
	if len(args) > argIndex {
		specArg = args[argIndex]
	}
	if specArg == "-" || specArg == "" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(specArg)
	}
	if err != nil {
		return nil, fmt.Errorf("reading spec: %w", err)
	}

	doc, err := model.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("parsing spec YAML: %w", err)
	}
	return model.FromMap(doc)
}

// writeModel renders db either to --output (or stdout) as one YAML
// document, or across a multiple-files tree under --repo-path when -m was
// given.
func writeModel(cmd *cobra.Command, dbname string, out *model.Database) error {
	if flags.MultipleFiles(cmd) {
		res, err := layout.Write(flags.RepoPath(cmd), dbname, out, maxIdentLen(cmd))
		if err != nil {
			return fmt.Errorf("writing multiple-files output: %w", err)
		}
		for _, f := range res.DeletedFiles {
			fmt.Fprintf(os.Stderr, "removed stale file %s\n", f)
		}
		return nil
	}

	encoded, err := model.Encode(model.ToMap(out))
	if err != nil {
		return fmt.Errorf("encoding YAML: %w", err)
	}

	target := flags.Output(cmd)
	if target == "" {
		_, err = os.Stdout.Write(encoded)
		return err
	}
	return os.WriteFile(target, encoded, 0o644)
}

// maxIdentLen resolves PYRSEAS_MAX_IDENT_LEN via internal/config, without
// requiring every subcommand to load a full config.Settings.
func maxIdentLen(cmd *cobra.Command) int {
	return config.MaxIdentLen()
}

// dbnameArg extracts the required positional dbname argument.
func dbnameArg(args []string) (string, error) {
	if len(args) == 0 || args[0] == "" {
		return "", errNoDatabase
	}
	return args[0], nil
}
