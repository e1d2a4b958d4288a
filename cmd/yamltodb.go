// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dbschema/dbschema/cmd/flags"
	"github.com/dbschema/dbschema/pkg/differ"
	"github.com/dbschema/dbschema/pkg/graph"
	"github.com/dbschema/dbschema/pkg/linker"
	"github.com/dbschema/dbschema/pkg/logger"
	"github.com/dbschema/dbschema/pkg/model"
	"github.com/dbschema/dbschema/pkg/scheduler"
	"github.com/dbschema/dbschema/pkg/sqlcheck"
)

func yamltodbCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "yamltodb dbname [spec]",
		Short: "Diff a YAML schema description against a live database and apply or print the plan",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  runYamltodb,
	}

	flags.ConnectionFlags(c)
	flags.SchemaSelectionFlags(c)
	flags.YamltodbFlags(c)

	return c
}

func runYamltodb(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	dbname, err := dbnameArg(args)
	if err != nil {
		return err
	}

	log := logger.New()

	current, err := readCatalog(ctx, cmd, dbname, log)
	if err != nil {
		return err
	}

	desired, err := readSpec(cmd, args, 1)
	if err != nil {
		return err
	}

	if flags.NoPrivileges(cmd) {
		model.StripPrivileges(current)
		model.StripPrivileges(desired)
	}

	if errs := sqlcheck.Database(desired); len(errs) > 0 {
		for _, e := range errs {
			log.Warn(e.Error())
		}
		return fmt.Errorf("spec failed syntax check: %w", errs[0])
	}

	log.LogDiffStart()
	changes, err := differ.Diff(current, desired)
	if err != nil {
		return fmt.Errorf("diffing: %w", err)
	}
	log.LogDiffComplete(len(changes))

	depGraph := graph.Merge(linker.Link(current), linker.Link(desired))

	var stmts []scheduler.Statement
	if flags.Revert(cmd) {
		stmts, err = scheduler.Revert(current, desired, depGraph)
	} else {
		stmts, err = scheduler.Schedule(changes, depGraph)
	}
	if err != nil {
		return fmt.Errorf("scheduling: %w", err)
	}

	if !flags.Update(cmd) {
		if flags.SingleTransaction(cmd) {
			fmt.Fprint(os.Stdout, scheduler.RenderTransactional(stmts))
		} else {
			fmt.Fprint(os.Stdout, scheduler.Render(stmts))
		}
		return nil
	}

	conn, err := connectDB(cmd, dbname)
	if err != nil {
		return err
	}
	defer conn.Close()

	log.LogExecuteStart(len(stmts))
	if err := scheduler.Execute(ctx, conn, stmts); err != nil {
		log.LogRollback(err)
		return fmt.Errorf("applying plan (rolled back): %w", err)
	}
	log.LogExecuteComplete()

	return nil
}
