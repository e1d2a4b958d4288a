// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/dbschema/dbschema/cmd/flags"
	"github.com/dbschema/dbschema/pkg/logger"
)

func dbtoyamlCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "dbtoyaml dbname",
		Short: "Extract a database's schema into a declarative YAML document",
		Args:  cobra.ExactArgs(1),
		RunE:  runDbtoyaml,
	}

	flags.ConnectionFlags(c)
	flags.SchemaSelectionFlags(c)
	flags.TableSelectionFlags(c)
	flags.DbtoyamlOutputFlags(c)

	return c
}

func runDbtoyaml(cmd *cobra.Command, args []string) error {
	dbname, err := dbnameArg(args)
	if err != nil {
		return err
	}

	log := logger.New()

	current, err := readCatalog(cmd.Context(), cmd, dbname, log)
	if err != nil {
		return err
	}

	return writeModel(cmd, dbname, current)
}
