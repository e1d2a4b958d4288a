// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dbschema/dbschema/cmd/flags"
	"github.com/dbschema/dbschema/pkg/augment"
	"github.com/dbschema/dbschema/pkg/logger"
	"github.com/dbschema/dbschema/pkg/model"
)

func dbaugmentCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "dbaugment dbname [spec]",
		Short: "Read a database's catalogs, inject audit-column prototypes and write the augmented YAML",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  runDbaugment,
	}

	flags.ConnectionFlags(c)
	flags.SchemaSelectionFlags(c)
	flags.DbtoyamlOutputFlags(c)

	return c
}

func runDbaugment(cmd *cobra.Command, args []string) error {
	dbname, err := dbnameArg(args)
	if err != nil {
		return err
	}

	log := logger.New()

	current, err := readCatalog(cmd.Context(), cmd, dbname, log)
	if err != nil {
		return err
	}

	specData, err := readAugmentSpec(args)
	if err != nil {
		return err
	}

	spec, err := augment.LoadSpec(specData)
	if err != nil {
		return fmt.Errorf("loading augmentation spec: %w", err)
	}

	augmented, err := augment.Apply(current, spec)
	if err != nil {
		return fmt.Errorf("applying augmentation: %w", err)
	}

	return writeAugmented(cmd, dbname, augmented)
}

// readAugmentSpec reads the augmentation spec document named by args[1],
// or stdin if omitted or "-" (spec.md §6: "If spec is - or missing, read
// stdin").
func readAugmentSpec(args []string) ([]byte, error) {
	specArg := "-"
	if len(args) > 1 {
		specArg = args[1]
	}
	if specArg == "-" || specArg == "" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(specArg)
}

// writeAugmented writes the augmented model to stdout (spec.md §6:
// "writes an augmented YAML to stdout"), or --output/-m when given, the
// same output path dbtoyaml uses.
func writeAugmented(cmd *cobra.Command, dbname string, out *model.Database) error {
	return writeModel(cmd, dbname, out)
}
