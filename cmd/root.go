// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"github.com/spf13/viper"
)

// Version is set at build time via -ldflags.
var Version = "development"

func init() {
	viper.SetEnvPrefix("PYRSEAS")
	viper.AutomaticEnv()
}

// ExecuteDbtoyaml runs the dbtoyaml command.
func ExecuteDbtoyaml() error {
	c := dbtoyamlCmd()
	c.Version = Version
	return c.Execute()
}

// ExecuteYamltodb runs the yamltodb command.
func ExecuteYamltodb() error {
	c := yamltodbCmd()
	c.Version = Version
	return c.Execute()
}

// ExecuteDbaugment runs the dbaugment command.
func ExecuteDbaugment() error {
	c := dbaugmentCmd()
	c.Version = Version
	return c.Execute()
}
