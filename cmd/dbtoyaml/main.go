// SPDX-License-Identifier: Apache-2.0

package main

import (
	"os"

	"github.com/dbschema/dbschema/cmd"
)

func main() {
	if err := cmd.ExecuteDbtoyaml(); err != nil {
		os.Exit(1)
	}
}
