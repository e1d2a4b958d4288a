// SPDX-License-Identifier: Apache-2.0

package augment

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/tools/txtar"
)

// TestSpecSchemaValidation runs specSchema against the table-driven
// testdata corpus, the same txtar-fixture-plus-validate-bool shape the
// teacher's internal/jsonschema package uses for its own schema.json.
func TestSpecSchemaValidation(t *testing.T) {
	t.Parallel()

	files, err := os.ReadDir("testdata")
	assert.NoError(t, err)

	for _, file := range files {
		t.Run(file.Name(), func(t *testing.T) {
			t.Parallel()

			ac, err := txtar.ParseFile(filepath.Join("testdata", file.Name()))
			assert.NoError(t, err)
			assert.Len(t, ac.Files, 2)

			shouldValidate, err := strconv.ParseBool(strings.TrimSpace(string(ac.Files[1].Data)))
			assert.NoError(t, err)

			err = validateAgainstSchema(ac.Files[0].Data)
			if shouldValidate && err != nil {
				t.Errorf("expected %s to validate, got %v", ac.Files[0].Name, err)
			} else if !shouldValidate && err == nil {
				t.Errorf("expected %s to be invalid", ac.Files[0].Name)
			}
		})
	}
}
