// SPDX-License-Identifier: Apache-2.0

package augment

import (
	"bytes"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"sigs.k8s.io/yaml"
)

// TableAugment is one table's entry in an augmentation spec: the name of a
// named audit_columns template to inject (spec.md §4.6). Additional
// injection kinds (a future "computed_columns" or similar) would widen
// this struct; today audit_columns is the only recognized option.
type TableAugment struct {
	AuditColumns string `json:"audit_columns,omitempty"`
}

// Spec is the augmenter's input document: a small declarative map naming
// prototype columns/triggers/functions to inject into listed tables,
// keyed by "schema.table".
type Spec struct {
	Tables map[string]TableAugment `json:"tables"`
}

// specSchema is the JSON Schema every augmentation spec is validated
// against before it's applied, the same validate-before-use
// pattern of compiling a schema document and validating decoded JSON
// against it (there: migration files against schema.json; here: augment
// specs against this document) rather than hand-checking map shapes.
const specSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["tables"],
  "additionalProperties": false,
  "properties": {
    "tables": {
      "type": "object",
      "additionalProperties": {
        "type": "object",
        "additionalProperties": false,
        "properties": {
          "audit_columns": {
            "type": "string",
            "enum": ["default", "modified_only", "created_date_only", "full"]
          }
        }
      }
    }
  }
}`

// LoadSpec parses and validates an augmentation spec document (YAML or
// JSON; sigs.k8s.io/yaml accepts both). Validation happens before any table is
// touched, matching spec.md §7's "YAML parse: ... abort before any DDL is
// emitted" policy applied to the augmenter's own input file.
func LoadSpec(data []byte) (*Spec, error) {
	jsonData, err := yaml.YAMLToJSON(data)
	if err != nil {
		return nil, fmt.Errorf("augment spec: %w", err)
	}

	if err := validateAgainstSchema(jsonData); err != nil {
		return nil, fmt.Errorf("augment spec: %w", err)
	}

	var spec Spec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("augment spec: %w", err)
	}
	return &spec, nil
}

func validateAgainstSchema(jsonData []byte) error {
	compiler := jsonschema.NewCompiler()

	schemaDoc, err := jsonschema.UnmarshalJSON(bytes.NewReader([]byte(specSchema)))
	if err != nil {
		return err
	}
	if err := compiler.AddResource("augment-spec.json", schemaDoc); err != nil {
		return err
	}
	sch, err := compiler.Compile("augment-spec.json")
	if err != nil {
		return err
	}

	instDoc, err := jsonschema.UnmarshalJSON(bytes.NewReader(jsonData))
	if err != nil {
		return err
	}
	return sch.Validate(instDoc)
}
