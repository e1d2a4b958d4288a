// SPDX-License-Identifier: Apache-2.0

package augment

// columnPrototype is one audit column a named template adds. Default and
// Type are literal SQL fragments, not further substituted — only the
// trigger/function body below needs per-table parameterization, since
// column names are fixed regardless of which table they land on (spec.md
// §4.6: "each template names a set of prototype columns").
type columnPrototype struct {
	Name    string
	Type    string
	Default string
	NotNull bool
}

// prototype is one named audit_columns template: the columns it adds, and
// the (optional) BEFORE UPDATE trigger body that keeps them current. An
// empty TriggerBody means the template is insert-time only (the column's
// own DEFAULT does all the work, as with created_date_only) and needs no
// trigger or function at all.
type prototype struct {
	Columns     []columnPrototype
	TriggerBody string
}

// namedTemplates are the four audit_columns sets spec.md §4.6 enumerates.
// TriggerBody entries are plain PL/pgSQL statements; they are inserted as
// triggerContext.Body into the function template below, which is itself
// substituted once (left-to-right, spec.md §4.6).
var namedTemplates = map[string]prototype{
	"created_date_only": {
		Columns: []columnPrototype{
			{Name: "created_date", Type: "date", Default: "CURRENT_DATE", NotNull: true},
		},
	},
	"modified_only": {
		Columns: []columnPrototype{
			{Name: "updated_at", Type: "timestamptz", Default: "now()", NotNull: true},
		},
		TriggerBody: `NEW.updated_at = now();`,
	},
	"default": {
		Columns: []columnPrototype{
			{Name: "created_at", Type: "timestamptz", Default: "now()", NotNull: true},
			{Name: "updated_at", Type: "timestamptz", Default: "now()", NotNull: true},
		},
		TriggerBody: `NEW.updated_at = now();`,
	},
	"full": {
		Columns: []columnPrototype{
			{Name: "created_at", Type: "timestamptz", Default: "now()", NotNull: true},
			{Name: "updated_at", Type: "timestamptz", Default: "now()", NotNull: true},
			{Name: "created_by", Type: "text", Default: "current_user", NotNull: true},
			{Name: "updated_by", Type: "text", Default: "current_user", NotNull: true},
		},
		TriggerBody: "NEW.updated_at = now();\n      NEW.updated_by = current_user;",
	},
}

// functionTemplate and triggerTemplate are a fixed PL/pgSQL skeleton with
// `qi`/`ql` template funcs wrapping pq.QuoteIdentifier/QuoteLiteral,
// executed once per augmented table via executeTemplate.
const functionTemplate = `CREATE OR REPLACE FUNCTION {{ .FunctionName | qi }}()
    RETURNS TRIGGER
    LANGUAGE PLPGSQL
    AS $$
    BEGIN
      {{ .Body }}
      RETURN NEW;
    END; $$
`

const triggerTemplate = `CREATE OR REPLACE TRIGGER {{ .TriggerName | qi }}
    BEFORE UPDATE
    ON {{ .TableName | qi }}
    FOR EACH ROW
    EXECUTE PROCEDURE {{ .FunctionName | qi }}();
`
