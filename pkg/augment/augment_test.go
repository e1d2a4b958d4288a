// SPDX-License-Identifier: Apache-2.0

package augment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbschema/dbschema/pkg/model"
)

func newAugmentable(schemaName, tableName string) *model.Database {
	db := model.NewDatabase()
	s := model.NewSchema(schemaName)
	t := model.NewTable(schemaName, tableName)
	id := model.NewColumn(schemaName, tableName, "id")
	id.Type = "integer"
	id.NotNull = true
	t.Columns = append(t.Columns, id)
	s.Tables[tableName] = t
	db.Schemas[schemaName] = s
	return db
}

func TestLoadSpecValidatesTemplateName(t *testing.T) {
	_, err := LoadSpec([]byte(`tables: {"public.accounts": {audit_columns: not_a_template}}`))
	assert.Error(t, err)
}

func TestLoadSpecRejectsUnknownKey(t *testing.T) {
	_, err := LoadSpec([]byte(`tables: {"public.accounts": {bogus: true}}`))
	assert.Error(t, err)
}

func TestApplyDefaultTemplateAddsColumnsAndTrigger(t *testing.T) {
	db := newAugmentable("public", "accounts")
	spec, err := LoadSpec([]byte(`tables: {"public.accounts": {audit_columns: default}}`))
	require.NoError(t, err)

	out, err := Apply(db, spec)
	require.NoError(t, err)

	tbl := out.Schemas["public"].Tables["accounts"]
	var names []string
	for _, c := range tbl.Columns {
		names = append(names, c.Name)
	}
	assert.Contains(t, names, "created_at")
	assert.Contains(t, names, "updated_at")
	assert.Len(t, tbl.Triggers, 1)
	assert.Len(t, out.Schemas["public"].Functions, 1)
}

func TestApplyCreatedDateOnlyTemplateHasNoTrigger(t *testing.T) {
	db := newAugmentable("public", "accounts")
	spec := &Spec{Tables: map[string]TableAugment{
		"public.accounts": {AuditColumns: "created_date_only"},
	}}

	out, err := Apply(db, spec)
	require.NoError(t, err)

	tbl := out.Schemas["public"].Tables["accounts"]
	assert.Len(t, tbl.Triggers, 0)
	assert.Len(t, out.Schemas["public"].Functions, 0)
}

func TestApplyUnknownTableErrors(t *testing.T) {
	db := newAugmentable("public", "accounts")
	spec := &Spec{Tables: map[string]TableAugment{
		"public.missing": {AuditColumns: "default"},
	}}

	_, err := Apply(db, spec)
	assert.Error(t, err)
}

func TestApplyIsIdempotentOnColumns(t *testing.T) {
	db := newAugmentable("public", "accounts")
	spec := &Spec{Tables: map[string]TableAugment{
		"public.accounts": {AuditColumns: "default"},
	}}

	out, err := Apply(db, spec)
	require.NoError(t, err)
	out, err = Apply(out, spec)
	require.NoError(t, err)

	tbl := out.Schemas["public"].Tables["accounts"]
	count := 0
	for _, c := range tbl.Columns {
		if c.Name == "created_at" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}
