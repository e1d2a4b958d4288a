// SPDX-License-Identifier: Apache-2.0

package sqlcheck

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dbschema/dbschema/pkg/model"
)

func TestDatabaseAcceptsWellFormedView(t *testing.T) {
	db := model.NewDatabase()
	s := model.NewSchema("public")
	v := model.NewView("public", "active_accounts")
	v.Definition = "SELECT id FROM accounts WHERE active"
	s.Views["active_accounts"] = v
	db.Schemas["public"] = s

	assert.Empty(t, Database(db))
}

func TestDatabaseRejectsMalformedView(t *testing.T) {
	db := model.NewDatabase()
	s := model.NewSchema("public")
	v := model.NewView("public", "broken")
	v.Definition = "SELEC id FROM accounts"
	s.Views["broken"] = v
	db.Schemas["public"] = s

	errs := Database(db)
	assert.Len(t, errs, 1)
}

func TestDatabaseSkipsCatalogSourcedObjects(t *testing.T) {
	db := model.NewDatabase()
	s := model.NewSchema("public")
	v := model.NewView("public", "from_catalog")
	v.Definition = "this is not valid SQL at all ((("
	v.SetOID("12345")
	s.Views["from_catalog"] = v
	db.Schemas["public"] = s

	assert.Empty(t, Database(db))
}

func TestDatabaseValidatesCheckExpression(t *testing.T) {
	db := model.NewDatabase()
	s := model.NewSchema("public")
	tbl := model.NewTable("public", "accounts")
	cc := model.NewCheckConstraint("public", "accounts", "balance_check")
	cc.Expression = "(balance >= 0)"
	tbl.CheckConstraints["balance_check"] = cc
	s.Tables["accounts"] = tbl
	db.Schemas["public"] = s

	assert.Empty(t, Database(db))
}
