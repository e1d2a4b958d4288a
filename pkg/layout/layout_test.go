// SPDX-License-Identifier: Apache-2.0

package layout

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbschema/dbschema/pkg/model"
)

func sampleDB() *model.Database {
	db := model.NewDatabase()
	s := model.NewSchema("public")
	s.SetOwner("postgres")

	t1 := model.NewTable("public", "accounts")
	id := model.NewColumn("public", "accounts", "id")
	id.Type = "integer"
	id.NotNull = true
	t1.Columns = append(t1.Columns, id)
	s.Tables["accounts"] = t1

	f1 := model.NewFunction("public", "total", "integer")
	f1.Returns = "integer"
	f1.Language = "sql"
	f1.Source = "SELECT 1"
	s.Functions[f1.Key().String()] = f1

	f2 := model.NewFunction("public", "total", "text")
	f2.Returns = "integer"
	f2.Language = "sql"
	f2.Source = "SELECT 2"
	s.Functions[f2.Key().String()] = f2

	db.Schemas["public"] = s
	return db
}

func TestWriteProducesExpectedFiles(t *testing.T) {
	dir := t.TempDir()
	db := sampleDB()

	res, err := Write(dir, "mydb", db, 32)
	require.NoError(t, err)

	assert.Contains(t, res.WrittenFiles, "schema.public.yaml")
	assert.Contains(t, res.WrittenFiles, filepath.Join("schema.public", "table.accounts.yaml"))
	assert.Contains(t, res.WrittenFiles, filepath.Join("schema.public", "function.total.yaml"))

	_, err = os.Stat(filepath.Join(dir, "database.mydb.yaml"))
	require.NoError(t, err)

	funcFileData, err := os.ReadFile(filepath.Join(dir, "schema.public", "function.total.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(funcFileData), "function total(integer)")
	assert.Contains(t, string(funcFileData), "function total(text)")
}

func TestWritePrunesStaleFiles(t *testing.T) {
	dir := t.TempDir()
	db := sampleDB()

	_, err := Write(dir, "mydb", db, 32)
	require.NoError(t, err)

	delete(db.Schemas["public"].Tables, "accounts")
	res, err := Write(dir, "mydb", db, 32)
	require.NoError(t, err)

	assert.Contains(t, res.DeletedFiles, filepath.Join("schema.public", "table.accounts.yaml"))
	_, err = os.Stat(filepath.Join(dir, "schema.public", "table.accounts.yaml"))
	assert.True(t, os.IsNotExist(err))
}

func TestReadReconstructsWrittenTree(t *testing.T) {
	dir := t.TempDir()
	db := sampleDB()

	_, err := Write(dir, "mydb", db, 32)
	require.NoError(t, err)

	doc, err := Read(dir)
	require.NoError(t, err)

	schemaDoc, ok := doc["schema public"].(map[string]any)
	require.True(t, ok, "expected a \"schema public\" entry, got %#v", doc)

	assert.Contains(t, schemaDoc, "table accounts")
	assert.Contains(t, schemaDoc, "function total(integer)")
	assert.Contains(t, schemaDoc, "function total(text)")

	rebuilt, err := model.FromMap(doc)
	require.NoError(t, err)
	require.NotNil(t, rebuilt.Schemas["public"])
	assert.Contains(t, rebuilt.Schemas["public"].Tables, "accounts")
}

func TestSanitizeTruncatesAndLowercases(t *testing.T) {
	assert.Equal(t, "my_table", Sanitize("My-Table", 32))
	assert.Equal(t, "abcde", Sanitize("abcdefgh", 5))
}
