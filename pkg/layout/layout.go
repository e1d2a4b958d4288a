// SPDX-License-Identifier: Apache-2.0

// Package layout implements dbtoyaml's "multiple files" output mode
// (spec.md §6): instead of one YAML document on stdout/a single file, the
// model is split across a two-level directory tree, one file per
// schema-bound object (grouped by base name for overloaded functions),
// plus a `database.<dbname>.yaml` index listing every file the run wrote
// so a later run can detect and delete files that no longer correspond to
// any object.
package layout

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/dbschema/dbschema/pkg/model"
)

// Result reports what Write did, for the CLI to log.
type Result struct {
	WrittenFiles []string
	DeletedFiles []string
}

var nonIdentChar = regexp.MustCompile(`[^a-z0-9_]`)

// Sanitize applies spec.md §6's filename rule: lower-case, every
// non-alphanumeric character except `_` becomes `_`, then truncate to
// maxIdentLen.
func Sanitize(name string, maxIdentLen int) string {
	s := nonIdentChar.ReplaceAllString(strings.ToLower(name), "_")
	if len(s) > maxIdentLen {
		s = s[:maxIdentLen]
	}
	return s
}

// Write renders db as a multiple-files tree rooted at dir, overwriting any
// same-named files from a previous run and deleting files a previous run's
// index claims but this run no longer produces (spec.md §6 "used to
// detect and delete stale files").
func Write(dir, dbname string, db *model.Database, maxIdentLen int) (*Result, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	files := map[string]map[string]any{}
	doc := model.ToMap(db)

	for key, val := range doc {
		kind, name, ok := splitKey(key)
		if !ok {
			continue
		}
		if kind == "schema" {
			writeSchema(files, name, val.(map[string]any), maxIdentLen)
			continue
		}
		path := fmt.Sprintf("%s.%s.yaml", kind, Sanitize(name, maxIdentLen))
		mergeInto(files, path, key, val)
	}

	var written []string
	for relPath, content := range files {
		full := filepath.Join(dir, relPath)
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			return nil, err
		}
		encoded, err := model.Encode(content)
		if err != nil {
			return nil, fmt.Errorf("encoding %s: %w", relPath, err)
		}
		if err := os.WriteFile(full, encoded, 0o644); err != nil {
			return nil, err
		}
		written = append(written, relPath)
	}
	sort.Strings(written)

	deleted, err := pruneStale(dir, dbname, written)
	if err != nil {
		return nil, err
	}

	if err := writeIndex(dir, dbname, written); err != nil {
		return nil, err
	}

	return &Result{WrittenFiles: written, DeletedFiles: deleted}, nil
}

// Read reconstructs the generic document map a single-file dbtoyaml run
// would have produced, by merging a multiple-files tree rooted at dir back
// together: every schema.<name>/<objtype>.<name>.yaml file is merged into
// its schema.<name>.yaml sibling, and every other <objtype>.<name>.yaml
// file is merged at the top level. The index file itself is not read back;
// the directory listing is authoritative for what exists now.
func Read(dir string) (map[string]any, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	doc := map[string]any{}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() {
			continue
		}
		if !strings.HasSuffix(name, ".yaml") || strings.HasPrefix(name, "database.") {
			continue
		}
		if strings.HasPrefix(name, "schema.") {
			schemaName := strings.TrimSuffix(strings.TrimPrefix(name, "schema."), ".yaml")
			attrs, err := readYAMLFile(filepath.Join(dir, name))
			if err != nil {
				return nil, err
			}
			schemaKey, schemaAttrs, ok := singleEntry(attrs)
			if !ok {
				continue
			}
			if err := mergeSchemaDir(doc, schemaKey, schemaAttrs, filepath.Join(dir, "schema."+schemaName)); err != nil {
				return nil, err
			}
			continue
		}
		m, err := readYAMLFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		for k, v := range m {
			doc[k] = v
		}
	}
	return doc, nil
}

func readYAMLFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return model.Decode(data)
}

// singleEntry returns the lone key/value pair a schema.<name>.yaml file
// holds (its "schema <name>" key), or ok=false if the file is empty.
func singleEntry(m map[string]any) (key string, val map[string]any, ok bool) {
	for k, v := range m {
		sub, _ := v.(map[string]any)
		return k, sub, true
	}
	return "", nil, false
}

// mergeSchemaDir folds every child file under a schema.<name>/ directory
// (if it exists) into schemaAttrs, then assigns the merged map to
// doc[schemaKey].
func mergeSchemaDir(doc map[string]any, schemaKey string, schemaAttrs map[string]any, childDir string) error {
	if schemaAttrs == nil {
		schemaAttrs = map[string]any{}
	}
	childEntries, err := os.ReadDir(childDir)
	if err != nil {
		if os.IsNotExist(err) {
			doc[schemaKey] = schemaAttrs
			return nil
		}
		return err
	}
	for _, ce := range childEntries {
		if ce.IsDir() || !strings.HasSuffix(ce.Name(), ".yaml") {
			continue
		}
		m, err := readYAMLFile(filepath.Join(childDir, ce.Name()))
		if err != nil {
			return err
		}
		for k, v := range m {
			schemaAttrs[k] = v
		}
	}
	doc[schemaKey] = schemaAttrs
	return nil
}

// writeSchema splits one schema's ToMap entry into its own
// schema.<name>.yaml (attributes only) plus one schema.<name>/<kind>.
// <name>.yaml per child object, grouping overloaded functions sharing a
// base name into a single file (spec.md §6 "Functions sharing a base name
// go into one file regardless of signature").
func writeSchema(files map[string]map[string]any, schemaName string, schemaMap map[string]any, maxIdentLen int) {
	schemaDir := fmt.Sprintf("schema.%s", Sanitize(schemaName, maxIdentLen))
	schemaFile := schemaDir + ".yaml"
	schemaKey := "schema " + schemaName

	attrs := map[string]any{}
	for k, v := range schemaMap {
		kind, name, ok := splitKey(k)
		if !ok {
			attrs[k] = v
			continue
		}
		baseName := name
		if kind == "function" || kind == "aggregate" {
			baseName = baseNameOf(name)
		}
		childPath := filepath.Join(schemaDir, fmt.Sprintf("%s.%s.yaml", kind, Sanitize(baseName, maxIdentLen)))
		mergeInto(files, childPath, k, v)
	}
	mergeInto(files, schemaFile, schemaKey, attrs)
}

func baseNameOf(signature string) string {
	if i := strings.IndexByte(signature, '('); i >= 0 {
		return signature[:i]
	}
	return signature
}

func mergeInto(files map[string]map[string]any, path, key string, val any) {
	m, ok := files[path]
	if !ok {
		m = map[string]any{}
		files[path] = m
	}
	m[key] = val
}

func splitKey(key string) (kind, name string, ok bool) {
	i := strings.IndexByte(key, ' ')
	if i < 0 {
		return "", "", false
	}
	return key[:i], key[i+1:], true
}

func writeIndex(dir, dbname string, files []string) error {
	fileList := make([]any, 0, len(files))
	for _, f := range files {
		fileList = append(fileList, f)
	}
	doc := map[string]any{
		"database": dbname,
		"run_id":   uuid.NewString(),
		"files":    fileList,
	}
	encoded, err := model.Encode(doc)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, indexName(dbname)), encoded, 0o644)
}

func indexName(dbname string) string {
	return fmt.Sprintf("database.%s.yaml", dbname)
}

// pruneStale reads the previous run's index (if any) and deletes every
// file it lists that the current run did not rewrite.
func pruneStale(dir, dbname string, current []string) ([]string, error) {
	prevPath := filepath.Join(dir, indexName(dbname))
	data, err := os.ReadFile(prevPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	m, err := model.Decode(data)
	if err != nil {
		return nil, nil // malformed previous index is not fatal; nothing to prune
	}
	rawFiles, _ := m["files"].([]any)

	currentSet := map[string]bool{}
	for _, f := range current {
		currentSet[f] = true
	}

	var deleted []string
	for _, rf := range rawFiles {
		name, ok := rf.(string)
		if !ok || currentSet[name] {
			continue
		}
		full := filepath.Join(dir, name)
		if err := os.Remove(full); err == nil {
			deleted = append(deleted, name)
		}
	}
	return deleted, nil
}
