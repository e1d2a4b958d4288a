// SPDX-License-Identifier: Apache-2.0

package differ

import "github.com/dbschema/dbschema/pkg/model"

// diffTable implements spec.md §4.4's column-level algorithm. Columns are
// always paired by name, never by position — comparing Columns[i] against
// Columns[i] positionally was the historical bug this guards against: a
// pure reorder of otherwise-identical columns would either report a
// phantom change (wrong columns compared) or, worse, mask a real change
// that happened to land on a shifted index. Pairing by name first, then
// checking survivor order separately, fixes both.
func diffTable(oldT, newT *model.Table) (TableDelta, bool) {
	oldByName := map[string]*model.Column{}
	var oldOrder []string
	for _, c := range oldT.Columns {
		oldByName[c.Name] = c
		oldOrder = append(oldOrder, c.Name)
	}
	newByName := map[string]*model.Column{}
	var newOrder []string
	for _, c := range newT.Columns {
		newByName[c.Name] = c
		newOrder = append(newOrder, c.Name)
	}

	var delta TableDelta

	for _, c := range newT.Columns {
		if _, ok := oldByName[c.Name]; !ok {
			delta.AddedColumns = append(delta.AddedColumns, c)
		}
	}
	for _, name := range oldOrder {
		if _, ok := newByName[name]; !ok {
			delta.DroppedColumns = append(delta.DroppedColumns, name)
		}
	}
	for _, name := range newOrder {
		oldCol, ok := oldByName[name]
		if !ok {
			continue
		}
		newCol := newByName[name]
		if cd, changed := diffColumn(oldCol, newCol); changed {
			delta.AlteredColumns = append(delta.AlteredColumns, cd)
		}
	}

	delta.ReorderNoted = survivorReorder(oldOrder, newOrder, oldByName, newByName)

	if oldT.Owner() != newT.Owner() {
		delta.OwnerChanged = true
		delta.Owner = newT.Owner()
	}
	if oldT.Tablespace != newT.Tablespace {
		delta.TablespaceChanged = true
		delta.Tablespace = newT.Tablespace
	}

	changed := len(delta.AddedColumns) > 0 || len(delta.DroppedColumns) > 0 ||
		len(delta.AlteredColumns) > 0 || len(delta.ReorderNoted) > 0 ||
		delta.OwnerChanged || delta.TablespaceChanged

	return delta, changed
}

func diffColumn(oldCol, newCol *model.Column) (ColumnDelta, bool) {
	cd := ColumnDelta{Name: oldCol.Name}
	changed := false

	if oldCol.Type != newCol.Type {
		cd.TypeChanged = true
		cd.OldType, cd.NewType = oldCol.Type, newCol.Type
		changed = true
	}
	if oldCol.NotNull != newCol.NotNull {
		cd.NotNullChanged = true
		cd.NotNull = newCol.NotNull
		changed = true
	}
	if !stringPtrEqual(oldCol.Default, newCol.Default) {
		cd.DefaultChanged = true
		cd.Default = newCol.Default
		changed = true
	}
	if oldCol.Collation != newCol.Collation {
		cd.CollationChanged = true
		cd.Collation = newCol.Collation
		changed = true
	}
	if !intPtrEqual(oldCol.Statistics, newCol.Statistics) {
		cd.StatisticsChanged = true
		cd.Statistics = newCol.Statistics
		changed = true
	}
	if oldCol.Storage != newCol.Storage {
		cd.StorageChanged = true
		cd.Storage = newCol.Storage
		changed = true
	}

	return cd, changed
}

// survivorReorder reports, among columns present on both sides, whether
// their relative order changed — purely informational (spec.md §4.4:
// "position change alone is not actioned", Postgres has no reorder-column
// DDL), but it must still be detected so the table doesn't look
// unchanged when only its column order moved.
func survivorReorder(oldOrder, newOrder []string, oldByName, newByName map[string]*model.Column) []string {
	var oldSurvivors, newSurvivors []string
	for _, n := range oldOrder {
		if _, ok := newByName[n]; ok {
			oldSurvivors = append(oldSurvivors, n)
		}
	}
	for _, n := range newOrder {
		if _, ok := oldByName[n]; ok {
			newSurvivors = append(newSurvivors, n)
		}
	}
	if len(oldSurvivors) != len(newSurvivors) {
		return nil // add/drop already covers this; avoid double-reporting
	}
	var moved []string
	for i, n := range oldSurvivors {
		if newSurvivors[i] != n {
			moved = append(moved, n)
		}
	}
	return moved
}

func stringPtrEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func intPtrEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
