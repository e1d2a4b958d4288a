// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"sort"
	"strings"

	"github.com/dbschema/dbschema/pkg/model"
)

// Diff computes the change set turning current (C) into desired (D),
// following spec.md §4.4's pairing algorithm exactly:
//  1. D-objects with an oldname are paired against a same-kind C-object at
//     that old key (a Rename); mismatched kind is an error.
//  2. Remaining keys present in both C and D are paired directly (Alter,
//     possibly empty).
//  3. Keys only in D are Create; keys only in C are Drop.
func Diff(current, desired *model.Database) ([]Change, error) {
	c := indexObjects(current)
	d := indexObjects(desired)
	pathIdx := indexObjectsByPath(current)

	var changes []Change
	consumed := map[string]bool{} // current-side keys paired off (direct or via rename)
	renamedFrom := map[string]model.Object{} // desired key -> paired current object, via rename

	// Pass 1: resolve oldname-declared renames. oldname only names a path,
	// not a kind (a desired object's own Kind always tags Renamed()'s
	// returned key, spec.md §4.4.1), so the current-side match has to be
	// found by path across every kind, then checked for a kind mismatch
	// explicitly — a same-kind lookup keyed by the full (kind, path)
	// string could never observe a mismatch, since it would simply miss.
	dKeys := sortedStringKeys(d)
	for _, dk := range dKeys {
		dObj := d[dk]
		oldKey, isRename := dObj.Renamed()
		if !isRename {
			continue
		}
		candidates := pathIdx[strings.Join(oldKey.Path, "/")]
		var cObj model.Object
		for _, cand := range candidates {
			if cand.Kind() == dObj.Kind() {
				cObj = cand
				break
			}
		}
		if cObj == nil {
			if len(candidates) > 0 {
				return nil, model.KindMismatchError{OldKey: oldKey, NewKind: dObj.Kind(), FoundKind: candidates[0].Kind()}
			}
			continue // spec.md §4.4.1: not found -> treat as new, no error
		}
		changes = append(changes, Change{Kind: ChangeRename, OldKey: cObj.Key(), NewKey: dObj.Key()})
		consumed[cObj.Key().String()] = true
		renamedFrom[dk] = cObj
	}

	// Pass 2: pair everything else, by direct key match or by the rename
	// resolved above, and compute Alter/Comment/GrantRevoke deltas.
	for _, dk := range dKeys {
		dObj := d[dk]
		if cObj, ok := renamedFrom[dk]; ok {
			changes = append(changes, pairedChanges(cObj, dObj)...)
			continue
		}
		cObj, found := c[dk]
		if !found {
			changes = append(changes, Change{Kind: ChangeCreate, Object: dObj})
			continue
		}
		consumed[dk] = true
		changes = append(changes, pairedChanges(cObj, dObj)...)
	}

	// Pass 3: whatever's left in C and wasn't consumed is dropped.
	for _, ck := range sortedStringKeys(c) {
		if consumed[ck] {
			continue
		}
		changes = append(changes, Change{Kind: ChangeDrop, Object: c[ck]})
	}

	return changes, nil
}

// pairedChanges computes the Alter (if any), Comment (if changed) and
// GrantRevoke (if changed) records for one paired (old, new) object.
func pairedChanges(oldObj, newObj model.Object) []Change {
	var out []Change

	if oldObj.Description() != newObj.Description() {
		out = append(out, Change{Kind: ChangeComment, Object: newObj, Comment: newObj.Description()})
	}

	if oldP, ok := oldObj.(model.Privileged); ok {
		newP, _ := newObj.(model.Privileged)
		grants, revokes := diffPrivileges(oldP.Privileges(), privilegesOf(newP))
		if len(grants) > 0 || len(revokes) > 0 {
			out = append(out, Change{Kind: ChangeGrantRevoke, Object: newObj, Grants: grants, Revokes: revokes})
		}
	}

	if table, ok := newObj.(*model.Table); ok {
		oldTable := oldObj.(*model.Table)
		if delta, changed := diffTable(oldTable, table); changed {
			out = append(out, Change{Kind: ChangeAlter, Old: oldObj, New: newObj, Deltas: map[string]any{"table": delta}})
		}
		return out
	}

	oldAttrs, newAttrs := attrMap(oldObj), attrMap(newObj)
	if delta := diffAttrMaps(oldAttrs, newAttrs); len(delta) > 0 {
		out = append(out, Change{Kind: ChangeAlter, Old: oldObj, New: newObj, Deltas: delta})
	}

	return out
}

func privilegesOf(p model.Privileged) []model.Privilege {
	if p == nil {
		return nil
	}
	return p.Privileges()
}

// diffPrivileges computes the GRANT/REVOKE set difference over
// (grantee, privilege, grantable) triples (spec.md §4.4).
func diffPrivileges(oldP, newP []model.Privilege) (grants, revokes []model.Privilege) {
	key := func(p model.Privilege) string {
		k := p.Grantee + "|" + p.Privilege
		if p.Grantable {
			k += "|grantable"
		}
		return k
	}
	oldSet := map[string]model.Privilege{}
	for _, p := range oldP {
		oldSet[key(p)] = p
	}
	newSet := map[string]model.Privilege{}
	for _, p := range newP {
		newSet[key(p)] = p
	}
	for k, p := range newSet {
		if _, ok := oldSet[k]; !ok {
			grants = append(grants, p)
		}
	}
	for k, p := range oldSet {
		if _, ok := newSet[k]; !ok {
			revokes = append(revokes, p)
		}
	}
	sortPrivileges(grants)
	sortPrivileges(revokes)
	return grants, revokes
}

// sortPrivileges orders by (Grantee, Privilege) so GRANT/REVOKE output is
// deterministic (spec.md §5, §8) regardless of Go's randomized map
// iteration order in diffPrivileges above.
func sortPrivileges(p []model.Privilege) {
	sort.Slice(p, func(i, j int) bool {
		if p[i].Grantee != p[j].Grantee {
			return p[i].Grantee < p[j].Grantee
		}
		return p[i].Privilege < p[j].Privilege
	})
}

func indexObjects(db *model.Database) map[string]model.Object {
	out := map[string]model.Object{}
	for _, o := range db.AllObjects() {
		out[o.Key().String()] = o
	}
	return out
}

// indexObjectsByPath groups objects by their key's path alone, ignoring
// kind, so a rename's oldname (a path, not a kind-qualified key) can be
// resolved against objects of any kind before the kind is checked.
func indexObjectsByPath(db *model.Database) map[string][]model.Object {
	out := map[string][]model.Object{}
	for _, o := range db.AllObjects() {
		p := strings.Join(o.Key().Path, "/")
		out[p] = append(out[p], o)
	}
	return out
}

func sortedStringKeys(m map[string]model.Object) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
