// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"encoding/json"
	"sort"

	"github.com/dbschema/dbschema/pkg/model"
)

// attrMap reflects an object's own json-tagged fields into a plain map,
// the generic attribute-delta substrate for every kind that doesn't need
// the bespoke table/column treatment (spec.md §4.4: "attribute deltas are
// per-kind"; most kinds' entire attribute set is just their tagged
// fields, so a structural diff over that map covers them without a
// bespoke Go type per kind).
func attrMap(o model.Object) map[string]any {
	b, err := json.Marshal(o)
	if err != nil {
		return nil
	}
	var m map[string]any
	_ = json.Unmarshal(b, &m)
	return m
}

// diffAttrMaps returns, for each key present in either map whose value
// differs, {"old": ..., "new": ...}. Keys absent from both are ignored;
// a key appearing in only one side counts as changed (its counterpart is
// nil, meaning "unset").
func diffAttrMaps(oldM, newM map[string]any) map[string]any {
	out := map[string]any{}
	keys := map[string]bool{}
	for k := range oldM {
		keys[k] = true
	}
	for k := range newM {
		keys[k] = true
	}
	var sorted []string
	for k := range keys {
		sorted = append(sorted, k)
	}
	sort.Strings(sorted)

	for _, k := range sorted {
		ov, oOK := oldM[k]
		nv, nOK := newM[k]
		if oOK && nOK && equalJSON(ov, nv) {
			continue
		}
		if !oOK && !nOK {
			continue
		}
		out[k] = map[string]any{"old": ov, "new": nv}
	}
	return out
}

func equalJSON(a, b any) bool {
	ab, _ := json.Marshal(a)
	bb, _ := json.Marshal(b)
	return string(ab) == string(bb)
}
