// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"strings"

	"github.com/dbschema/dbschema/pkg/model"
)

// privilegeLetters maps a single aclitem privilege character to its SQL
// keyword, per the encoding documented for aclitemout (pg_catalog's ACL
// text representation parsed here rather than re-queried per-privilege).
var privilegeLetters = map[byte]string{
	'r': "SELECT",
	'a': "INSERT",
	'w': "UPDATE",
	'd': "DELETE",
	'D': "TRUNCATE",
	'x': "REFERENCES",
	't': "TRIGGER",
	'X': "EXECUTE",
	'U': "USAGE",
	'C': "CREATE",
	'c': "CONNECT",
	'T': "TEMPORARY",
}

// decodeACL parses a list of aclitem text representations ("grantee=privs/grantor",
// with an empty grantee meaning PUBLIC) into model.Privilege tuples (spec.md
// §3 invariant 5: grantees are plain strings, no role resolution). One
// input item can expand to several Privilege entries, one per granted
// letter, and a trailing "*" after a letter marks that grant as grantable.
func decodeACL(items []string) []model.Privilege {
	var out []model.Privilege
	for _, item := range items {
		eq := strings.IndexByte(item, '=')
		slash := strings.LastIndexByte(item, '/')
		if eq < 0 || slash < 0 || slash < eq {
			continue
		}
		grantee := item[:eq]
		if grantee == "" {
			grantee = "PUBLIC"
		}
		grantor := item[slash+1:]
		privs := item[eq+1 : slash]

		for i := 0; i < len(privs); i++ {
			name, ok := privilegeLetters[privs[i]]
			if !ok {
				continue
			}
			grantable := i+1 < len(privs) && privs[i+1] == '*'
			if grantable {
				i++
			}
			out = append(out, model.Privilege{
				Grantee:   grantee,
				Grantor:   grantor,
				Privilege: name,
				Grantable: grantable,
			})
		}
	}
	return out
}
