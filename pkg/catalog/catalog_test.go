// SPDX-License-Identifier: Apache-2.0

package catalog

import "testing"

func TestServerVersionAtLeast(t *testing.T) {
	cases := []struct {
		v, other ServerVersion
		want     bool
	}{
		{PG15, PG10, true},
		{PG10, PG15, false},
		{PG96, PG96, true},
		{PG94, PG95, false},
	}
	for _, c := range cases {
		if got := c.v.AtLeast(c.other); got != c.want {
			t.Errorf("%s.AtLeast(%s) = %v, want %v", c.v, c.other, got, c.want)
		}
	}
}

func TestIsSystemSchema(t *testing.T) {
	for _, name := range []string{"pg_catalog", "information_schema", "pg_toast", "pg_temp_3", "pg_toast_temp_3"} {
		if !isSystemSchema(name) {
			t.Errorf("isSystemSchema(%q) = false, want true", name)
		}
	}
	for _, name := range []string{"public", "s1", "app"} {
		if isSystemSchema(name) {
			t.Errorf("isSystemSchema(%q) = true, want false", name)
		}
	}
}

func TestSchemaFilterDefaultExcludesSystem(t *testing.T) {
	f := newSchemaFilter(nil, nil)
	if f.allows("pg_catalog") {
		t.Fatalf("default filter should not allow pg_catalog")
	}
	if !f.allows("public") {
		t.Fatalf("default filter should allow public")
	}
}

func TestSchemaFilterIncludeExclude(t *testing.T) {
	f := newSchemaFilter([]string{"public", "s1"}, []string{"s1"})
	if !f.allows("public") {
		t.Fatalf("expected public to be allowed")
	}
	if f.allows("s1") {
		t.Fatalf("expected s1 to be excluded even though included, exclude wins")
	}
	if f.allows("other") {
		t.Fatalf("expected other to be disallowed: not in include list")
	}
}

func TestTableFilterQualifiedOrBare(t *testing.T) {
	f := newTableFilter([]string{"t1", "s1.t2"}, nil)
	if !f.allows("public", "t1") {
		t.Fatalf("bare name t1 should be allowed")
	}
	if !f.allows("s1", "t2") {
		t.Fatalf("qualified s1.t2 should be allowed")
	}
	if f.allows("public", "t3") {
		t.Fatalf("t3 was never included")
	}
}

func TestTableFilterExcludeWins(t *testing.T) {
	f := newTableFilter([]string{"t1"}, []string{"t1"})
	if f.allows("public", "t1") {
		t.Fatalf("exclude should win over include for the same name")
	}
}

func TestDecodeACLBasic(t *testing.T) {
	privs := decodeACL([]string{"alice=r*w/postgres"})
	if len(privs) != 2 {
		t.Fatalf("decodeACL returned %d privileges, want 2: %+v", len(privs), privs)
	}
	byName := map[string]bool{}
	for _, p := range privs {
		if p.Grantee != "alice" || p.Grantor != "postgres" {
			t.Errorf("unexpected grantee/grantor: %+v", p)
		}
		byName[p.Privilege] = p.Grantable
	}
	if grantable, ok := byName["SELECT"]; !ok || !grantable {
		t.Errorf("expected SELECT to be present and grantable: %+v", privs)
	}
	if grantable, ok := byName["UPDATE"]; !ok || grantable {
		t.Errorf("expected UPDATE to be present and not grantable: %+v", privs)
	}
}

func TestDecodeACLPublicGrantee(t *testing.T) {
	privs := decodeACL([]string{"=r/postgres"})
	if len(privs) != 1 || privs[0].Grantee != "PUBLIC" {
		t.Fatalf("decodeACL(PUBLIC grant) = %+v", privs)
	}
}

func TestDecodeACLMalformedSkipped(t *testing.T) {
	privs := decodeACL([]string{"no-equals-or-slash"})
	if len(privs) != 0 {
		t.Fatalf("malformed aclitem should yield no privileges, got %+v", privs)
	}
}
