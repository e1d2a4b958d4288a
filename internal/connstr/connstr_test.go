// SPDX-License-Identifier: Apache-2.0

package connstr_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dbschema/dbschema/internal/connstr"
)

func TestBuildDSN(t *testing.T) {
	tests := []struct {
		Name     string
		Opts     connstr.ConnectOptions
		Expected string
	}{
		{
			Name:     "all fields empty produces an empty DSN, falling through to libpq env vars",
			Opts:     connstr.ConnectOptions{},
			Expected: "",
		},
		{
			Name:     "dbname only",
			Opts:     connstr.ConnectOptions{Database: "films"},
			Expected: "dbname=films",
		},
		{
			Name: "every field set",
			Opts: connstr.ConnectOptions{
				Host:     "db.internal",
				Port:     5433,
				User:     "alice",
				Password: "secret",
				Database: "films",
			},
			Expected: "host=db.internal port=5433 user=alice password=secret dbname=films",
		},
		{
			Name:     "values with spaces or quotes are single-quoted and escaped",
			Opts:     connstr.ConnectOptions{Host: "my host", User: "o'brien", Database: "films"},
			Expected: `host='my host' user='o\'brien' dbname=films`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			result := connstr.BuildDSN(tt.Opts)
			assert.Equal(t, tt.Expected, result)
		})
	}
}
