// SPDX-License-Identifier: Apache-2.0

package config

import "testing"

func TestLoadMissingConfigFileIsNotAnError(t *testing.T) {
	t.Setenv("PYRSEAS_USER_CONFIG", "")
	t.Setenv("PYRSEAS_SYS_CONFIG", "")
	t.Setenv("PYRSEAS_CONFIG_FILE", "")

	s, err := Load("/nonexistent/path/to/config.yaml")
	if err != nil {
		t.Fatalf("missing config file must not be an error: %v", err)
	}
	if s == nil {
		t.Fatal("expected non-nil Settings even with no config file")
	}
}

func TestMaxIdentLenDefaultAndClamping(t *testing.T) {
	t.Setenv("PYRSEAS_MAX_IDENT_LEN", "")
	if got := MaxIdentLen(); got != defaultMaxIdentLen {
		t.Errorf("default MaxIdentLen = %d, want %d", got, defaultMaxIdentLen)
	}

	t.Setenv("PYRSEAS_MAX_IDENT_LEN", "10")
	if got := MaxIdentLen(); got != 10 {
		t.Errorf("MaxIdentLen with PYRSEAS_MAX_IDENT_LEN=10 = %d, want 10", got)
	}

	t.Setenv("PYRSEAS_MAX_IDENT_LEN", "1000")
	if got := MaxIdentLen(); got != maxAllowedIdentLen {
		t.Errorf("MaxIdentLen must clamp to %d, got %d", maxAllowedIdentLen, got)
	}

	t.Setenv("PYRSEAS_MAX_IDENT_LEN", "not-a-number")
	if got := MaxIdentLen(); got != defaultMaxIdentLen {
		t.Errorf("invalid PYRSEAS_MAX_IDENT_LEN must fall back to default, got %d", got)
	}
}

func TestConfigNameUsesEnvOverride(t *testing.T) {
	t.Setenv("PYRSEAS_CONFIG_FILE", "myconfig.toml")
	if got := configName(); got != "myconfig" {
		t.Errorf("configName() = %q, want %q", got, "myconfig")
	}

	t.Setenv("PYRSEAS_CONFIG_FILE", "")
	if got := configName(); got != defaultConfigName {
		t.Errorf("configName() with no override = %q, want %q", got, defaultConfigName)
	}
}
