// SPDX-License-Identifier: Apache-2.0

// Package config loads and merges the optional dbtoyaml/yamltodb config
// file (spec.md §6's -c flag and PYRSEAS_* environment variables) using
// viper for its own CLI config/env
// merging (cmd/root.go's viper.SetEnvPrefix/AutomaticEnv).
package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/viper"
)

const (
	defaultConfigName  = "config"
	defaultMaxIdentLen = 32
	maxAllowedIdentLen = 63
)

// Settings holds the subset of a loaded config file dbschema's CLIs
// consult as defaults when the matching flag wasn't passed explicitly:
// connection defaults and a handful of output knobs, not state-schema
// bookkeeping (this tool has no migration-state schema of its own).
type Settings struct {
	Host     string
	Port     int
	User     string
	Database string

	MultipleFiles bool
	RepoPath      string

	MaxIdentLen int
}

// Load reads the config file at explicitPath if given. Otherwise it looks
// for the file named by PYRSEAS_CONFIG_FILE, else "config.yaml"/
// "config.json"/"config.toml", searched in order: PYRSEAS_USER_CONFIG,
// PYRSEAS_SYS_CONFIG, and the current directory. A
// missing config file is not an error — every dbschema CLI runs fine
// purely from flags and PG* env vars (spec.md §6).
func Load(explicitPath string) (*Settings, error) {
	v := viper.New()
	v.SetConfigName(configName())

	if explicitPath != "" {
		v.SetConfigFile(explicitPath)
	} else {
		if dir := os.Getenv("PYRSEAS_USER_CONFIG"); dir != "" {
			v.AddConfigPath(dir)
		}
		if dir := os.Getenv("PYRSEAS_SYS_CONFIG"); dir != "" {
			v.AddConfigPath(dir)
		}
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("PYRSEAS")
	v.AutomaticEnv()

	s := &Settings{MaxIdentLen: maxIdentLen()}

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); notFound {
			return s, nil
		}
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, err
	}

	s.Host = v.GetString("host")
	s.Port = v.GetInt("port")
	s.User = v.GetString("user")
	s.Database = v.GetString("database")
	s.MultipleFiles = v.GetBool("multiple_files")
	s.RepoPath = v.GetString("repo_path")

	return s, nil
}

func configName() string {
	if name := os.Getenv("PYRSEAS_CONFIG_FILE"); name != "" {
		return trimExt(name)
	}
	return defaultConfigName
}

func trimExt(name string) string {
	ext := filepath.Ext(name)
	if ext == "" {
		return name
	}
	return name[:len(name)-len(ext)]
}

// MaxIdentLen exposes maxIdentLen to callers that only need the filename
// truncation length and not a full Settings (the layout package's CLI
// callers, for instance).
func MaxIdentLen() int { return maxIdentLen() }

// maxIdentLen resolves PYRSEAS_MAX_IDENT_LEN (spec.md §6), clamped to
// [1, 63] (Postgres's own NAMEDATALEN-1 ceiling) and defaulting to 32.
func maxIdentLen() int {
	raw := os.Getenv("PYRSEAS_MAX_IDENT_LEN")
	if raw == "" {
		return defaultMaxIdentLen
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return defaultMaxIdentLen
	}
	if n > maxAllowedIdentLen {
		return maxAllowedIdentLen
	}
	return n
}
