// Package config provides configuration utilities for the application.
package config

import (
	"os"
	"path/filepath"
	"strings"
)

// AppName names the config directory and environment prefix.
const AppName = "spruce"

// ExpandPath expands a leading ~ and $VAR references in a file path.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
		}
	}

	return os.ExpandEnv(path)
}

// Dir returns the directory holding spruce's config file and database.
func Dir() string {
	return ExpandPath(filepath.Join("~", ".config", AppName))
}

// DefaultDatabasePath is used when database.path is unset.
func DefaultDatabasePath() string {
	return filepath.Join(Dir(), AppName+".db")
}
