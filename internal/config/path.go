// Package config loads the lifeos configuration and locates its files.
package config

import (
	"os"
	"path/filepath"
	"strings"
)

const appDir = "lifeos"

// ConfigDirs returns the directories searched for config.yaml, most specific
// first: the user config directory, then the working directory.
func ConfigDirs() []string {
	dirs := []string{"."}
	if base := xdgDir("XDG_CONFIG_HOME", ".config"); base != "" {
		dirs = append([]string{filepath.Join(base, appDir)}, dirs...)
	}
	return dirs
}

// DefaultDatabasePath is the SQLite file used when database.path is unset.
// It lives under $XDG_DATA_HOME, or ~/.local/share when that is not set.
func DefaultDatabasePath() string {
	base := xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
	if base == "" {
		return filepath.Join(appDir, appDir+".db")
	}
	return filepath.Join(base, appDir, appDir+".db")
}

// ResolvePath expands environment variables and a leading ~ in a configured
// path and cleans the result. An empty path stays empty.
func ResolvePath(path string) string {
	if path == "" {
		return ""
	}
	path = os.ExpandEnv(path)
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
		}
	}
	return filepath.Clean(path)
}

// xdgDir returns the XDG base directory named by env, falling back to
// fallback under the home directory. Relative XDG values are ignored.
func xdgDir(env, fallback string) string {
	if dir := os.Getenv(env); filepath.IsAbs(dir) {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, fallback)
}
