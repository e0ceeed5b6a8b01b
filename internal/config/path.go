package config

import (
	"os"
	"path/filepath"
	"strings"
)

const appDir = "timetable"

// ExpandPath resolves a leading ~ to the home directory, then expands
// $VAR references. An empty path stays empty.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = home + strings.TrimPrefix(path, "~")
		}
	}
	return filepath.Clean(os.ExpandEnv(path))
}

// ConfigDir is where config.yaml and the saved OAuth token live:
// $XDG_CONFIG_HOME/timetable, else ~/.config/timetable.
func ConfigDir() string {
	return xdgDir("XDG_CONFIG_HOME", "~/.config")
}

// DataDir holds the SQLite exports: $XDG_DATA_HOME/timetable, else
// ~/.local/share/timetable.
func DataDir() string {
	return xdgDir("XDG_DATA_HOME", "~/.local/share")
}

// DefaultTokenFile is the token written by the auth command.
func DefaultTokenFile() string {
	return filepath.Join(ConfigDir(), "token.json")
}

// DefaultSQLitePath is the database used by export --format sqlite.
func DefaultSQLitePath() string {
	return filepath.Join(DataDir(), "timetable.db")
}

func xdgDir(env, fallback string) string {
	base := os.Getenv(env)
	if !filepath.IsAbs(base) {
		base = fallback
	}
	return filepath.Join(ExpandPath(base), appDir)
}
