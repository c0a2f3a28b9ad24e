// Package paths provides centralized path handling for prefsync.
// It implements XDG Base Directory specification compliance and
// provides a consistent API for all path operations in the codebase.
package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// Environment variable names
const (
	// EnvConfigFile overrides the config file location entirely
	EnvConfigFile = "PREFSYNC_CONFIG"

	// EnvSnapshotFile overrides the snapshot file location entirely
	EnvSnapshotFile = "PREFSYNC_SNAPSHOT"
)

// Directory and file names under the XDG bases.
// These define prefsync's on-disk layout and are not user-configurable.
const (
	appDirName       = "prefsync"
	configFileName   = "config.toml"
	snapshotFileName = "snapshot.json"
)

// ConfigFile returns the path to the configuration file. The first
// existing candidate wins; if none exists, the canonical location
// ($XDG_CONFIG_HOME/prefsync/config.toml) is returned so callers can
// create it there.
func ConfigFile() string {
	if override := os.Getenv(EnvConfigFile); override != "" {
		return override
	}

	candidates := []string{
		filepath.Join(xdg.ConfigHome, appDirName, configFileName),
		filepath.Join(xdg.ConfigHome, "prefsync.toml"),
	}
	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return candidates[0]
}

// SnapshotFile returns the path to the snapshot file. One snapshot per
// user at a time; the file lives in the XDG state directory so it
// survives config deletion.
func SnapshotFile() string {
	if override := os.Getenv(EnvSnapshotFile); override != "" {
		return override
	}
	return filepath.Join(xdg.StateHome, appDirName, snapshotFileName)
}
