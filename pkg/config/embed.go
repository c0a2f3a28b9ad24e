package config

import (
	_ "embed"
	"os"
	"path/filepath"

	"github.com/arthur-debert/prefsync/pkg/errors"
)

//go:embed example.toml
var exampleConfig []byte

// WriteExample creates a commented starter config at path. Callers are
// responsible for confirming the overwrite of an existing file.
func WriteExample(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrConfigLoad,
			"failed to create config directory for %s", path)
	}
	if err := os.WriteFile(path, exampleConfig, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrConfigLoad,
			"failed to write example config to %s", path)
	}
	return nil
}
