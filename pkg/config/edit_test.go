package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestSetLocked_RoundTrip(t *testing.T) {
	path := writeConfig(t, `
[set.dock]
tilesize = 46

[vars]
hostname = "mercury"
`)

	require.NoError(t, SetLocked(path, true))
	model, err := Load(path)
	require.NoError(t, err)
	assert.True(t, model.Locked)

	// locking must not lose the rest of the document
	require.Len(t, model.Prefs, 1)
	assert.Equal(t, "com.apple.dock", model.Prefs[0].Domain)
	assert.Equal(t, "mercury", model.Vars["hostname"])

	require.NoError(t, SetLocked(path, false))
	model, err = Load(path)
	require.NoError(t, err)
	assert.False(t, model.Locked)

	// unlocking removes the flag from the file entirely
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "lock")
}

func TestWritePackages_ReplacesBrewTable(t *testing.T) {
	path := writeConfig(t, `
[set.dock]
autohide = true

[brew]
formulae = ["old"]
`)

	require.NoError(t, WritePackages(path, []string{"ripgrep", "jq"}, []string{"iterm2"}, nil, true))

	model, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"ripgrep", "jq"}, model.Packages.Formulae)
	assert.Equal(t, []string{"iterm2"}, model.Packages.Casks)
	assert.Empty(t, model.Packages.Taps)
	assert.True(t, model.Packages.TrackDependencies)

	// the rest of the document survives
	require.Len(t, model.Prefs, 1)
}

func TestWritePackages_CreatesConfigWhenMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	require.NoError(t, WritePackages(path, []string{"ripgrep"}, nil, nil, false))

	model, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"ripgrep"}, model.Packages.Formulae)
	assert.False(t, model.Packages.TrackDependencies)
}
