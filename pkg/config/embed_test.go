package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteExample_ProducesLoadableConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	require.NoError(t, WriteExample(path))

	model, err := Load(path)
	require.NoError(t, err)
	assert.NotEmpty(t, model.Prefs)
	assert.False(t, model.Locked)

	// the starter config only declares preferences; vars, commands and
	// packages ship commented out
	assert.Empty(t, model.Vars)
	assert.Empty(t, model.Commands)
	assert.True(t, model.Packages.Empty())
}
