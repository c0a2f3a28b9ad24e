package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/prefsync/pkg/errors"
	"github.com/arthur-debert/prefsync/pkg/types"
)

func TestParse_FlattensNestedDomains(t *testing.T) {
	input := []byte(`
[set.dock]
tilesize = 50
autohide = true

[set.finder]
ShowPathbar = true
`)
	model, err := Parse(input)
	require.NoError(t, err)
	require.Len(t, model.Prefs, 3)

	// entries are sorted by (domain, key)
	assert.Equal(t, "com.apple.dock", model.Prefs[0].Domain)
	assert.Equal(t, "autohide", model.Prefs[0].Key)
	assert.True(t, model.Prefs[0].Value.Equal(types.BoolValue(true)))

	assert.Equal(t, "com.apple.dock", model.Prefs[1].Domain)
	assert.Equal(t, "tilesize", model.Prefs[1].Key)
	assert.True(t, model.Prefs[1].Value.Equal(types.IntValue(50)))

	assert.Equal(t, "com.apple.finder", model.Prefs[2].Domain)
	assert.Equal(t, "ShowPathbar", model.Prefs[2].Key)
}

func TestParse_NestedTablesBecomeDottedDomains(t *testing.T) {
	input := []byte(`
[set.dock]
tilesize = 40

[set.dock.wvous]
tl-corner = 2
`)
	model, err := Parse(input)
	require.NoError(t, err)
	require.Len(t, model.Prefs, 2)

	assert.Equal(t, "com.apple.dock", model.Prefs[0].Domain)
	assert.Equal(t, "tilesize", model.Prefs[0].Key)
	assert.Equal(t, "com.apple.dock.wvous", model.Prefs[1].Domain)
	assert.Equal(t, "tl-corner", model.Prefs[1].Key)
}

func TestParse_GlobalDomain(t *testing.T) {
	input := []byte(`
[set.NSGlobalDomain]
ApplePressAndHoldEnabled = false

[set.NSGlobalDomain.com.apple.mouse]
linear = true
`)
	model, err := Parse(input)
	require.NoError(t, err)
	require.Len(t, model.Prefs, 2)

	// NSGlobalDomain keys pass through without the com.apple prefix
	assert.Equal(t, "NSGlobalDomain", model.Prefs[0].Domain)
	assert.Equal(t, "ApplePressAndHoldEnabled", model.Prefs[0].Key)

	// nested global tables fold back into a dotted key
	assert.Equal(t, "NSGlobalDomain", model.Prefs[1].Domain)
	assert.Equal(t, "com.apple.mouse.linear", model.Prefs[1].Key)
}

func TestParse_VarsCommandsAndLock(t *testing.T) {
	input := []byte(`
lock = true

[vars]
hostname = "mercury"

[command.greet]
run = "echo hello $hostname"

[command.setup]
run = "mkdir -p ~/work"
ensure_first = true
sudo = true
required = ["mkdir"]
`)
	model, err := Parse(input)
	require.NoError(t, err)

	assert.True(t, model.Locked)
	assert.Equal(t, "mercury", model.Vars["hostname"])

	// commands come back sorted by name
	require.Len(t, model.Commands, 2)
	assert.Equal(t, "greet", model.Commands[0].Name)
	assert.Equal(t, "echo hello $hostname", model.Commands[0].Template)
	assert.False(t, model.Commands[0].RunFirst)

	assert.Equal(t, "setup", model.Commands[1].Name)
	assert.True(t, model.Commands[1].RunFirst)
	assert.True(t, model.Commands[1].Elevated)
	assert.Equal(t, []string{"mkdir"}, model.Commands[1].Required)
}

func TestParse_CommandWithoutRunFails(t *testing.T) {
	input := []byte(`
[command.broken]
sudo = true
`)
	_, err := Parse(input)
	require.Error(t, err)
	assert.Equal(t, errors.ErrConfigInvalid, errors.GetErrorCode(err))
}

func TestParse_Brew(t *testing.T) {
	input := []byte(`
[brew]
formulae = ["ripgrep", "jq"]
casks = ["iterm2"]
taps = ["homebrew/cask-fonts"]
no_deps = true
`)
	model, err := Parse(input)
	require.NoError(t, err)

	assert.Equal(t, []string{"ripgrep", "jq"}, model.Packages.Formulae)
	assert.Equal(t, []string{"iterm2"}, model.Packages.Casks)
	assert.Equal(t, []string{"homebrew/cask-fonts"}, model.Packages.Taps)
	assert.False(t, model.Packages.TrackDependencies)
}

func TestParse_EmptyConfig(t *testing.T) {
	model, err := Parse([]byte(""))
	require.NoError(t, err)
	assert.Empty(t, model.Prefs)
	assert.Empty(t, model.Commands)
	assert.False(t, model.Locked)
	assert.True(t, model.Packages.Empty())
}

func TestParse_Deterministic(t *testing.T) {
	input := []byte(`
[set.dock]
tilesize = 50
autohide = true
orientation = "left"

[set.finder]
ShowPathbar = true
`)
	first, err := Parse(input)
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		again, err := Parse(input)
		require.NoError(t, err)
		assert.Equal(t, first.Prefs, again.Prefs)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
	assert.Equal(t, errors.ErrConfigMissing, errors.GetErrorCode(err))
}

func TestLoad_ParseError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[set.dock\nbroken"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Equal(t, errors.ErrConfigParse, errors.GetErrorCode(err))
}

func TestEffectiveDomainKey(t *testing.T) {
	tests := []struct {
		domain     string
		key        string
		wantDomain string
		wantKey    string
	}{
		{"dock", "tilesize", "com.apple.dock", "tilesize"},
		{"finder", "ShowPathbar", "com.apple.finder", "ShowPathbar"},
		{"NSGlobalDomain", "fnState", "NSGlobalDomain", "fnState"},
		{"NSGlobalDomain.com.apple.mouse", "linear", "NSGlobalDomain", "com.apple.mouse.linear"},
		{"dock.wvous", "tl-corner", "com.apple.dock.wvous", "tl-corner"},
	}
	for _, tt := range tests {
		gotDomain, gotKey := EffectiveDomainKey(tt.domain, tt.key)
		assert.Equal(t, tt.wantDomain, gotDomain, "%s.%s", tt.domain, tt.key)
		assert.Equal(t, tt.wantKey, gotKey, "%s.%s", tt.domain, tt.key)
	}
}

func TestNeedsDomainCheck(t *testing.T) {
	assert.True(t, NeedsDomainCheck("com.apple.dock"))
	assert.False(t, NeedsDomainCheck("NSGlobalDomain"))
}
