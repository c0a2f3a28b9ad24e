package defaults

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/prefsync/pkg/types"
)

const dockPlist = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>autohide</key>
	<true/>
	<key>tilesize</key>
	<integer>46</integer>
	<key>magnification-size</key>
	<real>1.5</real>
	<key>orientation</key>
	<string>left</string>
	<key>persistent-apps</key>
	<array>
		<string>Safari</string>
		<string>Terminal</string>
	</array>
	<key>mod-count</key>
	<date>2024-01-01T00:00:00Z</date>
</dict>
</plist>`

// fakeRunner answers canned output per command line and records calls.
type fakeRunner struct {
	exports map[string]string
	calls   []string
	failOn  string
}

func (f *fakeRunner) run(name string, args ...string) ([]byte, error) {
	call := name + " " + strings.Join(args, " ")
	f.calls = append(f.calls, call)

	if f.failOn != "" && strings.HasPrefix(call, f.failOn) {
		return nil, fmt.Errorf("exit status 1")
	}
	if len(args) >= 2 && args[0] == "export" {
		if out, ok := f.exports[args[1]]; ok {
			return []byte(out), nil
		}
		return nil, fmt.Errorf("domain not found")
	}
	return nil, nil
}

func TestParsePlist_TypedValues(t *testing.T) {
	values, err := parsePlist([]byte(dockPlist))
	require.NoError(t, err)

	assert.True(t, values["autohide"].Equal(types.BoolValue(true)))
	assert.True(t, values["tilesize"].Equal(types.IntValue(46)))
	assert.True(t, values["magnification-size"].Equal(types.FloatValue(1.5)))
	assert.True(t, values["orientation"].Equal(types.StringValue("left")))
	assert.True(t, values["persistent-apps"].Equal(
		types.ListValue(types.StringValue("Safari"), types.StringValue("Terminal"))))

	// unsupported element types are omitted, not errors
	_, ok := values["mod-count"]
	assert.False(t, ok)
}

func TestParsePlist_EmptyDomain(t *testing.T) {
	values, err := parsePlist([]byte(`<?xml version="1.0"?><plist version="1.0"></plist>`))
	require.NoError(t, err)
	assert.Empty(t, values)
}

func TestParsePlist_NotAPlist(t *testing.T) {
	_, err := parsePlist([]byte(`<html></html>`))
	assert.Error(t, err)
}

func TestStore_GetUsesExport(t *testing.T) {
	runner := &fakeRunner{exports: map[string]string{"com.apple.dock": dockPlist}}
	store := newStore(runner)

	value, exists, err := store.Get("com.apple.dock", "tilesize")
	require.NoError(t, err)
	require.True(t, exists)
	assert.True(t, value.Equal(types.IntValue(46)))

	_, exists, err = store.Get("com.apple.dock", "no-such-key")
	require.NoError(t, err)
	assert.False(t, exists)

	// both reads are served by one export
	exportCalls := 0
	for _, call := range runner.calls {
		if strings.HasPrefix(call, "defaults export") {
			exportCalls++
		}
	}
	assert.Equal(t, 1, exportCalls)
}

func TestStore_SetInvalidatesCache(t *testing.T) {
	runner := &fakeRunner{exports: map[string]string{"com.apple.dock": dockPlist}}
	store := newStore(runner)

	_, _, err := store.Get("com.apple.dock", "tilesize")
	require.NoError(t, err)

	require.NoError(t, store.Set("com.apple.dock", "tilesize", types.IntValue(50)))

	_, _, err = store.Get("com.apple.dock", "tilesize")
	require.NoError(t, err)

	exportCalls := 0
	for _, call := range runner.calls {
		if strings.HasPrefix(call, "defaults export") {
			exportCalls++
		}
	}
	assert.Equal(t, 2, exportCalls)
}

func TestStore_ListKeys(t *testing.T) {
	runner := &fakeRunner{exports: map[string]string{"com.apple.dock": dockPlist}}
	store := newStore(runner)

	keys, err := store.ListKeys("com.apple.dock")
	require.NoError(t, err)
	assert.ElementsMatch(t,
		[]string{"autohide", "tilesize", "magnification-size", "orientation", "persistent-apps"},
		keys)
}

func TestStore_DomainExists(t *testing.T) {
	runner := &fakeRunner{}
	store := newStore(runner)
	assert.True(t, store.DomainExists("com.apple.dock"))

	runner.failOn = "defaults read com.example.ghost"
	assert.False(t, store.DomainExists("com.example.ghost"))
}

func TestStore_Unset(t *testing.T) {
	runner := &fakeRunner{exports: map[string]string{"com.apple.dock": dockPlist}}
	store := newStore(runner)

	require.NoError(t, store.Unset("com.apple.dock", "autohide"))
	assert.Contains(t, runner.calls, "defaults delete com.apple.dock autohide")
}

func TestWriteArgs(t *testing.T) {
	tests := []struct {
		name  string
		value types.Value
		want  []string
	}{
		{
			name:  "bool",
			value: types.BoolValue(true),
			want:  []string{"write", "com.apple.dock", "autohide", "-bool", "true"},
		},
		{
			name:  "int",
			value: types.IntValue(46),
			want:  []string{"write", "com.apple.dock", "autohide", "-int", "46"},
		},
		{
			name:  "float",
			value: types.FloatValue(1.5),
			want:  []string{"write", "com.apple.dock", "autohide", "-float", "1.5"},
		},
		{
			name:  "string",
			value: types.StringValue("left"),
			want:  []string{"write", "com.apple.dock", "autohide", "-string", "left"},
		},
		{
			name:  "list",
			value: types.ListValue(types.StringValue("a"), types.IntValue(2)),
			want:  []string{"write", "com.apple.dock", "autohide", "-array", "a", "2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args, err := writeArgs("com.apple.dock", "autohide", tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.want, args)
		})
	}
}

func TestWriteArgs_NestedListRejected(t *testing.T) {
	_, err := writeArgs("com.apple.dock", "autohide",
		types.ListValue(types.ListValue(types.IntValue(1))))
	assert.Error(t, err)
}
