package external

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/prefsync/pkg/errors"
)

func TestSubstitute(t *testing.T) {
	vars := map[string]string{
		"hostname": "mercury",
		"user":     "jo",
	}

	tests := []struct {
		name     string
		template string
		want     string
	}{
		{
			name:     "bare reference",
			template: "scutil --set HostName $hostname",
			want:     "scutil --set HostName mercury",
		},
		{
			name:     "braced reference",
			template: "echo ${hostname}-backup",
			want:     "echo mercury-backup",
		},
		{
			name:     "multiple references",
			template: "echo $user@$hostname",
			want:     "echo jo@mercury",
		},
		{
			name:     "no references",
			template: "killall Dock",
			want:     "killall Dock",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Substitute(tt.template, vars)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSubstitute_ConfigVarsShadowEnvironment(t *testing.T) {
	t.Setenv("PREFSYNC_TEST_HOST", "from-env")

	got, err := Substitute("echo $PREFSYNC_TEST_HOST", map[string]string{
		"PREFSYNC_TEST_HOST": "from-config",
	})
	require.NoError(t, err)
	assert.Equal(t, "echo from-config", got)
}

func TestSubstitute_FallsBackToEnvironment(t *testing.T) {
	t.Setenv("PREFSYNC_TEST_HOST", "from-env")

	got, err := Substitute("echo $PREFSYNC_TEST_HOST", nil)
	require.NoError(t, err)
	assert.Equal(t, "echo from-env", got)
}

func TestSubstitute_UnresolvedFails(t *testing.T) {
	_, err := Substitute("echo $prefsync_definitely_not_set", nil)
	require.Error(t, err)
	assert.Equal(t, errors.ErrVariableUnresolved, errors.GetErrorCode(err))
	assert.Contains(t, err.Error(), "prefsync_definitely_not_set")
}
