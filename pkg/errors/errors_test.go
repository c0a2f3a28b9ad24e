package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New(ErrConfigLocked, "config is locked")
	assert.Equal(t, "[CONFIG_LOCKED] config is locked", err.Error())
	assert.Equal(t, ErrConfigLocked, GetErrorCode(err))
}

func TestWrap_PreservesChain(t *testing.T) {
	cause := fmt.Errorf("exit status 1")
	err := Wrapf(cause, ErrPreferenceSet, "failed to write %s.%s", "com.apple.dock", "tilesize")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "exit status 1")
	assert.Contains(t, err.Error(), "com.apple.dock.tilesize")
	assert.ErrorIs(t, err, cause)
}

func TestWrap_NilIsNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrPreferenceSet, "never happens"))
	assert.Nil(t, Wrapf(nil, ErrPreferenceSet, "never %s", "happens"))
}

func TestIsErrorCode_ThroughWrapping(t *testing.T) {
	inner := New(ErrSnapshotMissing, "no snapshot")
	outer := fmt.Errorf("unapply: %w", inner)

	assert.True(t, IsErrorCode(outer, ErrSnapshotMissing))
	assert.False(t, IsErrorCode(outer, ErrSnapshotCorrupt))
	assert.Equal(t, ErrSnapshotMissing, GetErrorCode(outer))
}

func TestGetErrorCode_UnknownForPlainErrors(t *testing.T) {
	assert.Equal(t, ErrUnknown, GetErrorCode(stderrors.New("plain")))
}

func TestIs_MatchesByCode(t *testing.T) {
	a := New(ErrConfigLocked, "locked here")
	b := New(ErrConfigLocked, "locked there")
	assert.True(t, stderrors.Is(a, b))

	c := New(ErrConfigMissing, "missing")
	assert.False(t, stderrors.Is(a, c))
}

func TestWithDetail(t *testing.T) {
	err := New(ErrCommandFailed, "command failed").
		WithDetail("command", "greet").
		WithDetail("exit_code", 1)
	assert.Equal(t, "greet", err.Details["command"])
	assert.Equal(t, 1, err.Details["exit_code"])
}
