package main

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/prefsync/pkg/diff"
	"github.com/arthur-debert/prefsync/pkg/testutil"
	"github.com/arthur-debert/prefsync/pkg/types"
)

func TestInstallMissing_FailureYieldsError(t *testing.T) {
	store := testutil.NewMockPackageStore()
	store.ErrorOn = "Install"
	store.ErrorToReturn = fmt.Errorf("download failed")

	delta := diff.PackageDelta{MissingFormulae: []string{"ripgrep"}}
	err := installMissing(context.Background(), store, delta, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to install")
}

func TestInstallMissing_Success(t *testing.T) {
	store := testutil.NewMockPackageStore()
	delta := diff.PackageDelta{
		MissingFormulae: []string{"ripgrep"},
		MissingTaps:     []string{"homebrew/cask-fonts"},
	}

	require.NoError(t, installMissing(context.Background(), store, delta, false))
	assert.Equal(t, []string{"ripgrep"}, store.Installed[types.PackageFormula])
	assert.Equal(t, []string{"homebrew/cask-fonts"}, store.Installed[types.PackageTap])
}

func TestInstallMissing_DryRunNeverInstalls(t *testing.T) {
	store := testutil.NewMockPackageStore()
	delta := diff.PackageDelta{MissingFormulae: []string{"ripgrep"}}

	require.NoError(t, installMissing(context.Background(), store, delta, true))
	assert.Empty(t, store.Installed[types.PackageFormula])
}
