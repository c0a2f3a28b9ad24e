package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/prefsync/pkg/diff"
)

func TestPackageReportLines_CoversMissingAndExtra(t *testing.T) {
	delta := diff.PackageDelta{
		MissingFormulae: []string{"ripgrep"},
		ExtraFormulae:   []string{"wget"},
		ExtraCasks:      []string{"iterm2"},
		ExtraTaps:       []string{"homebrew/cask-fonts"},
	}

	lines := packageReportLines(delta)
	require.Len(t, lines, 4)

	joined := strings.Join(lines, "\n")
	assert.Contains(t, joined, "ripgrep")
	assert.Contains(t, joined, "not installed")
	assert.Contains(t, joined, "wget")
	assert.Contains(t, joined, "iterm2")
	assert.Contains(t, joined, "homebrew/cask-fonts")
	assert.Contains(t, joined, "not declared")
}

func TestPackageReportLines_EmptyDelta(t *testing.T) {
	assert.Empty(t, packageReportLines(diff.PackageDelta{}))
}
