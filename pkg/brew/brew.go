// Package brew adapts the Homebrew CLI to the PackageStore interface.
package brew

import (
	"context"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/prefsync/pkg/errors"
	"github.com/arthur-debert/prefsync/pkg/logging"
	"github.com/arthur-debert/prefsync/pkg/types"
)

// runner abstracts process invocation so tests can fake the brew
// binary.
type runner interface {
	run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type osRunner struct{}

func (osRunner) run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// Store implements types.PackageStore over the brew CLI.
type Store struct {
	runner runner
	logger zerolog.Logger
}

// NewStore returns a Store backed by the real brew binary
func NewStore() *Store {
	return newStore(osRunner{})
}

func newStore(r runner) *Store {
	return &Store{
		runner: r,
		logger: logging.GetLogger("brew"),
	}
}

// Available reports whether the brew binary is on $PATH
func Available() bool {
	_, err := exec.LookPath("brew")
	return err == nil
}

// ListInstalled implements types.PackageStore. For formulae,
// explicitOnly excludes packages that were only pulled in as
// dependencies.
func (s *Store) ListInstalled(ctx context.Context, kind types.PackageKind, explicitOnly bool) ([]string, error) {
	var args []string
	switch kind {
	case types.PackageFormula:
		args = []string{"list", "--quiet", "--full-name", "-1", "--formula"}
	case types.PackageCask:
		args = []string{"list", "--quiet", "--full-name", "-1", "--cask"}
	case types.PackageTap:
		args = []string{"tap"}
	default:
		return nil, errors.Newf(errors.ErrInvalidInput, "unknown package kind %q", kind)
	}

	installed, err := s.runLines(ctx, args...)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrPackageList,
			"failed to list installed %ss", kind)
	}

	if kind == types.PackageFormula && explicitOnly {
		deps, err := s.runLines(ctx, "list", "--quiet", "--full-name", "-1", "--installed-as-dependency")
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrPackageList,
				"failed to list dependency-installed formulae")
		}
		depSet := make(map[string]bool, len(deps))
		for _, name := range deps {
			depSet[name] = true
		}
		explicit := installed[:0]
		for _, name := range installed {
			if !depSet[name] {
				explicit = append(explicit, name)
			}
		}
		installed = explicit
	}

	return installed, nil
}

// Install implements types.PackageStore
func (s *Store) Install(ctx context.Context, kind types.PackageKind, name string) error {
	var args []string
	switch kind {
	case types.PackageFormula:
		args = []string{"install", name}
	case types.PackageCask:
		args = []string{"install", "--cask", name}
	case types.PackageTap:
		args = []string{"tap", name}
	default:
		return errors.Newf(errors.ErrInvalidInput, "unknown package kind %q", kind)
	}

	s.logger.Info().
		Str("kind", string(kind)).
		Str("name", name).
		Msg("Installing package")

	if _, err := s.runner.run(ctx, "brew", args...); err != nil {
		return errors.Wrapf(err, errors.ErrPackageInstall,
			"failed to install %s %s", kind, name)
	}
	return nil
}

func (s *Store) runLines(ctx context.Context, args ...string) ([]string, error) {
	out, err := s.runner.run(ctx, "brew", args...)
	if err != nil {
		return nil, err
	}
	var lines []string
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines, nil
}
