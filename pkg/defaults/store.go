// Package defaults adapts the macOS `defaults` tool to the
// PreferenceStore interface. Reads go through `defaults export`, whose
// plist output preserves value types; writes go through `defaults
// write` with the matching type flag.
package defaults

import (
	"fmt"
	"os/exec"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/prefsync/pkg/errors"
	"github.com/arthur-debert/prefsync/pkg/logging"
	"github.com/arthur-debert/prefsync/pkg/types"
)

// runner abstracts process invocation so tests can fake the defaults
// binary.
type runner interface {
	run(name string, args ...string) ([]byte, error)
}

type osRunner struct{}

func (osRunner) run(name string, args ...string) ([]byte, error) {
	return exec.Command(name, args...).Output()
}

// Store implements types.PreferenceStore over the defaults CLI.
// Domain exports are cached for the lifetime of one invocation and
// invalidated on every write, since the engine is the sole writer
// during a run.
type Store struct {
	runner runner
	logger zerolog.Logger
	cache  map[string]map[string]types.Value
}

// NewStore returns a Store backed by the real defaults binary
func NewStore() *Store {
	return newStore(osRunner{})
}

func newStore(r runner) *Store {
	return &Store{
		runner: r,
		logger: logging.GetLogger("defaults"),
		cache:  map[string]map[string]types.Value{},
	}
}

// export returns all keys of a domain, from cache when possible
func (s *Store) export(domain string) (map[string]types.Value, error) {
	if cached, ok := s.cache[domain]; ok {
		return cached, nil
	}

	out, err := s.runner.run("defaults", "export", domain, "-")
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrPreferenceRead,
			"failed to export domain %s", domain)
	}
	values, err := parsePlist(out)
	if err != nil {
		return nil, err
	}
	s.cache[domain] = values
	return values, nil
}

func (s *Store) invalidate(domain string) {
	delete(s.cache, domain)
}

// Get implements types.PreferenceStore
func (s *Store) Get(domain, key string) (types.Value, bool, error) {
	values, err := s.export(domain)
	if err != nil {
		return types.Value{}, false, err
	}
	value, ok := values[key]
	return value, ok, nil
}

// ListKeys implements types.PreferenceStore
func (s *Store) ListKeys(domain string) ([]string, error) {
	values, err := s.export(domain)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	return keys, nil
}

// DomainExists implements types.PreferenceStore
func (s *Store) DomainExists(domain string) bool {
	_, err := s.runner.run("defaults", "read", domain)
	return err == nil
}

// Set implements types.PreferenceStore
func (s *Store) Set(domain, key string, value types.Value) error {
	args, err := writeArgs(domain, key, value)
	if err != nil {
		return err
	}
	if _, err := s.runner.run("defaults", args...); err != nil {
		return errors.Wrapf(err, errors.ErrPreferenceSet,
			"failed to write %s.%s", domain, key)
	}
	s.invalidate(domain)
	s.logger.Debug().
		Str("domain", domain).
		Str("key", key).
		Str("value", value.String()).
		Msg("Preference written")
	return nil
}

// Unset implements types.PreferenceStore
func (s *Store) Unset(domain, key string) error {
	if _, err := s.runner.run("defaults", "delete", domain, key); err != nil {
		return errors.Wrapf(err, errors.ErrPreferenceUnset,
			"failed to delete %s.%s", domain, key)
	}
	s.invalidate(domain)
	s.logger.Debug().
		Str("domain", domain).
		Str("key", key).
		Msg("Preference removed")
	return nil
}

// writeArgs builds the defaults-write argument list with the type flag
// matching the value's kind.
func writeArgs(domain, key string, value types.Value) ([]string, error) {
	args := []string{"write", domain, key}
	switch value.Kind() {
	case types.KindBool:
		args = append(args, "-bool", strconv.FormatBool(value.Bool()))
	case types.KindInt:
		args = append(args, "-int", strconv.FormatInt(value.Int(), 10))
	case types.KindFloat:
		args = append(args, "-float", strconv.FormatFloat(value.Float(), 'g', -1, 64))
	case types.KindString:
		args = append(args, "-string", value.Str())
	case types.KindList:
		args = append(args, "-array")
		for _, elem := range value.List() {
			if elem.Kind() == types.KindList {
				return nil, errors.Newf(errors.ErrPreferenceSet,
					"nested lists are not writable for %s.%s", domain, key)
			}
			args = append(args, elem.String())
		}
	default:
		return nil, errors.Newf(errors.ErrPreferenceSet,
			"unsupported value for %s.%s: %s", domain, key, fmt.Sprint(value.Kind()))
	}
	return args, nil
}
