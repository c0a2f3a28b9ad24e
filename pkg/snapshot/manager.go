package snapshot

import (
	"github.com/rs/zerolog"

	"github.com/arthur-debert/prefsync/pkg/errors"
	"github.com/arthur-debert/prefsync/pkg/logging"
	"github.com/arthur-debert/prefsync/pkg/types"
)

// Manager owns the snapshot lifecycle for one invocation: capturing
// prior state before mutations, committing the record atomically, and
// replaying it on unapply. It is passed explicitly through the
// reconciliation controller, never held as process-wide state.
type Manager struct {
	prefs    types.PreferenceStore
	path     string
	logger   zerolog.Logger
	current  *Snapshot
	captured map[keyRef]bool
}

type keyRef struct {
	domain string
	key    string
}

// NewManager returns a Manager persisting to path and reading prior
// values through prefs.
func NewManager(prefs types.PreferenceStore, path string) *Manager {
	return &Manager{
		prefs:  prefs,
		path:   path,
		logger: logging.GetLogger("snapshot"),
	}
}

// Path returns the snapshot file location
func (m *Manager) Path() string { return m.path }

// BeginCapture starts a fresh capture baseline, discarding any
// in-memory state from a previous capture. The on-disk snapshot is
// untouched until Commit.
func (m *Manager) BeginCapture() {
	m.current = New()
	m.captured = make(map[keyRef]bool)
}

// CaptureBefore records the live value of (domain, key) so it can be
// restored later. It must run strictly before the corresponding store
// mutation; calling it without BeginCapture is a programming error and
// panics. Capturing the same key twice within one run is a no-op after
// the first.
func (m *Manager) CaptureBefore(domain, key string) error {
	if m.current == nil {
		panic("snapshot: CaptureBefore called before BeginCapture")
	}

	ref := keyRef{domain: domain, key: key}
	if m.captured[ref] {
		return nil
	}

	value, exists, err := m.prefs.Get(domain, key)
	if err != nil {
		return errors.Wrapf(err, errors.ErrPreferenceRead,
			"failed to capture prior value of %s.%s", domain, key)
	}

	entry := Entry{Domain: domain, Key: key}
	if exists {
		prior := value
		entry.PriorValue = &prior
	}
	m.current.Entries = append(m.current.Entries, entry)
	m.captured[ref] = true

	m.logger.Trace().
		Str("domain", domain).
		Str("key", key).
		Bool("existed", exists).
		Msg("Captured prior value")
	return nil
}

// RecordCommands notes the names of the auxiliary commands this run
// executed. Command reversal is not attempted on unapply; the names
// are recorded so the user can revert them manually.
func (m *Manager) RecordCommands(names []string) {
	if m.current == nil {
		panic("snapshot: RecordCommands called before BeginCapture")
	}
	m.current.CommandsExecuted = names
}

// Captured returns the number of entries captured so far
func (m *Manager) Captured() int {
	if m.current == nil {
		return 0
	}
	return len(m.current.Entries)
}

// Commit atomically persists the captured snapshot, replacing any
// previous one wholesale.
func (m *Manager) Commit() error {
	if m.current == nil {
		panic("snapshot: Commit called before BeginCapture")
	}
	if err := m.current.Save(m.path); err != nil {
		return err
	}
	m.logger.Info().
		Str("path", m.path).
		Int("entries", len(m.current.Entries)).
		Msg("Snapshot committed")
	return nil
}

// Load reads the committed snapshot from disk
func (m *Manager) Load() (*Snapshot, error) {
	return Load(m.path)
}

// Exists reports whether a committed snapshot is present
func (m *Manager) Exists() bool {
	return Exists(m.path)
}

// ReplayFailure names one entry that could not be restored.
type ReplayFailure struct {
	Domain string
	Key    string
	Err    error
}

// ReplayResult reports exactly which entries were restored, removed or
// failed during one replay.
type ReplayResult struct {
	Restored []Entry
	Removed  []Entry
	Skipped  []Entry
	Failed   []ReplayFailure
	// CommandsExecuted echoes the command names recorded at apply
	// time; these are not reverted
	CommandsExecuted []string
}

// Ok reports whether every entry replayed successfully
func (r *ReplayResult) Ok() bool { return len(r.Failed) == 0 }

// ApplyAndClear replays the committed snapshot in reverse capture
// order: entries with a prior value are written back, entries without
// one are unset. The snapshot file is deleted only when every entry
// replayed successfully, so a retried unapply can resume after a
// partial failure.
func (m *Manager) ApplyAndClear() (*ReplayResult, error) {
	snap, err := m.Load()
	if err != nil {
		return nil, err
	}

	result := &ReplayResult{CommandsExecuted: snap.CommandsExecuted}

	for i := len(snap.Entries) - 1; i >= 0; i-- {
		entry := snap.Entries[i]

		if entry.PriorValue != nil {
			if err := m.prefs.Set(entry.Domain, entry.Key, *entry.PriorValue); err != nil {
				result.Failed = append(result.Failed, ReplayFailure{
					Domain: entry.Domain, Key: entry.Key, Err: err,
				})
				continue
			}
			result.Restored = append(result.Restored, entry)
			continue
		}

		// The key did not exist before the change; remove it. A key
		// that is already gone counts as done, not failed, so a
		// resumed replay converges.
		if _, exists, _ := m.prefs.Get(entry.Domain, entry.Key); !exists {
			result.Skipped = append(result.Skipped, entry)
			continue
		}
		if err := m.prefs.Unset(entry.Domain, entry.Key); err != nil {
			result.Failed = append(result.Failed, ReplayFailure{
				Domain: entry.Domain, Key: entry.Key, Err: err,
			})
			continue
		}
		result.Removed = append(result.Removed, entry)
	}

	if !result.Ok() {
		m.logger.Warn().
			Int("failed", len(result.Failed)).
			Msg("Replay incomplete, keeping snapshot for retry")
		return result, nil
	}

	if err := Delete(m.path); err != nil {
		return result, err
	}
	m.logger.Info().Str("path", m.path).Msg("Snapshot replayed and removed")
	return result, nil
}
