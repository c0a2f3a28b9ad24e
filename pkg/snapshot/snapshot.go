// Package snapshot records pre-change machine state so every apply can
// be reversed. One snapshot exists per user at a time; each apply
// replaces it with a fresh baseline.
package snapshot

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/arthur-debert/prefsync/pkg/errors"
	"github.com/arthur-debert/prefsync/internal/version"
	"github.com/arthur-debert/prefsync/pkg/types"
)

// Entry records the state of one preference key before it was mutated.
// A nil PriorValue means the key did not exist and must be removed,
// not restored, on reversal.
type Entry struct {
	Domain     string       `json:"domain"`
	Key        string       `json:"key"`
	PriorValue *types.Value `json:"prior_value"`
}

// Snapshot is the persisted reversal record of one apply run.
type Snapshot struct {
	Entries          []Entry   `json:"entries"`
	CommandsExecuted []string  `json:"commands_executed,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	Version          string    `json:"version"`
}

// New returns an empty snapshot stamped with the current time and
// binary version.
func New() *Snapshot {
	return &Snapshot{
		CreatedAt: time.Now().UTC(),
		Version:   version.Version,
	}
}

// Save persists the snapshot atomically: the JSON document is written
// to a temporary file in the target directory and then renamed into
// place, so a crash mid-write never leaves a partial snapshot visible.
func (s *Snapshot) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrSnapshotWrite,
			"failed to create snapshot directory for %s", path)
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "failed to encode snapshot")
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".snapshot-*")
	if err != nil {
		return errors.Wrap(err, errors.ErrSnapshotWrite, "failed to create temporary snapshot")
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Wrap(err, errors.ErrSnapshotWrite, "failed to write snapshot")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(err, errors.ErrSnapshotWrite, "failed to close snapshot")
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return errors.Wrapf(err, errors.ErrSnapshotWrite,
			"failed to move snapshot into place at %s", path)
	}
	return nil
}

// Load reads a snapshot from disk. A missing file is ErrSnapshotMissing;
// an unreadable or unparsable file is ErrSnapshotCorrupt.
func Load(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Newf(errors.ErrSnapshotMissing,
				"no snapshot found at %s; nothing to revert", path)
		}
		return nil, errors.Wrapf(err, errors.ErrSnapshotCorrupt,
			"failed to read snapshot at %s", path)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, errors.Wrapf(err, errors.ErrSnapshotCorrupt,
			"snapshot at %s is not valid", path)
	}
	return &snap, nil
}

// Exists reports whether a snapshot file is present at path
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Delete removes the snapshot file at path
func Delete(path string) error {
	if err := os.Remove(path); err != nil {
		return errors.Wrapf(err, errors.ErrSnapshotWrite,
			"failed to delete snapshot at %s", path)
	}
	return nil
}
