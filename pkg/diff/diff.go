// Package diff computes the delta between the declared TargetModel and
// the live machine state read through the store adapters.
package diff

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/prefsync/pkg/logging"
	"github.com/arthur-debert/prefsync/pkg/types"
)

// KeyRef names a single preference key.
type KeyRef struct {
	Domain string `json:"domain"`
	Key    string `json:"key"`
}

// PackageDelta is the set difference between declared and installed
// packages, per package kind.
type PackageDelta struct {
	MissingFormulae []string
	ExtraFormulae   []string
	MissingCasks    []string
	ExtraCasks      []string
	MissingTaps     []string
	ExtraTaps       []string
}

// Empty reports whether declared and installed packages agree
func (d PackageDelta) Empty() bool {
	return len(d.MissingFormulae) == 0 && len(d.ExtraFormulae) == 0 &&
		len(d.MissingCasks) == 0 && len(d.ExtraCasks) == 0 &&
		len(d.MissingTaps) == 0 && len(d.ExtraTaps) == 0
}

// Missing returns the missing packages of a kind
func (d PackageDelta) Missing(kind types.PackageKind) []string {
	switch kind {
	case types.PackageFormula:
		return d.MissingFormulae
	case types.PackageCask:
		return d.MissingCasks
	case types.PackageTap:
		return d.MissingTaps
	}
	return nil
}

// Plan is the ephemeral list of operations one reconciliation run must
// perform. It is produced by the Differ and consumed exactly once.
type Plan struct {
	// ToSet holds entries whose live value is absent or differs from
	// the declared one, in TargetModel declaration order
	ToSet []types.PreferenceEntry
	// ToUnset holds declared keys to remove (populated by reset plans)
	ToUnset []KeyRef
	// Packages is the declared-vs-installed package delta
	Packages PackageDelta
}

// Empty reports whether the plan requires no work at all
func (p *Plan) Empty() bool {
	return len(p.ToSet) == 0 && len(p.ToUnset) == 0 && p.Packages.Empty()
}

// DriftEntry is one human-facing discrepancy between declared and live
// state. Live is nil when the key is not set on the machine.
type DriftEntry struct {
	Domain   string
	Key      string
	Declared types.Value
	Live     *types.Value
}

// Report is the drift report backing the status operation.
type Report struct {
	// Drift lists declared keys whose live value differs
	Drift []DriftEntry
	// InSync counts declared keys that already match
	InSync int
	// Unmanaged lists live keys in declared domains that the config
	// does not mention; these are reported, never auto-removed
	Unmanaged []KeyRef
	// Packages is the declared-vs-installed package delta
	Packages PackageDelta
}

// Clean reports whether no drift of any kind was observed
func (r *Report) Clean() bool {
	return len(r.Drift) == 0 && r.Packages.Empty()
}

// Differ compares a TargetModel against live state.
type Differ struct {
	prefs  types.PreferenceStore
	pkgs   types.PackageStore
	logger zerolog.Logger
}

// New creates a Differ over the given adapters. pkgs may be nil when no
// package store is available; package deltas then stay empty.
func New(prefs types.PreferenceStore, pkgs types.PackageStore) *Differ {
	return &Differ{
		prefs:  prefs,
		pkgs:   pkgs,
		logger: logging.GetLogger("diff"),
	}
}

// Plan computes the operations needed to converge the machine to the
// model. Keys whose live value already equals the declared value are
// omitted, so applying an unchanged model yields an empty plan.
func (d *Differ) Plan(ctx context.Context, model *types.TargetModel, withPackages bool) (*Plan, error) {
	plan := &Plan{}

	for _, entry := range model.Prefs {
		live, exists := d.read(entry.Domain, entry.Key)
		if exists && live.Equal(entry.Value) {
			continue
		}
		plan.ToSet = append(plan.ToSet, entry)
	}

	if withPackages && !model.Packages.Empty() && d.pkgs != nil {
		delta, err := d.packageDelta(ctx, model.Packages)
		if err != nil {
			return nil, err
		}
		plan.Packages = delta
	}

	d.logger.Debug().
		Int("toSet", len(plan.ToSet)).
		Msg("Plan computed")
	return plan, nil
}

// ResetPlan marks every declared key that is currently set for removal.
// Used by the reset operation, which forces keys back to the store's
// factory state instead of the declared values.
func (d *Differ) ResetPlan(model *types.TargetModel) *Plan {
	plan := &Plan{}
	for _, entry := range model.Prefs {
		if _, exists := d.read(entry.Domain, entry.Key); exists {
			plan.ToUnset = append(plan.ToUnset, KeyRef{Domain: entry.Domain, Key: entry.Key})
		}
	}
	return plan
}

// Report produces the drift report for status: declared keys that
// differ, keys in sync, unmanaged live keys in declared domains, and
// the package delta when a package store is available.
func (d *Differ) Report(ctx context.Context, model *types.TargetModel) (*Report, error) {
	report := &Report{}
	declared := make(map[KeyRef]bool, len(model.Prefs))

	for _, entry := range model.Prefs {
		declared[KeyRef{Domain: entry.Domain, Key: entry.Key}] = true

		live, exists := d.read(entry.Domain, entry.Key)
		if exists && live.Equal(entry.Value) {
			report.InSync++
			continue
		}
		drift := DriftEntry{Domain: entry.Domain, Key: entry.Key, Declared: entry.Value}
		if exists {
			liveCopy := live
			drift.Live = &liveCopy
		}
		report.Drift = append(report.Drift, drift)
	}

	for _, domain := range model.Domains() {
		keys, err := d.prefs.ListKeys(domain)
		if err != nil {
			d.logger.Debug().Err(err).Str("domain", domain).Msg("Could not list live keys")
			continue
		}
		for _, key := range keys {
			if !declared[KeyRef{Domain: domain, Key: key}] {
				report.Unmanaged = append(report.Unmanaged, KeyRef{Domain: domain, Key: key})
			}
		}
	}

	if !model.Packages.Empty() && d.pkgs != nil {
		delta, err := d.packageDelta(ctx, model.Packages)
		if err != nil {
			return nil, err
		}
		report.Packages = delta
	}

	return report, nil
}

// read returns the live value for a key. Read failures are treated as
// "not set" so planning stays total; the failure is logged.
func (d *Differ) read(domain, key string) (types.Value, bool) {
	value, exists, err := d.prefs.Get(domain, key)
	if err != nil {
		d.logger.Debug().Err(err).
			Str("domain", domain).
			Str("key", key).
			Msg("Live read failed, treating as unset")
		return types.Value{}, false
	}
	return value, exists
}

func (d *Differ) packageDelta(ctx context.Context, spec types.PackageSpec) (PackageDelta, error) {
	explicitOnly := !spec.TrackDependencies

	installedFormulae, err := d.pkgs.ListInstalled(ctx, types.PackageFormula, explicitOnly)
	if err != nil {
		return PackageDelta{}, err
	}
	installedCasks, err := d.pkgs.ListInstalled(ctx, types.PackageCask, false)
	if err != nil {
		return PackageDelta{}, err
	}
	installedTaps, err := d.pkgs.ListInstalled(ctx, types.PackageTap, false)
	if err != nil {
		return PackageDelta{}, err
	}

	delta := PackageDelta{}
	delta.MissingFormulae, delta.ExtraFormulae = setDiff(spec.Formulae, installedFormulae)
	delta.MissingCasks, delta.ExtraCasks = setDiff(spec.Casks, installedCasks)
	delta.MissingTaps, delta.ExtraTaps = setDiff(spec.Taps, installedTaps)
	return delta, nil
}

// setDiff returns declared−installed and installed−declared, preserving
// the input orders.
func setDiff(declared, installed []string) (missing, extra []string) {
	installedSet := make(map[string]bool, len(installed))
	for _, name := range installed {
		installedSet[name] = true
	}
	declaredSet := make(map[string]bool, len(declared))
	for _, name := range declared {
		declaredSet[name] = true
	}

	for _, name := range declared {
		if !installedSet[name] {
			missing = append(missing, name)
		}
	}
	for _, name := range installed {
		if !declaredSet[name] {
			extra = append(extra, name)
		}
	}
	return missing, extra
}
