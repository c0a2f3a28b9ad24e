// Package reconcile drives the apply / status / unapply / reset state
// machine: plan through the differ, capture through the snapshot
// manager, mutate through the adapters, then orchestrate commands and
// service restarts.
package reconcile

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/prefsync/pkg/config"
	"github.com/arthur-debert/prefsync/pkg/diff"
	"github.com/arthur-debert/prefsync/pkg/errors"
	"github.com/arthur-debert/prefsync/pkg/external"
	"github.com/arthur-debert/prefsync/pkg/logging"
	"github.com/arthur-debert/prefsync/pkg/snapshot"
	"github.com/arthur-debert/prefsync/pkg/types"
)

// State names the controller's position in one run. Locked and Failed
// are absorbing.
type State string

const (
	StateIdle           State = "idle"
	StatePlanning       State = "planning"
	StateMutating       State = "mutating"
	StateSnapshotting   State = "snapshotting"
	StateCommandRunning State = "command-running"
	StateDone           State = "done"
	StateLocked         State = "locked"
	StateFailed         State = "failed"
)

// Options configures one reconciliation run.
type Options struct {
	// DryRun resolves the full plan and command ordering but performs
	// no preference writes, snapshot commits or real executions
	DryRun bool
	// NoExec suppresses the auxiliary command phase of apply
	NoExec bool
	// WithPackages includes the package delta in apply
	WithPackages bool
	// DisableChecks skips the domain existence pre-check
	DisableChecks bool
	// NoRestartServices suppresses the service-restart signal
	NoRestartServices bool
	// FailFastCommands aborts remaining commands after a failing
	// run-first command
	FailFastCommands bool
}

// EntryFailure names one preference key that could not be mutated.
type EntryFailure struct {
	Domain string
	Key    string
	Err    error
}

// PackageFailure names one package that could not be installed.
type PackageFailure struct {
	Kind types.PackageKind
	Name string
	Err  error
}

// Result aggregates everything one run did, including what failed. The
// run as a whole is failed if any entry failed, even though execution
// continued past individual failures.
type Result struct {
	State State

	// Set lists preference entries written (or, in dry-run, that
	// would be written)
	Set []types.PreferenceEntry
	// Unset lists keys removed by reset
	Unset []diff.KeyRef
	// Failures lists per-entry adapter failures
	Failures []EntryFailure

	// PackagesInstalled lists packages installed this run
	PackagesInstalled []string
	// PackageFailures lists per-package install failures
	PackageFailures []PackageFailure

	// Commands holds the orchestration results, when commands ran
	Commands *external.Results

	// Replay holds the snapshot replay results, for unapply
	Replay *snapshot.ReplayResult
}

// Ok reports whether the run completed with no recorded failure
func (r *Result) Ok() bool {
	if len(r.Failures) > 0 || len(r.PackageFailures) > 0 {
		return false
	}
	if r.Commands != nil && r.Commands.Failed() {
		return false
	}
	if r.Replay != nil && !r.Replay.Ok() {
		return false
	}
	return r.State != StateFailed && r.State != StateLocked
}

// Deps are the collaborators a Controller sequences.
type Deps struct {
	Prefs     types.PreferenceStore
	Packages  types.PackageStore
	Snapshots *snapshot.Manager
	Executor  types.ProcessExecutor
	Notifier  types.ServiceNotifier
}

// Controller owns one invocation's TargetModel and sequences a single
// operation over it.
type Controller struct {
	model  *types.TargetModel
	deps   Deps
	opts   Options
	state  State
	logger zerolog.Logger
}

// New creates a Controller for one run over the given model
func New(model *types.TargetModel, deps Deps, opts Options) *Controller {
	return &Controller{
		model:  model,
		deps:   deps,
		opts:   opts,
		state:  StateIdle,
		logger: logging.GetLogger("reconcile"),
	}
}

// State returns the controller's current state
func (c *Controller) State() State { return c.state }

func (c *Controller) transition(next State) {
	c.logger.Debug().
		Str("from", string(c.state)).
		Str("to", string(next)).
		Msg("State transition")
	c.state = next
}

// guardLock rejects mutating operations on a locked model before any
// adapter call is made.
func (c *Controller) guardLock() error {
	if c.model.Locked {
		c.transition(StateLocked)
		return errors.New(errors.ErrConfigLocked,
			"config is locked; run `prefsync config unlock` first")
	}
	return nil
}

// Apply converges the machine toward the model: plan, capture, write,
// commit, then run commands. Per-entry failures are recorded and do
// not stop the remaining plan.
func (c *Controller) Apply(ctx context.Context) (*Result, error) {
	defer logging.LogOperationStart(c.logger, "apply")()
	result := &Result{}

	if err := c.guardLock(); err != nil {
		result.State = c.state
		return result, err
	}

	c.transition(StatePlanning)
	if err := c.checkDomains(); err != nil {
		c.transition(StateFailed)
		result.State = c.state
		return result, err
	}

	differ := diff.New(c.deps.Prefs, c.deps.Packages)
	plan, err := differ.Plan(ctx, c.model, c.opts.WithPackages)
	if err != nil {
		c.transition(StateFailed)
		result.State = c.state
		return result, err
	}

	if c.opts.DryRun {
		result.Set = plan.ToSet
		if c.opts.WithPackages {
			for _, kind := range []types.PackageKind{types.PackageTap, types.PackageFormula, types.PackageCask} {
				result.PackagesInstalled = append(result.PackagesInstalled, plan.Packages.Missing(kind)...)
			}
		}
		c.runCommands(ctx, result)
		c.transition(StateDone)
		result.State = c.state
		return result, nil
	}

	c.transition(StateMutating)
	c.deps.Snapshots.BeginCapture()
	for _, entry := range plan.ToSet {
		// prior state is captured strictly before the write; a key
		// that cannot be captured is not written at all
		if err := c.deps.Snapshots.CaptureBefore(entry.Domain, entry.Key); err != nil {
			result.Failures = append(result.Failures, EntryFailure{
				Domain: entry.Domain, Key: entry.Key, Err: err,
			})
			continue
		}
		if err := c.deps.Prefs.Set(entry.Domain, entry.Key, entry.Value); err != nil {
			result.Failures = append(result.Failures, EntryFailure{
				Domain: entry.Domain, Key: entry.Key, Err: err,
			})
			continue
		}
		result.Set = append(result.Set, entry)
	}

	if c.opts.WithPackages {
		c.installPackages(ctx, plan.Packages, result)
	}

	c.transition(StateSnapshotting)
	if err := c.deps.Snapshots.Commit(); err != nil {
		c.transition(StateFailed)
		result.State = c.state
		return result, err
	}

	c.runCommands(ctx, result)

	// only names of commands that actually ran land in the snapshot
	// record; skipped commands have nothing to revert manually
	if result.Commands != nil {
		c.deps.Snapshots.RecordCommands(result.Commands.ExecutedNames())
		if err := c.deps.Snapshots.Commit(); err != nil {
			c.transition(StateFailed)
			result.State = c.state
			return result, err
		}
	}

	c.transition(StateDone)
	result.State = c.state
	c.notifyChanged(ctx, result)
	return result, nil
}

// Status reports drift without mutating anything.
func (c *Controller) Status(ctx context.Context) (*diff.Report, error) {
	defer logging.LogOperationStart(c.logger, "status")()
	c.transition(StatePlanning)
	differ := diff.New(c.deps.Prefs, c.deps.Packages)
	report, err := differ.Report(ctx, c.model)
	if err != nil {
		c.transition(StateFailed)
		return nil, err
	}
	c.transition(StateDone)
	return report, nil
}

// Unapply replays the committed snapshot in reverse and deletes it on
// full success. A missing snapshot fails fast; nothing is guessed.
func (c *Controller) Unapply(ctx context.Context) (*Result, error) {
	defer logging.LogOperationStart(c.logger, "unapply")()
	result := &Result{}

	if !c.deps.Snapshots.Exists() {
		c.transition(StateFailed)
		result.State = c.state
		return result, errors.New(errors.ErrSnapshotMissing,
			"no snapshot found; nothing to revert")
	}

	if c.opts.DryRun {
		snap, err := c.deps.Snapshots.Load()
		if err != nil {
			c.transition(StateFailed)
			result.State = c.state
			return result, err
		}
		c.logger.Info().
			Int("entries", len(snap.Entries)).
			Msg("Dry-run: would revert snapshot entries")
		c.transition(StateDone)
		result.State = c.state
		return result, nil
	}

	c.transition(StateMutating)
	replay, err := c.deps.Snapshots.ApplyAndClear()
	if err != nil {
		c.transition(StateFailed)
		result.State = c.state
		return result, err
	}
	result.Replay = replay

	c.transition(StateDone)
	result.State = c.state

	for _, entry := range replay.Restored {
		c.restartService(ctx, entry.Domain)
	}
	for _, entry := range replay.Removed {
		c.restartService(ctx, entry.Domain)
	}
	return result, nil
}

// Reset forces every declared key back to the store's factory state.
// It is itself revertible: prior values go through snapshot capture
// like any apply.
func (c *Controller) Reset(ctx context.Context) (*Result, error) {
	defer logging.LogOperationStart(c.logger, "reset")()
	result := &Result{}

	if err := c.guardLock(); err != nil {
		result.State = c.state
		return result, err
	}

	c.transition(StatePlanning)
	differ := diff.New(c.deps.Prefs, c.deps.Packages)
	plan := differ.ResetPlan(c.model)

	if c.opts.DryRun {
		result.Unset = plan.ToUnset
		c.transition(StateDone)
		result.State = c.state
		return result, nil
	}

	c.transition(StateMutating)
	c.deps.Snapshots.BeginCapture()
	for _, ref := range plan.ToUnset {
		if err := c.deps.Snapshots.CaptureBefore(ref.Domain, ref.Key); err != nil {
			result.Failures = append(result.Failures, EntryFailure{
				Domain: ref.Domain, Key: ref.Key, Err: err,
			})
			continue
		}
		if err := c.deps.Prefs.Unset(ref.Domain, ref.Key); err != nil {
			result.Failures = append(result.Failures, EntryFailure{
				Domain: ref.Domain, Key: ref.Key, Err: err,
			})
			continue
		}
		result.Unset = append(result.Unset, ref)
	}

	c.transition(StateSnapshotting)
	if err := c.deps.Snapshots.Commit(); err != nil {
		c.transition(StateFailed)
		result.State = c.state
		return result, err
	}

	c.transition(StateDone)
	result.State = c.state
	c.notifyChanged(ctx, result)
	return result, nil
}

// checkDomains verifies every com.apple.* domain in the model exists
// before anything is written to it.
func (c *Controller) checkDomains() error {
	if c.opts.DisableChecks {
		return nil
	}
	for _, domain := range c.model.Domains() {
		if !config.NeedsDomainCheck(domain) {
			continue
		}
		if !c.deps.Prefs.DomainExists(domain) {
			return errors.Newf(errors.ErrDomainMissing,
				"domain %s does not exist; use --disable-checks to write anyway", domain)
		}
	}
	return nil
}

func (c *Controller) installPackages(ctx context.Context, delta diff.PackageDelta, result *Result) {
	// taps first, so tapped formulae and casks can resolve
	for _, kind := range []types.PackageKind{types.PackageTap, types.PackageFormula, types.PackageCask} {
		for _, name := range delta.Missing(kind) {
			if err := c.deps.Packages.Install(ctx, kind, name); err != nil {
				result.PackageFailures = append(result.PackageFailures, PackageFailure{
					Kind: kind, Name: name, Err: err,
				})
				continue
			}
			result.PackagesInstalled = append(result.PackagesInstalled, name)
		}
	}
}

func (c *Controller) runCommands(ctx context.Context, result *Result) {
	if c.opts.NoExec || len(c.model.Commands) == 0 {
		return
	}
	c.transition(StateCommandRunning)
	orch := external.New(external.Options{
		Executor: c.deps.Executor,
		FailFast: c.opts.FailFastCommands,
	})
	result.Commands = orch.Run(ctx, c.model.Commands, c.model.Vars)
}

func (c *Controller) notifyChanged(ctx context.Context, result *Result) {
	if c.opts.NoRestartServices {
		return
	}
	for _, entry := range result.Set {
		c.restartService(ctx, entry.Domain)
	}
	for _, ref := range result.Unset {
		c.restartService(ctx, ref.Domain)
	}
}

func (c *Controller) restartService(ctx context.Context, domain string) {
	if c.opts.NoRestartServices || c.deps.Notifier == nil {
		return
	}
	// best effort; the notifier logs its own failures
	_ = c.deps.Notifier.Restart(ctx, domain)
}
