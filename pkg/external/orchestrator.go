package external

import (
	"context"
	"os/exec"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/arthur-debert/prefsync/pkg/errors"
	"github.com/arthur-debert/prefsync/pkg/logging"
	"github.com/arthur-debert/prefsync/pkg/types"
)

// Options configures one orchestrator.
type Options struct {
	// Executor runs the resolved command lines. Required.
	Executor types.ProcessExecutor
	// FailFast aborts the run after the first failing run-first
	// command; later commands are reported as skipped. The default is
	// best-effort continuation.
	FailFast bool
	// MaxParallel caps concurrent execution of the unordered group.
	// Zero means no cap.
	MaxParallel int
}

// CommandResult reports the outcome of one command.
type CommandResult struct {
	Name     string
	Resolved string
	Elevated bool
	// Skipped is set when the command never ran (missing required
	// binary, or an earlier fail-fast abort); Reason says why
	Skipped bool
	Reason  string
	// Err holds the substitution or execution failure, if any
	Err error
}

// Ok reports whether the command ran and succeeded
func (r CommandResult) Ok() bool { return !r.Skipped && r.Err == nil }

// Results aggregates one orchestration run. All results are collected
// before reporting, even when some commands fail.
type Results struct {
	Commands []CommandResult
}

// Counts returns (succeeded, failed, skipped)
func (r *Results) Counts() (succeeded, failed, skipped int) {
	for _, c := range r.Commands {
		switch {
		case c.Skipped:
			skipped++
		case c.Err != nil:
			failed++
		default:
			succeeded++
		}
	}
	return
}

// Failed reports whether any command failed
func (r *Results) Failed() bool {
	_, failed, _ := r.Counts()
	return failed > 0
}

// ExecutedNames returns the names of commands that actually ran
func (r *Results) ExecutedNames() []string {
	var names []string
	for _, c := range r.Commands {
		if !c.Skipped {
			names = append(names, c.Name)
		}
	}
	return names
}

// Orchestrator resolves variables, partitions commands into the
// ordered run-first group and the unordered concurrent group, executes
// them, and aggregates per-command results.
type Orchestrator struct {
	opts   Options
	logger zerolog.Logger
}

// New creates an Orchestrator with the given options
func New(opts Options) *Orchestrator {
	return &Orchestrator{
		opts:   opts,
		logger: logging.GetLogger("external"),
	}
}

// lookPath is swapped out in tests
var lookPath = exec.LookPath

// Run executes all commands. Run-first commands execute sequentially in
// declaration order; only after the last of them finishes does the
// unordered group dispatch concurrently.
func (o *Orchestrator) Run(ctx context.Context, commands []types.CommandSpec, vars map[string]string) *Results {
	var first, rest []types.CommandSpec
	for _, cmd := range commands {
		if cmd.RunFirst {
			first = append(first, cmd)
		} else {
			rest = append(rest, cmd)
		}
	}

	results := &Results{}
	aborted := false

	for _, cmd := range first {
		if aborted {
			results.Commands = append(results.Commands, CommandResult{
				Name: cmd.Name, Skipped: true, Reason: "aborted after earlier failure",
			})
			continue
		}
		result := o.runOne(ctx, cmd, vars)
		results.Commands = append(results.Commands, result)
		if result.Err != nil && o.opts.FailFast {
			aborted = true
		}
	}

	if aborted {
		for _, cmd := range rest {
			results.Commands = append(results.Commands, CommandResult{
				Name: cmd.Name, Skipped: true, Reason: "aborted after earlier failure",
			})
		}
		return results
	}

	// concurrent group; no ordering guarantee among these
	slots := make([]CommandResult, len(rest))
	group, gctx := errgroup.WithContext(ctx)
	if o.opts.MaxParallel > 0 {
		group.SetLimit(o.opts.MaxParallel)
	}
	for i, cmd := range rest {
		i, cmd := i, cmd
		group.Go(func() error {
			slots[i] = o.runOne(gctx, cmd, vars)
			return nil
		})
	}
	_ = group.Wait()
	results.Commands = append(results.Commands, slots...)

	succeeded, failed, skipped := results.Counts()
	o.logger.Info().
		Int("succeeded", succeeded).
		Int("failed", failed).
		Int("skipped", skipped).
		Msg("Command orchestration finished")
	return results
}

// RunOne executes a single named command from the list
func (o *Orchestrator) RunOne(ctx context.Context, cmd types.CommandSpec, vars map[string]string) CommandResult {
	return o.runOne(ctx, cmd, vars)
}

func (o *Orchestrator) runOne(ctx context.Context, cmd types.CommandSpec, vars map[string]string) CommandResult {
	result := CommandResult{Name: cmd.Name, Elevated: cmd.Elevated}

	for _, bin := range cmd.Required {
		if _, err := lookPath(bin); err != nil {
			result.Skipped = true
			result.Reason = bin + " not found in $PATH"
			o.logger.Warn().
				Str("command", cmd.Name).
				Str("binary", bin).
				Msg("Skipping command, required binary missing")
			return result
		}
	}

	resolved, err := Substitute(cmd.Template, vars)
	if err != nil {
		result.Err = errors.Wrapf(err, errors.ErrVariableUnresolved,
			"command %s", cmd.Name)
		return result
	}
	result.Resolved = resolved

	o.logger.Debug().
		Str("command", cmd.Name).
		Str("resolved", resolved).
		Bool("elevated", cmd.Elevated).
		Msg("Executing command")

	execResult, err := o.opts.Executor.Run(ctx, resolved, cmd.Elevated)
	if err != nil {
		result.Err = err
		return result
	}
	if execResult.ExitCode != 0 {
		result.Err = errors.Newf(errors.ErrCommandFailed,
			"command %s exited with status %d", cmd.Name, execResult.ExitCode)
	}
	return result
}
