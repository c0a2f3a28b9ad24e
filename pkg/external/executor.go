// Package external resolves, orders and executes the auxiliary shell
// commands declared in the config.
package external

import (
	"context"
	"os/exec"
	"sync"

	"github.com/arthur-debert/prefsync/pkg/errors"
	"github.com/arthur-debert/prefsync/pkg/logging"
	"github.com/arthur-debert/prefsync/pkg/types"
)

// ShellExecutor runs commands through `sh -c`, or `sudo sh -c` when
// elevation is requested. It never escalates a command on its own.
type ShellExecutor struct{}

// NewShellExecutor returns the real process executor
func NewShellExecutor() *ShellExecutor { return &ShellExecutor{} }

// Run implements types.ProcessExecutor. A non-zero exit status is
// reported through the result; the error is reserved for spawn
// failures.
func (e *ShellExecutor) Run(ctx context.Context, command string, elevated bool) (types.ExecResult, error) {
	var cmd *exec.Cmd
	if elevated {
		cmd = exec.CommandContext(ctx, "sudo", "sh", "-c", command)
	} else {
		cmd = exec.CommandContext(ctx, "sh", "-c", command)
	}

	output, err := cmd.CombinedOutput()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return types.ExecResult{ExitCode: exitErr.ExitCode(), Output: string(output)}, nil
		}
		return types.ExecResult{}, errors.Wrapf(err, errors.ErrCommandFailed,
			"failed to spawn command")
	}
	return types.ExecResult{ExitCode: 0, Output: string(output)}, nil
}

// DryRunExecutor performs no side effects; it records every resolved
// command line and reports success, so dry runs produce the same
// bookkeeping shape as real runs.
type DryRunExecutor struct {
	mu       sync.Mutex
	resolved []string
}

// NewDryRunExecutor returns a no-op executor for dry runs
func NewDryRunExecutor() *DryRunExecutor { return &DryRunExecutor{} }

// Run implements types.ProcessExecutor without executing anything
func (e *DryRunExecutor) Run(_ context.Context, command string, elevated bool) (types.ExecResult, error) {
	e.mu.Lock()
	e.resolved = append(e.resolved, command)
	e.mu.Unlock()

	logger := logging.GetLogger("external")
	logger.Info().
		Str("command", command).
		Bool("elevated", elevated).
		Msg("Dry-run: would execute")
	return types.ExecResult{ExitCode: 0, Output: ""}, nil
}

// Resolved returns the command lines recorded so far
func (e *DryRunExecutor) Resolved() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, len(e.resolved))
	copy(out, e.resolved)
	return out
}
