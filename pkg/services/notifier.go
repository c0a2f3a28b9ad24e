// Package services restarts the system services backing preference
// domains so applied changes take effect.
package services

import (
	"context"
	"os/exec"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/prefsync/pkg/logging"
	"github.com/arthur-debert/prefsync/pkg/types"
)

// serviceFor maps a preference domain to the process to restart.
// Domains without a dedicated service fall through to SystemUIServer,
// which picks up most global and menu-bar settings.
func serviceFor(domain string) string {
	switch domain {
	case "com.apple.dock":
		return "Dock"
	case "com.apple.finder":
		return "Finder"
	default:
		return "SystemUIServer"
	}
}

// Notifier implements types.ServiceNotifier via killall. It
// deduplicates restarts within one invocation so a run touching many
// dock keys restarts the Dock once.
type Notifier struct {
	dryRun    bool
	logger    zerolog.Logger
	restarted map[string]bool
}

// NewNotifier returns a Notifier; in dry-run mode it only reports.
func NewNotifier(dryRun bool) *Notifier {
	return &Notifier{
		dryRun:    dryRun,
		logger:    logging.GetLogger("services"),
		restarted: map[string]bool{},
	}
}

// Restart implements types.ServiceNotifier
func (n *Notifier) Restart(ctx context.Context, domain string) error {
	service := serviceFor(domain)
	if n.restarted[service] {
		return nil
	}
	n.restarted[service] = true

	if n.dryRun {
		n.logger.Info().Str("service", service).Msg("Dry-run: would restart service")
		return nil
	}

	if err := exec.CommandContext(ctx, "killall", service).Run(); err != nil {
		n.logger.Warn().
			Err(err).
			Str("service", service).
			Msg("Failed to restart service, restart it manually")
		return err
	}
	n.logger.Info().Str("service", service).Msg("Service restarted")
	return nil
}

var _ types.ServiceNotifier = (*Notifier)(nil)
