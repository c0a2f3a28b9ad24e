package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/prefsync/internal/version"
	"github.com/arthur-debert/prefsync/pkg/brew"
	"github.com/arthur-debert/prefsync/pkg/config"
	"github.com/arthur-debert/prefsync/pkg/defaults"
	"github.com/arthur-debert/prefsync/pkg/external"
	"github.com/arthur-debert/prefsync/pkg/logging"
	"github.com/arthur-debert/prefsync/pkg/paths"
	"github.com/arthur-debert/prefsync/pkg/reconcile"
	"github.com/arthur-debert/prefsync/pkg/services"
	"github.com/arthur-debert/prefsync/pkg/snapshot"
	"github.com/arthur-debert/prefsync/pkg/types"
)

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	// Initialize custom template formatting functions
	initTemplateFormatting()

	var verbosity int

	rootCmd := &cobra.Command{
		Use:     "prefsync",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand given: show help but exit non-zero
			_ = cmd.Help()
			return fmt.Errorf("no command specified")
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	// Global flags
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().Bool("dry-run", false, MsgFlagDryRun)
	rootCmd.PersistentFlags().BoolP("accept-all", "y", false, MsgFlagAcceptAll)
	rootCmd.PersistentFlags().Bool("no-restart-services", false, MsgFlagNoRestart)

	// Command groups
	rootCmd.AddGroup(&cobra.Group{
		ID:    "core",
		Title: "COMMANDS:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "misc",
		Title: "MISC:",
	})

	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	// Add all commands
	rootCmd.AddCommand(newApplyCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newUnapplyCmd())
	rootCmd.AddCommand(newResetCmd())
	rootCmd.AddCommand(newExecCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newPackagesCmd())
	rootCmd.AddCommand(newInitCmd())
	rootCmd.AddCommand(newCompletionCmd())

	return rootCmd
}

// globalFlags reads the persistent flags every command cares about
func globalFlags(cmd *cobra.Command) (dryRun, acceptAll, noRestart bool) {
	flags := cmd.Root().PersistentFlags()
	dryRun, _ = flags.GetBool("dry-run")
	acceptAll, _ = flags.GetBool("accept-all")
	noRestart, _ = flags.GetBool("no-restart-services")
	return dryRun, acceptAll, noRestart
}

// loadModel loads and parses the config file
func loadModel() (*types.TargetModel, string, error) {
	path := paths.ConfigFile()
	model, err := config.Load(path)
	if err != nil {
		return nil, path, fmt.Errorf(MsgErrLoadConfig, err)
	}
	return model, path, nil
}

// newDeps wires the live adapters for a reconciliation run. In
// dry-run mode commands go through the no-op executor and service
// restarts are only reported.
func newDeps(dryRun bool) reconcile.Deps {
	prefs := defaults.NewStore()

	var executor types.ProcessExecutor
	if dryRun {
		executor = external.NewDryRunExecutor()
	} else {
		executor = external.NewShellExecutor()
	}

	var pkgs types.PackageStore
	if brew.Available() {
		pkgs = brew.NewStore()
	}

	return reconcile.Deps{
		Prefs:     prefs,
		Packages:  pkgs,
		Snapshots: snapshot.NewManager(prefs, paths.SnapshotFile()),
		Executor:  executor,
		Notifier:  services.NewNotifier(dryRun),
	}
}

// confirm asks the user before proceeding; -y answers yes to everything
func confirm(prompt string, acceptAll bool) bool {
	if acceptAll {
		return true
	}
	fmt.Printf("%s [y/N] ", prompt)
	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 "Generate shell completion script",
		GroupID:               "misc",
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		Run: func(cmd *cobra.Command, args []string) {
			switch args[0] {
			case "bash":
				if err := cmd.Root().GenBashCompletion(cmd.OutOrStdout()); err != nil {
					log.Error().Err(err).Msg("Failed to generate bash completion")
				}
			case "zsh":
				if err := cmd.Root().GenZshCompletion(cmd.OutOrStdout()); err != nil {
					log.Error().Err(err).Msg("Failed to generate zsh completion")
				}
			case "fish":
				if err := cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true); err != nil {
					log.Error().Err(err).Msg("Failed to generate fish completion")
				}
			case "powershell":
				if err := cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout()); err != nil {
					log.Error().Err(err).Msg("Failed to generate powershell completion")
				}
			}
		},
	}
}
