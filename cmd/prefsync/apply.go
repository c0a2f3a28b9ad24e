package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/prefsync/pkg/reconcile"
	"github.com/arthur-debert/prefsync/pkg/style"
)

func newApplyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "apply",
		Short:   MsgApplyShort,
		Long:    MsgApplyLong,
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			dryRun, _, noRestart := globalFlags(cmd)
			noExec, _ := cmd.Flags().GetBool("no-exec")
			withPackages, _ := cmd.Flags().GetBool("with-packages")
			disableChecks, _ := cmd.Flags().GetBool("disable-checks")
			failFast, _ := cmd.Flags().GetBool("fail-fast")

			model, path, err := loadModel()
			if err != nil {
				return err
			}

			log.Info().
				Str("config", path).
				Bool("dry_run", dryRun).
				Bool("with_packages", withPackages).
				Msg("Starting apply")

			controller := reconcile.New(model, newDeps(dryRun), reconcile.Options{
				DryRun:            dryRun,
				NoExec:            noExec,
				WithPackages:      withPackages,
				DisableChecks:     disableChecks,
				NoRestartServices: noRestart,
				FailFastCommands:  failFast,
			})

			result, err := controller.Apply(cmd.Context())
			if err != nil {
				return fmt.Errorf(MsgErrApply, err)
			}

			if len(result.Set) == 0 && len(result.Failures) == 0 &&
				len(result.PackagesInstalled) == 0 && len(result.PackageFailures) == 0 &&
				result.Commands == nil {
				fmt.Println(style.Success(MsgNothingToApply))
				return nil
			}

			displayApplyResult(result, dryRun)
			if !result.Ok() {
				return fmt.Errorf("apply completed with failures")
			}
			return nil
		},
	}

	cmd.Flags().Bool("no-exec", false, MsgFlagNoExec)
	cmd.Flags().Bool("with-packages", false, MsgFlagWithPackages)
	cmd.Flags().Bool("disable-checks", false, MsgFlagDisableChecks)
	cmd.Flags().Bool("fail-fast", false, MsgFlagFailFast)

	return cmd
}
