package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/prefsync/pkg/reconcile"
	"github.com/arthur-debert/prefsync/pkg/style"
)

func newResetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "reset",
		Short:   MsgResetShort,
		Long:    MsgResetLong,
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			dryRun, acceptAll, noRestart := globalFlags(cmd)
			force, _ := cmd.Flags().GetBool("force")

			if !force && !dryRun {
				return fmt.Errorf("reset removes every declared preference; pass --force to confirm")
			}

			model, _, err := loadModel()
			if err != nil {
				return err
			}

			if !dryRun && !confirm(
				fmt.Sprintf("Remove %d declared preferences from the system?", len(model.Prefs)),
				acceptAll) {
				fmt.Println(MsgAborted)
				return nil
			}

			controller := reconcile.New(model, newDeps(dryRun), reconcile.Options{
				DryRun:            dryRun,
				NoRestartServices: noRestart,
			})

			result, err := controller.Reset(cmd.Context())
			if err != nil {
				return fmt.Errorf(MsgErrReset, err)
			}

			if len(result.Unset) == 0 && len(result.Failures) == 0 {
				fmt.Println(style.Success("No declared preferences are currently set."))
				return nil
			}

			displayApplyResult(result, dryRun)
			if !result.Ok() {
				return fmt.Errorf("reset completed with failures")
			}
			return nil
		},
	}

	cmd.Flags().Bool("force", false, MsgFlagForceReset)

	return cmd
}
