package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/prefsync/pkg/reconcile"
	"github.com/arthur-debert/prefsync/pkg/style"
)

func newUnapplyCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "unapply",
		Short:   MsgUnapplyShort,
		Long:    MsgUnapplyLong,
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			dryRun, _, noRestart := globalFlags(cmd)

			// Unapply needs no config; the snapshot alone drives it.
			// The model is only used for logging context here.
			controller := reconcile.New(nil, newDeps(dryRun), reconcile.Options{
				DryRun:            dryRun,
				NoRestartServices: noRestart,
			})

			result, err := controller.Unapply(cmd.Context())
			if err != nil {
				return fmt.Errorf(MsgErrUnapply, err)
			}

			if dryRun {
				fmt.Println(style.Warning(MsgDryRunNotice))
				return nil
			}

			displayReplay(result)
			if !result.Ok() {
				return fmt.Errorf("unapply completed with failures")
			}
			return nil
		},
	}
}
