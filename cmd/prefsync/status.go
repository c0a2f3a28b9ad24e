package main

import (
	"github.com/spf13/cobra"

	"github.com/arthur-debert/prefsync/pkg/reconcile"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "status",
		Short:   MsgStatusShort,
		Long:    MsgStatusLong,
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			model, _, err := loadModel()
			if err != nil {
				return err
			}

			controller := reconcile.New(model, newDeps(false), reconcile.Options{})
			report, err := controller.Status(cmd.Context())
			if err != nil {
				return err
			}

			// drift is a report, not a failure; only adapter errors
			// make status exit non-zero
			displayReport(report)
			return nil
		},
	}
}
