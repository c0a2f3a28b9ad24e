package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/prefsync/pkg/errors"
	"github.com/arthur-debert/prefsync/pkg/external"
	"github.com/arthur-debert/prefsync/pkg/style"
	"github.com/arthur-debert/prefsync/pkg/types"
)

func newExecCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "exec [name]",
		Short:   MsgExecShort,
		Long:    MsgExecLong,
		GroupID: "core",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dryRun, _, _ := globalFlags(cmd)
			failFast, _ := cmd.Flags().GetBool("fail-fast")

			model, _, err := loadModel()
			if err != nil {
				return err
			}

			var executor types.ProcessExecutor
			if dryRun {
				executor = external.NewDryRunExecutor()
			} else {
				executor = external.NewShellExecutor()
			}
			orch := external.New(external.Options{
				Executor: executor,
				FailFast: failFast,
			})

			var results *external.Results
			if len(args) == 1 {
				spec, ok := model.FindCommand(args[0])
				if !ok {
					return errors.Newf(errors.ErrCommandNotFound,
						"no command named %q in the config", args[0])
				}
				results = &external.Results{
					Commands: []external.CommandResult{
						orch.RunOne(cmd.Context(), spec, model.Vars),
					},
				}
			} else {
				if len(model.Commands) == 0 {
					fmt.Println(style.Muted("No commands declared."))
					return nil
				}
				results = orch.Run(cmd.Context(), model.Commands, model.Vars)
			}

			for _, cr := range results.Commands {
				switch {
				case cr.Skipped:
					fmt.Printf("  %s %s %s\n",
						style.Muted("-"), style.Key(cr.Name), style.Muted("skipped: "+cr.Reason))
				case cr.Err != nil:
					fmt.Printf("  %s %s: %v\n", style.Error("✗"), style.Key(cr.Name), cr.Err)
				default:
					fmt.Printf("  %s %s\n", style.Success("✓"), style.Key(cr.Name))
				}
			}

			if dryRun {
				fmt.Println(style.Warning(MsgDryRunNotice))
			}
			if results.Failed() {
				return fmt.Errorf("one or more commands failed")
			}
			return nil
		},
	}

	cmd.Flags().Bool("fail-fast", false, MsgFlagFailFast)

	return cmd
}
