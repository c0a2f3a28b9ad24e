package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/prefsync/pkg/config"
	"github.com/arthur-debert/prefsync/pkg/errors"
	"github.com/arthur-debert/prefsync/pkg/paths"
	"github.com/arthur-debert/prefsync/pkg/style"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		Short:   MsgConfigShort,
		GroupID: "misc",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := paths.ConfigFile()
			data, err := os.ReadFile(path)
			if err != nil {
				return errors.Wrapf(err, errors.ErrNotFound, "cannot read %s", path)
			}
			fmt.Println(style.Muted("# " + path))
			fmt.Print(string(data))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete",
		Short: "Delete the config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, acceptAll, _ := globalFlags(cmd)
			path := paths.ConfigFile()
			if !confirm(fmt.Sprintf("Delete %s?", path), acceptAll) {
				fmt.Println(MsgAborted)
				return nil
			}
			if err := os.Remove(path); err != nil {
				return err
			}
			fmt.Println(MsgConfigDeleted)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "lock",
		Short: "Lock the config against mutating commands",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.SetLocked(paths.ConfigFile(), true); err != nil {
				return err
			}
			fmt.Println(style.Warning(MsgConfigLockedNote))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "unlock",
		Short: "Unlock the config",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.SetLocked(paths.ConfigFile(), false); err != nil {
				return err
			}
			fmt.Println(style.Success(MsgConfigUnlockedNote))
			return nil
		},
	})

	return cmd
}

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "init",
		Short:   MsgInitShort,
		GroupID: "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, acceptAll, _ := globalFlags(cmd)
			path := paths.ConfigFile()
			if _, err := os.Stat(path); err == nil {
				if !confirm(fmt.Sprintf("Config already exists at %s. Overwrite?", path), acceptAll) {
					fmt.Println(MsgAborted)
					return nil
				}
			}
			if err := config.WriteExample(path); err != nil {
				return err
			}
			fmt.Printf("Created starter config at %s\n", style.Key(path))
			return nil
		},
	}
}
