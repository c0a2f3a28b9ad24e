package main

import (
	"context"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/prefsync/pkg/brew"
	"github.com/arthur-debert/prefsync/pkg/config"
	"github.com/arthur-debert/prefsync/pkg/diff"
	"github.com/arthur-debert/prefsync/pkg/paths"
	"github.com/arthur-debert/prefsync/pkg/style"
	"github.com/arthur-debert/prefsync/pkg/types"
)

func newPackagesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "packages",
		Short:   MsgPackagesShort,
		GroupID: "misc",
	}

	backup := &cobra.Command{
		Use:   "backup",
		Short: "Write currently installed packages into the config",
		RunE: func(cmd *cobra.Command, args []string) error {
			noDeps, _ := cmd.Flags().GetBool("no-deps")

			if !brew.Available() {
				return fmt.Errorf("brew is not installed or not on PATH")
			}
			store := brew.NewStore()
			ctx := cmd.Context()

			formulae, err := store.ListInstalled(ctx, types.PackageFormula, noDeps)
			if err != nil {
				return err
			}
			casks, err := store.ListInstalled(ctx, types.PackageCask, false)
			if err != nil {
				return err
			}
			taps, err := store.ListInstalled(ctx, types.PackageTap, false)
			if err != nil {
				return err
			}

			if model, _, err := loadModel(); err == nil {
				declared := model.Packages
				if slices.Equal(declared.Formulae, formulae) &&
					slices.Equal(declared.Casks, casks) &&
					slices.Equal(declared.Taps, taps) &&
					declared.TrackDependencies == !noDeps {
					fmt.Println(style.Muted(MsgConfigUpToDate))
					return nil
				}
			}

			path := paths.ConfigFile()
			if err := config.WritePackages(path, formulae, casks, taps, !noDeps); err != nil {
				return err
			}
			fmt.Printf("Backed up %d formulae, %d casks, %d taps to %s\n",
				len(formulae), len(casks), len(taps), style.Key(path))
			return nil
		},
	}
	backup.Flags().Bool("no-deps", false, MsgFlagNoDeps)
	cmd.AddCommand(backup)

	install := &cobra.Command{
		Use:   "install",
		Short: "Install packages the config declares but the system lacks",
		RunE: func(cmd *cobra.Command, args []string) error {
			dryRun, _, _ := globalFlags(cmd)
			noDeps, _ := cmd.Flags().GetBool("no-deps")

			model, _, err := loadModel()
			if err != nil {
				return err
			}
			if model.Packages.Empty() {
				fmt.Println(style.Muted("No packages declared."))
				return nil
			}
			if !brew.Available() {
				return fmt.Errorf("brew is not installed or not on PATH")
			}
			if noDeps {
				model.Packages.TrackDependencies = false
			}

			store := brew.NewStore()
			differ := diff.New(nil, store)
			plan, err := differ.Plan(cmd.Context(), &types.TargetModel{Packages: model.Packages}, true)
			if err != nil {
				return err
			}
			if plan.Packages.Empty() {
				fmt.Println(style.Success("All declared packages are installed."))
				return nil
			}

			installErr := installMissing(cmd.Context(), store, plan.Packages, dryRun)
			if dryRun {
				fmt.Println(style.Warning(MsgDryRunNotice))
			}
			return installErr
		},
	}
	install.Flags().Bool("no-deps", false, MsgFlagNoDeps)
	cmd.AddCommand(install)

	return cmd
}

// installMissing installs the delta in tap, formula, cask order. Every
// failure is reported and counted; a non-nil error means at least one
// package did not install.
func installMissing(ctx context.Context, store types.PackageStore, delta diff.PackageDelta, dryRun bool) error {
	failed := 0
	for _, kind := range []types.PackageKind{types.PackageTap, types.PackageFormula, types.PackageCask} {
		for _, name := range delta.Missing(kind) {
			if dryRun {
				fmt.Printf("  %s Would install %s %s\n",
					style.Muted("-"), kind, style.Key(name))
				continue
			}
			if err := store.Install(ctx, kind, name); err != nil {
				fmt.Printf("  %s %s: %v\n", style.Error("✗"), style.Key(name), err)
				failed++
				continue
			}
			fmt.Printf("  %s Installed %s %s\n", style.Success("✓"), kind, style.Key(name))
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d packages failed to install", failed)
	}
	return nil
}
