package main

import (
	"fmt"

	"github.com/arthur-debert/prefsync/pkg/diff"
	"github.com/arthur-debert/prefsync/pkg/reconcile"
	"github.com/arthur-debert/prefsync/pkg/style"
)

// displayApplyResult prints what an apply (or reset) run did
func displayApplyResult(result *reconcile.Result, dryRun bool) {
	verb := "Set"
	if dryRun {
		verb = "Would set"
	}
	for _, entry := range result.Set {
		fmt.Printf("  %s %s %s = %s\n",
			style.Success("✓"), verb,
			style.Key(entry.Domain+" "+entry.Key), entry.Value.String())
	}
	verb = "Removed"
	if dryRun {
		verb = "Would remove"
	}
	for _, ref := range result.Unset {
		fmt.Printf("  %s %s %s\n",
			style.Success("✓"), verb, style.Key(ref.Domain+" "+ref.Key))
	}
	verb = "Installed"
	if dryRun {
		verb = "Would install"
	}
	for _, name := range result.PackagesInstalled {
		fmt.Printf("  %s %s %s\n", style.Success("✓"), verb, style.Key(name))
	}

	for _, failure := range result.Failures {
		fmt.Printf("  %s %s %s: %v\n",
			style.Error("✗"), style.Key(failure.Domain+" "+failure.Key),
			style.Muted("failed"), failure.Err)
	}
	for _, failure := range result.PackageFailures {
		fmt.Printf("  %s %s %s: %v\n",
			style.Error("✗"), style.Key(failure.Name),
			style.Muted("failed"), failure.Err)
	}

	displayCommandResults(result)

	if dryRun {
		fmt.Println(style.Warning(MsgDryRunNotice))
	}
}

// displayCommandResults prints the outcome of the command phase
func displayCommandResults(result *reconcile.Result) {
	if result.Commands == nil {
		return
	}
	for _, cr := range result.Commands.Commands {
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
	succeeded, failed, skipped := result.Commands.Counts()
	fmt.Println(style.Muted(fmt.Sprintf(
		"Commands: %d succeeded, %d failed, %d skipped", succeeded, failed, skipped)))
}

// displayReplay prints what unapply restored and removed
func displayReplay(result *reconcile.Result) {
	replay := result.Replay
	if replay == nil {
		return
	}
	for _, entry := range replay.Restored {
		fmt.Printf("  %s Restored %s = %s\n",
			style.Success("✓"), style.Key(entry.Domain+" "+entry.Key),
			entry.PriorValue.String())
	}
	for _, entry := range replay.Removed {
		fmt.Printf("  %s Removed %s\n",
			style.Success("✓"), style.Key(entry.Domain+" "+entry.Key))
	}
	for _, ref := range replay.Skipped {
		fmt.Printf("  %s %s %s\n",
			style.Muted("-"), style.Key(ref.Domain+" "+ref.Key), style.Muted("already gone"))
	}
	for _, failure := range replay.Failed {
		fmt.Printf("  %s %s: %v\n",
			style.Error("✗"), style.Key(failure.Domain+" "+failure.Key), failure.Err)
	}
	if len(replay.Failed) > 0 {
		fmt.Println(style.Warning("Snapshot kept; rerun unapply to retry the failed entries."))
	} else {
		fmt.Println(style.Muted(MsgSnapshotDeleted))
	}
}

// displayReport prints the drift report for status
func displayReport(report *diff.Report) {
	if report.Clean() {
		fmt.Println(style.Success(MsgAllInSync))
		return
	}

	if len(report.Drift) > 0 {
		fmt.Println(style.Title("Drifted:"))
		for _, d := range report.Drift {
			live := "(unset)"
			if d.Live != nil {
				live = d.Live.String()
			}
			fmt.Printf("  %s %s: declared %s, live %s\n",
				style.Warning("~"), style.Key(d.Domain+" "+d.Key),
				d.Declared.String(), live)
		}
	}

	if report.InSync > 0 {
		fmt.Println(style.Muted(fmt.Sprintf("%d declared keys in sync", report.InSync)))
	}

	if len(report.Unmanaged) > 0 {
		fmt.Println(style.Title("Unmanaged keys in declared domains:"))
		for _, ref := range report.Unmanaged {
			fmt.Printf("  %s %s\n", style.Muted("?"), style.Muted(ref.Domain+" "+ref.Key))
		}
	}

	if !report.Packages.Empty() {
		fmt.Println(style.Title("Packages:"))
		for _, line := range packageReportLines(report.Packages) {
			fmt.Println("  " + line)
		}
	}
}

// packageReportLines renders every package discrepancy: declared but
// missing, and installed but not declared.
func packageReportLines(delta diff.PackageDelta) []string {
	var lines []string
	for _, name := range delta.MissingFormulae {
		lines = append(lines, fmt.Sprintf("%s formula %s not installed", style.Warning("~"), style.Key(name)))
	}
	for _, name := range delta.MissingCasks {
		lines = append(lines, fmt.Sprintf("%s cask %s not installed", style.Warning("~"), style.Key(name)))
	}
	for _, name := range delta.MissingTaps {
		lines = append(lines, fmt.Sprintf("%s tap %s missing", style.Warning("~"), style.Key(name)))
	}
	for _, name := range delta.ExtraFormulae {
		lines = append(lines, fmt.Sprintf("%s formula %s installed but not declared", style.Muted("+"), style.Key(name)))
	}
	for _, name := range delta.ExtraCasks {
		lines = append(lines, fmt.Sprintf("%s cask %s installed but not declared", style.Muted("+"), style.Key(name)))
	}
	for _, name := range delta.ExtraTaps {
		lines = append(lines, fmt.Sprintf("%s tap %s tapped but not declared", style.Muted("+"), style.Key(name)))
	}
	return lines
}
