package main

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort     = "Declarative settings and package manager for macOS"
	MsgApplyShort    = "Apply the declared configuration to the system"
	MsgStatusShort   = "Show drift between the config and the live system"
	MsgUnapplyShort  = "Revert the last apply from its snapshot"
	MsgResetShort    = "Remove every declared preference from the system"
	MsgExecShort     = "Run the external commands declared in the config"
	MsgConfigShort   = "Inspect and manage the config file"
	MsgPackagesShort = "Manage Homebrew declarations in the config"
	MsgInitShort     = "Create a starter config file"

	// Status messages
	MsgDryRunNotice       = "DRY RUN MODE - No changes were made"
	MsgNothingToApply     = "Everything is already in sync."
	MsgAllInSync          = "All declared settings are in sync."
	MsgConfigUpToDate     = "Config is already up to date."
	MsgAborted            = "Aborted."
	MsgSnapshotDeleted    = "Snapshot deleted; future unapply has nothing to revert to."
	MsgConfigDeleted      = "Config file deleted."
	MsgConfigLockedNote   = "Config locked. Mutating commands will refuse to run."
	MsgConfigUnlockedNote = "Config unlocked."

	// Flag descriptions
	MsgFlagVerbose         = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagDryRun          = "Preview changes without executing them"
	MsgFlagAcceptAll       = "Skip confirmation prompts"
	MsgFlagNoRestart       = "Do not restart system services after changes"
	MsgFlagNoExec          = "Skip external commands declared in the config"
	MsgFlagWithPackages    = "Also install missing Homebrew packages"
	MsgFlagDisableChecks   = "Skip the domain existence pre-check"
	MsgFlagForceReset      = "Confirm removal of every declared preference"
	MsgFlagNoDeps          = "Only back up explicitly installed packages"
	MsgFlagFailFast        = "Stop remaining commands after a setup command fails"

	// Error messages
	MsgErrLoadConfig = "failed to load config: %w"
	MsgErrApply      = "apply failed: %w"
	MsgErrUnapply    = "unapply failed: %w"
	MsgErrReset      = "reset failed: %w"
)

// Long descriptions
const (
	MsgRootLong = `prefsync keeps a machine's preferences, packages and setup commands
declared in one TOML file. It computes the difference between what the
file declares and what the system currently has, applies only that
difference, and records prior values so every apply can be reverted.`

	MsgApplyLong = `Apply reads the config, computes which declared preferences differ
from the live system, and writes only those. Prior values are saved to
a snapshot first, so the run can be reverted with unapply.

External commands declared in the config run after preferences are
written, unless --no-exec is given.`

	MsgStatusLong = `Status compares every declared preference against the live system and
reports which keys are in sync, which have drifted, and which live keys
in declared domains are not managed by the config. Nothing is modified.`

	MsgUnapplyLong = `Unapply replays the snapshot recorded by the last apply in reverse
order: keys that had a prior value get it back, keys that did not exist
before are removed. The snapshot is deleted only when every entry
reverts cleanly, so a partial failure can be retried.`

	MsgResetLong = `Reset removes every preference the config declares from the live
system, returning those keys to their factory state. Prior values are
snapshotted first, so reset can itself be reverted with unapply.

This is destructive and requires --force.`

	MsgExecLong = `Exec runs the external commands declared in the config without
touching any preferences. With a name argument only that command runs;
otherwise all of them run, setup commands first.`
)

// MsgUsageTemplate is cobra's default usage template with the section
// headers routed through the bold template helpers.
const MsgUsageTemplate = `{{boldUpper "usage"}}:{{if .Runnable}}
  {{.UseLine}}{{end}}{{if .HasAvailableSubCommands}}
  {{.CommandPath}} [command]{{end}}{{if gt (len .Aliases) 0}}

{{boldUpper "aliases"}}:
  {{.NameAndAliases}}{{end}}{{if .HasExample}}

{{boldUpper "examples"}}:
{{.Example}}{{end}}{{if .HasAvailableSubCommands}}{{$cmds := .Commands}}{{if eq (len .Groups) 0}}

{{boldUpper "available commands"}}:{{range $cmds}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}{{else}}{{range $group := .Groups}}

{{bold .Title}}{{range $cmds}}{{if (and (eq .GroupID $group.ID) (or .IsAvailableCommand (eq .Name "help")))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}{{end}}{{if not .AllChildCommandsHaveGroup}}

{{boldUpper "additional commands"}}:{{range $cmds}}{{if (and (eq .GroupID "") (or .IsAvailableCommand (eq .Name "help")))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}{{end}}{{end}}{{end}}{{if .HasAvailableLocalFlags}}

{{boldUpper "flags"}}:
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasAvailableInheritedFlags}}

{{boldUpper "global flags"}}:
{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasAvailableSubCommands}}

Use "{{.CommandPath}} [command] --help" for more information about a command.{{end}}
`
