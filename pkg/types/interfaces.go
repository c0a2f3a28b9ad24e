package types

import "context"

// PreferenceStore reads and writes single preference keys. The engine
// only ever touches the live preference state through this interface.
type PreferenceStore interface {
	// Get returns the live value for (domain, key); the boolean is
	// false when the key is not set
	Get(domain, key string) (Value, bool, error)
	// Set writes value to (domain, key)
	Set(domain, key string, value Value) error
	// Unset removes (domain, key) from the store
	Unset(domain, key string) error
	// DomainExists reports whether the domain exists in the store
	DomainExists(domain string) bool
	// ListKeys returns all keys currently set in the domain
	ListKeys(domain string) ([]string, error)
}

// PackageKind distinguishes the package namespaces the package store
// manages.
type PackageKind string

const (
	PackageFormula PackageKind = "formula"
	PackageCask    PackageKind = "cask"
	PackageTap     PackageKind = "tap"
)

// PackageStore lists and installs packages by name.
type PackageStore interface {
	// ListInstalled returns the installed package names of a kind.
	// When explicitOnly is true, packages installed only as
	// dependencies are excluded (meaningful for formulae).
	ListInstalled(ctx context.Context, kind PackageKind, explicitOnly bool) ([]string, error)
	// Install installs one package by name
	Install(ctx context.Context, kind PackageKind, name string) error
}

// ExecResult reports the outcome of one executed process.
type ExecResult struct {
	ExitCode int
	Output   string
}

// ProcessExecutor runs a shell command string, optionally elevated.
// A non-zero exit status is reported through ExecResult, not through
// the error, which is reserved for spawn failures.
type ProcessExecutor interface {
	Run(ctx context.Context, command string, elevated bool) (ExecResult, error)
}

// ServiceNotifier restarts the system service backing a preference
// domain so changes take effect.
type ServiceNotifier interface {
	Restart(ctx context.Context, domain string) error
}
