package types

// PreferenceEntry is one declared (domain, key, value) triple. The
// domain and key are already in their effective form (the form the
// preference store understands), resolved by the config loader.
type PreferenceEntry struct {
	Domain string
	Key    string
	Value  Value
}

// PackageSpec declares the package sets the machine should have
// installed. TrackDependencies controls whether formulae pulled in as
// dependencies count as "installed" when computing the delta.
type PackageSpec struct {
	Formulae          []string
	Casks             []string
	Taps              []string
	TrackDependencies bool
}

// Empty reports whether no packages are declared at all
func (p PackageSpec) Empty() bool {
	return len(p.Formulae) == 0 && len(p.Casks) == 0 && len(p.Taps) == 0
}

// CommandSpec is one auxiliary shell command from the config.
type CommandSpec struct {
	// Name uniquely identifies the command within a config
	Name string
	// Template is the shell command line, possibly containing $NAME or
	// ${NAME} variable references
	Template string
	// Elevated routes the command through the privileged execution path
	Elevated bool
	// RunFirst marks the command for the ordered sequential group that
	// runs before the unordered concurrent batch
	RunFirst bool
	// Required lists binaries that must be present on $PATH; if any is
	// missing the command is skipped, not failed
	Required []string
}

// TargetModel is the in-memory representation of the parsed
// configuration. It is produced once per invocation by the loader and
// never mutated afterwards.
type TargetModel struct {
	// Prefs holds the declared preference entries in declaration order;
	// (domain, key) pairs are unique
	Prefs []PreferenceEntry
	// Packages holds the declared package sets
	Packages PackageSpec
	// Vars is the variable table for command template substitution
	Vars map[string]string
	// Commands holds the auxiliary commands in declaration order
	Commands []CommandSpec
	// Locked forbids any mutating operation until explicitly cleared
	Locked bool
}

// FindCommand returns the command with the given name, if declared
func (m *TargetModel) FindCommand(name string) (CommandSpec, bool) {
	for _, c := range m.Commands {
		if c.Name == name {
			return c, true
		}
	}
	return CommandSpec{}, false
}

// Domains returns the distinct preference domains in declaration order
func (m *TargetModel) Domains() []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range m.Prefs {
		if !seen[p.Domain] {
			seen[p.Domain] = true
			out = append(out, p.Domain)
		}
	}
	return out
}
