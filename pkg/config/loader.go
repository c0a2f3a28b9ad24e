package config

import (
	"os"
	"sort"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/arthur-debert/prefsync/pkg/errors"
	"github.com/arthur-debert/prefsync/pkg/logging"
	"github.com/arthur-debert/prefsync/pkg/types"
)

// Load reads and parses the config file at path into a TargetModel.
func Load(path string) (*types.TargetModel, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigMissing,
			"no config file found at %s", path)
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigParse,
			"failed to parse %s", path)
	}
	return buildModel(k)
}

// Parse builds a TargetModel from raw TOML bytes. Used by tests and by
// callers that already hold the file contents.
func Parse(data []byte) (*types.TargetModel, error) {
	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider(data), toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to parse config")
	}
	return buildModel(k)
}

func buildModel(k *koanf.Koanf) (*types.TargetModel, error) {
	logger := logging.GetLogger("config")

	model := &types.TargetModel{
		Locked: k.Bool("lock"),
		Vars:   map[string]string{},
	}

	// [set.*] tables flatten into preference entries
	rawSet, ok := k.Get("set").(map[string]interface{})
	if ok {
		entries, err := collectPrefs(rawSet)
		if err != nil {
			return nil, err
		}
		model.Prefs = entries
	}

	// [vars]
	for name, raw := range k.StringMap("vars") {
		model.Vars[name] = raw
	}

	// [command.<name>]
	rawCommands, ok := k.Get("command").(map[string]interface{})
	if ok {
		commands, err := collectCommands(rawCommands)
		if err != nil {
			return nil, err
		}
		model.Commands = commands
	}

	// [brew]
	model.Packages = types.PackageSpec{
		Formulae:          k.Strings("brew.formulae"),
		Casks:             k.Strings("brew.casks"),
		Taps:              k.Strings("brew.taps"),
		TrackDependencies: !k.Bool("brew.no_deps"),
	}

	logger.Debug().
		Int("prefs", len(model.Prefs)).
		Int("commands", len(model.Commands)).
		Bool("locked", model.Locked).
		Msg("Config loaded")

	return model, nil
}

// collectPrefs flattens the [set] tree into effective preference
// entries, sorted by (domain, key) so repeated loads produce an
// identical declaration order regardless of map iteration.
func collectPrefs(rawSet map[string]interface{}) ([]types.PreferenceEntry, error) {
	flat := map[string]map[string]interface{}{}
	for domain, inner := range rawSet {
		table, ok := inner.(map[string]interface{})
		if !ok {
			return nil, errors.Newf(errors.ErrConfigInvalid,
				"[set.%s] must be a table", domain)
		}
		flattenDomain(domain, table, flat)
	}

	var entries []types.PreferenceEntry
	for domain, settings := range flat {
		for key, raw := range settings {
			value, err := types.FromInterface(raw)
			if err != nil {
				return nil, errors.Wrapf(err, errors.ErrConfigInvalid,
					"invalid value for %s.%s", domain, key)
			}
			effDomain, effKey := EffectiveDomainKey(domain, key)
			entries = append(entries, types.PreferenceEntry{
				Domain: effDomain,
				Key:    effKey,
				Value:  value,
			})
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Domain != entries[j].Domain {
			return entries[i].Domain < entries[j].Domain
		}
		return entries[i].Key < entries[j].Key
	})
	return entries, nil
}

// flattenDomain recursively separates leaf settings from nested tables,
// building dotted domain names for the nested ones.
func flattenDomain(prefix string, table map[string]interface{}, dest map[string]map[string]interface{}) {
	for key, value := range table {
		if nested, ok := value.(map[string]interface{}); ok {
			flattenDomain(prefix+"."+key, nested, dest)
			continue
		}
		if dest[prefix] == nil {
			dest[prefix] = map[string]interface{}{}
		}
		dest[prefix][key] = value
	}
}

// collectCommands maps [command.<name>] tables into CommandSpecs,
// sorted by name for a stable dispatch order.
func collectCommands(raw map[string]interface{}) ([]types.CommandSpec, error) {
	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	commands := make([]types.CommandSpec, 0, len(names))
	for _, name := range names {
		table, ok := raw[name].(map[string]interface{})
		if !ok {
			return nil, errors.Newf(errors.ErrConfigInvalid,
				"[command.%s] must be a table", name)
		}
		run, _ := table["run"].(string)
		if run == "" {
			return nil, errors.Newf(errors.ErrConfigInvalid,
				"[command.%s] is missing the run field", name)
		}
		spec := types.CommandSpec{
			Name:     name,
			Template: run,
		}
		if sudo, ok := table["sudo"].(bool); ok {
			spec.Elevated = sudo
		}
		if first, ok := table["ensure_first"].(bool); ok {
			spec.RunFirst = first
		}
		if required, ok := table["required"].([]interface{}); ok {
			for _, bin := range required {
				if s, ok := bin.(string); ok {
					spec.Required = append(spec.Required, s)
				}
			}
		}
		commands = append(commands, spec)
	}
	return commands, nil
}
