package config

import (
	"os"

	gotoml "github.com/pelletier/go-toml/v2"

	"github.com/arthur-debert/prefsync/pkg/errors"
	"github.com/arthur-debert/prefsync/pkg/logging"
)

// SetLocked rewrites the config file with the lock flag set or cleared.
// The file is decoded and re-encoded as a whole; formatting is
// normalized but no data is lost.
func SetLocked(path string, locked bool) error {
	doc, err := readDocument(path)
	if err != nil {
		return err
	}

	if locked {
		doc["lock"] = true
	} else {
		delete(doc, "lock")
	}

	if err := writeDocument(path, doc); err != nil {
		return err
	}

	logger := logging.GetLogger("config")
	logger.Info().
		Str("path", path).
		Bool("locked", locked).
		Msg("Config lock updated")
	return nil
}

// WritePackages replaces the [brew] table in the config file with the
// given package lists. Used by `packages backup`.
func WritePackages(path string, formulae, casks, taps []string, trackDependencies bool) error {
	doc, err := readDocument(path)
	if err != nil {
		if errors.IsErrorCode(err, errors.ErrConfigMissing) {
			doc = map[string]interface{}{}
		} else {
			return err
		}
	}

	brew := map[string]interface{}{
		"formulae": formulae,
		"casks":    casks,
		"taps":     taps,
	}
	if !trackDependencies {
		brew["no_deps"] = true
	}
	doc["brew"] = brew

	return writeDocument(path, doc)
}

func readDocument(path string) (map[string]interface{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(err, errors.ErrConfigMissing,
				"no config file found at %s", path)
		}
		return nil, errors.Wrapf(err, errors.ErrConfigLoad,
			"failed to read %s", path)
	}

	var doc map[string]interface{}
	if err := gotoml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigParse,
			"failed to parse %s", path)
	}
	return doc, nil
}

func writeDocument(path string, doc map[string]interface{}) error {
	data, err := gotoml.Marshal(doc)
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "failed to encode config")
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrConfigLoad,
			"failed to write %s", path)
	}
	return nil
}
