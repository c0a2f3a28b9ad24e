package external

import (
	"os"
	"regexp"
	"strings"

	"github.com/arthur-debert/prefsync/pkg/errors"
)

// varPattern matches $NAME and ${NAME} references inside a command
// template.
var varPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}|\$([A-Za-z_][A-Za-z0-9_]*)`)

// Substitute resolves every variable reference in template. Names
// resolve first against vars, then against the process environment. A
// reference absent from both makes the whole substitution fail; it is
// never left verbatim in the command line.
func Substitute(template string, vars map[string]string) (string, error) {
	var missing []string

	resolved := varPattern.ReplaceAllStringFunc(template, func(match string) string {
		name := match[1:]
		if strings.HasPrefix(name, "{") {
			name = name[1 : len(name)-1]
		}

		if value, ok := vars[name]; ok {
			return value
		}
		if value, ok := os.LookupEnv(name); ok {
			return value
		}
		missing = append(missing, name)
		return match
	})

	if len(missing) > 0 {
		return "", errors.Newf(errors.ErrVariableUnresolved,
			"unresolved variables: %s", strings.Join(missing, ", "))
	}
	return resolved, nil
}
