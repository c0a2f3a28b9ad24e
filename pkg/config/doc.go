// Package config loads the user's declared machine configuration into
// the TargetModel consumed by the reconciliation engine.
//
// The config file is TOML. Preference domains live under [set.*]
// tables; nested tables flatten into dotted domain names. Variables for
// command substitution live under [vars], auxiliary commands under
// [command.<name>], package sets under [brew], and a top-level lock
// flag gates all mutating operations.
package config
