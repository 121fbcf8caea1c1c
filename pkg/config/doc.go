// Package config loads the settings dotlink runs with: the base
// directory sources are anchored at, log verbosity, and the defaults
// merged into every link entry.
//
// Settings are layered with koanf, later layers winning:
//
//  1. the embedded defaults.toml
//  2. a settings file, TOML or YAML by extension
//  3. DOTLINK_* environment variables, "__" separating nested keys
//  4. explicit overrides from the caller
//
// The link directive itself is not read here; the host tool hands it to
// the link handler.
package config
