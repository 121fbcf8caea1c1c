package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/dotlink/pkg/errors"
	"github.com/arthur-debert/dotlink/pkg/paths"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	// DefaultEnvPrefix prefixes every environment override
	DefaultEnvPrefix = "DOTLINK_"
	// EnvDotfilesRoot is where settings are looked for, and the fallback
	// base directory
	EnvDotfilesRoot = "DOTFILES_ROOT"

	envNestingSeparator = "__"
)

// settingsFileNames are tried in order when no file is given
var settingsFileNames = []string{".dotlink.toml", "dotlink.toml", ".dotlink.yaml", "dotlink.yaml"}

// Options controls where Load reads from
type Options struct {
	// File is an explicit settings file. It must exist. Empty searches the
	// dotfiles root for one of the default names.
	File string
	// EnvPrefix defaults to DOTLINK_
	EnvPrefix string
	// Overrides are applied last, keyed by dotted path ("link.force")
	Overrides map[string]interface{}
}

// Load merges every settings layer and returns the result
func Load(opts Options) (*Settings, error) {
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load defaults")
	}

	// 2. Settings file
	path, err := settingsFile(opts.File)
	if err != nil {
		return nil, err
	}
	if path != "" {
		parser, err := parserFor(path)
		if err != nil {
			return nil, err
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to load settings from %s", path).
				WithDetail("path", path)
		}
	}

	// 3. Env vars
	prefix := opts.EnvPrefix
	if prefix == "" {
		prefix = DefaultEnvPrefix
	}
	if err := k.Load(env.Provider(prefix, ".", envKey(prefix)), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load env vars")
	}

	// 4. Overrides
	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load overrides")
		}
	}

	// 5. Unmarshal
	var cfg Settings
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			TagName:          "koanf",
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal settings")
	}

	// 6. Post-process
	postProcess(&cfg)

	return &cfg, nil
}

// envKey maps DOTLINK_LINK__FORCE to link.force
func envKey(prefix string) func(string) string {
	return func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, prefix))
		return strings.ReplaceAll(key, envNestingSeparator, ".")
	}
}

// settingsFile returns the file to load, or "" when there is none
func settingsFile(explicit string) (string, error) {
	if explicit != "" {
		path := paths.ToAbsolute(paths.Expand(explicit))
		if _, err := os.Stat(path); err != nil {
			return "", errors.Wrapf(err, errors.ErrConfigLoad, "settings file %s is not readable", path).
				WithDetail("path", path)
		}
		return path, nil
	}

	root := dotfilesRoot()
	for _, name := range settingsFileNames {
		path := filepath.Join(root, name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", nil
}

func parserFor(path string) (koanf.Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml", ".tml":
		return toml.Parser(), nil
	case ".yaml", ".yml":
		return yaml.Parser(), nil
	default:
		return nil, errors.Newf(errors.ErrConfigParse, "unsupported settings format %q", filepath.Ext(path)).
			WithDetail("path", path)
	}
}

func dotfilesRoot() string {
	if root := os.Getenv(EnvDotfilesRoot); root != "" {
		return paths.ToAbsolute(root)
	}
	return paths.ToAbsolute(".")
}

func postProcess(cfg *Settings) {
	if cfg.BaseDirectory == "" {
		cfg.BaseDirectory = dotfilesRoot()
	} else {
		cfg.BaseDirectory = paths.ToAbsolute(paths.Expand(cfg.BaseDirectory))
	}

	if cfg.Verbosity < 0 {
		cfg.Verbosity = 0
	}
}
