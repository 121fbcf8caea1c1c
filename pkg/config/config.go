package config

import (
	"github.com/arthur-debert/dotlink/pkg/link"
	"github.com/arthur-debert/dotlink/pkg/types"
	"github.com/rs/zerolog"
)

// Settings is the effective configuration after all layers are merged
type Settings struct {
	BaseDirectory string        `koanf:"base_directory" toml:"base_directory"`
	Verbosity     int           `koanf:"verbosity" toml:"verbosity"`
	Link          link.Defaults `koanf:"link" toml:"link"`
}

// Context builds the link handler context from s. A nil logger or fs
// leaves the handler's own fallbacks in place.
func (s *Settings) Context(logger *zerolog.Logger, fs types.FS) link.Context {
	return link.Context{
		BaseDirectory: s.BaseDirectory,
		Defaults:      s.Link,
		Logger:        logger,
		FS:            fs,
	}
}
