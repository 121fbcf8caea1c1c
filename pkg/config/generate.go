package config

import (
	"strings"

	"github.com/arthur-debert/dotlink/pkg/errors"
	gotoml "github.com/pelletier/go-toml/v2"
)

// Render returns the effective settings as TOML
func Render(s *Settings) ([]byte, error) {
	out, err := gotoml.Marshal(s)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to render settings")
	}
	return out, nil
}

// GenerateConfigContent returns a starter settings file: the defaults
// with every value commented out
func GenerateConfigContent() string {
	return commentOutConfigValues(string(defaultConfig))
}

// commentOutConfigValues comments out every line that assigns a value,
// keeping comments, blank lines and section headers
func commentOutConfigValues(content string) string {
	lines := strings.Split(content, "\n")
	result := make([]string, 0, len(lines))

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		switch {
		case trimmed == "", strings.HasPrefix(trimmed, "#"):
			result = append(result, line)
		case strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]"):
			result = append(result, line)
		default:
			result = append(result, "# "+line)
		}
	}

	return strings.Join(result, "\n")
}
