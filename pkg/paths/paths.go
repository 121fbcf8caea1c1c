package paths

import (
	"os"
	"path/filepath"
	"regexp"
)

// EnvHome is the standard home directory variable
const EnvHome = "HOME"

// varRef matches $name and ${name} references.
var varRef = regexp.MustCompile(`\$(\w+|\{[^}]*\})`)

// Expand substitutes environment variable references in raw.
// References to variables that are not set are left exactly as written,
// braces included. Nothing else about raw is changed.
func Expand(raw string) string {
	if raw == "" {
		return raw
	}
	return varRef.ReplaceAllStringFunc(raw, func(ref string) string {
		name := ref[1:]
		if len(name) >= 2 && name[0] == '{' && name[len(name)-1] == '}' {
			name = name[1 : len(name)-1]
		}
		if value, ok := os.LookupEnv(name); ok {
			return value
		}
		return ref
	})
}

// ExpandHome expands a leading ~ to the home directory.
// ~user forms are returned unchanged.
func ExpandHome(path string) string {
	if path == "" {
		return path
	}

	if path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			homeDir = os.Getenv(EnvHome)
			if homeDir == "" {
				return path
			}
		}

		if len(path) == 1 {
			return homeDir
		}

		// Handle both ~/ and ~
		if path[1] == '/' || path[1] == filepath.Separator {
			return filepath.Join(homeDir, path[2:])
		}

		// ~something (not the user's home)
		return path
	}

	return path
}

// ToAbsolute expands a leading ~ and returns a clean absolute path.
// Relative paths are taken against the working directory.
func ToAbsolute(raw string) string {
	expanded := ExpandHome(raw)
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return filepath.Clean(expanded)
	}
	return abs
}

// Qualify anchors source at baseDir. A leading ~ is expanded first; an
// absolute source is only cleaned.
func Qualify(baseDir, source string) string {
	expanded := ExpandHome(source)
	if filepath.IsAbs(expanded) {
		return filepath.Clean(expanded)
	}
	return filepath.Join(baseDir, expanded)
}

// ResolveLink turns the raw value of the symlink at linkPath into a clean
// absolute path. Relative values are resolved against the link's own
// directory, not the working directory.
func ResolveLink(linkPath, value string) string {
	if filepath.IsAbs(value) {
		return filepath.Clean(value)
	}
	return filepath.Join(filepath.Dir(linkPath), value)
}
