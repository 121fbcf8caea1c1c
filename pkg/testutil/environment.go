package testutil

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/arthur-debert/dotlink/pkg/filesystem"
	"github.com/rs/zerolog"
)

// Env is an isolated HOME and base directory with a captured logger
type Env struct {
	// HomeDir is exported as $HOME for the duration of the test
	HomeDir string
	// BaseDir stands in for the configuration's anchor directory
	BaseDir string

	FS     *FS
	Logger zerolog.Logger

	logs *bytes.Buffer
	t    *testing.T
}

// LogLine is one decoded zerolog record
type LogLine struct {
	Level       string `json:"level"`
	Message     string `json:"message"`
	Destination string `json:"destination"`
	Source      string `json:"source"`
	Target      string `json:"target"`
	Error       string `json:"error"`
}

// NewEnv creates the environment under t.TempDir and points HOME at it
func NewEnv(t *testing.T) *Env {
	t.Helper()

	root := t.TempDir()
	env := &Env{
		HomeDir: filepath.Join(root, "home"),
		BaseDir: filepath.Join(root, "dotfiles"),
		FS:      NewFS(filesystem.NewOS()),
		logs:    &bytes.Buffer{},
		t:       t,
	}
	env.Logger = zerolog.New(env.logs).Level(zerolog.DebugLevel)

	for _, dir := range []string{env.HomeDir, env.BaseDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("failed to create %s: %v", dir, err)
		}
	}

	t.Setenv("HOME", env.HomeDir)
	return env
}

// HomePath returns the absolute path of rel inside HOME
func (e *Env) HomePath(rel string) string {
	return filepath.Join(e.HomeDir, rel)
}

// SourcePath returns the absolute path of rel inside the base directory
func (e *Env) SourcePath(rel string) string {
	return filepath.Join(e.BaseDir, rel)
}

// WriteSource creates a regular file in the base directory
func (e *Env) WriteSource(rel, content string) string {
	e.t.Helper()
	return e.writeFile(e.SourcePath(rel), content)
}

// MkdirSource creates a directory in the base directory
func (e *Env) MkdirSource(rel string) string {
	e.t.Helper()
	path := e.SourcePath(rel)
	if err := os.MkdirAll(path, 0755); err != nil {
		e.t.Fatalf("failed to create %s: %v", path, err)
	}
	return path
}

// WriteHome creates a regular file in HOME
func (e *Env) WriteHome(rel, content string) string {
	e.t.Helper()
	return e.writeFile(e.HomePath(rel), content)
}

// SymlinkHome creates a symlink in HOME whose raw value is target
func (e *Env) SymlinkHome(rel, target string) string {
	e.t.Helper()
	path := e.HomePath(rel)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		e.t.Fatalf("failed to create parent of %s: %v", path, err)
	}
	if err := os.Symlink(target, path); err != nil {
		e.t.Fatalf("failed to symlink %s -> %s: %v", path, target, err)
	}
	return path
}

// Readlink returns the raw value of the symlink at path, failing the test
// when path is not a symlink
func (e *Env) Readlink(path string) string {
	e.t.Helper()
	value, err := os.Readlink(path)
	if err != nil {
		e.t.Fatalf("expected %s to be a symlink: %v", path, err)
	}
	return value
}

// Logs returns every record written to Logger so far
func (e *Env) Logs() []LogLine {
	e.t.Helper()

	var lines []LogLine
	scanner := bufio.NewScanner(bytes.NewReader(e.logs.Bytes()))
	for scanner.Scan() {
		var line LogLine
		if err := json.Unmarshal(scanner.Bytes(), &line); err != nil {
			e.t.Fatalf("malformed log record %q: %v", scanner.Text(), err)
		}
		lines = append(lines, line)
	}
	return lines
}

// LogsAt returns the records at level (e.g. "warn", "debug")
func (e *Env) LogsAt(level string) []LogLine {
	e.t.Helper()

	var out []LogLine
	for _, line := range e.Logs() {
		if line.Level == level {
			out = append(out, line)
		}
	}
	return out
}

// HasLog reports whether a record at level has a message containing msg
func (e *Env) HasLog(level, msg string) bool {
	e.t.Helper()

	for _, line := range e.LogsAt(level) {
		if strings.Contains(line.Message, msg) {
			return true
		}
	}
	return false
}

// ResetLogs discards captured records
func (e *Env) ResetLogs() {
	e.logs.Reset()
}

func (e *Env) writeFile(path, content string) string {
	e.t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		e.t.Fatalf("failed to create parent of %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		e.t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}
