package link

import (
	"fmt"

	"github.com/arthur-debert/dotlink/pkg/paths"
	"gopkg.in/yaml.v3"
)

// Defaults is the fallback record every entry is merged over
type Defaults struct {
	Relative bool `koanf:"relative" toml:"relative" yaml:"relative"`
	Force    bool `koanf:"force" toml:"force" yaml:"force"`
	Relink   bool `koanf:"relink" toml:"relink" yaml:"relink"`
	Create   bool `koanf:"create" toml:"create" yaml:"create"`
}

// Source is the value side of an entry. A nil flag defers to Defaults.
type Source struct {
	Path     string
	Relative *bool
	Force    *bool
	Relink   *bool
	Create   *bool
}

// Entry maps one destination to its source
type Entry struct {
	Destination string
	Source      Source
}

// Links is an ordered set of entries. Order is the order of the input
// mapping and is the order entries are reconciled in.
type Links []Entry

// Request is the effective, merged form of one entry
type Request struct {
	Destination string
	Source      string
	Relative    bool
	Force       bool
	Relink      bool
	Create      bool
}

// Bool returns a pointer to v, for building Source literals
func Bool(v bool) *bool {
	return &v
}

// NewRequest merges entry over defaults field by field and expands
// environment variables in both paths.
func NewRequest(entry Entry, defaults Defaults) Request {
	req := Request{
		Destination: paths.Expand(entry.Destination),
		Source:      paths.Expand(entry.Source.Path),
		Relative:    defaults.Relative,
		Force:       defaults.Force,
		Relink:      defaults.Relink,
		Create:      defaults.Create,
	}

	if entry.Source.Relative != nil {
		req.Relative = *entry.Source.Relative
	}
	if entry.Source.Force != nil {
		req.Force = *entry.Source.Force
	}
	if entry.Source.Relink != nil {
		req.Relink = *entry.Source.Relink
	}
	if entry.Source.Create != nil {
		req.Create = *entry.Source.Create
	}

	return req
}

// UnmarshalYAML decodes a mapping of destination to source, keeping the
// mapping's key order.
func (l *Links) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.DocumentNode && len(value.Content) == 1 {
		value = value.Content[0]
	}
	if value.Kind == yaml.AliasNode && value.Alias != nil {
		value = value.Alias
	}
	if value.ShortTag() == "!!null" {
		*l = nil
		return nil
	}
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: link entries must be a mapping of destination to source", value.Line)
	}

	entries := make(Links, 0, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		keyNode, valueNode := value.Content[i], value.Content[i+1]

		var destination string
		if err := keyNode.Decode(&destination); err != nil {
			return fmt.Errorf("line %d: invalid destination: %w", keyNode.Line, err)
		}

		// Decode skips UnmarshalYAML for null values
		if valueNode.ShortTag() == "!!null" {
			return fmt.Errorf("line %d: missing source path for %s", valueNode.Line, destination)
		}

		var source Source
		if err := valueNode.Decode(&source); err != nil {
			return fmt.Errorf("line %d: invalid source for %s: %w", valueNode.Line, destination, err)
		}

		entries = append(entries, Entry{Destination: destination, Source: source})
	}

	*l = entries
	return nil
}

// sourceRecord is the extended form of a source
type sourceRecord struct {
	Path     *string `yaml:"path"`
	Relative *bool   `yaml:"relative"`
	Force    *bool   `yaml:"force"`
	Relink   *bool   `yaml:"relink"`
	Create   *bool   `yaml:"create"`
}

// UnmarshalYAML accepts either a path string or a record with a path and
// optional flags.
func (s *Source) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		*s = Source{Path: value.Value}
		return nil

	case yaml.MappingNode:
		var record sourceRecord
		if err := value.Decode(&record); err != nil {
			return err
		}
		if record.Path == nil {
			return fmt.Errorf("line %d: source record has no path", value.Line)
		}
		*s = Source{
			Path:     *record.Path,
			Relative: record.Relative,
			Force:    record.Force,
			Relink:   record.Relink,
			Create:   record.Create,
		}
		return nil

	default:
		return fmt.Errorf("line %d: source must be a path or a record", value.Line)
	}
}
