package types

import "gopkg.in/yaml.v3"

// DirectiveHandler is what a host configuration tool dispatches a
// directive to. The host owns parsing and hands over the directive's
// undecoded body.
type DirectiveHandler interface {
	// CanHandle reports whether this handler answers to directive
	CanHandle(directive string) bool

	// Handle processes the directive body. The bool is the overall
	// verdict; an error means the call itself was invalid and nothing
	// was attempted.
	Handle(directive string, data *yaml.Node) (bool, error)
}
