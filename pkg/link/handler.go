package link

import (
	"github.com/arthur-debert/dotlink/pkg/errors"
	"github.com/arthur-debert/dotlink/pkg/filesystem"
	"github.com/arthur-debert/dotlink/pkg/logging"
	"github.com/arthur-debert/dotlink/pkg/paths"
	"github.com/arthur-debert/dotlink/pkg/types"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// DirectiveName is the directive this handler answers to
const DirectiveName = "link"

// Context is what the host hands to the handler
type Context struct {
	// BaseDirectory anchors every relative source. Empty means the
	// working directory.
	BaseDirectory string
	Defaults      Defaults
	// Logger receives all diagnostics. Nil uses the "link" component logger.
	Logger *zerolog.Logger
	// FS is the filesystem to act on. Nil uses the OS.
	FS types.FS
}

// Handler reconciles link directives against the filesystem
type Handler struct {
	baseDir  string
	defaults Defaults
	logger   zerolog.Logger
	fs       types.FS
	inspect  *Inspector
}

var _ types.DirectiveHandler = (*Handler)(nil)

// NewHandler creates a handler bound to ctx
func NewHandler(ctx Context) *Handler {
	logger := logging.GetLogger(DirectiveName)
	if ctx.Logger != nil {
		logger = *ctx.Logger
	}

	fs := ctx.FS
	if fs == nil {
		fs = filesystem.NewOS()
	}

	return &Handler{
		baseDir:  paths.ToAbsolute(ctx.BaseDirectory),
		defaults: ctx.Defaults,
		logger:   logger,
		fs:       fs,
		inspect:  NewInspector(fs),
	}
}

// BaseDirectory returns the absolute base directory sources are qualified against
func (h *Handler) BaseDirectory() string {
	return h.baseDir
}

// CanHandle reports whether directive is the link directive
func (h *Handler) CanHandle(directive string) bool {
	return directive == DirectiveName
}

// Handle decodes data into Links and applies them.
// A directive other than "link" is a caller error and nothing is touched.
// Data that does not decode is rejected before any entry is processed.
func (h *Handler) Handle(directive string, data *yaml.Node) (bool, error) {
	if !h.CanHandle(directive) {
		return false, errors.Newf(errors.ErrUnknownDirective,
			"link cannot handle directive %s", directive).
			WithDetail("directive", directive)
	}

	var links Links
	if data != nil {
		if err := data.Decode(&links); err != nil {
			return false, errors.Wrap(err, errors.ErrInvalidInput, "invalid link directive")
		}
	}

	return h.Apply(links), nil
}

// Apply reconciles every entry in order and reports whether all of them
// succeeded. Entry failures are logged, never returned, and earlier
// successes are not rolled back.
func (h *Handler) Apply(links Links) bool {
	defer logging.LogOperationStart(h.logger, DirectiveName)()

	success := true
	for _, entry := range links {
		req := NewRequest(entry, h.defaults)
		success = h.reconcile(req) && success
	}

	if success {
		h.logger.Info().Int("entries", len(links)).Msg("All links have been set up")
	} else {
		h.logger.Error().Int("entries", len(links)).Msg("Some links were not successfully set up")
	}
	return success
}

// reconcile runs every stage that applies to req, even after a stage fails
func (h *Handler) reconcile(req Request) bool {
	h.logger.Debug().
		Str("destination", req.Destination).
		Str("source", req.Source).
		Bool("relative", req.Relative).
		Bool("force", req.Force).
		Bool("relink", req.Relink).
		Bool("create", req.Create).
		Msg("Reconciling link")

	ok := true
	if req.Create {
		ok = h.CreateParent(req.Destination) && ok
	}
	if req.Force || req.Relink {
		ok = h.Resolve(req.Source, req.Destination, req.Force) && ok
	}
	ok = h.Ensure(req.Source, req.Destination, req.Relative) && ok
	return ok
}

// linkTarget is LinkTarget for decision making: an unreadable link yields
// an empty target, which never matches a qualified source.
func (h *Handler) linkTarget(path string) string {
	target, err := h.inspect.LinkTarget(path)
	if err != nil {
		h.logger.Debug().Err(err).Str("destination", path).Msg("Could not read link")
		return ""
	}
	return target
}
