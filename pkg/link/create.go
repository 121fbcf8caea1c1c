package link

import (
	"path/filepath"

	"github.com/arthur-debert/dotlink/pkg/errors"
	"github.com/arthur-debert/dotlink/pkg/paths"
	"github.com/rs/zerolog"
)

// CreateParent makes sure the directory that will hold destination exists.
// An existing parent counts as success.
func (h *Handler) CreateParent(destination string) bool {
	parent := filepath.Dir(paths.ToAbsolute(destination))
	if h.inspect.Exists(parent) {
		return true
	}

	logger := h.logger.With().Str("destination", destination).Str("path", parent).Logger()
	if err := h.fs.MkdirAll(parent, 0755); err != nil {
		logger.Warn().
			Err(errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", parent)).
			Msg("Failed to create directory")
		return false
	}

	logger.Info().Msg("Creating directory")
	return true
}

// Ensure leaves destination as a symlink to source, creating it when the
// slot is free. It never removes anything; every other state is refused
// with a warning. Cases are checked in this order:
//
//   - destination is a dangling symlink to something other than source: invalid link
//   - destination is free and source exists: create the link
//   - destination is a real file or directory: refuse
//   - destination links somewhere else: incorrect link
//   - source does not exist: nonexistent target
//   - otherwise the correct link is already there
func (h *Handler) Ensure(source, destination string, relative bool) bool {
	source = paths.Qualify(h.baseDir, source)
	logger := h.logger.With().Str("destination", destination).Logger()

	switch {
	case !h.inspect.Exists(destination) && h.inspect.IsSymlink(destination) &&
		h.linkTarget(destination) != source:
		logger.Warn().Str("target", h.linkTarget(destination)).Msg("Invalid link")
		return false

	case !h.inspect.Exists(destination) && h.inspect.Exists(source):
		return h.create(logger, source, destination, relative)

	case h.inspect.Exists(destination) && !h.inspect.IsSymlink(destination):
		logger.Warn().Msg("Already exists but is a regular file or directory")
		return false

	case h.inspect.IsSymlink(destination) && h.linkTarget(destination) != source:
		logger.Warn().Str("target", h.linkTarget(destination)).Msg("Incorrect link")
		return false

	case !h.inspect.Exists(source):
		if h.inspect.IsSymlink(destination) {
			logger.Warn().Str("source", source).Msg("Nonexistent target")
		} else {
			logger.Warn().Str("source", source).Msg("Nonexistent target for destination")
		}
		return false

	default:
		logger.Info().Str("source", source).Msg("Link exists")
		return true
	}
}

// create makes the symlink, rewriting source relative to the link's
// directory when asked.
func (h *Handler) create(logger zerolog.Logger, source, destination string, relative bool) bool {
	full := paths.ToAbsolute(destination)

	value := source
	if relative {
		rel, err := filepath.Rel(filepath.Dir(full), source)
		if err != nil {
			logger.Warn().
				Err(errors.Wrapf(err, errors.ErrPathResolve, "cannot express %s relative to %s", source, filepath.Dir(full))).
				Str("source", source).
				Msg("Linking failed")
			return false
		}
		value = rel
	}

	if err := h.fs.Symlink(value, full); err != nil {
		logger.Warn().
			Err(errors.Wrapf(err, errors.ErrSymlinkCreate, "failed to link %s", full)).
			Str("source", value).
			Msg("Linking failed")
		return false
	}

	logger.Info().Str("source", value).Msg("Creating link")
	return true
}
