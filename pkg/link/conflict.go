package link

import (
	"github.com/arthur-debert/dotlink/pkg/errors"
	"github.com/arthur-debert/dotlink/pkg/paths"
)

// Resolve clears whatever sits at destination when it blocks a link to
// source. A symlink pointing elsewhere is always unlinked. A real file or
// directory is removed only with force; without it the conflict stays and
// Ensure reports it. Resolve returns false only when a removal failed.
func (h *Handler) Resolve(source, destination string, force bool) bool {
	source = paths.Qualify(h.baseDir, source)
	logger := h.logger.With().Str("destination", destination).Logger()

	wrongLink := h.inspect.IsSymlink(destination) && h.linkTarget(destination) != source
	realObject := h.inspect.Exists(destination) && !h.inspect.IsSymlink(destination)
	if !wrongLink && !realObject {
		return true
	}

	full := paths.ToAbsolute(destination)
	removed := false
	var err error
	switch {
	case h.inspect.IsSymlink(full):
		err = h.fs.Remove(full)
		removed = true
	case force:
		if h.inspect.IsDir(full) {
			err = h.fs.RemoveAll(full)
		} else {
			err = h.fs.Remove(full)
		}
		removed = true
	}

	if err != nil {
		logger.Warn().
			Err(errors.Wrapf(err, errors.ErrFileRemove, "failed to remove %s", full)).
			Msg("Failed to remove")
		return false
	}

	if removed {
		logger.Info().Msg("Removing")
	}
	return true
}
