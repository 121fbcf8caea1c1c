package link

import (
	"os"

	"github.com/arthur-debert/dotlink/pkg/errors"
	"github.com/arthur-debert/dotlink/pkg/paths"
	"github.com/arthur-debert/dotlink/pkg/types"
)

// Inspector answers questions about the live state of a path.
// Nothing is cached: every call goes back to the filesystem, since the
// same pass may have changed it a moment ago.
type Inspector struct {
	fs types.FS
}

// NewInspector creates an Inspector over fs
func NewInspector(fs types.FS) *Inspector {
	return &Inspector{fs: fs}
}

// Exists reports whether path resolves to a real object, following
// symlinks to the end. A dangling symlink does not exist.
func (i *Inspector) Exists(path string) bool {
	_, err := i.fs.Stat(paths.ToAbsolute(path))
	return err == nil
}

// IsSymlink reports whether path itself is a symlink, dangling or not
func (i *Inspector) IsSymlink(path string) bool {
	info, err := i.fs.Lstat(paths.ToAbsolute(path))
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeSymlink != 0
}

// IsDir reports whether path resolves to a directory
func (i *Inspector) IsDir(path string) bool {
	info, err := i.fs.Stat(paths.ToAbsolute(path))
	if err != nil {
		return false
	}
	return info.IsDir()
}

// LinkTarget returns the clean absolute path the symlink at path points
// to. A relative link value is resolved against the link's directory.
// Only meaningful when IsSymlink(path) holds.
func (i *Inspector) LinkTarget(path string) (string, error) {
	full := paths.ToAbsolute(path)
	value, err := i.fs.Readlink(full)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrSymlinkRead, "failed to read link %s", path)
	}
	return paths.ResolveLink(full, value), nil
}
