package types

import "io/fs"

// FS abstracts the filesystem calls the link handler makes.
// Every query goes to the live filesystem; implementations must not cache.
type FS interface {
	// Queries
	Stat(name string) (fs.FileInfo, error)
	Lstat(name string) (fs.FileInfo, error)
	Readlink(name string) (string, error)

	// Directory operations
	MkdirAll(path string, perm fs.FileMode) error

	// Symlink operations
	Symlink(oldname, newname string) error

	// Removal
	Remove(name string) error
	RemoveAll(path string) error
}
