package testutil

import (
	"io/fs"
	"path/filepath"
	"sync"

	"github.com/arthur-debert/dotlink/pkg/types"
)

// Op names a types.FS method
type Op string

const (
	OpStat      Op = "stat"
	OpLstat     Op = "lstat"
	OpReadlink  Op = "readlink"
	OpMkdirAll  Op = "mkdirall"
	OpSymlink   Op = "symlink"
	OpRemove    Op = "remove"
	OpRemoveAll Op = "removeall"
)

type fault struct {
	op   Op
	path string
}

// FS wraps another types.FS, injecting errors and recording mutations
type FS struct {
	mu        sync.Mutex
	base      types.FS
	faults    map[fault]error
	mutations []string
}

// NewFS wraps base
func NewFS(base types.FS) *FS {
	return &FS{
		base:   base,
		faults: make(map[fault]error),
	}
}

// WithError makes op fail with err for path. For OpSymlink the path is
// the link being created.
func (f *FS) WithError(op Op, path string, err error) *FS {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.faults[fault{op: op, path: filepath.Clean(path)}] = err
	return f
}

// Mutations returns the mutating calls made so far, as "op path"
func (f *FS) Mutations() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]string, len(f.mutations))
	copy(out, f.mutations)
	return out
}

// ResetMutations clears the mutation record
func (f *FS) ResetMutations() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mutations = nil
}

func (f *FS) check(op Op, path string, mutating bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err, ok := f.faults[fault{op: op, path: filepath.Clean(path)}]; ok {
		return &fs.PathError{Op: string(op), Path: path, Err: err}
	}
	if mutating {
		f.mutations = append(f.mutations, string(op)+" "+path)
	}
	return nil
}

func (f *FS) Stat(name string) (fs.FileInfo, error) {
	if err := f.check(OpStat, name, false); err != nil {
		return nil, err
	}
	return f.base.Stat(name)
}

func (f *FS) Lstat(name string) (fs.FileInfo, error) {
	if err := f.check(OpLstat, name, false); err != nil {
		return nil, err
	}
	return f.base.Lstat(name)
}

func (f *FS) Readlink(name string) (string, error) {
	if err := f.check(OpReadlink, name, false); err != nil {
		return "", err
	}
	return f.base.Readlink(name)
}

func (f *FS) MkdirAll(path string, perm fs.FileMode) error {
	if err := f.check(OpMkdirAll, path, true); err != nil {
		return err
	}
	return f.base.MkdirAll(path, perm)
}

func (f *FS) Symlink(oldname, newname string) error {
	if err := f.check(OpSymlink, newname, true); err != nil {
		return err
	}
	return f.base.Symlink(oldname, newname)
}

func (f *FS) Remove(name string) error {
	if err := f.check(OpRemove, name, true); err != nil {
		return err
	}
	return f.base.Remove(name)
}

func (f *FS) RemoveAll(path string) error {
	if err := f.check(OpRemoveAll, path, true); err != nil {
		return err
	}
	return f.base.RemoveAll(path)
}

var _ types.FS = (*FS)(nil)
