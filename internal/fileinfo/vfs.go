package fileinfo

import (
	"os"

	"github.com/spf13/afero"
)

// Capabilities describes what a backend can report beyond basic I/O.
type Capabilities struct {
	Symlinks bool // links can be read and created
}

// VFS is the filesystem every shell operation runs against.
// It is an afero.Fs plus the few helpers the operations need.
type VFS interface {
	afero.Fs
	// ReadDir returns the entries of a directory sorted by name.
	ReadDir(path string) ([]os.FileInfo, error)
	// Lstat stats without following a final symlink when the backend allows it.
	Lstat(path string) (os.FileInfo, error)
	afero.Linker
	afero.LinkReader
	Capabilities() Capabilities
}

type aferoVFS struct {
	afero.Fs
	caps Capabilities
}

// New wraps any afero filesystem.
func New(fs afero.Fs) VFS {
	_, links := fs.(afero.Linker)
	return aferoVFS{Fs: fs, caps: Capabilities{Symlinks: links}}
}

// NewLocal returns the host filesystem.
func NewLocal() VFS {
	fs := afero.NewOsFs()
	return aferoVFS{Fs: fs, caps: Capabilities{Symlinks: true}}
}

// NewMemory returns an empty in-memory filesystem.
func NewMemory() VFS {
	return New(afero.NewMemMapFs())
}

func (v aferoVFS) ReadDir(path string) ([]os.FileInfo, error) { return afero.ReadDir(v.Fs, path) }
func (v aferoVFS) Capabilities() Capabilities                  { return v.caps }

func (v aferoVFS) Lstat(path string) (os.FileInfo, error) {
	if l, ok := v.Fs.(afero.Lstater); ok {
		fi, _, err := l.LstatIfPossible(path)
		return fi, err
	}
	return v.Fs.Stat(path)
}

func (v aferoVFS) ReadlinkIfPossible(name string) (string, error) {
	if r, ok := v.Fs.(afero.LinkReader); ok {
		return r.ReadlinkIfPossible(name)
	}
	return "", &os.PathError{Op: "readlink", Path: name, Err: afero.ErrNoReadlink}
}

func (v aferoVFS) SymlinkIfPossible(oldname, newname string) error {
	if l, ok := v.Fs.(afero.Linker); ok {
		return l.SymlinkIfPossible(oldname, newname)
	}
	return &os.LinkError{Op: "symlink", Old: oldname, New: newname, Err: afero.ErrNoSymlink}
}

// IsDir reports whether path exists and is a directory.
func IsDir(vfs VFS, path string) bool {
	ok, err := afero.IsDir(vfs, path)
	return err == nil && ok
}

// Exists reports whether path exists without following a final symlink.
func Exists(vfs VFS, path string) (bool, error) {
	_, err := vfs.Lstat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}
