// Package ops implements the filesystem operations behind each shell
// command. Every operation runs synchronously against a fileinfo.VFS and
// reports failures as *errors.AppError values; nothing here prints.
package ops

import (
	"os"
	"strconv"

	"go.uber.org/zap"

	"fex/internal/constants"
	apperrors "fex/internal/errors"
	"fex/internal/fileinfo"
	"fex/internal/logging"
)

// Ops runs filesystem operations against one VFS.
type Ops struct {
	vfs  fileinfo.VFS
	opts Options
	log  *zap.Logger
}

// New constructs Ops. A nil logger discards diagnostics.
func New(vfs fileinfo.VFS, opts Options, logger *zap.Logger) *Ops {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Ops{vfs: vfs, opts: opts, log: logger.Named("ops")}
}

// VFS returns the filesystem the operations run against.
func (o *Ops) VFS() fileinfo.VFS {
	return o.vfs
}

func (o *Ops) dbg(op Op, fields ...zap.Field) {
	o.log.Debug(string(op), fields...)
}

// List returns the immediate children of path.
func (o *Ops) List(path string) ([]fileinfo.FileInfo, error) {
	o.dbg(OpList, zap.String("path", path))
	infos, err := o.vfs.ReadDir(path)
	if err != nil {
		return nil, fsError(OpList, path, err)
	}

	files := make([]fileinfo.FileInfo, 0, len(infos))
	for _, fi := range infos {
		p := fileinfo.JoinPath(path, fi.Name())
		f := fileinfo.FromOS(p, fi)
		if fi.Mode()&os.ModeSymlink != 0 {
			// a link to a directory lists as a directory
			if target, err := o.vfs.Stat(p); err == nil {
				f.IsDir = target.IsDir()
			}
		}
		if !o.opts.ShowHidden && f.IsHidden() {
			continue
		}
		files = append(files, f)
	}
	fileinfo.SortEntries(files, o.opts.Sort)
	return files, nil
}

// Create creates an empty file, truncating an existing one.
// The parent directory must already exist.
func (o *Ops) Create(path string) error {
	o.dbg(OpCreate, zap.String("path", path))
	if err := o.requireParent(OpCreate, path); err != nil {
		return err
	}
	if fileinfo.IsDir(o.vfs, path) {
		return apperrors.NewOperationError(string(OpCreate), path, "is a directory",
			&os.PathError{Op: "create", Path: path, Err: errIsDirectory})
	}
	f, err := o.vfs.Create(path)
	if err != nil {
		return apperrors.NewOperationError(string(OpCreate), path, "create failed", err)
	}
	if err := f.Close(); err != nil {
		return apperrors.NewOperationError(string(OpCreate), path, "close failed", err)
	}
	return nil
}

// Mkdir creates a single directory. The parent must already exist.
func (o *Ops) Mkdir(path string) error {
	o.dbg(OpMkdir, zap.String("path", path))
	if err := o.requireParent(OpMkdir, path); err != nil {
		return err
	}
	if err := o.vfs.Mkdir(path, 0o755); err != nil {
		return apperrors.NewOperationError(string(OpMkdir), path, "mkdir failed", err)
	}
	return nil
}

// Delete removes path, recursively for directories. An absent path
// yields a not-found error and touches nothing.
func (o *Ops) Delete(path string) error {
	o.dbg(OpDelete, zap.String("path", path))
	fi, err := o.vfs.Lstat(path)
	if err != nil {
		return fsError(OpDelete, path, err)
	}
	if !fi.IsDir() {
		if err := o.vfs.Remove(path); err != nil {
			return fsError(OpDelete, path, err)
		}
		return nil
	}
	return o.removeTree(path)
}

// ParseMode parses an octal permission string such as "644" or "4755".
// Bits 04000, 02000 and 01000 map to setuid, setgid and sticky.
func ParseMode(s string) (os.FileMode, error) {
	v, err := strconv.ParseUint(s, 8, 32)
	if err != nil || v > constants.MaxOctalMode {
		return 0, apperrors.NewInvalidArgumentError(string(OpChmod), "", "invalid octal mode "+strconv.Quote(s), err)
	}
	mode := os.FileMode(v & 0o777)
	if v&0o4000 != 0 {
		mode |= os.ModeSetuid
	}
	if v&0o2000 != 0 {
		mode |= os.ModeSetgid
	}
	if v&0o1000 != 0 {
		mode |= os.ModeSticky
	}
	return mode, nil
}

// ChangePermissions replaces the permission bits of path with mode.
func (o *Ops) ChangePermissions(path string, mode os.FileMode) error {
	o.dbg(OpChmod, zap.String("path", path), zap.Stringer("mode", mode))
	if err := o.vfs.Chmod(path, mode); err != nil {
		return fsError(OpChmod, path, err)
	}
	return nil
}

func (o *Ops) requireParent(op Op, path string) error {
	parent := fileinfo.ParentPath(path)
	if fileinfo.IsDir(o.vfs, parent) {
		return nil
	}
	return apperrors.NewOperationError(string(op), path, "parent directory does not exist",
		&os.PathError{Op: string(op), Path: parent, Err: os.ErrNotExist})
}

// fsError classifies a filesystem error: absent targets become
// not-found, everything else an operation failure.
func fsError(op Op, path string, err error) error {
	if os.IsNotExist(err) {
		return apperrors.NewNotFoundError(string(op), path, err)
	}
	return apperrors.NewOperationError(string(op), path, string(op)+" failed", err)
}
