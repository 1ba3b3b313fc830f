package ops

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"fex/internal/constants"
	apperrors "fex/internal/errors"
	"fex/internal/fileinfo"
)

var (
	errIsDirectory = errors.New("is a directory")
	errDirOntoFile = errors.New("cannot overwrite non-directory with directory")
	errSamePath    = errors.New("source and destination are the same")
	errIntoItself  = errors.New("cannot copy a directory into itself")
	errCrossDevice = errors.New("cross-device move is not supported")
	errUnsupported = errors.New("unsupported file type")
)

// Copy duplicates src at dest.
//   - A file copied onto an existing directory lands inside it.
//   - A file copied onto an existing file overwrites it.
//   - A directory is copied recursively; an existing destination
//     directory is merged into.
//
// A symlink named as src is followed; symlinks found inside a copied
// tree are recreated as links.
func (o *Ops) Copy(src, dest string) error {
	o.dbg(OpCopy, zap.String("src", src), zap.String("dest", dest))

	srcInfo, err := o.vfs.Stat(src)
	if err != nil {
		return fsError(OpCopy, src, err)
	}
	destInfo, err := o.vfs.Stat(dest)
	destExists := err == nil
	if err != nil && !os.IsNotExist(err) {
		return fsError(OpCopy, dest, err)
	}

	if !srcInfo.IsDir() {
		target := dest
		if destExists && destInfo.IsDir() {
			target = fileinfo.JoinPath(dest, fileinfo.BaseName(src))
			destInfo, err = o.vfs.Stat(target)
			destExists = err == nil
		}
		if destExists && samePath(src, target, srcInfo, destInfo) {
			return apperrors.NewInvalidArgumentError(string(OpCopy), src, errSamePath.Error(), errSamePath)
		}
		if !destExists {
			if err := o.requireParent(OpCopy, target); err != nil {
				return err
			}
		}
		buf := make([]byte, constants.CopyBufSize)
		if err := o.copyFile(src, target, srcInfo.Mode(), buf); err != nil {
			return copyError(err)
		}
		return nil
	}

	if destExists {
		if !destInfo.IsDir() {
			return apperrors.NewOperationError(string(OpCopy), dest, errDirOntoFile.Error(), errDirOntoFile)
		}
		if samePath(src, dest, srcInfo, destInfo) {
			return apperrors.NewInvalidArgumentError(string(OpCopy), src, errSamePath.Error(), errSamePath)
		}
	}
	if within(dest, src) {
		return apperrors.NewInvalidArgumentError(string(OpCopy), dest, errIntoItself.Error(), errIntoItself)
	}
	if err := o.copyTree(src, dest); err != nil {
		return copyError(err)
	}
	return nil
}

type copyPair struct {
	src, dst string
}

// copyTree walks src with an explicit stack so depth is bounded only by
// memory.
func (o *Ops) copyTree(src, dest string) error {
	buf := make([]byte, constants.CopyBufSize)
	stack := []copyPair{{src: src, dst: dest}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		fi, err := o.vfs.Stat(p.src)
		if err != nil {
			return wrapPath(p.src, err)
		}
		o.dbg(OpCopy, zap.String("mkdir", p.dst), zap.Stringer("mode", fi.Mode()))
		if err := o.ensureDir(p.dst, fi.Mode()); err != nil {
			return wrapPath(p.dst, err)
		}
		entries, err := o.vfs.ReadDir(p.src)
		if err != nil {
			return wrapPath(p.src, err)
		}
		for _, e := range entries {
			child := copyPair{
				src: fileinfo.JoinPath(p.src, e.Name()),
				dst: fileinfo.JoinPath(p.dst, e.Name()),
			}
			switch {
			case e.IsDir():
				stack = append(stack, child)
			case e.Mode()&os.ModeSymlink != 0:
				if err := o.copySymlink(child.src, child.dst); err != nil {
					return err
				}
			default:
				if err := o.copyFile(child.src, child.dst, e.Mode(), buf); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (o *Ops) ensureDir(path string, mode os.FileMode) error {
	fi, err := o.vfs.Stat(path)
	if err == nil {
		if !fi.IsDir() {
			return errDirOntoFile
		}
		return nil
	}
	if !os.IsNotExist(err) {
		return err
	}
	// the parent must exist, as with Mkdir
	if !fileinfo.IsDir(o.vfs, fileinfo.ParentPath(path)) {
		return &os.PathError{Op: "mkdir", Path: fileinfo.ParentPath(path), Err: os.ErrNotExist}
	}
	return o.vfs.Mkdir(path, mode.Perm()|0o700)
}

func (o *Ops) copySymlink(src, dst string) error {
	if !o.vfs.Capabilities().Symlinks {
		return wrapPath(dst, &os.LinkError{Op: "symlink", Old: src, New: dst, Err: afero.ErrNoSymlink})
	}
	target, err := o.vfs.ReadlinkIfPossible(src)
	if err != nil {
		return wrapPath(src, err)
	}
	// replace an existing destination link or file
	_ = o.vfs.Remove(dst)
	o.dbg(OpCopy, zap.String("symlink", dst), zap.String("target", target))
	if err := o.vfs.SymlinkIfPossible(target, dst); err != nil {
		return wrapPath(dst, err)
	}
	return nil
}

// copyFile writes src over dst in place and gives dst the permission
// bits of src.
//
// Only regular files are copied; a FIFO, socket or device on either side
// is refused before anything is opened.
func (o *Ops) copyFile(src, dst string, mode os.FileMode, buf []byte) error {
	o.dbg(OpCopy, zap.String("file", src), zap.String("to", dst))
	if !mode.IsRegular() {
		return wrapPath(src, unsupported(src, mode))
	}
	if fi, err := o.vfs.Stat(dst); err == nil && !fi.Mode().IsRegular() {
		if fi.IsDir() {
			return wrapPath(dst, errIsDirectory)
		}
		return wrapPath(dst, unsupported(dst, fi.Mode()))
	}
	in, err := o.vfs.Open(src)
	if err != nil {
		return wrapPath(src, err)
	}
	defer in.Close()

	out, err := o.vfs.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode.Perm())
	if err != nil {
		return wrapPath(dst, err)
	}
	if _, err := io.CopyBuffer(out, in, buf); err != nil {
		out.Close()
		return wrapPath(dst, err)
	}
	if err := out.Close(); err != nil {
		return wrapPath(dst, err)
	}
	if err := o.vfs.Chmod(dst, mode.Perm()); err != nil {
		return wrapPath(dst, err)
	}
	return nil
}

// Move renames src to dest in a single step. Moves across filesystems
// are refused rather than emulated by copy and delete.
func (o *Ops) Move(src, dest string) error {
	o.dbg(OpMove, zap.String("src", src), zap.String("dest", dest))
	if _, err := o.vfs.Lstat(src); err != nil {
		return fsError(OpMove, src, err)
	}
	if err := o.vfs.Rename(src, dest); err != nil {
		if isCrossDevice(err) {
			return apperrors.NewOperationError(string(OpMove), src, errCrossDevice.Error(),
				&os.LinkError{Op: "rename", Old: src, New: dest, Err: errCrossDevice})
		}
		return apperrors.NewOperationError(string(OpMove), src, "rename failed", err)
	}
	return nil
}

// samePath reports whether two stat results name the same object. In
// memory backends os.SameFile cannot tell, so cleaned paths are compared.
func samePath(a, b string, ai, bi os.FileInfo) bool {
	if os.SameFile(ai, bi) {
		return true
	}
	return filepath.Clean(a) == filepath.Clean(b)
}

// within reports whether child lies strictly below parent.
func within(child, parent string) bool {
	rel, err := filepath.Rel(filepath.Clean(parent), filepath.Clean(child))
	if err != nil || rel == "." {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// --- error wrapping helpers ---

type opError struct {
	Path string
	Err  error
}

func (e opError) Error() string { return e.Path + ": " + e.Err.Error() }
func (e opError) Unwrap() error { return e.Err }

func wrapPath(p string, err error) error {
	if err == nil {
		return nil
	}
	return opError{Path: p, Err: err}
}

func failingPath(err error) string {
	var oe opError
	if errors.As(err, &oe) {
		return oe.Path
	}
	return ""
}

func unsupported(path string, mode os.FileMode) error {
	return fmt.Errorf("%s: %w (%s)", path, errUnsupported, mode.Type())
}

func copyError(err error) error {
	p := failingPath(err)
	var oe opError
	if errors.As(err, &oe) {
		err = oe.Err
	}
	return fsError(OpCopy, p, err)
}
