package ops

import (
	"os"

	"go.uber.org/zap"

	"fex/internal/fileinfo"
)

// walkFunc is called for every entry below the walk root.
type walkFunc func(path string, fi os.FileInfo) error

// walk visits every entry below root, excluding root itself. It runs on
// an explicit stack, never follows symlinked directories, and visits the
// entries of one directory in name order before descending. Directories
// that cannot be read are returned in skipped and the walk goes on; only
// an unreadable root is an error.
func (o *Ops) walk(root string, fn walkFunc) (skipped []string, err error) {
	stack := []string{root}
	for len(stack) > 0 {
		dir := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		entries, err := o.vfs.ReadDir(dir)
		if err != nil {
			if dir == root {
				return nil, err
			}
			o.log.Debug("skip unreadable directory", zap.String("path", dir), zap.Error(err))
			skipped = append(skipped, dir)
			continue
		}

		var subdirs []string
		for _, fi := range entries {
			p := fileinfo.JoinPath(dir, fi.Name())
			if err := fn(p, fi); err != nil {
				return skipped, err
			}
			if fi.IsDir() {
				subdirs = append(subdirs, p)
			}
		}
		// push in reverse so the lowest name is popped first
		for i := len(subdirs) - 1; i >= 0; i-- {
			stack = append(stack, subdirs[i])
		}
	}
	return skipped, nil
}

// removeTree deletes root and everything below it. Files go as they are
// found; directories are removed deepest first once emptied.
func (o *Ops) removeTree(root string) error {
	dirs := []string{root}
	stack := []string{root}
	for len(stack) > 0 {
		dir := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		entries, err := o.vfs.ReadDir(dir)
		if err != nil {
			return fsError(OpDelete, dir, err)
		}
		for _, fi := range entries {
			p := fileinfo.JoinPath(dir, fi.Name())
			if fi.IsDir() {
				dirs = append(dirs, p)
				stack = append(stack, p)
				continue
			}
			if err := o.vfs.Remove(p); err != nil && !os.IsNotExist(err) {
				return fsError(OpDelete, p, err)
			}
		}
	}
	// a parent is always recorded before its children
	for i := len(dirs) - 1; i >= 0; i-- {
		if err := o.vfs.Remove(dirs[i]); err != nil && !os.IsNotExist(err) {
			return fsError(OpDelete, dirs[i], err)
		}
	}
	return nil
}
