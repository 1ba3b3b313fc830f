package ops

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "fex/internal/errors"
	"fex/internal/fileinfo"
)

func TestCopyFile(t *testing.T) {
	o, vfs := newMemOps(t)
	writeFile(t, vfs, "/w/a.txt", "alpha")
	require.NoError(t, vfs.MkdirAll("/w/dir", 0o755))

	t.Run("new name", func(t *testing.T) {
		require.NoError(t, o.Copy("/w/a.txt", "/w/b.txt"))
		assert.Equal(t, "alpha", readFile(t, vfs, "/w/b.txt"))
		assert.Equal(t, "alpha", readFile(t, vfs, "/w/a.txt"))
	})

	t.Run("into directory", func(t *testing.T) {
		require.NoError(t, o.Copy("/w/a.txt", "/w/dir"))
		assert.Equal(t, "alpha", readFile(t, vfs, "/w/dir/a.txt"))
	})

	t.Run("overwrite", func(t *testing.T) {
		writeFile(t, vfs, "/w/c.txt", "a much longer old content")
		require.NoError(t, o.Copy("/w/a.txt", "/w/c.txt"))
		assert.Equal(t, "alpha", readFile(t, vfs, "/w/c.txt"))
	})

	t.Run("onto itself", func(t *testing.T) {
		requireKind(t, o.Copy("/w/a.txt", "/w/a.txt"), apperrors.KindInvalidArgument)
		requireKind(t, o.Copy("/w/a.txt", "/w"), apperrors.KindInvalidArgument)
		assert.Equal(t, "alpha", readFile(t, vfs, "/w/a.txt"))
	})

	t.Run("missing source", func(t *testing.T) {
		requireKind(t, o.Copy("/w/none.txt", "/w/x.txt"), apperrors.KindNotFound)
	})

	t.Run("missing destination parent", func(t *testing.T) {
		requireKind(t, o.Copy("/w/a.txt", "/w/nodir/x.txt"), apperrors.KindOperationFailure)
		ok, _ := fileinfo.Exists(vfs, "/w/nodir")
		assert.False(t, ok)
	})
}

func TestCopyDirectory(t *testing.T) {
	o, vfs := newMemOps(t)
	writeFile(t, vfs, "/src/a.txt", "a")
	writeFile(t, vfs, "/src/sub/b.txt", "b")
	writeFile(t, vfs, "/src/sub/deeper/c.txt", "c")
	require.NoError(t, vfs.MkdirAll("/src/empty", 0o755))

	t.Run("new destination", func(t *testing.T) {
		require.NoError(t, o.Copy("/src", "/copy"))
		assert.Equal(t, "a", readFile(t, vfs, "/copy/a.txt"))
		assert.Equal(t, "b", readFile(t, vfs, "/copy/sub/b.txt"))
		assert.Equal(t, "c", readFile(t, vfs, "/copy/sub/deeper/c.txt"))
		assert.True(t, fileinfo.IsDir(vfs, "/copy/empty"))
	})

	t.Run("merge into existing", func(t *testing.T) {
		writeFile(t, vfs, "/dst/keep.txt", "keep")
		writeFile(t, vfs, "/dst/a.txt", "old")
		require.NoError(t, o.Copy("/src", "/dst"))
		assert.Equal(t, "keep", readFile(t, vfs, "/dst/keep.txt"))
		assert.Equal(t, "a", readFile(t, vfs, "/dst/a.txt"))
		assert.Equal(t, "c", readFile(t, vfs, "/dst/sub/deeper/c.txt"))
	})

	t.Run("onto a file", func(t *testing.T) {
		writeFile(t, vfs, "/plain.txt", "p")
		requireKind(t, o.Copy("/src", "/plain.txt"), apperrors.KindOperationFailure)
		assert.Equal(t, "p", readFile(t, vfs, "/plain.txt"))
	})

	t.Run("into itself", func(t *testing.T) {
		requireKind(t, o.Copy("/src", "/src/sub/inner"), apperrors.KindInvalidArgument)
		ok, _ := fileinfo.Exists(vfs, "/src/sub/inner")
		assert.False(t, ok)
	})
}

func TestCopyTreeKeepsSymlinks(t *testing.T) {
	o, dir := newLocalOps(t)
	src := filepath.Join(dir, "src")
	require.NoError(t, os.MkdirAll(src, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "target.txt"), []byte("t"), 0o644))
	require.NoError(t, os.Symlink("target.txt", filepath.Join(src, "link")))

	dst := filepath.Join(dir, "dst")
	require.NoError(t, o.Copy(src, dst))

	target, err := os.Readlink(filepath.Join(dst, "link"))
	require.NoError(t, err)
	assert.Equal(t, "target.txt", target)
}

// osFsNoLinks hides afero's Linker so the host lists symlinks that the
// VFS cannot recreate.
type osFsNoLinks struct{ afero.Fs }

func TestCopyTreeSymlinkWithoutLinkSupport(t *testing.T) {
	skipOnWindows(t)
	vfs := fileinfo.New(osFsNoLinks{afero.NewOsFs()})
	require.False(t, vfs.Capabilities().Symlinks)
	o := New(vfs, DefaultOptions(), nil)

	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	require.NoError(t, os.MkdirAll(src, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "target.txt"), []byte("t"), 0o644))
	require.NoError(t, os.Symlink("target.txt", filepath.Join(src, "link")))

	dst := filepath.Join(dir, "dst")
	require.NoError(t, os.MkdirAll(dst, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dst, "link"), []byte("keep"), 0o644))

	err := o.Copy(src, dst)
	require.ErrorIs(t, err, afero.ErrNoSymlink)

	data, err := os.ReadFile(filepath.Join(dst, "link"))
	require.NoError(t, err)
	assert.Equal(t, "keep", string(data))
}

func TestCopyPreservesPermissions(t *testing.T) {
	o, dir := newLocalOps(t)
	src := filepath.Join(dir, "run.sh")
	require.NoError(t, os.WriteFile(src, []byte("#!/bin/sh\n"), 0o644))
	require.NoError(t, os.Chmod(src, 0o750))

	dst := filepath.Join(dir, "copy.sh")
	require.NoError(t, o.Copy(src, dst))
	fi, err := os.Stat(dst)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o750), fi.Mode().Perm())
}

func TestMove(t *testing.T) {
	o, vfs := newMemOps(t)
	writeFile(t, vfs, "/w/a.txt", "alpha")

	require.NoError(t, o.Move("/w/a.txt", "/w/b.txt"))
	assert.Equal(t, "alpha", readFile(t, vfs, "/w/b.txt"))
	ok, _ := fileinfo.Exists(vfs, "/w/a.txt")
	assert.False(t, ok)

	requireKind(t, o.Move("/w/a.txt", "/w/c.txt"), apperrors.KindNotFound)
}

func TestMoveDirectory(t *testing.T) {
	o, dir := newLocalOps(t)
	src := filepath.Join(dir, "folder")
	require.NoError(t, os.MkdirAll(filepath.Join(src, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "sub", "f.txt"), []byte("f"), 0o644))

	dst := filepath.Join(dir, "renamed")
	require.NoError(t, o.Move(src, dst))

	data, err := os.ReadFile(filepath.Join(dst, "sub", "f.txt"))
	require.NoError(t, err)
	assert.Equal(t, "f", string(data))
	_, err = os.Stat(src)
	assert.True(t, os.IsNotExist(err))
}

func TestMoveMissingDestinationParent(t *testing.T) {
	o, dir := newLocalOps(t)
	src := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(src, []byte("a"), 0o644))

	err := o.Move(src, filepath.Join(dir, "nodir", "a.txt"))
	requireKind(t, err, apperrors.KindOperationFailure)
	_, err = os.Stat(src)
	assert.NoError(t, err, "failed move leaves the source in place")
}

func TestWithin(t *testing.T) {
	skipOnWindows(t)
	assert.True(t, within("/a/b", "/a"))
	assert.True(t, within("/a/./b/c", "/a"))
	assert.False(t, within("/a", "/a"))
	assert.False(t, within("/ab", "/a"))
	assert.False(t, within("/", "/a"))
	assert.False(t, within("/a/../b", "/a"))
}
