package ops

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "fex/internal/errors"
	"fex/internal/fileinfo"
)

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("unix paths and permissions")
	}
}

func newMemOps(t *testing.T) (*Ops, fileinfo.VFS) {
	t.Helper()
	skipOnWindows(t)
	vfs := fileinfo.NewMemory()
	return New(vfs, DefaultOptions(), nil), vfs
}

func newLocalOps(t *testing.T) (*Ops, string) {
	t.Helper()
	skipOnWindows(t)
	return New(fileinfo.NewLocal(), DefaultOptions(), nil), t.TempDir()
}

func requireKind(t *testing.T, err error, want apperrors.Kind) {
	t.Helper()
	require.Error(t, err)
	kind, ok := apperrors.KindOf(err)
	require.True(t, ok, "expected *AppError, got %T: %v", err, err)
	assert.Equal(t, want, kind, "error: %v", err)
}

func writeFile(t *testing.T, vfs afero.Fs, path, content string) {
	t.Helper()
	require.NoError(t, vfs.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, afero.WriteFile(vfs, path, []byte(content), 0o644))
}

func readFile(t *testing.T, vfs afero.Fs, path string) string {
	t.Helper()
	data, err := afero.ReadFile(vfs, path)
	require.NoError(t, err)
	return string(data)
}

func names(files []fileinfo.FileInfo) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.Name
	}
	return out
}

func TestList(t *testing.T) {
	o, vfs := newMemOps(t)
	writeFile(t, vfs, "/w/b.txt", "bb")
	writeFile(t, vfs, "/w/.hidden", "")
	writeFile(t, vfs, "/w/a.txt", "a")
	require.NoError(t, vfs.MkdirAll("/w/sub", 0o755))
	require.NoError(t, vfs.MkdirAll("/empty", 0o755))

	files, err := o.List("/w")
	require.NoError(t, err)
	assert.Equal(t, []string{".hidden", "a.txt", "b.txt", "sub"}, names(files))
	assert.True(t, files[3].IsDir)
	assert.Equal(t, "/w/a.txt", files[1].Path)

	files, err = o.List("/empty")
	require.NoError(t, err)
	assert.Empty(t, files)

	_, err = o.List("/nope")
	requireKind(t, err, apperrors.KindNotFound)
}

func TestListOptions(t *testing.T) {
	skipOnWindows(t)
	vfs := fileinfo.NewMemory()
	writeFile(t, vfs, "/w/b.txt", "")
	writeFile(t, vfs, "/w/.hidden", "")
	require.NoError(t, vfs.MkdirAll("/w/zdir", 0o755))

	o := New(vfs, Options{
		ShowHidden: false,
		Sort:       fileinfo.SortOptions{SortBy: "name", SortOrder: "asc", DirectoriesFirst: true},
	}, nil)
	files, err := o.List("/w")
	require.NoError(t, err)
	assert.Equal(t, []string{"zdir", "b.txt"}, names(files))
}

func TestListSymlinkToDirectory(t *testing.T) {
	o, dir := newLocalOps(t)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "real"), 0o755))
	require.NoError(t, os.Symlink(filepath.Join(dir, "real"), filepath.Join(dir, "link")))

	files, err := o.List(dir)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "link", files[0].Name)
	assert.True(t, files[0].IsDir)
	assert.Equal(t, fileinfo.FileTypeSymlink, files[0].FileType)
}

func TestCreate(t *testing.T) {
	o, vfs := newMemOps(t)
	require.NoError(t, vfs.MkdirAll("/w/dir", 0o755))

	require.NoError(t, o.Create("/w/new.txt"))
	fi, err := vfs.Stat("/w/new.txt")
	require.NoError(t, err)
	assert.False(t, fi.IsDir())
	assert.Zero(t, fi.Size())

	writeFile(t, vfs, "/w/full.txt", "content")
	require.NoError(t, o.Create("/w/full.txt"))
	assert.Empty(t, readFile(t, vfs, "/w/full.txt"))

	err = o.Create("/w/missing/x.txt")
	requireKind(t, err, apperrors.KindOperationFailure)
	exists, _ := fileinfo.Exists(vfs, "/w/missing")
	assert.False(t, exists, "parent must not be created")

	err = o.Create("/w/dir")
	requireKind(t, err, apperrors.KindOperationFailure)
	assert.True(t, fileinfo.IsDir(vfs, "/w/dir"))
}

func TestMkdir(t *testing.T) {
	o, vfs := newMemOps(t)
	require.NoError(t, vfs.MkdirAll("/w", 0o755))

	require.NoError(t, o.Mkdir("/w/d"))
	assert.True(t, fileinfo.IsDir(vfs, "/w/d"))

	requireKind(t, o.Mkdir("/w/a/b"), apperrors.KindOperationFailure)
	requireKind(t, o.Mkdir("/w/d"), apperrors.KindOperationFailure)
}

func TestDelete(t *testing.T) {
	o, vfs := newMemOps(t)
	writeFile(t, vfs, "/w/f.txt", "x")
	writeFile(t, vfs, "/w/tree/a.txt", "a")
	writeFile(t, vfs, "/w/tree/sub/b.txt", "b")
	require.NoError(t, vfs.MkdirAll("/w/tree/empty", 0o755))

	require.NoError(t, o.Delete("/w/f.txt"))
	ok, _ := fileinfo.Exists(vfs, "/w/f.txt")
	assert.False(t, ok)

	require.NoError(t, o.Delete("/w/tree"))
	for _, p := range []string{"/w/tree", "/w/tree/a.txt", "/w/tree/sub", "/w/tree/sub/b.txt", "/w/tree/empty"} {
		ok, _ := fileinfo.Exists(vfs, p)
		assert.False(t, ok, "%s should be gone", p)
	}
	assert.True(t, fileinfo.IsDir(vfs, "/w"))

	// a second delete reports not-found and changes nothing
	requireKind(t, o.Delete("/w/tree"), apperrors.KindNotFound)
	requireKind(t, o.Delete("/w/never"), apperrors.KindNotFound)
}

func TestDeleteDeepTree(t *testing.T) {
	o, vfs := newMemOps(t)
	deep := "/w/root" + strings.Repeat("/d", 300)
	writeFile(t, vfs, deep+"/leaf.txt", "x")

	require.NoError(t, o.Delete("/w/root"))
	ok, _ := fileinfo.Exists(vfs, "/w/root")
	assert.False(t, ok)
}

func TestParseMode(t *testing.T) {
	testCases := []struct {
		in   string
		want os.FileMode
	}{
		{"644", 0o644},
		{"0755", 0o755},
		{"0", 0},
		{"4755", os.ModeSetuid | 0o755},
		{"2750", os.ModeSetgid | 0o750},
		{"1777", os.ModeSticky | 0o777},
		{"7777", os.ModeSetuid | os.ModeSetgid | os.ModeSticky | 0o777},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseMode(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	for _, bad := range []string{"", "8", "rw-", "abc", "-1", "+644", "10000", "99999999999"} {
		t.Run("bad "+bad, func(t *testing.T) {
			_, err := ParseMode(bad)
			requireKind(t, err, apperrors.KindInvalidArgument)
		})
	}
}

func TestChangePermissions(t *testing.T) {
	o, dir := newLocalOps(t)
	p := filepath.Join(dir, "f.txt")
	require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))

	require.NoError(t, o.ChangePermissions(p, 0o600))
	fi, err := os.Stat(p)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), fi.Mode().Perm())

	requireKind(t, o.ChangePermissions(filepath.Join(dir, "nope"), 0o644), apperrors.KindNotFound)
}
