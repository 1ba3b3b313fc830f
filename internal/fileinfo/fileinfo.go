package fileinfo

import (
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// FileType represents the type of file
type FileType int

const (
	FileTypeRegular FileType = iota
	FileTypeDirectory
	FileTypeSymlink
	FileTypeHidden
)

func (t FileType) String() string {
	switch t {
	case FileTypeDirectory:
		return "directory"
	case FileTypeSymlink:
		return "symlink"
	case FileTypeHidden:
		return "hidden"
	default:
		return "file"
	}
}

// FileInfo represents a file or directory
type FileInfo struct {
	Name     string
	Path     string
	IsDir    bool
	Size     int64
	Mode     os.FileMode
	Modified time.Time
	FileType FileType
}

// FromOS builds a FileInfo for an entry found at path.
func FromOS(path string, fi os.FileInfo) FileInfo {
	return FileInfo{
		Name:     fi.Name(),
		Path:     path,
		IsDir:    fi.IsDir(),
		Size:     fi.Size(),
		Mode:     fi.Mode(),
		Modified: fi.ModTime(),
		FileType: DetermineFileType(path, fi),
	}
}

// DetermineFileType determines the file type based on file attributes
func DetermineFileType(path string, fi os.FileInfo) FileType {
	if fi.Mode()&os.ModeSymlink != 0 {
		return FileTypeSymlink
	}

	// Directory takes precedence over hidden
	if fi.IsDir() {
		return FileTypeDirectory
	}

	if strings.HasPrefix(fi.Name(), ".") {
		return FileTypeHidden
	}

	if runtime.GOOS == "windows" && IsWindowsHidden(path) {
		return FileTypeHidden
	}

	return FileTypeRegular
}

// IsHidden reports whether an entry is hidden by name or attribute,
// regardless of its type.
func (f FileInfo) IsHidden() bool {
	if strings.HasPrefix(f.Name, ".") {
		return true
	}
	return runtime.GOOS == "windows" && IsWindowsHidden(f.Path)
}

// FormatFileSize formats file size in human-readable format
func FormatFileSize(size int64) string {
	if size < 0 {
		size = 0
	}
	return humanize.IBytes(uint64(size))
}

// SortOptions mirrors the list section of the configuration.
type SortOptions struct {
	SortBy           string // "name", "size", "modified", "extension"
	SortOrder        string // "asc", "desc"
	DirectoriesFirst bool
}

// SortEntries sorts files in place.
func SortEntries(files []FileInfo, opts SortOptions) {
	less := func(a, b FileInfo) bool {
		switch opts.SortBy {
		case "size":
			if a.Size != b.Size {
				return a.Size < b.Size
			}
		case "modified":
			if !a.Modified.Equal(b.Modified) {
				return a.Modified.Before(b.Modified)
			}
		case "extension":
			ea, eb := strings.ToLower(filepath.Ext(a.Name)), strings.ToLower(filepath.Ext(b.Name))
			if ea != eb {
				return ea < eb
			}
		}
		return a.Name < b.Name
	}

	sort.SliceStable(files, func(i, j int) bool {
		a, b := files[i], files[j]
		if opts.DirectoriesFirst && a.IsDir != b.IsDir {
			return a.IsDir
		}
		if opts.SortOrder == "desc" {
			return less(b, a)
		}
		return less(a, b)
	})
}
