package ops

import (
	"fex/internal/fileinfo"
)

// Op names an operation; it is used as the Operation of returned errors
// and as the message of debug log lines.
type Op string

const (
	OpList   Op = "list"
	OpCreate Op = "create"
	OpMkdir  Op = "mkdir"
	OpDelete Op = "delete"
	OpCopy   Op = "copy"
	OpMove   Op = "move"
	OpSearch Op = "search"
	OpFind   Op = "find"
	OpChmod  Op = "chmod"
	OpInfo   Op = "info"
	OpPeek   Op = "peek"
)

// Options controls presentation-independent behaviour of List.
type Options struct {
	ShowHidden bool
	Sort       fileinfo.SortOptions
}

// DefaultOptions lists every entry sorted by name.
func DefaultOptions() Options {
	return Options{
		ShowHidden: true,
		Sort:       fileinfo.SortOptions{SortBy: "name", SortOrder: "asc"},
	}
}

// SearchResult holds the outcome of a recursive walk.
type SearchResult struct {
	Root    string
	Query   string
	Matches []string // full paths, in walk order
	Skipped []string // directories that could not be read
}

// Found reports whether at least one entry matched.
func (r SearchResult) Found() bool {
	return len(r.Matches) > 0
}

// Info is the metadata shown by the info command.
type Info struct {
	fileinfo.FileInfo
	LinkTarget  string // set for symlinks when the backend can read links
	ContentType string // detected MIME type, regular files only
}

// ArchiveEntry is one member of an archive listed by Peek.
type ArchiveEntry struct {
	Name  string
	IsDir bool
	Size  int64
}
