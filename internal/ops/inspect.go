package ops

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/gabriel-vasile/mimetype"
	"github.com/mholt/archives"
	"go.uber.org/zap"

	apperrors "fex/internal/errors"
	"fex/internal/fileinfo"
)

var (
	errNotArchive  = errors.New("not a recognized archive")
	errNotListable = errors.New("format holds a single stream, not a file list")
)

// Info returns the metadata of path without following a final symlink.
// Regular files also get a sniffed content type.
func (o *Ops) Info(path string) (Info, error) {
	o.dbg(OpInfo, zap.String("path", path))
	fi, err := o.vfs.Lstat(path)
	if err != nil {
		return Info{}, fsError(OpInfo, path, err)
	}
	info := Info{FileInfo: fileinfo.FromOS(path, fi)}

	if fi.Mode()&os.ModeSymlink != 0 {
		if target, err := o.vfs.ReadlinkIfPossible(path); err == nil {
			info.LinkTarget = target
		}
		return info, nil
	}
	if !fi.Mode().IsRegular() {
		return info, nil
	}

	f, err := o.vfs.Open(path)
	if err != nil {
		return info, fsError(OpInfo, path, err)
	}
	defer f.Close()
	mtype, err := mimetype.DetectReader(f)
	if err != nil {
		return info, fsError(OpInfo, path, err)
	}
	info.ContentType = mtype.String()
	return info, nil
}

// Peek lists the members of an archive without extracting it. The
// returned string is the detected format's extension, such as ".zip" or
// ".tar.gz".
func (o *Ops) Peek(ctx context.Context, path string) (string, []ArchiveEntry, error) {
	o.dbg(OpPeek, zap.String("path", path))
	fi, err := o.vfs.Stat(path)
	if err != nil {
		return "", nil, fsError(OpPeek, path, err)
	}
	// never open a FIFO or device: the read would block
	if !fi.Mode().IsRegular() {
		err := unsupported(path, fi.Mode())
		return "", nil, apperrors.NewInvalidArgumentError(string(OpPeek), path, err.Error(), err)
	}
	f, err := o.vfs.Open(path)
	if err != nil {
		return "", nil, fsError(OpPeek, path, err)
	}
	defer f.Close()

	format, stream, err := archives.Identify(ctx, fileinfo.BaseName(path), f)
	if errors.Is(err, archives.NoMatch) {
		return "", nil, apperrors.NewInvalidArgumentError(string(OpPeek), path, errNotArchive.Error(), errNotArchive)
	}
	if err != nil {
		return "", nil, fsError(OpPeek, path, err)
	}
	extractor, ok := format.(archives.Extractor)
	if !ok {
		return format.Extension(), nil, apperrors.NewInvalidArgumentError(string(OpPeek), path, errNotListable.Error(), errNotListable)
	}
	// zip needs random access, which the rewound file provides
	if _, err := f.Seek(0, io.SeekStart); err == nil {
		stream = f
	}

	var entries []ArchiveEntry
	err = extractor.Extract(ctx, stream, func(ctx context.Context, af archives.FileInfo) error {
		entries = append(entries, ArchiveEntry{
			Name:  af.NameInArchive,
			IsDir: af.IsDir(),
			Size:  af.Size(),
		})
		return nil
	})
	if err != nil {
		return format.Extension(), entries, apperrors.NewOperationError(string(OpPeek), path, "reading archive failed", err)
	}
	return format.Extension(), entries, nil
}
