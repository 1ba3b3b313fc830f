package ops

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/zap"

	apperrors "fex/internal/errors"
)

// Search returns the full path of every entry below root whose name is
// exactly name. Matching is case-sensitive and root itself is never a
// match. An empty result is not an error.
func (o *Ops) Search(root, name string) (SearchResult, error) {
	o.dbg(OpSearch, zap.String("root", root), zap.String("name", name))
	res := SearchResult{Root: root, Query: name}
	skipped, err := o.walk(root, func(path string, fi os.FileInfo) error {
		if fi.Name() == name {
			res.Matches = append(res.Matches, path)
		}
		return nil
	})
	res.Skipped = skipped
	if err != nil {
		return res, fsError(OpSearch, root, err)
	}
	return res, nil
}

// Find returns every entry below root whose slash-separated path
// relative to root matches the doublestar pattern. Matches are reported
// relative to root.
func (o *Ops) Find(root, pattern string) (SearchResult, error) {
	o.dbg(OpFind, zap.String("root", root), zap.String("pattern", pattern))
	res := SearchResult{Root: root, Query: pattern}
	if !doublestar.ValidatePattern(pattern) {
		return res, apperrors.NewInvalidArgumentError(string(OpFind), root,
			"invalid pattern "+pattern, doublestar.ErrBadPattern)
	}

	prefix := root
	if !strings.HasSuffix(prefix, string(os.PathSeparator)) {
		prefix += string(os.PathSeparator)
	}
	skipped, err := o.walk(root, func(path string, fi os.FileInfo) error {
		rel := filepath.ToSlash(strings.TrimPrefix(path, prefix))
		ok, err := doublestar.Match(pattern, rel)
		if err != nil {
			return err
		}
		if ok {
			res.Matches = append(res.Matches, rel)
		}
		return nil
	})
	res.Skipped = skipped
	if err != nil {
		return res, fsError(OpFind, root, err)
	}
	return res, nil
}
