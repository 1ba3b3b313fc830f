package fileinfo

import (
	"os"
	"path/filepath"
	"strings"

	"fex/internal/constants"
)

// Resolve turns a token typed at the prompt into a path.
//   - ".." yields the parent of current.
//   - An absolute token is used as typed.
//   - Anything else is appended to current textually; embedded ".." or "."
//     segments are kept, not canonicalised.
//
// Nothing is checked for existence.
func Resolve(current, token string) string {
	if token == constants.ParentDirectoryName {
		return ParentPath(current)
	}
	if filepath.IsAbs(token) {
		return trimTrailingSeparators(token)
	}
	return JoinPath(current, token)
}

// JoinPath appends name to base with exactly one separator between them.
// Unlike filepath.Join the result is not cleaned.
func JoinPath(base, name string) string {
	name = trimTrailingSeparators(name)
	if name == "" {
		return base
	}
	if strings.HasSuffix(base, string(os.PathSeparator)) || strings.HasSuffix(base, "/") {
		return base + name
	}
	return base + string(os.PathSeparator) + name
}

// ParentPath returns the parent directory for a path.
// The root is its own parent.
func ParentPath(p string) string {
	return filepath.Dir(p)
}

// BaseName returns the last path segment analogous to filepath.Base.
func BaseName(p string) string {
	return filepath.Base(p)
}

// IsRoot reports whether p is a filesystem root (e.g. "/" or `C:\`).
func IsRoot(p string) bool {
	clean := filepath.Clean(p)
	return filepath.Dir(clean) == clean
}

// Contains reports whether p is dir itself or lies beneath it, after both
// are cleaned. Symlinks are not followed.
func Contains(dir, p string) bool {
	rel, err := filepath.Rel(filepath.Clean(dir), filepath.Clean(p))
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(os.PathSeparator)))
}

func trimTrailingSeparators(p string) string {
	for len(p) > 1 && os.IsPathSeparator(p[len(p)-1]) {
		if IsRoot(p) {
			break
		}
		p = p[:len(p)-1]
	}
	return p
}
