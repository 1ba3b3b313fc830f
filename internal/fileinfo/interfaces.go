package fileinfo

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Host abstracts process-level queries so shell startup can be tested
type Host interface {
	Getwd() (string, error)
	UserHomeDir() (string, error)
	Abs(path string) (string, error)
}

// RealHost implements Host using real OS operations
type RealHost struct{}

func (RealHost) Getwd() (string, error) {
	return os.Getwd()
}

func (RealHost) UserHomeDir() (string, error) {
	return os.UserHomeDir()
}

func (RealHost) Abs(path string) (string, error) {
	return filepath.Abs(path)
}

// StartDir picks the directory a session starts in. An empty request
// means the process working directory; a leading "~" expands to the
// home directory. The result is absolute and must be an existing
// directory.
func StartDir(host Host, vfs VFS, requested string) (string, error) {
	path := requested
	switch {
	case path == "":
		wd, err := host.Getwd()
		if err != nil {
			return "", fmt.Errorf("error getting current directory: %w", err)
		}
		path = wd
	case path == "~" || strings.HasPrefix(path, "~/"):
		home, err := host.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("error expanding %q: %w", requested, err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}

	abs, err := host.Abs(path)
	if err != nil {
		return "", fmt.Errorf("error resolving path '%s': %w", requested, err)
	}
	fi, err := vfs.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("error accessing path '%s': %w", abs, err)
	}
	if !fi.IsDir() {
		return "", fmt.Errorf("path '%s' is not a directory", abs)
	}
	return abs, nil
}
