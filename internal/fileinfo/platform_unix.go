//go:build !windows
// +build !windows

package fileinfo

// IsWindowsHidden always returns false on non-Windows systems; dot-files
// are handled by name.
func IsWindowsHidden(path string) bool {
	return false
}
