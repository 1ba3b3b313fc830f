package shell

import (
	"fex/internal/fileinfo"
)

// Session is the state carried between commands: the working directory
// and the directories visited with cd.
type Session struct {
	cwd        string
	history    []string
	maxHistory int
}

// NewSession starts a session in cwd, which the caller has verified to
// be an existing directory.
func NewSession(cwd string, maxHistory int) *Session {
	if maxHistory <= 0 {
		maxHistory = 1
	}
	return &Session{cwd: cwd, maxHistory: maxHistory}
}

// Cwd returns the working directory.
func (s *Session) Cwd() string {
	return s.cwd
}

// Resolve resolves a typed token against the working directory.
func (s *Session) Resolve(token string) string {
	return fileinfo.Resolve(s.cwd, token)
}

// Chdir makes path the working directory and records it in the history.
// The caller checks that path is a directory.
func (s *Session) Chdir(path string) {
	s.cwd = path
	s.addToHistory(path)
}

// History returns visited directories, newest first.
func (s *Session) History() []string {
	out := make([]string, len(s.history))
	copy(out, s.history)
	return out
}

func (s *Session) addToHistory(path string) {
	// Remove existing entry if it exists
	for i, entry := range s.history {
		if entry == path {
			s.history = append(s.history[:i], s.history[i+1:]...)
			break
		}
	}

	// Add to beginning of slice (newest first)
	s.history = append([]string{path}, s.history...)

	if len(s.history) > s.maxHistory {
		s.history = s.history[:s.maxHistory]
	}
}
