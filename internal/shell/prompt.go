package shell

import (
	"io"

	"golang.org/x/term"

	"fex/internal/constants"
)

type fdReader interface {
	Fd() uintptr
}

// PromptEnabled resolves a shell.prompt setting. In auto mode the prompt
// is shown only when in is an interactive terminal.
func PromptEnabled(mode string, in io.Reader) bool {
	switch mode {
	case constants.PromptAlways:
		return true
	case constants.PromptNever:
		return false
	}
	f, ok := in.(fdReader)
	return ok && term.IsTerminal(int(f.Fd()))
}
