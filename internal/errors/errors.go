package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind represents the category of a failure seen by the shell
type Kind int

const (
	KindNotFound Kind = iota
	KindInvalidArgument
	KindOperationFailure
	KindUnknownCommand
	KindConfig
)

// String returns a string representation of the error kind
func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not-found"
	case KindInvalidArgument:
		return "invalid-argument"
	case KindOperationFailure:
		return "operation-failure"
	case KindUnknownCommand:
		return "unknown-command"
	case KindConfig:
		return "config"
	default:
		return "unknown"
	}
}

// Sentinels usable with errors.Is against any *AppError of the same kind.
var (
	ErrNotFound         = &AppError{Kind: KindNotFound}
	ErrInvalidArgument  = &AppError{Kind: KindInvalidArgument}
	ErrOperationFailure = &AppError{Kind: KindOperationFailure}
	ErrUnknownCommand   = &AppError{Kind: KindUnknownCommand}
	ErrConfig           = &AppError{Kind: KindConfig}
)

// AppError represents a structured application error
type AppError struct {
	Kind      Kind
	Operation string
	Path      string
	Message   string
	Err       error
}

func (e *AppError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s error in %s [%s]: %s", e.Kind, e.Operation, e.Path, e.Message)
	}
	return fmt.Sprintf("%s error in %s: %s", e.Kind, e.Operation, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches on Kind so callers can test against the package sentinels.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Operation == "" || t.Operation == e.Operation)
}

// Reason returns the text shown to the user: the underlying error when
// there is one, the message otherwise.
func (e *AppError) Reason() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// NewNotFoundError creates an error for an absent target
func NewNotFoundError(operation, path string, err error) *AppError {
	return &AppError{
		Kind:      KindNotFound,
		Operation: operation,
		Path:      path,
		Message:   "no such file or directory",
		Err:       err,
	}
}

// NewInvalidArgumentError creates an error for malformed user input
func NewInvalidArgumentError(operation, path, message string, err error) *AppError {
	return &AppError{
		Kind:      KindInvalidArgument,
		Operation: operation,
		Path:      path,
		Message:   message,
		Err:       err,
	}
}

// NewOperationError creates an error for a failed filesystem call
func NewOperationError(operation, path, message string, err error) *AppError {
	return &AppError{
		Kind:      KindOperationFailure,
		Operation: operation,
		Path:      path,
		Message:   message,
		Err:       err,
	}
}

// NewUnknownCommandError creates an error for an unrecognised keyword
func NewUnknownCommandError(keyword string) *AppError {
	return &AppError{
		Kind:      KindUnknownCommand,
		Operation: "dispatch",
		Message:   fmt.Sprintf("unknown command %q", keyword),
	}
}

// NewConfigError creates a new configuration error
func NewConfigError(operation, message string, err error) *AppError {
	return &AppError{
		Kind:      KindConfig,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// KindOf returns the kind of the first AppError in err's chain.
func KindOf(err error) (Kind, bool) {
	var ae *AppError
	if stderrors.As(err, &ae) {
		return ae.Kind, true
	}
	return 0, false
}
