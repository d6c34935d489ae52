package bluetooth

import (
	"errors"
	"strings"
)

// Sentinel errors for discovery and device actions.
var (
	// ErrEmptyCommand indicates a Command with no argv was submitted.
	ErrEmptyCommand = errors.New("empty command")

	// ErrUnknownDevice indicates a lookup matched no known device.
	ErrUnknownDevice = errors.New("no matching bluetooth device")

	// ErrActionFailed indicates the control utility exited non-zero for an action.
	ErrActionFailed = errors.New("bluetooth action failed")
)

// ExecutionError reports that an external command could not be spawned,
// typically because the binary is missing from PATH.
type ExecutionError struct {
	Args []string
	Err  error
}

func (e *ExecutionError) Error() string {
	return "exec " + strings.Join(e.Args, " ") + ": " + e.Err.Error()
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

// IsExecutionError reports whether err wraps an *ExecutionError.
func IsExecutionError(err error) bool {
	var execErr *ExecutionError
	return errors.As(err, &execErr)
}
