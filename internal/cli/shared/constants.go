// Package shared provides constants and types used across CLI files and
// tests. It has no dependencies on other CLI packages to avoid circular
// imports.
package shared

import (
	"errors"
	"fmt"
)

// Exit codes for CLI commands
const (
	ExitSuccess           = 0
	ExitFailure           = 1
	ExitInvalidArguments  = 3
	ExitMissingDependency = 4
	ExitDuplicateTag      = 6
	ExitNotMonotonic      = 7
	ExitConfig            = 8
	ExitInterrupted       = 130
)

// exitError is a custom error type that carries an exit code. The command
// that returns it has already reported the problem.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit code %d", e.code)
}

// NewExitError creates a new exit error with the given code.
func NewExitError(code int) error {
	return &exitError{code: code}
}

// reportedError wraps an error the user has already seen. It unwraps to
// the original so exit code mapping still applies.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }

func (e *reportedError) Unwrap() error { return e.err }

// MarkReported wraps err so the top level does not print it again.
func MarkReported(err error) error {
	if err == nil {
		return nil
	}
	return &reportedError{err: err}
}

// IsReported reports whether err was already printed, either because it
// is an exit error or because it was passed through MarkReported.
func IsReported(err error) bool {
	var e *exitError
	var r *reportedError
	return errors.As(err, &e) || errors.As(err, &r)
}

// Code returns the exit code carried by an exit error in err's chain.
func Code(err error) (int, bool) {
	var e *exitError
	if errors.As(err, &e) {
		return e.code, true
	}
	return 0, false
}

// ExitCode returns the exit code carried by err, ExitSuccess for nil and
// ExitFailure for any other error.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	if code, ok := Code(err); ok {
		return code
	}
	return ExitFailure
}
