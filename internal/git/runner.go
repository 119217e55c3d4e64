package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Runner executes git subcommands in a working directory and returns stdout.
// Failures are reported as *Error so callers can inspect the exit status.
type Runner interface {
	Run(ctx context.Context, dir string, args ...string) (string, error)
}

// ExecRunner is the default Runner, delegating to the git binary via os/exec.
type ExecRunner struct {
	// Binary is the git executable; "git" resolved from PATH when empty.
	Binary string
}

// NewExecRunner creates a new ExecRunner using git from PATH.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{Binary: "git"}
}

// Run implements Runner.
func (r *ExecRunner) Run(ctx context.Context, dir string, args ...string) (string, error) {
	binary := r.Binary
	if binary == "" {
		binary = "git"
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Dir = dir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return stdout.String(), newError(args, err, stderr.String())
	}
	return stdout.String(), nil
}

// Error represents a failed git invocation. It captures the arguments,
// the process exit status and whatever git printed on stderr.
type Error struct {
	Args     []string
	ExitCode int // -1 when the process did not run to completion
	Stderr   string
	Err      error
}

func newError(args []string, err error, stderr string) *Error {
	code := -1
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code = exitErr.ExitCode()
	}
	return &Error{
		Args:     append([]string(nil), args...),
		ExitCode: code,
		Stderr:   strings.TrimSpace(stderr),
		Err:      err,
	}
}

// Command returns the invocation as a shell-like string, e.g. "git push origin main".
func (e *Error) Command() string {
	return strings.TrimSpace("git " + strings.Join(e.Args, " "))
}

// Error implements the error interface with a detailed, user-friendly error message.
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s failed", e.Command())
	if e.ExitCode >= 0 {
		msg = fmt.Sprintf("%s (exit status %d)", msg, e.ExitCode)
	}
	if e.Stderr != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Stderr)
	} else if e.Err != nil && e.ExitCode < 0 {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying error for use with errors.Is and errors.As.
func (e *Error) Unwrap() error {
	return e.Err
}

// ExitStatus returns the exit status of the git process behind err, if err
// wraps an *Error whose process exited with a status.
func ExitStatus(err error) (int, bool) {
	var gitErr *Error
	if errors.As(err, &gitErr) && gitErr.ExitCode >= 0 {
		return gitErr.ExitCode, true
	}
	return 0, false
}
