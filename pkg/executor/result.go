package executor

import (
	"context"
	"errors"
	"fmt"
	"os/exec"

	"golang.org/x/crypto/ssh"
)

// Failure kinds reported in Failure.Kind and in the failure banner.
const (
	KindExit     = "ExitError"
	KindExec     = "ExecError"
	KindCanceled = "Canceled"
	KindSession  = "SessionError"
)

// Result is the outcome of a single Execute call. It is always either a
// Success or a Failure; callers switch on the concrete type.
type Result interface {
	isResult()
}

// Success carries the decoded output of a command that exited with status 0.
type Success struct {
	Output string
}

// Failure carries the decoded output of a command that did not succeed.
type Failure struct {
	Kind   string
	Output string
}

func (Success) isResult() {}
func (Failure) isResult() {}

// Error makes a Failure usable wherever an error is expected.
func (f Failure) Error() string {
	return fmt.Sprintf("command failed with %s: %s", f.Kind, f.Output)
}

// Output returns the text of either variant.
func Output(r Result) string {
	switch v := r.(type) {
	case Success:
		return v.Output
	case Failure:
		return v.Output
	}
	return ""
}

// SessionError wraps transport failures that happen before or around a
// remote command, as opposed to the command itself exiting non-zero.
type SessionError struct {
	Err error
}

func (e *SessionError) Error() string { return "session: " + e.Err.Error() }
func (e *SessionError) Unwrap() error { return e.Err }

func kindOf(err error) string {
	var (
		exitErr    *exec.ExitError
		execErr    *exec.Error
		sshExitErr *ssh.ExitError
		sessErr    *SessionError
	)
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindCanceled
	case errors.As(err, &exitErr), errors.As(err, &sshExitErr):
		return KindExit
	case errors.As(err, &execErr):
		return KindExec
	case errors.As(err, &sessErr):
		return KindSession
	default:
		return KindExec
	}
}
