package executor

import (
	"context"
	"os/exec"
)

// DefaultShell is used when ShellRunner.Shell is empty.
const DefaultShell = "/bin/sh"

// ShellRunner executes commands on the local host through "<shell> -c".
// The command string is passed verbatim; escaping is the caller's job.
type ShellRunner struct {
	Shell string
}

// Run blocks until the process exits and returns stdout with stderr merged in.
func (r ShellRunner) Run(ctx context.Context, command string) ([]byte, error) {
	shell := r.Shell
	if shell == "" {
		shell = DefaultShell
	}
	cmd := exec.CommandContext(ctx, shell, "-c", command)
	return cmd.CombinedOutput()
}
