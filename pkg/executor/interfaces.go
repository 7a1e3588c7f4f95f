package executor

import (
	"context"
)

// Runner knows how to run a command over some transport (local shell, SSH)
// and return its combined stdout/stderr.
type Runner interface {
	Run(ctx context.Context, command string) ([]byte, error)
}

// CommandExecutor runs one command and reports the outcome as a Result.
// *Executor is the production implementation; Poller and PodExecutor
// depend only on this interface.
type CommandExecutor interface {
	Execute(ctx context.Context, command string, opts ...ExecOptions) Result
}
