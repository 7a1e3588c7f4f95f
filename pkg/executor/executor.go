package executor

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/andrej220/provkit/internal/lg"
	"github.com/google/uuid"
)

// ExecOptions controls what Execute echoes to the console.
type ExecOptions struct {
	ShowCommand bool // print the command before running it
	ShowErrors  bool // print the failure banner and output
	Verbose     bool // print the output on success
}

// DefaultExecOptions echoes the command and failures but not successful output.
var DefaultExecOptions = ExecOptions{ShowCommand: true, ShowErrors: true}

// Executor runs single commands through a Runner and writes console feedback
// to Out.
type Executor struct {
	runner Runner
	out    io.Writer
}

var _ CommandExecutor = (*Executor)(nil)

func New(runner Runner, out io.Writer) *Executor {
	if runner == nil {
		runner = ShellRunner{}
	}
	if out == nil {
		out = os.Stdout
	}
	return &Executor{runner: runner, out: out}
}

// NewLocal returns an Executor backed by /bin/sh writing to stdout.
func NewLocal() *Executor {
	return New(ShellRunner{}, os.Stdout)
}

// Execute runs command once. It never returns an error: process failures are
// reported as a Failure and console feedback is driven by opts (defaults to
// DefaultExecOptions).
func (e *Executor) Execute(ctx context.Context, command string, opts ...ExecOptions) Result {
	opt := DefaultExecOptions
	if len(opts) > 0 {
		opt = opts[0]
	}
	logger := lg.FromContext(ctx).With(lg.String("run_id", uuid.NewString()))

	if opt.ShowCommand {
		fmt.Fprintln(e.out, command)
	}

	start := time.Now()
	raw, err := e.runner.Run(ctx, command)
	output := string(raw)
	if err == nil {
		logger.Debug("command succeeded", lg.Duration("elapsed", time.Since(start)))
		if opt.Verbose {
			printBlock(e.out, output)
		}
		return Success{Output: output}
	}

	kind := kindOf(err)
	if ctx.Err() != nil {
		kind = KindCanceled
	}
	logger.Debug("command failed",
		lg.String("kind", kind),
		lg.Err(err),
		lg.Duration("elapsed", time.Since(start)))
	if opt.ShowErrors {
		fmt.Fprintf(e.out, "Command failed with %s:\n", kind)
		printBlock(e.out, output)
	}
	return Failure{Kind: kind, Output: output}
}

// printBlock writes s terminated by exactly one newline of its own.
func printBlock(w io.Writer, s string) {
	fmt.Fprint(w, s)
	if !strings.HasSuffix(s, "\n") {
		fmt.Fprintln(w)
	}
}
