package executor

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/andrej220/provkit/internal/lg"
	"github.com/cenkalti/backoff/v4"
)

const (
	// DefaultDelay is the pause between attempts when none is configured.
	DefaultDelay = 3 * time.Second
	// ProgressMarker is printed, without newline, after every failed attempt.
	ProgressMarker = "."
)

// Poller re-runs a command until it succeeds, for waiting on a dependency
// to become ready.
//
// There is deliberately no attempt limit. The loop ends on success or when
// the caller's context is done; wrap ctx with a timeout to bound it.
type Poller struct {
	exec  CommandExecutor
	out   io.Writer
	delay time.Duration
}

// NewPoller returns a Poller waiting delay between attempts. Negative delays
// are treated as zero.
func NewPoller(exec CommandExecutor, out io.Writer, delay time.Duration) *Poller {
	if out == nil {
		out = os.Stdout
	}
	if delay < 0 {
		delay = 0
	}
	return &Poller{exec: exec, out: out, delay: delay}
}

// ExecuteUntilSuccess returns the output of the first successful attempt.
// Only the first attempt echoes the command and its failure; later attempts
// print a progress marker instead. The returned error is non-nil only when
// ctx ends before the command succeeds.
func (p *Poller) ExecuteUntilSuccess(ctx context.Context, command string, verbose bool) (string, error) {
	logger := lg.FromContext(ctx).With(lg.String("command", command))

	attempt := 0
	operation := func() (string, error) {
		attempt++
		opts := ExecOptions{}
		if attempt == 1 {
			opts.ShowCommand = true
			opts.ShowErrors = true
		}
		switch r := p.exec.Execute(ctx, command, opts).(type) {
		case Success:
			return r.Output, nil
		case Failure:
			return "", r
		default:
			return "", fmt.Errorf("unexpected result %T", r)
		}
	}
	notify := func(err error, next time.Duration) {
		fmt.Fprint(p.out, ProgressMarker)
		logger.Debug("command not ready yet",
			lg.Int("attempt", attempt),
			lg.Duration("next", next),
			lg.Err(err))
	}

	b := backoff.WithContext(backoff.NewConstantBackOff(p.delay), ctx)
	output, err := backoff.RetryNotifyWithData[string](operation, b, notify)
	if err != nil {
		logger.Warn("stopped waiting for command", lg.Int("attempts", attempt), lg.Err(err))
		return "", err
	}

	logger.Info("command succeeded", lg.Int("attempts", attempt))
	if verbose {
		printBlock(p.out, output)
	}
	return output, nil
}
