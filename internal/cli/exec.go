package cli

import (
	"context"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/andrej220/provkit/pkg/executor"
)

func newExecCmd(a *app) *cobra.Command {
	var quiet, noErrors, verbose bool
	cmd := &cobra.Command{
		Use:   "exec -- COMMAND...",
		Short: "Run a shell command once",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ex, err := a.executor(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			res := ex.Execute(cmd.Context(), strings.Join(args, " "), executor.ExecOptions{
				ShowCommand: !quiet,
				ShowErrors:  !noErrors,
				Verbose:     verbose,
			})
			if f, ok := res.(executor.Failure); ok {
				return f
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "do not echo the command")
	cmd.Flags().BoolVar(&noErrors, "no-errors", false, "do not print failure output")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print the command output")
	return cmd
}

func newWaitCmd(a *app) *cobra.Command {
	var (
		verbose bool
		delay   time.Duration
		timeout time.Duration
	)
	cmd := &cobra.Command{
		Use:   "wait -- COMMAND...",
		Short: "Re-run a shell command until it succeeds",
		Long: "Re-run a shell command until it succeeds. There is no attempt limit; " +
			"use --timeout or interrupt the process to give up.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ex, err := a.executor(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("delay") {
				delay = a.settings.PollDelay
			}
			ctx := cmd.Context()
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}
			p := executor.NewPoller(ex, cmd.OutOrStdout(), delay)
			_, err = p.ExecuteUntilSuccess(ctx, strings.Join(args, " "), verbose)
			return err
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print the output once the command succeeds")
	cmd.Flags().DurationVar(&delay, "delay", executor.DefaultDelay, "pause between attempts")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "give up after this long (0 waits forever)")
	return cmd
}
