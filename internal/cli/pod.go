package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/andrej220/provkit/pkg/executor"
)

type podFlags struct {
	namespace string
	container string
	verbose   bool
}

func (f *podFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.namespace, "namespace", "n", "", "namespace (defaults to settings)")
	cmd.Flags().StringVarP(&f.container, "container", "c", "", "container within the pod")
	cmd.Flags().BoolVarP(&f.verbose, "verbose", "v", false, "print command output")
}

func (f *podFlags) resolve(a *app) {
	if f.namespace == "" {
		f.namespace = a.settings.Kube.Namespace
	}
	if f.container == "" {
		f.container = a.settings.Kube.Container
	}
}

func newPodCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pod",
		Short: "Run kubectl exec/logs against a pod",
	}
	cmd.AddCommand(newPodExecCmd(a))
	cmd.AddCommand(newPodLogsCmd(a))
	cmd.AddCommand(newPodGetCmd(a))
	return cmd
}

func newPodExecCmd(a *app) *cobra.Command {
	var flags podFlags
	cmd := &cobra.Command{
		Use:   "exec POD -- COMMAND...",
		Short: "Run a command inside a pod",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.resolve(a)
			ex, err := a.executor(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			pod := executor.NewPodExecutor(ex, args[0], flags.namespace, flags.container, flags.verbose)
			if f, ok := pod.Execute(cmd.Context(), strings.Join(args[1:], " ")).(executor.Failure); ok {
				return f
			}
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func newPodLogsCmd(a *app) *cobra.Command {
	var (
		flags podFlags
		tail  int
		since string
	)
	cmd := &cobra.Command{
		Use:   "logs POD",
		Short: "Print pod logs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.resolve(a)
			ex, err := a.executor(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			pod := executor.NewPodExecutor(ex, args[0], flags.namespace, flags.container, false)
			fmt.Fprint(cmd.OutOrStdout(), pod.Logs(cmd.Context(), tail, since))
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().IntVar(&tail, "tail", -1, "lines from the end of the log (-1 for all)")
	cmd.Flags().StringVar(&since, "since-time", "", "only logs newer than this RFC3339 time")
	return cmd
}

func newPodGetCmd(a *app) *cobra.Command {
	var (
		flags    podFlags
		appLabel string
		release  string
	)
	cmd := &cobra.Command{
		Use:   "get",
		Short: "Print the name of the first pod matching app and release labels",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.resolve(a)
			ex, err := a.executor(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			pod, err := executor.GetPod(cmd.Context(), ex, flags.namespace, release, appLabel, flags.verbose)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), pod.Pod)
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&appLabel, "app", "", "app label")
	cmd.Flags().StringVar(&release, "release", "", "release label")
	_ = cmd.MarkFlagRequired("app")
	_ = cmd.MarkFlagRequired("release")
	return cmd
}
