package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/andrej220/provkit/internal/persistence"
	"github.com/andrej220/provkit/pkg/prompt"
)

func newAskCmd(a *app) *cobra.Command {
	var (
		allowed   []string
		sensitive bool
	)
	cmd := &cobra.Command{
		Use:   "ask QUESTION",
		Short: "Ask one question and print the answer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			answer, err := a.collector(cmd).Response(args[0], allowed, sensitive)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), answer)
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&allowed, "allow", nil, "accepted answers (repeat or comma-separate)")
	cmd.Flags().BoolVarP(&sensitive, "sensitive", "s", false, "read without echo")
	return cmd
}

type collectFlags struct {
	textAppend string
	out        string
	overwrite  bool
}

func (f *collectFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.textAppend, "append", "", "text appended to every prompt")
	cmd.Flags().StringVarP(&f.out, "out", "o", "", "write the result to this file (.json or .yaml) instead of stdout")
	cmd.Flags().BoolVar(&f.overwrite, "overwrite", false, "replace an existing --out file")
}

func (f *collectFlags) emit(cmd *cobra.Command, data any) error {
	if f.out != "" {
		return persistence.Write(data, f.out, f.overwrite)
	}
	b, err := persistence.SerializerFor(".json").Marshal(data)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(b))
	return nil
}

func newCollectCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "collect",
		Short: "Collect several values or files",
	}
	cmd.AddCommand(newCollectDataCmd(a))
	cmd.AddCommand(newCollectFilesCmd(a))
	return cmd
}

func newCollectDataCmd(a *app) *cobra.Command {
	var (
		flags     collectFlags
		sensitive []string
	)
	cmd := &cobra.Command{
		Use:   "data NAME...",
		Short: "Prompt for each NAME and output the answers",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fields := make([]prompt.Field, 0, len(args))
			for _, name := range args {
				fields = append(fields, prompt.Field{Name: name, Sensitive: slices.Contains(sensitive, name)})
			}
			data, err := a.collector(cmd).CollectData(fields, flags.textAppend)
			if err != nil {
				return err
			}
			return flags.emit(cmd, data)
		},
	}
	flags.register(cmd)
	cmd.Flags().StringSliceVar(&sensitive, "sensitive", nil, "names read without echo")
	return cmd
}

func newCollectFilesCmd(a *app) *cobra.Command {
	var (
		flags    collectFlags
		cleanKey bool
	)
	cmd := &cobra.Command{
		Use:   "files [NAME...]",
		Short: "Prompt for a file path per NAME and output the file contents",
		RunE: func(cmd *cobra.Command, args []string) error {
			fields := prompt.Names(args...)
			if len(fields) == 0 {
				if !cleanKey {
					return fmt.Errorf("at least one NAME is required without --clean-key")
				}
				fields = []prompt.Field{{}}
			}
			files, err := a.collector(cmd).CollectFiles(fields, flags.textAppend, cleanKey)
			if err != nil {
				return err
			}
			return flags.emit(cmd, files)
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&cleanKey, "clean-key", false, "key each file by its sanitized base name")
	return cmd
}
