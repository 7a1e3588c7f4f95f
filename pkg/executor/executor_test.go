package executor_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/andrej220/provkit/pkg/executor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecute(t *testing.T) {
	tests := []struct {
		name     string
		command  string
		opts     []executor.ExecOptions
		expected executor.Result
		console  string
	}{
		{
			name:     "default echoes command only",
			command:  "echo output",
			expected: executor.Success{Output: "output\n"},
			console:  "echo output\n",
		},
		{
			name:     "quiet",
			command:  "echo output",
			opts:     []executor.ExecOptions{{ShowCommand: false, ShowErrors: true}},
			expected: executor.Success{Output: "output\n"},
			console:  "",
		},
		{
			name:     "verbose",
			command:  "echo output",
			opts:     []executor.ExecOptions{{ShowCommand: true, ShowErrors: true, Verbose: true}},
			expected: executor.Success{Output: "output\n"},
			console:  "echo output\noutput\n",
		},
		{
			name:     "error",
			command:  "echo boom; exit 3",
			expected: executor.Failure{Kind: executor.KindExit, Output: "boom\n"},
			console:  "echo boom; exit 3\nCommand failed with ExitError:\nboom\n",
		},
		{
			name:     "error quiet",
			command:  "echo boom; exit 3",
			opts:     []executor.ExecOptions{{}},
			expected: executor.Failure{Kind: executor.KindExit, Output: "boom\n"},
			console:  "",
		},
		{
			name:     "verbose failure does not print as success",
			command:  "exit 1",
			opts:     []executor.ExecOptions{{ShowErrors: true, Verbose: true}},
			expected: executor.Failure{Kind: executor.KindExit, Output: ""},
			console:  "Command failed with ExitError:\n\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			ex := executor.New(executor.ShellRunner{}, &out)

			res := ex.Execute(context.Background(), tt.command, tt.opts...)

			assert.Equal(t, tt.expected, res)
			assert.Equal(t, tt.console, out.String())
		})
	}
}

func TestExecuteMergesStderr(t *testing.T) {
	var out bytes.Buffer
	ex := executor.New(executor.ShellRunner{}, &out)

	res := ex.Execute(context.Background(), "echo out; echo err 1>&2; exit 2", executor.ExecOptions{})

	failure, ok := res.(executor.Failure)
	require.True(t, ok, "expected Failure, got %T", res)
	assert.Contains(t, failure.Output, "out")
	assert.Contains(t, failure.Output, "err")
	assert.Empty(t, out.String())
}

func TestExecuteCommandNotFound(t *testing.T) {
	var out bytes.Buffer
	ex := executor.New(executor.ShellRunner{}, &out)

	res := ex.Execute(context.Background(), "provkit_no_such_command_lst")

	failure, ok := res.(executor.Failure)
	require.True(t, ok)
	assert.Equal(t, executor.KindExit, failure.Kind)
	assert.Contains(t, failure.Output, "not found")
	assert.True(t, strings.HasPrefix(out.String(), "provkit_no_such_command_lst\nCommand failed with ExitError:\n"))
}

func TestExecuteMissingShell(t *testing.T) {
	var out bytes.Buffer
	ex := executor.New(executor.ShellRunner{Shell: "/nonexistent/provkit-shell"}, &out)

	res := ex.Execute(context.Background(), "true", executor.ExecOptions{})

	failure, ok := res.(executor.Failure)
	require.True(t, ok)
	assert.Equal(t, executor.KindExec, failure.Kind)
}

func TestExecuteCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out bytes.Buffer
	ex := executor.New(executor.ShellRunner{}, &out)

	res := ex.Execute(ctx, "sleep 5", executor.ExecOptions{})

	failure, ok := res.(executor.Failure)
	require.True(t, ok)
	assert.Equal(t, executor.KindCanceled, failure.Kind)
}

func TestFailureIsError(t *testing.T) {
	var err error = executor.Failure{Kind: executor.KindExit, Output: "nope"}
	assert.EqualError(t, err, "command failed with ExitError: nope")
	assert.Equal(t, "nope", executor.Output(executor.Failure{Output: "nope"}))
	assert.Equal(t, "yes", executor.Output(executor.Success{Output: "yes"}))
}
