package executor

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var ErrPodNotFound = errors.New("no pod matched the selector")

// PodExecutor runs commands inside a Kubernetes pod and reads its logs,
// by prefixing kubectl invocations and handing them to a CommandExecutor.
type PodExecutor struct {
	exec       CommandExecutor
	Pod        string
	Namespace  string
	Verbose    bool
	prefixExec string
	prefixLogs string
}

func NewPodExecutor(exec CommandExecutor, pod, namespace, container string, verbose bool) *PodExecutor {
	extra := ""
	if container != "" {
		extra = fmt.Sprintf("--container %s ", container)
	}
	return &PodExecutor{
		exec:       exec,
		Pod:        pod,
		Namespace:  namespace,
		Verbose:    verbose,
		prefixExec: fmt.Sprintf("kubectl exec %s -n %s %s-- ", pod, namespace, extra),
		prefixLogs: fmt.Sprintf("kubectl logs %s -n %s %s", pod, namespace, extra),
	}
}

// Execute runs command in the pod.
func (p *PodExecutor) Execute(ctx context.Context, command string) Result {
	return p.exec.Execute(ctx, p.prefixExec+command, ExecOptions{
		ShowCommand: true,
		ShowErrors:  true,
		Verbose:     p.Verbose,
	})
}

// Logs returns the last tail lines of the pod log (all of them when tail is
// negative), optionally starting at sinceTime (RFC3339). Failures yield "".
func (p *PodExecutor) Logs(ctx context.Context, tail int, sinceTime string) string {
	command := fmt.Sprintf("--tail=%d", tail)
	if sinceTime != "" {
		command += fmt.Sprintf(" --since-time='%s'", sinceTime)
	}
	res := p.exec.Execute(ctx, p.prefixLogs+command, ExecOptions{
		ShowCommand: true,
		ShowErrors:  true,
		Verbose:     p.Verbose,
	})
	if s, ok := res.(Success); ok {
		return s.Output
	}
	return ""
}

// GetPod resolves the first pod labelled with app and release in namespace.
func GetPod(ctx context.Context, exec CommandExecutor, namespace, release, app string, verbose bool) (*PodExecutor, error) {
	command := fmt.Sprintf(
		`kubectl get pods -n %s -l "app=%s,release=%s" -o jsonpath="{.items[0].metadata.name}"`,
		namespace, app, release)
	res := exec.Execute(ctx, command, ExecOptions{ShowCommand: true, ShowErrors: true, Verbose: verbose})
	s, ok := res.(Success)
	if !ok || strings.TrimSpace(s.Output) == "" {
		return nil, fmt.Errorf("%w: app=%s release=%s namespace=%s", ErrPodNotFound, app, release, namespace)
	}
	return NewPodExecutor(exec, strings.TrimSpace(s.Output), namespace, "", verbose), nil
}
