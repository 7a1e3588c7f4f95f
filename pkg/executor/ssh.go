package executor

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
)

// SSHConfig describes how to reach a remote host whose shell runs the commands.
type SSHConfig struct {
	Addr           string
	User           string
	Password       string
	KeyPath        string
	KnownHostsPath string // empty disables host key checking
	Timeout        time.Duration
}

// SSHClient is the part of *ssh.Client the runner needs.
type SSHClient interface {
	NewSession() (*ssh.Session, error)
	Close() error
}

// SSHRunner runs commands in a fresh session on a remote host. Session
// creation goes through a circuit breaker so a dead host fails fast while a
// Poller keeps retrying.
type SSHRunner struct {
	client  SSHClient
	breaker *gobreaker.CircuitBreaker
}

var _ Runner = (*SSHRunner)(nil)

// DialSSH connects to cfg.Addr and returns a runner bound to that connection.
func DialSSH(cfg SSHConfig) (*SSHRunner, error) {
	auth, err := authMethods(cfg)
	if err != nil {
		return nil, err
	}
	hostKey, err := hostKeyCallback(cfg.KnownHostsPath)
	if err != nil {
		return nil, err
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	addr := cfg.Addr
	if _, _, err := net.SplitHostPort(addr); err != nil {
		addr = net.JoinHostPort(addr, "22")
	}

	client, err := ssh.Dial("tcp", addr, &ssh.ClientConfig{
		User:            cfg.User,
		Auth:            auth,
		HostKeyCallback: hostKey,
		Timeout:         timeout,
		BannerCallback:  func(message string) error { return nil },
	})
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", addr, err)
	}
	return NewSSHRunner(client), nil
}

// NewSSHRunner wraps an established client.
func NewSSHRunner(client SSHClient) *SSHRunner {
	cbs := gobreaker.Settings{
		Name:        "ssh-session",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
	}
	return &SSHRunner{client: client, breaker: gobreaker.NewCircuitBreaker(cbs)}
}

// Run opens a session, runs command there and returns the combined output.
// Transport problems come back as *SessionError; a non-zero remote exit
// comes back as *ssh.ExitError.
func (r *SSHRunner) Run(ctx context.Context, command string) ([]byte, error) {
	res, err := r.breaker.Execute(func() (any, error) {
		return r.client.NewSession()
	})
	if err != nil {
		return nil, &SessionError{Err: fmt.Errorf("new session: %w", err)}
	}
	sess := res.(*ssh.Session)
	defer sess.Close()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = sess.Signal(ssh.SIGKILL)
			_ = sess.Close()
		case <-done:
		}
	}()

	out, err := sess.CombinedOutput(command)
	if err != nil {
		var exitErr *ssh.ExitError
		if errors.As(err, &exitErr) {
			return out, err
		}
		if ctx.Err() != nil {
			return out, ctx.Err()
		}
		return out, &SessionError{Err: err}
	}
	return out, nil
}

func (r *SSHRunner) Close() error {
	return r.client.Close()
}

func authMethods(cfg SSHConfig) ([]ssh.AuthMethod, error) {
	var methods []ssh.AuthMethod
	if cfg.KeyPath != "" {
		key, err := os.ReadFile(cfg.KeyPath)
		if err != nil {
			return nil, fmt.Errorf("unable to read private key: %w", err)
		}
		signer, err := ssh.ParsePrivateKey(key)
		if err != nil {
			return nil, fmt.Errorf("unable to parse private key: %w", err)
		}
		methods = append(methods, ssh.PublicKeys(signer))
	}
	if cfg.Password != "" {
		methods = append(methods, ssh.Password(cfg.Password))
	}
	if len(methods) == 0 {
		return nil, errors.New("ssh: no key or password configured")
	}
	return methods, nil
}

func hostKeyCallback(knownHostsPath string) (ssh.HostKeyCallback, error) {
	if knownHostsPath == "" {
		return ssh.InsecureIgnoreHostKey(), nil
	}
	cb, err := knownhosts.New(knownHostsPath)
	if err != nil {
		return nil, fmt.Errorf("load known hosts %s: %w", knownHostsPath, err)
	}
	return cb, nil
}
