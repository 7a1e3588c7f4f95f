package executor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ssh"
)

type brokenClient struct {
	calls int
}

func (c *brokenClient) NewSession() (*ssh.Session, error) {
	c.calls++
	return nil, errors.New("connection reset")
}

func (c *brokenClient) Close() error { return nil }

func TestSSHRunnerSessionFailure(t *testing.T) {
	client := &brokenClient{}
	r := NewSSHRunner(client)

	_, err := r.Run(context.Background(), "uptime")

	var sessErr *SessionError
	require.ErrorAs(t, err, &sessErr)
	assert.Equal(t, KindSession, kindOf(err))
	assert.Equal(t, 1, client.calls)
}

func TestSSHRunnerBreakerOpens(t *testing.T) {
	client := &brokenClient{}
	r := NewSSHRunner(client)

	for i := 0; i < 6; i++ {
		_, err := r.Run(context.Background(), "uptime")
		require.Error(t, err)
	}
	_, err := r.Run(context.Background(), "uptime")

	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, 6, client.calls)
}

func TestSSHRunnerFailureThroughExecutor(t *testing.T) {
	ex := New(NewSSHRunner(&brokenClient{}), &discard{})

	res := ex.Execute(context.Background(), "uptime", ExecOptions{})

	failure, ok := res.(Failure)
	require.True(t, ok)
	assert.Equal(t, KindSession, failure.Kind)
}

func TestAuthMethods(t *testing.T) {
	dir := t.TempDir()
	badKey := filepath.Join(dir, "id_bad")
	require.NoError(t, os.WriteFile(badKey, []byte("not a key"), 0600))

	tests := []struct {
		name    string
		cfg     SSHConfig
		methods int
		wantErr bool
	}{
		{name: "nothing configured", cfg: SSHConfig{}, wantErr: true},
		{name: "password", cfg: SSHConfig{Password: "secret"}, methods: 1},
		{name: "missing key", cfg: SSHConfig{KeyPath: filepath.Join(dir, "absent")}, wantErr: true},
		{name: "unparsable key", cfg: SSHConfig{KeyPath: badKey}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			methods, err := authMethods(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, methods, tt.methods)
		})
	}
}

func TestHostKeyCallback(t *testing.T) {
	cb, err := hostKeyCallback("")
	require.NoError(t, err)
	assert.NotNil(t, cb)

	_, err = hostKeyCallback(filepath.Join(t.TempDir(), "missing_known_hosts"))
	assert.Error(t, err)
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
