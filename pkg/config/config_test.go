package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/andrej220/provkit/pkg/config"
	"github.com/andrej220/provkit/pkg/config/filestore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	s := config.Default()
	require.NoError(t, s.Validate())
	assert.Equal(t, "/bin/sh", s.Shell)
	assert.Equal(t, 3*time.Second, s.PollDelay)
	assert.False(t, s.SSH.Enabled())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Settings)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*config.Settings) {}},
		{name: "no shell", mutate: func(s *config.Settings) { s.Shell = "" }, wantErr: true},
		{name: "negative delay", mutate: func(s *config.Settings) { s.PollDelay = -time.Second }, wantErr: true},
		{name: "bad log format", mutate: func(s *config.Settings) { s.Log.Format = "xml" }, wantErr: true},
		{name: "bad namespace", mutate: func(s *config.Settings) { s.Kube.Namespace = "Not_Valid!" }, wantErr: true},
		{
			name: "ssh with key",
			mutate: func(s *config.Settings) {
				s.SSH.Addr = "10.0.0.5:22"
				s.SSH.User = "admin"
				s.SSH.KeyPath = "/home/admin/.ssh/id_ed25519"
			},
		},
		{
			name: "ssh host without port",
			mutate: func(s *config.Settings) {
				s.SSH.Addr = "build-host"
				s.SSH.User = "admin"
				s.SSH.Password = "pw"
			},
		},
		{
			name: "ssh without user",
			mutate: func(s *config.Settings) {
				s.SSH.Addr = "10.0.0.5:22"
				s.SSH.Password = "pw"
			},
			wantErr: true,
		},
		{
			name: "ssh without auth",
			mutate: func(s *config.Settings) {
				s.SSH.Addr = "10.0.0.5:22"
				s.SSH.User = "admin"
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := config.Default()
			tt.mutate(&s)
			err := s.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	for _, ext := range []string{".yaml", ".toml", ".json"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", "provkit"+ext)
			store, err := config.NewStore(config.FileStore, &config.FileConfig{Path: path})
			require.NoError(t, err)

			in := config.Default()
			in.PollDelay = 500 * time.Millisecond
			in.Log.Debug = true
			in.Kube.Namespace = "orderers"
			in.SSH.Addr = "node1:2222"
			in.SSH.User = "ops"
			in.SSH.KeyPath = "/keys/ops"
			require.NoError(t, store.Save(in))

			info, err := os.Stat(path)
			require.NoError(t, err)
			assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

			out, err := config.Load(store)
			require.NoError(t, err)
			assert.Equal(t, in, out)
		})
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "provkit.yaml")
	require.NoError(t, os.WriteFile(path, []byte("pollDelay: 1s\nkube:\n  namespace: peers\n"), 0600))

	s, err := config.Load(filestore.New(path))

	require.NoError(t, err)
	assert.Equal(t, time.Second, s.PollDelay)
	assert.Equal(t, "peers", s.Kube.Namespace)
	assert.Equal(t, "/bin/sh", s.Shell)
	assert.Equal(t, "console", s.Log.Format)
}

func TestLoadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "provkit.toml")
	require.NoError(t, os.WriteFile(path, []byte("shell = \"/bin/bash\"\npollDelay = \"250ms\"\n\n[log]\nformat = \"json\"\n"), 0600))

	s, err := config.Load(filestore.New(path))

	require.NoError(t, err)
	assert.Equal(t, "/bin/bash", s.Shell)
	assert.Equal(t, 250*time.Millisecond, s.PollDelay)
	assert.Equal(t, "json", s.Log.Format)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("  \n"), 0600))
	invalid := filepath.Join(dir, "invalid.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("log:\n  format: xml\n"), 0600))
	broken := filepath.Join(dir, "broken.toml")
	require.NoError(t, os.WriteFile(broken, []byte("shell = \n"), 0600))

	for _, path := range []string{filepath.Join(dir, "missing.yaml"), empty, invalid, broken} {
		_, err := config.Load(filestore.New(path))
		assert.Error(t, err, path)
	}
}

func TestLoadNilStore(t *testing.T) {
	s, err := config.Load(nil)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), s)
}

func TestNewStoreErrors(t *testing.T) {
	_, err := config.NewStore(config.StoreType(42), nil)
	assert.ErrorIs(t, err, config.ErrInvalidStoreType)

	_, err = config.NewStore(config.FileStore, &config.MongoConfig{})
	assert.Error(t, err)

	_, err = config.NewStore(config.MongoStore, &config.FileConfig{})
	assert.Error(t, err)

	_, err = config.NewStore(config.MongoStore, &config.MongoConfig{})
	assert.Error(t, err)
}

func TestExecutorConfig(t *testing.T) {
	s := config.Default()
	s.SSH.Addr = "node1"
	s.SSH.User = "ops"
	s.SSH.Password = "pw"

	cfg := s.SSH.ExecutorConfig()

	assert.Equal(t, "node1", cfg.Addr)
	assert.Equal(t, "ops", cfg.User)
	assert.Equal(t, "pw", cfg.Password)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
}
