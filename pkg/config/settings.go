package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/andrej220/provkit/pkg/executor"
)

const SERVICENAME = "provkit"

// Settings configures the CLI around the executor and prompt packages.
type Settings struct {
	Shell     string        `yaml:"shell" toml:"shell" json:"shell" bson:"shell" validate:"required"`
	PollDelay time.Duration `yaml:"pollDelay" toml:"pollDelay" json:"pollDelay" bson:"pollDelay" validate:"gte=0"`

	Log struct {
		Debug  bool   `yaml:"debug" toml:"debug" json:"debug" bson:"debug"`
		Format string `yaml:"format" toml:"format" json:"format" bson:"format" validate:"oneof=json console"`
	} `yaml:"log" toml:"log" json:"log" bson:"log"`

	SSH SSHSettings `yaml:"ssh" toml:"ssh" json:"ssh" bson:"ssh"`

	Kube struct {
		Namespace string `yaml:"namespace" toml:"namespace" json:"namespace" bson:"namespace" validate:"omitempty,hostname_rfc1123"`
		Container string `yaml:"container" toml:"container" json:"container" bson:"container"`
	} `yaml:"kube" toml:"kube" json:"kube" bson:"kube"`
}

// SSHSettings selects a remote runner. An empty Addr means run locally.
type SSHSettings struct {
	Addr           string        `yaml:"addr" toml:"addr" json:"addr" bson:"addr" validate:"omitempty,hostname_port|hostname_rfc1123"`
	User           string        `yaml:"user" toml:"user" json:"user" bson:"user" validate:"required_with=Addr"`
	Password       string        `yaml:"password" toml:"password" json:"password" bson:"password"`
	KeyPath        string        `yaml:"keyPath" toml:"keyPath" json:"keyPath" bson:"keyPath"`
	KnownHostsPath string        `yaml:"knownHosts" toml:"knownHosts" json:"knownHosts" bson:"knownHosts"`
	Timeout        time.Duration `yaml:"timeout" toml:"timeout" json:"timeout" bson:"timeout" validate:"gte=0"`
}

// Enabled reports whether commands should go over SSH.
func (s SSHSettings) Enabled() bool { return s.Addr != "" }

// ExecutorConfig converts the settings for executor.DialSSH.
func (s SSHSettings) ExecutorConfig() executor.SSHConfig {
	return executor.SSHConfig{
		Addr:           s.Addr,
		User:           s.User,
		Password:       s.Password,
		KeyPath:        s.KeyPath,
		KnownHostsPath: s.KnownHostsPath,
		Timeout:        s.Timeout,
	}
}

var ErrSSHAuth = errors.New("ssh needs keyPath or password")

// Default returns the settings used when no store is configured.
func Default() Settings {
	var s Settings
	s.Shell = executor.DefaultShell
	s.PollDelay = executor.DefaultDelay
	s.Log.Format = "console"
	s.Kube.Namespace = "default"
	s.SSH.Timeout = 10 * time.Second
	return s
}

var validate = validator.New()

func (s Settings) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	if s.SSH.Enabled() && s.SSH.KeyPath == "" && s.SSH.Password == "" {
		return ErrSSHAuth
	}
	return nil
}
