// Package cli wires the executor and prompt packages into the provkit command.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/andrej220/provkit/internal/lg"
	"github.com/andrej220/provkit/pkg/config"
	"github.com/andrej220/provkit/pkg/config/configstore"
	"github.com/andrej220/provkit/pkg/executor"
	"github.com/andrej220/provkit/pkg/prompt"
)

// app carries flag values and what PersistentPreRunE builds from them.
type app struct {
	configPath string
	mongo      config.MongoConfig
	debug      bool
	logFormat  string
	sshAddr    string
	sshUser    string
	sshKey     string

	settings config.Settings
	logger   lg.Logger
	runner   executor.Runner
}

// New creates the root command.
func New(version string) *cobra.Command {
	a := &app{logger: lg.Discard}

	root := &cobra.Command{
		Use:           "provkit",
		Short:         "Run provisioning commands until they succeed and collect operator input",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(cmd); err != nil {
				return err
			}
			cmd.SetContext(lg.Attach(cmd.Context(), a.logger))
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	f := root.PersistentFlags()
	f.StringVar(&a.configPath, "config", "", "settings file (.yaml, .toml or .json)")
	f.StringVar(&a.mongo.URI, "mongo-uri", "", "load settings from MongoDB instead of a file")
	f.StringVar(&a.mongo.DBName, "mongo-db", config.SERVICENAME, "MongoDB database holding settings")
	f.StringVar(&a.mongo.CollName, "mongo-collection", "settings", "MongoDB collection holding settings")
	f.StringVar(&a.mongo.ID, "profile", "default", "settings document ID in MongoDB")
	f.BoolVar(&a.debug, "debug", false, "enable debug logging")
	f.StringVar(&a.logFormat, "log-format", "", "json or console")
	f.StringVar(&a.sshAddr, "ssh", "", "run commands on this host over SSH (host[:port])")
	f.StringVar(&a.sshUser, "ssh-user", "", "SSH user")
	f.StringVar(&a.sshKey, "ssh-key", "", "SSH private key path")

	root.AddCommand(newExecCmd(a))
	root.AddCommand(newWaitCmd(a))
	root.AddCommand(newAskCmd(a))
	root.AddCommand(newCollectCmd(a))
	root.AddCommand(newPodCmd(a))
	root.AddCommand(newConfigCmd(a))

	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	store, err := a.store()
	if err != nil {
		return err
	}
	if c, ok := store.(io.Closer); ok {
		defer c.Close()
	}
	settings, err := config.Load(store)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	if a.debug {
		settings.Log.Debug = true
	}
	if a.logFormat != "" {
		settings.Log.Format = a.logFormat
	}
	if a.sshAddr != "" {
		settings.SSH.Addr = a.sshAddr
	}
	if a.sshUser != "" {
		settings.SSH.User = a.sshUser
	}
	if a.sshKey != "" {
		settings.SSH.KeyPath = a.sshKey
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	a.settings = settings
	a.logger = lg.New(&lg.Config{
		ServiceName: config.SERVICENAME,
		Debug:       settings.Log.Debug,
		Format:      settings.Log.Format,
	})
	return nil
}

func (a *app) store() (configstore.ConfigStore, error) {
	switch {
	case a.mongo.URI != "":
		return config.NewStore(config.MongoStore, &a.mongo)
	case a.configPath != "":
		return config.NewStore(config.FileStore, &config.FileConfig{Path: a.configPath})
	default:
		return nil, nil
	}
}

// executor returns an Executor on the configured runner, dialing SSH once.
func (a *app) executor(out io.Writer) (*executor.Executor, error) {
	if a.runner == nil {
		if a.settings.SSH.Enabled() {
			r, err := executor.DialSSH(a.settings.SSH.ExecutorConfig())
			if err != nil {
				return nil, err
			}
			a.logger.Info("using remote runner", lg.String("addr", a.settings.SSH.Addr))
			a.runner = r
		} else {
			a.runner = executor.ShellRunner{Shell: a.settings.Shell}
		}
	}
	return executor.New(a.runner, out), nil
}

// collector prompts on stderr so stdout stays clean for answers.
func (a *app) collector(cmd *cobra.Command) *prompt.Collector {
	var secrets prompt.SecretReader
	if f, ok := cmd.InOrStdin().(*os.File); ok {
		secrets = prompt.TerminalSecrets{In: f, Out: cmd.ErrOrStderr()}
	}
	console := prompt.NewConsole(cmd.InOrStdin(), cmd.ErrOrStderr(), secrets)
	return prompt.NewCollector(console, prompt.WithLogger(a.logger))
}

func (a *app) close() error {
	if c, ok := a.runner.(io.Closer); ok {
		if err := c.Close(); err != nil {
			a.logger.Warn("closing runner", lg.Err(err))
		}
	}
	_ = a.logger.Sync()
	return nil
}
