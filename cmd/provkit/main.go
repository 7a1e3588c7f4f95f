package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/andrej220/provkit/internal/cli"
	"github.com/andrej220/provkit/internal/lg"
	"github.com/andrej220/provkit/pkg/config"
	"github.com/andrej220/provkit/pkg/executor"
)

var (
	version = "dev"
	commit  = ""
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	v := version
	if commit != "" {
		v += " (" + commit + ")"
	}

	root := cli.New(v)
	if err := root.ExecuteContext(ctx); err != nil {
		// Failures were already reported on the console by the executor.
		var failure executor.Failure
		if !errors.As(err, &failure) {
			logger := lg.New(&lg.Config{ServiceName: config.SERVICENAME})
			logger.Error("command failed", lg.Err(err))
			_ = logger.Sync()
		}
		stop()
		os.Exit(1)
	}
}
