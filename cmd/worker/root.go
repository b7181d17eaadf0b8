package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/rcos/telescope-api/config"
	"github.com/rcos/telescope-api/internal/bootstrap"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "worker",
		Short:         "Maintenance commands for the telescope projects database",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newMigrateCmd(), newSeedCmd())
	return root
}

// loadConfig reads configuration and installs the default logger.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	slog.SetDefault(bootstrap.NewLogger(os.Stderr, cfg.App.Environment, cfg.App.LogLevel))
	return cfg, nil
}
