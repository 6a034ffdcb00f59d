package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"lawdesk-backend/internal/config"
	"lawdesk-backend/internal/logger"
)

type rootOptions struct {
	configPath string
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "lawdesk",
		Short:         "LawDesk office membership backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "config/config.dev.yaml",
		"path to configuration file (empty to use environment only)")

	cmd.AddCommand(newServeCommand(opts), newMigrateCommand(opts))
	return cmd
}

// load reads configuration and initializes the process logger.
func (o *rootOptions) load() (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	return cfg, nil
}
