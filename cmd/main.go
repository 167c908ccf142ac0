package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dtroode/medapp-server/internal/config"
	"github.com/dtroode/medapp-server/internal/logger"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var envFiles []string

	load := func() (*config.Config, *logger.Logger, error) {
		cfg, err := config.NewConfig(envFiles...)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to parse config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return nil, nil, fmt.Errorf("invalid config: %w", err)
		}
		return cfg, logger.NewWithFormat(os.Stdout, cfg.LogLevel, cfg.LogFormat), nil
	}

	serve := newServeCmd(load)

	root := &cobra.Command{
		Use:          "medapp",
		Short:        "Healthcare community backend",
		SilenceUsage: true,
		RunE:         serve.RunE,
		Version:      buildVersion,
	}
	root.PersistentFlags().StringSliceVar(&envFiles, "env-file", nil, "dotenv files to load before reading the environment (default .env)")
	root.SetVersionTemplate(versionInfo())

	root.AddCommand(serve)
	root.AddCommand(newMigrateCmd(load))

	return root
}

func versionInfo() string {
	return fmt.Sprintf("Build version: %s\nBuild date: %s\nBuild commit: %s\n", buildVersion, buildDate, buildCommit)
}
