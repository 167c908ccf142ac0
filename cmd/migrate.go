package main

import (
	"github.com/spf13/cobra"

	"github.com/dtroode/medapp-server/database"
	"github.com/dtroode/medapp-server/internal/config"
	"github.com/dtroode/medapp-server/internal/logger"
)

type loadFunc func() (*config.Config, *logger.Logger, error)

func newMigrateCmd(load loadFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := load()
			if err != nil {
				return err
			}
			if err := database.Migrate(cmd.Context(), cfg.Database.DSN); err != nil {
				return err
			}
			log.Info("Migrations applied")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := load()
			if err != nil {
				return err
			}
			if err := database.Rollback(cmd.Context(), cfg.Database.DSN); err != nil {
				return err
			}
			log.Info("Migration rolled back")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Print the state of every migration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := load()
			if err != nil {
				return err
			}
			return database.Status(cmd.Context(), cfg.Database.DSN)
		},
	})

	return cmd
}
