package main

import (
	"github.com/spf13/cobra"

	"donations/internal/config"
	"donations/internal/infra"
	"donations/pkg/logger"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		logger.Setup(cfg.LogLevel)

		return runMigrations(cfg)
	},
}

func runMigrations(cfg *config.Config) error {
	return infra.RunMigrations(cfg.MigrationsPath, cfg.PostgresURL)
}
