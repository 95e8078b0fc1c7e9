package infra

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	log "github.com/sirupsen/logrus"
)

// Separate table so the donation schema can live next to the platform's own migrations.
const migrationsTable = "donation_schema_migrations"

func RunMigrations(sourceURL, dbURL string) error {
	if strings.Contains(dbURL, "?") {
		dbURL += "&x-migrations-table=" + migrationsTable
	} else {
		dbURL += "?x-migrations-table=" + migrationsTable
	}

	m, err := migrate.New(sourceURL, dbURL)
	if err != nil {
		return fmt.Errorf("create migration instance: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}

	version, dirty, _ := m.Version()
	log.WithFields(log.Fields{"version": version, "dirty": dirty}).Info("Database migrations applied")
	return nil
}
