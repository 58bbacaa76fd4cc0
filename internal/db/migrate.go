package db

import (
	"errors"

	"github.com/newsroom-labs/domaingraph/internal/util"
	"github.com/newsroom-labs/domaingraph/pkg/logger"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// Migrate applies all pending schema migrations. The migration directory
// defaults to ./migrations.
func Migrate() error {
	databaseURL := util.GetEnv("DATABASE_URL")
	migrationsPath := util.GetEnvString("MIGRATIONS_PATH", "file://migrations")

	m, err := migrate.New(migrationsPath, databaseURL)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Debug("[DB] No pending migrations")
			return nil
		}
		return err
	}

	logger.Info("[DB] Migrations applied")
	return nil
}
