package connect

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/joshua-takyi/events/migrations"
)

// NewMigrator opens a dedicated handle on dsn and builds a migrate instance
// over the embedded migrations for driverName. Closing the returned Migrate
// also closes that handle.
func NewMigrator(driverName, dsn string, logger *slog.Logger) (*migrate.Migrate, error) {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	m, err := newMigrator(db, driverName, logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return m, nil
}

func newMigrator(db *sql.DB, driverName string, logger *slog.Logger) (*migrate.Migrate, error) {
	src, err := iofs.New(migrations.FS, driverName)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s migrations: %w", driverName, err)
	}

	var drv database.Driver
	switch driverName {
	case "postgres":
		drv, err = postgres.WithInstance(db, &postgres.Config{})
	case "sqlite3":
		drv, err = sqlite3.WithInstance(db, &sqlite3.Config{})
	default:
		return nil, fmt.Errorf("migrations are not available for driver %q", driverName)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to prepare migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, driverName, drv)
	if err != nil {
		return nil, fmt.Errorf("migration init failed: %w", err)
	}
	m.Log = &migrateLogger{logger: logger}
	return m, nil
}

// RunMigrations applies every pending up migration.
func RunMigrations(driverName, dsn string, logger *slog.Logger) error {
	m, err := NewMigrator(driverName, dsn, logger)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrations up failed: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to read migration version: %w", err)
	}
	logger.Info("Migrations applied", "driver", driverName, "version", version, "dirty", dirty)
	return nil
}

type migrateLogger struct {
	logger *slog.Logger
}

func (l *migrateLogger) Printf(format string, v ...any) {
	l.logger.Info(fmt.Sprintf(format, v...))
}

func (l *migrateLogger) Verbose() bool { return false }
