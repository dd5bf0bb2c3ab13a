package connect_test

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/joshua-takyi/events/internal/connect"
	"github.com/joshua-takyi/events/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunMigrations_SQLite(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "events.db")
	logger := discardLogger()

	require.NoError(t, connect.RunMigrations("sqlite3", dsn, logger))
	// a second run is a no-op
	require.NoError(t, connect.RunMigrations("sqlite3", dsn, logger))

	m, err := connect.NewMigrator("sqlite3", dsn, logger)
	require.NoError(t, err)
	version, dirty, err := m.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	assert.False(t, dirty)
	srcErr, dbErr := m.Close()
	require.NoError(t, srcErr)
	require.NoError(t, dbErr)

	ctx := context.Background()
	db, err := connect.OpenSQL(ctx, "sqlite3", dsn, logger)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`INSERT INTO users (id, username) VALUES (1, 'kofi')`)
	require.NoError(t, err)

	repo := models.SQLNewRepo(db)
	now := time.Now().UTC()
	ev, err := repo.CreateEvent(ctx, &models.Event{UserID: 1, Title: "Migrated", CreatedAt: now, UpdatedAt: now})
	require.NoError(t, err)
	assert.Positive(t, ev.EventID)
}

func TestNewMigrator_UnknownDriver(t *testing.T) {
	_, err := connect.NewMigrator("mysql", "whatever", discardLogger())
	assert.Error(t, err)
}

func TestOpenSQL_GivesUpWhenContextEnds(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// nothing listens on port 1
	_, err := connect.OpenSQL(ctx, "postgres", "postgres://u:p@127.0.0.1:1/db?sslmode=disable&connect_timeout=1", discardLogger())
	assert.Error(t, err)
}
