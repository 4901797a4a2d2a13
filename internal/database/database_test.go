package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/Tomlord1122/todo-tracker/internal/config"
	"github.com/Tomlord1122/todo-tracker/internal/domain"
)

func TestNewSQLite(t *testing.T) {
	dbService, err := New(config.Database{
		Driver:   config.DriverSQLite,
		Path:     filepath.Join(t.TempDir(), "nested", "todos.db"),
		LogLevel: "silent",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = dbService.Close() })

	require.NoError(t, dbService.Migrate())
	// Running the bootstrap twice must be harmless.
	require.NoError(t, dbService.Migrate())
	assert.True(t, dbService.GetDB().Migrator().HasTable(&domain.Todo{}))

	stats := dbService.Health()
	assert.Equal(t, "up", stats["status"])
	assert.Equal(t, config.DriverSQLite, stats["driver"])
	assert.Contains(t, stats, "open_connections")
}

func TestNewReturnsIndependentServices(t *testing.T) {
	dir := t.TempDir()
	first, err := New(config.Database{Path: filepath.Join(dir, "a.db"), LogLevel: "silent"})
	require.NoError(t, err)
	second, err := New(config.Database{Path: filepath.Join(dir, "b.db"), LogLevel: "silent"})
	require.NoError(t, err)

	require.NoError(t, first.Close())
	t.Cleanup(func() { _ = second.Close() })

	assert.Equal(t, "down", first.Health()["status"])
	assert.Equal(t, "up", second.Health()["status"])
}

func TestNewRejectsUnknownDriver(t *testing.T) {
	_, err := New(config.Database{Driver: "oracle"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported DB_DRIVER")
}

func TestNewRejectsEmptySQLitePath(t *testing.T) {
	_, err := New(config.Database{Driver: config.DriverSQLite})
	require.Error(t, err)
}

func TestNewPostgres(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping postgres container test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	container, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("todos"),
		postgres.WithUsername("todo"),
		postgres.WithPassword("todo"),
		postgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, container)
	require.NoError(t, err)

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	dbService, err := New(config.Database{
		Driver:   config.DriverPostgres,
		DSN:      dsn,
		Name:     "todos",
		LogLevel: "silent",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = dbService.Close() })

	require.NoError(t, dbService.Migrate())
	assert.Equal(t, "up", dbService.Health()["status"])
	assert.Equal(t, config.DriverPostgres, dbService.Health()["driver"])
}
