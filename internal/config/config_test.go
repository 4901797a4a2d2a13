package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "CORS_ALLOWED_ORIGINS", "SHUTDOWN_TIMEOUT",
		"DB_DRIVER", "DB_PATH", "DB_DSN", "DB_LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
	// An empty API_PREFIX means "no prefix", so set the default explicitly.
	t.Setenv("API_PREFIX", "/api")

	cfg := Load()

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "/api", cfg.APIPrefix)
	assert.Equal(t, []string{"https://*", "http://*"}, cfg.AllowedOrigins)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "todos.db", cfg.Database.Path)
	assert.Equal(t, "info", cfg.Database.LogLevel)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("API_PREFIX", "v1/")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000, https://example.com ,")
	t.Setenv("SHUTDOWN_TIMEOUT", "12s")
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("DB_DSN", "postgres://u:p@db:5432/todos")
	t.Setenv("DB_LOG_LEVEL", "SILENT")

	cfg := Load()

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "/v1", cfg.APIPrefix)
	assert.Equal(t, []string{"http://localhost:3000", "https://example.com"}, cfg.AllowedOrigins)
	assert.Equal(t, 12*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, "postgres://u:p@db:5432/todos", cfg.Database.DSN)
	assert.Equal(t, "silent", cfg.Database.LogLevel)
}

func TestLoadFallsBackOnMalformedValues(t *testing.T) {
	t.Setenv("PORT", "not-a-port")
	t.Setenv("SHUTDOWN_TIMEOUT", "soon")
	t.Setenv("API_PREFIX", "/")

	cfg := Load()

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "", cfg.APIPrefix)
}
