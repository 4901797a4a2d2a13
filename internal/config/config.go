package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds everything the API process reads from its environment.
type Config struct {
	Port            int
	APIPrefix       string
	AllowedOrigins  []string
	ShutdownTimeout time.Duration
	Database        Database
}

// Database selects and parameterizes the backing store.
type Database struct {
	Driver string

	// sqlite
	Path string

	// postgres; DSN wins over the individual fields when set
	DSN      string
	Host     string
	Port     string
	Username string
	Password string
	Name     string

	LogLevel string
}

// Load builds a Config from the environment. Malformed values are reported
// and replaced by their defaults, the same way the server always treated PORT.
func Load() Config {
	return Config{
		Port:            intEnv("PORT", 8080),
		APIPrefix:       prefixEnv("API_PREFIX", "/api"),
		AllowedOrigins:  listEnv("CORS_ALLOWED_ORIGINS", []string{"https://*", "http://*"}),
		ShutdownTimeout: durationEnv("SHUTDOWN_TIMEOUT", 5*time.Second),
		Database: Database{
			Driver:   strings.ToLower(stringEnv("DB_DRIVER", DriverSQLite)),
			Path:     stringEnv("DB_PATH", "todos.db"),
			DSN:      os.Getenv("DB_DSN"),
			Host:     stringEnv("BLUEPRINT_DB_HOST", "localhost"),
			Port:     stringEnv("BLUEPRINT_DB_PORT", "5432"),
			Username: os.Getenv("BLUEPRINT_DB_USERNAME"),
			Password: os.Getenv("BLUEPRINT_DB_PASSWORD"),
			Name:     os.Getenv("BLUEPRINT_DB_DATABASE"),
			LogLevel: strings.ToLower(stringEnv("DB_LOG_LEVEL", "info")),
		},
	}
}

func stringEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func intEnv(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		log.Printf("Warning: invalid %s environment variable '%s'. Using default %d.", key, raw, def)
		return def
	}
	return v
}

func durationEnv(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := time.ParseDuration(raw)
	if err != nil || v <= 0 {
		log.Printf("Warning: invalid %s environment variable '%s'. Using default %s.", key, raw, def)
		return def
	}
	return v
}

func listEnv(key string, def []string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

// prefixEnv normalizes a route prefix to "/x" form; "/" or "" mean no prefix.
func prefixEnv(key, def string) string {
	raw, ok := os.LookupEnv(key)
	if !ok {
		raw = def
	}
	p := strings.Trim(strings.TrimSpace(raw), "/")
	if p == "" {
		return ""
	}
	return "/" + p
}
