package database

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Tomlord1122/todo-tracker/internal/config"
	"github.com/Tomlord1122/todo-tracker/internal/domain"
)

// Service owns the connection pool for one backing database.
type Service interface {
	Health() map[string]string
	Migrate() error
	Close() error
	GetDB() *gorm.DB
}

type service struct {
	db     *gorm.DB
	driver string
	name   string
}

// New opens a fresh connection pool. Each call returns an independent
// service; callers own its lifetime and must Close it.
func New(cfg config.Database) (Service, error) {
	if cfg.Driver == "" {
		cfg.Driver = config.DriverSQLite
	}
	dialector, name, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         newLogger(cfg.LogLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to %s database: %w", cfg.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get underlying sql.DB: %w", err)
	}
	if cfg.Driver == config.DriverSQLite {
		// SQLite serializes writers; a single connection avoids SQLITE_BUSY.
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)

	return &service{db: db, driver: cfg.Driver, name: name}, nil
}

func dialectorFor(cfg config.Database) (gorm.Dialector, string, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		if cfg.Path == "" {
			return nil, "", fmt.Errorf("sqlite database path is empty")
		}
		if dir := filepath.Dir(cfg.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, "", fmt.Errorf("create database directory: %w", err)
			}
		}
		// busy_timeout lets other processes sharing the file wait for the write lock.
		dsn := cfg.Path + "?_busy_timeout=5000&_journal_mode=WAL"
		return sqlite.Open(dsn), cfg.Path, nil
	case config.DriverPostgres:
		dsn := cfg.DSN
		if dsn == "" {
			dsn = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
				cfg.Host, cfg.Username, cfg.Password, cfg.Name, cfg.Port)
		}
		return postgres.New(postgres.Config{DSN: dsn}), cfg.Name, nil
	default:
		return nil, "", fmt.Errorf("unsupported DB_DRIVER %q (want %q or %q)", cfg.Driver, config.DriverSQLite, config.DriverPostgres)
	}
}

func newLogger(level string) logger.Interface {
	lvl := logger.Info
	switch level {
	case "silent":
		lvl = logger.Silent
	case "error":
		lvl = logger.Error
	case "warn":
		lvl = logger.Warn
	}
	return logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  lvl,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)
}

func (s *service) GetDB() *gorm.DB {
	return s.db
}

// Migrate creates the todos table when it does not exist yet.
func (s *service) Migrate() error {
	if err := s.db.AutoMigrate(&domain.Todo{}); err != nil {
		return fmt.Errorf("migrate todos table: %w", err)
	}
	return nil
}

// Health pings the database and reports the driver plus a few pool
// counters. SQLite runs on a single connection, so only in_use and
// wait_count say much there.
func (s *service) Health() map[string]string {
	stats := map[string]string{"driver": s.driver, "status": "down"}

	sqlDB, err := s.db.DB()
	if err != nil {
		log.Printf("health: no underlying DB: %v", err)
		stats["error"] = "database unavailable"
		return stats
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		log.Printf("health: ping failed: %v", err)
		stats["error"] = "db down"
		return stats
	}

	pool := sqlDB.Stats()
	stats["status"] = "up"
	stats["open_connections"] = strconv.Itoa(pool.OpenConnections)
	stats["in_use"] = strconv.Itoa(pool.InUse)
	stats["wait_count"] = strconv.FormatInt(pool.WaitCount, 10)
	return stats
}

func (s *service) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		log.Printf("Error getting underlying sql.DB for closing: %v", err)
		return err
	}
	log.Printf("Closing connection pool for %s database: %s", s.driver, s.name)
	return sqlDB.Close()
}
