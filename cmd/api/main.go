package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"

	"github.com/Tomlord1122/todo-tracker/internal/config"
	"github.com/Tomlord1122/todo-tracker/internal/database"
	"github.com/Tomlord1122/todo-tracker/internal/repository"
	"github.com/Tomlord1122/todo-tracker/internal/server"
	"github.com/Tomlord1122/todo-tracker/internal/service"
)

func main() {
	if err := run(config.Load()); err != nil {
		log.Fatal(err)
	}
	log.Println("Server stopped")
}

// run serves until SIGINT/SIGTERM, then drains in-flight requests for at
// most cfg.ShutdownTimeout before closing the database.
func run(cfg config.Config) error {
	dbService, err := database.New(cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer func() {
		if err := dbService.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	if err := dbService.Migrate(); err != nil {
		return fmt.Errorf("prepare database schema: %w", err)
	}

	todoRepo := repository.NewGormTodoRepository(dbService.GetDB())
	todoService := service.NewTodoService(todoRepo)
	apiServer := server.NewServer(cfg, todoService, dbService)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		log.Printf("Starting server on %s (db=%s, prefix=%q)", apiServer.Addr, cfg.Database.Driver, cfg.APIPrefix)
		serveErr <- apiServer.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	// A second signal kills the process instead of waiting on the drain.
	stop()
	log.Printf("Signal received, draining requests for up to %s", cfg.ShutdownTimeout)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := apiServer.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Printf("Forced shutdown: %v", err)
	}
	return nil
}
