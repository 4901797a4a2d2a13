package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/Tomlord1122/todo-tracker/internal/config"
	"github.com/Tomlord1122/todo-tracker/internal/database"
	"github.com/Tomlord1122/todo-tracker/internal/service"
)

type Server struct {
	port           int
	apiPrefix      string
	allowedOrigins []string
	startedAt      time.Time
	todoService    service.TodoService
	db             database.Service
}

// New builds the application server. Dependencies are passed in so tests
// can mount the router over an isolated database.
func New(cfg config.Config, todoService service.TodoService, dbService database.Service) *Server {
	return &Server{
		port:           cfg.Port,
		apiPrefix:      cfg.APIPrefix,
		allowedOrigins: cfg.AllowedOrigins,
		startedAt:      time.Now(),
		todoService:    todoService,
		db:             dbService,
	}
}

// NewServer wraps the application server in an *http.Server listening on cfg.Port.
func NewServer(cfg config.Config, todoService service.TodoService, dbService database.Service) *http.Server {
	appServer := New(cfg, todoService, dbService)

	return &http.Server{
		Addr:         fmt.Sprintf(":%d", appServer.port),
		Handler:      appServer.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}
