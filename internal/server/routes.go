package server

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Tomlord1122/todo-tracker/internal/domain"
	"github.com/Tomlord1122/todo-tracker/internal/service"
)

const maxBodyBytes = 1 << 20

func (s *Server) RegisterRoutes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondWithError(w, http.StatusNotFound, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Get("/", s.HelloWorldHandler)
	r.Get("/health", s.healthHandler)

	api := func(r chi.Router) {
		if s.apiPrefix != "" {
			r.Get("/health", s.healthHandler)
		}
		r.Route("/todos", func(r chi.Router) {
			r.Get("/", s.getAllTodosHandler)
			r.Post("/", s.createTodoHandler)
			r.Get("/{id}", s.getTodoByIDHandler)
			r.Put("/{id}", s.updateTodoHandler)
			r.Delete("/{id}", s.deleteTodoHandler)
		})
	}
	if s.apiPrefix != "" {
		r.Route(s.apiPrefix, api)
	} else {
		api(r)
	}

	return r
}

func (s *Server) HelloWorldHandler(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{
		"message": "Todo tracker API",
		"todos":   s.apiPrefix + "/todos",
		"health":  "/health",
	})
}

type healthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Uptime    float64           `json:"uptime"`
	Database  map[string]string `json:"database,omitempty"`
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:    "OK",
		Timestamp: time.Now().UTC().Format(service.TimestampLayout),
		Uptime:    time.Since(s.startedAt).Seconds(),
	}

	code := http.StatusOK
	if s.db != nil {
		resp.Database = s.db.Health()
		if resp.Database["status"] == "down" {
			resp.Status = "ERROR"
			code = http.StatusServiceUnavailable
		}
	}
	respondWithJSON(w, code, resp)
}

func (s *Server) getAllTodosHandler(w http.ResponseWriter, r *http.Request) {
	todos, err := s.todoService.GetAllTodos(r.Context())
	if err != nil {
		s.respondWithServiceError(w, r, err, "Failed to retrieve todos")
		return
	}

	count := len(todos)
	respondWithJSON(w, http.StatusOK, envelope{Success: true, Data: todos, Count: &count})
}

func (s *Server) getTodoByIDHandler(w http.ResponseWriter, r *http.Request) {
	todo, err := s.todoService.GetTodoByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondWithServiceError(w, r, err, "Failed to retrieve todo")
		return
	}

	respondWithJSON(w, http.StatusOK, envelope{Success: true, Data: todo})
}

func (s *Server) createTodoHandler(w http.ResponseWriter, r *http.Request) {
	var req service.CreateTodoRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	todo, err := s.todoService.CreateTodo(r.Context(), req)
	if err != nil {
		s.respondWithServiceError(w, r, err, "Failed to create todo")
		return
	}

	respondWithJSON(w, http.StatusCreated, envelope{Success: true, Data: todo})
}

func (s *Server) updateTodoHandler(w http.ResponseWriter, r *http.Request) {
	var req service.UpdateTodoRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	todo, err := s.todoService.UpdateTodo(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		s.respondWithServiceError(w, r, err, "Failed to update todo")
		return
	}

	respondWithJSON(w, http.StatusOK, envelope{Success: true, Data: todo})
}

func (s *Server) deleteTodoHandler(w http.ResponseWriter, r *http.Request) {
	err := s.todoService.DeleteTodo(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondWithServiceError(w, r, err, "Failed to delete todo")
		return
	}

	respondWithJSON(w, http.StatusOK, envelope{Success: true, Message: "Todo deleted successfully"})
}

// respondWithServiceError maps the service error taxonomy onto HTTP.
// Anything unclassified is logged and reported with fallback only.
func (s *Server) respondWithServiceError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	var validationErr *domain.ValidationError
	switch {
	case errors.As(err, &validationErr):
		respondWithError(w, http.StatusBadRequest, validationErr.Message)
	case errors.Is(err, domain.ErrNotFound):
		respondWithError(w, http.StatusNotFound, "Todo not found")
	default:
		log.Printf("[%s] %s %s: %v", middleware.GetReqID(r.Context()), r.Method, r.URL.Path, err)
		respondWithError(w, http.StatusInternalServerError, fallback)
	}
}
