package service

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/Tomlord1122/todo-tracker/internal/domain"
	"github.com/Tomlord1122/todo-tracker/internal/repository"
)

// TimestampLayout renders timestamps as UTC ISO-8601 with milliseconds.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// CreateTodoRequest holds the data needed to create a new todo.
// Fields not listed here, including any client-chosen id, are ignored.
type CreateTodoRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
}

// UpdateTodoRequest holds the data for updating an existing todo.
// Each field tells an omitted key apart from an explicit null.
type UpdateTodoRequest struct {
	Title       Optional[string] `json:"title"`
	Description Optional[string] `json:"description"`
	Completed   Optional[bool]   `json:"completed"`
}

// TodoResponse is the representation of a Todo returned to clients.
type TodoResponse struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	Completed   bool    `json:"completed"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

// TodoService defines the operations for managing todos.
// Errors are *domain.ValidationError, domain.ErrNotFound or *domain.StorageError.
type TodoService interface {
	// CreateTodo validates the request and stores a new todo under a fresh id.
	CreateTodo(ctx context.Context, req CreateTodoRequest) (*TodoResponse, error)

	// GetTodoByID retrieves a single todo item by its ID.
	GetTodoByID(ctx context.Context, id string) (*TodoResponse, error)

	// GetAllTodos retrieves every todo, newest first.
	GetAllTodos(ctx context.Context) ([]TodoResponse, error)

	// UpdateTodo applies a partial update to an existing todo.
	UpdateTodo(ctx context.Context, id string, req UpdateTodoRequest) (*TodoResponse, error)

	// DeleteTodo permanently removes a todo.
	DeleteTodo(ctx context.Context, id string) error
}

// todoService implements the TodoService interface.
type todoService struct {
	repo  repository.TodoRepository
	newID func() string
}

// NewTodoService creates a new instance of todoService.
func NewTodoService(repo repository.TodoRepository) TodoService {
	return &todoService{
		repo:  repo,
		newID: uuid.NewString,
	}
}

func toResponse(todo *domain.Todo) TodoResponse {
	return TodoResponse{
		ID:          todo.ID,
		Title:       todo.Title,
		Description: todo.Description,
		Completed:   todo.Completed,
		CreatedAt:   formatTimestamp(todo.CreatedAt),
		UpdatedAt:   formatTimestamp(todo.UpdatedAt),
	}
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

func storageError(op string, err error) error {
	log.Printf("Error in %s: %v", op, err)
	return &domain.StorageError{Op: op, Err: err}
}

func (s *todoService) CreateTodo(ctx context.Context, req CreateTodoRequest) (*TodoResponse, error) {
	title, description, err := validateCreate(req)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, &domain.Todo{
		ID:          s.newID(),
		Title:       title,
		Description: description,
	})
	if err != nil {
		return nil, storageError("create todo", err)
	}

	response := toResponse(created)
	return &response, nil
}

func (s *todoService) GetTodoByID(ctx context.Context, id string) (*TodoResponse, error) {
	id, err := validateID(id)
	if err != nil {
		return nil, err
	}

	todo, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storageError("get todo", err)
	}
	if todo == nil {
		return nil, domain.ErrNotFound
	}

	response := toResponse(todo)
	return &response, nil
}

func (s *todoService) GetAllTodos(ctx context.Context) ([]TodoResponse, error) {
	todos, err := s.repo.List(ctx)
	if err != nil {
		return nil, storageError("list todos", err)
	}

	responses := make([]TodoResponse, 0, len(todos))
	for i := range todos {
		responses = append(responses, toResponse(&todos[i]))
	}
	return responses, nil
}

func (s *todoService) UpdateTodo(ctx context.Context, id string, req UpdateTodoRequest) (*TodoResponse, error) {
	id, err := validateID(id)
	if err != nil {
		return nil, err
	}
	patch, err := validateUpdate(req)
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, storageError("update todo", err)
	}
	if updated == nil {
		return nil, domain.ErrNotFound
	}

	response := toResponse(updated)
	return &response, nil
}

func (s *todoService) DeleteTodo(ctx context.Context, id string) error {
	id, err := validateID(id)
	if err != nil {
		return err
	}

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return storageError("delete todo", err)
	}
	if !deleted {
		return domain.ErrNotFound
	}
	return nil
}
