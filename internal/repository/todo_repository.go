package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Tomlord1122/todo-tracker/internal/domain"
)

// TodoRepository defines the persistence operations for todos.
// Lookups that miss return (nil, nil); errors are reserved for failures
// of the backing database.
type TodoRepository interface {
	List(ctx context.Context) ([]domain.Todo, error)
	FindByID(ctx context.Context, id string) (*domain.Todo, error)
	Create(ctx context.Context, todo *domain.Todo) (*domain.Todo, error)
	Update(ctx context.Context, id string, patch domain.TodoPatch) (*domain.Todo, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// Option configures a gormTodoRepository.
type Option func(*gormTodoRepository)

// WithClock replaces time.Now as the source of created/updated timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *gormTodoRepository) {
		r.now = now
	}
}

// gormTodoRepository implements TodoRepository using GORM
type gormTodoRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGormTodoRepository creates a new GORM todo repository
func NewGormTodoRepository(db *gorm.DB, opts ...Option) TodoRepository {
	r := &gormTodoRepository{db: db, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// minUpdateStep is the smallest visible advance of updated_at; responses
// render timestamps with millisecond precision.
const minUpdateStep = time.Millisecond

// timestamp returns the current time at the microsecond precision that
// survives every supported driver.
func (r *gormTodoRepository) timestamp() time.Time {
	return r.now().UTC().Truncate(time.Microsecond)
}

func (r *gormTodoRepository) isSQLite() bool {
	return r.db.Dialector.Name() == "sqlite"
}

// List returns every todo, newest first. Rows sharing a created_at fall
// back to insertion order on SQLite and to id elsewhere.
func (r *gormTodoRepository) List(ctx context.Context) ([]domain.Todo, error) {
	todos := make([]domain.Todo, 0)
	tieBreak := "id DESC"
	if r.isSQLite() {
		tieBreak = "rowid DESC"
	}
	result := r.db.WithContext(ctx).Order("created_at DESC").Order(tieBreak).Find(&todos)
	if result.Error != nil {
		return nil, fmt.Errorf("list todos: %w", result.Error)
	}
	return todos, nil
}

// FindByID retrieves a todo by its ID
func (r *gormTodoRepository) FindByID(ctx context.Context, id string) (*domain.Todo, error) {
	var todo domain.Todo
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&todo)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("find todo %s: %w", id, result.Error)
	}
	return &todo, nil
}

// Create inserts a new row. The caller supplies the id, title and optional
// description; completion state and both timestamps are set here.
func (r *gormTodoRepository) Create(ctx context.Context, todo *domain.Todo) (*domain.Todo, error) {
	now := r.timestamp()
	row := domain.Todo{
		ID:          todo.ID,
		Title:       todo.Title,
		Description: todo.Description,
		Completed:   false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, fmt.Errorf("insert todo %s: %w", todo.ID, err)
	}
	return &row, nil
}

// Update applies the supplied fields and always advances updated_at,
// even for an empty patch. The new value is at least minUpdateStep past
// the stored one so back-to-back writes stay ordered. A missing id
// yields (nil, nil).
func (r *gormTodoRepository) Update(ctx context.Context, id string, patch domain.TodoPatch) (*domain.Todo, error) {
	var updated *domain.Todo
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		query := tx.Where("id = ?", id)
		if !r.isSQLite() {
			query = query.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		var current domain.Todo
		if err := query.Take(&current).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		next := r.timestamp()
		if floor := current.UpdatedAt.UTC().Add(minUpdateStep); next.Before(floor) {
			next = floor
		}

		changes := map[string]any{"updated_at": next}
		if patch.Title != nil {
			changes["title"] = *patch.Title
		}
		if patch.Description != nil {
			changes["description"] = *patch.Description
		}
		if patch.Completed != nil {
			changes["completed"] = *patch.Completed
		}
		if err := tx.Model(&domain.Todo{}).Where("id = ?", id).Updates(changes).Error; err != nil {
			return err
		}

		var row domain.Todo
		if err := tx.Where("id = ?", id).Take(&row).Error; err != nil {
			return err
		}
		updated = &row
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update todo %s: %w", id, err)
	}
	return updated, nil
}

// Delete permanently removes a todo and reports whether a row was removed.
func (r *gormTodoRepository) Delete(ctx context.Context, id string) (bool, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Todo{})
	if result.Error != nil {
		return false, fmt.Errorf("delete todo %s: %w", id, result.Error)
	}
	return result.RowsAffected > 0, nil
}
