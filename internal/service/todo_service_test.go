package service

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tomlord1122/todo-tracker/internal/config"
	"github.com/Tomlord1122/todo-tracker/internal/database"
	"github.com/Tomlord1122/todo-tracker/internal/domain"
	"github.com/Tomlord1122/todo-tracker/internal/repository"
)

func newTestService(t *testing.T) TodoService {
	t.Helper()

	dbService, err := database.New(config.Database{
		Path:     filepath.Join(t.TempDir(), "todos.db"),
		LogLevel: "silent",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = dbService.Close() })
	require.NoError(t, dbService.Migrate())

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time {
		now = now.Add(1500 * time.Millisecond)
		return now
	}
	return NewTodoService(repository.NewGormTodoRepository(dbService.GetDB(), repository.WithClock(clock)))
}

func TestCreateTodo(t *testing.T) {
	svc := newTestService(t)

	todo, err := svc.CreateTodo(context.Background(), CreateTodoRequest{Title: "T", Description: ptr("D")})
	require.NoError(t, err)

	assert.NotEmpty(t, todo.ID)
	assert.Equal(t, "T", todo.Title)
	require.NotNil(t, todo.Description)
	assert.Equal(t, "D", *todo.Description)
	assert.False(t, todo.Completed)
	assert.Equal(t, todo.CreatedAt, todo.UpdatedAt)
	assert.Equal(t, "2024-01-01T12:00:01.500Z", todo.CreatedAt)
}

func TestCreateTodoAssignsDistinctIDs(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	a, err := svc.CreateTodo(ctx, CreateTodoRequest{Title: "a"})
	require.NoError(t, err)
	b, err := svc.CreateTodo(ctx, CreateTodoRequest{Title: "b"})
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
}

func TestCreateTodoValidationDoesNotTouchStore(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateTodo(ctx, CreateTodoRequest{Title: strings.Repeat("x", 201)})
	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)

	todos, err := svc.GetAllTodos(ctx)
	require.NoError(t, err)
	assert.Empty(t, todos)
}

func TestRoundTrip(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateTodo(ctx, CreateTodoRequest{Title: "T", Description: ptr("D")})
	require.NoError(t, err)

	got, err := svc.GetTodoByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
}

func TestGetTodoByIDNotFound(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.GetTodoByID(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateCompletedOnly(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateTodo(ctx, CreateTodoRequest{Title: "T", Description: ptr("D")})
	require.NoError(t, err)

	updated, err := svc.UpdateTodo(ctx, created.ID, UpdateTodoRequest{Completed: Some(true)})
	require.NoError(t, err)

	assert.True(t, updated.Completed)
	assert.Equal(t, created.Title, updated.Title)
	assert.Equal(t, created.Description, updated.Description)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.Greater(t, updated.UpdatedAt, created.UpdatedAt)
}

func TestUpdateBlankDescriptionClearsIt(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateTodo(ctx, CreateTodoRequest{Title: "T", Description: ptr("D")})
	require.NoError(t, err)

	updated, err := svc.UpdateTodo(ctx, created.ID, UpdateTodoRequest{Description: Some("  ")})
	require.NoError(t, err)
	assert.Nil(t, updated.Description)
}

func TestUpdateErrors(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateTodo(ctx, CreateTodoRequest{Title: "T"})
	require.NoError(t, err)

	var vErr *domain.ValidationError
	_, err = svc.UpdateTodo(ctx, created.ID, UpdateTodoRequest{})
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, msgNoUpdateFields, vErr.Message)

	_, err = svc.UpdateTodo(ctx, "ghost", UpdateTodoRequest{Title: Some("x")})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Validation runs before the lookup, so a bad payload for a missing id is a 400.
	_, err = svc.UpdateTodo(ctx, "ghost", UpdateTodoRequest{Title: Some("")})
	require.ErrorAs(t, err, &vErr)
}

func TestPaddedIDIsNotTrimmed(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateTodo(ctx, CreateTodoRequest{Title: "T"})
	require.NoError(t, err)

	_, err = svc.GetTodoByID(ctx, " "+created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = svc.UpdateTodo(ctx, created.ID+" ", UpdateTodoRequest{Completed: Some(true)})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, svc.DeleteTodo(ctx, " "), domain.ErrNotFound)

	got, err := svc.GetTodoByID(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, got.Completed)
}

func TestUpdateNullDescriptionClearsIt(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateTodo(ctx, CreateTodoRequest{Title: "T", Description: ptr("D")})
	require.NoError(t, err)

	updated, err := svc.UpdateTodo(ctx, created.ID, UpdateTodoRequest{Description: Null[string]()})
	require.NoError(t, err)
	assert.Nil(t, updated.Description)
	assert.Equal(t, "T", updated.Title)
}

func TestDeleteTwice(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateTodo(ctx, CreateTodoRequest{Title: "T"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteTodo(ctx, created.ID))
	assert.ErrorIs(t, svc.DeleteTodo(ctx, created.ID), domain.ErrNotFound)
}

func TestEmptyIDIsValidationError(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	var vErr *domain.ValidationError
	_, err := svc.GetTodoByID(ctx, "")
	assert.ErrorAs(t, err, &vErr)
	_, err = svc.UpdateTodo(ctx, "", UpdateTodoRequest{Completed: Some(true)})
	assert.ErrorAs(t, err, &vErr)
	assert.ErrorAs(t, svc.DeleteTodo(ctx, ""), &vErr)
}

type failingRepository struct {
	err error
}

func (r failingRepository) List(context.Context) ([]domain.Todo, error) { return nil, r.err }
func (r failingRepository) FindByID(context.Context, string) (*domain.Todo, error) {
	return nil, r.err
}
func (r failingRepository) Create(context.Context, *domain.Todo) (*domain.Todo, error) {
	return nil, r.err
}
func (r failingRepository) Update(context.Context, string, domain.TodoPatch) (*domain.Todo, error) {
	return nil, r.err
}
func (r failingRepository) Delete(context.Context, string) (bool, error) { return false, r.err }

func TestStorageFailuresAreWrapped(t *testing.T) {
	cause := errors.New("disk on fire")
	svc := NewTodoService(failingRepository{err: cause})
	ctx := context.Background()

	var sErr *domain.StorageError

	_, err := svc.GetAllTodos(ctx)
	require.ErrorAs(t, err, &sErr)
	assert.ErrorIs(t, err, cause)

	_, err = svc.GetTodoByID(ctx, "a")
	assert.ErrorAs(t, err, &sErr)

	_, err = svc.CreateTodo(ctx, CreateTodoRequest{Title: "T"})
	assert.ErrorAs(t, err, &sErr)

	_, err = svc.UpdateTodo(ctx, "a", UpdateTodoRequest{Completed: Some(true)})
	assert.ErrorAs(t, err, &sErr)

	assert.ErrorAs(t, svc.DeleteTodo(ctx, "a"), &sErr)
}
