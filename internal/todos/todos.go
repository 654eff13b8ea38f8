package todos

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	sl "todo_service/internal/lib/logger"
	"todo_service/internal/models"
	"todo_service/internal/storage"

	"github.com/google/uuid"
)

var (
	ErrEmptyText = errors.New("todo text is empty")
	ErrNotFound  = errors.New("todo not found")
)

// Patch carries the fields a PATCH request may change. Nil means "leave as
// stored". CompletedAt is deliberately absent: the service owns it.
type Patch struct {
	Text      *string
	Completed *bool
}

type Todos struct {
	log      *slog.Logger
	saver    TodoSaver
	provider TodoProvider
	now      func() time.Time
}

type TodoSaver interface {
	SaveTodo(ctx context.Context, todo models.Todo) error
	UpdateTodo(ctx context.Context, todo models.Todo) (models.Todo, error)
	DeleteTodo(ctx context.Context, id uuid.UUID) (models.Todo, error)
}

type TodoProvider interface {
	Todos(ctx context.Context) ([]models.Todo, error)
	Todo(ctx context.Context, id uuid.UUID) (models.Todo, error)
}

func New(log *slog.Logger, saver TodoSaver, provider TodoProvider) *Todos {
	return &Todos{
		log:      log,
		saver:    saver,
		provider: provider,
		now:      time.Now,
	}
}

func (t *Todos) Create(ctx context.Context, text string) (models.Todo, error) {
	const op = "todos.Create"

	log := t.log.With(slog.String("op", op))

	text = strings.TrimSpace(text)
	if text == "" {
		return models.Todo{}, ErrEmptyText
	}

	todo := models.Todo{
		ID:        uuid.New(),
		Text:      text,
		Completed: false,
	}

	if err := t.saver.SaveTodo(ctx, todo); err != nil {
		log.Error("failed to save todo", sl.Err(err))
		return models.Todo{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("todo created", slog.String("id", todo.ID.String()))

	return todo, nil
}

func (t *Todos) List(ctx context.Context) ([]models.Todo, error) {
	const op = "todos.List"

	list, err := t.provider.Todos(ctx)
	if err != nil {
		t.log.With(slog.String("op", op)).Error("failed to list todos", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return list, nil
}

func (t *Todos) Todo(ctx context.Context, id string) (models.Todo, error) {
	const op = "todos.Todo"

	todoID, err := parseID(id)
	if err != nil {
		return models.Todo{}, ErrNotFound
	}

	todo, err := t.provider.Todo(ctx, todoID)
	if err != nil {
		if errors.Is(err, storage.ErrTodoNotFound) {
			return models.Todo{}, ErrNotFound
		}

		t.log.With(slog.String("op", op)).Error("failed to get todo", sl.Err(err))
		return models.Todo{}, fmt.Errorf("%s: %w", op, err)
	}

	return todo, nil
}

func (t *Todos) Delete(ctx context.Context, id string) (models.Todo, error) {
	const op = "todos.Delete"

	log := t.log.With(slog.String("op", op))

	todoID, err := parseID(id)
	if err != nil {
		return models.Todo{}, ErrNotFound
	}

	todo, err := t.saver.DeleteTodo(ctx, todoID)
	if err != nil {
		if errors.Is(err, storage.ErrTodoNotFound) {
			return models.Todo{}, ErrNotFound
		}

		log.Error("failed to delete todo", sl.Err(err))
		return models.Todo{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("todo deleted", slog.String("id", todo.ID.String()))

	return todo, nil
}

// Update applies a patch and recomputes the completion timestamp: setting
// completed=true stamps the current time regardless of any caller-supplied
// value, setting completed=false clears it. The stored record always
// satisfies completed == (completedAt != nil).
func (t *Todos) Update(ctx context.Context, id string, patch Patch) (models.Todo, error) {
	const op = "todos.Update"

	log := t.log.With(slog.String("op", op))

	todoID, err := parseID(id)
	if err != nil {
		return models.Todo{}, ErrNotFound
	}

	todo, err := t.provider.Todo(ctx, todoID)
	if err != nil {
		if errors.Is(err, storage.ErrTodoNotFound) {
			return models.Todo{}, ErrNotFound
		}

		log.Error("failed to get todo", sl.Err(err))
		return models.Todo{}, fmt.Errorf("%s: %w", op, err)
	}

	if patch.Text != nil {
		text := strings.TrimSpace(*patch.Text)
		if text == "" {
			return models.Todo{}, ErrEmptyText
		}
		todo.Text = text
	}

	if patch.Completed != nil {
		todo.Completed = *patch.Completed
		if todo.Completed {
			completedAt := t.now().UnixMilli()
			todo.CompletedAt = &completedAt
		} else {
			todo.CompletedAt = nil
		}
	}

	updated, err := t.saver.UpdateTodo(ctx, todo)
	if err != nil {
		if errors.Is(err, storage.ErrTodoNotFound) {
			return models.Todo{}, ErrNotFound
		}

		log.Error("failed to update todo", sl.Err(err))
		return models.Todo{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("todo updated", slog.String("id", updated.ID.String()))

	return updated, nil
}

// parseID accepts only the canonical 36-character UUID form. A malformed path
// segment is treated the same as an unknown id so responses do not reveal
// which one it was.
func parseID(id string) (uuid.UUID, error) {
	if len(id) != 36 {
		return uuid.UUID{}, fmt.Errorf("malformed id %q", id)
	}

	return uuid.Parse(id)
}
