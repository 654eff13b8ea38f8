package list

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"todo_service/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type listerFunc func(ctx context.Context) ([]models.Todo, error)

func (f listerFunc) List(ctx context.Context) ([]models.Todo, error) {
	return f(ctx)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestList_Success(t *testing.T) {
	t.Parallel()

	lister := listerFunc(func(context.Context) ([]models.Todo, error) {
		return []models.Todo{
			{ID: uuid.New(), Text: "first"},
			{ID: uuid.New(), Text: "second"},
		}, nil
	})

	rec := httptest.NewRecorder()
	New(discardLogger(), lister)(rec, httptest.NewRequest(http.MethodGet, "/todos", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Todos []models.TodoView `json:"todos"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	require.Len(t, body.Todos, 2)
	assert.Equal(t, "first", body.Todos[0].Text)
	assert.Equal(t, "second", body.Todos[1].Text)
}

func TestList_Empty(t *testing.T) {
	t.Parallel()

	lister := listerFunc(func(context.Context) ([]models.Todo, error) {
		return nil, nil
	})

	rec := httptest.NewRecorder()
	New(discardLogger(), lister)(rec, httptest.NewRequest(http.MethodGet, "/todos", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "[]", string(body["todos"]))
}

func TestList_InternalError(t *testing.T) {
	t.Parallel()

	lister := listerFunc(func(context.Context) ([]models.Todo, error) {
		return nil, errors.New("db down")
	})

	rec := httptest.NewRecorder()
	New(discardLogger(), lister)(rec, httptest.NewRequest(http.MethodGet, "/todos", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
