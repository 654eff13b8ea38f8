package get

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"todo_service/internal/models"
	"todo_service/internal/todos"

	"github.com/go-chi/chi"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type providerFunc func(ctx context.Context, id string) (models.Todo, error)

func (f providerFunc) Todo(ctx context.Context, id string) (models.Todo, error) {
	return f(ctx, id)
}

func newRouter(provider TodoProvider) *chi.Mux {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	r := chi.NewRouter()
	r.Get("/todos/{id}", New(log, provider))
	return r
}

func TestGet_Success(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	completedAt := int64(1717243200000)

	router := newRouter(providerFunc(func(_ context.Context, gotID string) (models.Todo, error) {
		require.Equal(t, id.String(), gotID)
		return models.Todo{ID: id, Text: "buy milk", Completed: true, CompletedAt: &completedAt}, nil
	}))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/todos/"+id.String(), nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Status string          `json:"status"`
		Todo   models.TodoView `json:"todo"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.Equal(t, "OK", body.Status)
	assert.Equal(t, id.String(), body.Todo.ID)
	assert.Equal(t, "buy milk", body.Todo.Text)
	assert.True(t, body.Todo.Completed)
	require.NotNil(t, body.Todo.CompletedAt)
	assert.Equal(t, completedAt, *body.Todo.CompletedAt)
}

func TestGet_NotFound(t *testing.T) {
	t.Parallel()

	router := newRouter(providerFunc(func(context.Context, string) (models.Todo, error) {
		return models.Todo{}, todos.ErrNotFound
	}))

	for _, path := range []string{
		"/todos/" + uuid.NewString(),            // well-formed, unknown
		"/todos/5b0269f629fabd860ee29ffaasdasd", // malformed
	} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

		assert.Equal(t, http.StatusNotFound, rec.Code, "path %s", path)
	}
}
