package remove

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

type removerFunc func(ctx context.Context, id string) (models.Todo, error)

func (f removerFunc) Delete(ctx context.Context, id string) (models.Todo, error) {
	return f(ctx, id)
}

func newRouter(remover TodoRemover) *chi.Mux {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	r := chi.NewRouter()
	r.Delete("/todos/{id}", New(log, remover))
	return r
}

func TestRemove_Success(t *testing.T) {
	t.Parallel()

	id := uuid.New()

	router := newRouter(removerFunc(func(_ context.Context, gotID string) (models.Todo, error) {
		require.Equal(t, id.String(), gotID)
		return models.Todo{ID: id, Text: "gone"}, nil
	}))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/todos/"+id.String(), nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Todo models.TodoView `json:"todo"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "gone", body.Todo.Text)
}

func TestRemove_NotFound(t *testing.T) {
	t.Parallel()

	router := newRouter(removerFunc(func(context.Context, string) (models.Todo, error) {
		return models.Todo{}, todos.ErrNotFound
	}))

	for _, path := range []string{
		"/todos/" + uuid.NewString(),
		"/todos/definitely-not-a-uuid",
	} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, path, nil))

		assert.Equal(t, http.StatusNotFound, rec.Code, "path %s", path)
	}
}
