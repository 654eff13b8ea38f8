package logout

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	mwauth "todo_service/internal/http_server/middleware/auth"
	"todo_service/internal/models"

	"github.com/go-chi/chi"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type resolverFunc func(ctx context.Context, token string) (models.User, error)

func (f resolverFunc) UserByToken(ctx context.Context, token string) (models.User, error) {
	return f(ctx, token)
}

type closerFunc func(ctx context.Context, userID uuid.UUID, token string) error

func (f closerFunc) Logout(ctx context.Context, userID uuid.UUID, token string) error {
	return f(ctx, userID, token)
}

func newRouter(resolver mwauth.UserResolver, closer SessionCloser) *chi.Mux {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	r := chi.NewRouter()
	r.With(mwauth.Require(log, resolver)).Delete("/users/me/token", New(log, closer))
	return r
}

func TestLogout_Success(t *testing.T) {
	t.Parallel()

	user := models.User{ID: uuid.New(), Email: "a@b.com"}

	resolver := resolverFunc(func(context.Context, string) (models.User, error) {
		return user, nil
	})

	var closedToken string
	closer := closerFunc(func(_ context.Context, userID uuid.UUID, token string) error {
		require.Equal(t, user.ID, userID)
		closedToken = token
		return nil
	})

	req := httptest.NewRequest(http.MethodDelete, "/users/me/token", nil)
	req.Header.Set(mwauth.Header, "session-token")

	rec := httptest.NewRecorder()
	newRouter(resolver, closer).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "session-token", closedToken)
}

func TestLogout_NoToken(t *testing.T) {
	t.Parallel()

	resolver := resolverFunc(func(context.Context, string) (models.User, error) {
		t.Fatal("resolver must not be called")
		return models.User{}, nil
	})
	closer := closerFunc(func(context.Context, uuid.UUID, string) error {
		t.Fatal("closer must not be called")
		return nil
	})

	rec := httptest.NewRecorder()
	newRouter(resolver, closer).ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/users/me/token", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogout_StorageError(t *testing.T) {
	t.Parallel()

	resolver := resolverFunc(func(context.Context, string) (models.User, error) {
		return models.User{ID: uuid.New()}, nil
	})
	closer := closerFunc(func(context.Context, uuid.UUID, string) error {
		return errors.New("db down")
	})

	req := httptest.NewRequest(http.MethodDelete, "/users/me/token", nil)
	req.Header.Set(mwauth.Header, "session-token")

	rec := httptest.NewRecorder()
	newRouter(resolver, closer).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
