package login

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"todo_service/internal/auth"
	mwauth "todo_service/internal/http_server/middleware/auth"
	"todo_service/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type loginerFunc func(ctx context.Context, email, password string) (models.User, string, error)

func (f loginerFunc) Login(ctx context.Context, email, password string) (models.User, string, error) {
	return f(ctx, email, password)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLogin_Success(t *testing.T) {
	t.Parallel()

	loginer := loginerFunc(func(_ context.Context, email, password string) (models.User, string, error) {
		require.Equal(t, "a@b.com", email)
		require.Equal(t, "password123", password)
		return models.User{ID: uuid.New(), Email: email}, "session-token", nil
	})

	req := httptest.NewRequest(http.MethodPost, "/users/login",
		bytes.NewBufferString(`{"email":"a@b.com","password":"password123"}`))
	rec := httptest.NewRecorder()

	New(discardLogger(), validator.New(), loginer)(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "session-token", rec.Header().Get(mwauth.Header))

	// body carries only the status, no user fields
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "OK", body["status"])
	_, hasEmail := body["email"]
	assert.False(t, hasEmail)
}

func TestLogin_BadCredentials(t *testing.T) {
	t.Parallel()

	loginer := loginerFunc(func(context.Context, string, string) (models.User, string, error) {
		return models.User{}, "", auth.ErrInvalidCredentials
	})

	req := httptest.NewRequest(http.MethodPost, "/users/login",
		bytes.NewBufferString(`{"email":"a@b.com","password":"wrong"}`))
	rec := httptest.NewRecorder()

	New(discardLogger(), validator.New(), loginer)(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, rec.Header().Get(mwauth.Header))
}

func TestLogin_InvalidRequest(t *testing.T) {
	t.Parallel()

	loginer := loginerFunc(func(context.Context, string, string) (models.User, string, error) {
		t.Fatal("service must not be called")
		return models.User{}, "", nil
	})

	for _, payload := range []string{`{}`, `{"email":"nope","password":"x"}`, `{"email":"a@b.com"}`} {
		req := httptest.NewRequest(http.MethodPost, "/users/login", bytes.NewBufferString(payload))
		rec := httptest.NewRecorder()

		New(discardLogger(), validator.New(), loginer)(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code, "payload %s", payload)
		assert.Empty(t, rec.Header().Get(mwauth.Header))
	}
}
