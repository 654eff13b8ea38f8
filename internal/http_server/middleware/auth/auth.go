package auth

import (
	"context"
	"log/slog"
	"net/http"

	sl "todo_service/internal/lib/logger"
	"todo_service/internal/models"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

// Header carries the auth token on both requests and responses. The same
// name is used when issuing a token (register/login) and when verifying one.
const Header = "X-Auth"

type ctxKey int

const (
	userKey ctxKey = iota
	tokenKey
)

// UserResolver turns a raw token into the user it belongs to.
type UserResolver interface {
	UserByToken(ctx context.Context, token string) (models.User, error)
}

// Require rejects requests without a resolvable token. On success the user
// and the presented token are attached to the request context.
func Require(log *slog.Logger, resolver UserResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middleware.auth.Require"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			token := r.Header.Get(Header)
			if token == "" {
				unauthorized(w, r)
				return
			}

			user, err := resolver.UserByToken(r.Context(), token)
			if err != nil {
				log.Warn("failed to resolve token", sl.Err(err))
				unauthorized(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			ctx = context.WithValue(ctx, tokenKey, token)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext returns the user attached by Require.
func UserFromContext(ctx context.Context) (models.User, bool) {
	user, ok := ctx.Value(userKey).(models.User)
	return user, ok
}

// TokenFromContext returns the token the current request authenticated with.
func TokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenKey).(string)
	return token, ok
}

func unauthorized(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusUnauthorized)
	render.JSON(w, r, struct{}{})
}
