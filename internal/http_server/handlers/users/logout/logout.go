package logout

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	mwauth "todo_service/internal/http_server/middleware/auth"
	resp "todo_service/internal/lib/api/response"
	sl "todo_service/internal/lib/logger"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"
)

type Response struct {
	resp.Response
}

// SessionCloser revokes a single token of a user.
type SessionCloser interface {
	Logout(ctx context.Context, userID uuid.UUID, token string) error
}

func New(log *slog.Logger, closer SessionCloser) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.users.logout.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		user, okUser := mwauth.UserFromContext(r.Context())
		token, okToken := mwauth.TokenFromContext(r.Context())
		if !okUser || !okToken {
			log.Error("no user or token in request context")

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("internal error"))

			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := closer.Logout(ctx, user.ID, token); err != nil {
			log.Error("failed to logout user", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("internal error"))

			return
		}

		log.Info("user logged out", slog.String("uid", user.ID.String()))

		render.JSON(w, r, Response{Response: resp.OK()})
	}
}
