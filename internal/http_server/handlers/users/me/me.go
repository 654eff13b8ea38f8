package me

import (
	"log/slog"
	"net/http"

	mwauth "todo_service/internal/http_server/middleware/auth"
	resp "todo_service/internal/lib/api/response"
	"todo_service/internal/models"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

type Response struct {
	resp.Response
	models.UserView
}

// New returns the projection of the authenticated user. The auth middleware
// has already resolved the token; the handler only reads the context.
func New(log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.users.me.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		user, ok := mwauth.UserFromContext(r.Context())
		if !ok {
			log.Error("no user in request context")

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("internal error"))

			return
		}

		render.JSON(w, r, Response{
			Response: resp.OK(),
			UserView: user.View(),
		})
	}
}
