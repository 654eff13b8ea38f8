package update

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	resp "todo_service/internal/lib/api/response"
	sl "todo_service/internal/lib/logger"
	"todo_service/internal/models"
	"todo_service/internal/todos"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

// Request is a partial update. completedAt is not accepted from callers —
// the service recomputes it from the completed flag.
type Request struct {
	Text      *string `json:"text"`
	Completed *bool   `json:"completed"`
}

type Response struct {
	resp.Response
	Todo models.TodoView `json:"todo"`
}

type TodoUpdater interface {
	Update(ctx context.Context, id string, patch todos.Patch) (models.Todo, error)
}

func New(log *slog.Logger, updater TodoUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.todos.update.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		id := chi.URLParam(r, "id")

		var req Request

		err := render.DecodeJSON(r.Body, &req)
		if err != nil {
			log.Error("failed to decode request body", sl.Err(err))

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.Error("failed to decode request"))

			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		todo, err := updater.Update(ctx, id, todos.Patch{
			Text:      req.Text,
			Completed: req.Completed,
		})
		if err != nil {
			if errors.Is(err, todos.ErrNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, resp.Error("not found"))

				return
			}
			if errors.Is(err, todos.ErrEmptyText) {
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, resp.Error("text must not be empty"))

				return
			}

			log.Error("failed to update todo", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("internal error"))

			return
		}

		log.Info("todo updated", slog.String("id", todo.ID.String()))

		render.JSON(w, r, Response{
			Response: resp.OK(),
			Todo:     todo.View(),
		})
	}
}
