package remove

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

type Response struct {
	resp.Response
	Todo models.TodoView `json:"todo"`
}

// TodoRemover deletes a todo and returns the removed record.
type TodoRemover interface {
	Delete(ctx context.Context, id string) (models.Todo, error)
}

func New(log *slog.Logger, remover TodoRemover) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.todos.remove.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		id := chi.URLParam(r, "id")

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		todo, err := remover.Delete(ctx, id)
		if err != nil {
			if errors.Is(err, todos.ErrNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, resp.Error("not found"))

				return
			}

			log.Error("failed to delete todo", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("internal error"))

			return
		}

		log.Info("todo deleted", slog.String("id", todo.ID.String()))

		render.JSON(w, r, Response{
			Response: resp.OK(),
			Todo:     todo.View(),
		})
	}
}
