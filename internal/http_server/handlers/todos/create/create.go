package create

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

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

type Request struct {
	Text string `json:"text"`
}

type Response struct {
	resp.Response
	models.TodoView
}

type TodoCreator interface {
	Create(ctx context.Context, text string) (models.Todo, error)
}

func New(log *slog.Logger, creator TodoCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.todos.create.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

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

		todo, err := creator.Create(ctx, req.Text)
		if err != nil {
			if errors.Is(err, todos.ErrEmptyText) {
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, resp.Error("text is required"))

				return
			}

			log.Error("failed to create todo", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("internal error"))

			return
		}

		log.Info("todo created", slog.String("id", todo.ID.String()))

		render.JSON(w, r, Response{
			Response: resp.OK(),
			TodoView: todo.View(),
		})
	}
}
