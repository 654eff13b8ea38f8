package list

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	resp "todo_service/internal/lib/api/response"
	sl "todo_service/internal/lib/logger"
	"todo_service/internal/models"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

type Response struct {
	resp.Response
	Todos []models.TodoView `json:"todos"`
}

type TodoLister interface {
	List(ctx context.Context) ([]models.Todo, error)
}

func New(log *slog.Logger, lister TodoLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.todos.list.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		all, err := lister.List(ctx)
		if err != nil {
			log.Error("failed to list todos", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("internal error"))

			return
		}

		views := make([]models.TodoView, 0, len(all))
		for _, t := range all {
			views = append(views, t.View())
		}

		render.JSON(w, r, Response{
			Response: resp.OK(),
			Todos:    views,
		})
	}
}
