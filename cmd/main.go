package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"todo_service/internal/auth"
	"todo_service/internal/config"
	todoCreate "todo_service/internal/http_server/handlers/todos/create"
	todoGet "todo_service/internal/http_server/handlers/todos/get"
	todoList "todo_service/internal/http_server/handlers/todos/list"
	todoRemove "todo_service/internal/http_server/handlers/todos/remove"
	todoUpdate "todo_service/internal/http_server/handlers/todos/update"
	"todo_service/internal/http_server/handlers/users/login"
	"todo_service/internal/http_server/handlers/users/logout"
	"todo_service/internal/http_server/handlers/users/me"
	"todo_service/internal/http_server/handlers/users/register"
	mwauth "todo_service/internal/http_server/middleware/auth"
	rateLimit "todo_service/internal/middleware/ratelimit"
	"todo_service/internal/rabbitmq"
	"todo_service/internal/storage/postgres"
	"todo_service/internal/todos"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-playground/validator/v10"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	cfg := config.MustLoad("./config/config.yaml")

	log := setupLogger(cfg.Env)

	log.Info("starting todo service", slog.String("env", cfg.Env))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		log.Info("Shutdown signal received")
		cancel()
	}()

	storage, err := postgres.New(ctx, cfg)
	if err != nil {
		log.Error("failed to connect postgres", slog.String("err", err.Error()))
		os.Exit(1)
	}
	defer storage.Close()

	msgBroker, err := rabbitmq.New(cfg.RabbitMQ.URL, cfg.RabbitMQ.QueueName)
	if err != nil {
		log.Error("failed to connect rabbitmq", slog.String("err", err.Error()))
		os.Exit(1)
	}
	defer msgBroker.Close()

	authService := auth.New(log, storage, storage, cfg.Auth.SecretKey)
	todoService := todos.New(log, storage, storage)

	router := setupRouter(log, authService, todoService, msgBroker)

	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	go func() {
		log.Info("HTTP server is running", slog.String("address", cfg.HTTPServer.Address))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed", slog.String("err", err.Error()))
			cancel()
		}
	}()

	<-ctx.Done()

	log.Info("Shutting down HTTP server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", slog.String("err", err.Error()))
	} else {
		log.Info("Server stopped gracefully")
	}

	log.Info("Main service stopped")
}

func setupRouter(
	log *slog.Logger,
	authService *auth.Auth,
	todoService *todos.Todos,
	msgBroker *rabbitmq.RabbitMQClient,
) *chi.Mux {
	validate := validator.New()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/todos", func(r chi.Router) {
		r.With(rateLimit.TodoWrites()).Post("/", todoCreate.New(log, todoService))
		r.Get("/", todoList.New(log, todoService))
		r.Get("/{id}", todoGet.New(log, todoService))
		r.With(rateLimit.TodoWrites()).Patch("/{id}", todoUpdate.New(log, todoService))
		r.With(rateLimit.TodoWrites()).Delete("/{id}", todoRemove.New(log, todoService))
	})

	r.Route("/users", func(r chi.Router) {
		r.With(rateLimit.Register()).Post("/", register.New(log, validate, authService, msgBroker))
		r.With(rateLimit.Login()).Post("/login", login.New(log, validate, authService))

		r.Group(func(r chi.Router) {
			r.Use(mwauth.Require(log, authService))
			r.Get("/me", me.New(log))
			r.Delete("/me/token", logout.New(log, authService))
		})
	})

	return r
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	}

	return log
}
