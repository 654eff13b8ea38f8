package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"todo_service/internal/config"
	"todo_service/internal/models"
	"todo_service/internal/storage"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepo struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, cfg *config.Config) (*PostgresRepo, error) {
	const op = "storage.postgres.New"

	dsn := dsn(cfg)

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse config: %w", op, err)
	}

	poolConfig.MaxConns = 10
	poolConfig.MinConns = 2
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = time.Minute * 30

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create pool: %w", op, err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%s: failed to ping database: %w", op, err)
	}

	if err := runMigrations(ctx, dsn); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%s: failed to run migrations: %w", op, err)
	}

	return &PostgresRepo{pool: pool}, nil
}

func (r *PostgresRepo) SaveUser(ctx context.Context, user models.User) error {
	const op = "storage.postgres.SaveUser"

	query := `
		INSERT INTO users (id, email, password_hash)
		VALUES ($1, $2, $3);
	`

	_, err := r.pool.Exec(ctx, query, user.ID, user.Email, string(user.PassHash))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return storage.ErrUserExists
		}

		return fmt.Errorf("%s: failed to save user: %w", op, err)
	}

	return nil
}

func (r *PostgresRepo) User(ctx context.Context, email string) (models.User, error) {
	const op = "storage.postgres.User"

	query := `
		SELECT id, email, password_hash, created_at
		FROM users
		WHERE email = $1;
	`

	row := r.pool.QueryRow(ctx, query, email)

	var u models.User
	err := row.Scan(&u.ID, &u.Email, &u.PassHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, storage.ErrUserNotFound
		}

		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	return u, nil
}

func (r *PostgresRepo) UserByID(ctx context.Context, id uuid.UUID) (models.User, error) {
	const op = "storage.postgres.UserByID"

	query := `
		SELECT id, email, password_hash, created_at
		FROM users
		WHERE id = $1;
	`

	row := r.pool.QueryRow(ctx, query, id)

	var u models.User
	err := row.Scan(&u.ID, &u.Email, &u.PassHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, storage.ErrUserNotFound
		}

		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	return u, nil
}

func (r *PostgresRepo) SaveAuthToken(ctx context.Context, t models.AuthToken) error {
	const op = "storage.postgres.SaveAuthToken"

	// Tokens are deterministic per (user, access), so a re-login may insert
	// the same row again; that must not fail the login.
	query := `
		INSERT INTO auth_tokens (user_id, access, token)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, token) DO NOTHING;
	`

	_, err := r.pool.Exec(ctx, query, t.UserID, t.Access, t.Token)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *PostgresRepo) HasAuthToken(ctx context.Context, userID uuid.UUID, access, token string) (bool, error) {
	const op = "storage.postgres.HasAuthToken"

	query := `
		SELECT EXISTS (
			SELECT 1 FROM auth_tokens
			WHERE user_id = $1 AND access = $2 AND token = $3
		);
	`

	var exists bool
	err := r.pool.QueryRow(ctx, query, userID, access, token).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return exists, nil
}

func (r *PostgresRepo) DeleteAuthToken(ctx context.Context, userID uuid.UUID, token string) error {
	const op = "storage.postgres.DeleteAuthToken"

	query := `DELETE FROM auth_tokens WHERE user_id = $1 AND token = $2;`

	_, err := r.pool.Exec(ctx, query, userID, token)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *PostgresRepo) SaveTodo(ctx context.Context, todo models.Todo) error {
	const op = "storage.postgres.SaveTodo"

	query := `
		INSERT INTO todos (id, text, completed, completed_at)
		VALUES ($1, $2, $3, $4);
	`

	_, err := r.pool.Exec(ctx, query, todo.ID, todo.Text, todo.Completed, todo.CompletedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *PostgresRepo) Todos(ctx context.Context) ([]models.Todo, error) {
	const op = "storage.postgres.Todos"

	query := `
		SELECT id, text, completed, completed_at, created_at
		FROM todos
		ORDER BY created_at, id;
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var todos []models.Todo

	for rows.Next() {
		var t models.Todo
		if err := rows.Scan(&t.ID, &t.Text, &t.Completed, &t.CompletedAt, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		todos = append(todos, t)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("%s: %w", op, rows.Err())
	}

	return todos, nil
}

func (r *PostgresRepo) Todo(ctx context.Context, id uuid.UUID) (models.Todo, error) {
	const op = "storage.postgres.Todo"

	query := `
		SELECT id, text, completed, completed_at, created_at
		FROM todos
		WHERE id = $1;
	`

	var t models.Todo
	err := r.pool.QueryRow(ctx, query, id).Scan(&t.ID, &t.Text, &t.Completed, &t.CompletedAt, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Todo{}, storage.ErrTodoNotFound
		}

		return models.Todo{}, fmt.Errorf("%s: %w", op, err)
	}

	return t, nil
}

func (r *PostgresRepo) UpdateTodo(ctx context.Context, todo models.Todo) (models.Todo, error) {
	const op = "storage.postgres.UpdateTodo"

	query := `
		UPDATE todos
		SET text = $2, completed = $3, completed_at = $4
		WHERE id = $1
		RETURNING id, text, completed, completed_at, created_at;
	`

	var t models.Todo
	err := r.pool.QueryRow(ctx, query, todo.ID, todo.Text, todo.Completed, todo.CompletedAt).
		Scan(&t.ID, &t.Text, &t.Completed, &t.CompletedAt, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Todo{}, storage.ErrTodoNotFound
		}

		return models.Todo{}, fmt.Errorf("%s: %w", op, err)
	}

	return t, nil
}

func (r *PostgresRepo) DeleteTodo(ctx context.Context, id uuid.UUID) (models.Todo, error) {
	const op = "storage.postgres.DeleteTodo"

	query := `
		DELETE FROM todos
		WHERE id = $1
		RETURNING id, text, completed, completed_at, created_at;
	`

	var t models.Todo
	err := r.pool.QueryRow(ctx, query, id).Scan(&t.ID, &t.Text, &t.Completed, &t.CompletedAt, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Todo{}, storage.ErrTodoNotFound
		}

		return models.Todo{}, fmt.Errorf("%s: %w", op, err)
	}

	return t, nil
}

func (r *PostgresRepo) Close() {
	r.pool.Close()
}

func dsn(cfg *config.Config) string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s database=%s sslmode=%s",
		cfg.Postgres.Host,
		cfg.Postgres.Port,
		cfg.Postgres.User,
		cfg.Postgres.Password,
		cfg.Postgres.DBName,
		cfg.Postgres.SSLMode,
	)
}
