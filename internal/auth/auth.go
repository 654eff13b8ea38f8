package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"todo_service/internal/lib/jwt"
	sl "todo_service/internal/lib/logger"
	"todo_service/internal/models"
	"todo_service/internal/storage"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrUserExists         = errors.New("user already exists")
)

type Auth struct {
	log         *slog.Logger
	usrSaver    UserSaver
	usrProvider UserProvider
	secretKey   string
}

type UserSaver interface {
	SaveUser(ctx context.Context, user models.User) error

	SaveAuthToken(ctx context.Context, t models.AuthToken) error
	DeleteAuthToken(ctx context.Context, userID uuid.UUID, token string) error
}

type UserProvider interface {
	User(ctx context.Context, email string) (models.User, error)
	UserByID(ctx context.Context, id uuid.UUID) (models.User, error)
	HasAuthToken(ctx context.Context, userID uuid.UUID, access, token string) (bool, error)
}

func New(
	log *slog.Logger,
	userSaver UserSaver,
	userProvider UserProvider,
	secretKey string,
) *Auth {
	return &Auth{
		log:         log,
		usrSaver:    userSaver,
		usrProvider: userProvider,
		secretKey:   secretKey,
	}
}

// RegisterNewUser creates a user and immediately opens a session for them:
// the issued token is persisted before the call returns, so it is usable for
// authenticated requests right away.
func (a *Auth) RegisterNewUser(
	ctx context.Context,
	email string,
	pass string,
) (models.User, string, error) {
	const op = "auth.RegisterNewUser"

	log := a.log.With(
		slog.String("op", op),
	)

	passHash, err := bcrypt.GenerateFromPassword([]byte(pass), bcrypt.DefaultCost)
	if err != nil {
		log.Error("failed to generate password hash", sl.Err(err))
		return models.User{}, "", fmt.Errorf("%s: %w", op, err)
	}

	user := models.User{
		ID:       uuid.New(),
		Email:    email,
		PassHash: passHash,
	}

	if err := a.usrSaver.SaveUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrUserExists) {
			log.Warn("user already exists")

			return models.User{}, "", fmt.Errorf("%s: %w", op, ErrUserExists)
		}

		log.Error("failed to save user", sl.Err(err))

		return models.User{}, "", fmt.Errorf("%s: %w", op, err)
	}

	token, err := a.issueToken(ctx, user.ID)
	if err != nil {
		log.Error("failed to issue token", sl.Err(err))
		return models.User{}, "", fmt.Errorf("%s: %w", op, err)
	}

	log.Info("user registered", slog.String("uid", user.ID.String()))

	return user, token, nil
}

// Login verifies the credentials and returns the user together with a freshly
// persisted auth token. An unknown email and a wrong password produce the
// same error so the response does not leak which emails are registered.
func (a *Auth) Login(
	ctx context.Context,
	email, password string,
) (models.User, string, error) {
	const op = "auth.Login"

	log := a.log.With(slog.String("op", op))

	user, err := a.usrProvider.User(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			log.Warn("user not found")
			return models.User{}, "", ErrInvalidCredentials
		}

		log.Error("failed to get user", sl.Err(err))
		return models.User{}, "", fmt.Errorf("%s: %w", op, err)
	}

	if err := bcrypt.CompareHashAndPassword(user.PassHash, []byte(password)); err != nil {
		log.Info("invalid credentials", sl.Err(err))
		return models.User{}, "", ErrInvalidCredentials
	}

	token, err := a.issueToken(ctx, user.ID)
	if err != nil {
		log.Error("failed to issue token", sl.Err(err))
		return models.User{}, "", fmt.Errorf("%s: %w", op, err)
	}

	log.Info("user logged in successfully", slog.String("uid", user.ID.String()))

	return user, token, nil
}

// UserByToken resolves a token to its user. The signature alone is not
// enough: the exact token must still be present on the user's token list,
// which is how logout revokes access.
func (a *Auth) UserByToken(ctx context.Context, token string) (models.User, error) {
	const op = "auth.UserByToken"

	log := a.log.With(slog.String("op", op))

	userIDStr, access, err := jwt.ParseToken(token, a.secretKey)
	if err != nil {
		log.Warn("failed to parse token", sl.Err(err))
		return models.User{}, ErrInvalidToken
	}

	if access != models.AccessAuth {
		log.Warn("unexpected access scope", slog.String("access", access))
		return models.User{}, ErrInvalidToken
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		log.Warn("malformed user id in token", sl.Err(err))
		return models.User{}, ErrInvalidToken
	}

	ok, err := a.usrProvider.HasAuthToken(ctx, userID, access, token)
	if err != nil {
		log.Error("failed to check token", sl.Err(err))
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}
	if !ok {
		log.Warn("token revoked or never issued")
		return models.User{}, ErrInvalidToken
	}

	user, err := a.usrProvider.UserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			log.Warn("token user no longer exists")
			return models.User{}, ErrInvalidToken
		}

		log.Error("failed to load user", sl.Err(err))
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

// Logout removes the token from the user's token list. Removing an already
// absent token is not an error.
func (a *Auth) Logout(ctx context.Context, userID uuid.UUID, token string) error {
	const op = "auth.Logout"

	log := a.log.With(slog.String("op", op))

	if err := a.usrSaver.DeleteAuthToken(ctx, userID, token); err != nil {
		log.Error("failed to delete auth token", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("logout successful", slog.String("uid", userID.String()))

	return nil
}

func (a *Auth) issueToken(ctx context.Context, userID uuid.UUID) (string, error) {
	token, err := jwt.NewToken(userID.String(), models.AccessAuth, a.secretKey)
	if err != nil {
		return "", err
	}

	err = a.usrSaver.SaveAuthToken(ctx, models.AuthToken{
		UserID: userID,
		Access: models.AccessAuth,
		Token:  token,
	})
	if err != nil {
		return "", err
	}

	return token, nil
}
