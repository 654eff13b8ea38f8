package models

import (
	"time"

	"github.com/google/uuid"
)

// AccessAuth is the only token scope issued today. Kept as a column so that
// narrower scopes can be added without a schema change.
const AccessAuth = "auth"

type User struct {
	ID        uuid.UUID
	Email     string
	PassHash  []byte
	CreatedAt time.Time
}

// AuthToken is one active session credential. A user holds zero or more;
// deleting the row is the logout/revocation mechanism.
type AuthToken struct {
	UserID    uuid.UUID
	Access    string
	Token     string
	CreatedAt time.Time
}

type Todo struct {
	ID          uuid.UUID
	Text        string
	Completed   bool
	CompletedAt *int64 // epoch milliseconds, non-nil iff Completed
	CreatedAt   time.Time
}

// UserView is the outward projection of a User. Password hash and tokens are
// never serialized.
type UserView struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func (u User) View() UserView {
	return UserView{
		ID:    u.ID.String(),
		Email: u.Email,
	}
}

type TodoView struct {
	ID          string `json:"id"`
	Text        string `json:"text"`
	Completed   bool   `json:"completed"`
	CompletedAt *int64 `json:"completedAt"`
}

func (t Todo) View() TodoView {
	return TodoView{
		ID:          t.ID.String(),
		Text:        t.Text,
		Completed:   t.Completed,
		CompletedAt: t.CompletedAt,
	}
}

// Message is the payload published to the notification queue when a user
// signs up.
type Message struct {
	Email   string `json:"to"`
	Purpose string `json:"purpose"`
}
