package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"mood_journal/internal/models"
)

// ErrUsernameTaken is returned by Authorization.Create when the username already exists.
var ErrUsernameTaken = errors.New("username already taken")

type Authorization interface {
	Create(ctx context.Context, username, hash string) (int, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

// MoodRepo is the append-only mood ledger store.
type MoodRepo interface {
	Append(ctx context.Context, e models.MoodEntry) (int, error)
	ListByUsername(ctx context.Context, username string) ([]models.MoodEntry, error)
	FindByUsernameAndDate(ctx context.Context, username, date string) (*models.MoodEntry, error)
}

// SessionRepo persists login sessions.
type SessionRepo interface {
	Create(ctx context.Context, s models.Session) error
	Get(ctx context.Context, id string) (*models.Session, error)
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type Repository struct {
	Auth     Authorization
	Moods    MoodRepo
	Sessions SessionRepo
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Auth:     NewUserRepository(db),
		Moods:    NewMoodSQLite(db),
		Sessions: NewSessionSQLite(db),
	}
}
