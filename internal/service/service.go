package service

import (
	"context"
	"time"

	"mood_journal/internal/logger"
	"mood_journal/internal/models"
	"mood_journal/internal/repository"
)

// Authorization is the identity manager: accounts and login sessions.
type Authorization interface {
	Register(ctx context.Context, username, password string) (int, error)
	Login(ctx context.Context, username, password string) (string, models.Session, error)
	Logout(ctx context.Context, sessionID string) error
	Resolve(ctx context.Context, token string) (models.Identity, error)
}

// MoodLedger is the append-only per-user mood store with streak computation.
type MoodLedger interface {
	ListForUser(ctx context.Context, id models.Identity) ([]models.MoodEntry, error)
	AddEntry(ctx context.Context, id models.Identity, description string) (models.MoodEntry, error)
}

// SessionSweeper purges expired sessions in the background.
// Stop via context cancellation in main() for graceful shutdown.
type SessionSweeper interface {
	Run(ctx context.Context, interval time.Duration)
}

// Service aggregates all sub-services.
type Service struct {
	Authorization
	MoodLedger
	SessionSweeper
}

// Options carries the non-repository dependencies of the services.
type Options struct {
	Clock      Clock
	Secret     []byte
	SessionTTL time.Duration
	Log        *logger.Logger
}

const defaultSessionTTL = 30 * 24 * time.Hour

// NewService wires the repository layer into concrete services.
func NewService(repos *repository.Repository, opts Options) *Service {
	if opts.Clock == nil {
		opts.Clock = SystemClock{}
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = defaultSessionTTL
	}
	return &Service{
		Authorization:  NewAuthService(repos.Auth, repos.Sessions, opts.Clock, opts.Secret, opts.SessionTTL),
		MoodLedger:     NewMoodService(repos.Moods, opts.Clock),
		SessionSweeper: NewSweeperService(repos.Sessions, opts.Clock, opts.Log),
	}
}
