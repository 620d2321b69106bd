package service

import (
	"context"
	"time"

	"mood_journal/internal/logger"
	"mood_journal/internal/repository"
)

// SweeperService deletes expired sessions on a fixed interval.
type SweeperService struct {
	sessions repository.SessionRepo
	clock    Clock
	log      *logger.Logger
}

func NewSweeperService(sessions repository.SessionRepo, clock Clock, log *logger.Logger) *SweeperService {
	if log == nil {
		log = logger.Nop()
	}
	return &SweeperService{sessions: sessions, clock: clock, log: log}
}

// Run ticks at the given interval until ctx is canceled.
func (s *SweeperService) Run(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			_, _ = s.Sweep(ctx)
		}
	}
}

// Sweep purges sessions that expired before the clock's current time.
func (s *SweeperService) Sweep(ctx context.Context) (int64, error) {
	n, err := s.sessions.DeleteExpired(ctx, s.clock.Now())
	if err != nil {
		s.log.Errorw("session_sweep_failed", "err", err)
		return 0, err
	}
	if n > 0 {
		s.log.Infow("session_sweep", "purged", n)
	}
	return n, nil
}
