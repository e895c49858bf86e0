// Package scheduler runs periodic maintenance jobs.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Purger deletes expired sessions.
type Purger interface {
	PurgeExpiredSessions(ctx context.Context) (int64, error)
}

// SessionPurgeScheduler removes expired sessions on a cron schedule.
type SessionPurgeScheduler struct {
	purger   Purger
	schedule string
	log      *slog.Logger

	cron      *cron.Cron
	mu        sync.Mutex
	isRunning bool
}

// NewSessionPurgeScheduler creates a scheduler for the given standard
// five-field cron schedule.
func NewSessionPurgeScheduler(purger Purger, schedule string, log *slog.Logger) *SessionPurgeScheduler {
	if log == nil {
		log = slog.Default()
	}
	return &SessionPurgeScheduler{
		purger:   purger,
		schedule: schedule,
		log:      log,
		cron:     cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start schedules the purge job and stops it when ctx is cancelled.
func (s *SessionPurgeScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}
	if _, err := s.cron.AddFunc(s.schedule, func() { s.RunOnce(ctx) }); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.schedule, err)
	}
	s.cron.Start()
	s.isRunning = true
	s.log.Info("session purge scheduled", "schedule", s.schedule)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()
	return nil
}

// RunOnce purges expired sessions now.
func (s *SessionPurgeScheduler) RunOnce(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	n, err := s.purger.PurgeExpiredSessions(ctx)
	if err != nil {
		s.log.ErrorContext(ctx, "session purge failed", "error", err)
		return
	}
	if n > 0 {
		s.log.InfoContext(ctx, "expired sessions purged", "count", n)
	}
}

// Stop waits for a running job and stops the scheduler.
func (s *SessionPurgeScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}
	<-s.cron.Stop().Done()
	s.isRunning = false
	s.log.Info("session purge stopped")
}
