package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
)

type countingPurger struct {
	calls atomic.Int32
	err   error
}

func (p *countingPurger) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	p.calls.Add(1)
	return 2, p.err
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSessionPurgeScheduler_RunOnce(t *testing.T) {
	p := &countingPurger{}
	s := NewSessionPurgeScheduler(p, "0 * * * *", quietLogger())
	s.RunOnce(context.Background())
	if got := p.calls.Load(); got != 1 {
		t.Errorf("expected 1 purge, got %d", got)
	}

	p.err = errors.New("db closed")
	s.RunOnce(context.Background())
	if got := p.calls.Load(); got != 2 {
		t.Errorf("expected 2 purges, got %d", got)
	}
}

func TestSessionPurgeScheduler_InvalidSchedule(t *testing.T) {
	s := NewSessionPurgeScheduler(&countingPurger{}, "whenever", quietLogger())
	if err := s.Start(context.Background()); err == nil {
		t.Fatal("expected error for invalid schedule")
	}
}

func TestSessionPurgeScheduler_StartStop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := NewSessionPurgeScheduler(&countingPurger{}, "*/5 * * * *", quietLogger())
	if err := s.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := s.Start(ctx); err != nil {
		t.Fatalf("second Start: %v", err)
	}
	s.Stop()
	s.Stop()
}
