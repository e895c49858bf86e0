package app

import (
	"context"
	"fmt"
	"time"

	"diabetracker/internal/domain"
)

// Upper bounds of a plausible meter reading per unit.
const (
	maxMmolPerL = 50.0
	maxMgPerDL  = 900.0
)

// GlucoseService encapsulates glucose-logging use cases.
type GlucoseService struct {
	repo domain.GlucoseRepository
}

// NewGlucoseService creates a GlucoseService backed by the given repository.
func NewGlucoseService(repo domain.GlucoseRepository) *GlucoseService {
	return &GlucoseService{repo: repo}
}

// Record validates and stores a reading. A zero Time means now. The stored
// reading, with its assigned ID, is returned.
func (s *GlucoseService) Record(ctx context.Context, r domain.GlucoseReading) (*domain.GlucoseReading, error) {
	if !r.Unit.Valid() {
		return nil, fmt.Errorf("%w: unknown glucose unit %d", ErrValidation, r.Unit)
	}
	limit := maxMmolPerL
	if r.Unit == domain.MgPerDL {
		limit = maxMgPerDL
	}
	if r.Level <= 0 || r.Level > limit {
		return nil, fmt.Errorf("%w: level must be within (0, %g] %s", ErrValidation, limit, r.Unit.Symbol())
	}
	if r.Category == "" {
		r.Category = domain.Other
	}
	if !r.Category.Valid() {
		return nil, fmt.Errorf("%w: unknown category %q", ErrValidation, r.Category)
	}
	if r.Time.IsZero() {
		r.Time = time.Now()
	}
	r.ID = 0

	id, err := s.repo.AddReading(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("add reading: %w", err)
	}
	r.ID = id
	return &r, nil
}

// UndoLast deletes the most recent reading and reports its ID.
func (s *GlucoseService) UndoLast(ctx context.Context) (bool, int64, error) {
	r, err := s.repo.LatestReading(ctx)
	if err != nil {
		return false, 0, err
	}
	if r == nil {
		return false, 0, nil
	}
	if err := s.repo.DeleteReading(ctx, r.ID); err != nil {
		return false, 0, err
	}
	return true, r.ID, nil
}
