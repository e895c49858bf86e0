package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"diabetracker/internal/domain"
)

const maxCarbGrams = 1000.0

// CarbService encapsulates carbohydrate-logging use cases.
type CarbService struct {
	repo domain.CarbIntakeRepository
}

// NewCarbService creates a CarbService backed by the given repository.
func NewCarbService(repo domain.CarbIntakeRepository) *CarbService {
	return &CarbService{repo: repo}
}

// Record validates and stores an intake. A zero Time means now.
func (s *CarbService) Record(ctx context.Context, c domain.CarbIntake) (*domain.CarbIntake, error) {
	if c.Grams <= 0 || c.Grams > maxCarbGrams {
		return nil, fmt.Errorf("%w: grams must be within (0, %g]", ErrValidation, maxCarbGrams)
	}
	if c.Category == "" {
		c.Category = domain.Other
	}
	if !c.Category.Valid() {
		return nil, fmt.Errorf("%w: unknown category %q", ErrValidation, c.Category)
	}
	if c.Time.IsZero() {
		c.Time = time.Now()
	}
	c.Note = strings.TrimSpace(c.Note)
	c.ID = 0

	id, err := s.repo.AddIntake(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("add intake: %w", err)
	}
	c.ID = id
	return &c, nil
}

// UndoLast deletes the most recent intake and reports its ID.
func (s *CarbService) UndoLast(ctx context.Context) (bool, int64, error) {
	c, err := s.repo.LatestIntake(ctx)
	if err != nil {
		return false, 0, err
	}
	if c == nil {
		return false, 0, nil
	}
	if err := s.repo.DeleteIntake(ctx, c.ID); err != nil {
		return false, 0, err
	}
	return true, c.ID, nil
}
