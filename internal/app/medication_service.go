package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"diabetracker/internal/domain"
)

const maxDoseUnits = 100.0

// MedicationService encapsulates medication-logging use cases.
type MedicationService struct {
	repo domain.MedicationRepository
}

// NewMedicationService creates a MedicationService backed by the given repository.
func NewMedicationService(repo domain.MedicationRepository) *MedicationService {
	return &MedicationService{repo: repo}
}

// Record validates and stores a dose. A zero Time means now.
func (s *MedicationService) Record(ctx context.Context, d domain.MedicationDose) (*domain.MedicationDose, error) {
	d.Name = strings.TrimSpace(d.Name)
	if d.Name == "" {
		return nil, fmt.Errorf("%w: medication name is required", ErrValidation)
	}
	if d.Units <= 0 || d.Units > maxDoseUnits {
		return nil, fmt.Errorf("%w: units must be within (0, %g]", ErrValidation, maxDoseUnits)
	}
	if d.Category == "" {
		d.Category = domain.Other
	}
	if !d.Category.Valid() {
		return nil, fmt.Errorf("%w: unknown category %q", ErrValidation, d.Category)
	}
	if d.Time.IsZero() {
		d.Time = time.Now()
	}
	d.ID = 0

	id, err := s.repo.AddDose(ctx, d)
	if err != nil {
		return nil, fmt.Errorf("add dose: %w", err)
	}
	d.ID = id
	return &d, nil
}

// UndoLast deletes the most recent dose and reports its ID.
func (s *MedicationService) UndoLast(ctx context.Context) (bool, int64, error) {
	d, err := s.repo.LatestDose(ctx)
	if err != nil {
		return false, 0, err
	}
	if d == nil {
		return false, 0, nil
	}
	if err := s.repo.DeleteDose(ctx, d.ID); err != nil {
		return false, 0, err
	}
	return true, d.ID, nil
}
