package app

import (
	"context"
	"fmt"
	"strings"

	"diabetracker/internal/domain"
)

// PreferencesService reads and writes display settings.
type PreferencesService struct {
	repo domain.PreferenceRepository
}

// NewPreferencesService creates a PreferencesService backed by repo.
func NewPreferencesService(repo domain.PreferenceRepository) *PreferencesService {
	return &PreferencesService{repo: repo}
}

// FirstName returns the owner's first name; ok is false when unset or empty.
func (s *PreferencesService) FirstName(ctx context.Context) (string, bool, error) {
	v, ok, err := s.repo.GetPreference(ctx, domain.PrefFirstName)
	if err != nil || !ok || v == "" {
		return "", false, err
	}
	return v, true, nil
}

// SetFirstName stores the owner's first name.
func (s *PreferencesService) SetFirstName(ctx context.Context, name string) error {
	return s.repo.SetPreference(ctx, domain.PrefFirstName, strings.TrimSpace(name))
}

// BGLUnit returns the preferred glucose unit; ok is false when the stored
// code is missing or unknown.
func (s *PreferencesService) BGLUnit(ctx context.Context) (domain.BGLUnit, bool, error) {
	v, ok, err := s.repo.GetPreference(ctx, domain.PrefBGLUnit)
	if err != nil || !ok {
		return 0, false, err
	}
	u, known := domain.BGLUnitFromCode(v)
	return u, known, nil
}

// SetBGLUnit stores the preferred glucose unit as its code.
func (s *PreferencesService) SetBGLUnit(ctx context.Context, u domain.BGLUnit) error {
	if !u.Valid() {
		return fmt.Errorf("%w: unknown glucose unit %d", ErrValidation, u)
	}
	return s.repo.SetPreference(ctx, domain.PrefBGLUnit, u.Code())
}

// UnitSymbol returns the display symbol of the preferred unit, or "" when
// the stored code does not map to a known unit.
func (s *PreferencesService) UnitSymbol(ctx context.Context) (string, error) {
	u, ok, err := s.BGLUnit(ctx)
	if err != nil || !ok {
		return "", err
	}
	return u.Symbol(), nil
}
