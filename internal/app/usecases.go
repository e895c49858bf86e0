package app

import (
	"context"

	"diabetracker/internal/domain"
)

// LoadLastReading loads the most recent glucose reading.
type LoadLastReading struct {
	repo domain.GlucoseRepository
}

// NewLoadLastReading creates the use case backed by repo.
func NewLoadLastReading(repo domain.GlucoseRepository) *LoadLastReading {
	return &LoadLastReading{repo: repo}
}

// Execute returns the latest reading as a log entry, or nil if none exist.
func (u *LoadLastReading) Execute(ctx context.Context) (*domain.LogEntry, error) {
	r, err := u.repo.LatestReading(ctx)
	if err != nil || r == nil {
		return nil, err
	}
	e := r.LogEntry()
	return &e, nil
}

// LoadLastMedication loads the most recent medication dose.
type LoadLastMedication struct {
	repo domain.MedicationRepository
}

// NewLoadLastMedication creates the use case backed by repo.
func NewLoadLastMedication(repo domain.MedicationRepository) *LoadLastMedication {
	return &LoadLastMedication{repo: repo}
}

// Execute returns the latest dose as a log entry, or nil if none exist.
func (u *LoadLastMedication) Execute(ctx context.Context) (*domain.LogEntry, error) {
	d, err := u.repo.LatestDose(ctx)
	if err != nil || d == nil {
		return nil, err
	}
	e := d.LogEntry()
	return &e, nil
}

// LoadLastCarbIntake loads the most recent carbohydrate intake.
type LoadLastCarbIntake struct {
	repo domain.CarbIntakeRepository
}

// NewLoadLastCarbIntake creates the use case backed by repo.
func NewLoadLastCarbIntake(repo domain.CarbIntakeRepository) *LoadLastCarbIntake {
	return &LoadLastCarbIntake{repo: repo}
}

// Execute returns the latest intake as a log entry, or nil if none exist.
func (u *LoadLastCarbIntake) Execute(ctx context.Context) (*domain.LogEntry, error) {
	c, err := u.repo.LatestIntake(ctx)
	if err != nil || c == nil {
		return nil, err
	}
	e := c.LogEntry()
	return &e, nil
}

// LoadEntriesWithin loads every log entry inside a time window.
type LoadEntriesWithin struct {
	repo domain.LogbookRepository
}

// NewLoadEntriesWithin creates the use case backed by repo.
func NewLoadEntriesWithin(repo domain.LogbookRepository) *LoadEntriesWithin {
	return &LoadEntriesWithin{repo: repo}
}

// Execute returns the entries in rng, newest first.
func (u *LoadEntriesWithin) Execute(ctx context.Context, rng domain.DateTimeRange) ([]domain.LogEntry, error) {
	return u.repo.EntriesWithin(ctx, rng)
}
