package domain

import (
	"context"
	"time"
)

// MedicationUnit is the display unit of a medication dose.
const MedicationUnit = "U"

// MedicationDose is a single logged medication dose, e.g. insulin units.
type MedicationDose struct {
	ID       int64     `json:"id"`
	Name     string    `json:"name"`
	Units    float64   `json:"units"`
	Time     time.Time `json:"time"`
	Category Category  `json:"category"`
}

// LogEntry projects the dose into the common logbook shape.
func (d MedicationDose) LogEntry() LogEntry {
	return LogEntry{
		ID:       d.ID,
		Kind:     KindMedication,
		Time:     d.Time,
		Category: d.Category,
		Value:    d.Units,
		Unit:     MedicationUnit,
		Label:    d.Name,
	}
}

// MedicationRepository is the port for medication dose persistence.
type MedicationRepository interface {
	AddDose(ctx context.Context, d MedicationDose) (int64, error)
	LatestDose(ctx context.Context) (*MedicationDose, error)
	DosesWithin(ctx context.Context, rng DateTimeRange) ([]MedicationDose, error)
	DeleteDose(ctx context.Context, id int64) error
}
