package domain

import (
	"context"
	"time"
)

// CarbUnit is the display unit of a carbohydrate intake.
const CarbUnit = "g"

// CarbIntake is a single logged carbohydrate intake.
type CarbIntake struct {
	ID       int64     `json:"id"`
	Grams    float64   `json:"grams"`
	Time     time.Time `json:"time"`
	Category Category  `json:"category"`
	Note     string    `json:"note,omitempty"`
}

// LogEntry projects the intake into the common logbook shape.
func (c CarbIntake) LogEntry() LogEntry {
	return LogEntry{
		ID:       c.ID,
		Kind:     KindCarbIntake,
		Time:     c.Time,
		Category: c.Category,
		Value:    c.Grams,
		Unit:     CarbUnit,
		Label:    c.Note,
	}
}

// CarbIntakeRepository is the port for carbohydrate intake persistence.
type CarbIntakeRepository interface {
	AddIntake(ctx context.Context, c CarbIntake) (int64, error)
	LatestIntake(ctx context.Context) (*CarbIntake, error)
	IntakesWithin(ctx context.Context, rng DateTimeRange) ([]CarbIntake, error)
	DeleteIntake(ctx context.Context, id int64) error
}
