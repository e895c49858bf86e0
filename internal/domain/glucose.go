package domain

import (
	"context"
	"strconv"
	"strings"
	"time"
)

// BGLUnit is the unit of measure of a blood glucose level. The numeric value
// is the code persisted in preferences and storage.
type BGLUnit int

const (
	// MmolPerL is millimoles per litre.
	MmolPerL BGLUnit = 1
	// MgPerDL is milligrams per decilitre.
	MgPerDL BGLUnit = 2
)

// Symbol returns the display symbol, or "" for an unknown unit.
func (u BGLUnit) Symbol() string {
	switch u {
	case MmolPerL:
		return "mmol/L"
	case MgPerDL:
		return "mg/dL"
	}
	return ""
}

// Code returns the persisted code of u.
func (u BGLUnit) Code() string {
	return strconv.Itoa(int(u))
}

// Valid reports whether u is a known unit.
func (u BGLUnit) Valid() bool {
	return u.Symbol() != ""
}

// BGLUnitFromCode maps a stored unit code to a unit.
func BGLUnitFromCode(code string) (BGLUnit, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(code))
	if err != nil {
		return 0, false
	}
	u := BGLUnit(n)
	return u, u.Valid()
}

// BGLUnitFromSymbol maps a display symbol ("mmol/L", "mg/dL") to a unit.
// Matching is case-insensitive.
func BGLUnitFromSymbol(symbol string) (BGLUnit, bool) {
	for _, u := range []BGLUnit{MmolPerL, MgPerDL} {
		if strings.EqualFold(u.Symbol(), strings.TrimSpace(symbol)) {
			return u, true
		}
	}
	return 0, false
}

// Category tags when a reading or intake was taken relative to the day's meals.
type Category string

const (
	BeforeBreakfast Category = "before_breakfast"
	AfterBreakfast  Category = "after_breakfast"
	BeforeLunch     Category = "before_lunch"
	AfterLunch      Category = "after_lunch"
	BeforeDinner    Category = "before_dinner"
	AfterDinner     Category = "after_dinner"
	Bedtime         Category = "bedtime"
	Night           Category = "night"
	Other           Category = "other"
)

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	switch c {
	case BeforeBreakfast, AfterBreakfast, BeforeLunch, AfterLunch,
		BeforeDinner, AfterDinner, Bedtime, Night, Other:
		return true
	}
	return false
}

// GlucoseReading is a single blood glucose measurement. ID is assigned by the
// store on insert.
type GlucoseReading struct {
	ID       int64     `json:"id"`
	Level    float64   `json:"level"`
	Unit     BGLUnit   `json:"unit"`
	Time     time.Time `json:"time"`
	Category Category  `json:"category"`
}

// LogEntry projects the reading into the common logbook shape.
func (r GlucoseReading) LogEntry() LogEntry {
	return LogEntry{
		ID:       r.ID,
		Kind:     KindGlucose,
		Time:     r.Time,
		Category: r.Category,
		Value:    r.Level,
		Unit:     r.Unit.Symbol(),
	}
}

// GlucoseRepository is the port for glucose reading persistence.
type GlucoseRepository interface {
	AddReading(ctx context.Context, r GlucoseReading) (int64, error)
	LatestReading(ctx context.Context) (*GlucoseReading, error)
	ReadingsWithin(ctx context.Context, rng DateTimeRange) ([]GlucoseReading, error)
	DeleteReading(ctx context.Context, id int64) error
}
