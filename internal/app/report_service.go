package app

import (
	"context"
	"fmt"
	"time"

	"diabetracker/internal/domain"
)

const maxReportDays = 366

// ReportService builds per-day summaries of the logbook.
type ReportService struct {
	logbook domain.LogbookRepository
	now     func() time.Time
}

// NewReportService creates a ReportService backed by the logbook repository.
func NewReportService(logbook domain.LogbookRepository) *ReportService {
	return &ReportService{logbook: logbook, now: time.Now}
}

// DayPoint is a single day returned by GetDaily.
type DayPoint struct {
	Day             string        `json:"day"`
	Glucose         *GlucosePoint `json:"glucose"`
	CarbGrams       float64       `json:"carbGrams"`
	MedicationUnits float64       `json:"medicationUnits"`
}

// GlucosePoint is the optional glucose summary within a DayPoint.
type GlucosePoint struct {
	Average float64 `json:"average"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Count   int     `json:"count"`
	Unit    string  `json:"unit"`
}

// GetDaily returns one point per local day for the last days days, oldest
// first, with glucose levels converted to unit.
func (s *ReportService) GetDaily(ctx context.Context, days int, unit domain.BGLUnit) ([]DayPoint, error) {
	if !unit.Valid() {
		return nil, fmt.Errorf("%w: unknown glucose unit %d", ErrValidation, unit)
	}
	if days < 1 {
		days = 1
	}
	if days > maxReportDays {
		days = maxReportDays
	}

	today := s.now().In(time.Local)
	todayStart := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.Local)
	rng := domain.DateTimeRange{
		Start: todayStart.AddDate(0, 0, -(days - 1)),
		End:   todayStart.AddDate(0, 0, 1),
	}

	entries, err := s.logbook.EntriesWithin(ctx, rng)
	if err != nil {
		return nil, err
	}

	points := make([]DayPoint, days)
	index := make(map[string]int, days)
	sums := make([]float64, days)
	for i := range points {
		day := rng.Start.AddDate(0, 0, i).Format("2006-01-02")
		points[i].Day = day
		index[day] = i
	}

	for _, e := range entries {
		i, ok := index[e.Time.In(time.Local).Format("2006-01-02")]
		if !ok {
			continue
		}
		p := &points[i]
		switch e.Kind {
		case domain.KindGlucose:
			from, known := domain.BGLUnitFromSymbol(e.Unit)
			if !known {
				continue
			}
			v := domain.ConvertGlucose(e.Value, from, unit)
			if p.Glucose == nil {
				p.Glucose = &GlucosePoint{Min: v, Max: v, Unit: unit.Symbol()}
			}
			p.Glucose.Count++
			p.Glucose.Min = min(p.Glucose.Min, v)
			p.Glucose.Max = max(p.Glucose.Max, v)
			sums[i] += v
		case domain.KindCarbIntake:
			p.CarbGrams += e.Value
		case domain.KindMedication:
			p.MedicationUnits += e.Value
		}
	}

	for i := range points {
		if g := points[i].Glucose; g != nil {
			g.Average = sums[i] / float64(g.Count)
		}
	}
	return points, nil
}
