package domain

import (
	"context"
	"sort"
	"time"
)

// LogKind tags which kind of event a LogEntry records.
type LogKind string

const (
	KindGlucose    LogKind = "glucose"
	KindMedication LogKind = "medication"
	KindCarbIntake LogKind = "carb_intake"
)

// LogEntry is one user-logged event of any kind. ID is only unique within
// its Kind.
type LogEntry struct {
	ID       int64     `json:"id"`
	Kind     LogKind   `json:"kind"`
	Time     time.Time `json:"time"`
	Category Category  `json:"category"`
	Value    float64   `json:"value"`
	Unit     string    `json:"unit"`
	Label    string    `json:"label,omitempty"`
}

// DateTimeRange is the half-open interval [Start, End).
type DateTimeRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// TrailingDays returns [end - days, end). An entry stamped exactly at end is
// outside the range.
func TrailingDays(end time.Time, days int) DateTimeRange {
	return DateTimeRange{Start: end.AddDate(0, 0, -days), End: end}
}

// Contains reports whether t falls inside r.
func (r DateTimeRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && t.Before(r.End)
}

// SortNewestFirst orders entries by time, newest first. Ties keep kind order
// stable so results are deterministic.
func SortNewestFirst(entries []LogEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Time.Equal(entries[j].Time) {
			if entries[i].Kind != entries[j].Kind {
				return entries[i].Kind < entries[j].Kind
			}
			return entries[i].ID > entries[j].ID
		}
		return entries[i].Time.After(entries[j].Time)
	})
}

// LogbookRepository is the port for queries spanning every log kind.
type LogbookRepository interface {
	EntriesWithin(ctx context.Context, rng DateTimeRange) ([]LogEntry, error)
}
