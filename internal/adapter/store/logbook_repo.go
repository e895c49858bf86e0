package store

import (
	"context"
	"errors"
	"fmt"

	"diabetracker/internal/domain"

	"gorm.io/gorm"
)

const newestFirst = "taken_at DESC, id DESC"

// AddReading inserts a glucose reading and returns its ID.
func (d *DB) AddReading(ctx context.Context, r domain.GlucoseReading) (int64, error) {
	row := glucoseRow{
		Level:    r.Level,
		Unit:     int(r.Unit),
		TakenAt:  storedTime(r.Time),
		Category: string(r.Category),
	}
	if err := d.gorm.WithContext(ctx).Create(&row).Error; err != nil {
		return 0, err
	}
	return row.ID, nil
}

// LatestReading returns the most recent reading, or nil if there is none.
func (d *DB) LatestReading(ctx context.Context) (*domain.GlucoseReading, error) {
	var row glucoseRow
	err := d.gorm.WithContext(ctx).Order(newestFirst).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	r := row.toDomain()
	return &r, nil
}

// ReadingsWithin returns the readings taken inside rng, newest first.
func (d *DB) ReadingsWithin(ctx context.Context, rng domain.DateTimeRange) ([]domain.GlucoseReading, error) {
	return readingsWithin(d.gorm.WithContext(ctx), rng)
}

func readingsWithin(tx *gorm.DB, rng domain.DateTimeRange) ([]domain.GlucoseReading, error) {
	var rows []glucoseRow
	if err := inRange(tx, rng).Order(newestFirst).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.GlucoseReading, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

// DeleteReading removes a reading by ID.
func (d *DB) DeleteReading(ctx context.Context, id int64) error {
	return d.gorm.WithContext(ctx).Delete(&glucoseRow{}, id).Error
}

// AddDose inserts a medication dose and returns its ID.
func (d *DB) AddDose(ctx context.Context, m domain.MedicationDose) (int64, error) {
	row := medicationRow{
		Name:     m.Name,
		Units:    m.Units,
		TakenAt:  storedTime(m.Time),
		Category: string(m.Category),
	}
	if err := d.gorm.WithContext(ctx).Create(&row).Error; err != nil {
		return 0, err
	}
	return row.ID, nil
}

// LatestDose returns the most recent dose, or nil if there is none.
func (d *DB) LatestDose(ctx context.Context) (*domain.MedicationDose, error) {
	var row medicationRow
	err := d.gorm.WithContext(ctx).Order(newestFirst).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	m := row.toDomain()
	return &m, nil
}

// DosesWithin returns the doses taken inside rng, newest first.
func (d *DB) DosesWithin(ctx context.Context, rng domain.DateTimeRange) ([]domain.MedicationDose, error) {
	return dosesWithin(d.gorm.WithContext(ctx), rng)
}

func dosesWithin(tx *gorm.DB, rng domain.DateTimeRange) ([]domain.MedicationDose, error) {
	var rows []medicationRow
	if err := inRange(tx, rng).Order(newestFirst).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.MedicationDose, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

// DeleteDose removes a dose by ID.
func (d *DB) DeleteDose(ctx context.Context, id int64) error {
	return d.gorm.WithContext(ctx).Delete(&medicationRow{}, id).Error
}

// AddIntake inserts a carbohydrate intake and returns its ID.
func (d *DB) AddIntake(ctx context.Context, c domain.CarbIntake) (int64, error) {
	row := carbRow{
		Grams:    c.Grams,
		TakenAt:  storedTime(c.Time),
		Category: string(c.Category),
		Note:     c.Note,
	}
	if err := d.gorm.WithContext(ctx).Create(&row).Error; err != nil {
		return 0, err
	}
	return row.ID, nil
}

// LatestIntake returns the most recent intake, or nil if there is none.
func (d *DB) LatestIntake(ctx context.Context) (*domain.CarbIntake, error) {
	var row carbRow
	err := d.gorm.WithContext(ctx).Order(newestFirst).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	c := row.toDomain()
	return &c, nil
}

// IntakesWithin returns the intakes inside rng, newest first.
func (d *DB) IntakesWithin(ctx context.Context, rng domain.DateTimeRange) ([]domain.CarbIntake, error) {
	return intakesWithin(d.gorm.WithContext(ctx), rng)
}

func intakesWithin(tx *gorm.DB, rng domain.DateTimeRange) ([]domain.CarbIntake, error) {
	var rows []carbRow
	if err := inRange(tx, rng).Order(newestFirst).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.CarbIntake, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

// DeleteIntake removes an intake by ID.
func (d *DB) DeleteIntake(ctx context.Context, id int64) error {
	return d.gorm.WithContext(ctx).Delete(&carbRow{}, id).Error
}

// EntriesWithin returns every logged event inside rng, newest first. The
// three kinds are read in one transaction so the result is a consistent
// snapshot.
func (d *DB) EntriesWithin(ctx context.Context, rng domain.DateTimeRange) ([]domain.LogEntry, error) {
	var out []domain.LogEntry
	err := d.gorm.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		readings, err := readingsWithin(tx, rng)
		if err != nil {
			return fmt.Errorf("readings: %w", err)
		}
		doses, err := dosesWithin(tx, rng)
		if err != nil {
			return fmt.Errorf("doses: %w", err)
		}
		intakes, err := intakesWithin(tx, rng)
		if err != nil {
			return fmt.Errorf("intakes: %w", err)
		}

		out = make([]domain.LogEntry, 0, len(readings)+len(doses)+len(intakes))
		for _, r := range readings {
			out = append(out, r.LogEntry())
		}
		for _, m := range doses {
			out = append(out, m.LogEntry())
		}
		for _, c := range intakes {
			out = append(out, c.LogEntry())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	domain.SortNewestFirst(out)
	return out, nil
}

// inRange applies the half-open window on taken_at.
func inRange(tx *gorm.DB, rng domain.DateTimeRange) *gorm.DB {
	return tx.Where("taken_at >= ? AND taken_at < ?", storedTime(rng.Start), storedTime(rng.End))
}
