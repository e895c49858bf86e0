package store

import (
	"time"

	"diabetracker/internal/domain"
)

type glucoseRow struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	Level     float64   `gorm:"not null"`
	Unit      int       `gorm:"not null"`
	TakenAt   time.Time `gorm:"not null;index"`
	Category  string    `gorm:"size:32;not null"`
	CreatedAt time.Time
}

func (glucoseRow) TableName() string { return "glucose_readings" }

func (r glucoseRow) toDomain() domain.GlucoseReading {
	return domain.GlucoseReading{
		ID:       r.ID,
		Level:    r.Level,
		Unit:     domain.BGLUnit(r.Unit),
		Time:     r.TakenAt,
		Category: domain.Category(r.Category),
	}
}

type medicationRow struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	Name      string    `gorm:"size:100;not null"`
	Units     float64   `gorm:"not null"`
	TakenAt   time.Time `gorm:"not null;index"`
	Category  string    `gorm:"size:32;not null"`
	CreatedAt time.Time
}

func (medicationRow) TableName() string { return "medication_doses" }

func (r medicationRow) toDomain() domain.MedicationDose {
	return domain.MedicationDose{
		ID:       r.ID,
		Name:     r.Name,
		Units:    r.Units,
		Time:     r.TakenAt,
		Category: domain.Category(r.Category),
	}
}

type carbRow struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	Grams     float64   `gorm:"not null"`
	TakenAt   time.Time `gorm:"not null;index"`
	Category  string    `gorm:"size:32;not null"`
	Note      string    `gorm:"type:text"`
	CreatedAt time.Time
}

func (carbRow) TableName() string { return "carb_intakes" }

func (r carbRow) toDomain() domain.CarbIntake {
	return domain.CarbIntake{
		ID:       r.ID,
		Grams:    r.Grams,
		Time:     r.TakenAt,
		Category: domain.Category(r.Category),
		Note:     r.Note,
	}
}

type preferenceRow struct {
	Key       string `gorm:"primaryKey;size:100"`
	Value     string `gorm:"type:text;not null"`
	UpdatedAt time.Time
}

func (preferenceRow) TableName() string { return "preferences" }

type ownerRow struct {
	ID           int64  `gorm:"primaryKey;autoIncrement"`
	Username     string `gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string `gorm:"not null"`
	CreatedAt    time.Time
}

func (ownerRow) TableName() string { return "owners" }

func (r ownerRow) toDomain() *domain.Owner {
	return &domain.Owner{
		ID:           r.ID,
		Username:     r.Username,
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt,
	}
}

type sessionRow struct {
	Token     string    `gorm:"primaryKey;size:64"`
	OwnerID   int64     `gorm:"not null;index"`
	ExpiresAt time.Time `gorm:"not null;index"`
	CreatedAt time.Time
}

func (sessionRow) TableName() string { return "sessions" }
