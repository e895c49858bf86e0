package store

import (
	"context"
	"errors"
	"time"

	"diabetracker/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GetPreference returns the value stored under key.
func (d *DB) GetPreference(ctx context.Context, key string) (string, bool, error) {
	var row preferenceRow
	err := d.gorm.WithContext(ctx).Where("key = ?", key).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return row.Value, true, nil
}

// SetPreference creates or replaces the value stored under key.
func (d *DB) SetPreference(ctx context.Context, key, value string) error {
	row := preferenceRow{Key: key, Value: value}
	return d.gorm.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&row).Error
}

// GetOwner returns the tracker owner, or nil before setup.
func (d *DB) GetOwner(ctx context.Context) (*domain.Owner, error) {
	var row ownerRow
	err := d.gorm.WithContext(ctx).Order("id").First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return row.toDomain(), nil
}

// CreateOwner creates the owner account.
func (d *DB) CreateOwner(ctx context.Context, username, passwordHash string) (*domain.Owner, error) {
	row := ownerRow{Username: username, PasswordHash: passwordHash}
	if err := d.gorm.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, err
	}
	return row.toDomain(), nil
}

// CreateSession stores a new session.
func (d *DB) CreateSession(ctx context.Context, ownerID int64, token string, expiresAt time.Time) error {
	row := sessionRow{Token: token, OwnerID: ownerID, ExpiresAt: storedTime(expiresAt)}
	return d.gorm.WithContext(ctx).Create(&row).Error
}

// GetSession returns the session for token, or nil if it does not exist.
func (d *DB) GetSession(ctx context.Context, token string) (*domain.Session, error) {
	var row sessionRow
	err := d.gorm.WithContext(ctx).Where("token = ?", token).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &domain.Session{
		Token:     row.Token,
		OwnerID:   row.OwnerID,
		ExpiresAt: row.ExpiresAt,
		CreatedAt: row.CreatedAt,
	}, nil
}

// DeleteSession removes a session.
func (d *DB) DeleteSession(ctx context.Context, token string) error {
	return d.gorm.WithContext(ctx).Where("token = ?", token).Delete(&sessionRow{}).Error
}

// DeleteExpiredSessions removes sessions that expired before now.
func (d *DB) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	res := d.gorm.WithContext(ctx).Where("expires_at < ?", storedTime(now)).Delete(&sessionRow{})
	return res.RowsAffected, res.Error
}
