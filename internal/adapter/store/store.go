// Package store implements the domain repositories on gorm. The same code
// serves the embedded SQLite database and PostgreSQL; callers pick the
// dialector.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"diabetracker/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB wraps a *gorm.DB and implements every domain repository interface.
type DB struct {
	gorm *gorm.DB
}

var (
	_ domain.GlucoseRepository    = (*DB)(nil)
	_ domain.MedicationRepository = (*DB)(nil)
	_ domain.CarbIntakeRepository = (*DB)(nil)
	_ domain.LogbookRepository    = (*DB)(nil)
	_ domain.PreferenceRepository = (*DB)(nil)
	_ domain.OwnerRepository      = (*DB)(nil)
	_ domain.SessionRepository    = (*DB)(nil)
)

// Open connects through dialector and migrates the schema. SQL warnings and
// slow queries go to log.
func Open(dialector gorm.Dialector, log *slog.Logger) (*DB, error) {
	if log == nil {
		log = slog.Default()
	}
	g, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.New(slog.NewLogLogger(log.Handler(), slog.LevelWarn), logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	d := &DB{gorm: g}
	if err := d.migrate(context.Background()); err != nil {
		_ = d.Close()
		return nil, err
	}
	return d, nil
}

// Close closes the underlying database connection.
func (d *DB) Close() error {
	sqlDB, err := d.gorm.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks that the database is reachable.
func (d *DB) Ping(ctx context.Context) error {
	sqlDB, err := d.gorm.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (d *DB) migrate(ctx context.Context) error {
	err := d.gorm.WithContext(ctx).AutoMigrate(
		&glucoseRow{},
		&medicationRow{},
		&carbRow{},
		&preferenceRow{},
		&ownerRow{},
		&sessionRow{},
	)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// storedTime normalises timestamps to the precision and zone every backend
// round-trips.
func storedTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}
