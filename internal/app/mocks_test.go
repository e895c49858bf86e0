package app

import (
	"context"
	"time"

	"diabetracker/internal/domain"
)

type mockGlucoseRepo struct {
	addFn    func(ctx context.Context, r domain.GlucoseReading) (int64, error)
	latestFn func(ctx context.Context) (*domain.GlucoseReading, error)
	withinFn func(ctx context.Context, rng domain.DateTimeRange) ([]domain.GlucoseReading, error)
	deleteFn func(ctx context.Context, id int64) error
}

func (m *mockGlucoseRepo) AddReading(ctx context.Context, r domain.GlucoseReading) (int64, error) {
	if m.addFn != nil {
		return m.addFn(ctx, r)
	}
	return 1, nil
}

func (m *mockGlucoseRepo) LatestReading(ctx context.Context) (*domain.GlucoseReading, error) {
	if m.latestFn != nil {
		return m.latestFn(ctx)
	}
	return nil, nil
}

func (m *mockGlucoseRepo) ReadingsWithin(ctx context.Context, rng domain.DateTimeRange) ([]domain.GlucoseReading, error) {
	if m.withinFn != nil {
		return m.withinFn(ctx, rng)
	}
	return nil, nil
}

func (m *mockGlucoseRepo) DeleteReading(ctx context.Context, id int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

type mockMedicationRepo struct {
	addFn    func(ctx context.Context, d domain.MedicationDose) (int64, error)
	latestFn func(ctx context.Context) (*domain.MedicationDose, error)
	deleteFn func(ctx context.Context, id int64) error
}

func (m *mockMedicationRepo) AddDose(ctx context.Context, d domain.MedicationDose) (int64, error) {
	if m.addFn != nil {
		return m.addFn(ctx, d)
	}
	return 1, nil
}

func (m *mockMedicationRepo) LatestDose(ctx context.Context) (*domain.MedicationDose, error) {
	if m.latestFn != nil {
		return m.latestFn(ctx)
	}
	return nil, nil
}

func (m *mockMedicationRepo) DosesWithin(ctx context.Context, rng domain.DateTimeRange) ([]domain.MedicationDose, error) {
	return nil, nil
}

func (m *mockMedicationRepo) DeleteDose(ctx context.Context, id int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

type mockCarbRepo struct {
	addFn    func(ctx context.Context, c domain.CarbIntake) (int64, error)
	latestFn func(ctx context.Context) (*domain.CarbIntake, error)
	deleteFn func(ctx context.Context, id int64) error
}

func (m *mockCarbRepo) AddIntake(ctx context.Context, c domain.CarbIntake) (int64, error) {
	if m.addFn != nil {
		return m.addFn(ctx, c)
	}
	return 1, nil
}

func (m *mockCarbRepo) LatestIntake(ctx context.Context) (*domain.CarbIntake, error) {
	if m.latestFn != nil {
		return m.latestFn(ctx)
	}
	return nil, nil
}

func (m *mockCarbRepo) IntakesWithin(ctx context.Context, rng domain.DateTimeRange) ([]domain.CarbIntake, error) {
	return nil, nil
}

func (m *mockCarbRepo) DeleteIntake(ctx context.Context, id int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

type mockLogbookRepo struct {
	withinFn func(ctx context.Context, rng domain.DateTimeRange) ([]domain.LogEntry, error)
}

func (m *mockLogbookRepo) EntriesWithin(ctx context.Context, rng domain.DateTimeRange) ([]domain.LogEntry, error) {
	if m.withinFn != nil {
		return m.withinFn(ctx, rng)
	}
	return nil, nil
}

type mockPrefRepo struct {
	values map[string]string
	getErr error
}

func (m *mockPrefRepo) GetPreference(ctx context.Context, key string) (string, bool, error) {
	if m.getErr != nil {
		return "", false, m.getErr
	}
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *mockPrefRepo) SetPreference(ctx context.Context, key, value string) error {
	if m.values == nil {
		m.values = map[string]string{}
	}
	m.values[key] = value
	return nil
}

type mockOwnerRepo struct {
	getFn    func(ctx context.Context) (*domain.Owner, error)
	createFn func(ctx context.Context, username, passwordHash string) (*domain.Owner, error)
}

func (m *mockOwnerRepo) GetOwner(ctx context.Context) (*domain.Owner, error) {
	if m.getFn != nil {
		return m.getFn(ctx)
	}
	return nil, nil
}

func (m *mockOwnerRepo) CreateOwner(ctx context.Context, username, passwordHash string) (*domain.Owner, error) {
	if m.createFn != nil {
		return m.createFn(ctx, username, passwordHash)
	}
	return &domain.Owner{ID: 1, Username: username, PasswordHash: passwordHash}, nil
}

type mockSessionRepo struct {
	createFn        func(ctx context.Context, ownerID int64, token string, expiresAt time.Time) error
	getFn           func(ctx context.Context, token string) (*domain.Session, error)
	deleteFn        func(ctx context.Context, token string) error
	deleteExpiredFn func(ctx context.Context, now time.Time) (int64, error)
}

func (m *mockSessionRepo) CreateSession(ctx context.Context, ownerID int64, token string, expiresAt time.Time) error {
	if m.createFn != nil {
		return m.createFn(ctx, ownerID, token, expiresAt)
	}
	return nil
}

func (m *mockSessionRepo) GetSession(ctx context.Context, token string) (*domain.Session, error) {
	if m.getFn != nil {
		return m.getFn(ctx, token)
	}
	return nil, nil
}

func (m *mockSessionRepo) DeleteSession(ctx context.Context, token string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, token)
	}
	return nil
}

func (m *mockSessionRepo) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	if m.deleteExpiredFn != nil {
		return m.deleteExpiredFn(ctx, now)
	}
	return 0, nil
}
