// Package memory implements an in-memory repository for development and testing.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"diabetracker/internal/domain"
)

// DB implements an in-memory database storage.
type DB struct {
	mu       sync.Mutex
	readings []domain.GlucoseReading
	doses    []domain.MedicationDose
	intakes  []domain.CarbIntake
	prefs    map[string]string
	owner    *domain.Owner
	sessions map[string]domain.Session

	readingIDCounter int64
	doseIDCounter    int64
	intakeIDCounter  int64
}

// New creates a new in-memory database.
func New() *DB {
	return &DB{
		prefs:    make(map[string]string),
		sessions: make(map[string]domain.Session),
	}
}

// Ensure interfaces are met.
var (
	_ domain.GlucoseRepository    = (*DB)(nil)
	_ domain.MedicationRepository = (*DB)(nil)
	_ domain.CarbIntakeRepository = (*DB)(nil)
	_ domain.LogbookRepository    = (*DB)(nil)
	_ domain.PreferenceRepository = (*DB)(nil)
	_ domain.OwnerRepository      = (*DB)(nil)
	_ domain.SessionRepository    = (*DB)(nil)
)

// Close is a no-op so DB can stand in for the SQL stores.
func (db *DB) Close() error { return nil }

// Ping always succeeds.
func (db *DB) Ping(ctx context.Context) error { return nil }

// latestIndex returns the index of the newest element, preferring the higher
// ID on equal times, or -1 for an empty slice.
func latestIndex(n int, at func(int) (time.Time, int64)) int {
	best := -1
	var bestTime time.Time
	var bestID int64
	for i := 0; i < n; i++ {
		t, id := at(i)
		if best == -1 || t.After(bestTime) || (t.Equal(bestTime) && id > bestID) {
			best, bestTime, bestID = i, t, id
		}
	}
	return best
}

// --- GlucoseRepository ---

// AddReading stores a reading.
func (db *DB) AddReading(ctx context.Context, r domain.GlucoseReading) (int64, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.readingIDCounter++
	r.ID = db.readingIDCounter
	r.Time = r.Time.UTC()
	db.readings = append(db.readings, r)
	return r.ID, nil
}

// LatestReading returns the newest reading.
func (db *DB) LatestReading(ctx context.Context) (*domain.GlucoseReading, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	i := latestIndex(len(db.readings), func(i int) (time.Time, int64) {
		return db.readings[i].Time, db.readings[i].ID
	})
	if i < 0 {
		return nil, nil
	}
	r := db.readings[i]
	return &r, nil
}

// ReadingsWithin returns the readings inside rng, newest first.
func (db *DB) ReadingsWithin(ctx context.Context, rng domain.DateTimeRange) ([]domain.GlucoseReading, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	var out []domain.GlucoseReading
	for _, r := range db.readings {
		if rng.Contains(r.Time) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time.After(out[j].Time) })
	return out, nil
}

// DeleteReading deletes a reading by ID.
func (db *DB) DeleteReading(ctx context.Context, id int64) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	for i, r := range db.readings {
		if r.ID == id {
			db.readings = append(db.readings[:i], db.readings[i+1:]...)
			return nil
		}
	}
	return nil
}

// --- MedicationRepository ---

// AddDose stores a dose.
func (db *DB) AddDose(ctx context.Context, d domain.MedicationDose) (int64, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.doseIDCounter++
	d.ID = db.doseIDCounter
	d.Time = d.Time.UTC()
	db.doses = append(db.doses, d)
	return d.ID, nil
}

// LatestDose returns the newest dose.
func (db *DB) LatestDose(ctx context.Context) (*domain.MedicationDose, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	i := latestIndex(len(db.doses), func(i int) (time.Time, int64) {
		return db.doses[i].Time, db.doses[i].ID
	})
	if i < 0 {
		return nil, nil
	}
	d := db.doses[i]
	return &d, nil
}

// DosesWithin returns the doses inside rng, newest first.
func (db *DB) DosesWithin(ctx context.Context, rng domain.DateTimeRange) ([]domain.MedicationDose, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	var out []domain.MedicationDose
	for _, d := range db.doses {
		if rng.Contains(d.Time) {
			out = append(out, d)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time.After(out[j].Time) })
	return out, nil
}

// DeleteDose deletes a dose by ID.
func (db *DB) DeleteDose(ctx context.Context, id int64) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	for i, d := range db.doses {
		if d.ID == id {
			db.doses = append(db.doses[:i], db.doses[i+1:]...)
			return nil
		}
	}
	return nil
}

// --- CarbIntakeRepository ---

// AddIntake stores an intake.
func (db *DB) AddIntake(ctx context.Context, c domain.CarbIntake) (int64, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.intakeIDCounter++
	c.ID = db.intakeIDCounter
	c.Time = c.Time.UTC()
	db.intakes = append(db.intakes, c)
	return c.ID, nil
}

// LatestIntake returns the newest intake.
func (db *DB) LatestIntake(ctx context.Context) (*domain.CarbIntake, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	i := latestIndex(len(db.intakes), func(i int) (time.Time, int64) {
		return db.intakes[i].Time, db.intakes[i].ID
	})
	if i < 0 {
		return nil, nil
	}
	c := db.intakes[i]
	return &c, nil
}

// IntakesWithin returns the intakes inside rng, newest first.
func (db *DB) IntakesWithin(ctx context.Context, rng domain.DateTimeRange) ([]domain.CarbIntake, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	var out []domain.CarbIntake
	for _, c := range db.intakes {
		if rng.Contains(c.Time) {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time.After(out[j].Time) })
	return out, nil
}

// DeleteIntake deletes an intake by ID.
func (db *DB) DeleteIntake(ctx context.Context, id int64) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	for i, c := range db.intakes {
		if c.ID == id {
			db.intakes = append(db.intakes[:i], db.intakes[i+1:]...)
			return nil
		}
	}
	return nil
}

// --- LogbookRepository ---

// EntriesWithin returns every entry inside rng, newest first.
func (db *DB) EntriesWithin(ctx context.Context, rng domain.DateTimeRange) ([]domain.LogEntry, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	out := []domain.LogEntry{}
	for _, r := range db.readings {
		if rng.Contains(r.Time) {
			out = append(out, r.LogEntry())
		}
	}
	for _, d := range db.doses {
		if rng.Contains(d.Time) {
			out = append(out, d.LogEntry())
		}
	}
	for _, c := range db.intakes {
		if rng.Contains(c.Time) {
			out = append(out, c.LogEntry())
		}
	}
	domain.SortNewestFirst(out)
	return out, nil
}

// --- PreferenceRepository ---

// GetPreference returns the value stored under key.
func (db *DB) GetPreference(ctx context.Context, key string) (string, bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	v, ok := db.prefs[key]
	return v, ok, nil
}

// SetPreference stores value under key.
func (db *DB) SetPreference(ctx context.Context, key, value string) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.prefs[key] = value
	return nil
}

// --- OwnerRepository ---

// GetOwner returns the owner, or nil before setup.
func (db *DB) GetOwner(ctx context.Context) (*domain.Owner, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.owner == nil {
		return nil, nil
	}
	o := *db.owner
	return &o, nil
}

// CreateOwner creates the owner. Only one owner may exist.
func (db *DB) CreateOwner(ctx context.Context, username, passwordHash string) (*domain.Owner, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.owner != nil {
		return nil, errors.New("owner already exists")
	}
	db.owner = &domain.Owner{
		ID:           1,
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	o := *db.owner
	return &o, nil
}

// --- SessionRepository ---

// CreateSession creates a new session.
func (db *DB) CreateSession(ctx context.Context, ownerID int64, token string, expiresAt time.Time) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.sessions[token] = domain.Session{
		Token:     token,
		OwnerID:   ownerID,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now().UTC(),
	}
	return nil
}

// GetSession retrieves a session by token.
func (db *DB) GetSession(ctx context.Context, token string) (*domain.Session, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	s, ok := db.sessions[token]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

// DeleteSession deletes a session.
func (db *DB) DeleteSession(ctx context.Context, token string) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	delete(db.sessions, token)
	return nil
}

// DeleteExpiredSessions deletes all sessions expired before now.
func (db *DB) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	var n int64
	for k, v := range db.sessions {
		if v.ExpiresAt.Before(now) {
			delete(db.sessions, k)
			n++
		}
	}
	return n, nil
}
