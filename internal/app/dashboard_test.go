package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"diabetracker/internal/domain"
	"diabetracker/internal/observe"
)

type dashboardDeps struct {
	glucose *mockGlucoseRepo
	meds    *mockMedicationRepo
	carbs   *mockCarbRepo
	logbook *mockLogbookRepo
	prefs   *mockPrefRepo
}

func newDashboardFactory(deps dashboardDeps, ui observe.Dispatcher) *DashboardFactory {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewDashboardFactory(
		NewLoadLastReading(deps.glucose),
		NewLoadLastMedication(deps.meds),
		NewLoadLastCarbIntake(deps.carbs),
		NewLoadEntriesWithin(deps.logbook),
		NewPreferencesService(deps.prefs),
		observe.NewPool(4),
		ui,
		log,
	)
}

func emptyDeps() dashboardDeps {
	return dashboardDeps{
		glucose: &mockGlucoseRepo{},
		meds:    &mockMedicationRepo{},
		carbs:   &mockCarbRepo{},
		logbook: &mockLogbookRepo{},
		prefs:   &mockPrefRepo{},
	}
}

func TestDashboard_PopulatesLastEntrySlots(t *testing.T) {
	at := time.Date(2026, 3, 10, 7, 30, 0, 0, time.UTC)
	deps := emptyDeps()
	deps.glucose.latestFn = func(ctx context.Context) (*domain.GlucoseReading, error) {
		return &domain.GlucoseReading{ID: 11, Level: 6.2, Unit: domain.MmolPerL, Time: at, Category: domain.BeforeBreakfast}, nil
	}
	deps.meds.latestFn = func(ctx context.Context) (*domain.MedicationDose, error) {
		return &domain.MedicationDose{ID: 12, Name: "Insulin", Units: 4, Time: at, Category: domain.BeforeBreakfast}, nil
	}
	deps.carbs.latestFn = func(ctx context.Context) (*domain.CarbIntake, error) {
		return &domain.CarbIntake{ID: 13, Grams: 45, Time: at, Category: domain.AfterBreakfast, Note: "oats"}, nil
	}

	loop := observe.NewLoop()
	defer loop.Close()

	d := newDashboardFactory(deps, loop).Open(context.Background())
	d.Wait()

	reading, ok := d.LastReading.Get()
	if !ok {
		t.Fatal("expected last reading to be populated")
	}
	want := domain.LogEntry{ID: 11, Kind: domain.KindGlucose, Time: at, Category: domain.BeforeBreakfast, Value: 6.2, Unit: "mmol/L"}
	if reading != want {
		t.Errorf("last reading = %+v; want %+v", reading, want)
	}

	dose, ok := d.LastMedication.Get()
	if !ok || dose.ID != 12 || dose.Value != 4 || dose.Label != "Insulin" || dose.Unit != domain.MedicationUnit {
		t.Errorf("last medication = %+v, %v", dose, ok)
	}

	intake, ok := d.LastCarbIntake.Get()
	if !ok || intake.ID != 13 || intake.Value != 45 || intake.Label != "oats" || intake.Unit != domain.CarbUnit {
		t.Errorf("last carb intake = %+v, %v", intake, ok)
	}

	entries, ok := d.Entries.Get()
	if !ok {
		t.Fatal("expected entries to be delivered")
	}
	if entries == nil || len(entries) != 0 {
		t.Errorf("expected empty, non-nil entries, got %#v", entries)
	}
}

func TestDashboard_FailedLoadLeavesSlotEmpty(t *testing.T) {
	deps := emptyDeps()
	deps.glucose.latestFn = func(ctx context.Context) (*domain.GlucoseReading, error) {
		return nil, errors.New("disk I/O error")
	}
	deps.meds.latestFn = func(ctx context.Context) (*domain.MedicationDose, error) {
		return &domain.MedicationDose{ID: 2, Name: "Metformin", Units: 1, Time: time.Now()}, nil
	}
	deps.carbs.latestFn = func(ctx context.Context) (*domain.CarbIntake, error) {
		return nil, errors.New("locked")
	}
	deps.logbook.withinFn = func(ctx context.Context, rng domain.DateTimeRange) ([]domain.LogEntry, error) {
		return nil, errors.New("locked")
	}

	d := newDashboardFactory(deps, observe.Immediate{}).Open(context.Background())
	d.Wait()

	if _, ok := d.LastReading.Get(); ok {
		t.Error("last reading should stay empty after a failed load")
	}
	if _, ok := d.LastCarbIntake.Get(); ok {
		t.Error("last carb intake should stay empty after a failed load")
	}
	if _, ok := d.Entries.Get(); ok {
		t.Error("entries should stay empty after a failed load")
	}
	if _, ok := d.LastMedication.Get(); !ok {
		t.Error("a failed load must not affect the other slots")
	}
}

func TestDashboard_EmptyStoreLeavesLastSlotsEmpty(t *testing.T) {
	d := newDashboardFactory(emptyDeps(), observe.Immediate{}).Open(context.Background())
	d.Wait()

	if _, ok := d.LastReading.Get(); ok {
		t.Error("no reading exists; slot should be empty")
	}
	view := d.Snapshot(context.Background())
	if view.LastReading != nil || view.LastMedication != nil || view.LastCarbIntake != nil {
		t.Errorf("unexpected view %+v", view)
	}
	if view.FirstName != nil {
		t.Errorf("expected nil first name, got %q", *view.FirstName)
	}
}

func TestDashboard_RequestsTrailingFourDayWindow(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	entry := domain.LogEntry{ID: 5, Kind: domain.KindGlucose, Time: now.Add(-time.Hour), Value: 7, Unit: "mmol/L"}

	var got domain.DateTimeRange
	calls := 0
	deps := emptyDeps()
	deps.logbook.withinFn = func(ctx context.Context, rng domain.DateTimeRange) ([]domain.LogEntry, error) {
		calls++
		got = rng
		return []domain.LogEntry{entry}, nil
	}

	d := newDashboardFactory(deps, observe.Immediate{}).
		WithClock(func() time.Time { return now }).
		Open(context.Background())
	d.Wait()

	if calls != 1 {
		t.Fatalf("expected one windowed query, got %d", calls)
	}
	wantStart := time.Date(2026, 3, 6, 12, 0, 0, 0, time.UTC)
	if !got.Start.Equal(wantStart) || !got.End.Equal(now) {
		t.Errorf("window = [%v, %v); want [%v, %v)", got.Start, got.End, wantStart, now)
	}
	if d.Window != got {
		t.Errorf("dashboard window %+v differs from requested %+v", d.Window, got)
	}

	entries, ok := d.Entries.Get()
	if !ok || len(entries) != 1 || entries[0] != entry {
		t.Errorf("entries = %+v, %v", entries, ok)
	}
}

func TestDashboard_SubscriberSeesDelivery(t *testing.T) {
	deps := emptyDeps()
	deps.glucose.latestFn = func(ctx context.Context) (*domain.GlucoseReading, error) {
		return &domain.GlucoseReading{ID: 1, Level: 120, Unit: domain.MgPerDL, Time: time.Now()}, nil
	}

	loop := observe.NewLoop()
	defer loop.Close()
	d := newDashboardFactory(deps, loop).Open(context.Background())

	seen := make(chan domain.LogEntry, 1)
	cancel := d.LastReading.Subscribe(func(e domain.LogEntry) {
		select {
		case seen <- e:
		default:
		}
	})
	defer cancel()
	d.Wait()

	select {
	case e := <-seen:
		if e.Unit != "mg/dL" || e.Value != 120 {
			t.Errorf("unexpected entry %+v", e)
		}
	case <-time.After(time.Second):
		t.Fatal("subscriber was not notified")
	}
}

func TestDashboard_WaitReturnsWhenLoopClosed(t *testing.T) {
	deps := emptyDeps()
	deps.glucose.latestFn = func(ctx context.Context) (*domain.GlucoseReading, error) {
		return &domain.GlucoseReading{ID: 1, Level: 6, Unit: domain.MmolPerL, Time: time.Now()}, nil
	}

	loop := observe.NewLoop()
	loop.Close()
	d := newDashboardFactory(deps, loop).Open(context.Background())

	waited := make(chan struct{})
	go func() {
		d.Wait()
		close(waited)
	}()

	select {
	case <-waited:
	case <-time.After(2 * time.Second):
		t.Fatal("Wait blocked after the delivery loop was closed")
	}
	if _, ok := d.LastReading.Get(); ok {
		t.Error("rejected delivery must not populate the slot")
	}
}

func TestDashboard_UnitSymbol(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]string
		want   string
	}{
		{"mmol", map[string]string{domain.PrefBGLUnit: "1"}, "mmol/L"},
		{"mg", map[string]string{domain.PrefBGLUnit: "2"}, "mg/dL"},
		{"unknown code", map[string]string{domain.PrefBGLUnit: "42"}, ""},
		{"garbage", map[string]string{domain.PrefBGLUnit: "mmol"}, ""},
		{"unset", nil, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			deps := emptyDeps()
			deps.prefs.values = tc.values
			d := newDashboardFactory(deps, observe.Immediate{}).Open(context.Background())
			d.Wait()
			if got := d.UnitSymbol(context.Background()); got != tc.want {
				t.Errorf("UnitSymbol() = %q; want %q", got, tc.want)
			}
		})
	}
}

func TestDashboard_UnitSymbolOnStoreError(t *testing.T) {
	deps := emptyDeps()
	deps.prefs.getErr = errors.New("closed")
	d := newDashboardFactory(deps, observe.Immediate{}).Open(context.Background())
	d.Wait()

	if got := d.UnitSymbol(context.Background()); got != "" {
		t.Errorf("UnitSymbol() = %q; want empty", got)
	}
	if _, ok := d.FirstName(context.Background()); ok {
		t.Error("FirstName should be absent on store error")
	}
}

func TestDashboard_FirstName(t *testing.T) {
	deps := emptyDeps()
	deps.prefs.values = map[string]string{domain.PrefFirstName: "Ada"}
	d := newDashboardFactory(deps, observe.Immediate{}).Open(context.Background())
	d.Wait()

	name, ok := d.FirstName(context.Background())
	if !ok || name != "Ada" {
		t.Errorf("FirstName() = %q, %v", name, ok)
	}
	view := d.Snapshot(context.Background())
	if view.FirstName == nil || *view.FirstName != "Ada" {
		t.Errorf("snapshot first name = %v", view.FirstName)
	}
}
