package app

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"diabetracker/internal/domain"
	"diabetracker/internal/observe"
)

// DashboardWindowDays is the length of the trailing history shown on the
// dashboard.
const DashboardWindowDays = 4

// DashboardFactory opens dashboards wired to the logbook use cases.
type DashboardFactory struct {
	lastReading    *LoadLastReading
	lastMedication *LoadLastMedication
	lastCarbIntake *LoadLastCarbIntake
	within         *LoadEntriesWithin
	prefs          *PreferencesService

	pool *observe.Pool
	ui   observe.Dispatcher
	log  *slog.Logger
	now  func() time.Time
}

// NewDashboardFactory wires the dashboard's queries. Queries run on pool and
// their results are delivered through ui.
func NewDashboardFactory(
	lastReading *LoadLastReading,
	lastMedication *LoadLastMedication,
	lastCarbIntake *LoadLastCarbIntake,
	within *LoadEntriesWithin,
	prefs *PreferencesService,
	pool *observe.Pool,
	ui observe.Dispatcher,
	log *slog.Logger,
) *DashboardFactory {
	if log == nil {
		log = slog.Default()
	}
	return &DashboardFactory{
		lastReading:    lastReading,
		lastMedication: lastMedication,
		lastCarbIntake: lastCarbIntake,
		within:         within,
		prefs:          prefs,
		pool:           pool,
		ui:             ui,
		log:            log,
		now:            time.Now,
	}
}

// WithClock overrides the clock used to anchor the history window.
func (f *DashboardFactory) WithClock(now func() time.Time) *DashboardFactory {
	f.now = now
	return f
}

// Dashboard holds the observable state behind the dashboard view. Each slot
// is filled independently by its own background query.
type Dashboard struct {
	LastReading    observe.Slot[domain.LogEntry]
	LastMedication observe.Slot[domain.LogEntry]
	LastCarbIntake observe.Slot[domain.LogEntry]
	Entries        observe.Slot[[]domain.LogEntry]

	// Window is the range requested for Entries.
	Window domain.DateTimeRange

	prefs   *PreferencesService
	log     *slog.Logger
	pending sync.WaitGroup
}

// Open creates a dashboard and starts its four loads. It does not wait for
// them; a failed load leaves its slot empty.
func (f *DashboardFactory) Open(ctx context.Context) *Dashboard {
	d := &Dashboard{
		Window: domain.TrailingDays(f.now(), DashboardWindowDays),
		prefs:  f.prefs,
		log:    f.log,
	}

	load(ctx, f, d, "last_reading", &d.LastReading, f.lastReading.Execute)
	load(ctx, f, d, "last_medication", &d.LastMedication, f.lastMedication.Execute)
	load(ctx, f, d, "last_carb_intake", &d.LastCarbIntake, f.lastCarbIntake.Execute)

	rng := d.Window
	load(ctx, f, d, "entries", &d.Entries, func(ctx context.Context) (*[]domain.LogEntry, error) {
		entries, err := f.within.Execute(ctx, rng)
		if err != nil {
			return nil, err
		}
		if entries == nil {
			entries = []domain.LogEntry{}
		}
		return &entries, nil
	})
	return d
}

// load runs query on the pool and posts a non-nil result into slot.
func load[T any](ctx context.Context, f *DashboardFactory, d *Dashboard, name string, slot *observe.Slot[T], query func(context.Context) (*T, error)) {
	d.pending.Add(1)
	f.pool.Submit(ctx, func(ctx context.Context) {
		v, err := query(ctx)
		if err != nil {
			f.log.WarnContext(ctx, "dashboard load failed", "slot", name, "error", err)
			d.pending.Done()
			return
		}
		if v == nil {
			d.pending.Done()
			return
		}
		posted := f.ui.Post(func() {
			defer d.pending.Done()
			slot.Set(*v)
		})
		if !posted {
			f.log.DebugContext(ctx, "dashboard delivery dropped", "slot", name)
			d.pending.Done()
		}
	})
}

// Wait blocks until every load has delivered or failed.
func (d *Dashboard) Wait() {
	d.pending.Wait()
}

// FirstName returns the owner's first name, if one is stored.
func (d *Dashboard) FirstName(ctx context.Context) (string, bool) {
	name, ok, err := d.prefs.FirstName(ctx)
	if err != nil {
		d.log.WarnContext(ctx, "read first name", "error", err)
		return "", false
	}
	return name, ok
}

// UnitSymbol returns the preferred glucose unit symbol, or "" when the stored
// preference is not a known unit code.
func (d *Dashboard) UnitSymbol(ctx context.Context) string {
	sym, err := d.prefs.UnitSymbol(ctx)
	if err != nil {
		d.log.WarnContext(ctx, "read glucose unit", "error", err)
		return ""
	}
	return sym
}

// DashboardView is a point-in-time copy of a dashboard for rendering.
type DashboardView struct {
	FirstName      *string              `json:"firstName"`
	UnitSymbol     string               `json:"unitSymbol"`
	LastReading    *domain.LogEntry     `json:"lastReading"`
	LastMedication *domain.LogEntry     `json:"lastMedication"`
	LastCarbIntake *domain.LogEntry     `json:"lastCarbIntake"`
	Entries        []domain.LogEntry    `json:"entries"`
	Window         domain.DateTimeRange `json:"window"`
}

// Snapshot copies the current slot values and preferences.
func (d *Dashboard) Snapshot(ctx context.Context) DashboardView {
	v := DashboardView{
		UnitSymbol: d.UnitSymbol(ctx),
		Window:     d.Window,
	}
	if name, ok := d.FirstName(ctx); ok {
		v.FirstName = &name
	}
	if e, ok := d.LastReading.Get(); ok {
		v.LastReading = &e
	}
	if e, ok := d.LastMedication.Get(); ok {
		v.LastMedication = &e
	}
	if e, ok := d.LastCarbIntake.Get(); ok {
		v.LastCarbIntake = &e
	}
	if entries, ok := d.Entries.Get(); ok {
		v.Entries = entries
	}
	return v
}
