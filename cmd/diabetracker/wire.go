package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	adapthttp "diabetracker/internal/adapter/http"
	"diabetracker/internal/adapter/memory"
	"diabetracker/internal/adapter/postgres"
	"diabetracker/internal/adapter/sqlite"
	"diabetracker/internal/app"
	"diabetracker/internal/config"
	"diabetracker/internal/domain"
	"diabetracker/internal/logger"
	"diabetracker/internal/observe"

	"github.com/joho/godotenv"
)

// backend is every port a store adapter provides.
type backend interface {
	domain.GlucoseRepository
	domain.MedicationRepository
	domain.CarbIntakeRepository
	domain.LogbookRepository
	domain.PreferenceRepository
	domain.OwnerRepository
	domain.SessionRepository
	Ping(ctx context.Context) error
	Close() error
}

// runtime is the wired application shared by every command.
type runtime struct {
	cfg *config.Config
	log *slog.Logger
	db  backend
	ui  *observe.Loop
	svc adapthttp.Services

	closeLog func() error
}

func openRuntime(ctx context.Context) (*runtime, error) {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", envFile, err)
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log, closeLog, err := logger.New(cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	db, err := openStore(cfg, log)
	if err != nil {
		_ = closeLog()
		return nil, fmt.Errorf("open %s store: %w", cfg.Store, err)
	}
	if err := db.Ping(ctx); err != nil {
		_ = db.Close()
		_ = closeLog()
		return nil, fmt.Errorf("ping %s store: %w", cfg.Store, err)
	}
	log.Debug("store ready", "store", cfg.Store)

	ui := observe.NewLoop()
	prefs := app.NewPreferencesService(db)
	logbook := app.NewLoadEntriesWithin(db)

	return &runtime{
		cfg: cfg,
		log: log,
		db:  db,
		ui:  ui,
		svc: adapthttp.Services{
			Glucose:    app.NewGlucoseService(db),
			Medication: app.NewMedicationService(db),
			Carbs:      app.NewCarbService(db),
			Reports:    app.NewReportService(db),
			Prefs:      prefs,
			Logbook:    logbook,
			Dashboards: app.NewDashboardFactory(
				app.NewLoadLastReading(db),
				app.NewLoadLastMedication(db),
				app.NewLoadLastCarbIntake(db),
				logbook,
				prefs,
				observe.NewPool(cfg.Workers),
				ui,
				log,
			),
			Auth: app.NewAuthService(db, db, app.AuthConfig{
				SessionTTL: cfg.SessionTTL,
				OwnerEmail: cfg.OwnerEmail,
			}),
		},
		closeLog: closeLog,
	}, nil
}

func openStore(cfg *config.Config, log *slog.Logger) (backend, error) {
	switch cfg.Store {
	case config.StorePostgres:
		return postgres.Open(cfg.Database.URL, log)
	case config.StoreMemory:
		return memory.New(), nil
	default:
		return sqlite.Open(cfg.SQLitePath, log)
	}
}

// Close drains the delivery loop, then releases the store and log output.
func (rt *runtime) Close() error {
	rt.ui.Close()
	return errors.Join(rt.db.Close(), rt.closeLog())
}
