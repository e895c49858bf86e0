package adapthttp

import (
	"log/slog"
	"net/http"

	"diabetracker/internal/app"
)

// Services groups the application services the HTTP adapter drives.
type Services struct {
	Glucose    *app.GlucoseService
	Medication *app.MedicationService
	Carbs      *app.CarbService
	Reports    *app.ReportService
	Prefs      *app.PreferencesService
	Logbook    *app.LoadEntriesWithin
	Dashboards *app.DashboardFactory
	Auth       *app.AuthService
}

// Server is the driving HTTP adapter that routes requests to application
// services.
type Server struct {
	svc         Services
	oidcConfig  *OIDCConfig
	log         *slog.Logger
	disableAuth bool
}

// New creates a Server wired to the given application services.
func New(svc Services, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{svc: svc, oidcConfig: &OIDCConfig{}, log: log}
}

// WithOIDC enables SSO logins through cfg.
func (s *Server) WithOIDC(cfg *OIDCConfig) *Server {
	if cfg != nil {
		s.oidcConfig = cfg
	}
	return s
}

// WithoutAuth disables session checks.
func (s *Server) WithoutAuth() *Server {
	s.disableAuth = true
	return s
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	protected := http.NewServeMux()
	protected.HandleFunc("/dashboard", s.handleDashboard)
	protected.HandleFunc("/logbook", s.handleLogbook)

	protected.HandleFunc("/glucose", s.handleGlucose)
	protected.HandleFunc("/glucose/undo-last", s.handleGlucoseUndoLast)
	protected.HandleFunc("/medication", s.handleMedication)
	protected.HandleFunc("/medication/undo-last", s.handleMedicationUndoLast)
	protected.HandleFunc("/carbs", s.handleCarbs)
	protected.HandleFunc("/carbs/undo-last", s.handleCarbsUndoLast)

	protected.HandleFunc("/reports/daily", s.handleReportsDaily)
	protected.HandleFunc("/preferences", s.handlePreferences)
	protected.HandleFunc("/auth/me", s.handleMe)

	api := http.NewServeMux()
	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})
	api.HandleFunc("/auth/login", s.handleLogin)
	api.HandleFunc("/auth/logout", s.handleLogout)
	api.HandleFunc("/auth/setup", s.handleSetup)
	api.HandleFunc("/auth/config", s.handleConfig)
	api.HandleFunc("/auth/sso/login", s.handleSSOLogin)
	api.HandleFunc("/auth/sso/callback", s.handleSSOCallback)
	api.Handle("/", s.authMiddleware(protected))

	root := http.NewServeMux()
	root.Handle("/api/", http.StripPrefix("/api", api))

	return s.loggingMiddleware(withNoCache(root))
}
