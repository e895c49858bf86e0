package adapthttp

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"diabetracker/internal/app"
	"diabetracker/internal/domain"
)

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	d := s.svc.Dashboards.Open(r.Context())
	d.Wait()
	writeJSON(w, http.StatusOK, d.Snapshot(r.Context()))
}

func (s *Server) handleLogbook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	days := min(intQuery(r, "days", app.DashboardWindowDays), maxQueryDays)
	rng := domain.TrailingDays(time.Now(), days)

	entries, err := s.svc.Logbook.Execute(r.Context(), rng)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if entries == nil {
		entries = []domain.LogEntry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"window": rng, "entries": entries})
}

func (s *Server) handleGlucose(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var body struct {
		Level    float64    `json:"level"`
		Unit     string     `json:"unit"`
		Category string     `json:"category"`
		Time     *time.Time `json:"time"`
	}
	if err := parseJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	unit, err := s.resolveUnit(r, body.Unit)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	reading, err := s.svc.Glucose.Record(r.Context(), domain.GlucoseReading{
		Level:    body.Level,
		Unit:     unit,
		Category: domain.Category(body.Category),
		Time:     timeOrZero(body.Time),
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"entry": reading.LogEntry()})
}

func (s *Server) handleGlucoseUndoLast(w http.ResponseWriter, r *http.Request) {
	s.undoLast(w, r, s.svc.Glucose.UndoLast)
}

func (s *Server) handleMedication(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var body struct {
		Name     string     `json:"name"`
		Units    float64    `json:"units"`
		Category string     `json:"category"`
		Time     *time.Time `json:"time"`
	}
	if err := parseJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	dose, err := s.svc.Medication.Record(r.Context(), domain.MedicationDose{
		Name:     body.Name,
		Units:    body.Units,
		Category: domain.Category(body.Category),
		Time:     timeOrZero(body.Time),
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"entry": dose.LogEntry()})
}

func (s *Server) handleMedicationUndoLast(w http.ResponseWriter, r *http.Request) {
	s.undoLast(w, r, s.svc.Medication.UndoLast)
}

func (s *Server) handleCarbs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var body struct {
		Grams    float64    `json:"grams"`
		Category string     `json:"category"`
		Note     string     `json:"note"`
		Time     *time.Time `json:"time"`
	}
	if err := parseJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	intake, err := s.svc.Carbs.Record(r.Context(), domain.CarbIntake{
		Grams:    body.Grams,
		Category: domain.Category(body.Category),
		Note:     body.Note,
		Time:     timeOrZero(body.Time),
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"entry": intake.LogEntry()})
}

func (s *Server) handleCarbsUndoLast(w http.ResponseWriter, r *http.Request) {
	s.undoLast(w, r, s.svc.Carbs.UndoLast)
}

func (s *Server) undoLast(w http.ResponseWriter, r *http.Request, undo func(ctx context.Context) (bool, int64, error)) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	deleted, id, err := undo(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "deleted": deleted, "id": id})
}

func (s *Server) handleReportsDaily(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	unit, err := s.resolveUnit(r, r.URL.Query().Get("unit"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	days := intQuery(r, "days", 14)
	points, err := s.svc.Reports.GetDaily(r.Context(), days, unit)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"unit": unit.Symbol(), "days": points})
}

func (s *Server) handlePreferences(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	switch r.Method {
	case http.MethodGet:
	case http.MethodPut:
		var body struct {
			FirstName *string `json:"firstName"`
			Unit      *string `json:"unit"`
		}
		if err := parseJSON(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		if body.Unit != nil {
			u, ok := parseUnit(*body.Unit)
			if !ok {
				writeError(w, http.StatusBadRequest, fmt.Errorf("unknown glucose unit %q", *body.Unit))
				return
			}
			if err := s.svc.Prefs.SetBGLUnit(ctx, u); err != nil {
				s.writeServiceError(w, r, err)
				return
			}
		}
		if body.FirstName != nil {
			if err := s.svc.Prefs.SetFirstName(ctx, *body.FirstName); err != nil {
				s.writeServiceError(w, r, err)
				return
			}
		}
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	resp := map[string]any{"firstName": nil}
	name, ok, err := s.svc.Prefs.FirstName(ctx)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if ok {
		resp["firstName"] = name
	}
	sym, err := s.svc.Prefs.UnitSymbol(ctx)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	resp["unitSymbol"] = sym
	writeJSON(w, http.StatusOK, resp)
}
