package adapthttp

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"diabetracker/internal/app"
	"diabetracker/internal/domain"
)

const maxQueryDays = 366

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]any{"error": err.Error()})
}

// writeServiceError maps validation failures to 400 and hides everything
// else behind a logged 500.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, app.ErrValidation) {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	s.log.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	writeError(w, http.StatusInternalServerError, errors.New("internal error"))
}

func parseJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid json: %w", err)
	}
	return nil
}

func intQuery(r *http.Request, key string, fallback int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

// parseUnit accepts a unit symbol ("mg/dL") or its stored code ("2").
func parseUnit(v string) (domain.BGLUnit, bool) {
	if u, ok := domain.BGLUnitFromSymbol(v); ok {
		return u, true
	}
	return domain.BGLUnitFromCode(v)
}

// resolveUnit parses v, falling back to the preferred unit and then mmol/L
// when v is empty.
func (s *Server) resolveUnit(r *http.Request, v string) (domain.BGLUnit, error) {
	if v != "" {
		u, ok := parseUnit(v)
		if !ok {
			return 0, fmt.Errorf("%w: unknown glucose unit %q", app.ErrValidation, v)
		}
		return u, nil
	}
	u, ok, err := s.svc.Prefs.BGLUnit(r.Context())
	if err != nil {
		return 0, err
	}
	if !ok {
		return domain.MmolPerL, nil
	}
	return u, nil
}

func timeOrZero(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

func withNoCache(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}
