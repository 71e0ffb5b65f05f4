package api

import (
	"net/http"
	"strconv"
	"time"

	"migration-estimator/core/types"
	"migration-estimator/internal/errors"
)

// handleRecordAudit handles POST /api/audit
func (s *Server) handleRecordAudit(w http.ResponseWriter, r *http.Request) {
	var event types.AuditEvent
	if err := decodeJSON(w, r, &event); err != nil {
		s.writeError(w, r, err)
		return
	}
	if event.IPAddress == "" {
		event.IPAddress = clientIP(r)
	}
	if event.UserAgent == "" {
		event.UserAgent = r.UserAgent()
	}

	entry, err := s.deps.Audit.Record(r.Context(), principal(r).UserID, event)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, entry, http.StatusCreated)
}

// handleListAudit handles GET /api/audit
func (s *Server) handleListAudit(w http.ResponseWriter, r *http.Request) {
	filter, err := parseAuditFilter(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	entries, err := s.deps.Audit.List(r.Context(), filter)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if entries == nil {
		entries = []types.AuditLog{}
	}
	s.writeJSON(w, entries, http.StatusOK)
}

// handleAuditTrail handles GET /api/audit/entity/{entity}/{id}
func (s *Server) handleAuditTrail(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	entries, err := s.deps.Audit.Trail(r.Context(), r.PathValue("entity"), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if entries == nil {
		entries = []types.AuditLog{}
	}
	s.writeJSON(w, entries, http.StatusOK)
}

// handleAuditStats handles GET /api/audit/stats?days=
func (s *Server) handleAuditStats(w http.ResponseWriter, r *http.Request) {
	days := 0
	if raw := r.URL.Query().Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			s.writeError(w, r, errors.Newf(errors.TypeValidation, "days must be a positive integer: %q", raw))
			return
		}
		days = n
	}

	stats, err := s.deps.Audit.Stats(r.Context(), days)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, stats, http.StatusOK)
}

func parseAuditFilter(r *http.Request) (types.AuditFilter, error) {
	q := r.URL.Query()
	filter := types.AuditFilter{
		Entity: q.Get("entity"),
		Action: q.Get("action"),
	}

	uints := []struct {
		name string
		dst  *uint
	}{
		{"entity_id", &filter.EntityID},
		{"actor_id", &filter.ActorID},
	}
	for _, u := range uints {
		raw := q.Get(u.name)
		if raw == "" {
			continue
		}
		n, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return filter, errors.Newf(errors.TypeValidation, "invalid %s: %q", u.name, raw)
		}
		*u.dst = uint(n)
	}

	dates := []struct {
		name string
		dst  **time.Time
	}{
		{"start_date", &filter.StartDate},
		{"end_date", &filter.EndDate},
	}
	for _, d := range dates {
		raw := q.Get(d.name)
		if raw == "" {
			continue
		}
		t, err := parseTime(raw)
		if err != nil {
			return filter, errors.Newf(errors.TypeValidation, "invalid %s: %q", d.name, raw)
		}
		*d.dst = &t
	}

	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return filter, errors.Newf(errors.TypeValidation, "invalid limit: %q", raw)
		}
		filter.Limit = n
	}
	return filter, nil
}

// parseTime accepts RFC 3339 timestamps or plain dates
func parseTime(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
