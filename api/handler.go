package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"migration-estimator/core/estimation"
	"migration-estimator/core/output"
	"migration-estimator/core/types"
	"migration-estimator/internal/errors"
)

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]interface{}{
		"status":  "healthy",
		"service": serviceName,
		"version": s.deps.Version,
		"time":    time.Now().UTC().Format(time.RFC3339),
	}, http.StatusOK)
}

// handleAPIHealth handles GET /api/health
func (s *Server) handleAPIHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, HealthResponse{Success: true, Message: "Service is healthy"}, http.StatusOK)
}

// handleDBHealth handles GET /api/health/db
func (s *Server) handleDBHealth(w http.ResponseWriter, r *http.Request) {
	if s.deps.Store == nil {
		s.writeJSON(w, HealthResponse{Success: false, Message: "Database not configured"}, http.StatusOK)
		return
	}
	if err := s.deps.Store.Ping(r.Context()); err != nil {
		s.log.Warn("database health check failed", zap.Error(err))
		s.writeJSON(w, HealthResponse{Success: false, Message: "Database connection failed"}, http.StatusOK)
		return
	}
	s.writeJSON(w, HealthResponse{Success: true, Message: "Database connection is healthy"}, http.StatusOK)
}

// handleEstimate handles POST /api/estimate
func (s *Server) handleEstimate(w http.ResponseWriter, r *http.Request) {
	var form types.SubmissionForm
	if err := decodeJSON(w, r, &form); err != nil {
		s.writeError(w, r, err)
		return
	}

	est, err := s.deps.Submissions.Estimate(r.Context(), form)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, output.NewEstimateView(est), http.StatusOK)
}

// handleAddonServices handles GET /api/estimate/addon-services
func (s *Server) handleAddonServices(w http.ResponseWriter, r *http.Request) {
	catalog := output.NewCatalog(estimation.AddonServicePricing())
	out := make(map[string]string, len(catalog))
	for _, rate := range catalog {
		out[rate.ServiceName] = rate.WeeklyRate
	}
	s.writeJSON(w, out, http.StatusOK)
}

// handleAddonCost handles POST /api/estimate/addon-cost?service_name=&weeks=
func (s *Server) handleAddonCost(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	service := estimation.AddonService(strings.TrimSpace(q.Get("service_name")))
	if service == "" {
		s.writeError(w, r, errors.New(errors.TypeValidation, "service_name is required"))
		return
	}
	weeks, err := strconv.ParseInt(q.Get("weeks"), 10, 64)
	if err != nil {
		s.writeError(w, r, errors.Newf(errors.TypeValidation, "weeks must be an integer: %q", q.Get("weeks")))
		return
	}

	quote, err := output.Quote(service, weeks)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, quote, http.StatusOK)
}
