package api

import (
	"net/http"
	"strconv"

	"migration-estimator/core/output"
	"migration-estimator/core/submission"
	"migration-estimator/core/types"
	"migration-estimator/internal/errors"
)

// handleCreateSubmission handles POST /api/submissions
func (s *Server) handleCreateSubmission(w http.ResponseWriter, r *http.Request) {
	var form types.SubmissionForm
	if err := decodeJSON(w, r, &form); err != nil {
		s.writeError(w, r, err)
		return
	}

	sub, err := s.deps.Submissions.Create(r.Context(), principal(r), form)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, newSubmissionResponse(sub), http.StatusCreated)
}

// handleListSubmissions handles GET /api/submissions?status=&limit=
func (s *Server) handleListSubmissions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := types.SubmissionFilter{Status: types.SubmissionStatus(q.Get("status"))}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			s.writeError(w, r, errors.Newf(errors.TypeValidation, "limit must be between 1 and %d", submission.MaxListLimit))
			return
		}
		filter.Limit = limit
	}

	subs, err := s.deps.Submissions.List(r.Context(), principal(r), filter)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	out := make([]SubmissionResponse, 0, len(subs))
	for i := range subs {
		out = append(out, newSubmissionResponse(&subs[i]))
	}
	s.writeJSON(w, out, http.StatusOK)
}

// handleGetSubmission handles GET /api/submissions/{id}
func (s *Server) handleGetSubmission(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	sub, err := s.deps.Submissions.Get(r.Context(), principal(r), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, newSubmissionDetail(sub), http.StatusOK)
}

// handleUpdateSubmission handles PUT /api/submissions/{id}
func (s *Server) handleUpdateSubmission(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var update types.SubmissionUpdate
	if err := decodeJSON(w, r, &update); err != nil {
		s.writeError(w, r, err)
		return
	}

	sub, err := s.deps.Submissions.Update(r.Context(), principal(r), id, update)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, newSubmissionResponse(sub), http.StatusOK)
}

// handleGetSubmissionEstimate handles GET /api/submissions/{id}/estimate
func (s *Server) handleGetSubmissionEstimate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	rec, err := s.deps.Submissions.GetEstimate(r.Context(), principal(r), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	est, err := submission.DecodeRecord(rec)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, output.NewEstimateView(est), http.StatusOK)
}
