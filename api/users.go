package api

import (
	"net/http"

	"migration-estimator/core/types"
)

// handleListUsers handles GET /api/users
func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.deps.Accounts.List(r.Context(), principal(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if users == nil {
		users = []types.User{}
	}
	s.writeJSON(w, users, http.StatusOK)
}

// handleCreateUser handles POST /api/users
func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var in types.NewUser
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	user, err := s.deps.Accounts.Create(r.Context(), principal(r), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, user, http.StatusCreated)
}

// handleProfile handles GET /api/users/me/profile
func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	user, err := s.deps.Accounts.Profile(r.Context(), principal(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, user, http.StatusOK)
}

// handleGetUser handles GET /api/users/{id}
func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	user, err := s.deps.Accounts.Get(r.Context(), principal(r), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, user, http.StatusOK)
}

// handleUpdateUser handles PUT /api/users/{id}
func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var update types.UserUpdate
	if err := decodeJSON(w, r, &update); err != nil {
		s.writeError(w, r, err)
		return
	}

	user, err := s.deps.Accounts.Update(r.Context(), principal(r), id, update)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, user, http.StatusOK)
}

// handleDeactivateUser handles DELETE /api/users/{id}
func (s *Server) handleDeactivateUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.deps.Accounts.Deactivate(r.Context(), principal(r), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, HealthResponse{Success: true, Message: "User deactivated"}, http.StatusOK)
}
