package api

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"migration-estimator/core/account"
	"migration-estimator/core/audit"
	"migration-estimator/core/submission"
	"migration-estimator/core/types"
	"migration-estimator/internal/auth"
	"migration-estimator/internal/config"
	"migration-estimator/internal/errors"
)

const (
	serviceName  = "migration-estimator"
	maxBodyBytes = 1 << 20
)

// Pinger checks backing storage
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the collaborators the server routes to
type Deps struct {
	Submissions *submission.Service
	Accounts    *account.Service
	Audit       *audit.Service
	Verifier    *auth.Verifier
	Users       auth.UserLookup
	Store       Pinger
	Logger      *zap.Logger
	Version     string
	Server      config.ServerConfig
	RateLimit   config.RateLimitConfig
}

// Server is the API server
type Server struct {
	mux     *http.ServeMux
	deps    Deps
	log     *zap.Logger
	authn   *auth.Authenticator
	limiter *ClientRateLimiter
	handler http.Handler
}

// NewServer creates the API server and registers its routes
func NewServer(deps Deps) *Server {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("api")

	s := &Server{
		mux:  http.NewServeMux(),
		deps: deps,
		log:  log,
	}
	s.authn = auth.NewAuthenticator(deps.Verifier, deps.Users, s.writeError)
	if deps.RateLimit.Enabled {
		s.limiter = NewClientRateLimiter(deps.RateLimit.EstimatePerMinute, log)
		s.limiter.fail = s.writeError
	}

	s.registerRoutes()
	s.handler = Chain(
		Recovery(log),
		RequestID,
		Logging(log),
		CORS(deps.Server.AllowedOrigins),
	)(s.mux)
	return s
}

// registerRoutes registers all API routes
func (s *Server) registerRoutes() {
	// Health
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /api/health", s.handleAPIHealth)
	s.mux.HandleFunc("GET /api/health/db", s.handleDBHealth)

	// Estimates
	s.mux.Handle("POST /api/estimate", s.user(s.rateLimited(http.HandlerFunc(s.handleEstimate))))
	s.mux.HandleFunc("GET /api/estimate/addon-services", s.handleAddonServices)
	s.mux.Handle("POST /api/estimate/addon-cost", s.user(http.HandlerFunc(s.handleAddonCost)))

	// Submissions
	s.mux.Handle("POST /api/submissions", s.user(http.HandlerFunc(s.handleCreateSubmission)))
	s.mux.Handle("GET /api/submissions", s.user(http.HandlerFunc(s.handleListSubmissions)))
	s.mux.Handle("GET /api/submissions/{id}", s.user(http.HandlerFunc(s.handleGetSubmission)))
	s.mux.Handle("PUT /api/submissions/{id}", s.role(types.RoleSales, s.handleUpdateSubmission))
	s.mux.Handle("GET /api/submissions/{id}/estimate", s.user(http.HandlerFunc(s.handleGetSubmissionEstimate)))

	// Users
	s.mux.Handle("GET /api/users", s.role(types.RoleAdmin, s.handleListUsers))
	s.mux.Handle("POST /api/users", s.role(types.RoleAdmin, s.handleCreateUser))
	s.mux.Handle("GET /api/users/me/profile", s.user(http.HandlerFunc(s.handleProfile)))
	s.mux.Handle("GET /api/users/{id}", s.user(http.HandlerFunc(s.handleGetUser)))
	s.mux.Handle("PUT /api/users/{id}", s.role(types.RoleAdmin, s.handleUpdateUser))
	s.mux.Handle("DELETE /api/users/{id}", s.role(types.RoleAdmin, s.handleDeactivateUser))

	// Audit
	s.mux.Handle("POST /api/audit", s.user(http.HandlerFunc(s.handleRecordAudit)))
	s.mux.Handle("GET /api/audit", s.role(types.RoleAdmin, s.handleListAudit))
	s.mux.Handle("GET /api/audit/entity/{entity}/{id}", s.role(types.RoleAdmin, s.handleAuditTrail))
	s.mux.Handle("GET /api/audit/stats", s.role(types.RoleAdmin, s.handleAuditStats))
}

func (s *Server) user(h http.Handler) http.Handler {
	return s.authn.Middleware(h)
}

func (s *Server) role(min types.Role, h http.HandlerFunc) http.Handler {
	return s.authn.Middleware(s.authn.RequireRole(min)(h))
}

func (s *Server) rateLimited(h http.Handler) http.Handler {
	if s.limiter == nil {
		return h
	}
	return s.limiter.Limit(h)
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) writeJSON(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Warn("failed to write response", zap.Error(err))
	}
}

// statusFor maps an error type to its HTTP status
func statusFor(t errors.Type) int {
	switch t {
	case errors.TypeInvalidInput, errors.TypeUnknownService, errors.TypeValidation:
		return http.StatusBadRequest
	case errors.TypeUnauthorized:
		return http.StatusUnauthorized
	case errors.TypeForbidden:
		return http.StatusForbidden
	case errors.TypeNotFound:
		return http.StatusNotFound
	case errors.TypeConflict:
		return http.StatusConflict
	case errors.TypeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders err as {"error":{"code","message"},"request_id"}.
// Server-side failures get a generic message; details go to the log.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	t := errors.TypeOf(err)
	status := statusFor(t)
	requestID := RequestIDFromContext(r.Context())

	message := err.Error()
	if e, ok := errors.As(err); ok {
		message = e.Message
	}
	if status == http.StatusInternalServerError {
		s.log.Error("request failed",
			zap.String("request_id", requestID),
			zap.String("path", r.URL.Path),
			zap.Error(err))
		message = "internal server error"
	}

	writeErrorBody(w, requestID, t, message, status)
}

func writeErrorBody(w http.ResponseWriter, requestID string, t errors.Type, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{
			"code":    string(t),
			"message": message,
		},
		"request_id": requestID,
	})
}

// decodeJSON reads a JSON body into v
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return errors.Validation("request body too large", err)
		}
		return errors.Validation("invalid JSON body", err)
	}
	return nil
}

func pathID(r *http.Request, name string) (uint, error) {
	raw := r.PathValue(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, errors.Newf(errors.TypeValidation, "invalid %s: %q", name, raw)
	}
	return uint(id), nil
}

// principal returns the caller set by the auth middleware
func principal(r *http.Request) types.Principal {
	p, _ := auth.PrincipalFromContext(r.Context())
	return p
}
