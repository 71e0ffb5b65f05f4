// Package storage provides the persistence adapter for users, submissions,
// estimates and the audit trail.
// Backends: postgres (production) and sqlite (local runs, tests, ":memory:").
package storage

import (
	"context"
	"time"

	"migration-estimator/core/types"
)

// Backend is a storage backend type
type Backend string

const (
	BackendPostgres Backend = "postgres"
	BackendSQLite   Backend = "sqlite"
)

// Store is the storage interface
type Store interface {
	// CreateUser inserts a user and fills its ID and timestamps
	CreateUser(ctx context.Context, user *types.User) error

	// GetUser retrieves a user by ID
	GetUser(ctx context.Context, id uint) (*types.User, error)

	// GetUserByEmail retrieves a user by email
	GetUserByEmail(ctx context.Context, email string) (*types.User, error)

	// ListUsers lists users, newest first
	ListUsers(ctx context.Context) ([]types.User, error)

	// UpdateUser applies the non-nil fields of update
	UpdateUser(ctx context.Context, id uint, update types.UserUpdate) (*types.User, error)

	// CreateSubmission stores a submission, its answers and its estimate atomically
	CreateSubmission(ctx context.Context, sub *types.Submission, answers []types.Answer, estimate *types.EstimateRecord) error

	// ListSubmissions lists submissions with their estimate, newest first
	ListSubmissions(ctx context.Context, filter types.SubmissionFilter) ([]types.Submission, error)

	// GetSubmission retrieves a submission with answers and estimate
	GetSubmission(ctx context.Context, id uint) (*types.Submission, error)

	// UpdateSubmission applies the non-nil fields of update
	UpdateSubmission(ctx context.Context, id uint, update types.SubmissionUpdate) (*types.Submission, error)

	// GetEstimate retrieves the estimate of a submission
	GetEstimate(ctx context.Context, submissionID uint) (*types.EstimateRecord, error)

	// AppendAudit stores an audit entry
	AppendAudit(ctx context.Context, entry *types.AuditLog) error

	// ListAudit lists audit entries, newest first
	ListAudit(ctx context.Context, filter types.AuditFilter) ([]types.AuditLog, error)

	// SummarizeAudit counts entries per action and per entity in [start, end]
	SummarizeAudit(ctx context.Context, start, end time.Time) (*types.AuditStats, error)

	// Ping checks connectivity
	Ping(ctx context.Context) error

	// Close closes the store
	Close() error
}
