// Package audit - Compliance trail recording, querying and statistics
package audit

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"migration-estimator/core/types"
	"migration-estimator/internal/errors"
	"migration-estimator/internal/validation"
)

const (
	DefaultListLimit = 100
	MaxListLimit     = 1000
	DefaultStatsDays = 30
	MaxStatsDays     = 365
)

// Store is the persistence the audit service needs
type Store interface {
	AppendAudit(ctx context.Context, entry *types.AuditLog) error
	ListAudit(ctx context.Context, filter types.AuditFilter) ([]types.AuditLog, error)
	SummarizeAudit(ctx context.Context, start, end time.Time) (*types.AuditStats, error)
}

// Service records and queries audit entries
type Service struct {
	store Store
	log   *zap.Logger
	now   func() time.Time
}

// NewService creates an audit service
func NewService(store Store, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, log: log.Named("audit"), now: time.Now}
}

// Record validates and stores an event attributed to actorID
func (s *Service) Record(ctx context.Context, actorID uint, event types.AuditEvent) (*types.AuditLog, error) {
	if err := validation.Struct(event); err != nil {
		return nil, err
	}

	entry := &types.AuditLog{
		ActorID:   actorID,
		Timestamp: s.now().UTC(),
		Entity:    event.Entity,
		Action:    event.Action,
		EntityID:  event.EntityID,
		Diff:      datatypes.JSONMap(event.Diff),
		IPAddress: event.IPAddress,
		UserAgent: event.UserAgent,
	}
	if err := s.store.AppendAudit(ctx, entry); err != nil {
		return nil, err
	}

	s.log.Debug("audit recorded",
		zap.Uint("actor_id", actorID),
		zap.String("entity", entry.Entity),
		zap.String("action", entry.Action),
		zap.Uint("entity_id", entry.EntityID))
	return entry, nil
}

// Track records an event on behalf of another service. A failure is logged,
// never returned: the audited change has already been committed.
func (s *Service) Track(ctx context.Context, actorID uint, entity, action string, entityID uint, diff map[string]interface{}) {
	if diff == nil {
		diff = map[string]interface{}{}
	}
	_, err := s.Record(ctx, actorID, types.AuditEvent{
		Entity:   entity,
		Action:   action,
		EntityID: entityID,
		Diff:     diff,
	})
	if err != nil {
		s.log.Warn("failed to record audit event",
			zap.String("entity", entity),
			zap.String("action", action),
			zap.Uint("entity_id", entityID),
			zap.Error(err))
	}
}

// List returns entries matching filter, newest first
func (s *Service) List(ctx context.Context, filter types.AuditFilter) ([]types.AuditLog, error) {
	switch {
	case filter.Limit == 0:
		filter.Limit = DefaultListLimit
	case filter.Limit < 0 || filter.Limit > MaxListLimit:
		return nil, errors.Newf(errors.TypeValidation, "limit must be between 1 and %d", MaxListLimit)
	}
	if filter.StartDate != nil && filter.EndDate != nil && filter.EndDate.Before(*filter.StartDate) {
		return nil, errors.New(errors.TypeValidation, "end_date must not be before start_date")
	}
	return s.store.ListAudit(ctx, filter)
}

// Trail returns the history of one entity, newest first
func (s *Service) Trail(ctx context.Context, entity string, entityID uint) ([]types.AuditLog, error) {
	if entity == "" {
		return nil, errors.New(errors.TypeValidation, "entity is required")
	}
	return s.store.ListAudit(ctx, types.AuditFilter{
		Entity:   entity,
		EntityID: entityID,
		Limit:    MaxListLimit,
	})
}

// Stats summarises the last days of activity; zero means DefaultStatsDays
func (s *Service) Stats(ctx context.Context, days int) (*types.AuditStats, error) {
	if days == 0 {
		days = DefaultStatsDays
	}
	if days < 1 || days > MaxStatsDays {
		return nil, errors.Newf(errors.TypeValidation, "days must be between 1 and %d", MaxStatsDays)
	}

	end := s.now().UTC()
	start := end.AddDate(0, 0, -days)
	stats, err := s.store.SummarizeAudit(ctx, start, end)
	if err != nil {
		return nil, err
	}
	stats.PeriodDays = days
	return stats, nil
}
