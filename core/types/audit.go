package types

import (
	"time"

	"gorm.io/datatypes"
)

// Audited entity names
const (
	EntitySubmission = "submission"
	EntityUser       = "user"
	EntityEstimate   = "estimate"
)

// Audited actions
const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
	ActionView   = "view"
)

// AuditLog is one compliance trail entry
type AuditLog struct {
	ID        uint              `gorm:"primaryKey" json:"id"`
	ActorID   uint              `gorm:"not null;index" json:"actor_id"`
	Timestamp time.Time         `gorm:"not null;index" json:"timestamp"`
	Entity    string            `gorm:"size:100;not null;index:idx_audit_entity" json:"entity"`
	Action    string            `gorm:"size:50;not null" json:"action"`
	EntityID  uint              `gorm:"not null;index:idx_audit_entity" json:"entity_id"`
	Diff      datatypes.JSONMap `gorm:"not null" json:"diff"`
	IPAddress string            `gorm:"size:45" json:"ip_address,omitempty"`
	UserAgent string            `gorm:"type:text" json:"user_agent,omitempty"`
}

// AuditEvent is the caller-supplied part of an AuditLog
type AuditEvent struct {
	Entity    string                 `json:"entity" validate:"required,max=100"`
	Action    string                 `json:"action" validate:"required,max=50"`
	EntityID  uint                   `json:"entity_id" validate:"required"`
	Diff      map[string]interface{} `json:"diff" validate:"required"`
	IPAddress string                 `json:"ip_address,omitempty" validate:"omitempty,max=45"`
	UserAgent string                 `json:"user_agent,omitempty"`
}

// AuditFilter narrows an audit listing; zero values are ignored
type AuditFilter struct {
	Entity    string
	Action    string
	EntityID  uint
	ActorID   uint
	StartDate *time.Time
	EndDate   *time.Time
	Limit     int
}

// AuditStats summarises audit activity over a window
type AuditStats struct {
	PeriodDays  int            `json:"period_days"`
	TotalEvents int            `json:"total_events"`
	Actions     map[string]int `json:"actions"`
	Entities    map[string]int `json:"entities"`
	StartDate   time.Time      `json:"start_date"`
	EndDate     time.Time      `json:"end_date"`
}
