package types

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// SubmissionStatus tracks the sales pipeline stage of a submission
type SubmissionStatus string

const (
	StatusNew           SubmissionStatus = "New"
	StatusContacted     SubmissionStatus = "Contacted"
	StatusInNegotiation SubmissionStatus = "In Negotiation"
	StatusClosedWon     SubmissionStatus = "Closed Won"
	StatusClosedLost    SubmissionStatus = "Closed Lost"
)

// Valid reports whether s is a known status
func (s SubmissionStatus) Valid() bool {
	switch s {
	case StatusNew, StatusContacted, StatusInNegotiation, StatusClosedWon, StatusClosedLost:
		return true
	}
	return false
}

// Submission is one customer questionnaire and its estimate
type Submission struct {
	ID            uint             `gorm:"primaryKey" json:"id"`
	UserID        uint             `gorm:"not null;index" json:"user_id"`
	Status        SubmissionStatus `gorm:"size:50;not null;default:New;index" json:"status"`
	SalesComments *string          `gorm:"type:text" json:"sales_comments,omitempty"`
	CreatedAt     time.Time        `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`

	Answers  []Answer        `gorm:"constraint:OnDelete:CASCADE" json:"answers,omitempty"`
	Estimate *EstimateRecord `json:"estimate,omitempty"`
}

// Answer stores a single form field of a submission
type Answer struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	SubmissionID uint        `gorm:"not null;index" json:"submission_id"`
	FieldKey     string      `gorm:"size:100;not null" json:"field_key"`
	Value        AnswerValue `gorm:"not null" json:"value"`
	CreatedAt    time.Time   `json:"created_at"`
}

// EstimateRecord is the persisted form of an engine Estimate
type EstimateRecord struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	SubmissionID uint            `gorm:"not null;uniqueIndex" json:"submission_id"`
	Cost         decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"cost"`
	EffortWeeks  decimal.Decimal `gorm:"type:decimal(4,1);not null" json:"effort_weeks"`
	Timeline     datatypes.JSON  `json:"timeline"`
	Breakdown    datatypes.JSON  `json:"breakdown"`
	CreatedAt    time.Time       `json:"created_at"`
}

// SubmissionUpdate carries optional sales-side changes
type SubmissionUpdate struct {
	Status        *SubmissionStatus `json:"status,omitempty" validate:"omitempty,oneof='New' 'Contacted' 'In Negotiation' 'Closed Won' 'Closed Lost'"`
	SalesComments *string           `json:"sales_comments,omitempty"`
}

// Empty reports whether the update changes nothing
func (u SubmissionUpdate) Empty() bool {
	return u.Status == nil && u.SalesComments == nil
}

// SubmissionFilter narrows a submission listing
type SubmissionFilter struct {
	// UserID restricts to one owner when non-zero
	UserID uint
	Status SubmissionStatus
	Limit  int
}
