// Package api - HTTP transport for the estimator service.
// Handlers decode, delegate to the services and render; they never price anything.
package api

import (
	"time"

	"migration-estimator/core/output"
	"migration-estimator/core/types"
)

// SubmissionResponse is the summary form of a submission
type SubmissionResponse struct {
	ID            uint                   `json:"id"`
	UserID        uint                   `json:"user_id"`
	Status        types.SubmissionStatus `json:"status"`
	SalesComments *string                `json:"sales_comments,omitempty"`
	Cost          *string                `json:"cost,omitempty"`
	EffortWeeks   *string                `json:"effort_weeks,omitempty"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`
}

// SubmissionDetailResponse adds the stored answers
type SubmissionDetailResponse struct {
	SubmissionResponse
	Answers map[string]types.AnswerValue `json:"answers"`
}

func newSubmissionResponse(sub *types.Submission) SubmissionResponse {
	resp := SubmissionResponse{
		ID:            sub.ID,
		UserID:        sub.UserID,
		Status:        sub.Status,
		SalesComments: sub.SalesComments,
		CreatedAt:     sub.CreatedAt.UTC(),
		UpdatedAt:     sub.UpdatedAt.UTC(),
	}
	if sub.Estimate != nil {
		cost, effort := output.Money(sub.Estimate.Cost), output.Weeks(sub.Estimate.EffortWeeks)
		resp.Cost = &cost
		resp.EffortWeeks = &effort
	}
	return resp
}

func newSubmissionDetail(sub *types.Submission) SubmissionDetailResponse {
	answers := make(map[string]types.AnswerValue, len(sub.Answers))
	for _, a := range sub.Answers {
		answers[a.FieldKey] = a.Value
	}
	return SubmissionDetailResponse{SubmissionResponse: newSubmissionResponse(sub), Answers: answers}
}

// HealthResponse is the body of the /api/health endpoints
type HealthResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
