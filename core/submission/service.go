// Package submission - Questionnaire intake, estimation and sales follow-up
package submission

import (
	"context"
	"encoding/json"
	"sort"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"migration-estimator/core/estimation"
	"migration-estimator/core/types"
	"migration-estimator/internal/errors"
	"migration-estimator/internal/validation"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 100
)

// Answer key prefixes, one per questionnaire step
const (
	SectionCustomerInfo     = "customer_info"
	SectionTechnicalDetails = "technical_details"
)

// Store is the persistence the submission service needs
type Store interface {
	CreateSubmission(ctx context.Context, sub *types.Submission, answers []types.Answer, estimate *types.EstimateRecord) error
	ListSubmissions(ctx context.Context, filter types.SubmissionFilter) ([]types.Submission, error)
	GetSubmission(ctx context.Context, id uint) (*types.Submission, error)
	UpdateSubmission(ctx context.Context, id uint, update types.SubmissionUpdate) (*types.Submission, error)
	GetEstimate(ctx context.Context, submissionID uint) (*types.EstimateRecord, error)
}

// Estimator computes an estimate for a message volume
type Estimator interface {
	ComputeEstimate(messageVolume int64) (estimation.Estimate, error)
}

// Tracker records audit events
type Tracker interface {
	Track(ctx context.Context, actorID uint, entity, action string, entityID uint, diff map[string]interface{})
}

// Service runs the submission workflow
type Service struct {
	store     Store
	estimator Estimator
	tracker   Tracker
	log       *zap.Logger
}

// NewService creates a submission service
func NewService(store Store, estimator Estimator, tracker Tracker, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		store:     store,
		estimator: estimator,
		tracker:   tracker,
		log:       log.Named("submission"),
	}
}

// Estimate validates form and prices it without storing anything
func (s *Service) Estimate(ctx context.Context, form types.SubmissionForm) (estimation.Estimate, error) {
	if err := validation.Struct(form); err != nil {
		return estimation.Estimate{}, err
	}
	est, err := s.estimator.ComputeEstimate(form.TechnicalDetails.MessageVolume)
	if err != nil {
		return estimation.Estimate{}, err
	}
	s.logEstimate(est)
	return est, nil
}

// Create stores form as a new submission owned by the caller, with its answers and estimate
func (s *Service) Create(ctx context.Context, p types.Principal, form types.SubmissionForm) (*types.Submission, error) {
	est, err := s.Estimate(ctx, form)
	if err != nil {
		return nil, err
	}

	answers, err := Flatten(form)
	if err != nil {
		return nil, err
	}
	record, err := NewRecord(est)
	if err != nil {
		return nil, err
	}

	sub := &types.Submission{UserID: p.UserID, Status: types.StatusNew}
	if err := s.store.CreateSubmission(ctx, sub, answers, record); err != nil {
		return nil, err
	}

	s.log.Info("submission created",
		zap.Uint("submission_id", sub.ID),
		zap.Uint("user_id", p.UserID),
		zap.Int("answers", len(answers)))
	s.tracker.Track(ctx, p.UserID, types.EntitySubmission, types.ActionCreate, sub.ID, map[string]interface{}{
		"status":         string(sub.Status),
		"message_volume": form.TechnicalDetails.MessageVolume,
		"total_cost":     est.TotalCost().StringFixed(2),
	})
	return sub, nil
}

// List returns submissions newest first. End users only see their own.
func (s *Service) List(ctx context.Context, p types.Principal, filter types.SubmissionFilter) ([]types.Submission, error) {
	switch {
	case filter.Limit == 0:
		filter.Limit = DefaultListLimit
	case filter.Limit < 0 || filter.Limit > MaxListLimit:
		return nil, errors.Newf(errors.TypeValidation, "limit must be between 1 and %d", MaxListLimit)
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, errors.Newf(errors.TypeValidation, "unknown status: %q", filter.Status)
	}
	if !p.Can(types.RoleSales) {
		filter.UserID = p.UserID
	}
	return s.store.ListSubmissions(ctx, filter)
}

// Get returns a submission with answers and estimate
func (s *Service) Get(ctx context.Context, p types.Principal, id uint) (*types.Submission, error) {
	sub, err := s.store.GetSubmission(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.Owns(sub.UserID) {
		return nil, errors.Forbidden("not allowed to view this submission")
	}
	return sub, nil
}

// GetEstimate returns the stored estimate of a submission
func (s *Service) GetEstimate(ctx context.Context, p types.Principal, id uint) (*types.EstimateRecord, error) {
	if _, err := s.Get(ctx, p, id); err != nil {
		return nil, err
	}
	return s.store.GetEstimate(ctx, id)
}

// Update changes the sales status and/or comments. Sales and admin only.
func (s *Service) Update(ctx context.Context, p types.Principal, id uint, update types.SubmissionUpdate) (*types.Submission, error) {
	if !p.Can(types.RoleSales) {
		return nil, errors.Forbidden("sales role required")
	}
	if err := validation.Struct(update); err != nil {
		return nil, err
	}
	if update.Empty() {
		return nil, errors.New(errors.TypeValidation, "no fields to update")
	}

	before, err := s.store.GetSubmission(ctx, id)
	if err != nil {
		return nil, err
	}
	after, err := s.store.UpdateSubmission(ctx, id, update)
	if err != nil {
		return nil, err
	}

	s.tracker.Track(ctx, p.UserID, types.EntitySubmission, types.ActionUpdate, id, submissionDiff(before, after))
	return after, nil
}

func (s *Service) logEstimate(est estimation.Estimate) {
	s.log.Info("estimate computed",
		zap.Int64("message_volume", est.Cost.MessageVolume),
		zap.String("total_cost", est.TotalCost().StringFixed(2)),
		zap.String("total_weeks", est.TotalWeeks().StringFixed(1)))
}

// Flatten turns both questionnaire steps into one Answer per JSON field,
// keyed "<section>.<field>" and sorted by key.
func Flatten(form types.SubmissionForm) ([]types.Answer, error) {
	var answers []types.Answer
	sections := []struct {
		name  string
		value interface{}
	}{
		{SectionCustomerInfo, form.CustomerInfo},
		{SectionTechnicalDetails, form.TechnicalDetails},
	}

	for _, section := range sections {
		raw, err := json.Marshal(section.value)
		if err != nil {
			return nil, errors.Internal("failed to encode answers", err)
		}
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(raw, &fields); err != nil {
			return nil, errors.Internal("failed to encode answers", err)
		}

		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			answers = append(answers, types.Answer{
				FieldKey: section.name + "." + k,
				Value:    types.AnswerValue(fields[k]),
			})
		}
	}
	return answers, nil
}

// NewRecord converts an engine estimate into its stored form
func NewRecord(est estimation.Estimate) (*types.EstimateRecord, error) {
	timeline, err := json.Marshal(est.Timeline)
	if err != nil {
		return nil, errors.Internal("failed to encode timeline", err)
	}
	breakdown, err := json.Marshal(est.Cost)
	if err != nil {
		return nil, errors.Internal("failed to encode breakdown", err)
	}
	return &types.EstimateRecord{
		Cost:        est.TotalCost(),
		EffortWeeks: est.TotalWeeks(),
		Timeline:    datatypes.JSON(timeline),
		Breakdown:   datatypes.JSON(breakdown),
		CreatedAt:   est.CreatedAt,
	}, nil
}

// DecodeRecord rebuilds the engine estimate from its stored form
func DecodeRecord(rec *types.EstimateRecord) (estimation.Estimate, error) {
	var est estimation.Estimate
	if err := json.Unmarshal(rec.Breakdown, &est.Cost); err != nil {
		return estimation.Estimate{}, errors.Internal("stored breakdown is corrupt", err)
	}
	if err := json.Unmarshal(rec.Timeline, &est.Timeline); err != nil {
		return estimation.Estimate{}, errors.Internal("stored timeline is corrupt", err)
	}
	est.CreatedAt = rec.CreatedAt.UTC()
	return est, nil
}

func submissionDiff(before, after *types.Submission) map[string]interface{} {
	diff := map[string]interface{}{}
	if before.Status != after.Status {
		diff["status"] = map[string]interface{}{"old": string(before.Status), "new": string(after.Status)}
	}
	if deref(before.SalesComments) != deref(after.SalesComments) {
		diff["sales_comments"] = map[string]interface{}{"old": deref(before.SalesComments), "new": deref(after.SalesComments)}
	}
	return diff
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
