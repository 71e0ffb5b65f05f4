package storage

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"migration-estimator/core/types"
	"migration-estimator/internal/config"
	"migration-estimator/internal/errors"
)

func newTestStore(t *testing.T) *GormStore {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	store, err := Open(config.DatabaseConfig{
		Driver: string(BackendSQLite),
		DSN:    "file:" + name + "?mode=memory&cache=shared",
	}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func createUser(t *testing.T, s *GormStore, email string, role types.Role) *types.User {
	t.Helper()
	u := &types.User{Email: email, Role: role, IsActive: true}
	require.NoError(t, s.CreateUser(context.Background(), u))
	require.NotZero(t, u.ID)
	return u
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(config.DatabaseConfig{Driver: "mysql", DSN: "x"}, nil)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeConfig))
}

func TestUsers(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	alice := createUser(t, s, "alice@example.com", types.RoleAdmin)
	createUser(t, s, "bob@example.com", types.RoleEndUser)

	got, err := s.GetUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, got.ID)
	assert.Equal(t, types.RoleAdmin, got.Role)

	_, err = s.GetUser(ctx, 9999)
	assert.True(t, errors.IsType(err, errors.TypeNotFound))

	users, err := s.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)

	sales := types.RoleSales
	inactive := false
	updated, err := s.UpdateUser(ctx, alice.ID, types.UserUpdate{Role: &sales, IsActive: &inactive})
	require.NoError(t, err)
	assert.Equal(t, types.RoleSales, updated.Role)
	assert.False(t, updated.IsActive)

	_, err = s.UpdateUser(ctx, 9999, types.UserUpdate{Role: &sales})
	assert.True(t, errors.IsType(err, errors.TypeNotFound))
}

func TestSubmissionLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	owner := createUser(t, s, "owner@example.com", types.RoleEndUser)

	sub := &types.Submission{UserID: owner.ID, Status: types.StatusNew}
	answers := []types.Answer{
		{FieldKey: "customer_info.company_name", Value: types.AnswerValue(`"Acme"`)},
		{FieldKey: "technical_details.message_volume", Value: types.AnswerValue(`4000000`)},
	}
	est := &types.EstimateRecord{
		Cost:        decimal.RequireFromString("41500.00"),
		EffortWeeks: decimal.RequireFromString("9.0"),
		Timeline:    datatypes.JSON(`{"base_weeks":"8"}`),
		Breakdown:   datatypes.JSON(`{"base_cost":"35000"}`),
	}
	require.NoError(t, s.CreateSubmission(ctx, sub, answers, est))
	require.NotZero(t, sub.ID)
	assert.Equal(t, sub.ID, est.SubmissionID)

	got, err := s.GetSubmission(ctx, sub.ID)
	require.NoError(t, err)
	require.Len(t, got.Answers, 2)
	assert.Equal(t, "customer_info.company_name", got.Answers[0].FieldKey)
	assert.Equal(t, `"Acme"`, got.Answers[0].Value.String())
	assert.Equal(t, `4000000`, got.Answers[1].Value.String())
	require.NotNil(t, got.Estimate)
	assert.True(t, got.Estimate.Cost.Equal(decimal.RequireFromString("41500")))
	assert.True(t, got.Estimate.EffortWeeks.Equal(decimal.RequireFromString("9")))

	record, err := s.GetEstimate(ctx, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, est.ID, record.ID)

	status := types.StatusContacted
	comment := "called on Monday"
	updated, err := s.UpdateSubmission(ctx, sub.ID, types.SubmissionUpdate{Status: &status, SalesComments: &comment})
	require.NoError(t, err)
	assert.Equal(t, types.StatusContacted, updated.Status)
	require.NotNil(t, updated.SalesComments)
	assert.Equal(t, comment, *updated.SalesComments)

	_, err = s.GetSubmission(ctx, 9999)
	assert.True(t, errors.IsType(err, errors.TypeNotFound))
	_, err = s.GetEstimate(ctx, 9999)
	assert.True(t, errors.IsType(err, errors.TypeNotFound))
}

func TestScalarAnswersReadBack(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	owner := createUser(t, s, "owner@example.com", types.RoleEndUser)

	values := map[string]string{
		"customer_info.company_name":       `"Acme"`,
		"customer_info.ideal_timeline":     `"2026-12-01"`,
		"customer_info.other_collab_tools": `["Zoom","Webex"]`,
		"customer_info.rough_budget":       `"50000.50"`,
		"customer_info.total_licenses":     `1200`,
		"technical_details.message_volume": `3000001`,
		"technical_details.ratio":          `0.25`,
		"technical_details.flag":           `true`,
		"technical_details.missing":        `null`,
	}
	var answers []types.Answer
	for key, raw := range values {
		answers = append(answers, types.Answer{FieldKey: key, Value: types.AnswerValue(raw)})
	}

	sub := &types.Submission{UserID: owner.ID, Status: types.StatusNew}
	require.NoError(t, s.CreateSubmission(ctx, sub, answers, nil))

	got, err := s.GetSubmission(ctx, sub.ID)
	require.NoError(t, err)
	require.Len(t, got.Answers, len(values))
	for _, a := range got.Answers {
		assert.JSONEq(t, values[a.FieldKey], a.Value.String(), a.FieldKey)
	}

	var typeName string
	require.NoError(t, s.db.Raw("SELECT typeof(value) FROM answers WHERE field_key = ?", "technical_details.message_volume").Scan(&typeName).Error)
	assert.Equal(t, "text", typeName)
}

func TestListSubmissionsFilters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	a := createUser(t, s, "a@example.com", types.RoleEndUser)
	b := createUser(t, s, "b@example.com", types.RoleEndUser)

	for i := 0; i < 3; i++ {
		require.NoError(t, s.CreateSubmission(ctx, &types.Submission{UserID: a.ID, Status: types.StatusNew}, nil, nil))
	}
	require.NoError(t, s.CreateSubmission(ctx, &types.Submission{UserID: b.ID, Status: types.StatusClosedWon}, nil, nil))

	all, err := s.ListSubmissions(ctx, types.SubmissionFilter{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Greater(t, all[0].ID, all[1].ID, "newest first")

	mine, err := s.ListSubmissions(ctx, types.SubmissionFilter{UserID: a.ID})
	require.NoError(t, err)
	assert.Len(t, mine, 3)

	won, err := s.ListSubmissions(ctx, types.SubmissionFilter{Status: types.StatusClosedWon})
	require.NoError(t, err)
	require.Len(t, won, 1)
	assert.Equal(t, b.ID, won[0].UserID)

	limited, err := s.ListSubmissions(ctx, types.SubmissionFilter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestAuditFilters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	entries := []types.AuditLog{
		{ActorID: 1, Timestamp: base, Entity: types.EntitySubmission, Action: types.ActionCreate, EntityID: 10, Diff: datatypes.JSONMap{"status": "New"}},
		{ActorID: 2, Timestamp: base.Add(time.Hour), Entity: types.EntitySubmission, Action: types.ActionUpdate, EntityID: 10, Diff: datatypes.JSONMap{}},
		{ActorID: 2, Timestamp: base.Add(2 * time.Hour), Entity: types.EntityUser, Action: types.ActionUpdate, EntityID: 3, Diff: datatypes.JSONMap{}},
	}
	for i := range entries {
		require.NoError(t, s.AppendAudit(ctx, &entries[i]))
	}

	all, err := s.ListAudit(ctx, types.AuditFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, types.EntityUser, all[0].Entity, "newest first")
	assert.Equal(t, "New", all[2].Diff["status"])

	trail, err := s.ListAudit(ctx, types.AuditFilter{Entity: types.EntitySubmission, EntityID: 10})
	require.NoError(t, err)
	assert.Len(t, trail, 2)

	byActor, err := s.ListAudit(ctx, types.AuditFilter{ActorID: 2, Action: types.ActionUpdate})
	require.NoError(t, err)
	assert.Len(t, byActor, 2)

	start := base.Add(30 * time.Minute)
	windowed, err := s.ListAudit(ctx, types.AuditFilter{StartDate: &start})
	require.NoError(t, err)
	assert.Len(t, windowed, 2)

	limited, err := s.ListAudit(ctx, types.AuditFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	stats, err := s.SummarizeAudit(ctx, base, base.Add(90*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalEvents)
	assert.Equal(t, map[string]int{types.ActionCreate: 1, types.ActionUpdate: 1}, stats.Actions)
	assert.Equal(t, map[string]int{types.EntitySubmission: 2}, stats.Entities)
}

func TestPing(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Ping(context.Background()))
}
