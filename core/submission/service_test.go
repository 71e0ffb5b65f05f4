package submission

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"migration-estimator/core/audit"
	"migration-estimator/core/estimation"
	"migration-estimator/core/types"
	"migration-estimator/internal/errors"
	"migration-estimator/internal/testutil"
)

var fixedNow = time.Date(2026, 9, 1, 8, 30, 0, 0, time.UTC)

type fixture struct {
	svc   *Service
	audit *audit.Service
	owner types.Principal
	other types.Principal
	sales types.Principal
}

func setup(t *testing.T) fixture {
	t.Helper()
	store := testutil.NewStore(t)
	auditSvc := audit.NewService(store, zap.NewNop())
	engine := estimation.NewEngine(estimation.WithClock(func() time.Time { return fixedNow }))
	return fixture{
		svc:   NewService(store, engine, auditSvc, zap.NewNop()),
		audit: auditSvc,
		owner: testutil.SeedUser(t, store, "owner@example.com", types.RoleEndUser),
		other: testutil.SeedUser(t, store, "other@example.com", types.RoleEndUser),
		sales: testutil.SeedUser(t, store, "sales@example.com", types.RoleSales),
	}
}

func TestEstimateDoesNotPersist(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	est, err := f.svc.Estimate(ctx, testutil.ValidForm(6_000_001))
	require.NoError(t, err)
	assert.Equal(t, int64(2), est.Cost.AdditionalTiers)
	assert.Equal(t, "48000.00", est.TotalCost().StringFixed(2))
	assert.Equal(t, "10.0", est.TotalWeeks().StringFixed(1))

	subs, err := f.svc.List(ctx, f.sales, types.SubmissionFilter{})
	require.NoError(t, err)
	assert.Empty(t, subs)
}

func TestEstimateRejectsInvalidForm(t *testing.T) {
	f := setup(t)
	form := testutil.ValidForm(0)

	_, err := f.svc.Estimate(context.Background(), form)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeValidation))
}

func TestCreate(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	sub, err := f.svc.Create(ctx, f.owner, testutil.ValidForm(3_000_001))
	require.NoError(t, err)
	assert.NotZero(t, sub.ID)
	assert.Equal(t, types.StatusNew, sub.Status)
	assert.Equal(t, f.owner.UserID, sub.UserID)
	require.NotNil(t, sub.Estimate)
	assert.True(t, sub.Estimate.Cost.Equal(decimal.RequireFromString("41500.00")))
	assert.True(t, sub.Estimate.EffortWeeks.Equal(decimal.RequireFromString("9.0")))

	stored, err := f.svc.Get(ctx, f.owner, sub.ID)
	require.NoError(t, err)
	keys := make(map[string]string, len(stored.Answers))
	for _, a := range stored.Answers {
		keys[a.FieldKey] = string(a.Value)
	}
	assert.Equal(t, `"Acme Corp"`, keys["customer_info.company_name"])
	assert.Equal(t, `3000001`, keys["technical_details.message_volume"])

	trail, err := f.audit.Trail(ctx, types.EntitySubmission, sub.ID)
	require.NoError(t, err)
	require.Len(t, trail, 1)
	assert.Equal(t, types.ActionCreate, trail[0].Action)
	assert.Equal(t, "41500.00", trail[0].Diff["total_cost"])
}

func TestAccessControl(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	mine, err := f.svc.Create(ctx, f.owner, testutil.ValidForm(1_000_000))
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, f.other, testutil.ValidForm(2_000_000))
	require.NoError(t, err)

	_, err = f.svc.Get(ctx, f.other, mine.ID)
	assert.True(t, errors.IsType(err, errors.TypeForbidden))
	_, err = f.svc.GetEstimate(ctx, f.other, mine.ID)
	assert.True(t, errors.IsType(err, errors.TypeForbidden))

	_, err = f.svc.Get(ctx, f.sales, mine.ID)
	require.NoError(t, err)

	_, err = f.svc.Get(ctx, f.owner, 9999)
	assert.True(t, errors.IsType(err, errors.TypeNotFound))

	own, err := f.svc.List(ctx, f.owner, types.SubmissionFilter{})
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, mine.ID, own[0].ID)

	all, err := f.svc.List(ctx, f.sales, types.SubmissionFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestListValidation(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	for _, limit := range []int{-1, MaxListLimit + 1} {
		_, err := f.svc.List(ctx, f.sales, types.SubmissionFilter{Limit: limit})
		assert.True(t, errors.IsType(err, errors.TypeValidation), "limit %d", limit)
	}
	_, err := f.svc.List(ctx, f.sales, types.SubmissionFilter{Status: "Pending"})
	assert.True(t, errors.IsType(err, errors.TypeValidation))
}

func TestGetEstimateRoundTrip(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	sub, err := f.svc.Create(ctx, f.owner, testutil.ValidForm(30_000_000))
	require.NoError(t, err)

	rec, err := f.svc.GetEstimate(ctx, f.owner, sub.ID)
	require.NoError(t, err)

	est, err := DecodeRecord(rec)
	require.NoError(t, err)
	assert.Equal(t, int64(9), est.Cost.AdditionalTiers)
	assert.Equal(t, "93500.00", est.TotalCost().StringFixed(2))
	assert.Equal(t, "17.0", est.TotalWeeks().StringFixed(1))
	assert.Equal(t, int64(30_000_000), est.Cost.MessageVolume)
	assert.True(t, est.CreatedAt.Equal(fixedNow))
}

func TestUpdate(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	sub, err := f.svc.Create(ctx, f.owner, testutil.ValidForm(1))
	require.NoError(t, err)

	status := types.StatusInNegotiation
	comment := "waiting on legal"
	update := types.SubmissionUpdate{Status: &status, SalesComments: &comment}

	_, err = f.svc.Update(ctx, f.owner, sub.ID, update)
	assert.True(t, errors.IsType(err, errors.TypeForbidden))

	updated, err := f.svc.Update(ctx, f.sales, sub.ID, update)
	require.NoError(t, err)
	assert.Equal(t, types.StatusInNegotiation, updated.Status)
	assert.Equal(t, comment, *updated.SalesComments)
	assert.NotNil(t, updated.Estimate, "estimate survives updates")

	bogus := types.SubmissionStatus("Lost")
	_, err = f.svc.Update(ctx, f.sales, sub.ID, types.SubmissionUpdate{Status: &bogus})
	assert.True(t, errors.IsType(err, errors.TypeValidation))

	_, err = f.svc.Update(ctx, f.sales, sub.ID, types.SubmissionUpdate{})
	assert.True(t, errors.IsType(err, errors.TypeValidation))

	_, err = f.svc.Update(ctx, f.sales, 9999, update)
	assert.True(t, errors.IsType(err, errors.TypeNotFound))

	trail, err := f.audit.Trail(ctx, types.EntitySubmission, sub.ID)
	require.NoError(t, err)
	require.Len(t, trail, 2)
	assert.Equal(t, f.sales.UserID, trail[0].ActorID)
	diff, err := json.Marshal(trail[0].Diff)
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":{"old":"New","new":"In Negotiation"},"sales_comments":{"old":"","new":"waiting on legal"}}`, string(diff))
}

func TestFlattenKeys(t *testing.T) {
	answers, err := Flatten(testutil.ValidForm(42))
	require.NoError(t, err)
	require.NotEmpty(t, answers)
	assert.Equal(t, "customer_info.collaboration_scope", answers[0].FieldKey)

	seenTechnical := false
	for i, a := range answers {
		technical := strings.HasPrefix(a.FieldKey, SectionTechnicalDetails+".")
		if !technical {
			require.True(t, strings.HasPrefix(a.FieldKey, SectionCustomerInfo+"."), a.FieldKey)
			require.False(t, seenTechnical, "customer_info answers come first")
		}
		if i > 0 && technical == seenTechnical {
			assert.Less(t, answers[i-1].FieldKey, a.FieldKey)
		}
		seenTechnical = seenTechnical || technical
	}
	assert.True(t, seenTechnical)
}
