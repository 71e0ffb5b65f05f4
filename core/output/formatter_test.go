package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"migration-estimator/core/estimation"
	"migration-estimator/internal/errors"
)

func sampleView(t *testing.T) EstimateView {
	t.Helper()
	engine := estimation.NewEngine(estimation.WithClock(func() time.Time {
		return time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)
	}))
	est, err := engine.ComputeEstimate(6_000_001)
	require.NoError(t, err)
	return NewEstimateView(est)
}

func TestNewEstimateView(t *testing.T) {
	v := sampleView(t)
	assert.Equal(t, "48000.00", v.Cost)
	assert.Equal(t, "10.0", v.EffortWeeks)
	assert.Equal(t, v.EffortWeeks, v.TimelineWeeks)
	assert.Equal(t, CostView{
		BaseCost:         "35000.00",
		AdditionalTiers:  2,
		AddonServiceCost: "12000.00",
		DataPrepCost:     "1000.00",
		TotalCost:        "48000.00",
		MessageVolume:    6_000_001,
	}, v.Breakdown)
	assert.Equal(t, TimelineView{BaseWeeks: "8.0", AdditionalWeeks: "2.0", TotalWeeks: "10.0"}, v.Timeline)
}

func TestNew(t *testing.T) {
	f, err := New(FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f.Format())

	f, err = New("")
	require.NoError(t, err)
	assert.Equal(t, FormatCLI, f.Format())

	_, err = New("html")
	assert.True(t, errors.IsType(err, errors.TypeValidation))
}

func TestCLIRenderEstimate(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&CLIFormatter{}).RenderEstimate(&buf, sampleView(t)))

	out := buf.String()
	for _, want := range []string{"Total cost", "$48000.00", "Total weeks", "10.0", "6000001"} {
		assert.Contains(t, out, want)
	}
}

func TestJSONRenderEstimate(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&JSONFormatter{}).RenderEstimate(&buf, sampleView(t)))

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "48000.00", got["cost"])
	assert.Equal(t, "2026-02-03T04:05:06Z", got["created_at"])
	breakdown := got["breakdown"].(map[string]interface{})
	assert.Equal(t, "1000.00", breakdown["data_prep_cost"])
}

func TestCatalog(t *testing.T) {
	catalog := NewCatalog(estimation.AddonServicePricing())
	require.Len(t, catalog, 3)
	assert.Equal(t, AddonRate{ServiceName: "adoption_change_management", WeeklyRate: "2000.00"}, catalog[0])

	var buf bytes.Buffer
	require.NoError(t, (&CLIFormatter{}).RenderCatalog(&buf, catalog))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 4)

	buf.Reset()
	require.NoError(t, (&JSONFormatter{}).RenderCatalog(&buf, catalog))
	assert.JSONEq(t, `{"adoption_change_management":"2000.00","application_integration_dev":"4000.00","hypercare_support":"4000.00"}`, buf.String())
}

func TestQuote(t *testing.T) {
	q, err := Quote(estimation.HypercareSupport, 3)
	require.NoError(t, err)
	assert.Equal(t, AddonQuote{ServiceName: "hypercare_support", Weeks: 3, WeeklyRate: "4000.00", TotalCost: "12000.00"}, q)

	_, err = Quote("premium_support", 3)
	assert.True(t, errors.IsType(err, errors.TypeUnknownService))

	_, err = Quote(estimation.HypercareSupport, 0)
	assert.True(t, errors.IsType(err, errors.TypeInvalidInput))

	var buf bytes.Buffer
	require.NoError(t, (&CLIFormatter{}).RenderQuote(&buf, q))
	assert.Contains(t, buf.String(), "$12000.00")
}
