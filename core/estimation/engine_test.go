package estimation

import (
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"migration-estimator/internal/errors"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// TestComputeCostTiers checks tier boundaries and totals
func TestComputeCostTiers(t *testing.T) {
	tests := []struct {
		name      string
		volume    int64
		tiers     int64
		addon     string
		prep      string
		total     string
		totalWeek string
	}{
		{name: "single message", volume: 1, tiers: 0, addon: "0", prep: "0", total: "35000.00", totalWeek: "8.0"},
		{name: "mid first tier", volume: 1_500_000, tiers: 0, addon: "0", prep: "0", total: "35000.00", totalWeek: "8.0"},
		{name: "exactly one tier", volume: 3_000_000, tiers: 0, addon: "0", prep: "0", total: "35000.00", totalWeek: "8.0"},
		{name: "one message over", volume: 3_000_001, tiers: 1, addon: "6000", prep: "500", total: "41500.00", totalWeek: "9.0"},
		{name: "one full additional tier", volume: 6_000_000, tiers: 1, addon: "6000", prep: "500", total: "41500.00", totalWeek: "9.0"},
		{name: "into the third tier", volume: 6_000_001, tiers: 2, addon: "12000", prep: "1000", total: "48000.00", totalWeek: "10.0"},
		{name: "large volume", volume: 30_000_000, tiers: 9, addon: "54000", prep: "4500", total: "93500.00", totalWeek: "17.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cost, err := ComputeCost(tt.volume)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cost.AdditionalTiers != tt.tiers {
				t.Errorf("expected %d additional tiers, got %d", tt.tiers, cost.AdditionalTiers)
			}
			if !cost.AddonServiceCost.Equal(dec(tt.addon)) {
				t.Errorf("expected addon cost %s, got %s", tt.addon, cost.AddonServiceCost)
			}
			if !cost.DataPrepCost.Equal(dec(tt.prep)) {
				t.Errorf("expected data prep cost %s, got %s", tt.prep, cost.DataPrepCost)
			}
			if !cost.TotalCost.Equal(dec(tt.total)) {
				t.Errorf("expected total %s, got %s", tt.total, cost.TotalCost)
			}
			if cost.MessageVolume != tt.volume {
				t.Errorf("expected message volume %d, got %d", tt.volume, cost.MessageVolume)
			}

			timeline, err := ComputeTimeline(tt.volume)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !timeline.TotalWeeks.Equal(dec(tt.totalWeek)) {
				t.Errorf("expected %s total weeks, got %s", tt.totalWeek, timeline.TotalWeeks)
			}
		})
	}
}

// TestTiersAndWeeksNeverDiverge sweeps boundaries around several tiers
func TestTiersAndWeeksNeverDiverge(t *testing.T) {
	var volumes []int64
	for k := int64(0); k <= 12; k++ {
		edge := k * TierSize
		for _, v := range []int64{edge - 1, edge, edge + 1} {
			if v > 0 {
				volumes = append(volumes, v)
			}
		}
	}
	volumes = append(volumes, 7, 999_999_999, 1<<40)

	for _, v := range volumes {
		cost, err := ComputeCost(v)
		if err != nil {
			t.Fatalf("volume %d: unexpected error: %v", v, err)
		}
		timeline, err := ComputeTimeline(v)
		if err != nil {
			t.Fatalf("volume %d: unexpected error: %v", v, err)
		}

		if !timeline.AdditionalWeeks.IsInteger() {
			t.Errorf("volume %d: additional weeks %s is fractional", v, timeline.AdditionalWeeks)
		}
		if timeline.AdditionalWeeks.IntPart() != cost.AdditionalTiers {
			t.Errorf("volume %d: tiers %d != additional weeks %s", v, cost.AdditionalTiers, timeline.AdditionalWeeks)
		}

		sum := cost.BaseCost.Add(cost.AddonServiceCost).Add(cost.DataPrepCost)
		if !cost.TotalCost.Equal(sum) {
			t.Errorf("volume %d: total cost %s != parts %s", v, cost.TotalCost, sum)
		}
		weeks := timeline.BaseWeeks.Add(timeline.AdditionalWeeks)
		if !timeline.TotalWeeks.Equal(weeks) {
			t.Errorf("volume %d: total weeks %s != parts %s", v, timeline.TotalWeeks, weeks)
		}
	}
}

// TestNonPositiveVolumeRejected covers the precondition on both operations
func TestNonPositiveVolumeRejected(t *testing.T) {
	for _, v := range []int64{0, -5, -3_000_001} {
		if _, err := ComputeCost(v); !errors.IsType(err, errors.TypeInvalidInput) {
			t.Errorf("ComputeCost(%d): expected INVALID_INPUT, got %v", v, err)
		}
		if _, err := ComputeTimeline(v); !errors.IsType(err, errors.TypeInvalidInput) {
			t.Errorf("ComputeTimeline(%d): expected INVALID_INPUT, got %v", v, err)
		}
	}
}

func TestComputeEstimate(t *testing.T) {
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.FixedZone("EST", -5*3600))
	engine := NewEngine(WithClock(func() time.Time { return fixed }))

	est, err := engine.ComputeEstimate(6_000_001)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !est.TotalCost().Equal(dec("48000.00")) {
		t.Errorf("expected total 48000.00, got %s", est.TotalCost())
	}
	if !est.TotalWeeks().Equal(dec("10.0")) {
		t.Errorf("expected 10.0 weeks, got %s", est.TotalWeeks())
	}
	if !est.CreatedAt.Equal(fixed) || est.CreatedAt.Location() != time.UTC {
		t.Errorf("expected UTC timestamp for %s, got %s", fixed, est.CreatedAt)
	}

	failed, err := engine.ComputeEstimate(0)
	if !errors.IsType(err, errors.TypeInvalidInput) {
		t.Fatalf("expected INVALID_INPUT, got %v", err)
	}
	if !failed.CreatedAt.IsZero() || failed.Cost.MessageVolume != 0 {
		t.Errorf("expected zero estimate on failure, got %+v", failed)
	}
}

func TestAddonServicePricingSnapshot(t *testing.T) {
	pricing := AddonServicePricing()
	expected := map[AddonService]string{
		HypercareSupport:          "4000.00",
		AdoptionChangeManagement:  "2000.00",
		ApplicationIntegrationDev: "4000.00",
	}
	if len(pricing) != len(expected) {
		t.Fatalf("expected %d services, got %d", len(expected), len(pricing))
	}
	for name, rate := range expected {
		if !pricing[name].Equal(dec(rate)) {
			t.Errorf("%s: expected %s, got %s", name, rate, pricing[name])
		}
	}

	pricing[HypercareSupport] = dec("1")
	delete(pricing, AdoptionChangeManagement)
	pricing["bogus"] = dec("9")

	again := AddonServicePricing()
	if len(again) != 3 || !again[HypercareSupport].Equal(dec("4000.00")) {
		t.Errorf("catalog was mutated through snapshot: %v", again)
	}
	if cost, err := ComputeAddonCost(HypercareSupport, 1); err != nil || !cost.Equal(dec("4000.00")) {
		t.Errorf("catalog rate changed: %s, %v", cost, err)
	}
}

func TestAddonServicesSorted(t *testing.T) {
	names := AddonServices()
	want := []AddonService{AdoptionChangeManagement, ApplicationIntegrationDev, HypercareSupport}
	if len(names) != len(want) {
		t.Fatalf("expected %d names, got %v", len(want), names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], names[i])
		}
	}
}

func TestComputeAddonCost(t *testing.T) {
	tests := []struct {
		name    string
		service AddonService
		weeks   int64
		want    string
		errType errors.Type
	}{
		{name: "hypercare three weeks", service: HypercareSupport, weeks: 3, want: "12000.00"},
		{name: "adoption one week", service: AdoptionChangeManagement, weeks: 1, want: "2000.00"},
		{name: "integration ten weeks", service: ApplicationIntegrationDev, weeks: 10, want: "40000.00"},
		{name: "unknown service", service: "unknown_x", weeks: 3, errType: errors.TypeUnknownService},
		{name: "unknown service checked first", service: "unknown_x", weeks: 0, errType: errors.TypeUnknownService},
		{name: "zero weeks", service: HypercareSupport, weeks: 0, errType: errors.TypeInvalidInput},
		{name: "negative weeks", service: HypercareSupport, weeks: -2, errType: errors.TypeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cost, err := ComputeAddonCost(tt.service, tt.weeks)
			if tt.errType != "" {
				if !errors.IsType(err, tt.errType) {
					t.Fatalf("expected %s, got %v", tt.errType, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !cost.Equal(dec(tt.want)) {
				t.Errorf("expected %s, got %s", tt.want, cost)
			}
		})
	}
}

func TestUnknownServiceNamesKey(t *testing.T) {
	_, err := ComputeAddonCost("unknown_x", 3)
	e, ok := errors.As(err)
	if !ok {
		t.Fatalf("expected domain error, got %T", err)
	}
	if e.Context["service_name"] != "unknown_x" {
		t.Errorf("expected offending key in context, got %v", e.Context)
	}
}

// TestConcurrentUse exercises the engine from many goroutines
func TestConcurrentUse(t *testing.T) {
	engine := NewEngine()
	var wg sync.WaitGroup
	for i := 1; i <= 64; i++ {
		wg.Add(1)
		go func(v int64) {
			defer wg.Done()
			est, err := engine.ComputeEstimate(v * 1_000_000)
			if err != nil {
				t.Errorf("volume %d: %v", v, err)
				return
			}
			if est.Timeline.AdditionalWeeks.IntPart() != est.Cost.AdditionalTiers {
				t.Errorf("volume %d: tiers diverged", v)
			}
			_ = AddonServicePricing()
		}(int64(i))
	}
	wg.Wait()
}
