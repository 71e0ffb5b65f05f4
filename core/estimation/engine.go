package estimation

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"migration-estimator/internal/errors"
)

// TierSize is the number of messages in one billing tier
const TierSize int64 = 3_000_000

var (
	baseCost             = decimal.RequireFromString("35000.00")
	perTierMigrationCost = decimal.RequireFromString("6000.00")
	perTierDataPrepCost  = decimal.RequireFromString("500.00")
	baseWeeks            = decimal.RequireFromString("8.0")

	zeroMoney = decimal.RequireFromString("0.00")
	zeroWeeks = decimal.RequireFromString("0.0")
)

// addonCatalog is built once and never written after package init.
// Access goes through copying accessors only.
var addonCatalog = map[AddonService]decimal.Decimal{
	HypercareSupport:          decimal.RequireFromString("4000.00"),
	AdoptionChangeManagement:  decimal.RequireFromString("2000.00"),
	ApplicationIntegrationDev: decimal.RequireFromString("4000.00"),
}

// additionalTiers is the single source of tier rounding for both cost and
// timeline. A started tier is billed in full.
func additionalTiers(messageVolume int64) int64 {
	if messageVolume <= TierSize {
		return 0
	}
	excess := messageVolume - TierSize
	return (excess + TierSize - 1) / TierSize
}

func checkVolume(messageVolume int64) error {
	if messageVolume <= 0 {
		return errors.InvalidInput("message volume must be positive").
			WithContext("message_volume", messageVolume)
	}
	return nil
}

// ComputeCost prices a migration of messageVolume messages
func ComputeCost(messageVolume int64) (CostBreakdown, error) {
	if err := checkVolume(messageVolume); err != nil {
		return CostBreakdown{}, err
	}

	tiers := additionalTiers(messageVolume)
	if tiers == 0 {
		return CostBreakdown{
			BaseCost:         baseCost,
			AdditionalTiers:  0,
			AddonServiceCost: zeroMoney,
			DataPrepCost:     zeroMoney,
			TotalCost:        baseCost,
			MessageVolume:    messageVolume,
		}, nil
	}

	n := decimal.NewFromInt(tiers)
	addon := perTierMigrationCost.Mul(n)
	prep := perTierDataPrepCost.Mul(n)

	return CostBreakdown{
		BaseCost:         baseCost,
		AdditionalTiers:  tiers,
		AddonServiceCost: addon,
		DataPrepCost:     prep,
		TotalCost:        baseCost.Add(addon).Add(prep),
		MessageVolume:    messageVolume,
	}, nil
}

// ComputeTimeline returns the effort in weeks for messageVolume messages.
// Each additional tier adds exactly one week.
func ComputeTimeline(messageVolume int64) (TimelineBreakdown, error) {
	if err := checkVolume(messageVolume); err != nil {
		return TimelineBreakdown{}, err
	}

	tiers := additionalTiers(messageVolume)
	if tiers == 0 {
		return TimelineBreakdown{
			BaseWeeks:       baseWeeks,
			AdditionalWeeks: zeroWeeks,
			TotalWeeks:      baseWeeks,
		}, nil
	}

	additional := decimal.NewFromInt(tiers)
	return TimelineBreakdown{
		BaseWeeks:       baseWeeks,
		AdditionalWeeks: additional,
		TotalWeeks:      baseWeeks.Add(additional),
	}, nil
}

// AddonServicePricing returns a fresh copy of the weekly rate catalog
func AddonServicePricing() map[AddonService]decimal.Decimal {
	out := make(map[AddonService]decimal.Decimal, len(addonCatalog))
	for name, rate := range addonCatalog {
		out[name] = rate
	}
	return out
}

// AddonServices returns the catalog keys in sorted order
func AddonServices() []AddonService {
	names := make([]AddonService, 0, len(addonCatalog))
	for name := range addonCatalog {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// WeeklyRate looks up a single catalog entry
func WeeklyRate(service AddonService) (decimal.Decimal, error) {
	rate, ok := addonCatalog[service]
	if !ok {
		return decimal.Decimal{}, errors.UnknownService(string(service))
	}
	return rate, nil
}

// ComputeAddonCost prices weeks of an add-on service.
// The service is checked before the week count.
func ComputeAddonCost(service AddonService, weeks int64) (decimal.Decimal, error) {
	rate, err := WeeklyRate(service)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if weeks <= 0 {
		return decimal.Decimal{}, errors.InvalidInput("weeks must be positive").
			WithContext("weeks", weeks)
	}
	return rate.Mul(decimal.NewFromInt(weeks)), nil
}

// Clock supplies estimate timestamps
type Clock func() time.Time

// Engine binds the pure computations to a clock for Estimate timestamps.
// The zero value is not usable; use NewEngine.
type Engine struct {
	now Clock
}

// Option configures an Engine
type Option func(*Engine)

// WithClock overrides the timestamp source
func WithClock(c Clock) Option {
	return func(e *Engine) {
		if c != nil {
			e.now = c
		}
	}
}

// NewEngine creates an engine stamping estimates in UTC
func NewEngine(opts ...Option) *Engine {
	e := &Engine{now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ComputeEstimate computes cost and timeline for the same volume.
// Nothing is returned on failure.
func (e *Engine) ComputeEstimate(messageVolume int64) (Estimate, error) {
	cost, err := ComputeCost(messageVolume)
	if err != nil {
		return Estimate{}, err
	}
	timeline, err := ComputeTimeline(messageVolume)
	if err != nil {
		return Estimate{}, err
	}
	return Estimate{
		Cost:      cost,
		Timeline:  timeline,
		CreatedAt: e.now().UTC(),
	}, nil
}
