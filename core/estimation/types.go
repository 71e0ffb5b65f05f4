// Package estimation - Tiered migration cost and effort engine
// Pure functions of message volume. No I/O, no logging, no shared mutable state.
package estimation

import (
	"time"

	"github.com/shopspring/decimal"
)

// CostBreakdown is the priced result for a message volume
type CostBreakdown struct {
	// BaseCost covers the first tier
	BaseCost decimal.Decimal `json:"base_cost"`

	// AdditionalTiers is the number of started tiers beyond the first
	AdditionalTiers int64 `json:"additional_tiers"`

	// AddonServiceCost is the migration execution cost of the additional tiers
	AddonServiceCost decimal.Decimal `json:"addon_service_cost"`

	// DataPrepCost is the data preparation cost of the additional tiers
	DataPrepCost decimal.Decimal `json:"data_prep_cost"`

	// TotalCost = BaseCost + AddonServiceCost + DataPrepCost
	TotalCost decimal.Decimal `json:"total_cost"`

	// MessageVolume is the volume this breakdown was computed for
	MessageVolume int64 `json:"message_volume"`
}

// TimelineBreakdown is the effort, in weeks, for a message volume
type TimelineBreakdown struct {
	BaseWeeks       decimal.Decimal `json:"base_weeks"`
	AdditionalWeeks decimal.Decimal `json:"additional_weeks"`

	// TotalWeeks = BaseWeeks + AdditionalWeeks
	TotalWeeks decimal.Decimal `json:"total_weeks"`
}

// Estimate pairs a cost and a timeline computed for the same volume.
// Values are never mutated after construction.
type Estimate struct {
	Cost      CostBreakdown     `json:"breakdown"`
	Timeline  TimelineBreakdown `json:"timeline"`
	CreatedAt time.Time         `json:"created_at"`
}

// TotalCost is the headline price of the estimate
func (e Estimate) TotalCost() decimal.Decimal {
	return e.Cost.TotalCost
}

// TotalWeeks is the headline effort of the estimate
func (e Estimate) TotalWeeks() decimal.Decimal {
	return e.Timeline.TotalWeeks
}

// AddonService names an optional, separately priced weekly service
type AddonService string

const (
	HypercareSupport          AddonService = "hypercare_support"
	AdoptionChangeManagement  AddonService = "adoption_change_management"
	ApplicationIntegrationDev AddonService = "application_integration_dev"
)

// String returns the catalog key
func (s AddonService) String() string {
	return string(s)
}
