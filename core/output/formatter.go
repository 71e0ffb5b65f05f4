// Package output renders estimates and add-on quotes for humans (cli)
// and machines (json).
package output

import (
	"io"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"migration-estimator/core/estimation"
	"migration-estimator/internal/errors"
)

// Format represents output format type
type Format string

const (
	// FormatCLI is a human-readable CLI table
	FormatCLI Format = "cli"

	// FormatJSON is machine-readable JSON
	FormatJSON Format = "json"
)

// Formatter produces output in a specific format
type Formatter interface {
	// Format returns the format type
	Format() Format

	// RenderEstimate writes a cost and timeline estimate
	RenderEstimate(w io.Writer, est EstimateView) error

	// RenderCatalog writes the add-on price list
	RenderCatalog(w io.Writer, catalog []AddonRate) error

	// RenderQuote writes the cost of one add-on service
	RenderQuote(w io.Writer, quote AddonQuote) error
}

// New returns the formatter for format
func New(format Format) (Formatter, error) {
	switch format {
	case FormatCLI, "":
		return &CLIFormatter{}, nil
	case FormatJSON:
		return &JSONFormatter{Indent: "  "}, nil
	default:
		return nil, errors.Newf(errors.TypeValidation, "unknown output format: %q (want cli or json)", format)
	}
}

// Money renders d with exactly two decimals
func Money(d decimal.Decimal) string { return d.StringFixed(2) }

// Weeks renders d with exactly one decimal
func Weeks(d decimal.Decimal) string { return d.StringFixed(1) }

// CostView is a CostBreakdown with fixed 2-decimal money strings
type CostView struct {
	BaseCost         string `json:"base_cost"`
	AdditionalTiers  int64  `json:"additional_tiers"`
	AddonServiceCost string `json:"addon_service_cost"`
	DataPrepCost     string `json:"data_prep_cost"`
	TotalCost        string `json:"total_cost"`
	MessageVolume    int64  `json:"message_volume"`
}

// TimelineView is a TimelineBreakdown with fixed 1-decimal week strings
type TimelineView struct {
	BaseWeeks       string `json:"base_weeks"`
	AdditionalWeeks string `json:"additional_weeks"`
	TotalWeeks      string `json:"total_weeks"`
}

// EstimateView is the rendered form of an Estimate
type EstimateView struct {
	Cost          string       `json:"cost"`
	EffortWeeks   string       `json:"effort_weeks"`
	TimelineWeeks string       `json:"timeline_weeks"`
	Breakdown     CostView     `json:"breakdown"`
	Timeline      TimelineView `json:"timeline"`
	CreatedAt     time.Time    `json:"created_at"`
}

// NewEstimateView renders est
func NewEstimateView(est estimation.Estimate) EstimateView {
	c, tl := est.Cost, est.Timeline
	return EstimateView{
		Cost:          Money(est.TotalCost()),
		EffortWeeks:   Weeks(est.TotalWeeks()),
		TimelineWeeks: Weeks(est.TotalWeeks()),
		Breakdown: CostView{
			BaseCost:         Money(c.BaseCost),
			AdditionalTiers:  c.AdditionalTiers,
			AddonServiceCost: Money(c.AddonServiceCost),
			DataPrepCost:     Money(c.DataPrepCost),
			TotalCost:        Money(c.TotalCost),
			MessageVolume:    c.MessageVolume,
		},
		Timeline: TimelineView{
			BaseWeeks:       Weeks(tl.BaseWeeks),
			AdditionalWeeks: Weeks(tl.AdditionalWeeks),
			TotalWeeks:      Weeks(tl.TotalWeeks),
		},
		CreatedAt: est.CreatedAt.UTC(),
	}
}

// AddonRate is one catalog entry
type AddonRate struct {
	ServiceName string `json:"service_name"`
	WeeklyRate  string `json:"weekly_rate"`
}

// NewCatalog renders a pricing snapshot sorted by service name
func NewCatalog(pricing map[estimation.AddonService]decimal.Decimal) []AddonRate {
	rates := make([]AddonRate, 0, len(pricing))
	for name, rate := range pricing {
		rates = append(rates, AddonRate{ServiceName: name.String(), WeeklyRate: Money(rate)})
	}
	sort.Slice(rates, func(i, j int) bool { return rates[i].ServiceName < rates[j].ServiceName })
	return rates
}

// AddonQuote is the cost of one add-on service for a number of weeks
type AddonQuote struct {
	ServiceName string `json:"service_name"`
	Weeks       int64  `json:"weeks"`
	WeeklyRate  string `json:"weekly_rate"`
	TotalCost   string `json:"total_cost"`
}

// Quote prices service for weeks
func Quote(service estimation.AddonService, weeks int64) (AddonQuote, error) {
	total, err := estimation.ComputeAddonCost(service, weeks)
	if err != nil {
		return AddonQuote{}, err
	}
	rate, err := estimation.WeeklyRate(service)
	if err != nil {
		return AddonQuote{}, err
	}
	return AddonQuote{
		ServiceName: service.String(),
		Weeks:       weeks,
		WeeklyRate:  Money(rate),
		TotalCost:   Money(total),
	}, nil
}
