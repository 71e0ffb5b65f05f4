// Package testutil holds shared fixtures for package tests.
package testutil

import (
	"github.com/shopspring/decimal"

	"migration-estimator/core/types"
)

// ValidForm returns a questionnaire that passes validation
func ValidForm(messageVolume int64) types.SubmissionForm {
	return types.SubmissionForm{
		CustomerInfo: types.CustomerInfo{
			CompanyName:        "Acme Corp",
			ContactName:        "Jordan Lee",
			Email:              "jordan@acme.example",
			Phone:              "+1 555 0100",
			ProjectLead:        "Sam Patel",
			ITContact:          "it@acme.example",
			RoughBudget:        decimal.NewFromInt(50000),
			IdealTimeline:      "2026-12-01",
			OtherStakeholders:  "no",
			SlackRenewal:       "2027-01-15",
			SlackCancellation:  "60 days notice",
			TotalLicenses:      1200,
			CollaborationScope: "Internal only",
			OtherCollabTools:   []string{"Zoom"},
		},
		TechnicalDetails: types.TechnicalDetails{
			ADIntegration:           "yes",
			AnalyticsReportFilename: "analytics.csv",
			MessageVolume:           messageVolume,
			MigrationCriteria:       "all public channels",
			InstalledApps:           "Jira, GitHub",
			CustomApps:              []string{"deploy-bot"},
			ThirdPartyApps:          []string{"Jira"},
			Integrations:            "webhooks",
			GovernancePolicy:        "7 year retention",
			ContentRestrictions:     "none",
			EnterpriseSearch:        "enabled",
			UsagePattern:            "business hours",
			O365CurrentUsage:        "E3",
		},
	}
}
