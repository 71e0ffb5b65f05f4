package types

import "github.com/shopspring/decimal"

// StakeholderContact is an additional person involved in the migration
type StakeholderContact struct {
	Email string `json:"email" validate:"required,email"`
	Title string `json:"title" validate:"required"`
	Phone string `json:"phone" validate:"required"`
}

// CustomerInfo is step one of the questionnaire
type CustomerInfo struct {
	CompanyName         string               `json:"company_name" validate:"required,max=255"`
	ContactName         string               `json:"contact_name" validate:"required,max=255"`
	Email               string               `json:"email" validate:"required,email"`
	Phone               string               `json:"phone" validate:"required,max=50"`
	ProjectLead         string               `json:"project_lead" validate:"required,max=255"`
	ITContact           string               `json:"it_contact" validate:"required,max=255"`
	RoughBudget         decimal.Decimal      `json:"rough_budget" validate:"gt=0"`
	IdealTimeline       string               `json:"ideal_timeline" validate:"required,datetime=2006-01-02"`
	OtherStakeholders   string               `json:"other_stakeholders" validate:"required,oneof=yes no"`
	StakeholderContacts []StakeholderContact `json:"stakeholder_contacts,omitempty" validate:"required_if=OtherStakeholders yes,dive"`
	SlackRenewal        string               `json:"slack_renewal" validate:"required"`
	SlackCancellation   string               `json:"slack_cancellation" validate:"required"`
	TotalLicenses       int                  `json:"total_licenses" validate:"gt=0"`
	CollaborationScope  string               `json:"collaboration_scope" validate:"required,oneof='Internal only' 'External via Slack Connect' 'Both'"`
	SupportExternalUse  string               `json:"support_external_usecases,omitempty" validate:"omitempty,oneof='Support in Teams' 'Continue Slack'"`
	OtherCollabTools    []string             `json:"other_collab_tools" validate:"required,min=1"`
}

// TechnicalDetails is step two of the questionnaire. MessageVolume drives
// the estimate; the rest is stored for the sales team.
type TechnicalDetails struct {
	ADIntegration           string   `json:"ad_integration" validate:"required,oneof=yes no"`
	O365UserAssumption      string   `json:"o365_user_assumption,omitempty" validate:"required_if=ADIntegration no,omitempty,oneof=yes no"`
	AnalyticsReportFilename string   `json:"analytics_report_filename" validate:"required"`
	MessageVolume           int64    `json:"message_volume" validate:"gt=0"`
	MigrationCriteria       string   `json:"migration_criteria" validate:"required"`
	InstalledApps           string   `json:"installed_apps" validate:"required"`
	CustomApps              []string `json:"custom_apps" validate:"required,min=1"`
	CustomAppDetails        string   `json:"custom_app_details,omitempty"`
	ThirdPartyApps          []string `json:"third_party_apps" validate:"required,min=1"`
	ThirdPartyAppDetails    string   `json:"third_party_app_details,omitempty"`
	Integrations            string   `json:"integrations" validate:"required"`
	GovernancePolicy        string   `json:"governance_policy" validate:"required"`
	ContentRestrictions     string   `json:"content_restrictions" validate:"required"`
	EnterpriseSearch        string   `json:"enterprise_search" validate:"required"`
	UsagePattern            string   `json:"usage_pattern" validate:"required"`
	O365CurrentUsage        string   `json:"o365_current_usage" validate:"required,oneof=E1 E3 E5 F1 F3 'Business Basic' 'Business Standard' 'Business Premium' None"`
	SlackCanvasUsage        string   `json:"slack_canvas_usage,omitempty"`
	SlackListsUsage         string   `json:"slack_lists_usage,omitempty"`
}

// SubmissionForm is the complete questionnaire
type SubmissionForm struct {
	CustomerInfo     CustomerInfo     `json:"customer_info"`
	TechnicalDetails TechnicalDetails `json:"technical_details"`
}
