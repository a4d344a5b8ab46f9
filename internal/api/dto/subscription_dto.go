package dto

import "time"

// RenewRequest payload for self-service renewal.
type RenewRequest struct {
	Plan   string `json:"plan"`
	Months int    `json:"months"`
}

// ApproveRequest payload for operator approval.
type ApproveRequest struct {
	Immediate bool `json:"immediate"`
}

// RenewalResponse describes a renewal request.
type RenewalResponse struct {
	ID        string     `json:"id"`
	Plan      string     `json:"plan"`
	Months    int        `json:"months"`
	Status    string     `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	DecidedAt *time.Time `json:"decided_at,omitempty"`
}

// SubscriptionResponse describes the record plus derived state and limits.
type SubscriptionResponse struct {
	TenantID       string      `json:"tenant_id"`
	Plan           string      `json:"plan,omitempty"`
	State          string      `json:"state"`
	Start          *time.Time  `json:"subscription_start,omitempty"`
	End            *time.Time  `json:"subscription_end,omitempty"`
	Suspended      bool        `json:"suspended"`
	ScheduledPlan  *string     `json:"scheduled_plan,omitempty"`
	ScheduledStart *time.Time  `json:"scheduled_start,omitempty"`
	Limits         *PlanLimits `json:"limits,omitempty"`
}

// PlanLimits mirrors the catalog limits for transport.
type PlanLimits struct {
	MaxProjects           int  `json:"max_projects"`
	MaxUsers              int  `json:"max_users"`
	MaxSignatures         int  `json:"max_signatures"`
	MaxDocumentsPerTenant int  `json:"max_documents_per_tenant"`
	MaxFileSizeMB         int  `json:"max_file_size_mb"`
	AllowExport           bool `json:"allow_export"`
	AllowDuplication      bool `json:"allow_duplication"`
	AllowEmail            bool `json:"allow_email"`
}
