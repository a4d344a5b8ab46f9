package entitlement

import (
	"fmt"
	"time"

	"github.com/DOUMBISSS/ged-immo-sub001/internal/domain"
)

// Action names a gated operation the UI may request authorization for.
type Action string

const (
	ActionCreateProject    Action = "create_project"
	ActionDuplicateProject Action = "duplicate_project"
	ActionInviteUser       Action = "invite_user"
	ActionUploadDocument   Action = "upload_document"
	ActionSignDocument     Action = "sign_document"
	ActionExportData       Action = "export_data"
	ActionSendEmail        Action = "send_email"
	ActionCreateTenant     Action = "create_tenant"
	ActionRecordPayment    Action = "record_payment"
	ActionViewReports      Action = "view_reports"
)

// QuotaKey identifies the numeric quota an action counts against.
type QuotaKey string

const (
	QuotaProjects   QuotaKey = "projects"
	QuotaUsers      QuotaKey = "users"
	QuotaSignatures QuotaKey = "signatures"
	QuotaDocuments  QuotaKey = "documents"
)

// Deny reason codes. Denials are recoverable outcomes, never errors.
const (
	ReasonSubscriptionInactive = "SUBSCRIPTION_INACTIVE"
	ReasonPermissionDenied     = "PERMISSION_DENIED"
	ReasonQuotaExceeded        = "QUOTA_EXCEEDED"
	ReasonFeatureNotInPlan     = "FEATURE_NOT_IN_PLAN"
)

// gate describes what an action requires: a permission, optionally a quota
// and optionally a feature flag.
type gate struct {
	permission domain.Permission
	quota      QuotaKey
	feature    func(PlanLimits) bool
}

var actionGates = map[Action]gate{
	ActionCreateProject:    {permission: PermCreateProjects, quota: QuotaProjects},
	ActionDuplicateProject: {permission: PermCreateProjects, quota: QuotaProjects, feature: func(l PlanLimits) bool { return l.AllowDuplication }},
	ActionInviteUser:       {permission: PermManageUsers, quota: QuotaUsers},
	ActionUploadDocument:   {permission: PermCreateDocuments, quota: QuotaDocuments},
	ActionSignDocument:     {permission: PermSignDocuments, quota: QuotaSignatures},
	ActionExportData:       {permission: PermExportData, feature: func(l PlanLimits) bool { return l.AllowExport }},
	ActionSendEmail:        {permission: PermSendEmails, feature: func(l PlanLimits) bool { return l.AllowEmail }},
	ActionCreateTenant:     {permission: PermCreateTenants},
	ActionRecordPayment:    {permission: PermCreatePayments},
	ActionViewReports:      {permission: PermViewReports},
}

// UnknownActionError indicates an action missing from the gate registry.
type UnknownActionError struct {
	Action Action
}

func (e *UnknownActionError) Error() string {
	return fmt.Sprintf("unknown action %q", e.Action)
}

// Decision is the outcome of an entitlement check. Limit is populated on
// quota denials so the caller can render a precise message.
type Decision struct {
	Allowed bool
	Reason  string
	Limit   int
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(reason string) Decision {
	return Decision{Reason: reason}
}

// QuotaFor reports which quota an action counts against, if any.
func QuotaFor(action Action) (QuotaKey, bool) {
	g, ok := actionGates[action]
	if !ok || g.quota == "" {
		return "", false
	}
	return g.quota, true
}

// Check decides whether the principal may perform the action right now.
// The subscription gate is evaluated before the permission gate: an
// inactive subscription blocks every gated action regardless of role, so a
// suspended tenant cannot bypass suspension through broad permissions.
// usage is the current count against the action's quota, supplied by the
// caller; it is ignored for actions without a quota.
func Check(principal *domain.Principal, sub *domain.Subscription, action Action, usage int, now time.Time) (Decision, error) {
	g, ok := actionGates[action]
	if !ok {
		return Decision{}, &UnknownActionError{Action: action}
	}

	if sub.EffectiveState(now) != domain.StateActive {
		return deny(ReasonSubscriptionInactive), nil
	}

	if principal == nil || !principal.Permissions.Has(g.permission) {
		return deny(ReasonPermissionDenied), nil
	}

	limits, err := LimitsFor(sub.Plan)
	if err != nil {
		return Decision{}, err
	}

	if g.quota != "" {
		limit := quotaLimit(limits, g.quota)
		if usage >= limit {
			d := deny(ReasonQuotaExceeded)
			d.Limit = limit
			return d, nil
		}
	}

	if g.feature != nil && !g.feature(limits) {
		return deny(ReasonFeatureNotInPlan), nil
	}

	return allow(), nil
}

func quotaLimit(limits PlanLimits, key QuotaKey) int {
	switch key {
	case QuotaProjects:
		return limits.MaxProjects
	case QuotaUsers:
		return limits.MaxUsers
	case QuotaSignatures:
		return limits.MaxSignatures
	case QuotaDocuments:
		return limits.MaxDocumentsPerTenant
	default:
		return 0
	}
}
