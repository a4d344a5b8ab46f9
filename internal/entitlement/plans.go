package entitlement

import (
	"fmt"

	"github.com/DOUMBISSS/ged-immo-sub001/internal/domain"
)

// PlanLimits bundles the numeric quotas and feature flags a plan grants.
type PlanLimits struct {
	MaxProjects           int
	MaxUsers              int
	MaxSignatures         int
	MaxDocumentsPerTenant int
	MaxFileSizeMB         int
	AllowExport           bool
	AllowDuplication      bool
	AllowEmail            bool
}

// planLimits is the single registry of plan grants. The same table used to
// be duplicated as ad hoc literals across UI files; it lives only here now.
var planLimits = map[domain.SubscriptionPlan]PlanLimits{
	domain.PlanGratuit: {
		MaxProjects:           3,
		MaxUsers:              1,
		MaxSignatures:         5,
		MaxDocumentsPerTenant: 10,
		MaxFileSizeMB:         5,
		AllowExport:           false,
		AllowDuplication:      false,
		AllowEmail:            false,
	},
	domain.PlanStandard: {
		MaxProjects:           25,
		MaxUsers:              10,
		MaxSignatures:         100,
		MaxDocumentsPerTenant: 200,
		MaxFileSizeMB:         25,
		AllowExport:           true,
		AllowDuplication:      true,
		AllowEmail:            false,
	},
	domain.PlanPremium: {
		MaxProjects:           200,
		MaxUsers:              50,
		MaxSignatures:         1000,
		MaxDocumentsPerTenant: 2000,
		MaxFileSizeMB:         100,
		AllowExport:           true,
		AllowDuplication:      true,
		AllowEmail:            true,
	},
}

// UnknownPlanError indicates a plan identifier absent from the registry.
// Silently defaulting could under- or over-grant paid features, so this is
// always a hard failure.
type UnknownPlanError struct {
	Plan domain.SubscriptionPlan
}

func (e *UnknownPlanError) Error() string {
	return fmt.Sprintf("unknown subscription plan %q", e.Plan)
}

// LimitsFor resolves the quotas and flags for a plan.
func LimitsFor(plan domain.SubscriptionPlan) (PlanLimits, error) {
	limits, ok := planLimits[plan]
	if !ok {
		return PlanLimits{}, &UnknownPlanError{Plan: plan}
	}
	return limits, nil
}

// Plans returns the known plan identifiers.
func Plans() []domain.SubscriptionPlan {
	plans := make([]domain.SubscriptionPlan, 0, len(planLimits))
	for plan := range planLimits {
		plans = append(plans, plan)
	}
	return plans
}
