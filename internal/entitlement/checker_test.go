package entitlement

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/DOUMBISSS/ged-immo-sub001/internal/domain"
)

var checkNow = time.Date(2025, time.May, 15, 12, 0, 0, 0, time.UTC)

func principalWithRole(t *testing.T, role domain.Role) *domain.Principal {
	t.Helper()
	set, err := NewSetForRole(role)
	require.NoError(t, err)
	return &domain.Principal{ID: "p1", TenantID: "t1", Role: role, Permissions: set}
}

func activeSub(plan domain.SubscriptionPlan) *domain.Subscription {
	return &domain.Subscription{
		TenantID: "t1",
		Plan:     plan,
		Start:    checkNow.AddDate(0, -1, 0),
		End:      checkNow.AddDate(0, 11, 0),
	}
}

func TestCheckSubscriptionGateComesFirst(t *testing.T) {
	admin := principalWithRole(t, domain.RoleAdmin)

	expired := activeSub(domain.PlanPremium)
	expired.End = checkNow.AddDate(0, -1, 0)

	decision, err := Check(admin, expired, ActionCreateProject, 0, checkNow)
	require.NoError(t, err)
	require.False(t, decision.Allowed)
	require.Equal(t, ReasonSubscriptionInactive, decision.Reason)

	suspended := activeSub(domain.PlanPremium)
	suspended.Suspended = true
	decision, err = Check(admin, suspended, ActionCreateProject, 0, checkNow)
	require.NoError(t, err)
	require.Equal(t, ReasonSubscriptionInactive, decision.Reason)

	decision, err = Check(admin, &domain.Subscription{TenantID: "t1"}, ActionCreateProject, 0, checkNow)
	require.NoError(t, err)
	require.Equal(t, ReasonSubscriptionInactive, decision.Reason)
}

func TestCheckPermissionGate(t *testing.T) {
	auditor := principalWithRole(t, domain.RoleAuditor)

	decision, err := Check(auditor, activeSub(domain.PlanPremium), ActionCreateProject, 0, checkNow)
	require.NoError(t, err)
	require.False(t, decision.Allowed)
	require.Equal(t, ReasonPermissionDenied, decision.Reason)

	decision, err = Check(auditor, activeSub(domain.PlanPremium), ActionViewReports, 0, checkNow)
	require.NoError(t, err)
	require.True(t, decision.Allowed)
}

func TestCheckQuotaGate(t *testing.T) {
	admin := principalWithRole(t, domain.RoleAdmin)
	sub := activeSub(domain.PlanGratuit)

	decision, err := Check(admin, sub, ActionCreateProject, 2, checkNow)
	require.NoError(t, err)
	require.True(t, decision.Allowed)

	decision, err = Check(admin, sub, ActionCreateProject, 3, checkNow)
	require.NoError(t, err)
	require.False(t, decision.Allowed)
	require.Equal(t, ReasonQuotaExceeded, decision.Reason)
	require.Equal(t, 3, decision.Limit)
}

func TestCheckFeatureGate(t *testing.T) {
	admin := principalWithRole(t, domain.RoleAdmin)

	decision, err := Check(admin, activeSub(domain.PlanGratuit), ActionExportData, 0, checkNow)
	require.NoError(t, err)
	require.False(t, decision.Allowed)
	require.Equal(t, ReasonFeatureNotInPlan, decision.Reason)

	decision, err = Check(admin, activeSub(domain.PlanStandard), ActionSendEmail, 0, checkNow)
	require.NoError(t, err)
	require.Equal(t, ReasonFeatureNotInPlan, decision.Reason)

	decision, err = Check(admin, activeSub(domain.PlanPremium), ActionSendEmail, 0, checkNow)
	require.NoError(t, err)
	require.True(t, decision.Allowed)
}

func TestCheckActionsWithoutQuotaIgnoreUsage(t *testing.T) {
	agent := principalWithRole(t, domain.RoleAgent)

	decision, err := Check(agent, activeSub(domain.PlanGratuit), ActionRecordPayment, 999999, checkNow)
	require.NoError(t, err)
	require.True(t, decision.Allowed)
}

func TestCheckUnknownActionIsError(t *testing.T) {
	admin := principalWithRole(t, domain.RoleAdmin)

	_, err := Check(admin, activeSub(domain.PlanPremium), "teleport", 0, checkNow)
	require.Error(t, err)

	var unknownAction *UnknownActionError
	require.True(t, errors.As(err, &unknownAction))
}

func TestCheckUnknownPlanIsError(t *testing.T) {
	admin := principalWithRole(t, domain.RoleAdmin)
	sub := activeSub("gold")

	_, err := Check(admin, sub, ActionCreateProject, 0, checkNow)
	require.Error(t, err)

	var unknownPlan *UnknownPlanError
	require.True(t, errors.As(err, &unknownPlan))
}
