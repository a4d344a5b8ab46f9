package service

import (
	"context"
	"time"

	"github.com/DOUMBISSS/ged-immo-sub001/internal/domain"
	"github.com/DOUMBISSS/ged-immo-sub001/internal/entitlement"
	"github.com/DOUMBISSS/ged-immo-sub001/internal/repository"
)

// EntitlementService answers "may this principal do X right now". It loads
// the tenant's subscription, resolves quota usage when the caller did not
// supply it, and delegates the decision to the pure checker.
type EntitlementService struct {
	subscriptions *SubscriptionService
	usage         repository.UsageRepository

	now func() time.Time
}

// NewEntitlementService builds the service.
func NewEntitlementService(subscriptions *SubscriptionService, usage repository.UsageRepository) *EntitlementService {
	return &EntitlementService{
		subscriptions: subscriptions,
		usage:         usage,
		now:           time.Now,
	}
}

// Check runs the ordered entitlement decision for a principal. usage may be
// nil, in which case the tracked counter for the action's quota is used.
func (s *EntitlementService) Check(ctx context.Context, principal *domain.Principal, action entitlement.Action, usage *int) (entitlement.Decision, error) {
	sub, err := s.subscriptions.Get(ctx, principal.TenantID)
	if err != nil {
		return entitlement.Decision{}, err
	}

	count := 0
	if usage != nil {
		count = *usage
	} else if quota, ok := entitlement.QuotaFor(action); ok && s.usage != nil {
		tracked, err := s.usage.Get(ctx, principal.TenantID, string(quota))
		if err != nil {
			return entitlement.Decision{}, err
		}
		count = int(tracked)
	}

	return entitlement.Check(principal, sub, action, count, s.now())
}

// ResolvedPermissions returns the principal's permissions with display
// labels for the UI.
func (s *EntitlementService) ResolvedPermissions(principal *domain.Principal) map[domain.Permission]string {
	out := make(map[domain.Permission]string, len(principal.Permissions))
	for _, p := range principal.Permissions.List() {
		out[p] = entitlement.Label(p)
	}
	return out
}
