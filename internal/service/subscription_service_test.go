package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/DOUMBISSS/ged-immo-sub001/internal/domain"
	"github.com/DOUMBISSS/ged-immo-sub001/internal/events"
)

type memSubscriptionRepo struct {
	subs map[string]*domain.Subscription
}

func (r *memSubscriptionRepo) GetByTenant(_ context.Context, tenantID string) (*domain.Subscription, error) {
	sub, ok := r.subs[tenantID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *sub
	return &cp, nil
}

func (r *memSubscriptionRepo) Save(_ context.Context, sub *domain.Subscription) error {
	cp := *sub
	r.subs[sub.TenantID] = &cp
	return nil
}

func (r *memSubscriptionRepo) ListScheduledDue(_ context.Context, now time.Time) ([]*domain.Subscription, error) {
	var due []*domain.Subscription
	for _, sub := range r.subs {
		if sub.ScheduledStart != nil && !sub.ScheduledStart.After(now) {
			cp := *sub
			due = append(due, &cp)
		}
	}
	return due, nil
}

type memRenewalRepo struct {
	reqs map[string]*domain.RenewalRequest
}

func (r *memRenewalRepo) Create(_ context.Context, req *domain.RenewalRequest) error {
	req.ID = uuid.NewString()
	req.CreatedAt = time.Now()
	cp := *req
	r.reqs[req.ID] = &cp
	return nil
}

func (r *memRenewalRepo) GetByID(_ context.Context, id string) (*domain.RenewalRequest, error) {
	req, ok := r.reqs[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *req
	return &cp, nil
}

func (r *memRenewalRepo) ListPendingByTenant(_ context.Context, tenantID string) ([]*domain.RenewalRequest, error) {
	var pending []*domain.RenewalRequest
	for _, req := range r.reqs {
		if req.TenantID == tenantID && req.Status == domain.RenewalPending {
			cp := *req
			pending = append(pending, &cp)
		}
	}
	return pending, nil
}

func (r *memRenewalRepo) MarkDecided(_ context.Context, id string, status domain.RenewalStatus, decidedBy string, decidedAt time.Time) error {
	req, ok := r.reqs[id]
	if !ok || req.Status != domain.RenewalPending {
		return pgx.ErrNoRows
	}
	req.Status = status
	req.DecidedBy = &decidedBy
	req.DecidedAt = &decidedAt
	return nil
}

var serviceNow = time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC)

func newTestSubscriptionService() (*SubscriptionService, *memSubscriptionRepo, *memRenewalRepo) {
	subs := &memSubscriptionRepo{subs: map[string]*domain.Subscription{}}
	renewals := &memRenewalRepo{reqs: map[string]*domain.RenewalRequest{}}
	svc := NewSubscriptionService(subs, renewals, events.NewInMemoryDispatcher(), zap.NewNop(), 12)
	svc.now = func() time.Time { return serviceNow }
	return svc, subs, renewals
}

func storeActiveStandard(subs *memSubscriptionRepo) {
	subs.subs["t1"] = &domain.Subscription{
		ID:       "s1",
		TenantID: "t1",
		Plan:     domain.PlanStandard,
		Start:    time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC),
		End:      time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestGetUnknownTenantReturnsEmptyRecord(t *testing.T) {
	svc, _, _ := newTestSubscriptionService()

	sub, err := svc.Get(context.Background(), "nobody")
	require.NoError(t, err)
	require.Equal(t, "nobody", sub.TenantID)
	require.Equal(t, domain.StateNoSubscription, sub.EffectiveState(serviceNow))
}

func TestRequestRenewalLeavesRecordUntouched(t *testing.T) {
	svc, subs, _ := newTestSubscriptionService()
	storeActiveStandard(subs)

	req, err := svc.RequestRenewal(context.Background(), "t1", domain.PlanPremium, 0, "p1")
	require.NoError(t, err)
	require.Equal(t, domain.RenewalPending, req.Status)
	require.Equal(t, 12, req.Months, "zero months falls back to the default term")

	stored := subs.subs["t1"]
	require.Equal(t, domain.PlanStandard, stored.Plan)
	require.False(t, stored.HasScheduledRenewal())

	pending, err := svc.ListPendingRenewals(context.Background(), "t1")
	require.NoError(t, err)
	require.Len(t, pending, 1)
}

func TestRequestRenewalUnknownPlan(t *testing.T) {
	svc, _, _ := newTestSubscriptionService()

	_, err := svc.RequestRenewal(context.Background(), "t1", "gold", 12, "p1")
	require.Error(t, err)
}

func TestApproveWhileActiveSchedulesAtTermEnd(t *testing.T) {
	svc, subs, _ := newTestSubscriptionService()
	storeActiveStandard(subs)

	req, err := svc.RequestRenewal(context.Background(), "t1", domain.PlanPremium, 12, "p1")
	require.NoError(t, err)

	sub, err := svc.Approve(context.Background(), "t1", req.ID, "op1", false)
	require.NoError(t, err)

	require.Equal(t, domain.PlanStandard, sub.Plan, "live term untouched")
	require.Equal(t, time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC), sub.End)
	require.True(t, sub.HasScheduledRenewal())
	require.Equal(t, domain.PlanPremium, *sub.ScheduledPlan)
	require.Equal(t, sub.End, *sub.ScheduledStart)
	require.Equal(t, sub.End.AddDate(0, 12, 0), *sub.ScheduledEnd)
}

func TestApproveImmediateOverrideReplacesTerm(t *testing.T) {
	svc, subs, _ := newTestSubscriptionService()
	storeActiveStandard(subs)

	req, err := svc.RequestRenewal(context.Background(), "t1", domain.PlanPremium, 6, "p1")
	require.NoError(t, err)

	sub, err := svc.Approve(context.Background(), "t1", req.ID, "op1", true)
	require.NoError(t, err)

	require.Equal(t, domain.PlanPremium, sub.Plan)
	require.Equal(t, serviceNow, sub.Start)
	require.Equal(t, serviceNow.AddDate(0, 6, 0), sub.End)
	require.False(t, sub.HasScheduledRenewal())
}

func TestApproveWhenExpiredStartsImmediately(t *testing.T) {
	svc, subs, _ := newTestSubscriptionService()
	subs.subs["t1"] = &domain.Subscription{
		ID:       "s1",
		TenantID: "t1",
		Plan:     domain.PlanGratuit,
		Start:    time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		End:      time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC),
	}

	req, err := svc.RequestRenewal(context.Background(), "t1", domain.PlanStandard, 12, "p1")
	require.NoError(t, err)

	sub, err := svc.Approve(context.Background(), "t1", req.ID, "op1", false)
	require.NoError(t, err)
	require.Equal(t, domain.PlanStandard, sub.Plan)
	require.Equal(t, serviceNow, sub.Start)
	require.Equal(t, domain.StateActive, sub.EffectiveState(serviceNow))
}

func TestApproveWithoutExistingRecord(t *testing.T) {
	svc, _, _ := newTestSubscriptionService()

	req, err := svc.RequestRenewal(context.Background(), "t9", domain.PlanGratuit, 12, "p1")
	require.NoError(t, err)

	sub, err := svc.Approve(context.Background(), "t9", req.ID, "op1", false)
	require.NoError(t, err)
	require.Equal(t, domain.PlanGratuit, sub.Plan)
	require.Equal(t, domain.StateActive, sub.EffectiveState(serviceNow))
}

func TestApproveTwiceConflicts(t *testing.T) {
	svc, subs, _ := newTestSubscriptionService()
	storeActiveStandard(subs)

	req, err := svc.RequestRenewal(context.Background(), "t1", domain.PlanPremium, 12, "p1")
	require.NoError(t, err)

	_, err = svc.Approve(context.Background(), "t1", req.ID, "op1", false)
	require.NoError(t, err)
	_, err = svc.Approve(context.Background(), "t1", req.ID, "op1", false)
	require.Error(t, err)
}

func TestApproveTenantMismatch(t *testing.T) {
	svc, subs, _ := newTestSubscriptionService()
	storeActiveStandard(subs)

	req, err := svc.RequestRenewal(context.Background(), "t1", domain.PlanPremium, 12, "p1")
	require.NoError(t, err)

	_, err = svc.Approve(context.Background(), "other-tenant", req.ID, "op1", false)
	require.Error(t, err)

	stored := subs.subs["t1"]
	require.False(t, stored.HasScheduledRenewal())
}

func TestRejectKeepsRecordAndClearsPending(t *testing.T) {
	svc, subs, _ := newTestSubscriptionService()
	storeActiveStandard(subs)

	req, err := svc.RequestRenewal(context.Background(), "t1", domain.PlanPremium, 12, "p1")
	require.NoError(t, err)

	require.NoError(t, svc.Reject(context.Background(), "t1", req.ID, "op1"))

	stored := subs.subs["t1"]
	require.Equal(t, domain.PlanStandard, stored.Plan)
	require.False(t, stored.HasScheduledRenewal())

	pending, err := svc.ListPendingRenewals(context.Background(), "t1")
	require.NoError(t, err)
	require.Empty(t, pending)
}

func TestSuspendAndReactivate(t *testing.T) {
	svc, subs, _ := newTestSubscriptionService()
	storeActiveStandard(subs)

	sub, err := svc.Suspend(context.Background(), "t1", "op1")
	require.NoError(t, err)
	require.Equal(t, domain.StateSuspended, sub.EffectiveState(serviceNow))

	sub, err = svc.Reactivate(context.Background(), "t1", "op1")
	require.NoError(t, err)
	require.Equal(t, domain.StateActive, sub.EffectiveState(serviceNow))
}

func TestSuspendUnknownTenant(t *testing.T) {
	svc, _, _ := newTestSubscriptionService()

	_, err := svc.Suspend(context.Background(), "nobody", "op1")
	require.Error(t, err)
}

func TestGetMaterializesDueScheduledRenewal(t *testing.T) {
	svc, subs, _ := newTestSubscriptionService()

	scheduledPlan := domain.PlanPremium
	scheduledStart := time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)
	scheduledEnd := scheduledStart.AddDate(0, 12, 0)
	subs.subs["t1"] = &domain.Subscription{
		ID:             "s1",
		TenantID:       "t1",
		Plan:           domain.PlanStandard,
		Start:          time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC),
		End:            scheduledStart,
		ScheduledPlan:  &scheduledPlan,
		ScheduledStart: &scheduledStart,
		ScheduledEnd:   &scheduledEnd,
	}

	sub, err := svc.Get(context.Background(), "t1")
	require.NoError(t, err)
	require.Equal(t, domain.PlanPremium, sub.Plan)
	require.False(t, sub.HasScheduledRenewal())
	require.Equal(t, domain.StateActive, sub.EffectiveState(serviceNow))

	stored := subs.subs["t1"]
	require.Equal(t, domain.PlanPremium, stored.Plan, "materialized record persisted")
}

func TestActivateDue(t *testing.T) {
	svc, subs, _ := newTestSubscriptionService()

	scheduledPlan := domain.PlanStandard
	dueStart := serviceNow.AddDate(0, -1, 0)
	dueEnd := dueStart.AddDate(0, 12, 0)
	subs.subs["t1"] = &domain.Subscription{
		TenantID:       "t1",
		Plan:           domain.PlanGratuit,
		Start:          dueStart.AddDate(-1, 0, 0),
		End:            dueStart,
		ScheduledPlan:  &scheduledPlan,
		ScheduledStart: &dueStart,
		ScheduledEnd:   &dueEnd,
	}

	futureStart := serviceNow.AddDate(0, 1, 0)
	futureEnd := futureStart.AddDate(0, 12, 0)
	futurePlan := domain.PlanPremium
	subs.subs["t2"] = &domain.Subscription{
		TenantID:       "t2",
		Plan:           domain.PlanStandard,
		Start:          serviceNow.AddDate(-1, 0, 0),
		End:            futureStart,
		ScheduledPlan:  &futurePlan,
		ScheduledStart: &futureStart,
		ScheduledEnd:   &futureEnd,
	}

	activated, err := svc.ActivateDue(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, activated)

	require.Equal(t, domain.PlanStandard, subs.subs["t1"].Plan)
	require.Equal(t, domain.PlanStandard, subs.subs["t2"].Plan)
	require.True(t, subs.subs["t2"].HasScheduledRenewal())
}
