package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/DOUMBISSS/ged-immo-sub001/internal/domain"
	"github.com/DOUMBISSS/ged-immo-sub001/internal/entitlement"
	"github.com/DOUMBISSS/ged-immo-sub001/internal/events"
	"github.com/DOUMBISSS/ged-immo-sub001/internal/repository"
	apperrors "github.com/DOUMBISSS/ged-immo-sub001/pkg/util"
)

// SubscriptionService drives the subscription state machine. Writes are
// serialized per tenant so concurrent renewal requests cannot produce
// inconsistent scheduled terms; reads stay lock-free and derive state on
// every call.
type SubscriptionService struct {
	subs       repository.SubscriptionRepository
	renewals   repository.RenewalRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	termMonths int

	mu    sync.Mutex
	locks map[string]*sync.Mutex

	now func() time.Time
}

// NewSubscriptionService builds the service.
func NewSubscriptionService(subs repository.SubscriptionRepository, renewals repository.RenewalRepository, dispatcher events.Dispatcher, logger *zap.Logger, defaultTermMonths int) *SubscriptionService {
	if defaultTermMonths <= 0 {
		defaultTermMonths = 12
	}
	return &SubscriptionService{
		subs:       subs,
		renewals:   renewals,
		dispatcher: dispatcher,
		logger:     logger,
		termMonths: defaultTermMonths,
		locks:      make(map[string]*sync.Mutex),
		now:        time.Now,
	}
}

func (s *SubscriptionService) tenantLock(tenantID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[tenantID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[tenantID] = lock
	}
	return lock
}

// Get returns the tenant's record with any due scheduled renewal
// materialized first. A tenant without a record gets an empty one in
// NoSubscription state.
func (s *SubscriptionService) Get(ctx context.Context, tenantID string) (*domain.Subscription, error) {
	sub, err := s.subs.GetByTenant(ctx, tenantID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return &domain.Subscription{TenantID: tenantID}, nil
		}
		return nil, err
	}
	if sub.Materialize(s.now()) {
		lock := s.tenantLock(tenantID)
		lock.Lock()
		defer lock.Unlock()
		if err := s.subs.Save(ctx, sub); err != nil {
			return nil, err
		}
		s.publishRenewalActivated(ctx, sub)
	}
	return sub, nil
}

// RequestRenewal records a tenant's renewal wish. The record itself is left
// untouched; the outcome is a pending request awaiting operator approval.
func (s *SubscriptionService) RequestRenewal(ctx context.Context, tenantID string, plan domain.SubscriptionPlan, months int, requestedBy string) (*domain.RenewalRequest, error) {
	if _, err := entitlement.LimitsFor(plan); err != nil {
		return nil, err
	}
	if months <= 0 {
		months = s.termMonths
	}

	req := &domain.RenewalRequest{
		TenantID:    tenantID,
		Plan:        plan,
		Months:      months,
		Status:      domain.RenewalPending,
		RequestedBy: requestedBy,
	}
	if err := s.renewals.Create(ctx, req); err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventRenewalRequested, tenantID, events.RenewalPayload{
		RequestID: req.ID,
		Plan:      plan,
		Months:    months,
	})
	s.logger.Info("renewal requested",
		zap.String("tenant_id", tenantID),
		zap.String("plan", string(plan)))
	return req, nil
}

// Approve materializes a pending renewal. While the live term is active the
// renewal is queued to start exactly at the term's end; the live term is
// never shortened or overwritten. With immediate=true an operator overrides
// the queueing and starts the new term now.
func (s *SubscriptionService) Approve(ctx context.Context, tenantID, requestID, operatorID string, immediate bool) (*domain.Subscription, error) {
	lock := s.tenantLock(tenantID)
	lock.Lock()
	defer lock.Unlock()

	req, err := s.renewals.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.TenantID != tenantID {
		return nil, apperrors.NewNotFound("renewal request", map[string]any{"request_id": requestID})
	}
	if req.Status != domain.RenewalPending {
		return nil, apperrors.NewConflict("renewal request already decided", map[string]any{"status": string(req.Status)})
	}

	now := s.now()
	sub, err := s.subs.GetByTenant(ctx, tenantID)
	if err != nil {
		if err != pgx.ErrNoRows {
			return nil, err
		}
		sub = &domain.Subscription{TenantID: tenantID}
	}
	sub.Materialize(now)

	scheduled := false
	if sub.EffectiveState(now) == domain.StateActive && !immediate {
		sub.Schedule(req.Plan, req.Months)
		scheduled = true
	} else {
		sub.StartTerm(req.Plan, now, req.Months)
		sub.Suspended = false
	}

	if err := s.subs.Save(ctx, sub); err != nil {
		return nil, err
	}
	if err := s.renewals.MarkDecided(ctx, requestID, domain.RenewalApproved, operatorID, now); err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventRenewalApproved, tenantID, events.RenewalPayload{
		RequestID: requestID,
		Plan:      req.Plan,
		Months:    req.Months,
		Scheduled: scheduled,
	})
	s.logger.Info("renewal approved",
		zap.String("tenant_id", tenantID),
		zap.String("plan", string(req.Plan)),
		zap.Bool("scheduled", scheduled))
	return sub, nil
}

// Reject declines a pending renewal without touching the record.
func (s *SubscriptionService) Reject(ctx context.Context, tenantID, requestID, operatorID string) error {
	lock := s.tenantLock(tenantID)
	lock.Lock()
	defer lock.Unlock()

	req, err := s.renewals.GetByID(ctx, requestID)
	if err != nil {
		return err
	}
	if req.TenantID != tenantID {
		return apperrors.NewNotFound("renewal request", map[string]any{"request_id": requestID})
	}
	if err := s.renewals.MarkDecided(ctx, requestID, domain.RenewalRejected, operatorID, s.now()); err != nil {
		return err
	}

	s.publish(ctx, events.EventRenewalRejected, tenantID, events.RenewalPayload{
		RequestID: requestID,
		Plan:      req.Plan,
		Months:    req.Months,
	})
	return nil
}

// Suspend flags the record. Dates are untouched; the effective state is
// Suspended regardless of the date range until reactivation.
func (s *SubscriptionService) Suspend(ctx context.Context, tenantID, operatorID string) (*domain.Subscription, error) {
	return s.setSuspended(ctx, tenantID, operatorID, true)
}

// Reactivate clears the suspend flag; the stored dates decide the state again.
func (s *SubscriptionService) Reactivate(ctx context.Context, tenantID, operatorID string) (*domain.Subscription, error) {
	return s.setSuspended(ctx, tenantID, operatorID, false)
}

func (s *SubscriptionService) setSuspended(ctx context.Context, tenantID, operatorID string, suspended bool) (*domain.Subscription, error) {
	lock := s.tenantLock(tenantID)
	lock.Lock()
	defer lock.Unlock()

	sub, err := s.subs.GetByTenant(ctx, tenantID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("subscription", map[string]any{"tenant_id": tenantID})
		}
		return nil, err
	}
	sub.Suspended = suspended
	if err := s.subs.Save(ctx, sub); err != nil {
		return nil, err
	}

	eventType := events.EventSubscriptionReactivated
	if suspended {
		eventType = events.EventSubscriptionSuspended
	}
	s.publish(ctx, eventType, tenantID, events.SubscriptionStatusPayload{
		Plan:      sub.Plan,
		Suspended: suspended,
	})
	s.logger.Info("subscription status changed",
		zap.String("tenant_id", tenantID),
		zap.String("operator_id", operatorID),
		zap.Bool("suspended", suspended))
	return sub, nil
}

// ListPendingRenewals returns a tenant's undecided requests.
func (s *SubscriptionService) ListPendingRenewals(ctx context.Context, tenantID string) ([]*domain.RenewalRequest, error) {
	return s.renewals.ListPendingByTenant(ctx, tenantID)
}

// ActivateDue materializes every scheduled renewal whose start has been
// reached. Called periodically by the renewal worker.
func (s *SubscriptionService) ActivateDue(ctx context.Context) (int, error) {
	now := s.now()
	due, err := s.subs.ListScheduledDue(ctx, now)
	if err != nil {
		return 0, err
	}

	activated := 0
	for _, sub := range due {
		lock := s.tenantLock(sub.TenantID)
		lock.Lock()
		if sub.Materialize(now) {
			if err := s.subs.Save(ctx, sub); err != nil {
				lock.Unlock()
				return activated, err
			}
			s.publishRenewalActivated(ctx, sub)
			activated++
		}
		lock.Unlock()
	}
	return activated, nil
}

func (s *SubscriptionService) publishRenewalActivated(ctx context.Context, sub *domain.Subscription) {
	s.publish(ctx, events.EventRenewalActivated, sub.TenantID, events.SubscriptionStatusPayload{
		Plan:      sub.Plan,
		Suspended: sub.Suspended,
	})
	s.logger.Info("scheduled renewal activated",
		zap.String("tenant_id", sub.TenantID),
		zap.String("plan", string(sub.Plan)))
}

func (s *SubscriptionService) publish(ctx context.Context, eventType events.EventType, tenantID string, payload any) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		TenantID:  tenantID,
		Timestamp: s.now(),
		Payload:   payload,
	})
}
