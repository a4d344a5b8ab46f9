package domain

import "time"

// SubscriptionPlan identifies one of the closed set of commercial plans.
type SubscriptionPlan string

const (
	PlanGratuit  SubscriptionPlan = "gratuit"
	PlanStandard SubscriptionPlan = "standard"
	PlanPremium  SubscriptionPlan = "premium"
)

// SubscriptionState is the effective status of a subscription, always
// derived from the stored dates and suspend flag, never cached.
type SubscriptionState string

const (
	StateNoSubscription SubscriptionState = "NO_SUBSCRIPTION"
	StateActive         SubscriptionState = "ACTIVE"
	StateSuspended      SubscriptionState = "SUSPENDED"
	StateExpired        SubscriptionState = "EXPIRED"
)

// Subscription is the one-per-tenant subscription record. A renewal queued
// while the current term runs is held in the Scheduled* fields and never
// touches the live term.
type Subscription struct {
	ID             string
	TenantID       string
	Plan           SubscriptionPlan
	Start          time.Time
	End            time.Time
	Suspended      bool
	ScheduledPlan  *SubscriptionPlan
	ScheduledStart *time.Time
	ScheduledEnd   *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// EffectiveState derives the current status. Suspension dominates the date
// range checks.
func (s *Subscription) EffectiveState(now time.Time) SubscriptionState {
	if s == nil || s.Start.IsZero() {
		return StateNoSubscription
	}
	if s.Suspended {
		return StateSuspended
	}
	if now.After(s.End) {
		return StateExpired
	}
	if !now.Before(s.Start) {
		return StateActive
	}
	return StateNoSubscription
}

// HasScheduledRenewal reports whether a future plan change is queued.
func (s *Subscription) HasScheduledRenewal() bool {
	return s != nil && s.ScheduledPlan != nil && s.ScheduledStart != nil
}

// Materialize promotes a due scheduled renewal into the live term. It
// returns true when the record changed.
func (s *Subscription) Materialize(now time.Time) bool {
	if !s.HasScheduledRenewal() || now.Before(*s.ScheduledStart) {
		return false
	}
	s.Plan = *s.ScheduledPlan
	s.Start = *s.ScheduledStart
	if s.ScheduledEnd != nil {
		s.End = *s.ScheduledEnd
	}
	s.ScheduledPlan = nil
	s.ScheduledStart = nil
	s.ScheduledEnd = nil
	return true
}

// Schedule queues a renewal starting the moment the live term ends.
func (s *Subscription) Schedule(plan SubscriptionPlan, months int) {
	start := s.End
	end := start.AddDate(0, months, 0)
	s.ScheduledPlan = &plan
	s.ScheduledStart = &start
	s.ScheduledEnd = &end
}

// StartTerm replaces the live term immediately. Used when no term is in
// force or an operator forces an immediate renewal.
func (s *Subscription) StartTerm(plan SubscriptionPlan, now time.Time, months int) {
	s.Plan = plan
	s.Start = now
	s.End = now.AddDate(0, months, 0)
	s.ScheduledPlan = nil
	s.ScheduledStart = nil
	s.ScheduledEnd = nil
}
