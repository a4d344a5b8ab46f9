package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestEffectiveStateDerivation(t *testing.T) {
	now := date(2025, time.May, 15)

	var nilSub *Subscription
	require.Equal(t, StateNoSubscription, nilSub.EffectiveState(now))
	require.Equal(t, StateNoSubscription, (&Subscription{TenantID: "t1"}).EffectiveState(now))

	active := &Subscription{Plan: PlanStandard, Start: date(2025, time.January, 1), End: date(2025, time.June, 1)}
	require.Equal(t, StateActive, active.EffectiveState(now))

	expired := &Subscription{Plan: PlanStandard, Start: date(2024, time.January, 1), End: date(2024, time.December, 31)}
	require.Equal(t, StateExpired, expired.EffectiveState(now))

	future := &Subscription{Plan: PlanStandard, Start: date(2025, time.July, 1), End: date(2026, time.July, 1)}
	require.Equal(t, StateNoSubscription, future.EffectiveState(now))
}

func TestEffectiveStateSuspensionDominates(t *testing.T) {
	now := date(2025, time.May, 15)

	suspendedActive := &Subscription{Plan: PlanPremium, Start: date(2025, time.January, 1), End: date(2025, time.June, 1), Suspended: true}
	require.Equal(t, StateSuspended, suspendedActive.EffectiveState(now))

	suspendedExpired := &Subscription{Plan: PlanPremium, Start: date(2024, time.January, 1), End: date(2024, time.June, 1), Suspended: true}
	require.Equal(t, StateSuspended, suspendedExpired.EffectiveState(now))
}

func TestScheduleNeverTouchesLiveTerm(t *testing.T) {
	sub := &Subscription{
		TenantID: "t1",
		Plan:     PlanStandard,
		Start:    date(2024, time.June, 1),
		End:      date(2025, time.June, 1),
	}

	sub.Schedule(PlanPremium, 12)

	require.Equal(t, PlanStandard, sub.Plan)
	require.Equal(t, date(2025, time.June, 1), sub.End)
	require.True(t, sub.HasScheduledRenewal())
	require.Equal(t, PlanPremium, *sub.ScheduledPlan)
	require.Equal(t, date(2025, time.June, 1), *sub.ScheduledStart)
	require.Equal(t, date(2026, time.June, 1), *sub.ScheduledEnd)
	require.Equal(t, StateActive, sub.EffectiveState(date(2025, time.May, 1)))
}

func TestMaterializeOnlyWhenDue(t *testing.T) {
	sub := &Subscription{
		TenantID: "t1",
		Plan:     PlanStandard,
		Start:    date(2024, time.June, 1),
		End:      date(2025, time.June, 1),
	}
	sub.Schedule(PlanPremium, 12)

	require.False(t, sub.Materialize(date(2025, time.May, 15)))
	require.Equal(t, PlanStandard, sub.Plan)

	require.True(t, sub.Materialize(date(2025, time.June, 2)))
	require.Equal(t, PlanPremium, sub.Plan)
	require.Equal(t, date(2025, time.June, 1), sub.Start)
	require.Equal(t, date(2026, time.June, 1), sub.End)
	require.False(t, sub.HasScheduledRenewal())

	require.False(t, sub.Materialize(date(2025, time.June, 3)))
}

func TestStartTermReplacesEverything(t *testing.T) {
	sub := &Subscription{
		TenantID: "t1",
		Plan:     PlanGratuit,
		Start:    date(2024, time.January, 1),
		End:      date(2024, time.December, 31),
	}
	sub.Schedule(PlanStandard, 6)

	now := date(2025, time.March, 10)
	sub.StartTerm(PlanPremium, now, 12)

	require.Equal(t, PlanPremium, sub.Plan)
	require.Equal(t, now, sub.Start)
	require.Equal(t, date(2026, time.March, 10), sub.End)
	require.False(t, sub.HasScheduledRenewal())
	require.Equal(t, StateActive, sub.EffectiveState(now))
}
