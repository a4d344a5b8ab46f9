package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/DOUMBISSS/ged-immo-sub001/internal/domain"
	"github.com/DOUMBISSS/ged-immo-sub001/internal/events"
)

type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

type fakeTimer struct {
	clock   *fakeClock
	when    time.Time
	fn      func()
	fired   bool
	stopped bool
}

func newFakeClock(start time.Time) *fakeClock {
	return &fakeClock{now: start}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, when: c.now.Add(d), fn: f}
	c.timers = append(c.timers, t)
	return t
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	return true
}

// Advance moves the clock forward, firing due timers in deadline order.
// Callbacks run without the clock lock held so they may schedule new timers.
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	c.mu.Unlock()

	for {
		c.mu.Lock()
		var next *fakeTimer
		for _, t := range c.timers {
			if t.fired || t.stopped || t.when.After(target) {
				continue
			}
			if next == nil || t.when.Before(next.when) {
				next = t
			}
		}
		if next == nil {
			c.now = target
			c.mu.Unlock()
			return
		}
		if next.when.After(c.now) {
			c.now = next.when
		}
		next.fired = true
		fn := next.fn
		c.mu.Unlock()
		fn()
	}
}

type eventRecorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *eventRecorder) record(_ context.Context, event events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *eventRecorder) byType(eventType events.EventType) []events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []events.Event
	for _, e := range r.events {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

func newTestManager(t *testing.T) (*Manager, *fakeClock, *eventRecorder) {
	t.Helper()
	clock := newFakeClock(time.Date(2025, time.May, 15, 9, 0, 0, 0, time.UTC))
	recorder := &eventRecorder{}
	dispatcher := events.NewInMemoryDispatcher()
	dispatcher.Subscribe(events.EventSessionWarning, recorder.record)
	dispatcher.Subscribe(events.EventSessionExpired, recorder.record)
	dispatcher.Subscribe(events.EventSessionClosed, recorder.record)
	return NewManager(clock, time.Hour, time.Minute, dispatcher, zap.NewNop()), clock, recorder
}

func testIdentity() Identity {
	return Identity{Subject: domain.SubjectTypePrincipal, SubjectID: "p1", TenantID: "t1"}
}

func TestLoginAndResolve(t *testing.T) {
	mgr, clock, _ := newTestManager(t)

	sess := mgr.Login(testIdentity())
	require.NotEmpty(t, sess.Token)
	require.Equal(t, clock.Now().Add(time.Hour), sess.ExpiresAt)

	resolved, err := mgr.Resolve(sess.Token)
	require.NoError(t, err)
	require.Equal(t, sess.Token, resolved.Token)

	_, err = mgr.Resolve("no-such-token")
	require.ErrorIs(t, err, ErrSessionNotFound)
}

func TestWarningFiresBeforeExpiry(t *testing.T) {
	mgr, clock, recorder := newTestManager(t)
	sess := mgr.Login(testIdentity())

	clock.Advance(59 * time.Minute)

	status, err := mgr.Status(sess.Token)
	require.NoError(t, err)
	require.Equal(t, PhaseWarning, status.Phase)
	require.True(t, status.Warning)
	require.Equal(t, 60, status.RemainingSeconds)

	warnings := recorder.byType(events.EventSessionWarning)
	require.Len(t, warnings, 1)
	payload, ok := warnings[0].Payload.(events.SessionWarningPayload)
	require.True(t, ok)
	require.Equal(t, 60, payload.RemainingSeconds)
}

func TestSessionExpiresAtZero(t *testing.T) {
	mgr, clock, recorder := newTestManager(t)
	sess := mgr.Login(testIdentity())

	clock.Advance(time.Hour)

	_, err := mgr.Resolve(sess.Token)
	require.ErrorIs(t, err, ErrSessionExpired)
	require.Len(t, recorder.byType(events.EventSessionExpired), 1)
}

func TestLogoutCancelsPendingExpiry(t *testing.T) {
	mgr, clock, recorder := newTestManager(t)
	sess := mgr.Login(testIdentity())

	clock.Advance(50 * time.Minute)
	mgr.Logout(sess.Token)

	clock.Advance(time.Hour)

	_, err := mgr.Resolve(sess.Token)
	require.ErrorIs(t, err, ErrSessionNotFound)
	require.Empty(t, recorder.byType(events.EventSessionExpired))

	closed := recorder.byType(events.EventSessionClosed)
	require.Len(t, closed, 1)
	payload, ok := closed[0].Payload.(events.SessionClosedPayload)
	require.True(t, ok)
	require.Equal(t, "logout", payload.Reason)
}

func TestLogoutDuringWarningCancelsCountdown(t *testing.T) {
	mgr, clock, recorder := newTestManager(t)
	sess := mgr.Login(testIdentity())

	clock.Advance(59*time.Minute + 30*time.Second)

	status, err := mgr.Status(sess.Token)
	require.NoError(t, err)
	require.Equal(t, PhaseWarning, status.Phase)

	mgr.Logout(sess.Token)
	clock.Advance(time.Hour)

	require.Empty(t, recorder.byType(events.EventSessionExpired))
}

func TestLogoutUnknownTokenIsNoop(t *testing.T) {
	mgr, _, recorder := newTestManager(t)
	mgr.Logout("no-such-token")
	require.Empty(t, recorder.events)
}

func TestReloginReplacesExistingSession(t *testing.T) {
	mgr, clock, _ := newTestManager(t)

	first := mgr.Login(testIdentity())
	second := mgr.Login(testIdentity())
	require.NotEqual(t, first.Token, second.Token)

	_, err := mgr.Resolve(first.Token)
	require.ErrorIs(t, err, ErrSessionNotFound)

	// the first session's timers must not fire against the second session
	clock.Advance(time.Hour + time.Minute)
	_, err = mgr.Resolve(second.Token)
	require.ErrorIs(t, err, ErrSessionExpired)
}

func TestRevokeSubjectForcesLogout(t *testing.T) {
	mgr, _, recorder := newTestManager(t)
	sess := mgr.Login(testIdentity())

	require.Equal(t, 1, mgr.RevokeSubject("p1"))
	require.Equal(t, 0, mgr.RevokeSubject("p1"))

	_, err := mgr.Resolve(sess.Token)
	require.ErrorIs(t, err, ErrSessionNotFound)

	closed := recorder.byType(events.EventSessionClosed)
	require.Len(t, closed, 1)
	payload, ok := closed[0].Payload.(events.SessionClosedPayload)
	require.True(t, ok)
	require.Equal(t, "revoked", payload.Reason)
}

func TestExpiredTombstoneIsCleanedUpLater(t *testing.T) {
	mgr, clock, _ := newTestManager(t)
	sess := mgr.Login(testIdentity())

	clock.Advance(time.Hour)
	_, err := mgr.Resolve(sess.Token)
	require.ErrorIs(t, err, ErrSessionExpired)

	clock.Advance(time.Hour)
	_, err = mgr.Resolve(sess.Token)
	require.ErrorIs(t, err, ErrSessionNotFound)
}

func TestExpiryAfterLogoutPublishesNothing(t *testing.T) {
	mgr, clock, recorder := newTestManager(t)
	sess := mgr.Login(testIdentity())

	mgr.Logout(sess.Token)
	clock.Advance(2 * time.Hour)

	require.Empty(t, recorder.byType(events.EventSessionExpired))
	require.Empty(t, recorder.byType(events.EventSessionWarning))
}
