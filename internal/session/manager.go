package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/DOUMBISSS/ged-immo-sub001/internal/domain"
	"github.com/DOUMBISSS/ged-immo-sub001/internal/events"
)

var (
	// ErrSessionNotFound indicates no session exists for the token.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionExpired indicates the session exists but has expired.
	ErrSessionExpired = errors.New("session expired")
)

// Phase is the lifecycle phase of a live session.
type Phase string

const (
	PhaseActive  Phase = "ACTIVE"
	PhaseWarning Phase = "WARNING"
	PhaseExpired Phase = "EXPIRED"
)

// Identity names the authenticated subject owning a session.
type Identity struct {
	Subject   domain.SubjectType
	SubjectID string
	TenantID  string
}

func (i Identity) key() string {
	return string(i.Subject) + ":" + i.SubjectID
}

// Session is the server-side state for one issued token.
type Session struct {
	Token     string
	Identity  Identity
	CreatedAt time.Time
	ExpiresAt time.Time

	phase        Phase
	expired      bool
	warningTimer Timer
	expireTimer  Timer
	tickTimer    Timer
	cleanupTimer Timer
}

// Status is a point-in-time view of a session for the heartbeat surface.
type Status struct {
	Phase            Phase
	ExpiresAt        time.Time
	RemainingSeconds int
	Warning          bool
}

// Manager owns session issuance, the pre-expiry warning and forced logout.
// One session per identity; each session carries its own independently
// cancellable timers.
type Manager struct {
	mu         sync.Mutex
	clock      Clock
	duration   time.Duration
	warning    time.Duration
	sessions   map[string]*Session
	byIdentity map[string]string
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewManager constructs a session manager.
func NewManager(clock Clock, duration, warningWindow time.Duration, dispatcher events.Dispatcher, logger *zap.Logger) *Manager {
	if duration <= 0 {
		duration = time.Hour
	}
	if warningWindow <= 0 || warningWindow >= duration {
		warningWindow = time.Minute
	}
	return &Manager{
		clock:      clock,
		duration:   duration,
		warning:    warningWindow,
		sessions:   make(map[string]*Session),
		byIdentity: make(map[string]string),
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Duration exposes the configured session lifetime.
func (m *Manager) Duration() time.Duration {
	return m.duration
}

// Login issues a fresh session for the identity, replacing any existing one
// so a stale expire callback can never log out a subsequent session.
func (m *Manager) Login(identity Identity) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if token, ok := m.byIdentity[identity.key()]; ok {
		if prev, exists := m.sessions[token]; exists {
			m.removeLocked(prev)
		}
	}

	now := m.clock.Now()
	sess := &Session{
		Token:     generateToken(),
		Identity:  identity,
		CreatedAt: now,
		ExpiresAt: now.Add(m.duration),
		phase:     PhaseActive,
	}

	token := sess.Token
	sess.warningTimer = m.clock.AfterFunc(m.duration-m.warning, func() { m.onWarning(token) })
	sess.expireTimer = m.clock.AfterFunc(m.duration, func() { m.onExpire(token) })

	m.sessions[token] = sess
	m.byIdentity[identity.key()] = token

	m.logger.Info("session opened",
		zap.String("subject", string(identity.Subject)),
		zap.String("subject_id", identity.SubjectID))
	return sess
}

// Resolve validates a token and returns its session.
func (m *Manager) Resolve(token string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[token]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if sess.expired {
		return nil, ErrSessionExpired
	}
	return sess, nil
}

// Status reports the session phase and remaining lifetime for the
// heartbeat channel the UI polls.
func (m *Manager) Status(token string) (Status, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[token]
	if !ok {
		return Status{}, ErrSessionNotFound
	}
	if sess.expired {
		return Status{}, ErrSessionExpired
	}

	remaining := sess.ExpiresAt.Sub(m.clock.Now())
	if remaining < 0 {
		remaining = 0
	}
	return Status{
		Phase:            sess.phase,
		ExpiresAt:        sess.ExpiresAt,
		RemainingSeconds: int(remaining / time.Second),
		Warning:          sess.phase == PhaseWarning,
	}, nil
}

// Logout destroys the session and synchronously cancels every pending
// timer, regardless of phase. Logging out an unknown token is a no-op.
func (m *Manager) Logout(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[token]
	if !ok {
		return
	}
	wasExpired := sess.expired
	m.removeLocked(sess)

	if !wasExpired {
		m.publish(events.EventSessionClosed, sess, events.SessionClosedPayload{Reason: "logout"})
		m.logger.Info("session closed",
			zap.String("subject_id", sess.Identity.SubjectID))
	}
}

// RevokeSubject force-logs-out every session owned by a subject. Used when
// an administrator revokes a principal's access.
func (m *Manager) RevokeSubject(subjectID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	revoked := 0
	for _, sess := range m.sessions {
		if sess.Identity.SubjectID != subjectID || sess.expired {
			continue
		}
		m.removeLocked(sess)
		m.publish(events.EventSessionClosed, sess, events.SessionClosedPayload{Reason: "revoked"})
		revoked++
	}
	if revoked > 0 {
		m.logger.Info("sessions revoked",
			zap.String("subject_id", subjectID),
			zap.Int("count", revoked))
	}
	return revoked
}

func (m *Manager) onWarning(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[token]
	if !ok || sess.expired || sess.phase != PhaseActive {
		return
	}
	sess.phase = PhaseWarning
	m.publish(events.EventSessionWarning, sess, events.SessionWarningPayload{
		RemainingSeconds: int(sess.ExpiresAt.Sub(m.clock.Now()) / time.Second),
	})
	sess.tickTimer = m.clock.AfterFunc(time.Second, func() { m.onTick(token) })
}

// onTick drives the warning countdown one second at a time; reaching zero
// forces expiry.
func (m *Manager) onTick(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[token]
	if !ok || sess.expired || sess.phase != PhaseWarning {
		return
	}
	if !m.clock.Now().Before(sess.ExpiresAt) {
		m.expireLocked(sess)
		return
	}
	sess.tickTimer = m.clock.AfterFunc(time.Second, func() { m.onTick(token) })
}

func (m *Manager) onExpire(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[token]
	if !ok || sess.expired {
		return
	}
	m.expireLocked(sess)
}

// expireLocked invalidates the session. The entry is kept as a tombstone so
// Resolve can distinguish expired from unknown tokens; the tombstone is
// cleared after one further session lifetime.
func (m *Manager) expireLocked(sess *Session) {
	sess.expired = true
	sess.phase = PhaseExpired
	stopTimers(sess)
	delete(m.byIdentity, sess.Identity.key())

	token := sess.Token
	sess.cleanupTimer = m.clock.AfterFunc(m.duration, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.sessions, token)
	})

	m.publish(events.EventSessionExpired, sess, events.SessionClosedPayload{Reason: "expired"})
	m.logger.Info("session expired",
		zap.String("subject_id", sess.Identity.SubjectID))
}

func (m *Manager) removeLocked(sess *Session) {
	stopTimers(sess)
	if sess.cleanupTimer != nil {
		sess.cleanupTimer.Stop()
	}
	delete(m.sessions, sess.Token)
	if m.byIdentity[sess.Identity.key()] == sess.Token {
		delete(m.byIdentity, sess.Identity.key())
	}
}

func (m *Manager) publish(eventType events.EventType, sess *Session, payload any) {
	if m.dispatcher == nil {
		return
	}
	_ = m.dispatcher.Publish(context.Background(), events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		TenantID:  sess.Identity.TenantID,
		Subject:   sess.Identity.Subject,
		SubjectID: sess.Identity.SubjectID,
		Timestamp: m.clock.Now(),
		Payload:   payload,
	})
}

func stopTimers(sess *Session) {
	if sess.warningTimer != nil {
		sess.warningTimer.Stop()
	}
	if sess.expireTimer != nil {
		sess.expireTimer.Stop()
	}
	if sess.tickTimer != nil {
		sess.tickTimer.Stop()
	}
}

func generateToken() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return uuid.NewString()
	}
	return base64.RawURLEncoding.EncodeToString(b)
}
