package events

import (
	"time"

	"github.com/DOUMBISSS/ged-immo-sub001/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventSessionWarning          EventType = "session_warning"
	EventSessionExpired          EventType = "session_expired"
	EventSessionClosed           EventType = "session_closed"
	EventRenewalRequested        EventType = "renewal_requested"
	EventRenewalApproved         EventType = "renewal_approved"
	EventRenewalRejected         EventType = "renewal_rejected"
	EventRenewalActivated        EventType = "renewal_activated"
	EventSubscriptionSuspended   EventType = "subscription_suspended"
	EventSubscriptionReactivated EventType = "subscription_reactivated"
	EventPrincipalArchived       EventType = "principal_archived"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string             `json:"id"`
	Type      EventType          `json:"type"`
	TenantID  string             `json:"tenant_id"`
	Subject   domain.SubjectType `json:"subject,omitempty"`
	SubjectID string             `json:"subject_id,omitempty"`
	Timestamp time.Time          `json:"timestamp"`
	Payload   interface{}        `json:"payload"`
}

// SessionWarningPayload payload.
type SessionWarningPayload struct {
	RemainingSeconds int `json:"remaining_seconds"`
}

// SessionClosedPayload payload.
type SessionClosedPayload struct {
	Reason string `json:"reason"`
}

// RenewalPayload payload for renewal lifecycle events.
type RenewalPayload struct {
	RequestID string                  `json:"request_id"`
	Plan      domain.SubscriptionPlan `json:"plan"`
	Months    int                     `json:"months"`
	Scheduled bool                    `json:"scheduled,omitempty"`
}

// SubscriptionStatusPayload payload for suspend/reactivate events.
type SubscriptionStatusPayload struct {
	Plan      domain.SubscriptionPlan `json:"plan"`
	Suspended bool                    `json:"suspended"`
}
