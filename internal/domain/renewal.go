package domain

import "time"

// RenewalStatus enumerates renewal request lifecycle states.
type RenewalStatus string

const (
	RenewalPending  RenewalStatus = "PENDING"
	RenewalApproved RenewalStatus = "APPROVED"
	RenewalRejected RenewalStatus = "REJECTED"
)

// RenewalRequest is a tenant-initiated plan renewal awaiting operator
// decision. Requesting never mutates the subscription record; only
// approval does.
type RenewalRequest struct {
	ID          string
	TenantID    string
	Plan        SubscriptionPlan
	Months      int
	Status      RenewalStatus
	RequestedBy string
	DecidedBy   *string
	Note        string
	CreatedAt   time.Time
	DecidedAt   *time.Time
}
