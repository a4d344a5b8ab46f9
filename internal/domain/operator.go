package domain

import "time"

// Operator models a platform operator who approves renewals and can
// suspend or reactivate tenant subscriptions.
type Operator struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
