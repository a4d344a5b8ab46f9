package dto

import "time"

// LoginRequest payload for principal and operator login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SessionStatusResponse is the heartbeat payload the UI polls to render the
// expiry countdown.
type SessionStatusResponse struct {
	Phase            string    `json:"phase"`
	ExpiresAt        time.Time `json:"expires_at"`
	RemainingSeconds int       `json:"remaining_seconds"`
	Warning          bool      `json:"warning"`
}
