package models

import "time"

// PendingRegistration bridges OTP dispatch and account creation. ID is the
// raw value of the session_token cookie.
type PendingRegistration struct {
	ID           string
	OTP          string
	Email        string
	PasswordHash string
	Name         string
	ExpiresAt    time.Time
}

// Expired reports whether the registration window has passed at now.
func (p *PendingRegistration) Expired(now time.Time) bool {
	return !p.ExpiresAt.IsZero() && now.After(p.ExpiresAt)
}
