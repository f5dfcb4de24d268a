package model

import (
	"time"
)

// VerificationToken proves control of an email address.
// Identifier is the user's email; there is at most one row per identifier.
type VerificationToken struct {
	ID         string     `db:"id"`
	Identifier string     `db:"identifier"`
	Token      string     `db:"token"`
	ExpiresAt  time.Time  `db:"expires_at"`
	ConsumedAt *time.Time `db:"consumed_at"`
	CreatedAt  time.Time  `db:"created_at"`
}

func (t *VerificationToken) IsExpired(now time.Time) bool {
	return t.ExpiresAt.Before(now)
}

func (t *VerificationToken) IsConsumed() bool {
	return t.ConsumedAt != nil
}

// IsLive reports whether the token can still verify its identifier at now.
func (t *VerificationToken) IsLive(now time.Time) bool {
	return !t.IsExpired(now) && !t.IsConsumed()
}
