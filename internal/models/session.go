package models

import "time"

// Session maps an opaque token to a user with an expiry instant. A token is
// either active (now < ExpiresAt) or expired; expired sessions never validate
// again and are removed by housekeeping, not by the validation path.
type Session struct {
	Token     string    // Opaque token, unique
	UserUID   string    // Owning user
	ExpiresAt time.Time // Hard expiry; no sliding renewal
	CreatedAt time.Time
}

// Expired reports whether the session is past its expiry at the given instant.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
