package models

import "time"

// Session is a server-side login session. The MasterVerified flag records
// whether the master password has been verified since the session was
// created; it resets with the session itself (logout or expiry).
type Session struct {
	ID             string    `json:"id"`
	UserID         string    `json:"userId"`
	MasterVerified bool      `json:"masterVerified"`
	CreatedAt      time.Time `json:"createdAt"`
	ExpiresAt      time.Time `json:"expiresAt"`
}

// Expired reports whether the session has passed its expiry time.
func (s Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
