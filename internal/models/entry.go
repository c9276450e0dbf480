package models

import "time"

// PasswordEntry is one stored credential record owned by a user.
type PasswordEntry struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"userId"`
	Service   string    `json:"service"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Password  string    `json:"password"`
	CreatedAt time.Time `json:"createdAt"`
}

// InsertPasswordEntry carries the client-supplied fields of a new entry.
// The owner id is never taken from the payload; callers pass it explicitly.
type InsertPasswordEntry struct {
	Service  string `json:"service"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}
