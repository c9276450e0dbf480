package models

import "time"

// User represents a user account in the system.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	AvatarURL string    `json:"avatarUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Never expose these to the client.
	PasswordHash       string `json:"-"`
	MasterPasswordHash string `json:"-"`
}

// HasMasterPassword reports whether the user has completed master password setup.
func (u User) HasMasterPassword() bool {
	return u.MasterPasswordHash != ""
}
