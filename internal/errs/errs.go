// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrValidation indicates malformed or out-of-range input, detected
	// before any mutation takes place.
	ErrValidation = errors.New("invalid input")

	// ErrUnauthorized indicates failed authentication (no valid identity
	// or wrong credentials).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrAlreadyExists indicates a unique constraint violation (e.g., email taken).
	ErrAlreadyExists = errors.New("already exists")

	// ErrMasterPasswordSet indicates setup was attempted when a master
	// password hash already exists.
	ErrMasterPasswordSet = errors.New("master password already set")

	// ErrMasterPasswordNotSet indicates verification was attempted before setup.
	ErrMasterPasswordNotSet = errors.New("master password not set")

	// ErrInvalidMasterPassword indicates a failed master password verification.
	ErrInvalidMasterPassword = errors.New("invalid master password")

	// ErrMasterPasswordRequired indicates the session has not verified the
	// master password and the vault operation was rejected.
	ErrMasterPasswordRequired = errors.New("master password verification required")

	// ErrLocked indicates too many failed verification attempts in a row.
	ErrLocked = errors.New("too many failed attempts")
)
