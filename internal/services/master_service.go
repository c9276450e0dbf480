package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/keyforge/keyforge-be/internal/errs"
	"github.com/keyforge/keyforge-be/internal/limiter"
	"github.com/keyforge/keyforge-be/internal/session"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

// MinMasterPasswordLength is the minimum accepted master password length.
const MinMasterPasswordLength = 6

// MasterPasswordStatus reports the gate state for a (user, session) pair.
type MasterPasswordStatus struct {
	HasPassword bool `json:"hasPassword"`
	IsVerified  bool `json:"isVerified"`
}

// MasterPasswordServiceProvider defines the interface for the master password gate.
type MasterPasswordServiceProvider interface {
	Setup(userID, sessionID, candidate string) error
	Verify(userID, sessionID, candidate string) error
	Status(userID, sessionID string) (MasterPasswordStatus, error)
}

// MasterPasswordService guards vault access behind a per-user secondary secret.
type MasterPasswordService struct {
	db       *sql.DB
	sessions *session.Store
	attempts limiter.Limiter
	events   EventServiceProvider
}

// NewMasterPasswordService creates a new MasterPasswordService.
func NewMasterPasswordService(db *sql.DB, sessions *session.Store, attempts limiter.Limiter, events EventServiceProvider) *MasterPasswordService {
	return &MasterPasswordService{db: db, sessions: sessions, attempts: attempts, events: events}
}

// Setup hashes and stores the user's master password, then marks the current
// session verified: setup implies verification, no separate round-trip. The
// hash is set at most once; a second call fails without touching the stored hash.
func (s *MasterPasswordService) Setup(userID, sessionID, candidate string) error {
	if len(candidate) < MinMasterPasswordLength {
		return fmt.Errorf("master password must be at least %d characters: %w", MinMasterPasswordLength, errs.ErrValidation)
	}

	hash, err := s.loadHash(userID)
	if err != nil {
		return err
	}
	if hash != "" {
		return errs.ErrMasterPasswordSet
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(candidate), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash master password: %w", err)
	}

	// The WHERE clause re-checks absence so a concurrent setup cannot overwrite.
	res, err := s.db.Exec(
		"UPDATE users SET master_password_hash = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND master_password_hash IS NULL",
		string(hashed), userID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errs.ErrMasterPasswordSet
	}

	if err := s.sessions.MarkVerified(sessionID); err != nil {
		return fmt.Errorf("failed to mark session verified: %w", err)
	}

	s.logEvent("master.setup", "info", "Master password configured", userID)
	return nil
}

// Verify compares the candidate against the stored hash. On match the current
// session is marked verified; on mismatch session state is left untouched.
func (s *MasterPasswordService) Verify(userID, sessionID, candidate string) error {
	if candidate == "" {
		return fmt.Errorf("master password is required: %w", errs.ErrValidation)
	}

	hash, err := s.loadHash(userID)
	if err != nil {
		return err
	}
	if hash == "" {
		return errs.ErrMasterPasswordNotSet
	}

	if allowed, retryAfter := s.attempts.Allow(userID); !allowed {
		return fmt.Errorf("locked for %s: %w", retryAfter.Round(time.Second), errs.ErrLocked)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(candidate)); err != nil {
		s.attempts.Failure(userID)
		s.logEvent("master.verify.fail", "warn", "Failed master password verification", userID)
		return errs.ErrInvalidMasterPassword
	}

	s.attempts.Success(userID)
	if err := s.sessions.MarkVerified(sessionID); err != nil {
		return fmt.Errorf("failed to mark session verified: %w", err)
	}

	s.logEvent("master.verify", "info", "Master password verified", userID)
	return nil
}

// Status reports whether the user has a master password and whether the given
// session has verified it. Read-only: repeated calls never mutate state.
func (s *MasterPasswordService) Status(userID, sessionID string) (MasterPasswordStatus, error) {
	hash, err := s.loadHash(userID)
	if err != nil {
		return MasterPasswordStatus{}, err
	}

	status := MasterPasswordStatus{HasPassword: hash != ""}
	if sessionID != "" {
		sess, err := s.sessions.Get(sessionID)
		if err == nil && sess.UserID == userID {
			status.IsVerified = sess.MasterVerified
		} else if err != nil && !errors.Is(err, errs.ErrNotFound) {
			return MasterPasswordStatus{}, err
		}
	}
	return status, nil
}

func (s *MasterPasswordService) loadHash(userID string) (string, error) {
	var hash sql.NullString
	row := s.db.QueryRow("SELECT master_password_hash FROM users WHERE id = ?", userID)
	if err := row.Scan(&hash); err != nil {
		if err == sql.ErrNoRows {
			return "", fmt.Errorf("user %s: %w", userID, errs.ErrNotFound)
		}
		return "", err
	}
	return hash.String, nil
}

func (s *MasterPasswordService) logEvent(eventType, level, message, userID string) {
	if s.events == nil {
		return
	}
	if err := s.events.CreateEvent(eventType, level, message, &userID); err != nil {
		log.Error().Err(err).Str("type", eventType).Msg("Failed to record event")
	}
}
