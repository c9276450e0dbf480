// Package session persists server-side login sessions. Each row carries the
// master-verified flag for its lifetime; the flag never outlives the session.
package session

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/keyforge/keyforge-be/internal/errs"
	"github.com/keyforge/keyforge-be/internal/models"
)

// Store provides session persistence over the database.
type Store struct {
	db  *sql.DB
	ttl time.Duration
}

// NewStore creates a session store with the given session lifetime.
func NewStore(db *sql.DB, ttl time.Duration) *Store {
	return &Store{db: db, ttl: ttl}
}

// Create starts a new, unverified session for a user.
func (s *Store) Create(userID string) (models.Session, error) {
	now := time.Now().UTC()
	sess := models.Session{
		ID:        uuid.New().String(),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}

	_, err := s.db.Exec(
		"INSERT INTO sessions (id, user_id, master_verified, created_at, expires_at) VALUES (?, ?, 0, ?, ?)",
		sess.ID, sess.UserID, sess.CreatedAt, sess.ExpiresAt,
	)
	if err != nil {
		return models.Session{}, fmt.Errorf("create session: %w", err)
	}
	return sess, nil
}

// Get retrieves a live session by id. Expired or unknown sessions report
// errs.ErrNotFound.
func (s *Store) Get(id string) (models.Session, error) {
	var sess models.Session
	row := s.db.QueryRow(
		"SELECT id, user_id, master_verified, created_at, expires_at FROM sessions WHERE id = ?", id)
	err := row.Scan(&sess.ID, &sess.UserID, &sess.MasterVerified, &sess.CreatedAt, &sess.ExpiresAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Session{}, errs.ErrNotFound
		}
		return models.Session{}, err
	}
	if sess.Expired(time.Now().UTC()) {
		return models.Session{}, errs.ErrNotFound
	}
	return sess, nil
}

// MarkVerified flips the session's master-verified flag to true.
func (s *Store) MarkVerified(id string) error {
	res, err := s.db.Exec("UPDATE sessions SET master_verified = 1 WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// Delete removes a session (logout). Deleting an unknown session is not an error.
func (s *Store) Delete(id string) error {
	_, err := s.db.Exec("DELETE FROM sessions WHERE id = ?", id)
	return err
}

// DeleteExpired removes all sessions past their expiry and returns the count.
func (s *Store) DeleteExpired() (int64, error) {
	res, err := s.db.Exec("DELETE FROM sessions WHERE expires_at < ?", time.Now().UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
