package services

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/keyforge/keyforge-be/internal/errs"
	"github.com/keyforge/keyforge-be/internal/models"
	"github.com/rs/zerolog/log"
)

// EntryServiceProvider defines the interface for credential entry services.
// Every operation is scoped by an explicit owning-user id supplied by the
// caller; the owner is never trusted from the payload.
type EntryServiceProvider interface {
	List(userID string) ([]models.PasswordEntry, error)
	Create(userID string, entry models.InsertPasswordEntry) (models.PasswordEntry, error)
	Delete(id int64, userID string) (bool, error)
	Clear(userID string) error
}

// EntryService provides business logic for stored credential entries.
type EntryService struct {
	db     *sql.DB
	events EventServiceProvider
}

// NewEntryService creates a new EntryService.
func NewEntryService(db *sql.DB, events EventServiceProvider) *EntryService {
	return &EntryService{db: db, events: events}
}

// List retrieves all entries owned by the user, oldest first.
func (s *EntryService) List(userID string) ([]models.PasswordEntry, error) {
	rows, err := s.db.Query(
		"SELECT id, user_id, service, username, email, password, created_at FROM password_entries WHERE user_id = ? ORDER BY created_at ASC, id ASC",
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []models.PasswordEntry{}
	for rows.Next() {
		var entry models.PasswordEntry
		if err := rows.Scan(&entry.ID, &entry.UserID, &entry.Service, &entry.Username, &entry.Email, &entry.Password, &entry.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Create stores a new credential entry for the user. The store assigns the id
// and creation timestamp.
func (s *EntryService) Create(userID string, entry models.InsertPasswordEntry) (models.PasswordEntry, error) {
	if strings.TrimSpace(entry.Service) == "" || strings.TrimSpace(entry.Username) == "" ||
		strings.TrimSpace(entry.Email) == "" || entry.Password == "" {
		return models.PasswordEntry{}, fmt.Errorf("service, username, email and password are required: %w", errs.ErrValidation)
	}

	res, err := s.db.Exec(
		"INSERT INTO password_entries (user_id, service, username, email, password) VALUES (?, ?, ?, ?, ?)",
		userID, entry.Service, entry.Username, entry.Email, entry.Password)
	if err != nil {
		return models.PasswordEntry{}, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return models.PasswordEntry{}, err
	}

	var created models.PasswordEntry
	row := s.db.QueryRow(
		"SELECT id, user_id, service, username, email, password, created_at FROM password_entries WHERE id = ?", id)
	if err := row.Scan(&created.ID, &created.UserID, &created.Service, &created.Username, &created.Email, &created.Password, &created.CreatedAt); err != nil {
		return models.PasswordEntry{}, err
	}

	s.logEvent("entry.create", "info", fmt.Sprintf("Credential entry created for %s", created.Service), userID)
	return created, nil
}

// Delete removes one entry. The predicate filters by both id and owner so one
// user can never delete another user's entry by guessing ids. Returns true
// iff a matching row existed and was removed.
func (s *EntryService) Delete(id int64, userID string) (bool, error) {
	res, err := s.db.Exec("DELETE FROM password_entries WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n == 0 {
		return false, nil
	}

	s.logEvent("entry.delete", "info", fmt.Sprintf("Credential entry %d deleted", id), userID)
	return true, nil
}

// Clear removes all entries owned by the user.
func (s *EntryService) Clear(userID string) error {
	if _, err := s.db.Exec("DELETE FROM password_entries WHERE user_id = ?", userID); err != nil {
		return err
	}

	s.logEvent("entry.clear", "info", "All credential entries cleared", userID)
	return nil
}

func (s *EntryService) logEvent(eventType, level, message, userID string) {
	if s.events == nil {
		return
	}
	if err := s.events.CreateEvent(eventType, level, message, &userID); err != nil {
		log.Error().Err(err).Str("type", eventType).Msg("Failed to record event")
	}
}
