package services

import (
	"database/sql"

	"github.com/google/uuid"
	"github.com/keyforge/keyforge-be/internal/models"
	"github.com/keyforge/keyforge-be/internal/realtime"
)

// EventServiceProvider defines the interface for event services.
type EventServiceProvider interface {
	CreateEvent(eventType, level, message string, userID *string) error
	GetRecentEvents(userID string, limit int) ([]models.Event, error)
}

// EventService records audit events and publishes them to the activity feed.
type EventService struct {
	db  *sql.DB
	hub *realtime.Hub
}

// NewEventService creates a new EventService. The hub may be nil when no
// activity feed is attached.
func NewEventService(db *sql.DB, hub *realtime.Hub) *EventService {
	return &EventService{db: db, hub: hub}
}

// CreateEvent logs a new event to the database and the activity feed.
func (s *EventService) CreateEvent(eventType, level, message string, userID *string) error {
	event := models.Event{
		ID:      uuid.New().String(),
		Type:    eventType,
		Level:   level,
		Message: message,
		UserID:  userID,
	}

	_, err := s.db.Exec("INSERT INTO events (id, type, level, message, user_id) VALUES (?, ?, ?, ?, ?)",
		event.ID, event.Type, event.Level, event.Message, event.UserID)
	if err != nil {
		return err
	}

	if s.hub != nil {
		if msg, err := realtime.NewEventMessage(event); err == nil {
			if event.UserID != nil {
				s.hub.BroadcastTo(*event.UserID, msg)
			} else {
				s.hub.Broadcast <- msg
			}
		}
	}
	return nil
}

// GetRecentEvents retrieves the most recent events visible to a user: their
// own plus system-wide ones.
func (s *EventService) GetRecentEvents(userID string, limit int) ([]models.Event, error) {
	rows, err := s.db.Query(
		"SELECT id, type, level, message, user_id, created_at FROM events WHERE user_id = ? OR user_id IS NULL ORDER BY created_at DESC LIMIT ?",
		userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		var event models.Event
		if err := rows.Scan(&event.ID, &event.Type, &event.Level, &event.Message, &event.UserID, &event.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}
