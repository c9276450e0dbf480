package realtime

import (
	"encoding/json"

	"github.com/keyforge/keyforge-be/internal/models"
)

// Message defines the structure for activity feed messages.
type Message struct {
	Action  string      `json:"action"`
	Payload interface{} `json:"payload"`
}

// NewEventMessage encodes an audit event as a feed message.
func NewEventMessage(event models.Event) ([]byte, error) {
	return json.Marshal(Message{Action: "event", Payload: event})
}
