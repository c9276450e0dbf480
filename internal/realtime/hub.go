// Package realtime pushes vault activity events to connected clients.
package realtime

import "github.com/rs/zerolog/log"

type targeted struct {
	userID  string
	message []byte
}

// Hub maintains the set of active clients and delivers messages to them.
// All client bookkeeping happens inside Run's goroutine.
type Hub struct {
	// Registered clients.
	clients map[*Client]bool

	// Clients grouped by the user they authenticated as.
	byUser map[string]map[*Client]bool

	// Messages for every connected client.
	Broadcast chan []byte

	// Messages for a single user's clients.
	targeted chan targeted

	// Register requests from the clients.
	Register chan *Client

	// Unregister requests from clients.
	Unregister chan *Client
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		Broadcast:  make(chan []byte),
		targeted:   make(chan targeted),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		byUser:     make(map[string]map[*Client]bool),
	}
}

// Run starts the Hub's message processing loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.clients[client] = true
			if h.byUser[client.UserID] == nil {
				h.byUser[client.UserID] = make(map[*Client]bool)
			}
			h.byUser[client.UserID][client] = true
			log.Info().Int("total_clients", len(h.clients)).Msg("Activity feed client connected")

		case client := <-h.Unregister:
			if _, ok := h.clients[client]; ok {
				h.drop(client)
				log.Info().Int("total_clients", len(h.clients)).Msg("Activity feed client disconnected")
			}

		case message := <-h.Broadcast:
			for client := range h.clients {
				h.deliver(client, message)
			}

		case t := <-h.targeted:
			for client := range h.byUser[t.userID] {
				h.deliver(client, t.message)
			}
		}
	}
}

// BroadcastTo sends a message to all clients authenticated as the given user.
func (h *Hub) BroadcastTo(userID string, message []byte) {
	h.targeted <- targeted{userID: userID, message: message}
}

func (h *Hub) deliver(client *Client, message []byte) {
	select {
	case client.Send <- message:
	default:
		// Slow consumer; drop it rather than stall the hub.
		h.drop(client)
	}
}

func (h *Hub) drop(client *Client) {
	delete(h.clients, client)
	if subs, ok := h.byUser[client.UserID]; ok {
		delete(subs, client)
		if len(subs) == 0 {
			delete(h.byUser, client.UserID)
		}
	}
	close(client.Send)
}
