package websocket

import (
	"fmt"
	"sync"

	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Event types pushed to connected dashboards
const (
	EventRecordSaved    = "record_saved"
	EventRecordDeleted  = "record_deleted"
	EventRecordApproved = "record_approved"
	EventRecordRejected = "record_rejected"
	EventRosterChanged  = "roster_changed"
)

// Event is a message sent over WebSocket when remote data changes
type Event struct {
	Type    string      `json:"type"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	UserID  string      `json:"userId,omitempty"`
}

// Client represents a connected WebSocket client
type Client struct {
	UserID primitive.ObjectID
	Conn   *websocket.Conn
	mu     sync.Mutex
}

func (c *Client) writeJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Conn.WriteJSON(v)
}

// Hub maintains the set of active clients and broadcasts change events
type Hub struct {
	clients    map[*Client]bool
	byUser     map[primitive.ObjectID]*Client
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		byUser:     make(map[primitive.ObjectID]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run starts the hub's event loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			if client.UserID != primitive.NilObjectID {
				h.byUser[client.UserID] = client
			}
			h.mu.Unlock()
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				if client.UserID != primitive.NilObjectID {
					delete(h.byUser, client.UserID)
				}
				client.Conn.Close()
			}
			h.mu.Unlock()
		}
	}
}

// Broadcast sends an event to every connected client. Write failures are
// ignored; a dead connection is reaped by its own read loop.
func (h *Hub) Broadcast(event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients {
		client.writeJSON(event)
	}
}

// SendToUser sends an event to a specific user
func (h *Hub) SendToUser(userID primitive.ObjectID, event Event) error {
	h.mu.RLock()
	client, ok := h.byUser[userID]
	h.mu.RUnlock()

	if !ok {
		return fmt.Errorf("user not connected")
	}

	return client.writeJSON(event)
}

// NotifyRecordChange broadcasts a record save/delete/approval event
func (h *Hub) NotifyRecordChange(eventType string, record interface{}) {
	h.Broadcast(Event{
		Type:    eventType,
		Message: "Sales record changed",
		Data:    record,
	})
}

// NotifyRosterChange broadcasts that the user roster was modified
func (h *Hub) NotifyRosterChange() {
	h.Broadcast(Event{
		Type:    EventRosterChanged,
		Message: "User roster changed",
	})
}
