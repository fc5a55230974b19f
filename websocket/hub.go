package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/CUknot/forum_backend/logging"
)

// Event types pushed to room subscribers
const (
	EventMessageCreated = "message_created"
	EventMessageDeleted = "message_deleted"
	EventRoomDeleted    = "room_deleted"
)

// Event represents a websocket message
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Hub maintains the set of active clients and broadcasts events to them
type Hub struct {
	// Registered clients
	clients map[*Client]bool

	// Rooms mapping (roomID -> clients)
	rooms map[uint]map[*Client]bool

	// Guards clients and rooms
	mu sync.RWMutex

	// Register requests from the clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Closed once Run returns
	done chan struct{}
}

// NewHub creates a new hub instance
func NewHub() *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		clients:    make(map[*Client]bool),
		rooms:      make(map[uint]map[*Client]bool),
	}
}

// Run processes registrations until ctx is cancelled
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case client := <-h.register:
			h.add(client)
		case client := <-h.unregister:
			h.remove(client)
		}
	}
}

func (h *Hub) add(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client] = true
	if _, ok := h.rooms[client.roomID]; !ok {
		h.rooms[client.roomID] = make(map[*Client]bool)
	}
	h.rooms[client.roomID][client] = true
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.drop(client)
}

// drop must be called with mu held
func (h *Hub) drop(client *Client) {
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	close(client.send)

	if clients, ok := h.rooms[client.roomID]; ok {
		delete(clients, client)
		// Clean up empty rooms
		if len(clients) == 0 {
			delete(h.rooms, client.roomID)
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		h.drop(client)
	}
}

// Subscribers returns the number of connections following a room
func (h *Hub) Subscribers(roomID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomID])
}

// broadcastToRoom sends a message to all clients in a room.
// Clients whose send buffer is full are disconnected.
func (h *Hub) broadcastToRoom(roomID uint, message []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.rooms[roomID] {
		select {
		case client.send <- message:
		default:
			h.drop(client)
		}
	}
}

// BroadcastToRoom encodes an event and sends it to every subscriber of roomID
func (h *Hub) BroadcastToRoom(roomID uint, eventType string, payload interface{}) {
	msgBytes, err := json.Marshal(Event{Type: eventType, Payload: payload})
	if err != nil {
		logging.Error().Err(err).Str("type", eventType).Msg("error marshaling event")
		return
	}

	h.broadcastToRoom(roomID, msgBytes)
}

// Global hub instance
var hub *Hub

// InitHub initializes the global hub and runs it until ctx is cancelled
func InitHub(ctx context.Context) *Hub {
	hub = NewHub()
	go hub.Run(ctx)
	return hub
}

// BroadcastToRoom sends an event through the global hub. It is a no-op
// when the hub was never started.
func BroadcastToRoom(roomID uint, eventType string, payload interface{}) {
	if hub == nil {
		return
	}
	hub.BroadcastToRoom(roomID, eventType, payload)
}
