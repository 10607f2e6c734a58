package services

import (
	"encoding/json"
	"sync"

	"safewalk-backend/internal/models"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// WSMessage is a message pushed to map-view clients
type WSMessage struct {
	Type      string  `json:"type"`
	ID        string  `json:"id,omitempty"`
	Lat       float64 `json:"lat,omitempty"`
	Lng       float64 `json:"lng,omitempty"`
	Timestamp int64   `json:"timestamp,omitempty"`
}

// WSHub fans accepted location updates out to connected map-view clients.
// One connection per user; a reconnect replaces the previous connection.
type WSHub struct {
	mu          sync.RWMutex
	connections map[string]*websocket.Conn
}

// NewWSHub creates a new hub
func NewWSHub() *WSHub {
	return &WSHub{
		connections: make(map[string]*websocket.Conn),
	}
}

// Register registers a WebSocket connection for a user
func (h *WSHub) Register(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if existing, ok := h.connections[userID]; ok {
		existing.Close()
	}
	h.connections[userID] = conn

	log.Info().Str("user_id", userID).Msg("WebSocket connection registered")
}

// Unregister removes the connection for a user if it is the given one
func (h *WSHub) Unregister(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if current, ok := h.connections[userID]; ok && current == conn {
		current.Close()
		delete(h.connections, userID)
		log.Info().Str("user_id", userID).Msg("WebSocket connection unregistered")
	}
}

// BroadcastLocation pushes a location update to every connected client.
// Connections that fail to accept the write are dropped.
func (h *WSHub) BroadcastLocation(loc *models.LiveLocation) {
	msg := WSMessage{
		Type:      "location",
		ID:        loc.UserID,
		Lat:       loc.Latitude,
		Lng:       loc.Longitude,
		Timestamp: loc.Timestamp,
	}

	data, err := json.Marshal(msg)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal location message")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for userID, conn := range h.connections {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Error().
				Err(err).
				Str("user_id", userID).
				Msg("Failed to push location update, dropping connection")
			conn.Close()
			delete(h.connections, userID)
		}
	}
}

// IsOnline checks if a user has a live connection
func (h *WSHub) IsOnline(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.connections[userID]
	return ok
}
