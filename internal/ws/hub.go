// Package ws pushes Simulation snapshots to connected clients over
// WebSocket, so a dashboard need not poll GET /visualisation.
package ws

import (
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/Stippler/drone-hustle/internal/metrics"
)

// Client is a single connected WebSocket client.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// Hub tracks connected clients and fans out broadcasts to them.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]bool
	log     *slog.Logger
}

// NewHub constructs an empty Hub.
func NewHub(log *slog.Logger) *Hub {
	if log == nil {
		log = slog.Default()
	}
	return &Hub{clients: make(map[*Client]bool), log: log}
}

// Register adds a client to the hub and updates the connected-client gauge.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = true
	metrics.Default().WSClientsConnected.Set(float64(len(h.clients)))
}

// Unregister removes a client, closes its send channel, and updates the
// connected-client gauge.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
		metrics.Default().WSClientsConnected.Set(float64(len(h.clients)))
	}
}

// Broadcast fans msg out to every connected client, dropping it for any
// client whose send buffer is full rather than blocking the caller. Every
// drop increments WSBroadcastDropsTotal, the only signal an operator has
// that a slow dashboard client is missing visualisation pushes.
func (h *Hub) Broadcast(msg []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			h.log.Warn("ws: client buffer full, dropping message")
			metrics.Default().WSBroadcastDropsTotal.Inc()
		}
	}
}

// ClientCount reports the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (c *Client) writePump() {
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}
