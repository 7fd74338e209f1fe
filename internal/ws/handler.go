package ws

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/Stippler/drone-hustle/internal/api/models"
	"github.com/Stippler/drone-hustle/internal/simulation"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handler upgrades a request to WebSocket, registers the client with hub,
// and pushes an initial snapshot. The channel is push-only: clients are not
// expected to send commands (the control surface is the REST API), so any
// inbound message is simply drained and ignored until the connection closes.
type Handler struct {
	hub *Hub
	sim *simulation.Simulation
	log *slog.Logger
}

// NewHandler constructs a Handler serving sim's snapshots over hub.
func NewHandler(hub *Hub, sim *simulation.Simulation, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{hub: hub, sim: sim, log: log}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error("ws: upgrade failed", "error", err)
		return
	}

	client := &Client{hub: h.hub, conn: conn, send: make(chan []byte, 16)}
	h.hub.Register(client)
	go client.writePump()

	h.sendInitial(client)
	h.readPump(client)
}

func (h *Handler) sendInitial(c *Client) {
	payload := models.VisualisationFromSnapshot(h.sim.Visualisation())
	msg, err := json.Marshal(payload)
	if err != nil {
		h.log.Error("ws: marshal initial snapshot", "error", err)
		return
	}
	select {
	case c.send <- msg:
	default:
	}
}

func (h *Handler) readPump(c *Client) {
	defer func() {
		h.hub.Unregister(c)
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
