package ws

import (
	"encoding/json"
	"log/slog"

	"github.com/Stippler/drone-hustle/internal/api/models"
	"github.com/Stippler/drone-hustle/internal/simulation"
)

// Bridge adapts Simulation change notifications into hub broadcasts. It
// implements simulation.Observer.
type Bridge struct {
	hub *Hub
	log *slog.Logger
}

// NewBridge constructs a Bridge broadcasting onto hub.
func NewBridge(hub *Hub, log *slog.Logger) *Bridge {
	if log == nil {
		log = slog.Default()
	}
	return &Bridge{hub: hub, log: log}
}

// OnSimulationChanged marshals snap as a visualisation response and
// broadcasts it to every connected client.
func (b *Bridge) OnSimulationChanged(snap simulation.Visualisation) {
	payload := models.VisualisationFromSnapshot(snap)
	msg, err := json.Marshal(payload)
	if err != nil {
		b.log.Error("ws: marshal visualisation snapshot", "error", err)
		return
	}
	b.hub.Broadcast(msg)
}
