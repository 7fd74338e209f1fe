package ws

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Stippler/drone-hustle/internal/simulation"
)

func TestBridge_OnSimulationChangedBroadcastsJSON(t *testing.T) {
	hub := NewHub(nil)
	c := &Client{hub: hub, send: make(chan []byte, 1)}
	hub.Register(c)

	bridge := NewBridge(hub, nil)
	bridge.OnSimulationChanged(simulation.Visualisation{
		CurrentTime: "00:30:00",
		SavingsEUR:  decimal.NewFromInt(5),
	})

	msg := <-c.send
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(msg, &decoded))
	assert.Equal(t, "00:30:00", decoded["current_time"])
}
