package ws

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/Stippler/drone-hustle/internal/metrics"
)

func TestHub_RegisterUnregister(t *testing.T) {
	hub := NewHub(nil)

	c := &Client{hub: hub, send: make(chan []byte, 16)}

	hub.Register(c)
	assert.Equal(t, 1, hub.ClientCount())

	hub.Unregister(c)
	assert.Equal(t, 0, hub.ClientCount())
}

func TestHub_Broadcast(t *testing.T) {
	hub := NewHub(nil)

	c1 := &Client{hub: hub, send: make(chan []byte, 16)}
	c2 := &Client{hub: hub, send: make(chan []byte, 16)}
	hub.Register(c1)
	hub.Register(c2)

	msg := []byte(`{"current_time":"00:30:00"}`)
	hub.Broadcast(msg)

	assert.Equal(t, msg, <-c1.send)
	assert.Equal(t, msg, <-c2.send)
}

func TestHub_BroadcastDropsOnFullBuffer(t *testing.T) {
	hub := NewHub(nil)
	c := &Client{hub: hub, send: make(chan []byte, 1)}
	hub.Register(c)

	hub.Broadcast([]byte("first"))
	hub.Broadcast([]byte("second")) // buffer full, must not block or panic

	assert.Equal(t, []byte("first"), <-c.send)
}

func TestHub_UnregisterClosesSendChannel(t *testing.T) {
	hub := NewHub(nil)
	c := &Client{hub: hub, send: make(chan []byte, 1)}
	hub.Register(c)
	hub.Unregister(c)

	_, ok := <-c.send
	assert.False(t, ok, "send channel should be closed after Unregister")
}

func TestHub_RegisterUnregister_TracksConnectedClientGauge(t *testing.T) {
	hub := NewHub(nil)
	c1 := &Client{hub: hub, send: make(chan []byte, 1)}
	c2 := &Client{hub: hub, send: make(chan []byte, 1)}

	hub.Register(c1)
	hub.Register(c2)
	assert.Equal(t, float64(2), testutil.ToFloat64(metrics.Default().WSClientsConnected))

	hub.Unregister(c1)
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.Default().WSClientsConnected))

	hub.Unregister(c2)
	assert.Equal(t, float64(0), testutil.ToFloat64(metrics.Default().WSClientsConnected))
}

func TestHub_Broadcast_CountsDroppedMessages(t *testing.T) {
	hub := NewHub(nil)
	c := &Client{hub: hub, send: make(chan []byte, 1)}
	hub.Register(c)

	before := testutil.ToFloat64(metrics.Default().WSBroadcastDropsTotal)

	hub.Broadcast([]byte("first"))
	hub.Broadcast([]byte("second")) // buffer full, dropped and counted

	after := testutil.ToFloat64(metrics.Default().WSBroadcastDropsTotal)
	assert.Equal(t, before+1, after)
}
