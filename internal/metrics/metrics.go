// Package metrics exposes the controller's Prometheus collectors.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles every collector the controller registers. A process holds
// exactly one instance, obtained via Default.
type Metrics struct {
	TickDurationSeconds   prometheus.Histogram
	PlanDurationSeconds   prometheus.Histogram
	TicksTotal            prometheus.Counter
	OverrunsTotal         prometheus.Counter
	InfeasibleTotal       prometheus.Counter
	BlockedSlots          prometheus.Gauge
	WaitingBatteries      prometheus.Gauge
	ChargingBatteries     prometheus.Gauge
	FinishedBatteries     prometheus.Gauge
	WSClientsConnected    prometheus.Gauge
	WSBroadcastDropsTotal prometheus.Counter
}

var (
	once    sync.Once
	current *Metrics
)

// Default returns the process-wide Metrics instance, registering its
// collectors with the default registry on first use.
func Default() *Metrics {
	once.Do(func() {
		current = newMetrics(prometheus.DefaultRegisterer)
	})
	return current
}

func newMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		TickDurationSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name: "drone_hustle_tick_duration_seconds",
			Help: "Wall-clock time spent inside one simulation tick.",
		}),
		PlanDurationSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name: "drone_hustle_plan_duration_seconds",
			Help: "Wall-clock time spent inside one planner pass.",
		}),
		TicksTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "drone_hustle_ticks_total",
			Help: "Number of simulation ticks processed.",
		}),
		OverrunsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "drone_hustle_overruns_total",
			Help: "Number of ticks that exceeded their nominal period.",
		}),
		InfeasibleTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "drone_hustle_infeasible_total",
			Help: "Number of planner passes that stayed infeasible even unconstrained.",
		}),
		BlockedSlots: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "drone_hustle_blocked_slots",
			Help: "Number of slots blocked by the last planner pass.",
		}),
		WaitingBatteries: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "drone_hustle_waiting_batteries",
			Help: "Batteries currently waiting for a charger.",
		}),
		ChargingBatteries: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "drone_hustle_charging_batteries",
			Help: "Batteries currently occupying a charger.",
		}),
		FinishedBatteries: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "drone_hustle_finished_batteries",
			Help: "Batteries charged to full and awaiting pickup.",
		}),
		WSClientsConnected: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "drone_hustle_ws_clients_connected",
			Help: "WebSocket clients currently subscribed to visualisation pushes.",
		}),
		WSBroadcastDropsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "drone_hustle_ws_broadcast_drops_total",
			Help: "Visualisation broadcasts dropped because a client's send buffer was full.",
		}),
	}
	reg.MustRegister(
		m.TickDurationSeconds, m.PlanDurationSeconds, m.TicksTotal, m.OverrunsTotal,
		m.InfeasibleTotal, m.BlockedSlots, m.WaitingBatteries, m.ChargingBatteries, m.FinishedBatteries,
		m.WSClientsConnected, m.WSBroadcastDropsTotal,
	)
	return m
}
