// Package simulation owns the charging-station controller's mutable state:
// the battery pools, the constraint mask, the price profile, the demand
// forecast, the wall-clock-to-sim-clock mapping, and the tick loop that
// drives all of it. A single Simulation value is constructed once per
// process and lives for the process's lifetime; there is no persistence
// across restarts.
package simulation

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/Stippler/drone-hustle/internal/metrics"
	"github.com/Stippler/drone-hustle/internal/model"
	"github.com/Stippler/drone-hustle/internal/planner"
	"github.com/Stippler/drone-hustle/internal/schedule"
)

// Config is the subset of process-wide configuration the Simulation needs.
type Config struct {
	ResolutionSeconds    int
	SlotCount            int
	ChargerCount         int
	SimulationTimeFactor float64
}

// Observer is notified after every tick and after every external mutation
// that completed a re-plan, so a transport layer (e.g. a WebSocket hub) can
// push a fresh snapshot without polling.
type Observer interface {
	OnSimulationChanged(snap Visualisation)
}

// Simulation is the charging-station controller's core. All exported
// methods acquire mu for their entire duration, including any triggered
// re-plan, per the single-reentrant-mutex design: Go's sync.Mutex is not
// reentrant, so every exported method takes the lock once and calls
// unexported *Locked helpers that assume it is already held.
type Simulation struct {
	cfg Config
	log *slog.Logger

	mu sync.Mutex

	waiting  []*model.Battery
	charging []*model.Battery
	finished []*model.Battery
	requests map[string]*model.Request

	idCounter int

	// pendingCompletions tracks drone IDs whose exchange has been recorded
	// but whose asynchronous completion callback (an API-adapter concern,
	// out of scope here) has not yet been acknowledged.
	pendingCompletions map[string]bool

	constraints    []bool    // now-relative: index 0 is the current slot
	priceAbsolute  []float64 // anchored at slot 0 == midnight
	demandEvents   []int     // sorted seconds-since-midnight
	currentTime    int       // simulated seconds since an arbitrary epoch

	sched *schedule.Schedule

	nowFunc func() time.Time
	stopCh  chan struct{}
	wg      sync.WaitGroup
	running bool

	observers []Observer
}

// New constructs a Simulation starting at 00:30:00 simulated time (mirroring
// the reference implementation's initial offset) with an all-unblocked
// constraint mask, a zero price profile and the default hourly demand
// schedule.
func New(cfg Config, log *slog.Logger) *Simulation {
	if log == nil {
		log = slog.Default()
	}
	s := &Simulation{
		cfg:           cfg,
		log:           log,
		requests:      make(map[string]*model.Request),
		pendingCompletions: make(map[string]bool),
		constraints:   make([]bool, cfg.SlotCount),
		priceAbsolute: make([]float64, cfg.SlotCount),
		demandEvents:  defaultDemandEvents(),
		currentTime:   30 * 60,
		sched:         schedule.New(cfg.SlotCount),
		nowFunc:       time.Now,
	}
	return s
}

func defaultDemandEvents() []int {
	events := make([]int, 24)
	for i := range events {
		events[i] = i * 3600
	}
	return events
}

// SetClock overrides the wall clock used to pace the tick loop. Not safe to
// call once Start has been invoked.
func (s *Simulation) SetClock(fn func() time.Time) {
	s.nowFunc = fn
}

// ResolutionSeconds returns the configured slot width in seconds.
func (s *Simulation) ResolutionSeconds() int {
	return s.cfg.ResolutionSeconds
}

// Subscribe registers an Observer to be notified after ticks and mutations.
func (s *Simulation) Subscribe(o Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, o)
}

func (s *Simulation) notifyLocked() {
	if len(s.observers) == 0 {
		return
	}
	snap := s.visualisationLocked()
	for _, o := range s.observers {
		go o.OnSimulationChanged(snap)
	}
}

// replanLocked rebuilds d[] from the demand forecast and current pools,
// then runs the greedy planner against it, bounded by budget (per spec,
// external mutations outside the tick loop use a budget of 0: a feasibility
// pass with no further greedy blocking). Callers must already hold mu.
func (s *Simulation) replanLocked(ctx context.Context, budget time.Duration) bool {
	d := buildDemandCumulative(s.demandEvents, s.cfg.SlotCount, s.cfg.ResolutionSeconds, s.currentTime)
	offset := len(s.requests) + len(s.finished)
	for i := range d {
		d[i] -= offset
	}

	rotatedPrice := rotate(s.priceAbsolute, s.currentTime/s.cfg.ResolutionSeconds)

	feasible := planner.Plan(ctx, s.sched, s.waiting, s.charging, d, rotatedPrice, s.constraints, budget)
	if !feasible {
		s.log.Warn("simulation: schedule infeasible even unconstrained")
	} else if f := s.sched.Format(); f != "" {
		s.log.Debug("simulation: replanned", "schedule", f, "waiting", len(s.waiting), "charging", len(s.charging), "finished", len(s.finished))
	}
	metrics.Default().WaitingBatteries.Set(float64(len(s.waiting)))
	metrics.Default().ChargingBatteries.Set(float64(len(s.charging)))
	metrics.Default().FinishedBatteries.Set(float64(len(s.finished)))
	return feasible
}
