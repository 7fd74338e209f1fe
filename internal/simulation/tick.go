package simulation

import (
	"context"
	"time"

	"github.com/Stippler/drone-hustle/internal/metrics"
	"github.com/Stippler/drone-hustle/internal/model"
)

// Start launches the background tick worker. It is a no-op if already
// running. The worker stops when ctx is canceled or Stop is called.
func (s *Simulation) Start(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.mu.Unlock()

	s.wg.Add(1)
	go s.loop(ctx)
}

// Stop signals the tick worker to exit and waits for it to do so.
func (s *Simulation) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	close(s.stopCh)
	s.running = false
	s.mu.Unlock()
	s.wg.Wait()
}

func (s *Simulation) period() time.Duration {
	return time.Duration(float64(s.cfg.ResolutionSeconds) / s.cfg.SimulationTimeFactor * float64(time.Second))
}

func (s *Simulation) loop(ctx context.Context) {
	defer s.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopCh:
			return
		default:
		}

		remaining := s.tick(ctx)
		if remaining > 0 {
			select {
			case <-time.After(remaining):
			case <-ctx.Done():
				return
			case <-s.stopCh:
				return
			}
		} else {
			s.log.Warn("simulation is too slow", "overrun", -remaining)
			metrics.Default().OverrunsTotal.Inc()
		}
	}
}

// tick performs one simulation step and returns the wall-clock time left in
// the nominal tick period (negative on overrun). Steps 1-5 run under mu;
// the caller sleeps the returned duration outside the lock.
func (s *Simulation) tick(ctx context.Context) time.Duration {
	start := s.nowFunc()

	s.mu.Lock()
	nominal := s.period()

	s.progressChargingLocked()
	s.promoteWaitingLocked()
	s.rollConstraintsLocked()
	s.currentTime += s.cfg.ResolutionSeconds

	elapsed := s.nowFunc().Sub(start)
	remainingBudget := nominal - elapsed
	if remainingBudget < 0 {
		remainingBudget = 0
	}
	s.replanLocked(ctx, remainingBudget)
	s.notifyLocked()
	s.mu.Unlock()

	metrics.Default().TicksTotal.Inc()
	totalElapsed := s.nowFunc().Sub(start)
	metrics.Default().TickDurationSeconds.Observe(totalElapsed.Seconds())

	return nominal - totalElapsed
}

func (s *Simulation) progressChargingLocked() {
	if len(s.constraints) == 0 || s.constraints[0] {
		return
	}
	var stillCharging []*model.Battery
	for _, b := range s.charging {
		if b.Update() {
			s.finished = append(s.finished, b)
		} else {
			stillCharging = append(stillCharging, b)
		}
	}
	s.charging = stillCharging
}

func (s *Simulation) promoteWaitingLocked() {
	for len(s.charging) < s.cfg.ChargerCount && len(s.waiting) > 0 {
		s.charging = append(s.charging, s.waiting[0])
		s.waiting = s.waiting[1:]
	}
}

func (s *Simulation) rollConstraintsLocked() {
	n := len(s.constraints)
	if n == 0 {
		return
	}
	copy(s.constraints, s.constraints[1:])
	s.constraints[n-1] = false
}
