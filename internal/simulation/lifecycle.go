package simulation

import (
	"context"

	"github.com/Stippler/drone-hustle/internal/model"
)

// CreateBattery registers a new battery, routing it straight to finished if
// it is already fully charged, or to waiting otherwise, and re-plans.
func (s *Simulation) CreateBattery(soc, capacityKWh, maxPowerWatt float64) (*model.Battery, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.idCounter++
	b, err := model.NewBattery(s.idCounter, soc, capacityKWh, maxPowerWatt, s.cfg.ResolutionSeconds)
	if err != nil {
		return nil, err
	}
	if soc >= 1.0 {
		s.finished = append(s.finished, b)
	} else {
		s.waiting = append(s.waiting, b)
	}
	s.log.Info("simulation: battery created", "id", b.ID, "soc", soc)
	s.replanLocked(context.Background(), 0)
	s.notifyLocked()
	return b, nil
}

// CheckRequest reports whether finished is currently non-empty. It is a
// non-authoritative hint; AddRequest is the authoritative check.
func (s *Simulation) CheckRequest() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.finished) > 0
}

// AddRequest pops the head of finished, reserves it under droneID and
// re-plans. Force is accepted but, like the rest of this controller, does
// not currently bypass the availability check (there is no alternate
// allocation source to force from); it is threaded through so the caller's
// intent is preserved in the recorded Request.
func (s *Simulation) AddRequest(droneID string, soc, capacityKWh, maxPowerWatt float64, deltaETASeconds int, force bool) (*model.Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.finished) == 0 {
		return nil, ErrRejected
	}

	charged := s.finished[0]
	s.finished = s.finished[1:]

	s.idCounter++
	newBattery, err := model.NewBattery(s.idCounter, soc, capacityKWh, maxPowerWatt, s.cfg.ResolutionSeconds)
	if err != nil {
		// Put the reserved battery back; the request never took effect.
		s.finished = append([]*model.Battery{charged}, s.finished...)
		return nil, err
	}

	req := &model.Request{
		DroneID:         droneID,
		ChargedBattery:  charged,
		NewBattery:      newBattery,
		DeltaETASeconds: deltaETASeconds,
		Force:           force,
	}
	s.requests[droneID] = req
	s.log.Info("simulation: request accepted", "drone_id", droneID, "charged_battery", charged.ID)
	s.replanLocked(context.Background(), 0)
	s.notifyLocked()
	return req, nil
}

// ExchangeBattery pops droneID's reservation, returns the battery reserved
// for it, pushes the drone's depleted battery (at its reported actual SOC)
// into waiting, and re-plans.
func (s *Simulation) ExchangeBattery(droneID string, actualSOC float64) (*model.Battery, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	req, ok := s.requests[droneID]
	if !ok {
		return nil, ErrUnknownDrone
	}
	delete(s.requests, droneID)

	req.NewBattery.SOC = actualSOC
	s.waiting = append(s.waiting, req.NewBattery)
	s.pendingCompletions[droneID] = true

	s.log.Info("simulation: battery exchanged", "drone_id", droneID, "returned_battery", req.NewBattery.ID)
	s.replanLocked(context.Background(), 0)
	s.notifyLocked()
	return req.ChargedBattery, nil
}

// ExchangeCompleted acknowledges that the asynchronous completion callback
// for droneID's exchange has landed. It is idempotent in the sense that it
// only ever consumes a pending acknowledgment; it does not mutate pools.
func (s *Simulation) ExchangeCompleted(droneID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.pendingCompletions[droneID] {
		return ErrUnknownDrone
	}
	delete(s.pendingCompletions, droneID)
	return nil
}

// SetDemand replaces the demand event list and re-plans.
func (s *Simulation) SetDemand(events []int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.demandEvents = sortedCopy(events)
	s.replanLocked(context.Background(), 0)
	s.notifyLocked()
}

// SetPriceProfile resamples prices (given at srcResolutionSeconds) onto the
// simulation's slot resolution, by length-weighted averaging, and re-plans.
func (s *Simulation) SetPriceProfile(prices []float64, srcResolutionSeconds int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.priceAbsolute = resample(prices, srcResolutionSeconds, s.cfg.ResolutionSeconds, s.cfg.SlotCount)
	s.replanLocked(context.Background(), 0)
	s.notifyLocked()
}

// PriceProfile returns the price profile rotated so index 0 is "now".
func (s *Simulation) PriceProfile() []float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return rotate(s.priceAbsolute, s.currentTime/s.cfg.ResolutionSeconds)
}

// ClearBatteries empties all pools and the requests map, but does not reset
// the constraint mask or the price profile itself. The re-plan it triggers
// still resets the mask to all-unblocked when the emptied pools cannot meet
// demand.
func (s *Simulation) ClearBatteries() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.waiting = nil
	s.charging = nil
	s.finished = nil
	s.requests = make(map[string]*model.Request)
	s.pendingCompletions = make(map[string]bool)
	s.log.Info("simulation: batteries cleared")
	s.replanLocked(context.Background(), 0)
	s.notifyLocked()
}

// Restart clears all pools and resets the simulated clock to startTime
// seconds.
func (s *Simulation) Restart(startTimeSeconds int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.waiting = nil
	s.charging = nil
	s.finished = nil
	s.requests = make(map[string]*model.Request)
	s.pendingCompletions = make(map[string]bool)
	s.currentTime = startTimeSeconds
	s.log.Info("simulation: restarted", "start_time", startTimeSeconds)
	s.replanLocked(context.Background(), 0)
	s.notifyLocked()
}
