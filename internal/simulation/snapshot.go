package simulation

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Stippler/drone-hustle/internal/analysis"
	"github.com/Stippler/drone-hustle/internal/model"
	"github.com/Stippler/drone-hustle/internal/schedule"
)

// BatteriesSnapshot is the /batteries response payload.
type BatteriesSnapshot struct {
	Waiting  []*model.Battery
	Charging []*model.Battery
	Finished []*model.Battery
	Requests map[string]*model.Request
}

// GetBatteries returns a snapshot of all four pools.
func (s *Simulation) GetBatteries() BatteriesSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return BatteriesSnapshot{
		Waiting:  append([]*model.Battery(nil), s.waiting...),
		Charging: append([]*model.Battery(nil), s.charging...),
		Finished: append([]*model.Battery(nil), s.finished...),
		Requests: copyRequests(s.requests),
	}
}

func copyRequests(in map[string]*model.Request) map[string]*model.Request {
	out := make(map[string]*model.Request, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// SchedulesSnapshot is the /schedules response payload.
type SchedulesSnapshot struct {
	ResolutionSeconds int
	Optimized         []int
	Baseline          []int
	PriceStats        analysis.PriceStats
	Savings           analysis.Savings
}

// GetSchedules returns the optimized and baseline schedules as of the last
// completed re-plan, alongside the price-percentile and euro-savings report
// the optimizer achieved over the unconstrained baseline.
func (s *Simulation) GetSchedules() SchedulesSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	allBatteries := s.allBatteriesLocked()
	rotatedPrice := rotate(s.priceAbsolute, s.currentTime/s.cfg.ResolutionSeconds)

	optCost := schedule.CostCurve(schedule.LoadCurve(s.sched.Optimized, s.constraints, allBatteries), rotatedPrice, s.cfg.ResolutionSeconds)
	baseCost := schedule.CostCurve(schedule.LoadCurve(s.sched.Base, make([]bool, s.cfg.SlotCount), allBatteries), rotatedPrice, s.cfg.ResolutionSeconds)

	return SchedulesSnapshot{
		ResolutionSeconds: s.cfg.ResolutionSeconds,
		Optimized:         append([]int(nil), s.sched.Optimized...),
		Baseline:          append([]int(nil), s.sched.Base...),
		PriceStats:        analysis.ComputePriceStats(rotatedPrice),
		Savings:           analysis.ComputeSavings(schedule.TotalCost(optCost), schedule.TotalCost(baseCost)),
	}
}

// allBatteriesLocked indexes every battery known to the simulation --
// waiting, charging, finished, and the two halves of every open request --
// by ID, for curve/cost derivations that need to look up a battery by the
// ID a schedule slot names. Callers must already hold mu.
func (s *Simulation) allBatteriesLocked() map[int]*model.Battery {
	all := map[int]*model.Battery{}
	for _, pool := range [][]*model.Battery{s.waiting, s.charging, s.finished} {
		for _, b := range pool {
			all[b.ID] = b
		}
	}
	for _, r := range s.requests {
		all[r.ChargedBattery.ID] = r.ChargedBattery
		all[r.NewBattery.ID] = r.NewBattery
	}
	return all
}

// CurveReport pairs a schedule's load curve (W) and cost curve (EUR) with
// its total cost.
type CurveReport struct {
	Load      []float64
	Cost      []decimal.Decimal
	TotalCost decimal.Decimal
}

// Visualisation is the composite snapshot served by GET /visualisation.
type Visualisation struct {
	CurrentTime            string
	Optimized              CurveReport
	Unoptimized            CurveReport
	PriceProfile           []float64
	Batteries              BatteriesSnapshot
	DemandEventsFromNow    []int
	BatteryPrognosisWait   []int
	BatteryPrognosisFinish []int
	PendingChargeRequests  int
	PendingExchanges       int
	SavingsEUR             decimal.Decimal
}

// Visualisation returns the composite snapshot.
func (s *Simulation) Visualisation() Visualisation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visualisationLocked()
}

func (s *Simulation) visualisationLocked() Visualisation {
	allBatteries := s.allBatteriesLocked()

	rotatedPrice := rotate(s.priceAbsolute, s.currentTime/s.cfg.ResolutionSeconds)

	optLoad := schedule.LoadCurve(s.sched.Optimized, s.constraints, allBatteries)
	optCost := schedule.CostCurve(optLoad, rotatedPrice, s.cfg.ResolutionSeconds)
	baseLoad := schedule.LoadCurve(s.sched.Base, make([]bool, s.cfg.SlotCount), allBatteries)
	baseCost := schedule.CostCurve(baseLoad, rotatedPrice, s.cfg.ResolutionSeconds)

	savings := analysis.ComputeSavings(schedule.TotalCost(optCost), schedule.TotalCost(baseCost))

	waitPrognosis, finishPrognosis := prognosis(s.sched.Optimized, len(s.waiting), len(s.finished))

	return Visualisation{
		CurrentTime: formatHMS(s.currentTime),
		Optimized: CurveReport{
			Load: optLoad, Cost: optCost, TotalCost: savings.OptimizedCost,
		},
		Unoptimized: CurveReport{
			Load: baseLoad, Cost: baseCost, TotalCost: savings.BaselineCost,
		},
		PriceProfile:           rotatedPrice,
		Batteries:              BatteriesSnapshot{s.waiting, s.charging, s.finished, copyRequests(s.requests)},
		DemandEventsFromNow:    rotatedEventsFromNow(s.demandEvents, s.cfg.SlotCount*s.cfg.ResolutionSeconds, s.currentTime),
		BatteryPrognosisWait:   waitPrognosis,
		BatteryPrognosisFinish: finishPrognosis,
		PendingChargeRequests:  len(s.requests),
		PendingExchanges:       len(s.pendingCompletions),
		SavingsEUR:             savings.SavingsEUR,
	}
}

// prognosis walks the optimized schedule and, for each slot, reports how
// many of the battery ids that were waiting-or-unfinished at slot 0 remain
// outstanding (wait) and how many have completed (finish) by that slot.
// Mirrors the reference implementation's transition-counting approach,
// including its known quirk: a trailing idle (-1) slot counts as one more
// completion transition, so the final wait count can read one lower than
// the true outstanding count when the schedule ends idle.
func prognosis(optimized []int, initialWaiting, initialFinished int) (wait, finish []int) {
	wait = make([]int, len(optimized))
	finish = make([]int, len(optimized))
	completions := 0
	prev := -2 // sentinel distinct from the idle value -1
	for i, id := range optimized {
		if id != prev {
			completions++
		}
		prev = id
		w := initialWaiting - completions
		if w < 0 {
			w = 0
		}
		wait[i] = w
		finish[i] = initialFinished + completions
	}
	return wait, finish
}

func formatHMS(totalSeconds int) string {
	d := time.Duration(totalSeconds) * time.Second
	h := int(d.Hours()) % 24
	m := int(d.Minutes()) % 60
	sec := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, sec)
}
