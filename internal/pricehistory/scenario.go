package pricehistory

import (
	"context"
	"time"

	"github.com/Stippler/drone-hustle/internal/analysis"
	"github.com/Stippler/drone-hustle/internal/model"
	"github.com/Stippler/drone-hustle/internal/planner"
	"github.com/Stippler/drone-hustle/internal/schedule"
)

// Scenario is a synthetic single-pass planning scenario: a fleet of
// waiting batteries and a demand cumulative array, run once against a
// resampled price profile.
type Scenario struct {
	ResolutionSeconds int
	Batteries         []*model.Battery
	DemandCumulative  []int
}

// Summary reports the price-distribution and euro-savings statistics for a
// completed Run, the same report GET /schedules exposes for a live
// simulation, computed here for an offline scenario instead.
type Summary struct {
	Price   analysis.PriceStats
	Savings analysis.Savings
}

// Run resamples rows onto ResolutionSeconds/len(DemandCumulative) slots,
// plans once with an unbounded-ish budget, and returns one ResultRow per
// slot plus the run's price/savings Summary.
func Run(rows []PriceRow, scenario Scenario) ([]ResultRow, Summary, error) {
	slotCount := len(scenario.DemandCumulative)
	price := resampleRows(rows, scenario.ResolutionSeconds, slotCount)

	sched := schedule.New(slotCount)
	constraints := make([]bool, slotCount)

	budget := time.Duration(scenario.ResolutionSeconds) * time.Second
	planner.Plan(context.Background(), sched, scenario.Batteries, nil, scenario.DemandCumulative, price, constraints, budget)

	batteriesByID := map[int]*model.Battery{}
	for _, b := range scenario.Batteries {
		batteriesByID[b.ID] = b
	}
	load := schedule.LoadCurve(sched.Optimized, constraints, batteriesByID)
	cost := schedule.CostCurve(load, price, scenario.ResolutionSeconds)
	baseLoad := schedule.LoadCurve(sched.Base, make([]bool, slotCount), batteriesByID)
	baseCost := schedule.CostCurve(baseLoad, price, scenario.ResolutionSeconds)

	rowsOut := make([]ResultRow, slotCount)
	for i := 0; i < slotCount; i++ {
		rowsOut[i] = ResultRow{
			Slot:           i,
			PriceEURPerMWh: price[i],
			OptimizedID:    sched.Optimized[i],
			BaselineID:     sched.Base[i],
			LoadWatt:       load[i],
			CostEUR:        mustFloat(cost[i]),
		}
	}

	summary := Summary{
		Price:   analysis.ComputePriceStats(price),
		Savings: analysis.ComputeSavings(schedule.TotalCost(cost), schedule.TotalCost(baseCost)),
	}
	return rowsOut, summary, nil
}

func mustFloat(d interface{ Float64() (float64, bool) }) float64 {
	f, _ := d.Float64()
	return f
}

func resampleRows(rows []PriceRow, resolutionSeconds, slotCount int) []float64 {
	out := make([]float64, slotCount)
	if len(rows) == 0 {
		return out
	}
	for _, r := range rows {
		idx := r.SecondsSinceMidnight / resolutionSeconds
		if idx >= 0 && idx < slotCount {
			out[idx] = r.PriceEURPerMWh
		}
	}
	// Fill any untouched slots by carrying the last known price forward,
	// so a sparse source CSV still produces a full profile.
	last := out[0]
	for i := range out {
		if out[i] == 0 {
			out[i] = last
		} else {
			last = out[i]
		}
	}
	return out
}
