// Package planner implements the greedy constraint-tightening search that
// decides which slots to additionally block in order to minimize cost while
// keeping the schedule feasible against the demand forecast.
package planner

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/Stippler/drone-hustle/internal/metrics"
	"github.com/Stippler/drone-hustle/internal/model"
	"github.com/Stippler/drone-hustle/internal/schedule"
)

// Plan mutates constraints in place, greedily blocking the most expensive
// still-unblocked slots first as long as the schedule remains feasible, and
// leaves sched holding the resulting Optimized/Base assignment.
//
// If the starting constraints are already infeasible, Plan resets them to
// all-unblocked and retries once; if that retry is also infeasible it logs a
// warning, leaves the constraints all unblocked and restores the schedule's
// previous assignment, returning false.
//
// budget bounds the wall-clock time spent searching for additional slots to
// block; it does not bound the initial feasibility check.
func Plan(ctx context.Context, sched *schedule.Schedule, waiting, charging []*model.Battery, d []int, priceEURPerMWh []float64, constraints []bool, budget time.Duration) bool {
	start := time.Now()
	deadline := start.Add(time.Duration(float64(budget) * 0.9))

	prevOptimized, prevBase := sched.Optimized, sched.Base
	if !sched.Update(waiting, charging, d, constraints) {
		for i := range constraints {
			constraints[i] = false
		}
		if !sched.Update(waiting, charging, d, constraints) {
			sched.Optimized, sched.Base = prevOptimized, prevBase
			slog.Warn("planner: infeasible even with all slots unblocked")
			metrics.Default().InfeasibleTotal.Inc()
			return false
		}
	}

	order := priceDescendingOrder(priceEURPerMWh)
	blocked := 0
	for _, idx := range order {
		if ctx.Err() != nil || time.Now().After(deadline) {
			break
		}
		if constraints[idx] {
			continue
		}
		constraints[idx] = true
		if sched.Update(waiting, charging, d, constraints) {
			blocked++
			continue
		}
		constraints[idx] = false
		// Restore the feasible schedule for the reverted mask.
		sched.Update(waiting, charging, d, constraints)
	}

	metrics.Default().PlanDurationSeconds.Observe(time.Since(start).Seconds())
	metrics.Default().BlockedSlots.Set(float64(blocked))
	return true
}

// priceDescendingOrder returns slot indices ordered most-expensive-first.
// This resolves the spec's traversal-direction open question: blocking the
// costliest slots first, not the cheapest, is what actually minimizes cost.
func priceDescendingOrder(price []float64) []int {
	order := make([]int, len(price))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return price[order[i]] > price[order[j]]
	})
	return order
}
