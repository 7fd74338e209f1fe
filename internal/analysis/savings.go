// Package analysis derives reporting-only statistics from a completed
// planning cycle: price-profile percentiles and the euro savings the
// greedy optimizer achieved over the unconstrained baseline schedule.
package analysis

import (
	"sort"

	"github.com/shopspring/decimal"
)

// PriceStats summarizes a rotated price profile.
type PriceStats struct {
	Min, Max, Mean, P05, P95 float64
}

// ComputePriceStats returns percentile/summary statistics for prices.
func ComputePriceStats(prices []float64) PriceStats {
	if len(prices) == 0 {
		return PriceStats{}
	}
	sorted := append([]float64(nil), prices...)
	sort.Float64s(sorted)

	var sum float64
	for _, p := range sorted {
		sum += p
	}
	return PriceStats{
		Min:  sorted[0],
		Max:  sorted[len(sorted)-1],
		Mean: sum / float64(len(sorted)),
		P05:  percentile(sorted, 0.05),
		P95:  percentile(sorted, 0.95),
	}
}

func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	idx := p * float64(len(sorted)-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= len(sorted) {
		return sorted[lo]
	}
	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// Savings reports the cost reduction the optimizer achieved.
type Savings struct {
	OptimizedCost decimal.Decimal
	BaselineCost  decimal.Decimal
	SavingsEUR    decimal.Decimal
}

// ComputeSavings compares a schedule's optimized and baseline costs.
func ComputeSavings(optimizedCost, baselineCost decimal.Decimal) Savings {
	return Savings{
		OptimizedCost: optimizedCost,
		BaselineCost:  baselineCost,
		SavingsEUR:    baselineCost.Sub(optimizedCost),
	}
}
