package schedule

import (
	"github.com/shopspring/decimal"

	"github.com/Stippler/drone-hustle/internal/model"
)

// LoadCurve returns, for each slot, the charging power in watts: 0 when the
// slot is idle or blocked, otherwise the occupying battery's actual power.
func LoadCurve(slots []int, constraints []bool, batteries map[int]*model.Battery) []float64 {
	load := make([]float64, len(slots))
	for i, id := range slots {
		if id == -1 || (i < len(constraints) && constraints[i]) {
			continue
		}
		if b, ok := batteries[id]; ok {
			load[i] = b.ActualPowerWatt
		}
	}
	return load
}

// CostCurve converts a load curve (W) and a price profile (EUR/MWh) into a
// per-slot cost curve in EUR, using decimal arithmetic to avoid float drift
// in the aggregate. price[i] is divided by 1e6 to convert EUR/MWh into
// EUR/Wh-equivalent before multiplying by the slot's energy in Wh.
func CostCurve(load []float64, priceEURPerMWh []float64, resolutionSeconds int) []decimal.Decimal {
	hours := decimal.NewFromInt(int64(resolutionSeconds)).Div(decimal.NewFromInt(3600))
	perWh := decimal.NewFromInt(1_000_000)

	cost := make([]decimal.Decimal, len(load))
	for i, w := range load {
		if i >= len(priceEURPerMWh) {
			break
		}
		energyWh := decimal.NewFromFloat(w).Mul(hours)
		priceEURPerWh := decimal.NewFromFloat(priceEURPerMWh[i]).Div(perWh)
		cost[i] = energyWh.Mul(priceEURPerWh)
	}
	return cost
}

// TotalCost sums a cost curve.
func TotalCost(cost []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, c := range cost {
		total = total.Add(c)
	}
	return total
}
