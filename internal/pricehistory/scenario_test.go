package pricehistory

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Stippler/drone-hustle/internal/model"
)

func TestRun_ProducesOneRowPerSlot(t *testing.T) {
	b, err := model.NewBattery(1, 0.5, 5.0, 2000, 900)
	require.NoError(t, err)

	rows := []PriceRow{
		{SecondsSinceMidnight: 0, PriceEURPerMWh: 10},
		{SecondsSinceMidnight: 900, PriceEURPerMWh: 20},
	}
	scenario := Scenario{
		ResolutionSeconds: 900,
		Batteries:         []*model.Battery{b},
		DemandCumulative:  []int{0, 0},
	}

	result, summary, err := Run(rows, scenario)
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, 0, result[0].Slot)
	assert.InDelta(t, 10, result[0].PriceEURPerMWh, 1e-9)
	assert.Equal(t, b.ID, result[0].OptimizedID)

	// Price summary covers the resampled [10, 20] profile.
	assert.InDelta(t, 10, summary.Price.Min, 1e-9)
	assert.InDelta(t, 20, summary.Price.Max, 1e-9)

	// Demand is slack ([0, 0]) throughout, so the planner can block every
	// slot without ever violating feasibility; it does, per the greedy
	// price-descending walk. The single battery can't finish within a
	// 2-slot horizon regardless of blocking (RemainingTimesteps returns its
	// -1 sentinel either way), so Optimized still assigns battery 1 to both
	// slots, same as Base -- but the optimized load is zeroed by the fully
	// blocked mask while the baseline load isn't, so the full baseline cost
	// is "saved": 2000W for 0.25h at 10 and 20 EUR/MWh is 0.005 + 0.01 EUR.
	assert.True(t, decimal.NewFromFloat(0.015).Equal(summary.Savings.SavingsEUR))
}

func TestResampleRows_CarriesLastKnownPriceForward(t *testing.T) {
	rows := []PriceRow{{SecondsSinceMidnight: 0, PriceEURPerMWh: 15}}
	out := resampleRows(rows, 900, 3)
	assert.Equal(t, []float64{15, 15, 15}, out)
}
