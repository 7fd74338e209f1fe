package analysis

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestComputePriceStats_SummarizesDistribution(t *testing.T) {
	stats := ComputePriceStats([]float64{10, 20, 30, 40, 50})
	assert.Equal(t, 10.0, stats.Min)
	assert.Equal(t, 50.0, stats.Max)
	assert.Equal(t, 30.0, stats.Mean)
	assert.InDelta(t, 12.0, stats.P05, 1e-9)
	assert.InDelta(t, 48.0, stats.P95, 1e-9)
}

func TestComputePriceStats_EmptyInput(t *testing.T) {
	stats := ComputePriceStats(nil)
	assert.Equal(t, PriceStats{}, stats)
}

func TestComputePriceStats_SingleValue(t *testing.T) {
	stats := ComputePriceStats([]float64{42})
	assert.Equal(t, 42.0, stats.Min)
	assert.Equal(t, 42.0, stats.Max)
	assert.Equal(t, 42.0, stats.P05)
	assert.Equal(t, 42.0, stats.P95)
}

func TestComputeSavings_ReportsDifference(t *testing.T) {
	s := ComputeSavings(decimal.NewFromInt(80), decimal.NewFromInt(100))
	assert.True(t, decimal.NewFromInt(20).Equal(s.SavingsEUR))
}
