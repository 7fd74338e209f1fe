package simulation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildDemandCumulative_AccumulatesAcrossSlots(t *testing.T) {
	// Two events per day, 4 hourly slots, starting exactly at midnight.
	events := []int{0, 7200} // 00:00 and 02:00
	d := buildDemandCumulative(events, 4, 3600, 0)
	assert.Equal(t, []int{1, 1, 2, 2}, d)
}

func TestBuildDemandCumulative_RotatesRelativeToCurrentTime(t *testing.T) {
	events := []int{0, 7200}
	// currentTime = 1h: event at 00:00 is now "1h in the past" (excluded),
	// event at 02:00 is "1h from now".
	d := buildDemandCumulative(events, 4, 3600, 3600)
	assert.Equal(t, []int{0, 1, 1, 1}, d)
}

func TestSortedCopy_DoesNotMutateInput(t *testing.T) {
	events := []int{5, 1, 3}
	sorted := sortedCopy(events)
	assert.Equal(t, []int{1, 3, 5}, sorted)
	assert.Equal(t, []int{5, 1, 3}, events)
}

func TestRotatedEventsFromNow_TilesAcrossDayBoundary(t *testing.T) {
	events := []int{0}
	out := rotatedEventsFromNow(events, 2*secondsPerDay, 0)
	assert.Equal(t, []int{0, secondsPerDay}, out)
}
