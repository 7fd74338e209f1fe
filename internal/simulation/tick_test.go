package simulation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedClock advances by step every call, so tick()'s elapsed-time
// computation is deterministic without any real sleeping.
func fixedClock(start time.Time, step time.Duration) func() time.Time {
	current := start
	first := true
	return func() time.Time {
		if first {
			first = false
			return current
		}
		current = current.Add(step)
		return current
	}
}

func TestTick_PromotesWaitingIntoCharging(t *testing.T) {
	s := newTestSimulation(4, 900, 1)
	s.SetClock(fixedClock(time.Unix(0, 0), time.Millisecond))

	_, err := s.CreateBattery(0.5, 5.0, 2000)
	require.NoError(t, err)
	require.Empty(t, s.GetBatteries().Charging)

	s.tick(context.Background())

	snap := s.GetBatteries()
	assert.Len(t, snap.Charging, 1)
	assert.Empty(t, snap.Waiting)
}

func TestTick_ChargerCountLimitsConcurrentCharging(t *testing.T) {
	s := newTestSimulation(4, 900, 1)
	s.SetClock(fixedClock(time.Unix(0, 0), time.Millisecond))

	_, err := s.CreateBattery(0.5, 5.0, 2000)
	require.NoError(t, err)
	_, err = s.CreateBattery(0.5, 5.0, 2000)
	require.NoError(t, err)

	s.tick(context.Background())

	snap := s.GetBatteries()
	assert.Len(t, snap.Charging, 1, "only one charger is configured")
	assert.Len(t, snap.Waiting, 1)
}

func TestTick_CompletesBatteryAndMovesToFinished(t *testing.T) {
	// capacity/power chosen so SOCDeltaPerTick == 0.5: one tick at 0.5 SOC
	// reaches exactly 1.0.
	s := newTestSimulation(4, 3600, 1)
	s.SetClock(fixedClock(time.Unix(0, 0), time.Millisecond))

	_, err := s.CreateBattery(0.5, 1.0, 500) // 500W*1h / 1000Wh = 0.5
	require.NoError(t, err)

	s.tick(context.Background()) // promotes into charging
	s.tick(context.Background()) // progresses charging to completion

	snap := s.GetBatteries()
	assert.Empty(t, snap.Charging)
	require.Len(t, snap.Finished, 1)
	assert.Equal(t, 1.0, snap.Finished[0].SOC)
}

func TestTick_RollsConstraintMaskLeft(t *testing.T) {
	s := newTestSimulation(4, 900, 1)
	s.SetClock(fixedClock(time.Unix(0, 0), time.Millisecond))
	s.constraints = []bool{true, true, false, false}

	// tick re-plans right after this step, and the planner may reset the
	// mask (infeasible pools) or block further slots (slack demand), so the
	// roll step is checked on its own.
	s.mu.Lock()
	s.rollConstraintsLocked()
	s.mu.Unlock()

	assert.Equal(t, []bool{true, false, false, false}, s.constraints)
}

func TestTick_AdvancesCurrentTimeByOneResolution(t *testing.T) {
	s := newTestSimulation(4, 900, 1)
	s.SetClock(fixedClock(time.Unix(0, 0), time.Millisecond))

	before := s.currentTime
	s.tick(context.Background())
	assert.Equal(t, before+900, s.currentTime)
}

func TestTick_ProgressSkippedWhenFirstSlotBlocked(t *testing.T) {
	s := newTestSimulation(4, 900, 1)
	s.SetClock(fixedClock(time.Unix(0, 0), time.Millisecond))

	_, err := s.CreateBattery(0.5, 5.0, 2000)
	require.NoError(t, err)
	s.tick(context.Background()) // promote into charging

	s.mu.Lock()
	socBefore := s.charging[0].SOC
	s.constraints[0] = true
	s.mu.Unlock()

	s.tick(context.Background())

	s.mu.Lock()
	socAfter := s.charging[0].SOC
	s.mu.Unlock()
	assert.Equal(t, socBefore, socAfter, "charging must not progress while the current slot is blocked")
}
