// Package schedule builds and evaluates per-slot charger assignments.
package schedule

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Stippler/drone-hustle/internal/model"
)

// Schedule holds the optimized assignment (subject to the active constraint
// mask) and the unoptimized baseline assignment (constraints all false) for
// the current horizon. Both are battery-ID-per-slot arrays; -1 means idle.
type Schedule struct {
	Optimized []int
	Base      []int
}

// New allocates a Schedule for a horizon of the given slot count, with both
// arrays idle.
func New(slotCount int) *Schedule {
	return &Schedule{
		Optimized: idleSlots(slotCount),
		Base:      idleSlots(slotCount),
	}
}

func idleSlots(n int) []int {
	s := make([]int, n)
	for i := range s {
		s[i] = -1
	}
	return s
}

// Update recomputes Optimized against constraints and Base against an
// unconstrained mask, for the given pools and cumulative demand array d.
// It returns whether the optimized assignment is feasible: for every slot i,
// the number of distinct-battery transitions in Optimized[0:i+1] must be >=
// d[i].
func (s *Schedule) Update(waiting, charging []*model.Battery, d []int, constraints []bool) bool {
	s.Optimized = assign(len(s.Optimized), waiting, charging, constraints)
	unconstrained := make([]bool, len(constraints))
	s.Base = assign(len(s.Base), waiting, charging, unconstrained)
	return feasible(s.Optimized, d)
}

// assign sorts waiting batteries by SOC descending (stable, so ties keep
// their relative pool order) and walks charging batteries (uninterruptible,
// first) then waiting batteries, giving each a contiguous run of slots sized
// by its RemainingTimesteps against the as-yet-unassigned suffix of the
// constraint mask.
func assign(slotCount int, waiting, charging []*model.Battery, constraints []bool) []int {
	sorted := make([]*model.Battery, len(waiting))
	copy(sorted, waiting)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].SOC > sorted[j].SOC
	})

	out := idleSlots(slotCount)
	i := 0
	assignRun := func(b *model.Battery) {
		if i >= slotCount {
			return
		}
		timesteps := b.RemainingTimesteps(constraints[i:])
		end := slotCount
		if timesteps >= 0 {
			end = i + timesteps
			if end > slotCount {
				end = slotCount
			}
		}
		for ; i < end; i++ {
			out[i] = b.ID
		}
	}

	for _, b := range charging {
		assignRun(b)
	}
	for _, b := range sorted {
		assignRun(b)
	}
	return out
}

// feasible reports whether, for every slot i, the cumulative number of
// distinct-battery transitions in optimized[0:i+1] is at least d[i].
func feasible(optimized []int, d []int) bool {
	transitions := 0
	prev := -1
	for i, battery := range optimized {
		if battery != prev {
			transitions++
		}
		prev = battery
		if i < len(d) && transitions < d[i] {
			return false
		}
	}
	return true
}

// Format renders the optimized schedule as contiguous battery runs, the way
// an operator reading a log would want to see it: "(B 3: 0-4)".
func (s *Schedule) Format() string {
	return formatRuns(s.Optimized)
}

func formatRuns(slots []int) string {
	var runs []string
	i := 0
	for i < len(slots) {
		id := slots[i]
		if id == -1 {
			i++
			continue
		}
		start := i
		for i < len(slots) && slots[i] == id {
			i++
		}
		runs = append(runs, fmt.Sprintf("(B %d: %d-%d)", id, start, i-1))
	}
	return strings.Join(runs, ", ")
}
