// Package model holds the charging-station domain's core entities:
// batteries and the exchange requests that move them between drones and
// chargers.
package model

import (
	"errors"
	"fmt"
	"math"
)

// ErrOutOfRange is returned by SetChargingPower when the requested power
// exceeds the battery's physical limit.
var ErrOutOfRange = errors.New("charging power out of range")

// Battery is a single swappable battery tracked by the scheduler, whether it
// is waiting for a charger, currently charging, or finished (soc == 1).
//
// Units: Capacity in kWh, MaxPowerWatt/ActualPowerWatt in W, SOC a fraction
// in [0,1].
type Battery struct {
	ID            int
	SOC           float64
	CapacityKWh   float64
	MaxPowerWatt  float64
	ActualPowerWatt float64

	// ResolutionSeconds is the slot duration used to derive SOCDeltaPerTick;
	// it is fixed for the lifetime of the battery.
	ResolutionSeconds int

	// SOCDeltaPerTick is the SOC gained per tick at ActualPowerWatt.
	SOCDeltaPerTick float64
}

// NewBattery constructs a battery charging at its maximum power.
func NewBattery(id int, soc, capacityKWh, maxPowerWatt float64, resolutionSeconds int) (*Battery, error) {
	b := &Battery{
		ID:                id,
		SOC:               soc,
		CapacityKWh:       capacityKWh,
		MaxPowerWatt:      maxPowerWatt,
		ResolutionSeconds: resolutionSeconds,
	}
	if err := b.SetChargingPower(maxPowerWatt); err != nil {
		return nil, err
	}
	return b, nil
}

// SetChargingPower sets the power this battery is actually charged at, which
// must not exceed MaxPowerWatt, and recomputes SOCDeltaPerTick.
func (b *Battery) SetChargingPower(chargingPowerWatt float64) error {
	if chargingPowerWatt > b.MaxPowerWatt {
		return fmt.Errorf("%w: %g > %g", ErrOutOfRange, chargingPowerWatt, b.MaxPowerWatt)
	}
	b.ActualPowerWatt = chargingPowerWatt
	b.SOCDeltaPerTick = chargingPowerWatt * (float64(b.ResolutionSeconds) / 3600) / (b.CapacityKWh * 1000)
	return nil
}

// Update advances SOC by one tick at ActualPowerWatt, clamping at 1.0, and
// reports whether the battery just reached full charge.
func (b *Battery) Update() (completed bool) {
	b.SOC += b.SOCDeltaPerTick
	if b.SOC >= 1.0 {
		b.SOC = 1.0
		return true
	}
	return false
}

// RemainingTimesteps returns the number of leading slots of maskSuffix
// (inclusive, 1-indexed count) that must be traversed before this battery has
// accumulated enough unblocked (false) slots to reach soc == 1. An already
// full battery needs 0 slots. It returns -1 if maskSuffix does not contain
// enough unblocked slots.
func (b *Battery) RemainingTimesteps(maskSuffix []bool) int {
	neededCharge := 1 - b.SOC
	minNeeded := int(math.Ceil(neededCharge / b.SOCDeltaPerTick))
	if minNeeded <= 0 {
		return 0
	}

	countFalse := 0
	for i, blocked := range maskSuffix {
		if !blocked {
			countFalse++
		}
		if countFalse >= minNeeded {
			return i + 1
		}
	}
	return -1
}

func (b *Battery) String() string {
	return fmt.Sprintf("B %d: soc %.1f%%, capacity %gkWh, charging power %g/%gW, soc delta/tick %.5f",
		b.ID, b.SOC*100, b.CapacityKWh, b.ActualPowerWatt, b.MaxPowerWatt, b.SOCDeltaPerTick)
}
