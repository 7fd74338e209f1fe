package models

import (
	"github.com/Stippler/drone-hustle/internal/model"
	"github.com/Stippler/drone-hustle/internal/simulation"
)

// SimpleResponse is the shape of every endpoint that only reports success.
type SimpleResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// BatteryResponse is the response to POST /battery.
type BatteryResponse struct {
	Success bool   `json:"success"`
	ID      int    `json:"id"`
	Message string `json:"message"`
}

// ChargeRequestResponse is the response to POST /charge-request.
type ChargeRequestResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ExchangeResponse is the response to PUT /exchange.
type ExchangeResponse struct {
	Success     bool    `json:"success"`
	ID          int     `json:"id"`
	SOC         float64 `json:"soc"`
	CapacityKWh float64 `json:"capacity"`
	MaxPowerW   float64 `json:"max_power"`
	Message     string  `json:"message"`
}

// BatteryDTO is a wire-friendly projection of model.Battery.
type BatteryDTO struct {
	ID           int     `json:"id"`
	SOC          float64 `json:"soc"`
	CapacityKWh  float64 `json:"capacity_kwh"`
	MaxPowerWatt float64 `json:"max_power_watt"`
}

func batteryDTO(b *model.Battery) BatteryDTO {
	return BatteryDTO{ID: b.ID, SOC: b.SOC, CapacityKWh: b.CapacityKWh, MaxPowerWatt: b.MaxPowerWatt}
}

func batteryDTOs(bs []*model.Battery) []BatteryDTO {
	out := make([]BatteryDTO, len(bs))
	for i, b := range bs {
		out[i] = batteryDTO(b)
	}
	return out
}

// RequestDTO is a wire-friendly projection of model.Request.
type RequestDTO struct {
	DroneID        string     `json:"drone_id"`
	ChargedBattery BatteryDTO `json:"charged_battery"`
	NewBattery     BatteryDTO `json:"new_battery"`
}

// BatteriesResponse is the response to GET /batteries.
type BatteriesResponse struct {
	Success   bool         `json:"success"`
	Batteries BatteriesDTO `json:"batteries"`
}

type BatteriesDTO struct {
	Waiting  []BatteryDTO `json:"waiting"`
	Charging []BatteryDTO `json:"charging"`
	Finished []BatteryDTO `json:"finished"`
	Requests []RequestDTO `json:"requests"`
}

// BatteriesFromSnapshot projects a simulation.BatteriesSnapshot into the
// wire DTO.
func BatteriesFromSnapshot(snap simulation.BatteriesSnapshot) BatteriesResponse {
	requests := make([]RequestDTO, 0, len(snap.Requests))
	for droneID, r := range snap.Requests {
		requests = append(requests, RequestDTO{
			DroneID:        droneID,
			ChargedBattery: batteryDTO(r.ChargedBattery),
			NewBattery:     batteryDTO(r.NewBattery),
		})
	}
	return BatteriesResponse{
		Success: true,
		Batteries: BatteriesDTO{
			Waiting:  batteryDTOs(snap.Waiting),
			Charging: batteryDTOs(snap.Charging),
			Finished: batteryDTOs(snap.Finished),
			Requests: requests,
		},
	}
}

// SchedulesResponse is the response to GET /schedules.
type SchedulesResponse struct {
	Success   bool          `json:"success"`
	Schedules SchedulesBody `json:"schedules"`
}

type SchedulesBody struct {
	ResolutionSeconds int           `json:"resolution_seconds"`
	Optimized         []int         `json:"optimized"`
	Baseline          []int         `json:"baseline"`
	PriceStats        PriceStatsDTO `json:"price_stats"`
	Savings           SavingsDTO    `json:"savings"`
}

// PriceStatsDTO is a wire-friendly projection of analysis.PriceStats.
type PriceStatsDTO struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Mean float64 `json:"mean"`
	P05  float64 `json:"p05"`
	P95  float64 `json:"p95"`
}

// SavingsDTO is a wire-friendly projection of analysis.Savings.
type SavingsDTO struct {
	OptimizedCostEUR string `json:"optimized_cost_eur"`
	BaselineCostEUR  string `json:"baseline_cost_eur"`
	SavingsEUR       string `json:"savings_eur"`
}

// SchedulesFromSnapshot projects a simulation.SchedulesSnapshot into the
// wire DTO.
func SchedulesFromSnapshot(snap simulation.SchedulesSnapshot) SchedulesResponse {
	return SchedulesResponse{
		Success: true,
		Schedules: SchedulesBody{
			ResolutionSeconds: snap.ResolutionSeconds,
			Optimized:         snap.Optimized,
			Baseline:          snap.Baseline,
			PriceStats: PriceStatsDTO{
				Min:  snap.PriceStats.Min,
				Max:  snap.PriceStats.Max,
				Mean: snap.PriceStats.Mean,
				P05:  snap.PriceStats.P05,
				P95:  snap.PriceStats.P95,
			},
			Savings: SavingsDTO{
				OptimizedCostEUR: snap.Savings.OptimizedCost.StringFixed(6),
				BaselineCostEUR:  snap.Savings.BaselineCost.StringFixed(6),
				SavingsEUR:       snap.Savings.SavingsEUR.StringFixed(6),
			},
		},
	}
}

// PriceProfileResponse is the response to GET /price-profile.
type PriceProfileResponse struct {
	Success      bool      `json:"success"`
	PriceProfile []float64 `json:"price_profile"`
}

// CurveDTO pairs a load curve (W) with its derived cost curve (EUR).
type CurveDTO struct {
	Load      []float64 `json:"load"`
	Cost      []string  `json:"cost"`
	TotalCost string    `json:"total_cost"`
}

func curveDTO(r simulation.CurveReport) CurveDTO {
	cost := make([]string, len(r.Cost))
	for i, c := range r.Cost {
		cost[i] = c.StringFixed(6)
	}
	return CurveDTO{Load: r.Load, Cost: cost, TotalCost: r.TotalCost.StringFixed(6)}
}

// VisualisationResponse is the composite payload served by GET /visualisation.
type VisualisationResponse struct {
	Success               bool         `json:"success"`
	CurrentTime           string       `json:"current_time"`
	OptimizedSchedule     CurveDTO     `json:"optimized_schedule"`
	UnoptimizedSchedule   CurveDTO     `json:"unoptimized_schedule"`
	PriceProfile          []float64    `json:"price_profile"`
	Batteries             BatteriesDTO `json:"batteries"`
	DemandEvents          []int        `json:"demand_events"`
	BatteryPrognosis      PrognosisDTO `json:"battery_prognosis"`
	PendingChargeRequests int          `json:"pending_charge_requests"`
	PendingExchanges      int          `json:"pending_exchange_requests"`
	SavingsEUR            string       `json:"savings_eur"`
}

type PrognosisDTO struct {
	Waiting  []int `json:"waiting"`
	Finished []int `json:"finished"`
}

// VisualisationFromSnapshot projects a simulation.Visualisation into the
// wire DTO.
func VisualisationFromSnapshot(snap simulation.Visualisation) VisualisationResponse {
	requests := make([]RequestDTO, 0, len(snap.Batteries.Requests))
	for droneID, r := range snap.Batteries.Requests {
		requests = append(requests, RequestDTO{
			DroneID:        droneID,
			ChargedBattery: batteryDTO(r.ChargedBattery),
			NewBattery:     batteryDTO(r.NewBattery),
		})
	}
	return VisualisationResponse{
		Success:             true,
		CurrentTime:         snap.CurrentTime,
		OptimizedSchedule:   curveDTO(snap.Optimized),
		UnoptimizedSchedule: curveDTO(snap.Unoptimized),
		PriceProfile:        snap.PriceProfile,
		Batteries: BatteriesDTO{
			Waiting:  batteryDTOs(snap.Batteries.Waiting),
			Charging: batteryDTOs(snap.Batteries.Charging),
			Finished: batteryDTOs(snap.Batteries.Finished),
			Requests: requests,
		},
		DemandEvents: snap.DemandEventsFromNow,
		BatteryPrognosis: PrognosisDTO{
			Waiting:  snap.BatteryPrognosisWait,
			Finished: snap.BatteryPrognosisFinish,
		},
		PendingChargeRequests: snap.PendingChargeRequests,
		PendingExchanges:      snap.PendingExchanges,
		SavingsEUR:            snap.SavingsEUR.StringFixed(6),
	}
}

// ErrorResponse is the shape returned for recoverable, status-bearing
// failures and for panics recovered by middleware.ErrorHandler.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries a machine-readable code alongside a human message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewErrorResponse builds an ErrorResponse.
func NewErrorResponse(code, message string) ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: code, Message: message}}
}
