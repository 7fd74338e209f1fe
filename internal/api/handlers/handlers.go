// Package handlers implements the gin handlers for the control API, each a
// thin adapter translating a request into one Simulation operation and
// shaping its result into the JSON response models.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Stippler/drone-hustle/internal/api/models"
	"github.com/Stippler/drone-hustle/internal/simulation"
)

// Handlers bundles the Simulation every handler operates on.
type Handlers struct {
	Sim *simulation.Simulation
}

// New constructs a Handlers value.
func New(sim *simulation.Simulation) *Handlers {
	return &Handlers{Sim: sim}
}

// CreateBattery handles POST /battery.
func (h *Handlers) CreateBattery(c *gin.Context) {
	var req models.BatteryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.NewErrorResponse("BAD_REQUEST", err.Error()))
		return
	}

	b, err := h.Sim.CreateBattery(req.StateOfCharge, req.CapacityKWh, req.MaxPowerWatt)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.NewErrorResponse("OUT_OF_RANGE", err.Error()))
		return
	}
	c.JSON(http.StatusOK, models.BatteryResponse{
		Success: true,
		ID:      b.ID,
		Message: "battery added",
	})
}

// ClearBatteries handles DELETE /batteries.
func (h *Handlers) ClearBatteries(c *gin.Context) {
	h.Sim.ClearBatteries()
	c.JSON(http.StatusOK, models.SimpleResponse{Success: true})
}

// ListBatteries handles GET /batteries.
func (h *Handlers) ListBatteries(c *gin.Context) {
	c.JSON(http.StatusOK, models.BatteriesFromSnapshot(h.Sim.GetBatteries()))
}

// ChargeRequest handles POST /charge-request.
func (h *Handlers) ChargeRequest(c *gin.Context) {
	var req models.ChargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.NewErrorResponse("BAD_REQUEST", err.Error()))
		return
	}

	if !h.Sim.CheckRequest() {
		c.JSON(http.StatusOK, models.ChargeRequestResponse{Success: false, Message: "charging request declined"})
		return
	}

	_, err := h.Sim.AddRequest(req.DroneID, req.StateOfCharge, req.CapacityKWh, req.MaxPowerWatt, req.DeltaETASeconds, req.Force)
	if errors.Is(err, simulation.ErrRejected) {
		c.JSON(http.StatusOK, models.ChargeRequestResponse{Success: false, Message: "charging request declined"})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, models.NewErrorResponse("OUT_OF_RANGE", err.Error()))
		return
	}
	c.JSON(http.StatusOK, models.ChargeRequestResponse{Success: true, Message: "charging request accepted"})
}

// Exchange handles PUT /exchange.
func (h *Handlers) Exchange(c *gin.Context) {
	var req models.ExchangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.NewErrorResponse("BAD_REQUEST", err.Error()))
		return
	}

	charged, err := h.Sim.ExchangeBattery(req.DroneID, req.StateOfCharge)
	if errors.Is(err, simulation.ErrUnknownDrone) {
		c.JSON(http.StatusNotFound, models.NewErrorResponse("UNKNOWN_DRONE", err.Error()))
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.NewErrorResponse("INTERNAL_ERROR", err.Error()))
		return
	}

	// Posting completion to req.ResponseURI asynchronously is the API
	// adapter's concern (spec.md marks it out of scope); this handler only
	// performs the authoritative state transition.
	c.JSON(http.StatusOK, models.ExchangeResponse{
		Success:     true,
		ID:          charged.ID,
		SOC:         charged.SOC,
		CapacityKWh: charged.CapacityKWh,
		MaxPowerW:   charged.MaxPowerWatt,
		Message:     "battery exchange completed",
	})
}

// ExchangeCompleted handles PUT /exchange-completed.
func (h *Handlers) ExchangeCompleted(c *gin.Context) {
	var req models.ExchangeCompletedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.NewErrorResponse("BAD_REQUEST", err.Error()))
		return
	}
	if err := h.Sim.ExchangeCompleted(req.DroneID); errors.Is(err, simulation.ErrUnknownDrone) {
		c.JSON(http.StatusNotFound, models.NewErrorResponse("UNKNOWN_DRONE", err.Error()))
		return
	}
	c.JSON(http.StatusOK, models.SimpleResponse{Success: true})
}

// SetDemand handles PUT /demand-estimation.
func (h *Handlers) SetDemand(c *gin.Context) {
	var req models.DemandEstimationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.NewErrorResponse("BAD_REQUEST", err.Error()))
		return
	}
	h.Sim.SetDemand(req.Demand)
	c.JSON(http.StatusOK, models.SimpleResponse{Success: true})
}

// SetPriceProfile handles PUT /price-profile.
func (h *Handlers) SetPriceProfile(c *gin.Context) {
	var req models.PriceProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.NewErrorResponse("BAD_REQUEST", err.Error()))
		return
	}
	h.Sim.SetPriceProfile(req.Price, req.ResolutionSeconds)
	c.JSON(http.StatusOK, models.SimpleResponse{Success: true})
}

// GetPriceProfile handles GET /price-profile.
func (h *Handlers) GetPriceProfile(c *gin.Context) {
	c.JSON(http.StatusOK, models.PriceProfileResponse{Success: true, PriceProfile: h.Sim.PriceProfile()})
}

// GetSchedules handles GET /schedules.
func (h *Handlers) GetSchedules(c *gin.Context) {
	c.JSON(http.StatusOK, models.SchedulesFromSnapshot(h.Sim.GetSchedules()))
}

// GetVisualisation handles GET /visualisation.
func (h *Handlers) GetVisualisation(c *gin.Context) {
	c.JSON(http.StatusOK, models.VisualisationFromSnapshot(h.Sim.Visualisation()))
}

// Restart handles POST /restart.
func (h *Handlers) Restart(c *gin.Context) {
	var req models.RestartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.NewErrorResponse("BAD_REQUEST", err.Error()))
		return
	}
	h.Sim.Restart(req.StartTime)
	c.JSON(http.StatusOK, models.SimpleResponse{Success: true})
}
