package handlers

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Stippler/drone-hustle/internal/api/models"
	"github.com/Stippler/drone-hustle/internal/simulation"
)

func newTestHandlers() *Handlers {
	gin.SetMode(gin.TestMode)
	sim := simulation.New(simulation.Config{
		ResolutionSeconds: 3600,
		SlotCount:         4,
		ChargerCount:      2,
	}, slog.Default())
	return New(sim)
}

func doJSON(h gin.HandlerFunc, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = req
	h(c)
	return rec
}

func TestCreateBattery_AcceptsValidRequest(t *testing.T) {
	h := newTestHandlers()
	rec := doJSON(h.CreateBattery, http.MethodPost, "/battery", models.BatteryRequest{
		BatteryID:     "b-1",
		StateOfCharge: 0.5,
		CapacityKWh:   5,
		MaxPowerWatt:  2000,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.BatteryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 1, resp.ID)
}

func TestCreateBattery_RejectsMalformedBody(t *testing.T) {
	h := newTestHandlers()
	req := httptest.NewRequest(http.MethodPost, "/battery", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = req
	h.CreateBattery(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "BAD_REQUEST", resp.Error.Code)
}

func TestListBatteries_ReflectsCreatedBattery(t *testing.T) {
	h := newTestHandlers()
	doJSON(h.CreateBattery, http.MethodPost, "/battery", models.BatteryRequest{
		BatteryID: "b-1", StateOfCharge: 0.5, CapacityKWh: 5, MaxPowerWatt: 2000,
	})

	rec := doJSON(h.ListBatteries, http.MethodGet, "/batteries", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.BatteriesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Batteries.Waiting, 1)
}

func TestClearBatteries_EmptiesPools(t *testing.T) {
	h := newTestHandlers()
	doJSON(h.CreateBattery, http.MethodPost, "/battery", models.BatteryRequest{
		BatteryID: "b-1", StateOfCharge: 0.5, CapacityKWh: 5, MaxPowerWatt: 2000,
	})

	rec := doJSON(h.ClearBatteries, http.MethodDelete, "/batteries", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	listRec := doJSON(h.ListBatteries, http.MethodGet, "/batteries", nil)
	var resp models.BatteriesResponse
	require.NoError(t, json.Unmarshal(listRec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Batteries.Waiting)
}

func TestChargeRequest_DeclinedWithoutFinishedBattery(t *testing.T) {
	h := newTestHandlers()
	rec := doJSON(h.ChargeRequest, http.MethodPost, "/charge-request", models.ChargeRequest{
		DroneID: "d-1", CapacityKWh: 5, MaxPowerWatt: 2000,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.ChargeRequestResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
}

func TestChargeRequest_AcceptedWhenFinishedBatteryAvailable(t *testing.T) {
	h := newTestHandlers()
	doJSON(h.CreateBattery, http.MethodPost, "/battery", models.BatteryRequest{
		BatteryID: "b-1", StateOfCharge: 1.0, CapacityKWh: 5, MaxPowerWatt: 2000,
	})

	rec := doJSON(h.ChargeRequest, http.MethodPost, "/charge-request", models.ChargeRequest{
		DroneID: "d-1", CapacityKWh: 5, MaxPowerWatt: 2000,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.ChargeRequestResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
}

func TestExchange_UnknownDroneReturnsNotFound(t *testing.T) {
	h := newTestHandlers()
	rec := doJSON(h.Exchange, http.MethodPut, "/exchange", models.ExchangeRequest{
		DroneID: "ghost", StateOfCharge: 0.1,
	})
	require.Equal(t, http.StatusNotFound, rec.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "UNKNOWN_DRONE", resp.Error.Code)
}

func TestExchange_ReturnsFinishedBatteryForKnownDrone(t *testing.T) {
	h := newTestHandlers()
	doJSON(h.CreateBattery, http.MethodPost, "/battery", models.BatteryRequest{
		BatteryID: "b-1", StateOfCharge: 1.0, CapacityKWh: 5, MaxPowerWatt: 2000,
	})
	doJSON(h.ChargeRequest, http.MethodPost, "/charge-request", models.ChargeRequest{
		DroneID: "d-1", CapacityKWh: 5, MaxPowerWatt: 2000,
	})

	rec := doJSON(h.Exchange, http.MethodPut, "/exchange", models.ExchangeRequest{
		DroneID: "d-1", StateOfCharge: 0.1,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.ExchangeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 1.0, resp.SOC)
}

func TestExchangeCompleted_UnknownDroneReturnsNotFound(t *testing.T) {
	h := newTestHandlers()
	rec := doJSON(h.ExchangeCompleted, http.MethodPut, "/exchange-completed", models.ExchangeCompletedRequest{
		DroneID: "ghost",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSetDemand_AcceptsAndReportsSuccess(t *testing.T) {
	h := newTestHandlers()
	rec := doJSON(h.SetDemand, http.MethodPut, "/demand-estimation", models.DemandEstimationRequest{
		Demand: []int{3600, 7200},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.SimpleResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
}

func TestSetAndGetPriceProfile_RoundTrips(t *testing.T) {
	h := newTestHandlers()
	rec := doJSON(h.SetPriceProfile, http.MethodPut, "/price-profile", models.PriceProfileRequest{
		Price:             []float64{10, 20, 30, 40},
		ResolutionSeconds: 3600,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	getRec := doJSON(h.GetPriceProfile, http.MethodGet, "/price-profile", nil)
	require.Equal(t, http.StatusOK, getRec.Code)

	var resp models.PriceProfileResponse
	require.NoError(t, json.Unmarshal(getRec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Len(t, resp.PriceProfile, 4)
}

func TestGetSchedules_ReturnsConfiguredResolution(t *testing.T) {
	h := newTestHandlers()
	rec := doJSON(h.GetSchedules, http.MethodGet, "/schedules", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.SchedulesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 3600, resp.Schedules.ResolutionSeconds)
	assert.Len(t, resp.Schedules.Optimized, 4)
}

func TestGetVisualisation_ReportsSuccess(t *testing.T) {
	h := newTestHandlers()
	rec := doJSON(h.GetVisualisation, http.MethodGet, "/visualisation", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.VisualisationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
}

func TestRestart_ResetsBatteryPools(t *testing.T) {
	h := newTestHandlers()
	doJSON(h.CreateBattery, http.MethodPost, "/battery", models.BatteryRequest{
		BatteryID: "b-1", StateOfCharge: 0.5, CapacityKWh: 5, MaxPowerWatt: 2000,
	})

	rec := doJSON(h.Restart, http.MethodPost, "/restart", models.RestartRequest{StartTime: 0})
	require.Equal(t, http.StatusOK, rec.Code)

	listRec := doJSON(h.ListBatteries, http.MethodGet, "/batteries", nil)
	var resp models.BatteriesResponse
	require.NoError(t, json.Unmarshal(listRec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Batteries.Waiting)
}
