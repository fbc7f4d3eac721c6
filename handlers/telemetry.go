package handlers

import (
	"net/http"

	"fleetwatch/services/pairing"
	"fleetwatch/utils"

	"github.com/gin-gonic/gin"
)

// TelemetryHandler receives terminal telemetry and tap events.
type TelemetryHandler struct {
	Pairing *pairing.Service
}

// NewTelemetryHandler creates the telemetry ingest handler.
func NewTelemetryHandler(p *pairing.Service) *TelemetryHandler {
	return &TelemetryHandler{Pairing: p}
}

// ReceiveData handles POST /api/data/:deviceID. The orchestrator outcome
// is reported over the live channel, never through the HTTP response;
// only malformed input fails the ingest call itself.
func (h *TelemetryHandler) ReceiveData(c *gin.Context) {
	deviceID := c.Param("deviceID")

	var payload map[string]interface{}
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid telemetry payload", err.Error())
		return
	}

	h.Pairing.HandleTelemetry(deviceID, payload)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
