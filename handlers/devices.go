package handlers

import (
	"net/http"

	"fleetwatch/services/registry"

	"github.com/gin-gonic/gin"
)

// DeviceHandler exposes the registry over REST for dashboards that poll.
type DeviceHandler struct {
	Registry *registry.Registry
}

// NewDeviceHandler creates the terminal status handler.
func NewDeviceHandler(reg *registry.Registry) *DeviceHandler {
	return &DeviceHandler{Registry: reg}
}

// ListDevices handles GET /api/devices: the aggregate fleet snapshot.
func (h *DeviceHandler) ListDevices(c *gin.Context) {
	c.JSON(http.StatusOK, h.Registry.Snapshot())
}

// GetDevice handles GET /api/devices/:deviceID.
func (h *DeviceHandler) GetDevice(c *gin.Context) {
	deviceID := c.Param("deviceID")
	terminal, ok := h.Registry.Get(deviceID)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"status": "not_found"})
		return
	}

	status := "offline"
	if terminal.IsOnline {
		status = "online"
	}
	c.JSON(http.StatusOK, gin.H{"status": status, "device": terminal})
}
