package handlers

import (
	"fmt"
	"net/http"

	"fleetwatch/services/pairing"

	"github.com/gin-gonic/gin"
)

// SessionHandler force-ends registration sessions.
type SessionHandler struct {
	Pairing *pairing.Service
}

// NewSessionHandler creates the session control handler.
func NewSessionHandler(p *pairing.Service) *SessionHandler {
	return &SessionHandler{Pairing: p}
}

// EndSession handles POST /api/end-session/:deviceID.
func (h *SessionHandler) EndSession(c *gin.Context) {
	deviceID := c.Param("deviceID")

	if !h.Pairing.EndSession(deviceID) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "error",
			"message": "No active registration session",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": fmt.Sprintf("Session for %s ended", deviceID),
	})
}
