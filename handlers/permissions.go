package handlers

import (
	"fmt"
	"net/http"

	"fleetwatch/middleware"
	"fleetwatch/services/gate"
	"fleetwatch/utils"

	"github.com/gin-gonic/gin"
)

// PermissionHandler manages per-terminal registration grants.
type PermissionHandler struct {
	Gate *gate.Gate
}

// NewPermissionHandler creates the grant/revoke handler.
func NewPermissionHandler(g *gate.Gate) *PermissionHandler {
	return &PermissionHandler{Gate: g}
}

func currentSession(c *gin.Context) (utils.AuthSession, bool) {
	value, exists := c.Get(middleware.ContextSession)
	if !exists {
		return utils.AuthSession{}, false
	}
	session, ok := value.(utils.AuthSession)
	return session, ok
}

// SubscribeESP handles POST /api/subscribe-esp/:espID: the authenticated
// caller becomes allowed to approve assignments on that terminal.
func (h *PermissionHandler) SubscribeESP(c *gin.Context) {
	espID := c.Param("espID")
	session, ok := currentSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	h.Gate.Grant(espID, session.UserID)
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": fmt.Sprintf("User %s can now register equipment on ESP %s", session.Username, espID),
	})
}

// UnsubscribeESP handles POST /api/unsubscribe-esp/:espID.
func (h *PermissionHandler) UnsubscribeESP(c *gin.Context) {
	espID := c.Param("espID")
	session, ok := currentSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	h.Gate.Revoke(espID, session.UserID)
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": fmt.Sprintf("User %s stopped approving registrations on ESP %s", session.Username, espID),
	})
}
