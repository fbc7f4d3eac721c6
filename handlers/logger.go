package handlers

import (
	"fleetwatch/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// getLogger returns the request-scoped logger.
func getLogger(_ *gin.Context) *zap.Logger {
	return utils.GetLogger()
}
