package handlers

import (
	"errors"
	"net/http"
	"strings"

	"fleetwatch/services/auth"
	"fleetwatch/services/gate"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthHandler serves login, logout and user registration.
type AuthHandler struct {
	Auth auth.AuthService
	Gate *gate.Gate
}

// NewAuthHandler creates the authentication handler.
func NewAuthHandler(svc auth.AuthService, g *gate.Gate) *AuthHandler {
	return &AuthHandler{Auth: svc, Gate: g}
}

type loginRequest struct {
	Username string `json:"username" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	logger := getLogger(c)

	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}

	resp, err := h.Auth.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		logger.Error("login failed", zap.String("username", req.Username), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log in"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Logout handles POST /auth/logout. Besides dropping the cached session,
// every registration grant held by the user is revoked so no terminal
// keeps a dangling permission.
func (h *AuthHandler) Logout(c *gin.Context) {
	logger := getLogger(c)

	authHeader := c.GetHeader("Authorization")
	token := strings.TrimPrefix(authHeader, "Bearer ")

	userID, err := h.Auth.Logout(token)
	if err != nil {
		logger.Warn("logout failed", zap.Error(err))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "No active session"})
		return
	}

	h.Gate.RevokeAllForUser(userID)
	c.JSON(http.StatusOK, gin.H{"message": "Successfully logged out"})
}

// RegisterUser handles POST /auth/register (admin only, enforced by the
// route middleware).
func (h *AuthHandler) RegisterUser(c *gin.Context) {
	logger := getLogger(c)

	var req auth.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	user, err := h.Auth.Register(req)
	if err != nil {
		logger.Error("user registration failed", zap.String("username", req.Username), zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, user)
}
