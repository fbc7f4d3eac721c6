// middleware/auth.go
package middleware

import (
	"net/http"
	"strings"
	"time"

	userRepo "fleetwatch/database/repository/user"
	"fleetwatch/services/auth"
	"fleetwatch/utils"

	"github.com/gin-gonic/gin"
)

// Context keys set by the auth middleware.
const (
	ContextUserID  = "userID"
	ContextSession = "currentUser"
)

// AuthMiddleware authenticates dashboard users from a bearer token.
// The cached Redis session is consulted first; on a miss the JWT is
// validated against the user store and the session is re-cached. With
// optional set, anonymous requests pass through without identity.
func AuthMiddleware(users userRepo.UserRepository, optional bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			if optional {
				c.Next()
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		session, err := utils.GetAuthSession(utils.GetAuthCacheClient(), utils.HashToken(tokenString))
		if err == nil && session != nil {
			c.Set(ContextUserID, session.UserID)
			c.Set(ContextSession, *session)
			c.Next()
			return
		}

		// Cache miss: validate the token itself and reload the user.
		userID, err := utils.ExtractIDFromToken(tokenString)
		if err != nil {
			if optional {
				c.Next()
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		user, err := users.GetByID(userID)
		if err != nil || user == nil || !user.IsActive {
			if optional {
				c.Next()
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not found or inactive"})
			return
		}

		restored := utils.AuthSession{
			UserID:    user.ID,
			Username:  user.Username,
			FirstName: user.FirstName,
			LastName:  user.LastName,
			Role:      string(user.Role),
			CreatedAt: time.Now(),
		}
		// Best effort: a failed re-cache only costs the next request a lookup.
		_ = utils.SaveAuthSession(utils.GetAuthCacheClient(), utils.HashToken(tokenString), restored, auth.TokenTTL)

		c.Set(ContextUserID, user.ID)
		c.Set(ContextSession, restored)
		c.Next()
	}
}

// RequireAdmin rejects callers whose session role is not admin. Must run
// after AuthMiddleware in strict mode.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exists := c.Get(ContextSession)
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			return
		}
		session, ok := value.(utils.AuthSession)
		if !ok || session.Role != "admin" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			return
		}
		c.Next()
	}
}
