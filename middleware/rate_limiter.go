package middleware

import (
	"net/http"
	"sync"
	"time"

	"fleetwatch/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// limiterStore holds one rate limiter per terminal id.
type limiterStore struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

func (s *limiterStore) get(key string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	limiter, exists := s.limiters[key]
	if !exists {
		limiter = rate.NewLimiter(s.limit, s.burst)
		s.limiters[key] = limiter
	}
	return limiter
}

// TelemetryRateLimit caps how often a single terminal may post telemetry.
// A terminal that falls back to anonymous ingest is keyed by client IP.
func TelemetryRateLimit(perMinute, burst int) gin.HandlerFunc {
	store := &limiterStore{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    burst,
	}
	return func(c *gin.Context) {
		key := c.Param("deviceID")
		if key == "" {
			key = c.ClientIP()
		}
		if !store.get(key).Allow() {
			utils.GetLogger().Warn("Rate limit exceeded", zap.String("terminalID", key))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded. Try again later."})
			return
		}
		c.Next()
	}
}
