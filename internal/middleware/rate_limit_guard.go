package middleware

import (
	"net/http"
	"time"

	"github.com/alimgiray/orgboard/internal/services"
	"github.com/gin-gonic/gin"
)

// RateLimitGuard rejects the request with 409 while the GitHub quota is exhausted
func RateLimitGuard(tracker *services.RateLimitTracker) gin.HandlerFunc {
	return func(c *gin.Context) {
		state := tracker.Snapshot()

		if state.IsLimited {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{
				"error":               "GitHub API rate limit exceeded",
				"reset_time":          state.ResetTime,
				"seconds_until_reset": state.SecondsUntilReset(time.Now()),
			})
			return
		}

		c.Next()
	}
}
