package handlers

import (
	"net/http"
	"time"

	"github.com/alimgiray/orgboard/internal/services"
	"github.com/gin-gonic/gin"
)

// WorkerStatusReporter exposes background worker state
type WorkerStatusReporter interface {
	GetStatus() map[string]bool
}

type HealthHandler struct {
	tracker *services.RateLimitTracker
	workers WorkerStatusReporter
}

func NewHealthHandler(tracker *services.RateLimitTracker, workers WorkerStatusReporter) *HealthHandler {
	return &HealthHandler{
		tracker: tracker,
		workers: workers,
	}
}

// Health reports liveness and worker state
func (h *HealthHandler) Health(c *gin.Context) {
	response := gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	if h.workers != nil {
		response["workers"] = h.workers.GetStatus()
	}
	c.JSON(http.StatusOK, response)
}

// RateLimit reports the GitHub quota state and the countdown until it resets
func (h *HealthHandler) RateLimit(c *gin.Context) {
	state := h.tracker.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"is_limited":          state.IsLimited,
		"reset_time":          state.ResetTime,
		"remaining":           state.Remaining,
		"limit":               state.Limit,
		"seconds_until_reset": state.SecondsUntilReset(time.Now()),
	})
}
