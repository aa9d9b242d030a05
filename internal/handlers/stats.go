package handlers

import (
	"errors"
	"net/http"

	"github.com/alimgiray/orgboard/internal/services"
	"github.com/alimgiray/orgboard/pkg/logger"
	"github.com/gin-gonic/gin"
)

type StatsHandler struct {
	statsService *services.CommunityStatsService
	org          string
}

func NewStatsHandler(statsService *services.CommunityStatsService, org string) *StatsHandler {
	return &StatsHandler{
		statsService: statsService,
		org:          org,
	}
}

// GetStats returns the stored community stats for the configured organization
func (h *StatsHandler) GetStats(c *gin.Context) {
	stats, err := h.statsService.Get(c.Request.Context(), h.org)
	if errors.Is(err, services.ErrStatsNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Community stats have not been collected yet"})
		return
	}
	if err != nil {
		logger.WithComponent("stats").WithError(err).Error("Failed to load community stats")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load community stats"})
		return
	}

	c.JSON(http.StatusOK, stats)
}
