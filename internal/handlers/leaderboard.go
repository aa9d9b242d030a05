package handlers

import (
	"bytes"
	"net/http"

	"github.com/alimgiray/orgboard/internal/models"
	"github.com/alimgiray/orgboard/internal/services"
	"github.com/alimgiray/orgboard/pkg/logger"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// RefreshTrigger schedules a leaderboard refresh without waiting for it
type RefreshTrigger interface {
	TriggerRefresh() bool
}

type LeaderboardHandler struct {
	leaderboardService *services.LeaderboardService
	exportService      *services.ExportService
	refresher          RefreshTrigger
}

func NewLeaderboardHandler(leaderboardService *services.LeaderboardService, exportService *services.ExportService, refresher RefreshTrigger) *LeaderboardHandler {
	return &LeaderboardHandler{
		leaderboardService: leaderboardService,
		exportService:      exportService,
		refresher:          refresher,
	}
}

// GetLeaderboard returns the current leaderboard ranked for ?period=
func (h *LeaderboardHandler) GetLeaderboard(c *gin.Context) {
	period := models.ParsePeriod(c.Query("period"))
	c.JSON(http.StatusOK, h.leaderboardService.Leaderboard(period))
}

// Refresh queues a new aggregation run
func (h *LeaderboardHandler) Refresh(c *gin.Context) {
	queued := h.refresher.TriggerRefresh()
	c.JSON(http.StatusAccepted, gin.H{
		"queued":  queued,
		"message": "Leaderboard refresh scheduled",
	})
}

// Export downloads the leaderboard for ?period= as an XLSX workbook
func (h *LeaderboardHandler) Export(c *gin.Context) {
	view := h.leaderboardService.Leaderboard(models.ParsePeriod(c.Query("period")))

	var buf bytes.Buffer
	if err := h.exportService.WriteLeaderboardXLSX(&buf, view); err != nil {
		logger.WithComponent("export").WithError(err).Error("Failed to export leaderboard")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export leaderboard"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+services.ExportFilename(view)+`"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
