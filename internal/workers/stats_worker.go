package workers

import (
	"context"
	"errors"
	"time"

	"github.com/alimgiray/orgboard/internal/services"
	"github.com/alimgiray/orgboard/pkg/logger"
	"github.com/sirupsen/logrus"
)

// StatsWorker periodically recounts the organization's community stats
type StatsWorker struct {
	*BaseWorker
	statsService *services.CommunityStatsService
	org          string
	interval     time.Duration
}

// DefaultStatsInterval replaces a non-positive stats refresh interval
const DefaultStatsInterval = time.Hour

// NewStatsWorker creates a new stats worker
func NewStatsWorker(workerID string, statsService *services.CommunityStatsService, org string, interval time.Duration) *StatsWorker {
	if interval <= 0 {
		interval = DefaultStatsInterval
	}
	return &StatsWorker{
		BaseWorker:   NewBaseWorker(workerID),
		statsService: statsService,
		org:          org,
		interval:     interval,
	}
}

// Start begins the stats worker process
func (w *StatsWorker) Start(ctx context.Context) error {
	w.setRunning(true)
	defer w.setRunning(false)

	log := logger.WithFields(logrus.Fields{"component": "stats_worker", "worker_id": w.WorkerID})
	log.Info("Stats worker started")

	w.processStats(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("Stats worker stopping due to context cancellation")
			return ctx.Err()
		case <-w.StopChan:
			log.Info("Stats worker stopping")
			return nil
		case <-ticker.C:
			w.processStats(ctx)
		}
	}
}

// processStats refreshes the stats once; a rate limit just skips this round
func (w *StatsWorker) processStats(ctx context.Context) {
	log := logger.WithFields(logrus.Fields{"component": "stats_worker", "worker_id": w.WorkerID, "org": w.org})

	if _, err := w.statsService.Refresh(ctx, w.org); err != nil {
		if errors.Is(err, services.ErrRateLimited) {
			log.Debug("Skipping stats refresh while rate limited")
			return
		}
		log.WithError(err).Warn("Failed to refresh community stats")
	}
}
