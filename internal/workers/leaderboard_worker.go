package workers

import (
	"context"
	"time"

	"github.com/alimgiray/orgboard/internal/services"
	"github.com/alimgiray/orgboard/pkg/logger"
	"github.com/sirupsen/logrus"
)

// LeaderboardWorker keeps the leaderboard fresh. It refreshes on start, on
// every interval and on demand, and after a rate limit it waits out the
// countdown and retries as soon as the quota resets.
type LeaderboardWorker struct {
	*BaseWorker
	leaderboard   *services.LeaderboardService
	tracker       *services.RateLimitTracker
	interval      time.Duration
	countdownTick time.Duration
	trigger       chan struct{}
}

// DefaultRefreshInterval replaces a non-positive leaderboard refresh interval
const DefaultRefreshInterval = 30 * time.Minute

// NewLeaderboardWorker creates a new leaderboard worker
func NewLeaderboardWorker(workerID string, leaderboard *services.LeaderboardService, tracker *services.RateLimitTracker, interval time.Duration) *LeaderboardWorker {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	return &LeaderboardWorker{
		BaseWorker:    NewBaseWorker(workerID),
		leaderboard:   leaderboard,
		tracker:       tracker,
		interval:      interval,
		countdownTick: time.Second,
		trigger:       make(chan struct{}, 1),
	}
}

// TriggerRefresh queues a refresh; it returns false when one is already queued
func (w *LeaderboardWorker) TriggerRefresh() bool {
	select {
	case w.trigger <- struct{}{}:
		return true
	default:
		return false
	}
}

// Start begins the leaderboard worker process
func (w *LeaderboardWorker) Start(ctx context.Context) error {
	w.setRunning(true)
	defer w.setRunning(false)

	ctx, cancel := w.runContext(ctx)
	defer cancel()

	log := logger.WithFields(logrus.Fields{"component": "leaderboard_worker", "worker_id": w.WorkerID})
	log.Info("Leaderboard worker started")

	w.refresh(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("Leaderboard worker stopping")
			select {
			case <-w.StopChan:
				return nil
			default:
				return ctx.Err()
			}
		case <-ticker.C:
			w.refresh(ctx)
		case <-w.trigger:
			w.refresh(ctx)
		}
	}
}

// refresh runs one refresh and keeps retrying after each countdown while the API is rate limited
func (w *LeaderboardWorker) refresh(ctx context.Context) {
	for {
		if _, err := w.leaderboard.Refresh(ctx); err != nil {
			return
		}
		if !w.tracker.IsLimited() {
			return
		}

		logger.WithFields(logrus.Fields{
			"component":  "leaderboard_worker",
			"reset_time": w.tracker.Snapshot().ResetTime,
		}).Info("Rate limited, retrying once the limit resets")

		w.tracker.RunCountdown(ctx, w.countdownTick, nil)
		if ctx.Err() != nil {
			return
		}
	}
}
