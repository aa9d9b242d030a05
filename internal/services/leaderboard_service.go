package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/alimgiray/orgboard/internal/models"
	"github.com/alimgiray/orgboard/pkg/logger"
	"github.com/alimgiray/orgboard/pkg/metrics"
	lru "github.com/hashicorp/golang-lru"
	"github.com/sirupsen/logrus"
)

// LeaderboardService owns the leaderboard currently on display. Each refresh
// builds a complete snapshot and swaps it in; readers never see a partial one.
type LeaderboardService struct {
	org        string
	aggregator *ContributorAggregator
	tracker    *RateLimitTracker
	metrics    *metrics.Collector
	cache      *lru.Cache // org -> last live *models.LeaderboardSnapshot

	mu       sync.RWMutex
	snapshot *models.LeaderboardSnapshot
}

// NewLeaderboardService starts out showing the demo leaderboard until the first refresh
func NewLeaderboardService(org string, aggregator *ContributorAggregator, tracker *RateLimitTracker, collector *metrics.Collector, cacheSize int) (*LeaderboardService, error) {
	if cacheSize <= 0 {
		cacheSize = 1
	}
	cache, err := lru.New(cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create snapshot cache: %w", err)
	}
	if collector == nil {
		collector = metrics.NewCollector(nil)
	}

	return &LeaderboardService{
		org:        org,
		aggregator: aggregator,
		tracker:    tracker,
		metrics:    collector,
		cache:      cache,
		snapshot:   models.NewLeaderboardSnapshot(org, DemoLeaderboard(), models.SourceDemo),
	}, nil
}

// Org returns the organization this leaderboard covers
func (s *LeaderboardService) Org() string {
	return s.org
}

// Refresh runs one aggregation and applies its outcome. Every failure mode
// still produces a snapshot to show; only cancellation returns an error.
func (s *LeaderboardService) Refresh(ctx context.Context) (*models.LeaderboardSnapshot, error) {
	log := logger.WithFields(logrus.Fields{"component": "leaderboard", "org": s.org})

	result, err := s.aggregator.Aggregate(ctx, s.org)

	var snapshot *models.LeaderboardSnapshot
	switch {
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		return nil, err

	case errors.Is(err, ErrRateLimited):
		log.Warn("Rate limited before aggregation started")
		snapshot = s.fallback(rateLimitMessage(s.tracker.Snapshot()))

	case err != nil:
		log.WithError(err).Error("Failed to aggregate contributors")
		snapshot = s.demo(DemoFallbackMessage)

	case result.RateLimited && result.NoContributors():
		log.Warn("Rate limited before any contributor data was collected")
		snapshot = s.fallback(rateLimitMessage(result.RateLimit))

	case result.RateLimited:
		snapshot = models.NewLeaderboardSnapshot(s.org, result.Entries, models.SourcePartial)
		snapshot.Message = rateLimitMessage(result.RateLimit)

	default:
		snapshot = models.NewLeaderboardSnapshot(s.org, result.Entries, models.SourceLive)
		snapshot.NoContributors = result.NoContributors()
		if !snapshot.NoContributors {
			s.cache.Add(s.org, snapshot)
		}
	}

	snapshot.RateLimit = s.tracker.Snapshot()
	s.swap(snapshot)

	s.metrics.AggregationRuns.WithLabelValues(string(snapshot.Source)).Inc()
	s.metrics.LeaderboardSize.Set(float64(len(snapshot.Entries)))
	if snapshot.RateLimit.IsLimited {
		s.metrics.RateLimited.Set(1)
	} else {
		s.metrics.RateLimited.Set(0)
	}

	log.WithFields(logrus.Fields{
		"snapshot_id": snapshot.ID,
		"source":      snapshot.Source,
		"entries":     len(snapshot.Entries),
	}).Info("Leaderboard refreshed")

	return snapshot, nil
}

// fallback serves the last live snapshot for the org if one is cached, demo data otherwise
func (s *LeaderboardService) fallback(message string) *models.LeaderboardSnapshot {
	if value, ok := s.cache.Get(s.org); ok {
		if cached, ok := value.(*models.LeaderboardSnapshot); ok {
			snapshot := models.NewLeaderboardSnapshot(s.org, cached.Entries, models.SourceCached)
			snapshot.Message = message
			return snapshot
		}
	}
	return s.demo(message)
}

func (s *LeaderboardService) demo(message string) *models.LeaderboardSnapshot {
	snapshot := models.NewLeaderboardSnapshot(s.org, DemoLeaderboard(), models.SourceDemo)
	snapshot.Message = message
	return snapshot
}

func (s *LeaderboardService) swap(snapshot *models.LeaderboardSnapshot) {
	s.mu.Lock()
	s.snapshot = snapshot
	s.mu.Unlock()
}

// Current returns the snapshot on display
func (s *LeaderboardService) Current() *models.LeaderboardSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// Leaderboard ranks the current snapshot for period
func (s *LeaderboardService) Leaderboard(period models.Period) *models.LeaderboardView {
	snapshot := s.Current()
	entries := FilterByPeriod(snapshot.Entries, period)

	return &models.LeaderboardView{
		SnapshotID:  snapshot.ID,
		Org:         snapshot.Org,
		Period:      period,
		Entries:     entries,
		Count:       len(entries),
		Empty:       len(entries) == 0,
		Source:      snapshot.Source,
		Message:     snapshot.Message,
		RateLimit:   s.tracker.Snapshot(),
		GeneratedAt: snapshot.GeneratedAt,
	}
}

// RateLimitStatus returns the live quota state
func (s *LeaderboardService) RateLimitStatus() models.RateLimitState {
	return s.tracker.Snapshot()
}

func rateLimitMessage(state models.RateLimitState) string {
	if state.ResetTime == 0 {
		return "GitHub API rate limit exceeded. Retrying automatically shortly."
	}
	reset := time.Unix(state.ResetTime, 0).UTC()
	return fmt.Sprintf("GitHub API rate limit exceeded. Retrying automatically at %s.", reset.Format("15:04:05 MST"))
}
