package workers

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/alimgiray/orgboard/internal/models"
	"github.com/alimgiray/orgboard/internal/repositories"
	"github.com/alimgiray/orgboard/internal/services"
	"github.com/alimgiray/orgboard/pkg/database"
	"github.com/alimgiray/orgboard/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedSource rate limits the first contributor call it is told to, then serves normally
type scriptedSource struct {
	mu          sync.Mutex
	tracker     *services.RateLimitTracker
	limitFirst  bool
	resetAfter  time.Duration
	repoCalls   int
	contribCall int
}

func (s *scriptedSource) ListOrgRepositories(ctx context.Context, org string) ([]models.RepositorySummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.repoCalls++
	return []models.RepositorySummary{{FullName: org + "/api", Stars: 12, Forks: 3}}, nil
}

func (s *scriptedSource) ListContributors(ctx context.Context, fullName string, perPage int) ([]services.RepositoryContributor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contribCall++
	if s.limitFirst && s.contribCall == 1 {
		reset := time.Now().Add(s.resetAfter).Unix()
		s.tracker.MarkLimited(reset, 0, 60)
		return nil, &services.RateLimitedError{ResetTime: reset, Limit: 60}
	}
	return []services.RepositoryContributor{{Login: "alice", Contributions: 20, Type: "User"}}, nil
}

func (s *scriptedSource) calls() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.repoCalls, s.contribCall
}

func newLeaderboard(t *testing.T, source *scriptedSource, tracker *services.RateLimitTracker) *services.LeaderboardService {
	t.Helper()
	logger.SetOutput(io.Discard)
	source.tracker = tracker

	options := services.AggregatorOptions{TopRepositories: 10, ContributorsPerPage: 100}
	aggregator := services.NewContributorAggregator(source, tracker, services.RatioEstimator{Weekly: 0.2, Monthly: 0.5}, options)
	leaderboard, err := services.NewLeaderboardService("acme", aggregator, tracker, nil, 2)
	require.NoError(t, err)
	return leaderboard
}

func TestLeaderboardWorkerRefreshesOnStart(t *testing.T) {
	tracker := services.NewRateLimitTracker()
	source := &scriptedSource{}
	leaderboard := newLeaderboard(t, source, tracker)

	worker := NewLeaderboardWorker("leaderboard-1", leaderboard, tracker, time.Hour)
	manager := NewWorkerManager(worker)
	require.NoError(t, manager.StartAll())

	assert.Eventually(t, func() bool {
		return leaderboard.Current().Source == models.SourceLive
	}, 2*time.Second, 10*time.Millisecond)
	assert.True(t, manager.GetStatus()["leaderboard-1"])

	require.NoError(t, manager.StopAll())
	assert.False(t, worker.IsRunning())
}

func TestLeaderboardWorkerTriggerRefresh(t *testing.T) {
	tracker := services.NewRateLimitTracker()
	source := &scriptedSource{}
	leaderboard := newLeaderboard(t, source, tracker)

	worker := NewLeaderboardWorker("leaderboard-1", leaderboard, tracker, time.Hour)
	manager := NewWorkerManager(worker)
	require.NoError(t, manager.StartAll())
	defer manager.StopAll()

	assert.Eventually(t, func() bool {
		repoCalls, _ := source.calls()
		return repoCalls == 1
	}, 2*time.Second, 10*time.Millisecond)

	assert.True(t, worker.TriggerRefresh())
	assert.Eventually(t, func() bool {
		repoCalls, _ := source.calls()
		return repoCalls == 2
	}, 2*time.Second, 10*time.Millisecond)
}

func TestLeaderboardWorkerRetriesAfterRateLimitClears(t *testing.T) {
	tracker := services.NewRateLimitTracker()
	source := &scriptedSource{limitFirst: true, resetAfter: 2 * time.Second}
	leaderboard := newLeaderboard(t, source, tracker)

	worker := NewLeaderboardWorker("leaderboard-1", leaderboard, tracker, time.Hour)
	worker.countdownTick = 20 * time.Millisecond
	manager := NewWorkerManager(worker)
	require.NoError(t, manager.StartAll())
	defer manager.StopAll()

	assert.Eventually(t, func() bool {
		return leaderboard.Current().Source == models.SourceDemo && tracker.IsLimited()
	}, time.Second, 10*time.Millisecond)

	assert.Eventually(t, func() bool {
		return leaderboard.Current().Source == models.SourceLive
	}, 5*time.Second, 20*time.Millisecond)
	assert.False(t, tracker.IsLimited())

	_, contribCalls := source.calls()
	assert.Equal(t, 2, contribCalls)
}

func TestLeaderboardWorkerStopDuringCountdown(t *testing.T) {
	tracker := services.NewRateLimitTracker()
	source := &scriptedSource{limitFirst: true, resetAfter: time.Hour}
	leaderboard := newLeaderboard(t, source, tracker)

	worker := NewLeaderboardWorker("leaderboard-1", leaderboard, tracker, time.Hour)
	worker.countdownTick = 10 * time.Millisecond

	done := make(chan error, 1)
	go func() { done <- worker.Start(context.Background()) }()

	assert.Eventually(t, tracker.IsLimited, time.Second, 10*time.Millisecond)
	require.NoError(t, worker.Stop())
	require.NoError(t, worker.Stop())

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop")
	}
}

func TestStatsWorkerRefreshesStats(t *testing.T) {
	logger.SetOutput(io.Discard)
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	defer db.Close()

	tracker := services.NewRateLimitTracker()
	source := &scriptedSource{tracker: tracker}
	statsService := services.NewCommunityStatsService(repositories.NewCommunityStatsRepository(db), source, tracker, nil)

	worker := NewStatsWorker("stats-1", statsService, "acme", time.Hour)
	manager := NewWorkerManager(worker)
	require.NoError(t, manager.StartAll())

	assert.Eventually(t, func() bool {
		stats, err := statsService.Get(context.Background(), "acme")
		return err == nil && stats.TotalStars == 12 && stats.TotalForks == 3
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, manager.StopAll())
	assert.Equal(t, map[string]bool{"stats-1": false}, manager.GetStatus())
}

func TestWorkersFallBackToDefaultIntervals(t *testing.T) {
	tests := []struct {
		name     string
		interval time.Duration
	}{
		{name: "zero", interval: 0},
		{name: "negative", interval: -time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracker := services.NewRateLimitTracker()
			leaderboard := newLeaderboard(t, &scriptedSource{}, tracker)
			leaderboardWorker := NewLeaderboardWorker("leaderboard-1", leaderboard, tracker, tt.interval)
			statsWorker := NewStatsWorker("stats-1", nil, "acme", tt.interval)

			assert.Equal(t, DefaultRefreshInterval, leaderboardWorker.interval)
			assert.Equal(t, DefaultStatsInterval, statsWorker.interval)

			manager := NewWorkerManager(leaderboardWorker)
			require.NoError(t, manager.StartAll())
			assert.Eventually(t, func() bool {
				return leaderboard.Current().Source == models.SourceLive
			}, 2*time.Second, 10*time.Millisecond)
			require.NoError(t, manager.StopAll())
		})
	}
}
