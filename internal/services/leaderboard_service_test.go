package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alimgiray/orgboard/internal/models"
	"github.com/alimgiray/orgboard/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLeaderboardService(t *testing.T, source *fakeSource, tracker *RateLimitTracker) (*LeaderboardService, *metrics.Collector) {
	t.Helper()
	collector := metrics.NewCollector(nil)
	service, err := NewLeaderboardService("acme", newTestAggregator(source, tracker), tracker, collector, 4)
	require.NoError(t, err)
	return service, collector
}

func liveSource() *fakeSource {
	return &fakeSource{
		repos: []models.RepositorySummary{
			{FullName: "acme/api", Stars: 20},
			{FullName: "acme/web", Stars: 10},
		},
		contributors: map[string][]RepositoryContributor{
			"acme/api": {user("alice", 40), user("bob", 90)},
			"acme/web": {user("alice", 70)},
		},
	}
}

func TestLeaderboardServiceStartsWithDemoData(t *testing.T) {
	service, _ := newTestLeaderboardService(t, liveSource(), NewRateLimitTracker())

	assert.Equal(t, "acme", service.Org())

	view := service.Leaderboard(models.PeriodOverall)
	assert.Equal(t, models.SourceDemo, view.Source)
	assert.Equal(t, logins(DemoLeaderboard()), logins(view.Entries))
}

func TestLeaderboardServiceRefreshLive(t *testing.T) {
	service, collector := newTestLeaderboardService(t, liveSource(), NewRateLimitTracker())

	snapshot, err := service.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.SourceLive, snapshot.Source)
	assert.Empty(t, snapshot.Message)
	assert.False(t, snapshot.NoContributors)
	assert.Same(t, snapshot, service.Current())

	view := service.Leaderboard(models.PeriodOverall)
	assert.Equal(t, snapshot.ID, view.SnapshotID)
	assert.Equal(t, []string{"alice", "bob"}, logins(view.Entries))
	assert.Equal(t, 2, view.Count)
	assert.False(t, view.Empty)

	assert.Equal(t, 1.0, testutil.ToFloat64(collector.AggregationRuns.WithLabelValues(string(models.SourceLive))))
	assert.Equal(t, 2.0, testutil.ToFloat64(collector.LeaderboardSize))
}

func TestLeaderboardServiceViewsDoNotChangeSnapshot(t *testing.T) {
	service, _ := newTestLeaderboardService(t, liveSource(), NewRateLimitTracker())
	_, err := service.Refresh(context.Background())
	require.NoError(t, err)

	before := logins(service.Current().Entries)
	for _, period := range []models.Period{models.PeriodWeekly, models.PeriodMonthly, models.PeriodOverall} {
		view := service.Leaderboard(period)
		assert.Equal(t, period, view.Period)
		for i, entry := range view.Entries {
			assert.Equal(t, i+1, entry.Rank)
		}
	}
	assert.Equal(t, before, logins(service.Current().Entries))
}

func TestLeaderboardServicePartialOnMidRunRateLimit(t *testing.T) {
	source := liveSource()
	source.failures = map[string]error{"acme/web": &RateLimitedError{ResetTime: time.Now().Add(time.Hour).Unix(), Limit: 60}}
	service, _ := newTestLeaderboardService(t, source, NewRateLimitTracker())

	snapshot, err := service.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.SourcePartial, snapshot.Source)
	assert.Contains(t, snapshot.Message, "rate limit")
	assert.True(t, snapshot.RateLimit.IsLimited)
	assert.Equal(t, []string{"bob", "alice"}, logins(snapshot.Entries))
	assert.True(t, service.RateLimitStatus().IsLimited)
}

func TestLeaderboardServiceFallsBackToCachedSnapshot(t *testing.T) {
	tracker := NewRateLimitTracker()
	service, _ := newTestLeaderboardService(t, liveSource(), tracker)

	live, err := service.Refresh(context.Background())
	require.NoError(t, err)

	tracker.MarkLimited(time.Now().Add(time.Hour).Unix(), 0, 60)

	snapshot, err := service.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.SourceCached, snapshot.Source)
	assert.NotEqual(t, live.ID, snapshot.ID)
	assert.Equal(t, logins(live.Entries), logins(snapshot.Entries))
	assert.Contains(t, snapshot.Message, "rate limit")
}

func TestLeaderboardServiceFallsBackToDemoWhenNothingCached(t *testing.T) {
	testCases := []struct {
		name  string
		setup func(*fakeSource, *RateLimitTracker)
	}{
		{
			name: "Limited before the run",
			setup: func(_ *fakeSource, tracker *RateLimitTracker) {
				tracker.MarkLimited(time.Now().Add(time.Hour).Unix(), 0, 60)
			},
		},
		{
			name: "Limited on the first repository",
			setup: func(source *fakeSource, _ *RateLimitTracker) {
				source.failures = map[string]error{"acme/api": &RateLimitedError{ResetTime: time.Now().Add(time.Hour).Unix()}}
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			source := liveSource()
			tracker := NewRateLimitTracker()
			tc.setup(source, tracker)
			service, _ := newTestLeaderboardService(t, source, tracker)

			snapshot, err := service.Refresh(context.Background())
			require.NoError(t, err)
			assert.Equal(t, models.SourceDemo, snapshot.Source)
			assert.Equal(t, logins(DemoLeaderboard()), logins(snapshot.Entries))
			assert.Contains(t, snapshot.Message, "rate limit")
		})
	}
}

func TestLeaderboardServiceRepositoryListFailureShowsDemo(t *testing.T) {
	source := &fakeSource{reposErr: &NetworkError{Err: errors.New("dial tcp: connection refused")}}
	service, _ := newTestLeaderboardService(t, source, NewRateLimitTracker())

	snapshot, err := service.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.SourceDemo, snapshot.Source)
	assert.Equal(t, DemoFallbackMessage, snapshot.Message)
	assert.Equal(t, DemoLeaderboard(), snapshot.Entries)

	view := service.Leaderboard(models.PeriodOverall)
	assert.Equal(t, DemoFallbackMessage, view.Message)
}

func TestLeaderboardServiceNoContributors(t *testing.T) {
	source := &fakeSource{
		repos:        []models.RepositorySummary{{FullName: "acme/empty"}},
		contributors: map[string][]RepositoryContributor{"acme/empty": {{Login: "renovate[bot]", Contributions: 9, Type: "Bot"}}},
	}
	service, _ := newTestLeaderboardService(t, source, NewRateLimitTracker())

	snapshot, err := service.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.SourceLive, snapshot.Source)
	assert.True(t, snapshot.NoContributors)
	assert.Empty(t, snapshot.Message)

	view := service.Leaderboard(models.PeriodWeekly)
	assert.True(t, view.Empty)
	assert.Zero(t, view.Count)
}

func TestLeaderboardServiceCancelledRefreshKeepsSnapshot(t *testing.T) {
	source := liveSource()
	tracker := NewRateLimitTracker()
	options := testAggregatorOptions()
	options.RequestDelay = time.Hour
	source.tracker = tracker
	service, err := NewLeaderboardService("acme", NewContributorAggregator(source, tracker, RatioEstimator{}, options), tracker, nil, 1)
	require.NoError(t, err)
	before := service.Current()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	snapshot, err := service.Refresh(ctx)
	assert.Nil(t, snapshot)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Same(t, before, service.Current())
}
