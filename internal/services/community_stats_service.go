package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alimgiray/orgboard/internal/models"
	"github.com/alimgiray/orgboard/internal/repositories"
	"github.com/alimgiray/orgboard/pkg/logger"
	"github.com/sirupsen/logrus"
)

// ErrStatsNotFound means no counts have been stored for the organization yet
var ErrStatsNotFound = errors.New("community stats not found")

// RepositoryLister is the part of the fetcher the stats refresh needs
type RepositoryLister interface {
	ListOrgRepositories(ctx context.Context, org string) ([]models.RepositorySummary, error)
}

type CommunityStatsService struct {
	statsRepo   *repositories.CommunityStatsRepository
	source      RepositoryLister
	tracker     *RateLimitTracker
	leaderboard *LeaderboardService
}

func NewCommunityStatsService(statsRepo *repositories.CommunityStatsRepository, source RepositoryLister, tracker *RateLimitTracker, leaderboard *LeaderboardService) *CommunityStatsService {
	return &CommunityStatsService{
		statsRepo:   statsRepo,
		source:      source,
		tracker:     tracker,
		leaderboard: leaderboard,
	}
}

// Get returns the stored counts for org
func (s *CommunityStatsService) Get(ctx context.Context, org string) (*models.CommunityStats, error) {
	stats, err := s.statsRepo.GetByOrg(org)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrStatsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load community stats: %w", err)
	}
	return stats, nil
}

// Refresh recounts stars, forks and repositories for org and stores them.
// It makes no request while the API is rate limited.
func (s *CommunityStatsService) Refresh(ctx context.Context, org string) (*models.CommunityStats, error) {
	if state := s.tracker.Snapshot(); state.IsLimited {
		return nil, &RateLimitedError{ResetTime: state.ResetTime, Remaining: state.Remaining, Limit: state.Limit}
	}

	repos, err := s.source.ListOrgRepositories(ctx, org)
	if err != nil {
		return nil, fmt.Errorf("failed to list repositories for %s: %w", org, err)
	}

	stats := &models.CommunityStats{
		Org:        org,
		TotalRepos: len(repos),
		UpdatedAt:  time.Now(),
	}
	for _, repo := range repos {
		stats.TotalStars += repo.Stars
		stats.TotalForks += repo.Forks
	}
	stats.TotalContributors = s.contributorCount(org)

	if err := s.statsRepo.Upsert(stats); err != nil {
		return nil, fmt.Errorf("failed to store community stats: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"component":    "community_stats",
		"org":          org,
		"repositories": stats.TotalRepos,
		"stars":        stats.TotalStars,
	}).Info("Community stats refreshed")

	return stats, nil
}

// contributorCount takes the contributor total from the leaderboard on display,
// keeping the stored value while only demo data is available.
func (s *CommunityStatsService) contributorCount(org string) int {
	if s.leaderboard != nil {
		if snapshot := s.leaderboard.Current(); snapshot.Org == org && snapshot.Source != models.SourceDemo {
			return len(snapshot.Entries)
		}
	}
	if previous, err := s.statsRepo.GetByOrg(org); err == nil {
		return previous.TotalContributors
	}
	return 0
}
