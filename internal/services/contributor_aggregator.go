package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/alimgiray/orgboard/internal/models"
	"github.com/alimgiray/orgboard/pkg/logger"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// ContributorSource is the remote API as seen by the aggregator
type ContributorSource interface {
	ListOrgRepositories(ctx context.Context, org string) ([]models.RepositorySummary, error)
	ListContributors(ctx context.Context, fullName string, perPage int) ([]RepositoryContributor, error)
}

// AggregatorOptions bound the request volume of one run
type AggregatorOptions struct {
	TopRepositories     int
	ContributorsPerPage int
	RequestDelay        time.Duration
}

// DefaultAggregatorOptions fetches the ten most starred repositories, 100 contributors each, 100ms apart
func DefaultAggregatorOptions() AggregatorOptions {
	return AggregatorOptions{
		TopRepositories:     10,
		ContributorsPerPage: 100,
		RequestDelay:        100 * time.Millisecond,
	}
}

// AggregationResult is the ranked outcome of one run. When RateLimited is
// set the entries only cover the repositories processed before the abort.
type AggregationResult struct {
	Entries        []models.LeaderboardEntry
	RateLimited    bool
	RateLimit      models.RateLimitState
	ReposSelected  int
	ReposProcessed int
}

// NoContributors reports the empty-state outcome
func (r *AggregationResult) NoContributors() bool {
	return len(r.Entries) == 0
}

// ContributorAggregator builds a cross-repository contributor ranking
type ContributorAggregator struct {
	source    ContributorSource
	tracker   *RateLimitTracker
	estimator ContributionEstimator
	options   AggregatorOptions
}

func NewContributorAggregator(source ContributorSource, tracker *RateLimitTracker, estimator ContributionEstimator, options AggregatorOptions) *ContributorAggregator {
	if options.TopRepositories <= 0 {
		options.TopRepositories = DefaultAggregatorOptions().TopRepositories
	}
	if options.ContributorsPerPage <= 0 {
		options.ContributorsPerPage = DefaultAggregatorOptions().ContributorsPerPage
	}
	return &ContributorAggregator{
		source:    source,
		tracker:   tracker,
		estimator: estimator,
		options:   options,
	}
}

// Aggregate runs one aggregation for org. Per-repository failures are logged
// and skipped; a rate limit stops the run and returns what was merged so far
// with RateLimited set. A failed repository list returns ErrSourceUnavailable.
func (a *ContributorAggregator) Aggregate(ctx context.Context, org string) (*AggregationResult, error) {
	log := logger.WithFields(logrus.Fields{"component": "aggregator", "org": org})

	if state := a.tracker.Snapshot(); state.IsLimited {
		return nil, &RateLimitedError{
			ResetTime: state.ResetTime,
			Remaining: state.Remaining,
			Limit:     state.Limit,
		}
	}

	repos, err := a.source.ListOrgRepositories(ctx, org)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}

	selected := selectTopRepositories(repos, a.options.TopRepositories)
	result := &AggregationResult{ReposSelected: len(selected)}
	accumulator := make(map[string]*models.ContributorRecord)

	pacer := newRequestPacer(a.options.RequestDelay)

	for _, repo := range selected {
		if err := pacer.Wait(ctx); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			// the limiter refuses a wait that would outlast the deadline
			return nil, fmt.Errorf("%w: %v", context.DeadlineExceeded, err)
		}

		if a.tracker.IsLimited() {
			result.RateLimited = true
			break
		}

		contributors, err := a.source.ListContributors(ctx, repo.FullName, a.options.ContributorsPerPage)
		pacer.Finished(time.Now())
		if err != nil {
			if errors.Is(err, ErrRateLimited) {
				log.WithField("repository", repo.FullName).Warn("Rate limited, stopping aggregation early")
				result.RateLimited = true
				break
			}
			log.WithError(err).WithField("repository", repo.FullName).Warn("Skipping repository")
			continue
		}

		a.merge(accumulator, contributors)
		result.ReposProcessed++
	}

	result.Entries = finalize(accumulator)
	result.RateLimit = a.tracker.Snapshot()

	log.WithFields(logrus.Fields{
		"repos_selected":  result.ReposSelected,
		"repos_processed": result.ReposProcessed,
		"contributors":    len(result.Entries),
		"rate_limited":    result.RateLimited,
	}).Info("Aggregation finished")

	return result, nil
}

func (a *ContributorAggregator) merge(accumulator map[string]*models.ContributorRecord, contributors []RepositoryContributor) {
	for _, c := range contributors {
		if !c.IsUser() || c.Login == "" {
			continue
		}

		weekly, monthly := a.estimator.Estimate(c.Contributions)

		record, ok := accumulator[c.Login]
		if !ok {
			record = &models.ContributorRecord{
				Login:      c.Login,
				AvatarURL:  c.AvatarURL,
				ProfileURL: c.HTMLURL,
			}
			accumulator[c.Login] = record
		}
		record.Merge(c.Contributions, weekly, monthly)
	}
}

// requestPacer holds each call back until delay has passed since the
// previous call finished. The first call goes out immediately.
type requestPacer struct {
	delay   time.Duration
	limiter *rate.Limiter
}

func newRequestPacer(delay time.Duration) *requestPacer {
	return &requestPacer{delay: delay}
}

// Finished starts the gap the next Wait has to sit out
func (p *requestPacer) Finished(at time.Time) {
	if p.delay <= 0 {
		return
	}
	p.limiter = rate.NewLimiter(rate.Every(p.delay), 1)
	p.limiter.AllowN(at, 1)
}

func (p *requestPacer) Wait(ctx context.Context) error {
	if p.limiter == nil {
		return ctx.Err()
	}
	return p.limiter.Wait(ctx)
}

// selectTopRepositories returns the k most starred repositories
func selectTopRepositories(repos []models.RepositorySummary, k int) []models.RepositorySummary {
	sorted := append([]models.RepositorySummary(nil), repos...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Stars != sorted[j].Stars {
			return sorted[i].Stars > sorted[j].Stars
		}
		return sorted[i].FullName < sorted[j].FullName
	})
	if len(sorted) > k {
		sorted = sorted[:k]
	}
	return sorted
}

// finalize drops empty records and turns the accumulator into ranked entries
func finalize(accumulator map[string]*models.ContributorRecord) []models.LeaderboardEntry {
	records := make([]models.ContributorRecord, 0, len(accumulator))
	for _, record := range accumulator {
		if record.TotalContributions == 0 {
			continue
		}
		records = append(records, *record)
	}
	return buildEntries(records)
}

// buildEntries scores records, orders them by total contributions and ranks them
func buildEntries(records []models.ContributorRecord) []models.LeaderboardEntry {
	entries := make([]models.LeaderboardEntry, 0, len(records))
	for _, record := range records {
		score := Score(record.TotalContributions)
		entries = append(entries, models.LeaderboardEntry{
			ContributorRecord: record,
			Score:             score,
			Achievements:      Achievements(score, record.TotalContributions),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].TotalContributions != entries[j].TotalContributions {
			return entries[i].TotalContributions > entries[j].TotalContributions
		}
		return entries[i].Login < entries[j].Login
	})

	AssignRanks(entries)
	return entries
}
