package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/alimgiray/orgboard/internal/models"
	"github.com/alimgiray/orgboard/pkg/logger"
	"github.com/alimgiray/orgboard/pkg/metrics"
	"github.com/google/go-github/v57/github"
	"github.com/sirupsen/logrus"
)

const (
	defaultRateLimit  = 60
	defaultResetDelay = 60 * time.Second
)

// RateLimitHeaders names the response headers carrying quota information
type RateLimitHeaders struct {
	Remaining string
	Reset     string
	Limit     string
}

// DefaultRateLimitHeaders are the header names GitHub uses
func DefaultRateLimitHeaders() RateLimitHeaders {
	return RateLimitHeaders{
		Remaining: "X-RateLimit-Remaining",
		Reset:     "X-RateLimit-Reset",
		Limit:     "X-RateLimit-Limit",
	}
}

// RepositoryContributor is one entry of a repository's contributor list
type RepositoryContributor struct {
	Login         string
	AvatarURL     string
	HTMLURL       string
	Contributions int
	Type          string
}

// IsUser reports whether the contributor is a person rather than a bot
func (c RepositoryContributor) IsUser() bool {
	return strings.EqualFold(c.Type, "User")
}

// GitHubService is the rate-limited fetcher in front of the GitHub REST API.
// Every response updates the tracker; it never retries.
type GitHubService struct {
	client  *github.Client
	tracker *RateLimitTracker
	headers RateLimitHeaders
	metrics *metrics.Collector
	now     func() time.Time
}

// NewGitHubService creates a fetcher against baseURL. A nil httpClient uses http.DefaultClient.
func NewGitHubService(baseURL string, httpClient *http.Client, tracker *RateLimitTracker, headers RateLimitHeaders, collector *metrics.Collector) (*GitHubService, error) {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid GitHub API URL %q: %w", baseURL, err)
	}

	client := github.NewClient(httpClient)
	client.BaseURL = u
	client.UserAgent = "orgboard"

	if collector == nil {
		collector = metrics.NewCollector(nil)
	}

	return &GitHubService{
		client:  client,
		tracker: tracker,
		headers: headers,
		metrics: collector,
		now:     time.Now,
	}, nil
}

// Tracker returns the quota tracker this fetcher updates
func (s *GitHubService) Tracker() *RateLimitTracker {
	return s.tracker
}

// Fetch GETs path relative to the API base URL and decodes the JSON body into v
func (s *GitHubService) Fetch(ctx context.Context, path string, v interface{}) error {
	req, err := s.client.NewRequest(http.MethodGet, path, nil)
	if err != nil {
		return fmt.Errorf("failed to build request for %s: %w", path, err)
	}

	resp, err := s.client.Do(ctx, req, v)
	if resp != nil && resp.Response != nil {
		s.observe(resp.Header)
	}
	if err == nil {
		s.metrics.FetchRequests.WithLabelValues(metrics.OutcomeOK).Inc()
		return nil
	}

	return s.classify(path, resp, err)
}

func (s *GitHubService) classify(path string, resp *github.Response, err error) error {
	log := logger.WithFields(logrus.Fields{"component": "github", "path": path})

	var rateErr *github.RateLimitError
	if (resp != nil && resp.Response != nil && resp.StatusCode == http.StatusForbidden) || errors.As(err, &rateErr) {
		limited := s.rateLimited(resp, rateErr)
		s.tracker.MarkLimited(limited.ResetTime, limited.Remaining, limited.Limit)
		s.metrics.FetchRequests.WithLabelValues(metrics.OutcomeRateLimited).Inc()
		s.metrics.RateLimited.Set(1)
		log.WithField("reset_time", limited.ResetTime).Warn("GitHub API rate limit exceeded")
		return limited
	}

	if resp == nil || resp.Response == nil {
		s.metrics.FetchRequests.WithLabelValues(metrics.OutcomeNetwork).Inc()
		log.WithError(err).Warn("GitHub request failed")
		return &NetworkError{Err: err}
	}

	var accepted *github.AcceptedError
	if resp.StatusCode >= 200 && resp.StatusCode <= 299 && !errors.As(err, &accepted) {
		s.metrics.FetchRequests.WithLabelValues(metrics.OutcomeMalformed).Inc()
		log.WithError(err).Warn("GitHub response could not be decoded")
		return fmt.Errorf("%w: %s: %v", ErrMalformedResponse, path, err)
	}

	s.metrics.FetchRequests.WithLabelValues(metrics.OutcomeStatus).Inc()
	log.WithField("status", resp.StatusCode).Warn("GitHub API returned non-success status")
	return &StatusError{StatusCode: resp.StatusCode, Path: path}
}

// rateLimited builds the error for a quota-exhausted response, preferring the
// raw headers and falling back to what go-github already parsed.
func (s *GitHubService) rateLimited(resp *github.Response, rateErr *github.RateLimitError) *RateLimitedError {
	limited := &RateLimitedError{Remaining: 0, Limit: defaultRateLimit}

	var header http.Header
	if resp != nil && resp.Response != nil {
		header = resp.Header
	}
	if rateErr != nil {
		if rateErr.Rate.Limit > 0 {
			limited.Limit = rateErr.Rate.Limit
		}
		limited.Remaining = rateErr.Rate.Remaining
		if !rateErr.Rate.Reset.Time.IsZero() {
			limited.ResetTime = rateErr.Rate.Reset.Time.Unix()
		}
	}

	limited.Remaining = headerInt(header, s.headers.Remaining, limited.Remaining)
	limited.Limit = headerInt(header, s.headers.Limit, limited.Limit)
	if reset := headerInt64(header, s.headers.Reset, 0); reset > 0 {
		limited.ResetTime = reset
	}
	if limited.ResetTime == 0 {
		limited.ResetTime = s.now().Add(defaultResetDelay).Unix()
	}

	return limited
}

// observe pushes whatever quota headers a response carried into the tracker
func (s *GitHubService) observe(header http.Header) {
	current := s.tracker.Snapshot()
	remaining := headerInt(header, s.headers.Remaining, current.Remaining)
	limit := headerInt(header, s.headers.Limit, current.Limit)
	s.tracker.Observe(remaining, limit)
	if header.Get(s.headers.Remaining) != "" {
		s.metrics.RateLimitRemaining.Set(float64(remaining))
	}
}

// ListOrgRepositories fetches the organization's public repositories in a single call
func (s *GitHubService) ListOrgRepositories(ctx context.Context, org string) ([]models.RepositorySummary, error) {
	var repos []*github.Repository
	path := fmt.Sprintf("orgs/%s/repos?type=public&per_page=100", url.PathEscape(org))
	if err := s.Fetch(ctx, path, &repos); err != nil {
		return nil, err
	}
	if repos == nil {
		return nil, fmt.Errorf("%w: %s: expected a repository list", ErrMalformedResponse, path)
	}

	summaries := make([]models.RepositorySummary, 0, len(repos))
	for _, repo := range repos {
		if repo == nil {
			continue
		}
		summaries = append(summaries, models.RepositorySummary{
			ID:       repo.GetID(),
			FullName: repo.GetFullName(),
			Stars:    repo.GetStargazersCount(),
			Forks:    repo.GetForksCount(),
		})
	}
	return summaries, nil
}

// ListContributors fetches one page of a repository's contributors
func (s *GitHubService) ListContributors(ctx context.Context, fullName string, perPage int) ([]RepositoryContributor, error) {
	var contributors []*github.Contributor
	path := fmt.Sprintf("repos/%s/contributors?per_page=%d", fullName, perPage)
	if err := s.Fetch(ctx, path, &contributors); err != nil {
		return nil, err
	}

	result := make([]RepositoryContributor, 0, len(contributors))
	for _, c := range contributors {
		if c == nil {
			continue
		}
		result = append(result, RepositoryContributor{
			Login:         c.GetLogin(),
			AvatarURL:     c.GetAvatarURL(),
			HTMLURL:       c.GetHTMLURL(),
			Contributions: c.GetContributions(),
			Type:          c.GetType(),
		})
	}
	return result, nil
}

func headerInt(header http.Header, name string, fallback int) int {
	if header == nil || name == "" {
		return fallback
	}
	if value := header.Get(name); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func headerInt64(header http.Header, name string, fallback int64) int64 {
	if header == nil || name == "" {
		return fallback
	}
	if value := header.Get(name); value != "" {
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}
