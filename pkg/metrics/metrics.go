package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Fetch outcomes recorded by the rate-limited fetcher.
const (
	OutcomeOK          = "ok"
	OutcomeRateLimited = "rate_limited"
	OutcomeNetwork     = "network_error"
	OutcomeMalformed   = "malformed"
	OutcomeStatus      = "status_error"
)

// Collector groups the pipeline's Prometheus instruments.
type Collector struct {
	FetchRequests      *prometheus.CounterVec
	RateLimitRemaining prometheus.Gauge
	RateLimited        prometheus.Gauge
	AggregationRuns    *prometheus.CounterVec
	LeaderboardSize    prometheus.Gauge
}

// NewCollector creates the instruments and registers them on reg. A nil
// registerer leaves them unregistered, which is what most tests want.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		FetchRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "orgboard",
			Name:      "github_fetch_requests_total",
			Help:      "Remote API requests by outcome.",
		}, []string{"outcome"}),
		RateLimitRemaining: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "orgboard",
			Name:      "github_rate_limit_remaining",
			Help:      "Last observed remaining request quota.",
		}),
		RateLimited: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "orgboard",
			Name:      "github_rate_limited",
			Help:      "1 while the remote API quota is exhausted.",
		}),
		AggregationRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "orgboard",
			Name:      "aggregation_runs_total",
			Help:      "Leaderboard aggregation runs by snapshot source.",
		}, []string{"source"}),
		LeaderboardSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "orgboard",
			Name:      "leaderboard_entries",
			Help:      "Entries in the current leaderboard snapshot.",
		}),
	}

	if reg != nil {
		reg.MustRegister(c.FetchRequests, c.RateLimitRemaining, c.RateLimited, c.AggregationRuns, c.LeaderboardSize)
	}
	return c
}
