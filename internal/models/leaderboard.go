package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Period selects which contribution field a leaderboard view ranks by
type Period string

const (
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
	PeriodOverall Period = "overall"
)

// ParsePeriod maps user input to a Period, defaulting to overall
func ParsePeriod(value string) Period {
	switch Period(strings.ToLower(strings.TrimSpace(value))) {
	case PeriodWeekly:
		return PeriodWeekly
	case PeriodMonthly:
		return PeriodMonthly
	default:
		return PeriodOverall
	}
}

// SnapshotSource tells presentation code where the entries came from
type SnapshotSource string

const (
	SourceLive    SnapshotSource = "live"
	SourcePartial SnapshotSource = "partial"
	SourceCached  SnapshotSource = "cached"
	SourceDemo    SnapshotSource = "demo"
)

// LeaderboardSnapshot is the result of one aggregation run, replaced as a whole
type LeaderboardSnapshot struct {
	ID             string             `json:"id"`
	Org            string             `json:"org"`
	Entries        []LeaderboardEntry `json:"entries"`
	Source         SnapshotSource     `json:"source"`
	Message        string             `json:"message,omitempty"`
	RateLimit      RateLimitState     `json:"rate_limit"`
	NoContributors bool               `json:"no_contributors"`
	GeneratedAt    time.Time          `json:"generated_at"`
}

// NewLeaderboardSnapshot creates a new LeaderboardSnapshot with a generated UUID
func NewLeaderboardSnapshot(org string, entries []LeaderboardEntry, source SnapshotSource) *LeaderboardSnapshot {
	return &LeaderboardSnapshot{
		ID:          uuid.New().String(),
		Org:         org,
		Entries:     entries,
		Source:      source,
		GeneratedAt: time.Now(),
	}
}

// LeaderboardView is one period's ranking of a snapshot, ready for presentation
type LeaderboardView struct {
	SnapshotID  string             `json:"snapshot_id"`
	Org         string             `json:"org"`
	Period      Period             `json:"period"`
	Entries     []LeaderboardEntry `json:"entries"`
	Count       int                `json:"count"`
	Empty       bool               `json:"empty"`
	Source      SnapshotSource     `json:"source"`
	Message     string             `json:"message,omitempty"`
	RateLimit   RateLimitState     `json:"rate_limit"`
	GeneratedAt time.Time          `json:"generated_at"`
}
