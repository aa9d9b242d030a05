package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("TOP_REPOSITORIES", "")
	t.Setenv("REQUEST_DELAY_MS", "")

	cfg := FromEnv()

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "https://api.github.com/", cfg.GitHub.APIURL)
	assert.Equal(t, "X-RateLimit-Remaining", cfg.GitHub.RemainingHeader)
	assert.Equal(t, 10, cfg.Leaderboard.TopRepositories)
	assert.Equal(t, 100, cfg.Leaderboard.ContributorsPerPage)
	assert.Equal(t, 100*time.Millisecond, cfg.Leaderboard.RequestDelay)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("GITHUB_ORG", "acme")
	t.Setenv("TOP_REPOSITORIES", "3")
	t.Setenv("REQUEST_DELAY_MS", "250")
	t.Setenv("ESTIMATE_SEED", "42")

	cfg := FromEnv()

	assert.Equal(t, "acme", cfg.GitHub.Org)
	assert.Equal(t, 3, cfg.Leaderboard.TopRepositories)
	assert.Equal(t, 250*time.Millisecond, cfg.Leaderboard.RequestDelay)
	assert.Equal(t, int64(42), cfg.Leaderboard.EstimateSeed)
}

func TestGetEnvAsIntFallsBackOnGarbage(t *testing.T) {
	t.Setenv("READ_TIMEOUT", "soon")
	assert.Equal(t, 15, getEnvAsInt("READ_TIMEOUT", 15))
}

func TestFromEnvIgnoresNonPositiveIntervals(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{name: "zero", value: "0"},
		{name: "negative", value: "-5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("REFRESH_INTERVAL_MINUTES", tt.value)
			t.Setenv("STATS_INTERVAL_MINUTES", tt.value)

			cfg := FromEnv()

			assert.Equal(t, 30*time.Minute, cfg.Leaderboard.RefreshInterval)
			assert.Equal(t, 60*time.Minute, cfg.Leaderboard.StatsInterval)
		})
	}
}
