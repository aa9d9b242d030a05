package services

import (
	"context"
	"sync"
	"time"

	"github.com/alimgiray/orgboard/internal/models"
	"github.com/alimgiray/orgboard/pkg/logger"
)

// RateLimitTracker holds the process-wide quota state of the remote API.
// It is read before and written after every fetch, and by the HTTP status
// endpoint, so every access goes through one mutex.
type RateLimitTracker struct {
	mu    sync.Mutex
	state models.RateLimitState
	now   func() time.Time
}

func NewRateLimitTracker() *RateLimitTracker {
	return &RateLimitTracker{now: time.Now}
}

// Snapshot returns a copy of the current state
func (t *RateLimitTracker) Snapshot() models.RateLimitState {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.expireLocked(t.now())
	return t.state
}

// IsLimited reports whether calls must be held back. A limit whose reset
// time has passed is cleared here as well as by the countdown.
func (t *RateLimitTracker) IsLimited() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.expireLocked(t.now())
	return t.state.IsLimited
}

// Observe records the quota headers of a response
func (t *RateLimitTracker) Observe(remaining, limit int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state.Remaining = remaining
	t.state.Limit = limit
}

// MarkLimited records a quota-exhausted response
func (t *RateLimitTracker) MarkLimited(resetTime int64, remaining, limit int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = models.RateLimitState{
		IsLimited: true,
		ResetTime: resetTime,
		Remaining: remaining,
		Limit:     limit,
	}
}

// Clear drops the limited flag and its reset time
func (t *RateLimitTracker) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.clearLocked()
}

// Tick advances the countdown to now and reports whether the limit still holds
func (t *RateLimitTracker) Tick(now time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.expireLocked(now)
	return t.state.IsLimited
}

// RunCountdown ticks every interval while the API is limited and returns once
// the limit clears (calling onClear) or ctx is cancelled.
func (t *RateLimitTracker) RunCountdown(ctx context.Context, interval time.Duration, onClear func()) {
	if !t.IsLimited() {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if t.Tick(now) {
				continue
			}
			logger.WithComponent("rate_limit").Info("Rate limit cleared")
			if onClear != nil {
				onClear()
			}
			return
		}
	}
}

func (t *RateLimitTracker) expireLocked(now time.Time) {
	if t.state.IsLimited && t.state.ResetTime > 0 && now.Unix() >= t.state.ResetTime {
		t.clearLocked()
	}
}

func (t *RateLimitTracker) clearLocked() {
	t.state.IsLimited = false
	t.state.ResetTime = 0
}
