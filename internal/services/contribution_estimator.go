package services

import (
	"math/rand"
	"sync"
	"time"
)

// ContributionEstimator splits a repository contribution count into weekly and
// monthly figures. The contributors endpoint has no time buckets, so these are
// estimates; the strategy is injectable so runs can be made reproducible.
type ContributionEstimator interface {
	Estimate(contributions int) (weekly, monthly int)
}

// RandomEstimator draws weekly from U(0.1, 0.3) and monthly from U(0.3, 0.6) of the count
type RandomEstimator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomEstimator seeds the estimator; seed 0 picks a time-based seed
func NewRandomEstimator(seed int64) *RandomEstimator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &RandomEstimator{rng: rand.New(rand.NewSource(seed))}
}

func (e *RandomEstimator) Estimate(contributions int) (int, int) {
	e.mu.Lock()
	weeklyRatio := 0.1 + e.rng.Float64()*0.2
	monthlyRatio := 0.3 + e.rng.Float64()*0.3
	e.mu.Unlock()

	return int(float64(contributions) * weeklyRatio), int(float64(contributions) * monthlyRatio)
}

// RatioEstimator applies fixed ratios
type RatioEstimator struct {
	Weekly  float64
	Monthly float64
}

func (e RatioEstimator) Estimate(contributions int) (int, int) {
	return int(float64(contributions) * e.Weekly), int(float64(contributions) * e.Monthly)
}
