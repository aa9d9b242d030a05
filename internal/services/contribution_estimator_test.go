package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRandomEstimatorBounds(t *testing.T) {
	estimator := NewRandomEstimator(42)
	for i := 0; i < 200; i++ {
		weekly, monthly := estimator.Estimate(1000)
		assert.GreaterOrEqual(t, weekly, 100)
		assert.LessOrEqual(t, weekly, 300)
		assert.GreaterOrEqual(t, monthly, 300)
		assert.LessOrEqual(t, monthly, 600)
	}
}

func TestRandomEstimatorSeedIsReproducible(t *testing.T) {
	first := NewRandomEstimator(7)
	second := NewRandomEstimator(7)
	for i := 0; i < 10; i++ {
		w1, m1 := first.Estimate(250)
		w2, m2 := second.Estimate(250)
		assert.Equal(t, w1, w2)
		assert.Equal(t, m1, m2)
	}
}

func TestRatioEstimatorFloors(t *testing.T) {
	weekly, monthly := RatioEstimator{Weekly: 0.2, Monthly: 0.5}.Estimate(7)
	assert.Equal(t, 1, weekly)
	assert.Equal(t, 3, monthly)
}
