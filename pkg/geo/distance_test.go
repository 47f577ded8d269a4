package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversine(t *testing.T) {
	// Uzhhorod castle to the railway station, roughly 1.9 km apart
	d := Haversine(48.6217, 22.3056, 48.6081, 22.2946)
	assert.InDelta(t, 1700, d, 200)
}

func TestHaversineZeroDistance(t *testing.T) {
	d := Haversine(48.6208, 22.2879, 48.6208, 22.2879)
	assert.Equal(t, 0.0, d)
}

func TestWalkingDuration(t *testing.T) {
	assert.Equal(t, 720.0, WalkingDuration(1000.0))
	assert.Equal(t, 0.0, WalkingDuration(0))
}
