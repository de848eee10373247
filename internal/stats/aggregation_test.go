package stats_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jengzang/casemap-backend-go/internal/stats"
)

func TestBasicAggregates(t *testing.T) {
	t.Parallel()

	values := []float64{4, 1, 3, 2}
	assert.InDelta(t, 10, stats.Sum(values), 0)
	assert.InDelta(t, 2.5, stats.Mean(values), 0)
	assert.InDelta(t, 1, stats.Min(values), 0)
	assert.InDelta(t, 4, stats.Max(values), 0)
	assert.InDelta(t, 2.5, stats.Median(values), 0)
	assert.InDelta(t, 3.7, stats.Quantile(values, 0.9), 1e-9)
	assert.Equal(t, []float64{4, 1, 3, 2}, values, "input must not be reordered")

	assert.Zero(t, stats.Mean(nil))
	assert.Zero(t, stats.Quantile(nil, 0.5))
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	assert.InDeltaSlice(t, []float64{0, 0.5, 1}, stats.Normalize([]float64{10, 20, 30}), 1e-9)
	assert.Equal(t, []float64{0, 0}, stats.Normalize([]float64{7, 7}))
	assert.Empty(t, stats.Normalize(nil))
}

func TestInterpolate(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 5, stats.Interpolate(0, 0, 10000, 5, 40), 0)
	assert.InDelta(t, 22.5, stats.Interpolate(5000, 0, 10000, 5, 40), 1e-9)
	assert.InDelta(t, 40, stats.Interpolate(1e6, 0, 10000, 5, 40), 0)
	assert.InDelta(t, 5, stats.Interpolate(-3, 0, 10000, 5, 40), 0)
	assert.InDelta(t, 1, stats.Interpolate(3, 3, 3, 1, 2), 0)
}
