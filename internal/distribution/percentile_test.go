package distribution

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/investorcenter/score-engine/internal/contracts"
)

// evenDist has breakpoints at clean 10-unit intervals so interpolation
// results are exact.
var evenDist = &contracts.SectorDistribution{
	Sector: "Technology", Metric: contracts.MetricROE,
	Min: 0, P10: 10, P25: 25, P50: 50, P75: 75, P90: 90, Max: 100,
	SampleCount: 20, Sufficient: true,
}

func TestPercentileInterpolation(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		want  float64
	}{
		{"at minimum", 0, 0},
		{"below minimum clamps", -50, 0},
		{"at p10", 10, 10},
		{"between p10 and p25", 17.5, 17.5},
		{"at median", 50, 50},
		{"between p75 and p90", 82.5, 82.5},
		{"at maximum", 100, 100},
		{"above maximum clamps", 250, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentile(evenDist, tt.value, false)
			require.NotNil(t, got)
			assert.InDelta(t, tt.want, *got, 1e-9)
		})
	}
}

func TestPercentileLowerIsBetter(t *testing.T) {
	// A cheap valuation multiple ranks high when inverted.
	got := Percentile(evenDist, 10, true)
	require.NotNil(t, got)
	assert.InDelta(t, 90, *got, 1e-9)

	got = Percentile(evenDist, 95, true)
	require.NotNil(t, got)
	assert.InDelta(t, 5, *got, 1e-9)
}

func TestPercentileBounds(t *testing.T) {
	// Whatever the inputs, the result stays in [0, 100].
	values := []float64{-1e9, -3.7, 0, 12.34, 49.9, 87, 99.99, 1e9}
	for _, v := range values {
		for _, inverted := range []bool{false, true} {
			got := Percentile(evenDist, v, inverted)
			require.NotNil(t, got)
			assert.GreaterOrEqual(t, *got, 0.0)
			assert.LessOrEqual(t, *got, 100.0)
		}
	}
}

func TestPercentileNilDistribution(t *testing.T) {
	assert.Nil(t, Percentile(nil, 42, false))
}

func TestPercentileFlatDistribution(t *testing.T) {
	flat := &contracts.SectorDistribution{
		Min: 5, P10: 5, P25: 5, P50: 5, P75: 5, P90: 5, Max: 5,
		SampleCount: 10, Sufficient: true,
	}

	for _, inverted := range []bool{false, true} {
		got := Percentile(flat, 5, inverted)
		require.NotNil(t, got)
		assert.Equal(t, 50.0, *got)
	}
}

func TestPercentileTiedBreakpoints(t *testing.T) {
	// Heavy mass at zero: min through p50 identical. A value on the tie
	// credits the upper percentile instead of dividing by zero.
	tied := &contracts.SectorDistribution{
		Min: 0, P10: 0, P25: 0, P50: 0, P75: 2, P90: 6, Max: 10,
		SampleCount: 25, Sufficient: true,
	}

	got := Percentile(tied, 1, false)
	require.NotNil(t, got)
	assert.InDelta(t, 62.5, *got, 1e-9)

	// On the tied value itself: clamped to the minimum rule.
	got = Percentile(tied, 0, false)
	require.NotNil(t, got)
	assert.Equal(t, 0.0, *got)
}
