package blend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f(v float64) *float64 { return &v }

func TestWeightedAllAvailable(t *testing.T) {
	res := Weighted([]Term{
		{Name: "a", Weight: 0.5, Value: f(80)},
		{Name: "b", Weight: 0.3, Value: f(60)},
		{Name: "c", Weight: 0.2, Value: f(40)},
	})
	require.NotNil(t, res)
	assert.InDelta(t, 0.5*80+0.3*60+0.2*40, res.Value, 1e-9)
	assert.InDelta(t, 0.5, res.Applied["a"], 1e-9)
}

func TestWeightedRedistribution(t *testing.T) {
	// Closed-form check: with c missing, a and b renormalize to 5/8 and 3/8.
	res := Weighted([]Term{
		{Name: "a", Weight: 0.5, Value: f(80)},
		{Name: "b", Weight: 0.3, Value: f(60)},
		{Name: "c", Weight: 0.2, Value: nil},
	})
	require.NotNil(t, res)

	want := (0.5*80 + 0.3*60) / 0.8
	assert.InDelta(t, want, res.Value, 1e-9)
	assert.InDelta(t, 0.5/0.8, res.Applied["a"], 1e-9)
	assert.InDelta(t, 0.3/0.8, res.Applied["b"], 1e-9)
	assert.NotContains(t, res.Applied, "c")

	sum := 0.0
	for _, w := range res.Applied {
		sum += w
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestWeightedSingleSurvivor(t *testing.T) {
	res := Weighted([]Term{
		{Name: "a", Weight: 0.1, Value: f(42)},
		{Name: "b", Weight: 0.9, Value: nil},
	})
	require.NotNil(t, res)
	assert.InDelta(t, 42, res.Value, 1e-9)
	assert.InDelta(t, 1.0, res.Applied["a"], 1e-9)
}

func TestWeightedAllMissing(t *testing.T) {
	res := Weighted([]Term{
		{Name: "a", Weight: 0.5, Value: nil},
		{Name: "b", Weight: 0.5, Value: nil},
	})
	assert.Nil(t, res)
}

func TestWeightedEmpty(t *testing.T) {
	assert.Nil(t, Weighted(nil))
}
