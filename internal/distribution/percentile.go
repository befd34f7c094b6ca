package distribution

import "github.com/investorcenter/score-engine/internal/contracts"

// breakpoint pairs a stored distribution value with its percentile.
type breakpoint struct {
	value float64
	pct   float64
}

// Percentile places value within a sector distribution by linear
// interpolation between the stored breakpoints. Values at or below the
// sector minimum clamp to 0, at or above the maximum to 100. When
// lowerIsBetter the result is inverted so a cheap multiple still ranks
// high.
//
// Returns nil (no opinion, not zero) when the distribution is missing or
// its sample was below the configured minimum.
func Percentile(dist *contracts.SectorDistribution, value float64, lowerIsBetter bool) *float64 {
	if dist == nil || !dist.Sufficient {
		return nil
	}

	// Degenerate flat sector: every peer has the same value.
	if dist.Max == dist.Min {
		return contracts.Float64(50)
	}

	pct := interpolate(dist, value)
	if lowerIsBetter {
		pct = 100 - pct
	}
	return contracts.Float64(pct)
}

func interpolate(dist *contracts.SectorDistribution, value float64) float64 {
	bps := []breakpoint{
		{dist.Min, 0},
		{dist.P10, 10},
		{dist.P25, 25},
		{dist.P50, 50},
		{dist.P75, 75},
		{dist.P90, 90},
		{dist.Max, 100},
	}

	if value <= bps[0].value {
		return 0
	}
	if value >= bps[len(bps)-1].value {
		return 100
	}

	for i := 0; i < len(bps)-1; i++ {
		lo, hi := bps[i], bps[i+1]
		if value > hi.value {
			continue
		}
		// Tied breakpoints (heavy mass at one value): credit the upper pct.
		if hi.value == lo.value {
			return hi.pct
		}
		frac := (value - lo.value) / (hi.value - lo.value)
		return lo.pct + frac*(hi.pct-lo.pct)
	}

	return 100
}
