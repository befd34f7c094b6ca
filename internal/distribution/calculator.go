package distribution

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/investorcenter/score-engine/internal/contracts"
	"github.com/investorcenter/score-engine/internal/scoreconfig"
	"github.com/investorcenter/score-engine/pkg/logger"
)

// Calculator builds sector distributions for one run. Raw values are
// winsorized at mean ± sigma·stddev before the breakpoints are computed, so
// a single data error cannot drag the whole sector's percentiles.
type Calculator struct {
	sigma     float64
	minSample int
	log       *logger.Logger
}

// NewCalculator creates a distribution calculator from the scoring config.
func NewCalculator(cfg *scoreconfig.Config, log *logger.Logger) *Calculator {
	return &Calculator{
		sigma:     cfg.Distribution.WinsorizeSigma,
		minSample: cfg.Distribution.MinSampleSize,
		log:       log.Component("distribution"),
	}
}

// Compute summarizes one (sector, metric) population. Returns nil when the
// sector produced no observations at all. A populated-but-small sector gets
// a distribution with Sufficient=false: kept for diagnostics, unusable for
// percentile lookups.
func (c *Calculator) Compute(sector, metric string, date time.Time, values []float64) *contracts.SectorDistribution {
	if len(values) == 0 {
		return nil
	}

	clipped := c.winsorize(values)

	sorted := make([]float64, len(clipped))
	copy(sorted, clipped)
	sort.Float64s(sorted)

	mean, stddev := stat.MeanStdDev(sorted, nil)
	if len(sorted) == 1 {
		stddev = 0
	}

	dist := &contracts.SectorDistribution{
		Sector:      sector,
		Metric:      metric,
		Date:        date,
		Min:         sorted[0],
		P10:         stat.Quantile(0.10, stat.LinInterp, sorted, nil),
		P25:         stat.Quantile(0.25, stat.LinInterp, sorted, nil),
		P50:         stat.Quantile(0.50, stat.LinInterp, sorted, nil),
		P75:         stat.Quantile(0.75, stat.LinInterp, sorted, nil),
		P90:         stat.Quantile(0.90, stat.LinInterp, sorted, nil),
		Max:         sorted[len(sorted)-1],
		Mean:        mean,
		StdDev:      stddev,
		SampleCount: len(sorted),
		Sufficient:  len(sorted) >= c.minSample,
	}

	if !dist.Sufficient {
		c.log.WithFields(map[string]interface{}{
			"sector": sector,
			"metric": metric,
			"n":      len(sorted),
			"min_n":  c.minSample,
		}).Debug("sector sample below minimum, distribution flagged insufficient")
	}

	return dist
}

// winsorize clips values beyond mean ± sigma·stddev to the bound itself.
// Sample counts stay stable; only the tails move.
func (c *Calculator) winsorize(values []float64) []float64 {
	if len(values) < 2 {
		return values
	}

	mean, stddev := stat.MeanStdDev(values, nil)
	if stddev == 0 || math.IsNaN(stddev) {
		return values
	}

	lo := mean - c.sigma*stddev
	hi := mean + c.sigma*stddev

	out := make([]float64, len(values))
	for i, v := range values {
		switch {
		case v < lo:
			out[i] = lo
		case v > hi:
			out[i] = hi
		default:
			out[i] = v
		}
	}
	return out
}
