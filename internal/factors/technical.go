package factors

import (
	"github.com/investorcenter/score-engine/internal/contracts"
	"github.com/investorcenter/score-engine/pkg/logger"
)

// Component weights within the technical factor.
const (
	technicalRSIWeight    = 0.35
	technicalMACDWeight   = 0.25
	technicalSMA50Weight  = 0.20
	technicalSMA200Weight = 0.20
)

// RSI curve parameters. The curve is contrarian and continuous: 0→100,
// 30→60, 50→50, 70→40, 100→0.
const (
	rsiOversold   = 30.0
	rsiOverbought = 70.0
)

// macdScale converts MACD histogram units to points around neutral 50.
const macdScale = 10.0

// TechnicalCalculator scores chart posture from precomputed indicators.
// RSI is scored on a mean-reversion curve, MACD on its histogram sign and
// size, and the moving-average positions as binary trend confirmation.
type TechnicalCalculator struct {
	logger *logger.Logger
}

// NewTechnicalCalculator creates a new technical calculator
func NewTechnicalCalculator(log *logger.Logger) *TechnicalCalculator {
	return &TechnicalCalculator{logger: log}
}

// Factor returns the factor identity
func (c *TechnicalCalculator) Factor() contracts.Factor {
	return contracts.FactorTechnical
}

// Calculate scores the technical factor for one entity.
func (c *TechnicalCalculator) Calculate(entity contracts.Entity, m contracts.MetricSet, dists *contracts.DistributionIndex) *contracts.FactorScore {
	terms := []metricTerm{
		absolute(m, contracts.MetricRSI14, technicalRSIWeight, scoreRSI),
		absolute(m, contracts.MetricMACDHistogram, technicalMACDWeight, func(hist float64) (float64, bool) {
			return 50 + hist*macdScale, true
		}),
		absolute(m, contracts.MetricAboveSMA50, technicalSMA50Weight, scoreAboveSMA),
		absolute(m, contracts.MetricAboveSMA200, technicalSMA200Weight, scoreAboveSMA),
	}

	return compose(contracts.FactorTechnical, terms)
}

// scoreRSI is piecewise linear and monotone decreasing in RSI. Deep
// oversold approaches 100, deep overbought approaches 0, and the 30-70
// band drifts gently through the neutral 50.
func scoreRSI(rsi float64) (float64, bool) {
	switch {
	case rsi < rsiOversold:
		// 60 at the band edge, rising to 100 at RSI 0.
		return 60 + (rsiOversold-rsi)*(40.0/rsiOversold), true
	case rsi > rsiOverbought:
		// 40 at the band edge, falling to 0 at RSI 100.
		return 40 - (rsi-rsiOverbought)*(40.0/(100-rsiOverbought)), true
	default:
		// Neutral band: 30→60 down to 70→40.
		return 50 - (rsi-50)*0.5, true
	}
}

// scoreAboveSMA treats the flag as trend confirmation: above = 100,
// below = 0.
func scoreAboveSMA(flag float64) (float64, bool) {
	if flag > 0 {
		return 100, true
	}
	return 0, true
}
