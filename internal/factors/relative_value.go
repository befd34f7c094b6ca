package factors

import (
	"github.com/investorcenter/score-engine/internal/contracts"
	"github.com/investorcenter/score-engine/pkg/logger"
)

// Metric weights within the relative value factor.
const (
	relValuePEWeight       = 0.25
	relValuePSWeight       = 0.20
	relValuePBWeight       = 0.20
	relValueEVEBITDAWeight = 0.20
	relValuePEGWeight      = 0.15
)

// RelativeValueCalculator scores valuation multiples against sector peers.
// All multiples are lower-is-better, which the percentile lookup inverts.
// Negative multiples (loss-making P/E, negative book) carry no signal and
// are excluded rather than scored: their weight redistributes to the
// meaningful multiples.
type RelativeValueCalculator struct {
	logger *logger.Logger
}

// NewRelativeValueCalculator creates a new relative value calculator
func NewRelativeValueCalculator(log *logger.Logger) *RelativeValueCalculator {
	return &RelativeValueCalculator{logger: log}
}

// Factor returns the factor identity
func (c *RelativeValueCalculator) Factor() contracts.Factor {
	return contracts.FactorRelativeValue
}

// Calculate scores the relative value factor for one entity.
func (c *RelativeValueCalculator) Calculate(entity contracts.Entity, m contracts.MetricSet, dists *contracts.DistributionIndex) *contracts.FactorScore {
	terms := []metricTerm{
		rankedPositive(m, dists, entity.Sector, contracts.MetricPERatio, relValuePEWeight),
		rankedPositive(m, dists, entity.Sector, contracts.MetricPSRatio, relValuePSWeight),
		rankedPositive(m, dists, entity.Sector, contracts.MetricPBRatio, relValuePBWeight),
		rankedPositive(m, dists, entity.Sector, contracts.MetricEVEBITDA, relValueEVEBITDAWeight),
		rankedPositive(m, dists, entity.Sector, contracts.MetricPEGRatio, relValuePEGWeight),
	}

	return compose(contracts.FactorRelativeValue, terms)
}
