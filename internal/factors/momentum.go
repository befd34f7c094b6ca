package factors

import (
	"github.com/investorcenter/score-engine/internal/contracts"
	"github.com/investorcenter/score-engine/pkg/logger"
)

// Lookback weights within the momentum factor; longer windows dominate.
const (
	momentum1MWeight  = 0.10
	momentum3MWeight  = 0.20
	momentum6MWeight  = 0.30
	momentum12MWeight = 0.40
)

// MomentumCalculator scores trailing returns against sector peers. Sector
// relativity matters here more than anywhere: in a rallying sector an
// absolute +10% can still be a laggard.
type MomentumCalculator struct {
	logger *logger.Logger
}

// NewMomentumCalculator creates a new momentum calculator
func NewMomentumCalculator(log *logger.Logger) *MomentumCalculator {
	return &MomentumCalculator{logger: log}
}

// Factor returns the factor identity
func (c *MomentumCalculator) Factor() contracts.Factor {
	return contracts.FactorMomentum
}

// Calculate scores the momentum factor for one entity.
func (c *MomentumCalculator) Calculate(entity contracts.Entity, m contracts.MetricSet, dists *contracts.DistributionIndex) *contracts.FactorScore {
	terms := []metricTerm{
		ranked(m, dists, entity.Sector, contracts.MetricReturn1M, momentum1MWeight),
		ranked(m, dists, entity.Sector, contracts.MetricReturn3M, momentum3MWeight),
		ranked(m, dists, entity.Sector, contracts.MetricReturn6M, momentum6MWeight),
		ranked(m, dists, entity.Sector, contracts.MetricReturn12M, momentum12MWeight),
	}

	return compose(contracts.FactorMomentum, terms)
}
