package factors

import (
	"github.com/investorcenter/score-engine/internal/contracts"
	"github.com/investorcenter/score-engine/pkg/logger"
)

// Metric weights within the growth factor.
const (
	growthRevenueYoYWeight = 0.30
	growthEPSYoYWeight     = 0.30
	growthCAGRWeight       = 0.25
	growthMarginExpWeight  = 0.15
)

// GrowthCalculator scores revenue and earnings expansion against sector
// peers. Everything here is sector-relative: 20% growth is exceptional for
// a utility and pedestrian for a software vendor.
type GrowthCalculator struct {
	logger *logger.Logger
}

// NewGrowthCalculator creates a new growth calculator
func NewGrowthCalculator(log *logger.Logger) *GrowthCalculator {
	return &GrowthCalculator{logger: log}
}

// Factor returns the factor identity
func (c *GrowthCalculator) Factor() contracts.Factor {
	return contracts.FactorGrowth
}

// Calculate scores the growth factor for one entity.
func (c *GrowthCalculator) Calculate(entity contracts.Entity, m contracts.MetricSet, dists *contracts.DistributionIndex) *contracts.FactorScore {
	terms := []metricTerm{
		ranked(m, dists, entity.Sector, contracts.MetricRevenueGrowthYoY, growthRevenueYoYWeight),
		ranked(m, dists, entity.Sector, contracts.MetricEPSGrowthYoY, growthEPSYoYWeight),
		ranked(m, dists, entity.Sector, contracts.MetricRevenueCAGR3Y, growthCAGRWeight),
		ranked(m, dists, entity.Sector, contracts.MetricOpMarginExpansion, growthMarginExpWeight),
	}

	return compose(contracts.FactorGrowth, terms)
}
