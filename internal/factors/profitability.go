package factors

import (
	"github.com/investorcenter/score-engine/internal/contracts"
	"github.com/investorcenter/score-engine/pkg/logger"
)

// Metric weights within the profitability factor.
const (
	profitNetMarginWeight   = 0.25
	profitROEWeight         = 0.25
	profitROICWeight        = 0.20
	profitGrossMarginWeight = 0.15
	profitOpMarginWeight    = 0.15
)

// ProfitabilityCalculator scores margins and capital returns against
// sector peers.
type ProfitabilityCalculator struct {
	logger *logger.Logger
}

// NewProfitabilityCalculator creates a new profitability calculator
func NewProfitabilityCalculator(log *logger.Logger) *ProfitabilityCalculator {
	return &ProfitabilityCalculator{logger: log}
}

// Factor returns the factor identity
func (c *ProfitabilityCalculator) Factor() contracts.Factor {
	return contracts.FactorProfitability
}

// Calculate scores the profitability factor for one entity.
func (c *ProfitabilityCalculator) Calculate(entity contracts.Entity, m contracts.MetricSet, dists *contracts.DistributionIndex) *contracts.FactorScore {
	terms := []metricTerm{
		ranked(m, dists, entity.Sector, contracts.MetricNetMargin, profitNetMarginWeight),
		ranked(m, dists, entity.Sector, contracts.MetricROE, profitROEWeight),
		ranked(m, dists, entity.Sector, contracts.MetricROIC, profitROICWeight),
		ranked(m, dists, entity.Sector, contracts.MetricGrossMargin, profitGrossMarginWeight),
		ranked(m, dists, entity.Sector, contracts.MetricOperatingMargin, profitOpMarginWeight),
	}

	return compose(contracts.FactorProfitability, terms)
}
