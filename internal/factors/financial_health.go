package factors

import (
	"math"

	"github.com/investorcenter/score-engine/internal/contracts"
	"github.com/investorcenter/score-engine/pkg/logger"
)

// Metric weights within the financial health factor.
const (
	healthDebtEquityWeight = 0.25
	healthCurrentWeight    = 0.20
	healthCoverageWeight   = 0.20
	healthFCFYieldWeight   = 0.20
	healthSolvencyWeight   = 0.15
)

// Current ratio scoring: 2.0 is the sweet spot, with 40 points lost per
// unit of distance. Below ~0.75 or above ~3.25 the balance sheet is either
// strained or hoarding.
const (
	currentRatioOptimal = 2.0
	currentRatioScale   = 40.0
)

// interestCoverageScale converts coverage multiples to points; 10x
// coverage or better maxes out.
const interestCoverageScale = 10.0

// FinancialHealthCalculator scores balance-sheet strength. Leverage and
// cash generation are sector-relative; the current ratio and interest
// coverage use absolute curves because their healthy ranges do not vary
// much by sector.
type FinancialHealthCalculator struct {
	logger *logger.Logger
}

// NewFinancialHealthCalculator creates a new financial health calculator
func NewFinancialHealthCalculator(log *logger.Logger) *FinancialHealthCalculator {
	return &FinancialHealthCalculator{logger: log}
}

// Factor returns the factor identity
func (c *FinancialHealthCalculator) Factor() contracts.Factor {
	return contracts.FactorFinancialHealth
}

// Calculate scores the financial health factor for one entity.
func (c *FinancialHealthCalculator) Calculate(entity contracts.Entity, m contracts.MetricSet, dists *contracts.DistributionIndex) *contracts.FactorScore {
	terms := []metricTerm{
		ranked(m, dists, entity.Sector, contracts.MetricDebtToEquity, healthDebtEquityWeight),
		absolute(m, contracts.MetricCurrentRatio, healthCurrentWeight, scoreCurrentRatio),
		absolute(m, contracts.MetricInterestCoverage, healthCoverageWeight, scoreInterestCoverage),
		ranked(m, dists, entity.Sector, contracts.MetricFCFYield, healthFCFYieldWeight),
		ranked(m, dists, entity.Sector, contracts.MetricSolvencyScore, healthSolvencyWeight),
	}

	return compose(contracts.FactorFinancialHealth, terms)
}

// scoreCurrentRatio peaks at the optimal ratio and decays linearly with
// distance in either direction.
func scoreCurrentRatio(cr float64) (float64, bool) {
	return 100 - math.Abs(cr-currentRatioOptimal)*currentRatioScale, true
}

// scoreInterestCoverage rewards coverage linearly up to the cap. Negative
// coverage (EBIT below zero) floors at 0 via the clamp.
func scoreInterestCoverage(coverage float64) (float64, bool) {
	return coverage * interestCoverageScale, true
}
