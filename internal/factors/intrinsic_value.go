package factors

import (
	"github.com/investorcenter/score-engine/internal/contracts"
	"github.com/investorcenter/score-engine/pkg/logger"
)

// marginOfSafetyScale maps the margin-of-safety fraction to points around
// the neutral 50: ±50% upside/downside saturates at 100/0.
const marginOfSafetyScale = 100.0

// IntrinsicValueCalculator scores price against the upstream fair value
// estimate (DCF/EPV blend computed by the ingestion pipeline). The score is
// a linear map of the margin of safety, not a sector rank: intrinsic value
// is an absolute yardstick.
type IntrinsicValueCalculator struct {
	logger *logger.Logger
}

// NewIntrinsicValueCalculator creates a new intrinsic value calculator
func NewIntrinsicValueCalculator(log *logger.Logger) *IntrinsicValueCalculator {
	return &IntrinsicValueCalculator{logger: log}
}

// Factor returns the factor identity
func (c *IntrinsicValueCalculator) Factor() contracts.Factor {
	return contracts.FactorIntrinsicValue
}

// Calculate scores the intrinsic value factor. Both the fair value
// estimate and the current price must be present and positive; otherwise
// the factor is null.
func (c *IntrinsicValueCalculator) Calculate(entity contracts.Entity, m contracts.MetricSet, dists *contracts.DistributionIndex) *contracts.FactorScore {
	fairValue, okFV := m.Get(contracts.MetricFairValue)
	price, okPrice := m.Get(contracts.MetricCurrentPrice)
	if !okFV || !okPrice || fairValue <= 0 || price <= 0 {
		return nil
	}

	// Margin of safety as a fraction of price: 0.2 = 20% upside to fair value.
	mos := (fairValue - price) / price
	score := clamp(50 + mos*marginOfSafetyScale)

	return &contracts.FactorScore{
		Factor: contracts.FactorIntrinsicValue,
		Score:  score,
		Components: []contracts.MetricComponent{
			{Metric: contracts.MetricFairValue, RawValue: fairValue, Score: score, Weight: 1.0},
		},
	}
}
