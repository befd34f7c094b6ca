package factors

import (
	"github.com/investorcenter/score-engine/internal/contracts"
	"github.com/investorcenter/score-engine/pkg/logger"
)

// Component weights within the sentiment factor.
const (
	sentimentNewsWeight     = 0.60
	sentimentRevisionWeight = 0.40
)

// epsRevisionScale converts estimate revision percent to points around
// neutral 50; a ±20% revision saturates the score.
const epsRevisionScale = 2.5

// SentimentCalculator scores narrative tone: aggregated news polarity and
// the direction of consensus estimate revisions.
type SentimentCalculator struct {
	logger *logger.Logger
}

// NewSentimentCalculator creates a new sentiment calculator
func NewSentimentCalculator(log *logger.Logger) *SentimentCalculator {
	return &SentimentCalculator{logger: log}
}

// Factor returns the factor identity
func (c *SentimentCalculator) Factor() contracts.Factor {
	return contracts.FactorSentiment
}

// Calculate scores the sentiment factor for one entity.
func (c *SentimentCalculator) Calculate(entity contracts.Entity, m contracts.MetricSet, dists *contracts.DistributionIndex) *contracts.FactorScore {
	terms := []metricTerm{
		absolute(m, contracts.MetricNewsSentiment, sentimentNewsWeight, scoreNewsPolarity),
		absolute(m, contracts.MetricEPSRevisionPct, sentimentRevisionWeight, func(pct float64) (float64, bool) {
			return 50 + pct*epsRevisionScale, true
		}),
	}

	return compose(contracts.FactorSentiment, terms)
}

// scoreNewsPolarity maps average polarity in [-1, 1] linearly onto
// [0, 100].
func scoreNewsPolarity(polarity float64) (float64, bool) {
	return (polarity + 1) / 2 * 100, true
}
