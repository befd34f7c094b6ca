package scoring

import (
	"github.com/investorcenter/score-engine/internal/contracts"
	"github.com/investorcenter/score-engine/internal/scoreconfig"
)

// Evaluator buckets data completeness into confidence tiers and applies
// the core-factor gate. Partial coverage only degrades the label; the gate
// is what actually suppresses an overall score built on the wrong shape of
// evidence (signals present, fundamentals absent).
type Evaluator struct {
	cfg scoreconfig.Confidence
}

// NewEvaluator creates a confidence evaluator from the scoring config.
func NewEvaluator(cfg *scoreconfig.Config) *Evaluator {
	return &Evaluator{cfg: cfg.Confidence}
}

// Evaluate derives the confidence descriptor for a factor score set.
func (e *Evaluator) Evaluate(factors contracts.FactorScoreSet) contracts.Confidence {
	completeness := float64(factors.Available()) / float64(len(contracts.AllFactors))

	return contracts.Confidence{
		Completeness: completeness,
		Tier:         e.tier(completeness),
		CoreGateMet:  e.gate(factors),
	}
}

func (e *Evaluator) tier(completeness float64) contracts.ConfidenceTier {
	switch {
	case completeness >= e.cfg.HighThreshold:
		return contracts.TierHigh
	case completeness >= e.cfg.MediumThreshold:
		return contracts.TierMedium
	case completeness >= e.cfg.LowThreshold:
		return contracts.TierLow
	default:
		return contracts.TierInsufficient
	}
}

// gate checks the core-factor minimums: enough quality factors AND enough
// valuation factors. A failing gate suppresses the overall score while the
// factor and category scores stand.
func (e *Evaluator) gate(factors contracts.FactorScoreSet) bool {
	return factors.AvailableIn(contracts.CategoryQuality) >= e.cfg.MinQualityFactors &&
		factors.AvailableIn(contracts.CategoryValuation) >= e.cfg.MinValuationFactors
}
