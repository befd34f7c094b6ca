package scoring

import (
	"github.com/investorcenter/score-engine/internal/blend"
	"github.com/investorcenter/score-engine/internal/contracts"
	"github.com/investorcenter/score-engine/pkg/logger"
)

// Aggregation is the two-level rollup of a factor score set.
type Aggregation struct {
	// Categories holds the score of each category with at least one
	// available factor; the rest are absent.
	Categories map[contracts.Category]float64

	// Overall is nil when every factor was null. The core-factor gate is
	// applied by the caller, not here.
	Overall *float64

	// AppliedWeights are the effective per-factor weights behind Overall:
	// within-category redistribution times category-level redistribution.
	// They sum to 1 over available factors.
	AppliedWeights contracts.WeightVector
}

// Aggregator rolls factor scores up to category and overall scores using
// the same null-tolerant weighted average at both levels. Category weight
// is the sum of its members' weights in the stage vector, so a fully
// missing category redistributes its whole budget.
type Aggregator struct {
	log *logger.Logger
}

// NewAggregator creates an aggregator.
func NewAggregator(log *logger.Logger) *Aggregator {
	return &Aggregator{log: log.Component("aggregator")}
}

// Aggregate computes category and overall scores under a stage weight
// vector.
func (a *Aggregator) Aggregate(factors contracts.FactorScoreSet, weights contracts.WeightVector) Aggregation {
	agg := Aggregation{
		Categories:     make(map[contracts.Category]float64),
		AppliedWeights: make(contracts.WeightVector),
	}

	// Level 1: factors → categories, redistributing within each category.
	withinCategory := make(map[contracts.Category]map[string]float64)
	categoryTerms := make([]blend.Term, 0, len(contracts.AllCategories))

	for _, cat := range contracts.AllCategories {
		terms := make([]blend.Term, 0, 4)
		for _, f := range contracts.FactorsIn(cat) {
			fs := factors[f]
			if fs == nil {
				continue
			}
			score := fs.Score
			terms = append(terms, blend.Term{Name: string(f), Weight: weights[f], Value: &score})
		}

		res := blend.Weighted(terms)
		if res == nil {
			continue
		}

		agg.Categories[cat] = res.Value
		withinCategory[cat] = res.Applied

		catScore := res.Value
		categoryTerms = append(categoryTerms, blend.Term{
			Name:   string(cat),
			Weight: weights.CategoryWeight(cat),
			Value:  &catScore,
		})
	}

	// Level 2: categories → overall, redistributing across categories.
	res := blend.Weighted(categoryTerms)
	if res == nil {
		return agg
	}

	agg.Overall = contracts.Float64(res.Value)
	for cat, factorWeights := range withinCategory {
		catApplied := res.Applied[string(cat)]
		for name, w := range factorWeights {
			agg.AppliedWeights[contracts.Factor(name)] = w * catApplied
		}
	}

	return agg
}
