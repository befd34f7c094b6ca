package factors

import (
	"github.com/investorcenter/score-engine/internal/blend"
	"github.com/investorcenter/score-engine/internal/contracts"
	"github.com/investorcenter/score-engine/internal/distribution"
	"github.com/investorcenter/score-engine/pkg/logger"
)

// Calculator scores one factor for one entity. Calculate is pure: it reads
// the metric set and the run's distribution index and touches nothing else,
// so the engine can run calculators concurrently across entities.
//
// A calculator with zero usable inputs returns nil, never a zero score.
type Calculator interface {
	Factor() contracts.Factor
	Calculate(entity contracts.Entity, m contracts.MetricSet, dists *contracts.DistributionIndex) *contracts.FactorScore
}

// All returns the nine calculators in canonical factor order.
func All(log *logger.Logger) []Calculator {
	return []Calculator{
		NewGrowthCalculator(log),
		NewProfitabilityCalculator(log),
		NewFinancialHealthCalculator(log),
		NewRelativeValueCalculator(log),
		NewIntrinsicValueCalculator(log),
		NewSmartMoneyCalculator(log),
		NewMomentumCalculator(log),
		NewTechnicalCalculator(log),
		NewSentimentCalculator(log),
	}
}

// metricTerm is one metric's candidate contribution before blending.
type metricTerm struct {
	metric     string
	raw        float64
	percentile *float64 // nil for absolute-curve metrics
	score      float64
	weight     float64
	ok         bool
}

// ranked builds a term scored by sector percentile. The term drops out
// when the metric is absent or the sector distribution cannot rank it.
func ranked(m contracts.MetricSet, dists *contracts.DistributionIndex, sector, metric string, weight float64) metricTerm {
	raw, ok := m.Get(metric)
	if !ok {
		return metricTerm{metric: metric, weight: weight}
	}

	pct := distribution.Percentile(dists.Lookup(sector, metric), raw, contracts.LowerIsBetter(metric))
	if pct == nil {
		return metricTerm{metric: metric, raw: raw, weight: weight}
	}

	return metricTerm{metric: metric, raw: raw, percentile: pct, score: *pct, weight: weight, ok: true}
}

// rankedPositive is ranked restricted to meaningful (positive) raw values.
// Used for valuation multiples, where a negative P/E carries no signal.
func rankedPositive(m contracts.MetricSet, dists *contracts.DistributionIndex, sector, metric string, weight float64) metricTerm {
	if raw, ok := m.Get(metric); ok && raw <= 0 {
		return metricTerm{metric: metric, raw: raw, weight: weight}
	}
	return ranked(m, dists, sector, metric, weight)
}

// absolute builds a term scored on a fixed curve instead of sector ranks.
// scoreFn returns false to exclude the metric despite being present.
func absolute(m contracts.MetricSet, metric string, weight float64, scoreFn func(float64) (float64, bool)) metricTerm {
	raw, ok := m.Get(metric)
	if !ok {
		return metricTerm{metric: metric, weight: weight}
	}

	score, usable := scoreFn(raw)
	if !usable {
		return metricTerm{metric: metric, raw: raw, weight: weight}
	}

	return metricTerm{metric: metric, raw: raw, score: clamp(score), weight: weight, ok: true}
}

// compose blends the usable terms into a FactorScore. Nil when nothing
// was usable.
func compose(f contracts.Factor, terms []metricTerm) *contracts.FactorScore {
	blendTerms := make([]blend.Term, 0, len(terms))
	for i := range terms {
		t := &terms[i]
		if !t.ok {
			continue
		}
		score := t.score
		blendTerms = append(blendTerms, blend.Term{Name: t.metric, Weight: t.weight, Value: &score})
	}

	res := blend.Weighted(blendTerms)
	if res == nil {
		return nil
	}

	fs := &contracts.FactorScore{Factor: f, Score: res.Value}
	for _, t := range terms {
		if !t.ok {
			continue
		}
		fs.Components = append(fs.Components, contracts.MetricComponent{
			Metric:     t.metric,
			RawValue:   t.raw,
			Percentile: t.percentile,
			Score:      t.score,
			Weight:     res.Applied[t.metric],
		})
	}
	return fs
}

// clamp bounds a score to [0, 100].
func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
