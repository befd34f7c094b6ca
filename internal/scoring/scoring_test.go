package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/investorcenter/score-engine/internal/contracts"
	"github.com/investorcenter/score-engine/internal/scoreconfig"
	"github.com/investorcenter/score-engine/pkg/logger"
)

func fs(f contracts.Factor, score float64) *contracts.FactorScore {
	return &contracts.FactorScore{Factor: f, Score: score}
}

// baseWeights is the lifecycle-neutral default vector.
func baseWeights(t *testing.T) contracts.WeightVector {
	t.Helper()
	return scoreconfig.Default().BaseVector()
}

func TestAggregateFullSet(t *testing.T) {
	a := NewAggregator(logger.NewNop())
	w := baseWeights(t)

	factors := contracts.FactorScoreSet{}
	for _, f := range contracts.AllFactors {
		factors[f] = fs(f, 60)
	}

	agg := a.Aggregate(factors, w)
	require.NotNil(t, agg.Overall)
	assert.InDelta(t, 60, *agg.Overall, 1e-9)
	assert.Len(t, agg.Categories, 3)
	assert.InDelta(t, 1.0, agg.AppliedWeights.Sum(), 1e-9)
}

func TestAggregateTwoLevelRedistribution(t *testing.T) {
	a := NewAggregator(logger.NewNop())
	w := baseWeights(t)

	// Two quality factors, one valuation factor, no signals at all.
	factors := contracts.FactorScoreSet{
		contracts.FactorGrowth:        fs(contracts.FactorGrowth, 80),
		contracts.FactorProfitability: fs(contracts.FactorProfitability, 60),
		contracts.FactorRelativeValue: fs(contracts.FactorRelativeValue, 40),
	}

	agg := a.Aggregate(factors, w)

	// Closed-form: quality = (.15*80+.13*60)/.28, valuation = 40, and the
	// signals budget (0.30) redistributes across the two live categories.
	quality := (0.15*80 + 0.13*60) / 0.28
	wantOverall := (0.40*quality + 0.30*40) / 0.70

	require.NotNil(t, agg.Overall)
	assert.InDelta(t, wantOverall, *agg.Overall, 1e-9)
	assert.InDelta(t, quality, agg.Categories[contracts.CategoryQuality], 1e-9)
	assert.InDelta(t, 40, agg.Categories[contracts.CategoryValuation], 1e-9)
	assert.NotContains(t, agg.Categories, contracts.CategorySignals)

	// Effective factor weights compose both levels and sum to 1.
	assert.InDelta(t, (0.15/0.28)*(0.40/0.70), agg.AppliedWeights[contracts.FactorGrowth], 1e-9)
	assert.InDelta(t, (0.13/0.28)*(0.40/0.70), agg.AppliedWeights[contracts.FactorProfitability], 1e-9)
	assert.InDelta(t, 0.30/0.70, agg.AppliedWeights[contracts.FactorRelativeValue], 1e-9)
	assert.InDelta(t, 1.0, agg.AppliedWeights.Sum(), 1e-9)
}

func TestAggregateAllNull(t *testing.T) {
	a := NewAggregator(logger.NewNop())

	agg := a.Aggregate(contracts.FactorScoreSet{}, baseWeights(t))
	assert.Nil(t, agg.Overall)
	assert.Empty(t, agg.Categories)
	assert.Empty(t, agg.AppliedWeights)
}

func TestAggregateSingleFactor(t *testing.T) {
	a := NewAggregator(logger.NewNop())

	factors := contracts.FactorScoreSet{
		contracts.FactorMomentum: fs(contracts.FactorMomentum, 91),
	}

	agg := a.Aggregate(factors, baseWeights(t))
	require.NotNil(t, agg.Overall)
	assert.InDelta(t, 91, *agg.Overall, 1e-9)
	assert.InDelta(t, 1.0, agg.AppliedWeights[contracts.FactorMomentum], 1e-9)
}

func TestConfidenceTiers(t *testing.T) {
	e := NewEvaluator(scoreconfig.Default())

	build := func(n int) contracts.FactorScoreSet {
		set := contracts.FactorScoreSet{}
		for _, f := range contracts.AllFactors[:n] {
			set[f] = fs(f, 50)
		}
		return set
	}

	tests := []struct {
		available int
		want      contracts.ConfidenceTier
	}{
		{9, contracts.TierHigh},         // 100%
		{8, contracts.TierMedium},       // 89%
		{7, contracts.TierMedium},       // 78%
		{6, contracts.TierLow},          // 67%
		{5, contracts.TierLow},          // 56%
		{4, contracts.TierInsufficient}, // 44%
		{0, contracts.TierInsufficient},
	}

	for _, tt := range tests {
		conf := e.Evaluate(build(tt.available))
		assert.Equalf(t, tt.want, conf.Tier, "available=%d", tt.available)
		assert.InDelta(t, float64(tt.available)/9.0, conf.Completeness, 1e-9)
	}
}

func TestCoreGate(t *testing.T) {
	e := NewEvaluator(scoreconfig.Default())

	tests := []struct {
		name    string
		factors []contracts.Factor
		want    bool
	}{
		{
			name: "all quality plus one valuation passes",
			factors: []contracts.Factor{
				contracts.FactorGrowth, contracts.FactorProfitability,
				contracts.FactorFinancialHealth, contracts.FactorRelativeValue,
			},
			want: true,
		},
		{
			name: "missing one quality factor fails",
			factors: []contracts.Factor{
				contracts.FactorGrowth, contracts.FactorProfitability,
				contracts.FactorRelativeValue, contracts.FactorIntrinsicValue,
			},
			want: false,
		},
		{
			name: "no valuation factor fails",
			factors: []contracts.Factor{
				contracts.FactorGrowth, contracts.FactorProfitability,
				contracts.FactorFinancialHealth, contracts.FactorMomentum,
			},
			want: false,
		},
		{
			name: "signals alone fail",
			factors: []contracts.Factor{
				contracts.FactorSmartMoney, contracts.FactorMomentum,
				contracts.FactorTechnical, contracts.FactorSentiment,
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := contracts.FactorScoreSet{}
			for _, f := range tt.factors {
				set[f] = fs(f, 50)
			}
			assert.Equal(t, tt.want, e.Evaluate(set).CoreGateMet)
		})
	}
}

func TestLowTierButPublishable(t *testing.T) {
	// Five of nine factors: low confidence, yet the gate passes because
	// the core fundamentals are among them.
	e := NewEvaluator(scoreconfig.Default())

	set := contracts.FactorScoreSet{}
	for _, f := range []contracts.Factor{
		contracts.FactorGrowth, contracts.FactorProfitability,
		contracts.FactorFinancialHealth, contracts.FactorRelativeValue,
		contracts.FactorMomentum,
	} {
		set[f] = fs(f, 55)
	}

	conf := e.Evaluate(set)
	assert.Equal(t, contracts.TierLow, conf.Tier)
	assert.True(t, conf.CoreGateMet)
	assert.InDelta(t, 5.0/9.0, conf.Completeness, 1e-9)
}

func TestRatingBands(t *testing.T) {
	cfg := scoreconfig.Default().Rating

	tests := []struct {
		score float64
		want  contracts.Rating
	}{
		{95, contracts.RatingStrongBuy},
		{80, contracts.RatingStrongBuy},
		{79.9, contracts.RatingBuy},
		{65, contracts.RatingBuy},
		{50, contracts.RatingHold},
		{35, contracts.RatingUnderperform},
		{34.9, contracts.RatingSell},
		{0, contracts.RatingSell},
	}

	for _, tt := range tests {
		assert.Equalf(t, tt.want, RatingFor(contracts.Float64(tt.score), cfg), "score=%v", tt.score)
	}

	assert.Equal(t, contracts.RatingNone, RatingFor(nil, cfg))
}

func TestSummarize(t *testing.T) {
	cs := &contracts.CompositeScore{
		EntityID: "ACME",
		Stage:    contracts.StageGrowth,
		Overall:  contracts.Float64(72.4),
		Rating:   contracts.RatingBuy,
		Confidence: contracts.Confidence{
			Tier: contracts.TierHigh, CoreGateMet: true, Completeness: 1,
		},
		Factors: contracts.FactorScoreSet{
			contracts.FactorGrowth:        fs(contracts.FactorGrowth, 88),
			contracts.FactorMomentum:      fs(contracts.FactorMomentum, 75),
			contracts.FactorRelativeValue: fs(contracts.FactorRelativeValue, 22),
		},
	}

	text := Summarize(cs)
	assert.Contains(t, text, "ACME scores 72.4")
	assert.Contains(t, text, "buy")
	assert.Contains(t, text, "Strengths: growth (88), momentum (75)")
	assert.Contains(t, text, "Weaknesses: relative_value (22)")

	// Deterministic.
	assert.Equal(t, text, Summarize(cs))
}

func TestSummarizeGated(t *testing.T) {
	cs := &contracts.CompositeScore{
		EntityID:   "ACME",
		Confidence: contracts.Confidence{Tier: contracts.TierLow, CoreGateMet: false},
	}

	text := Summarize(cs)
	assert.Contains(t, text, "no overall score")
	assert.Contains(t, text, "core fundamental coverage")
}
