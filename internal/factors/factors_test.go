package factors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/investorcenter/score-engine/internal/contracts"
	"github.com/investorcenter/score-engine/pkg/logger"
)

const testSector = "Technology"

var testEntity = contracts.Entity{ID: "ACME", Sector: testSector}

// evenIndex builds a distribution index where every listed metric has
// breakpoints at clean 10-unit intervals over [0, 100], making expected
// percentiles exact.
func evenIndex(metrics ...string) *contracts.DistributionIndex {
	ix := contracts.NewDistributionIndex()
	for _, metric := range metrics {
		ix.Put(&contracts.SectorDistribution{
			Sector: testSector, Metric: metric,
			Min: 0, P10: 10, P25: 25, P50: 50, P75: 75, P90: 90, Max: 100,
			SampleCount: 20, Sufficient: true,
		})
	}
	return ix
}

func TestAllReturnsNineInCanonicalOrder(t *testing.T) {
	calcs := All(logger.NewNop())
	require.Len(t, calcs, 9)
	for i, c := range calcs {
		assert.Equal(t, contracts.AllFactors[i], c.Factor())
	}
}

func TestGrowthAllMetricsMissing(t *testing.T) {
	c := NewGrowthCalculator(logger.NewNop())
	got := c.Calculate(testEntity, contracts.MetricSet{}, contracts.NewDistributionIndex())
	assert.Nil(t, got)
}

func TestGrowthRedistributesMissingMetrics(t *testing.T) {
	c := NewGrowthCalculator(logger.NewNop())
	ix := evenIndex(contracts.MetricRevenueGrowthYoY, contracts.MetricEPSGrowthYoY)

	// Only two of four growth metrics present; their 0.30 weights
	// renormalize to 0.5 each.
	m := contracts.MetricSet{
		contracts.MetricRevenueGrowthYoY: 80, // percentile 80
		contracts.MetricEPSGrowthYoY:     40, // percentile 40
	}

	got := c.Calculate(testEntity, m, ix)
	require.NotNil(t, got)
	assert.InDelta(t, 60, got.Score, 1e-9)
	require.Len(t, got.Components, 2)
	for _, comp := range got.Components {
		assert.InDelta(t, 0.5, comp.Weight, 1e-9)
		require.NotNil(t, comp.Percentile)
	}
}

func TestGrowthMetricWithoutDistributionDropsOut(t *testing.T) {
	c := NewGrowthCalculator(logger.NewNop())
	// Distribution exists only for revenue growth; the EPS metric is
	// present but unrankable and must not contribute.
	ix := evenIndex(contracts.MetricRevenueGrowthYoY)

	m := contracts.MetricSet{
		contracts.MetricRevenueGrowthYoY: 70,
		contracts.MetricEPSGrowthYoY:     99,
	}

	got := c.Calculate(testEntity, m, ix)
	require.NotNil(t, got)
	assert.InDelta(t, 70, got.Score, 1e-9)
	require.Len(t, got.Components, 1)
}

func TestRelativeValueExcludesNegativeMultiples(t *testing.T) {
	c := NewRelativeValueCalculator(logger.NewNop())
	ix := evenIndex(contracts.MetricPERatio, contracts.MetricPBRatio)

	m := contracts.MetricSet{
		contracts.MetricPERatio: -12.5, // loss-making: no signal
		contracts.MetricPBRatio: 25,    // cheap: percentile 25 → inverted 75
	}

	got := c.Calculate(testEntity, m, ix)
	require.NotNil(t, got)
	assert.InDelta(t, 75, got.Score, 1e-9)
	require.Len(t, got.Components, 1)
	assert.Equal(t, contracts.MetricPBRatio, got.Components[0].Metric)
}

func TestRelativeValueAllNonMeaningful(t *testing.T) {
	c := NewRelativeValueCalculator(logger.NewNop())
	ix := evenIndex(contracts.MetricPERatio, contracts.MetricPBRatio)

	m := contracts.MetricSet{
		contracts.MetricPERatio: -5,
		contracts.MetricPBRatio: -0.3,
	}

	assert.Nil(t, c.Calculate(testEntity, m, ix))
}

func TestIntrinsicValueMarginOfSafety(t *testing.T) {
	c := NewIntrinsicValueCalculator(logger.NewNop())
	ix := contracts.NewDistributionIndex()

	tests := []struct {
		name      string
		fairValue float64
		price     float64
		want      float64
	}{
		{"fairly priced", 100, 100, 50},
		{"20 percent upside", 120, 100, 70},
		{"50 percent upside saturates", 150, 100, 100},
		{"100 percent upside stays saturated", 200, 100, 100},
		{"20 percent downside", 80, 100, 30},
		{"50 percent downside saturates", 50, 100, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := contracts.MetricSet{
				contracts.MetricFairValue:    tt.fairValue,
				contracts.MetricCurrentPrice: tt.price,
			}
			got := c.Calculate(testEntity, m, ix)
			require.NotNil(t, got)
			assert.InDelta(t, tt.want, got.Score, 1e-9)
		})
	}
}

func TestIntrinsicValueRequiresBothInputs(t *testing.T) {
	c := NewIntrinsicValueCalculator(logger.NewNop())
	ix := contracts.NewDistributionIndex()

	assert.Nil(t, c.Calculate(testEntity, contracts.MetricSet{
		contracts.MetricFairValue: 120,
	}, ix))
	assert.Nil(t, c.Calculate(testEntity, contracts.MetricSet{
		contracts.MetricCurrentPrice: 100,
	}, ix))
	// A non-positive fair value estimate is no estimate.
	assert.Nil(t, c.Calculate(testEntity, contracts.MetricSet{
		contracts.MetricFairValue:    -40,
		contracts.MetricCurrentPrice: 100,
	}, ix))
}

func TestSmartMoneyConsensus(t *testing.T) {
	c := NewSmartMoneyCalculator(logger.NewNop())
	ix := contracts.NewDistributionIndex()

	// 6 buys, 2 holds, 2 sells → (600+100)/10 = 70.
	m := contracts.MetricSet{
		contracts.MetricAnalystBuyCount:  6,
		contracts.MetricAnalystHoldCount: 2,
		contracts.MetricAnalystSellCount: 2,
	}

	got := c.Calculate(testEntity, m, ix)
	require.NotNil(t, got)
	assert.InDelta(t, 70, got.Score, 1e-9)
}

func TestSmartMoneyInsiderNeedsMarketCap(t *testing.T) {
	c := NewSmartMoneyCalculator(logger.NewNop())
	ix := contracts.NewDistributionIndex()

	// Net insider buying without a market cap has no denominator; the
	// factor goes null with nothing else present.
	assert.Nil(t, c.Calculate(testEntity, contracts.MetricSet{
		contracts.MetricInsiderNetValue: 5_000_000,
	}, ix))

	// 1% of market cap in net buying: 50 + 1*25 = 75.
	m := contracts.MetricSet{
		contracts.MetricInsiderNetValue: 10_000_000,
		contracts.MetricMarketCap:       1_000_000_000,
	}
	got := c.Calculate(testEntity, m, ix)
	require.NotNil(t, got)
	assert.InDelta(t, 75, got.Score, 1e-9)
}

func TestTechnicalRSICurve(t *testing.T) {
	tests := []struct {
		rsi  float64
		want float64
	}{
		{0, 100},
		{15, 80},
		{30, 60},
		{50, 50},
		{70, 40},
		{85, 20},
		{100, 0},
	}

	for _, tt := range tests {
		got, ok := scoreRSI(tt.rsi)
		require.True(t, ok)
		assert.InDeltaf(t, tt.want, got, 1e-9, "rsi=%v", tt.rsi)
	}
}

func TestTechnicalBlend(t *testing.T) {
	c := NewTechnicalCalculator(logger.NewNop())
	ix := contracts.NewDistributionIndex()

	m := contracts.MetricSet{
		contracts.MetricRSI14:         50, // 50
		contracts.MetricMACDHistogram: 2,  // 70
		contracts.MetricAboveSMA50:    1,  // 100
		contracts.MetricAboveSMA200:   0,  // 0
	}

	got := c.Calculate(testEntity, m, ix)
	require.NotNil(t, got)
	want := 0.35*50 + 0.25*70 + 0.20*100 + 0.20*0
	assert.InDelta(t, want, got.Score, 1e-9)
}

func TestSentimentPolarityMapping(t *testing.T) {
	c := NewSentimentCalculator(logger.NewNop())
	ix := contracts.NewDistributionIndex()

	tests := []struct {
		polarity float64
		want     float64
	}{
		{-1, 0},
		{0, 50},
		{0.5, 75},
		{1, 100},
	}

	for _, tt := range tests {
		m := contracts.MetricSet{contracts.MetricNewsSentiment: tt.polarity}
		got := c.Calculate(testEntity, m, ix)
		require.NotNil(t, got)
		assert.InDeltaf(t, tt.want, got.Score, 1e-9, "polarity=%v", tt.polarity)
	}
}

func TestFinancialHealthCurrentRatioCurve(t *testing.T) {
	tests := []struct {
		cr   float64
		want float64
	}{
		{2.0, 100},
		{1.5, 80},
		{2.5, 80},
		{1.0, 60},
		{4.5, 0},
	}

	for _, tt := range tests {
		got, ok := scoreCurrentRatio(tt.cr)
		require.True(t, ok)
		assert.InDeltaf(t, tt.want, clamp(got), 1e-9, "cr=%v", tt.cr)
	}
}

func TestScoresStayInRange(t *testing.T) {
	// Extreme inputs across every calculator must stay within [0, 100].
	calcs := All(logger.NewNop())
	ix := evenIndex(contracts.RankedMetrics...)

	extreme := contracts.MetricSet{}
	for _, metric := range contracts.RankedMetrics {
		extreme[metric] = 1e9
	}
	extreme[contracts.MetricRSI14] = 100
	extreme[contracts.MetricMACDHistogram] = 1e6
	extreme[contracts.MetricCurrentRatio] = 500
	extreme[contracts.MetricFairValue] = 1e9
	extreme[contracts.MetricCurrentPrice] = 0.01
	extreme[contracts.MetricNewsSentiment] = 1
	extreme[contracts.MetricEPSRevisionPct] = 1e6
	extreme[contracts.MetricAnalystBuyCount] = 1e3
	extreme[contracts.MetricInsiderNetValue] = 1e12
	extreme[contracts.MetricMarketCap] = 1e9

	for _, c := range calcs {
		got := c.Calculate(testEntity, extreme, ix)
		require.NotNilf(t, got, "factor %s", c.Factor())
		assert.GreaterOrEqualf(t, got.Score, 0.0, "factor %s", c.Factor())
		assert.LessOrEqualf(t, got.Score, 100.0, "factor %s", c.Factor())
	}
}
