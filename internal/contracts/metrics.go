package contracts

// Canonical metric names. The metric store, the distribution phase, and the
// factor calculators all key on these; a name not listed here does not exist
// as far as the engine is concerned.
const (
	// Growth
	MetricRevenueGrowthYoY   = "revenue_growth_yoy" // percent
	MetricRevenueGrowthTrend = "revenue_growth_trend"
	MetricEPSGrowthYoY       = "eps_growth_yoy"
	MetricRevenueCAGR3Y      = "revenue_cagr_3y"
	MetricOpMarginExpansion  = "operating_margin_expansion"

	// Profitability
	MetricNetMargin       = "net_margin"
	MetricGrossMargin     = "gross_margin"
	MetricOperatingMargin = "operating_margin"
	MetricROE             = "roe"
	MetricROIC            = "roic"

	// Financial health
	MetricDebtToEquity     = "debt_to_equity"
	MetricCurrentRatio     = "current_ratio"
	MetricInterestCoverage = "interest_coverage"
	MetricFCFYield         = "fcf_yield"
	MetricSolvencyScore    = "solvency_score"

	// Relative value
	MetricPERatio  = "pe_ratio"
	MetricPSRatio  = "ps_ratio"
	MetricPBRatio  = "pb_ratio"
	MetricEVEBITDA = "ev_ebitda"
	MetricPEGRatio = "peg_ratio"

	// Intrinsic value
	MetricFairValue    = "fair_value"
	MetricCurrentPrice = "current_price"

	// Smart money
	MetricAnalystBuyCount     = "analyst_buy_count"
	MetricAnalystHoldCount    = "analyst_hold_count"
	MetricAnalystSellCount    = "analyst_sell_count"
	MetricAnalystNetRevisions = "analyst_net_revisions"
	MetricInsiderNetValue     = "insider_net_value" // dollars, net of buys-sells
	MetricMarketCap           = "market_cap"
	MetricInstitutionalChange = "institutional_change_pct" // percentage points

	// Momentum
	MetricReturn1M  = "return_1m" // percent
	MetricReturn3M  = "return_3m"
	MetricReturn6M  = "return_6m"
	MetricReturn12M = "return_12m"

	// Technical
	MetricRSI14         = "rsi_14"
	MetricMACDHistogram = "macd_histogram"
	MetricAboveSMA50    = "above_sma_50"  // 1 if price > 50d SMA, else 0
	MetricAboveSMA200   = "above_sma_200" // 1 if price > 200d SMA, else 0

	// Sentiment
	MetricNewsSentiment  = "news_sentiment" // polarity in [-1, 1]
	MetricEPSRevisionPct = "eps_revision_pct"

	// Classifier inputs
	MetricPaysDividend = "pays_dividend" // 1 or 0
)

// RankedMetrics are the metrics compared against sector peers during the
// distribution phase. Metrics scored on an absolute curve (RSI, current
// ratio, the smart-money counts) are deliberately absent.
var RankedMetrics = []string{
	MetricRevenueGrowthYoY,
	MetricEPSGrowthYoY,
	MetricRevenueCAGR3Y,
	MetricOpMarginExpansion,
	MetricNetMargin,
	MetricGrossMargin,
	MetricOperatingMargin,
	MetricROE,
	MetricROIC,
	MetricDebtToEquity,
	MetricFCFYield,
	MetricSolvencyScore,
	MetricPERatio,
	MetricPSRatio,
	MetricPBRatio,
	MetricEVEBITDA,
	MetricPEGRatio,
	MetricReturn1M,
	MetricReturn3M,
	MetricReturn6M,
	MetricReturn12M,
}

// lowerIsBetter marks ranked metrics where a smaller value deserves a higher
// percentile (valuation multiples and leverage).
var lowerIsBetter = map[string]bool{
	MetricPERatio:      true,
	MetricPSRatio:      true,
	MetricPBRatio:      true,
	MetricEVEBITDA:     true,
	MetricPEGRatio:     true,
	MetricDebtToEquity: true,
}

// LowerIsBetter reports whether a smaller raw value ranks higher for metric.
func LowerIsBetter(metric string) bool {
	return lowerIsBetter[metric]
}

// MetricSet holds the most recent observation per canonical metric for one
// entity. Absence from the map is the null: a metric the upstream pipeline
// never produced, or produced as non-meaningful.
type MetricSet map[string]float64

// Get returns the metric value and whether it is present.
func (m MetricSet) Get(name string) (float64, bool) {
	v, ok := m[name]
	return v, ok
}

// Has reports whether the metric is present.
func (m MetricSet) Has(name string) bool {
	_, ok := m[name]
	return ok
}
