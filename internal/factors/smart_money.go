package factors

import (
	"github.com/investorcenter/score-engine/internal/contracts"
	"github.com/investorcenter/score-engine/pkg/logger"
)

// Component weights within the smart money factor.
const (
	smartConsensusWeight     = 0.30
	smartRevisionsWeight     = 0.20
	smartInsiderWeight       = 0.25
	smartInstitutionalWeight = 0.25
)

// Absolute-curve scales.
const (
	// Points per net rating revision around the neutral 50.
	revisionScale = 5.0
	// Points per percent of market cap in net insider buying.
	insiderScale = 25.0
	// Points per percentage point of institutional ownership change.
	institutionalScale = 5.0
)

// SmartMoneyCalculator scores what informed participants are doing:
// analyst consensus and revisions, insider transactions, institutional
// flows. All curves are absolute; the conviction of a buy rating does not
// depend on the sector.
type SmartMoneyCalculator struct {
	logger *logger.Logger
}

// NewSmartMoneyCalculator creates a new smart money calculator
func NewSmartMoneyCalculator(log *logger.Logger) *SmartMoneyCalculator {
	return &SmartMoneyCalculator{logger: log}
}

// Factor returns the factor identity
func (c *SmartMoneyCalculator) Factor() contracts.Factor {
	return contracts.FactorSmartMoney
}

// Calculate scores the smart money factor for one entity.
func (c *SmartMoneyCalculator) Calculate(entity contracts.Entity, m contracts.MetricSet, dists *contracts.DistributionIndex) *contracts.FactorScore {
	terms := []metricTerm{
		c.consensusTerm(m),
		absolute(m, contracts.MetricAnalystNetRevisions, smartRevisionsWeight, func(net float64) (float64, bool) {
			return 50 + net*revisionScale, true
		}),
		c.insiderTerm(m),
		absolute(m, contracts.MetricInstitutionalChange, smartInstitutionalWeight, func(delta float64) (float64, bool) {
			return 50 + delta*institutionalScale, true
		}),
	}

	return compose(contracts.FactorSmartMoney, terms)
}

// consensusTerm maps the buy/hold/sell mix to a score: buys count 100,
// holds 50, sells 0. Needs at least one rating on record.
func (c *SmartMoneyCalculator) consensusTerm(m contracts.MetricSet) metricTerm {
	term := metricTerm{metric: contracts.MetricAnalystBuyCount, weight: smartConsensusWeight}

	buy, okB := m.Get(contracts.MetricAnalystBuyCount)
	hold, okH := m.Get(contracts.MetricAnalystHoldCount)
	sell, okS := m.Get(contracts.MetricAnalystSellCount)
	if !okB && !okH && !okS {
		return term
	}

	total := buy + hold + sell
	if total <= 0 {
		return term
	}

	term.raw = total
	term.score = clamp((buy*100 + hold*50) / total)
	term.ok = true
	return term
}

// insiderTerm scores net insider dollar activity relative to market cap.
// Without a market cap the dollar figure has no denominator and drops out.
func (c *SmartMoneyCalculator) insiderTerm(m contracts.MetricSet) metricTerm {
	term := metricTerm{metric: contracts.MetricInsiderNetValue, weight: smartInsiderWeight}

	net, okNet := m.Get(contracts.MetricInsiderNetValue)
	mcap, okCap := m.Get(contracts.MetricMarketCap)
	if !okNet || !okCap || mcap <= 0 {
		return term
	}

	pctOfCap := net / mcap * 100
	term.raw = net
	term.score = clamp(50 + pctOfCap*insiderScale)
	term.ok = true
	return term
}
