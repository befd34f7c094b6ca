package contracts

import "time"

// MetricComponent records one metric's contribution to a factor score.
// Persisted alongside the score so a published number can be explained
// without re-running the engine.
type MetricComponent struct {
	Metric     string   `json:"metric"`
	RawValue   float64  `json:"raw_value"`
	Percentile *float64 `json:"percentile,omitempty"` // nil for absolute-curve metrics
	Score      float64  `json:"score"`                // 0-100
	Weight     float64  `json:"weight"`               // applied weight after redistribution
}

// FactorScore is the 0-100 output of one factor calculator. A factor with
// no usable inputs produces no FactorScore at all (nil), never a zero.
type FactorScore struct {
	Factor     Factor            `json:"factor"`
	Score      float64           `json:"score"` // 0-100
	Components []MetricComponent `json:"components"`
}

// FactorScoreSet maps factor name to its score; absent key = null factor.
type FactorScoreSet map[Factor]*FactorScore

// Available returns how many of the nine factors produced a score.
func (s FactorScoreSet) Available() int {
	n := 0
	for _, f := range AllFactors {
		if s[f] != nil {
			n++
		}
	}
	return n
}

// AvailableIn returns how many factors of a category produced a score.
func (s FactorScoreSet) AvailableIn(c Category) int {
	n := 0
	for _, f := range FactorsIn(c) {
		if s[f] != nil {
			n++
		}
	}
	return n
}

// WeightVector assigns a weight to each of the nine factors.
// A valid vector is total over AllFactors and sums to 1 within 1e-6.
type WeightVector map[Factor]float64

// Sum returns the total weight.
func (w WeightVector) Sum() float64 {
	total := 0.0
	for _, v := range w {
		total += v
	}
	return total
}

// CategoryWeight returns the combined weight of a category's factors.
func (w WeightVector) CategoryWeight(c Category) float64 {
	total := 0.0
	for _, f := range FactorsIn(c) {
		total += w[f]
	}
	return total
}

// ConfidenceTier buckets data completeness.
type ConfidenceTier string

const (
	TierHigh         ConfidenceTier = "high"
	TierMedium       ConfidenceTier = "medium"
	TierLow          ConfidenceTier = "low"
	TierInsufficient ConfidenceTier = "insufficient"
)

// Confidence describes how much of the factor surface backed a score.
type Confidence struct {
	Completeness float64        `json:"completeness"` // available/9, in [0,1]
	Tier         ConfidenceTier `json:"tier"`
	CoreGateMet  bool           `json:"core_gate_met"`
}

// Rating is the human-facing label derived from the overall score.
type Rating string

const (
	RatingStrongBuy    Rating = "strong_buy"
	RatingBuy          Rating = "buy"
	RatingHold         Rating = "hold"
	RatingUnderperform Rating = "underperform"
	RatingSell         Rating = "sell"
	RatingNone         Rating = "" // no overall score
)

// CompositeScore is the full scoring output for one entity on one run.
type CompositeScore struct {
	EntityID string    `json:"entity_id"`
	Sector   string    `json:"sector"`
	Date     time.Time `json:"date"`
	RunID    string    `json:"run_id"`

	Stage       LifecycleStage `json:"stage"`
	StageReason string         `json:"stage_reason"`

	Factors    FactorScoreSet       `json:"factors"`
	Categories map[Category]float64 `json:"categories"` // absent key = null category

	// Overall is nil when every factor is null or the core-factor gate
	// failed; factor and category scores survive either way.
	Overall *float64 `json:"overall,omitempty"`

	// AppliedWeights are the post-redistribution per-factor weights that
	// produced Overall. They sum to 1 over available factors.
	AppliedWeights WeightVector `json:"applied_weights"`

	Confidence Confidence `json:"confidence"`
	Rating     Rating     `json:"rating"`

	// SectorRank is the percentile rank of Overall among the sector's
	// published scores this run (100 = best). Nil when Overall is nil.
	SectorRank *float64 `json:"sector_rank,omitempty"`

	// Delta is Overall minus the entity's overall from the previous
	// published run. Nil when either side is missing.
	Delta *float64 `json:"delta,omitempty"`

	ConfigHash string    `json:"config_hash"`
	ComputedAt time.Time `json:"computed_at"`
}

// Float64 returns a pointer to v. Convenience for nullable score fields.
func Float64(v float64) *float64 {
	return &v
}
