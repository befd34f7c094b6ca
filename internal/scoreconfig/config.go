package scoreconfig

import (
	"time"

	"github.com/investorcenter/score-engine/internal/contracts"
)

// Config is the versioned scoring parameter set. Every published score
// records the SHA256 hash of the config that produced it, so two runs with
// the same hash and the same inputs are directly comparable.
type Config struct {
	Meta         Meta         `yaml:"meta" json:"meta"`
	Distribution Distribution `yaml:"distribution" json:"distribution"`
	Confidence   Confidence   `yaml:"confidence" json:"confidence"`
	Rating       Rating       `yaml:"rating" json:"rating"`
	Weights      Weights      `yaml:"weights" json:"weights"`
	Engine       Engine       `yaml:"engine" json:"engine"`
}

// Meta identifies the parameter set.
type Meta struct {
	ConfigID string `yaml:"config_id" json:"config_id"`
	Version  string `yaml:"version" json:"version"`
	Updated  string `yaml:"updated" json:"updated"` // YYYY-MM-DD
}

// Distribution controls the sector distribution phase.
type Distribution struct {
	WinsorizeSigma float64 `yaml:"winsorize_sigma" json:"winsorize_sigma"`
	MinSampleSize  int     `yaml:"min_sample_size" json:"min_sample_size"`
}

// Confidence holds completeness tier thresholds (ratios in [0,1]) and the
// core-factor gate minima.
type Confidence struct {
	HighThreshold   float64 `yaml:"high_threshold" json:"high_threshold"`
	MediumThreshold float64 `yaml:"medium_threshold" json:"medium_threshold"`
	LowThreshold    float64 `yaml:"low_threshold" json:"low_threshold"`

	MinQualityFactors   int `yaml:"min_quality_factors" json:"min_quality_factors"`
	MinValuationFactors int `yaml:"min_valuation_factors" json:"min_valuation_factors"`
}

// Rating holds the overall-score cutoffs for the human-facing label.
// Descending: strong_buy > buy > hold > underperform; below underperform
// is sell.
type Rating struct {
	StrongBuy    float64 `yaml:"strong_buy" json:"strong_buy"`
	Buy          float64 `yaml:"buy" json:"buy"`
	Hold         float64 `yaml:"hold" json:"hold"`
	Underperform float64 `yaml:"underperform" json:"underperform"`
}

// Weights holds the lifecycle-neutral base vector and the per-stage
// multiplier tables. Keys are factor names; the multiplier tables must
// cover every lifecycle stage (validated at load).
type Weights struct {
	Base   map[string]float64            `yaml:"base" json:"base"`
	Stages map[string]map[string]float64 `yaml:"stages" json:"stages"`
}

// Engine holds orchestration knobs. PhaseTimeout is a Go duration string
// ("10m"); format errors are caught by Validate.
type Engine struct {
	DistributionWorkers int    `yaml:"distribution_workers" json:"distribution_workers"`
	ScoringWorkers      int    `yaml:"scoring_workers" json:"scoring_workers"`
	EntityRetries       int    `yaml:"entity_retries" json:"entity_retries"`
	PhaseTimeout        string `yaml:"phase_timeout" json:"phase_timeout"`
}

// PhaseTimeoutDuration returns the parsed phase timeout. Validate has
// already rejected unparseable values.
func (e Engine) PhaseTimeoutDuration() time.Duration {
	d, err := time.ParseDuration(e.PhaseTimeout)
	if err != nil {
		return 10 * time.Minute
	}
	return d
}

// BaseVector returns the base weights as a typed WeightVector.
func (c *Config) BaseVector() contracts.WeightVector {
	w := make(contracts.WeightVector, len(c.Weights.Base))
	for name, v := range c.Weights.Base {
		w[contracts.Factor(name)] = v
	}
	return w
}

// StageMultipliers returns the multiplier table for a stage. Factors not
// listed in the table default to 1.0 (handled by the weight adjuster).
func (c *Config) StageMultipliers(stage contracts.LifecycleStage) map[contracts.Factor]float64 {
	raw := c.Weights.Stages[string(stage)]
	m := make(map[contracts.Factor]float64, len(raw))
	for name, v := range raw {
		m[contracts.Factor(name)] = v
	}
	return m
}

// Default returns the built-in parameter set, identical to the committed
// configs/scoring.yaml. Tests and dry runs use it directly.
func Default() *Config {
	return &Config{
		Meta: Meta{
			ConfigID: "composite-score",
			Version:  "1.2.0",
			Updated:  "2026-08-01",
		},
		Distribution: Distribution{
			WinsorizeSigma: 3.0,
			MinSampleSize:  5,
		},
		Confidence: Confidence{
			HighThreshold:       0.90,
			MediumThreshold:     0.70,
			LowThreshold:        0.50,
			MinQualityFactors:   3,
			MinValuationFactors: 1,
		},
		Rating: Rating{
			StrongBuy:    80,
			Buy:          65,
			Hold:         50,
			Underperform: 35,
		},
		Weights: Weights{
			Base: map[string]float64{
				"growth":           0.15,
				"profitability":    0.13,
				"financial_health": 0.12,
				"relative_value":   0.16,
				"intrinsic_value":  0.14,
				"smart_money":      0.08,
				"momentum":         0.08,
				"technical":        0.07,
				"sentiment":        0.07,
			},
			Stages: map[string]map[string]float64{
				"hypergrowth": {
					"growth":           1.5,
					"momentum":         1.3,
					"sentiment":        1.2,
					"financial_health": 0.8,
					"profitability":    0.5,
					"relative_value":   0.4,
					"intrinsic_value":  0.4,
				},
				"growth": {
					"growth":          1.3,
					"momentum":        1.2,
					"sentiment":       1.1,
					"profitability":   0.8,
					"intrinsic_value": 0.8,
					"relative_value":  0.7,
				},
				"mature": {
					"profitability":    1.2,
					"financial_health": 1.2,
					"relative_value":   1.1,
					"intrinsic_value":  1.1,
					"momentum":         0.9,
					"growth":           0.7,
				},
				"turnaround": {
					"financial_health": 1.4,
					"momentum":         1.3,
					"smart_money":      1.3,
					"relative_value":   1.2,
					"profitability":    0.7,
					"growth":           0.6,
				},
				"declining": {
					"financial_health": 1.3,
					"relative_value":   1.3,
					"intrinsic_value":  1.2,
					"sentiment":        0.9,
					"momentum":         0.8,
					"growth":           0.5,
				},
			},
		},
		Engine: Engine{
			DistributionWorkers: 8,
			ScoringWorkers:      16,
			EntityRetries:       1,
			PhaseTimeout:        "10m",
		},
	}
}
