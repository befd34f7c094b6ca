package scoreconfig

import (
	"fmt"
	"math"
	"time"

	"github.com/investorcenter/score-engine/internal/contracts"
)

// ValidationError is a hard config rejection: the engine refuses to start.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks all required constraints.
func Validate(cfg *Config) error {
	// === Meta ===
	if cfg.Meta.ConfigID == "" {
		return ValidationError{"meta.config_id", "required"}
	}
	if cfg.Meta.Version == "" {
		return ValidationError{"meta.version", "required"}
	}

	// === Distribution ===
	if cfg.Distribution.WinsorizeSigma <= 0 {
		return ValidationError{"distribution.winsorize_sigma", "must be > 0"}
	}
	if cfg.Distribution.MinSampleSize < 1 {
		return ValidationError{"distribution.min_sample_size", "must be >= 1"}
	}

	// === Confidence ===
	c := cfg.Confidence
	if !(0 < c.LowThreshold && c.LowThreshold < c.MediumThreshold &&
		c.MediumThreshold < c.HighThreshold && c.HighThreshold <= 1.0) {
		return ValidationError{"confidence", "thresholds must satisfy 0 < low < medium < high <= 1"}
	}
	nQuality := len(contracts.FactorsIn(contracts.CategoryQuality))
	nValuation := len(contracts.FactorsIn(contracts.CategoryValuation))
	if c.MinQualityFactors < 0 || c.MinQualityFactors > nQuality {
		return ValidationError{"confidence.min_quality_factors",
			fmt.Sprintf("must be in [0, %d]", nQuality)}
	}
	if c.MinValuationFactors < 0 || c.MinValuationFactors > nValuation {
		return ValidationError{"confidence.min_valuation_factors",
			fmt.Sprintf("must be in [0, %d]", nValuation)}
	}

	// === Rating ===
	r := cfg.Rating
	if !(r.StrongBuy > r.Buy && r.Buy > r.Hold && r.Hold > r.Underperform && r.Underperform >= 0) {
		return ValidationError{"rating", "cutoffs must be strictly descending and >= 0"}
	}
	if r.StrongBuy > 100 {
		return ValidationError{"rating.strong_buy", "must be <= 100"}
	}

	// === Weights: base vector ===
	if len(cfg.Weights.Base) != len(contracts.AllFactors) {
		return ValidationError{"weights.base",
			fmt.Sprintf("must list exactly %d factors, got %d", len(contracts.AllFactors), len(cfg.Weights.Base))}
	}
	sum := 0.0
	for name, w := range cfg.Weights.Base {
		if !contracts.Factor(name).IsValid() {
			return ValidationError{"weights.base." + name, "unknown factor"}
		}
		if w <= 0 {
			return ValidationError{"weights.base." + name, "must be > 0"}
		}
		sum += w
	}
	if math.Abs(sum-1.0) > 1e-6 {
		return ValidationError{"weights.base", fmt.Sprintf("must sum to 1.0, got %.8f", sum)}
	}

	// === Weights: stage multipliers ===
	if len(cfg.Weights.Stages) != len(contracts.AllLifecycleStages) {
		return ValidationError{"weights.stages",
			fmt.Sprintf("must cover all %d lifecycle stages", len(contracts.AllLifecycleStages))}
	}
	for _, stage := range contracts.AllLifecycleStages {
		table, ok := cfg.Weights.Stages[string(stage)]
		if !ok {
			return ValidationError{"weights.stages", fmt.Sprintf("missing stage %q", stage)}
		}
		for name, mult := range table {
			if !contracts.Factor(name).IsValid() {
				return ValidationError{
					fmt.Sprintf("weights.stages.%s.%s", stage, name), "unknown factor"}
			}
			if mult <= 0 {
				return ValidationError{
					fmt.Sprintf("weights.stages.%s.%s", stage, name), "must be > 0"}
			}
		}
	}

	// === Engine ===
	if cfg.Engine.DistributionWorkers < 1 {
		return ValidationError{"engine.distribution_workers", "must be >= 1"}
	}
	if cfg.Engine.ScoringWorkers < 1 {
		return ValidationError{"engine.scoring_workers", "must be >= 1"}
	}
	if cfg.Engine.EntityRetries < 0 {
		return ValidationError{"engine.entity_retries", "must be >= 0"}
	}
	if _, err := time.ParseDuration(cfg.Engine.PhaseTimeout); err != nil {
		return ValidationError{"engine.phase_timeout", err.Error()}
	}

	return nil
}
