package weights

import (
	"fmt"

	"github.com/investorcenter/score-engine/internal/contracts"
	"github.com/investorcenter/score-engine/internal/scoreconfig"
	"github.com/investorcenter/score-engine/pkg/logger"
)

// weightTolerance is the permitted drift from 1.0 after renormalization.
const weightTolerance = 1e-6

// Adjuster produces the lifecycle-conditioned weight vector: base weights
// times the stage's multipliers, renormalized to sum 1. All five vectors
// are precomputed at construction so WeightsFor is a map read and the
// total-function guarantee is checked once, up front.
type Adjuster struct {
	byStage map[contracts.LifecycleStage]contracts.WeightVector
	log     *logger.Logger
}

// NewAdjuster builds the per-stage vectors from the scoring config.
// Returns an error when any resulting vector fails to normalize; with a
// validated config that cannot happen, but a broken vector must never
// reach scoring.
func NewAdjuster(cfg *scoreconfig.Config, log *logger.Logger) (*Adjuster, error) {
	base := cfg.BaseVector()

	a := &Adjuster{
		byStage: make(map[contracts.LifecycleStage]contracts.WeightVector, len(contracts.AllLifecycleStages)),
		log:     log.Component("weights"),
	}

	for _, stage := range contracts.AllLifecycleStages {
		vec, err := adjust(base, cfg.StageMultipliers(stage))
		if err != nil {
			return nil, fmt.Errorf("stage %s: %w", stage, err)
		}
		a.byStage[stage] = vec
	}

	return a, nil
}

// WeightsFor returns the normalized weight vector for a stage. Total over
// the closed stage enum; the returned map must not be mutated.
func (a *Adjuster) WeightsFor(stage contracts.LifecycleStage) contracts.WeightVector {
	return a.byStage[stage]
}

// adjust multiplies the base vector by the stage multipliers (absent
// factors multiply by 1) and renormalizes.
func adjust(base contracts.WeightVector, multipliers map[contracts.Factor]float64) (contracts.WeightVector, error) {
	raw := make(contracts.WeightVector, len(contracts.AllFactors))
	total := 0.0
	for _, f := range contracts.AllFactors {
		w := base[f]
		if mult, ok := multipliers[f]; ok {
			w *= mult
		}
		raw[f] = w
		total += w
	}

	if total <= 0 {
		return nil, fmt.Errorf("adjusted weights sum to %f", total)
	}

	vec := make(contracts.WeightVector, len(raw))
	for f, w := range raw {
		vec[f] = w / total
	}

	if diff := vec.Sum() - 1.0; diff > weightTolerance || diff < -weightTolerance {
		return nil, fmt.Errorf("normalized weights sum to %.9f", vec.Sum())
	}

	return vec, nil
}
