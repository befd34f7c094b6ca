package scoring

import (
	"github.com/investorcenter/score-engine/internal/contracts"
	"github.com/investorcenter/score-engine/internal/scoreconfig"
)

// RatingFor maps an overall score to its label using the configured
// cutoffs. A nil overall (all-null or gated) has no rating.
func RatingFor(overall *float64, cfg scoreconfig.Rating) contracts.Rating {
	if overall == nil {
		return contracts.RatingNone
	}

	switch s := *overall; {
	case s >= cfg.StrongBuy:
		return contracts.RatingStrongBuy
	case s >= cfg.Buy:
		return contracts.RatingBuy
	case s >= cfg.Hold:
		return contracts.RatingHold
	case s >= cfg.Underperform:
		return contracts.RatingUnderperform
	default:
		return contracts.RatingSell
	}
}
