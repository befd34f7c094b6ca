package lifecycle

import (
	"fmt"

	"github.com/investorcenter/score-engine/internal/contracts"
	"github.com/investorcenter/score-engine/pkg/logger"
)

// Revenue growth cutoffs, in percent year-over-year.
const (
	hypergrowthThreshold = 50.0
	growthThreshold      = 15.0
)

// Classification is the classifier output: the stage plus a short
// human-readable reason, persisted with the score for auditability.
type Classification struct {
	Stage  contracts.LifecycleStage `json:"stage"`
	Reason string                   `json:"reason"`
}

// Classifier assigns an entity to one of the five lifecycle stages from its
// fundamentals. Rules are evaluated top to bottom, first match wins, and
// the function is total: every input maps to exactly one stage.
type Classifier struct {
	log *logger.Logger
}

// NewClassifier creates a lifecycle classifier.
func NewClassifier(log *logger.Logger) *Classifier {
	return &Classifier{log: log.Component("lifecycle")}
}

// Classify determines the lifecycle stage.
//
//  1. revenue growth > 50%            → hypergrowth
//  2. revenue growth > 15%            → growth
//  3. growth >= 0 and net margin > 0  → mature
//  4. growth < 0 and trend improving  → turnaround
//  5. otherwise                       → declining
//
// Entities missing revenue growth or net margin default to mature: a
// neutral stance is safer than guessing momentum either way.
func (c *Classifier) Classify(m contracts.MetricSet) Classification {
	growth, hasGrowth := m.Get(contracts.MetricRevenueGrowthYoY)
	margin, hasMargin := m.Get(contracts.MetricNetMargin)

	if !hasGrowth || !hasMargin {
		return Classification{
			Stage:  contracts.StageMature,
			Reason: "insufficient fundamentals, defaulting to mature",
		}
	}

	switch {
	case growth > hypergrowthThreshold:
		return Classification{
			Stage:  contracts.StageHypergrowth,
			Reason: fmt.Sprintf("revenue growth %.1f%% exceeds %.0f%%", growth, hypergrowthThreshold),
		}

	case growth > growthThreshold:
		return Classification{
			Stage:  contracts.StageGrowth,
			Reason: fmt.Sprintf("revenue growth %.1f%% exceeds %.0f%%", growth, growthThreshold),
		}

	case growth >= 0 && margin > 0:
		return Classification{
			Stage:  contracts.StageMature,
			Reason: fmt.Sprintf("stable revenue (%.1f%%) with positive margin (%.1f%%)", growth, margin),
		}

	case growth < 0 && c.trendImproving(m):
		return Classification{
			Stage:  contracts.StageTurnaround,
			Reason: fmt.Sprintf("revenue contracting (%.1f%%) but trend improving", growth),
		}

	default:
		return Classification{
			Stage:  contracts.StageDeclining,
			Reason: fmt.Sprintf("revenue contracting (%.1f%%) with no recovery signal", growth),
		}
	}
}

// trendImproving reports whether the short-window growth trend is positive.
// The trend metric is the latest-window growth minus the prior window,
// computed upstream; a missing trend is never treated as improving.
func (c *Classifier) trendImproving(m contracts.MetricSet) bool {
	trend, ok := m.Get(contracts.MetricRevenueGrowthTrend)
	return ok && trend > 0
}
