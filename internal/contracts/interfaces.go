package contracts

import (
	"context"
	"time"
)

// Entity is one scoreable instrument with its sector membership.
type Entity struct {
	ID     string `json:"id"` // ticker
	Sector string `json:"sector"`
}

// MetricStore is the read-only gateway to the upstream metric pipeline.
// The engine consumes it as-is: reads for a given run date are treated as
// immutable for the duration of a run. Implementations live in
// internal/store; tests substitute in-memory fakes.
type MetricStore interface {
	// ActiveEntities returns the scoreable universe for a run date.
	ActiveEntities(ctx context.Context, date time.Time) ([]Entity, error)

	// LatestMetrics returns the most recent observation per canonical
	// metric for one entity, as of the run date. Missing metrics are
	// simply absent from the set.
	LatestMetrics(ctx context.Context, entityID string, asOf time.Time) (MetricSet, error)

	// SectorMetricValues returns every entity's latest value of one
	// metric within one sector, for the distribution phase.
	SectorMetricValues(ctx context.Context, sector, metric string, asOf time.Time) ([]float64, error)
}

// ScoreStore persists scoring output. PublishRun is all-or-nothing: either
// every score and the run record land, or nothing does.
type ScoreStore interface {
	PublishRun(ctx context.Context, run *RunRecord, scores []*CompositeScore) error

	// LatestScores returns up to limit most recent published scores for an
	// entity, newest first.
	LatestScores(ctx context.Context, entityID string, limit int) ([]*CompositeScore, error)

	// OverallBefore returns entity → overall from the most recent run
	// published strictly before date. Entities without a published overall
	// are absent.
	OverallBefore(ctx context.Context, date time.Time) (map[string]float64, error)
}

// RunStore reads run audit records.
type RunStore interface {
	RecentRuns(ctx context.Context, limit int) ([]*RunRecord, error)
}
