package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/investorcenter/score-engine/internal/contracts"
)

// MetricRepository implements contracts.MetricStore on the metrics schema
// written by the upstream ingestion pipeline. All reads are as-of the run
// date so a run sees one consistent snapshot.
type MetricRepository struct {
	pool *pgxpool.Pool
}

// NewMetricRepository creates a new metric repository.
func NewMetricRepository(pool *pgxpool.Pool) *MetricRepository {
	return &MetricRepository{pool: pool}
}

// ActiveEntities returns the scoreable universe for a run date.
func (r *MetricRepository) ActiveEntities(ctx context.Context, date time.Time) ([]contracts.Entity, error) {
	query := `
		SELECT ticker, sector
		FROM metrics.entities
		WHERE active = TRUE
		  AND listed_at <= $1
		ORDER BY ticker
	`

	rows, err := r.pool.Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("query active entities: %w", err)
	}
	defer rows.Close()

	var entities []contracts.Entity
	for rows.Next() {
		var e contracts.Entity
		if err := rows.Scan(&e.ID, &e.Sector); err != nil {
			return nil, fmt.Errorf("scan entity: %w", err)
		}
		entities = append(entities, e)
	}
	return entities, rows.Err()
}

// LatestMetrics returns the most recent observation per canonical metric
// for one entity, as of the run date.
func (r *MetricRepository) LatestMetrics(ctx context.Context, entityID string, asOf time.Time) (contracts.MetricSet, error) {
	query := `
		SELECT DISTINCT ON (metric) metric, value
		FROM metrics.observations
		WHERE ticker = $1
		  AND observed_at <= $2
		  AND value IS NOT NULL
		ORDER BY metric, observed_at DESC
	`

	rows, err := r.pool.Query(ctx, query, entityID, asOf)
	if err != nil {
		return nil, fmt.Errorf("query metrics for %s: %w", entityID, err)
	}
	defer rows.Close()

	set := make(contracts.MetricSet)
	for rows.Next() {
		var (
			metric string
			value  float64
		)
		if err := rows.Scan(&metric, &value); err != nil {
			return nil, fmt.Errorf("scan metric for %s: %w", entityID, err)
		}
		set[metric] = value
	}
	return set, rows.Err()
}

// SectorMetricValues returns every active entity's latest value of one
// metric within one sector, for the distribution phase.
func (r *MetricRepository) SectorMetricValues(ctx context.Context, sector, metric string, asOf time.Time) ([]float64, error) {
	query := `
		SELECT DISTINCT ON (o.ticker) o.value
		FROM metrics.observations o
		JOIN metrics.entities e ON e.ticker = o.ticker
		WHERE e.sector = $1
		  AND e.active = TRUE
		  AND o.metric = $2
		  AND o.observed_at <= $3
		  AND o.value IS NOT NULL
		ORDER BY o.ticker, o.observed_at DESC
	`

	rows, err := r.pool.Query(ctx, query, sector, metric, asOf)
	if err != nil {
		return nil, fmt.Errorf("query sector %s metric %s: %w", sector, metric, err)
	}
	defer rows.Close()

	var values []float64
	for rows.Next() {
		var v float64
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan sector value: %w", err)
		}
		values = append(values, v)
	}
	return values, rows.Err()
}
