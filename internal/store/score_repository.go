package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/investorcenter/score-engine/internal/contracts"
)

// ScoreRepository implements contracts.ScoreStore and contracts.RunStore on
// the scores schema. PublishRun writes the run record and every composite
// score in one transaction.
type ScoreRepository struct {
	pool *pgxpool.Pool
}

// NewScoreRepository creates a new score repository.
func NewScoreRepository(pool *pgxpool.Pool) *ScoreRepository {
	return &ScoreRepository{pool: pool}
}

// PublishRun persists the run record and all scores atomically. Scores for
// the same entity and date from an earlier run are overwritten so readers
// always see one row per entity per date.
func (r *ScoreRepository) PublishRun(ctx context.Context, run *contracts.RunRecord, scores []*contracts.CompositeScore) error {
	failuresJSON, err := json.Marshal(run.Failures)
	if err != nil {
		return fmt.Errorf("marshal failures: %w", err)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	runQuery := `
		INSERT INTO scores.runs (
			id, run_date, state, config_hash,
			entities_total, entities_scored, distributions,
			failures, error, started_at, finished_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())
		ON CONFLICT (id) DO UPDATE SET
			state = EXCLUDED.state,
			entities_total = EXCLUDED.entities_total,
			entities_scored = EXCLUDED.entities_scored,
			distributions = EXCLUDED.distributions,
			failures = EXCLUDED.failures,
			error = EXCLUDED.error,
			finished_at = NOW()
	`

	// The row is written as complete: reaching PublishRun means every
	// scoring phase succeeded, and the caller advances the in-memory
	// record once the transaction lands.
	_, err = tx.Exec(ctx, runQuery,
		run.ID, run.Date, contracts.RunComplete.String(), run.ConfigHash,
		run.EntitiesTotal, run.EntitiesScored, run.Distributions,
		failuresJSON, run.Error, run.StartedAt,
	)
	if err != nil {
		return fmt.Errorf("insert run record: %w", err)
	}

	scoreQuery := `
		INSERT INTO scores.composite (
			ticker, sector, score_date, run_id,
			stage, stage_reason,
			factors, categories, overall, applied_weights,
			completeness, tier, core_gate_met,
			rating, sector_rank, delta,
			config_hash, computed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		ON CONFLICT (ticker, score_date) DO UPDATE SET
			run_id = EXCLUDED.run_id,
			sector = EXCLUDED.sector,
			stage = EXCLUDED.stage,
			stage_reason = EXCLUDED.stage_reason,
			factors = EXCLUDED.factors,
			categories = EXCLUDED.categories,
			overall = EXCLUDED.overall,
			applied_weights = EXCLUDED.applied_weights,
			completeness = EXCLUDED.completeness,
			tier = EXCLUDED.tier,
			core_gate_met = EXCLUDED.core_gate_met,
			rating = EXCLUDED.rating,
			sector_rank = EXCLUDED.sector_rank,
			delta = EXCLUDED.delta,
			config_hash = EXCLUDED.config_hash,
			computed_at = EXCLUDED.computed_at
	`

	for _, cs := range scores {
		factorsJSON, err := json.Marshal(cs.Factors)
		if err != nil {
			return fmt.Errorf("marshal factors for %s: %w", cs.EntityID, err)
		}
		categoriesJSON, err := json.Marshal(cs.Categories)
		if err != nil {
			return fmt.Errorf("marshal categories for %s: %w", cs.EntityID, err)
		}
		weightsJSON, err := json.Marshal(cs.AppliedWeights)
		if err != nil {
			return fmt.Errorf("marshal applied weights for %s: %w", cs.EntityID, err)
		}

		_, err = tx.Exec(ctx, scoreQuery,
			cs.EntityID, cs.Sector, cs.Date, cs.RunID,
			string(cs.Stage), cs.StageReason,
			factorsJSON, categoriesJSON, cs.Overall, weightsJSON,
			cs.Confidence.Completeness, string(cs.Confidence.Tier), cs.Confidence.CoreGateMet,
			string(cs.Rating), cs.SectorRank, cs.Delta,
			cs.ConfigHash, cs.ComputedAt,
		)
		if err != nil {
			return fmt.Errorf("insert score for %s: %w", cs.EntityID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// LatestScores returns up to limit most recent published scores for an
// entity, newest first.
func (r *ScoreRepository) LatestScores(ctx context.Context, entityID string, limit int) ([]*contracts.CompositeScore, error) {
	query := `
		SELECT
			ticker, sector, score_date, run_id,
			stage, stage_reason,
			factors, categories, overall, applied_weights,
			completeness, tier, core_gate_met,
			rating, sector_rank, delta,
			config_hash, computed_at
		FROM scores.composite
		WHERE ticker = $1
		ORDER BY score_date DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, entityID, limit)
	if err != nil {
		return nil, fmt.Errorf("query scores for %s: %w", entityID, err)
	}
	defer rows.Close()

	var scores []*contracts.CompositeScore
	for rows.Next() {
		cs, err := scanScore(rows)
		if err != nil {
			return nil, fmt.Errorf("scan score for %s: %w", entityID, err)
		}
		scores = append(scores, cs)
	}
	return scores, rows.Err()
}

// OverallBefore returns entity → overall from the most recent complete run
// published strictly before date. An empty map when no such run exists.
func (r *ScoreRepository) OverallBefore(ctx context.Context, date time.Time) (map[string]float64, error) {
	runQuery := `
		SELECT id
		FROM scores.runs
		WHERE state = 'complete' AND run_date < $1
		ORDER BY run_date DESC, started_at DESC
		LIMIT 1
	`

	var runID string
	err := r.pool.QueryRow(ctx, runQuery, date).Scan(&runID)
	if errors.Is(err, pgx.ErrNoRows) {
		return map[string]float64{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query prior run: %w", err)
	}

	query := `
		SELECT ticker, overall
		FROM scores.composite
		WHERE run_id = $1 AND overall IS NOT NULL
	`

	rows, err := r.pool.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("query prior overalls: %w", err)
	}
	defer rows.Close()

	prior := make(map[string]float64)
	for rows.Next() {
		var (
			ticker  string
			overall float64
		)
		if err := rows.Scan(&ticker, &overall); err != nil {
			return nil, fmt.Errorf("scan prior overall: %w", err)
		}
		prior[ticker] = overall
	}
	return prior, rows.Err()
}

// RecentRuns returns the most recent run records, newest first.
func (r *ScoreRepository) RecentRuns(ctx context.Context, limit int) ([]*contracts.RunRecord, error) {
	query := `
		SELECT
			id, run_date, state, config_hash,
			entities_total, entities_scored, distributions,
			failures, error, started_at, finished_at
		FROM scores.runs
		ORDER BY started_at DESC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent runs: %w", err)
	}
	defer rows.Close()

	var runs []*contracts.RunRecord
	for rows.Next() {
		var (
			run          contracts.RunRecord
			state        string
			failuresJSON []byte
			runErr       *string
		)
		if err := rows.Scan(
			&run.ID, &run.Date, &state, &run.ConfigHash,
			&run.EntitiesTotal, &run.EntitiesScored, &run.Distributions,
			&failuresJSON, &runErr, &run.StartedAt, &run.FinishedAt,
		); err != nil {
			return nil, fmt.Errorf("scan run record: %w", err)
		}
		run.State = contracts.RunState(state)
		if runErr != nil {
			run.Error = *runErr
		}
		if len(failuresJSON) > 0 {
			if err := json.Unmarshal(failuresJSON, &run.Failures); err != nil {
				return nil, fmt.Errorf("unmarshal failures: %w", err)
			}
		}
		runs = append(runs, &run)
	}
	return runs, rows.Err()
}

// scanScore hydrates one composite score row.
func scanScore(rows pgx.Rows) (*contracts.CompositeScore, error) {
	var (
		cs             contracts.CompositeScore
		stage          string
		tier           string
		rating         string
		factorsJSON    []byte
		categoriesJSON []byte
		weightsJSON    []byte
	)

	if err := rows.Scan(
		&cs.EntityID, &cs.Sector, &cs.Date, &cs.RunID,
		&stage, &cs.StageReason,
		&factorsJSON, &categoriesJSON, &cs.Overall, &weightsJSON,
		&cs.Confidence.Completeness, &tier, &cs.Confidence.CoreGateMet,
		&rating, &cs.SectorRank, &cs.Delta,
		&cs.ConfigHash, &cs.ComputedAt,
	); err != nil {
		return nil, err
	}

	cs.Stage = contracts.LifecycleStage(stage)
	cs.Confidence.Tier = contracts.ConfidenceTier(tier)
	cs.Rating = contracts.Rating(rating)

	if err := json.Unmarshal(factorsJSON, &cs.Factors); err != nil {
		return nil, fmt.Errorf("unmarshal factors: %w", err)
	}
	if err := json.Unmarshal(categoriesJSON, &cs.Categories); err != nil {
		return nil, fmt.Errorf("unmarshal categories: %w", err)
	}
	if len(weightsJSON) > 0 && string(weightsJSON) != "null" {
		if err := json.Unmarshal(weightsJSON, &cs.AppliedWeights); err != nil {
			return nil, fmt.Errorf("unmarshal applied weights: %w", err)
		}
	}

	return &cs, nil
}
