package engine

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/investorcenter/score-engine/internal/contracts"
	"github.com/investorcenter/score-engine/internal/distribution"
	"github.com/investorcenter/score-engine/internal/factors"
	"github.com/investorcenter/score-engine/internal/lifecycle"
	"github.com/investorcenter/score-engine/internal/scoreconfig"
	"github.com/investorcenter/score-engine/internal/scoring"
	"github.com/investorcenter/score-engine/internal/weights"
	"github.com/investorcenter/score-engine/pkg/logger"
)

// Orchestrator drives one scoring run through its state machine:
// distributions first, then entity scoring against the frozen index, then
// a single atomic publish. Per-entity problems are contained and recorded;
// only phase-level failures fail the run.
type Orchestrator struct {
	metrics contracts.MetricStore
	scores  contracts.ScoreStore

	cfg        *scoreconfig.Config
	configHash string

	distCalc    *distribution.Calculator
	classifier  *lifecycle.Classifier
	calculators []factors.Calculator
	adjuster    *weights.Adjuster
	aggregator  *scoring.Aggregator
	confidence  *scoring.Evaluator

	logger *logger.Logger
}

// RunConfig holds configuration for one scoring run.
type RunConfig struct {
	Date   time.Time
	RunID  string // generated when empty
	DryRun bool   // compute everything, publish nothing
}

// RunResult holds the output of a completed (or failed) run.
type RunResult struct {
	Run      *contracts.RunRecord
	Scores   []*contracts.CompositeScore
	Duration time.Duration
}

// NewOrchestrator wires the scoring components from a validated config.
func NewOrchestrator(
	metrics contracts.MetricStore,
	scores contracts.ScoreStore,
	cfg *scoreconfig.Config,
	log *logger.Logger,
) (*Orchestrator, error) {
	hash, err := scoreconfig.Hash(cfg)
	if err != nil {
		return nil, fmt.Errorf("hash scoring config: %w", err)
	}

	adjuster, err := weights.NewAdjuster(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("build weight adjuster: %w", err)
	}

	return &Orchestrator{
		metrics:     metrics,
		scores:      scores,
		cfg:         cfg,
		configHash:  hash,
		distCalc:    distribution.NewCalculator(cfg, log),
		classifier:  lifecycle.NewClassifier(log),
		calculators: factors.All(log),
		adjuster:    adjuster,
		aggregator:  scoring.NewAggregator(log),
		confidence:  scoring.NewEvaluator(cfg),
		logger:      log.Component("engine"),
	}, nil
}

// Execute runs the full pipeline for one date. The returned RunResult is
// populated even on failure; the error mirrors Run.Error.
func (o *Orchestrator) Execute(ctx context.Context, config RunConfig) (*RunResult, error) {
	start := time.Now()

	runID := config.RunID
	if runID == "" {
		runID = uuid.NewString()
	}

	run := &contracts.RunRecord{
		ID:         runID,
		Date:       config.Date,
		State:      contracts.RunScheduled,
		ConfigHash: o.configHash,
		StartedAt:  start,
	}
	result := &RunResult{Run: run}

	log := o.logger.WithFields(map[string]interface{}{
		"run_id": runID,
		"date":   config.Date.Format("2006-01-02"),
	})
	log.WithField("config_hash", o.configHash[:12]).Info("Starting scoring run")

	entities, err := o.metrics.ActiveEntities(ctx, config.Date)
	if err != nil {
		return o.failRun(result, start, fmt.Errorf("load entities: %w", err))
	}
	run.EntitiesTotal = len(entities)

	// Phase 1: sector distributions.
	if err := run.Advance(); err != nil {
		return o.failRun(result, start, err)
	}
	index, err := o.computeDistributions(ctx, config.Date, entities)
	if err != nil {
		return o.failRun(result, start, fmt.Errorf("distribution phase: %w", err))
	}
	run.Distributions = index.Len()
	log.WithField("distributions", index.Len()).Info("Distribution phase complete")

	// Prior overalls for deltas, loaded once so the run stays deterministic.
	prior, err := o.scores.OverallBefore(ctx, config.Date)
	if err != nil {
		log.WithError(err).Warn("Could not load prior run overalls, deltas will be absent")
		prior = nil
	}

	// Phase 2: entity scoring. The index is frozen; calculators only read.
	if err := run.Advance(); err != nil {
		return o.failRun(result, start, err)
	}
	scored, failures := o.scoreEntities(ctx, config.Date, runID, entities, index, prior)
	run.EntitiesScored = len(scored)
	run.Failures = failures
	log.WithFields(map[string]interface{}{
		"scored": len(scored),
		"failed": len(failures),
	}).Info("Scoring phase complete")

	assignSectorRanks(scored)

	// Phase 3: atomic publication.
	if err := run.Advance(); err != nil {
		return o.failRun(result, start, err)
	}
	if !config.DryRun {
		if err := o.scores.PublishRun(ctx, run, scored); err != nil {
			return o.failRun(result, start, fmt.Errorf("publish: %w", err))
		}
	}
	if err := run.Advance(); err != nil {
		return o.failRun(result, start, err)
	}

	result.Scores = scored
	result.Duration = time.Since(start)
	log.WithField("duration", result.Duration.String()).Info("Scoring run complete")
	return result, nil
}

// failRun marks the run failed and returns the mirrored error.
func (o *Orchestrator) failRun(result *RunResult, start time.Time, cause error) (*RunResult, error) {
	if err := result.Run.Fail(cause); err != nil {
		o.logger.WithError(err).Error("Could not mark run failed")
	}
	result.Duration = time.Since(start)
	o.logger.WithFields(map[string]interface{}{
		"run_id": result.Run.ID,
		"state":  result.Run.State.String(),
	}).WithError(cause).Error("Scoring run failed")
	return result, cause
}

// computeDistributions builds the distribution index over a bounded worker
// pool. Any read or compute failure here fails the run: scoring against a
// partially built index would silently bias every percentile.
func (o *Orchestrator) computeDistributions(ctx context.Context, date time.Time, entities []contracts.Entity) (*contracts.DistributionIndex, error) {
	phaseCtx, cancel := context.WithTimeout(ctx, o.cfg.Engine.PhaseTimeoutDuration())
	defer cancel()

	sectors := make([]string, 0)
	seen := make(map[string]bool)
	for _, e := range entities {
		if !seen[e.Sector] {
			seen[e.Sector] = true
			sectors = append(sectors, e.Sector)
		}
	}
	sort.Strings(sectors)

	index := contracts.NewDistributionIndex()
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(phaseCtx)
	g.SetLimit(o.cfg.Engine.DistributionWorkers)

	for _, sector := range sectors {
		for _, metric := range contracts.RankedMetrics {
			sector, metric := sector, metric
			g.Go(func() error {
				values, err := o.metrics.SectorMetricValues(gctx, sector, metric, date)
				if err != nil {
					return fmt.Errorf("sector %s metric %s: %w", sector, metric, err)
				}

				dist := o.distCalc.Compute(sector, metric, date, values)
				if dist == nil {
					return nil
				}

				mu.Lock()
				index.Put(dist)
				mu.Unlock()
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return index, nil
}

// scoreEntities scores every entity over a bounded worker pool. Failures
// are retried per the config, then recorded; they never fail the run.
func (o *Orchestrator) scoreEntities(
	ctx context.Context,
	date time.Time,
	runID string,
	entities []contracts.Entity,
	index *contracts.DistributionIndex,
	prior map[string]float64,
) ([]*contracts.CompositeScore, []contracts.EntityFailure) {
	phaseCtx, cancel := context.WithTimeout(ctx, o.cfg.Engine.PhaseTimeoutDuration())
	defer cancel()

	var (
		mu       sync.Mutex
		scored   []*contracts.CompositeScore
		failures []contracts.EntityFailure
	)

	g, gctx := errgroup.WithContext(phaseCtx)
	g.SetLimit(o.cfg.Engine.ScoringWorkers)

	attempts := 1 + o.cfg.Engine.EntityRetries

	for _, entity := range entities {
		entity := entity
		g.Go(func() error {
			var (
				cs      *contracts.CompositeScore
				lastErr error
			)
			for attempt := 1; attempt <= attempts; attempt++ {
				cs, lastErr = o.scoreEntity(gctx, date, runID, entity, index, prior)
				if lastErr == nil {
					break
				}
				o.logger.WithFields(map[string]interface{}{
					"entity":  entity.ID,
					"attempt": attempt,
				}).WithError(lastErr).Warn("Entity scoring attempt failed")
			}

			mu.Lock()
			defer mu.Unlock()
			if lastErr != nil {
				failures = append(failures, contracts.EntityFailure{
					EntityID: entity.ID,
					Attempts: attempts,
					Error:    lastErr.Error(),
				})
				return nil
			}
			scored = append(scored, cs)
			return nil
		})
	}

	// Workers never return errors; Wait only observes context cancellation.
	_ = g.Wait()

	// Deterministic output order regardless of worker interleaving.
	sort.Slice(scored, func(i, j int) bool { return scored[i].EntityID < scored[j].EntityID })
	sort.Slice(failures, func(i, j int) bool { return failures[i].EntityID < failures[j].EntityID })

	return scored, failures
}

// scoreEntity computes one entity's composite score. A panic in any
// calculator is converted to an error so one bad entity cannot take down
// the pool.
func (o *Orchestrator) scoreEntity(
	ctx context.Context,
	date time.Time,
	runID string,
	entity contracts.Entity,
	index *contracts.DistributionIndex,
	prior map[string]float64,
) (cs *contracts.CompositeScore, err error) {
	defer func() {
		if r := recover(); r != nil {
			cs = nil
			err = fmt.Errorf("panic scoring %s: %v", entity.ID, r)
		}
	}()

	metricSet, err := o.metrics.LatestMetrics(ctx, entity.ID, date)
	if err != nil {
		return nil, fmt.Errorf("load metrics for %s: %w", entity.ID, err)
	}

	classification := o.classifier.Classify(metricSet)

	factorScores := make(contracts.FactorScoreSet, len(o.calculators))
	for _, calc := range o.calculators {
		if fs := calc.Calculate(entity, metricSet, index); fs != nil {
			factorScores[calc.Factor()] = fs
		}
	}

	stageWeights := o.adjuster.WeightsFor(classification.Stage)
	agg := o.aggregator.Aggregate(factorScores, stageWeights)
	conf := o.confidence.Evaluate(factorScores)

	overall := agg.Overall
	applied := agg.AppliedWeights
	if !conf.CoreGateMet {
		// Gate failure suppresses the overall; factor and category scores
		// are still published for diagnostics.
		overall = nil
		applied = nil
	}

	cs = &contracts.CompositeScore{
		EntityID:       entity.ID,
		Sector:         entity.Sector,
		Date:           date,
		RunID:          runID,
		Stage:          classification.Stage,
		StageReason:    classification.Reason,
		Factors:        factorScores,
		Categories:     agg.Categories,
		Overall:        overall,
		AppliedWeights: applied,
		Confidence:     conf,
		Rating:         scoring.RatingFor(overall, o.cfg.Rating),
		ConfigHash:     o.configHash,
		ComputedAt:     time.Now().UTC(),
	}

	if overall != nil && prior != nil {
		if prev, ok := prior[entity.ID]; ok {
			cs.Delta = contracts.Float64(*overall - prev)
		}
	}

	return cs, nil
}

// assignSectorRanks gives every published overall its percentile standing
// within the sector for this run: 100 for the sector leader, 0 for the
// bottom. Ties break by entity ID so reruns rank identically.
func assignSectorRanks(scored []*contracts.CompositeScore) {
	bySector := make(map[string][]*contracts.CompositeScore)
	for _, cs := range scored {
		if cs.Overall == nil {
			continue
		}
		bySector[cs.Sector] = append(bySector[cs.Sector], cs)
	}

	for _, peers := range bySector {
		sort.Slice(peers, func(i, j int) bool {
			if *peers[i].Overall != *peers[j].Overall {
				return *peers[i].Overall > *peers[j].Overall
			}
			return peers[i].EntityID < peers[j].EntityID
		})

		n := len(peers)
		for i, cs := range peers {
			if n == 1 {
				cs.SectorRank = contracts.Float64(100)
				continue
			}
			cs.SectorRank = contracts.Float64(float64(n-1-i) / float64(n-1) * 100)
		}
	}
}
