package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/investorcenter/score-engine/internal/engine"
	"github.com/investorcenter/score-engine/pkg/logger"
)

// ScoreRunJob executes the daily scoring run for the current date.
type ScoreRunJob struct {
	orchestrator *engine.Orchestrator
	schedule     string
	logger       *logger.Logger
}

// NewScoreRunJob creates the daily scoring job. schedule is a cron
// expression with seconds.
func NewScoreRunJob(o *engine.Orchestrator, schedule string, log *logger.Logger) *ScoreRunJob {
	return &ScoreRunJob{
		orchestrator: o,
		schedule:     schedule,
		logger:       log,
	}
}

// Name returns the job name.
func (j *ScoreRunJob) Name() string {
	return "daily_score_run"
}

// Schedule returns the cron schedule.
func (j *ScoreRunJob) Schedule() string {
	return j.schedule
}

// Run executes one scoring run for today's date.
func (j *ScoreRunJob) Run(ctx context.Context) error {
	date := time.Now().UTC().Truncate(24 * time.Hour)

	result, err := j.orchestrator.Execute(ctx, engine.RunConfig{Date: date})
	if err != nil {
		return fmt.Errorf("scoring run: %w", err)
	}

	j.logger.WithFields(map[string]interface{}{
		"run_id":   result.Run.ID,
		"scored":   result.Run.EntitiesScored,
		"failed":   len(result.Run.Failures),
		"duration": result.Duration.String(),
	}).Info("Scheduled scoring run complete")

	return nil
}
