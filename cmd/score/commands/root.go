package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/investorcenter/score-engine/internal/engine"
	"github.com/investorcenter/score-engine/internal/scoreconfig"
	"github.com/investorcenter/score-engine/internal/store"
	"github.com/investorcenter/score-engine/pkg/config"
	"github.com/investorcenter/score-engine/pkg/database"
	"github.com/investorcenter/score-engine/pkg/logger"
)

var (
	// Global flags
	scoringConfig string
	verbose       bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "score",
	Short: "Composite stock scoring engine",
	Long: `Sector-relative composite scoring engine.

Computes nine factor scores per stock, blends them with
lifecycle-adjusted weights, and publishes composite scores
with confidence tiers and ratings.

Examples:
  go run ./cmd/score run
  go run ./cmd/score run --date 2026-03-02 --dry-run
  go run ./cmd/score scheduler start
  go run ./cmd/score status`,
}

// Execute runs the root command. Called once from main.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&scoringConfig, "scoring-config", "", "scoring config file (default from SCORING_CONFIG)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// stack bundles everything a command needs to run the engine.
type stack struct {
	cfg          *config.Config
	log          *logger.Logger
	db           *database.DB
	scores       *store.ScoreRepository
	orchestrator *engine.Orchestrator
}

// buildStack loads configuration, connects to the database, and wires the
// orchestrator. Callers must Close the returned stack.
func buildStack() (*stack, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	log := logger.New(cfg)

	path := scoringConfig
	if path == "" {
		path = cfg.ScoringConfigPath
	}
	scoring, _, err := scoreconfig.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load scoring config %s: %w", path, err)
	}

	db, err := database.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	metrics := store.NewMetricRepository(db.Pool)
	scores := store.NewScoreRepository(db.Pool)

	orchestrator, err := engine.NewOrchestrator(metrics, scores, scoring, log)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("build orchestrator: %w", err)
	}

	return &stack{
		cfg:          cfg,
		log:          log,
		db:           db,
		scores:       scores,
		orchestrator: orchestrator,
	}, nil
}

// Close releases the stack's database pool.
func (s *stack) Close() {
	s.db.Close()
}
