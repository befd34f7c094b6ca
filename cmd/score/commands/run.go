package commands

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/investorcenter/score-engine/internal/contracts"
	"github.com/investorcenter/score-engine/internal/engine"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute one scoring run",
	Long: `Executes a full scoring run for one date:
sector distributions, entity scoring, and atomic publication.

Flags:
  --date     run date (YYYY-MM-DD, default: today)
  --dry-run  compute everything, publish nothing

Example:
  go run ./cmd/score run
  go run ./cmd/score run --date 2026-03-02
  go run ./cmd/score run --dry-run --top 20`,
	RunE: runScoring,
}

var (
	runDate   string
	runDryRun bool
	runTop    int
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runDate, "date", "", "run date (YYYY-MM-DD, default: today)")
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "compute everything, publish nothing")
	runCmd.Flags().IntVar(&runTop, "top", 10, "number of top scores to print")
}

func runScoring(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Composite Scoring Run ===")

	date := time.Now().UTC().Truncate(24 * time.Hour)
	if runDate != "" {
		parsed, err := time.Parse("2006-01-02", runDate)
		if err != nil {
			return fmt.Errorf("❌ invalid --date %q (want YYYY-MM-DD): %w", runDate, err)
		}
		date = parsed
	}

	s, err := buildStack()
	if err != nil {
		return fmt.Errorf("❌ %w", err)
	}
	defer s.Close()

	fmt.Printf("Date:    %s\n", date.Format("2006-01-02"))
	fmt.Printf("Dry run: %v\n\n", runDryRun)

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.RunTimeout)
	defer cancel()

	result, err := s.orchestrator.Execute(ctx, engine.RunConfig{Date: date, DryRun: runDryRun})
	if err != nil {
		return fmt.Errorf("❌ run %s failed: %w", result.Run.ID, err)
	}

	run := result.Run
	fmt.Println("✅ Run complete")
	fmt.Printf("   Run ID:        %s\n", run.ID)
	fmt.Printf("   Entities:      %d scored / %d total\n", run.EntitiesScored, run.EntitiesTotal)
	fmt.Printf("   Distributions: %d\n", run.Distributions)
	fmt.Printf("   Failures:      %d\n", len(run.Failures))
	fmt.Printf("   Duration:      %s\n", result.Duration.Round(time.Millisecond))

	for _, f := range run.Failures {
		fmt.Printf("   ⚠️  %s (%d attempts): %s\n", f.EntityID, f.Attempts, f.Error)
	}

	printTopScores(result.Scores, runTop)
	return nil
}

// printTopScores prints the highest overall scores of the run.
func printTopScores(scores []*contracts.CompositeScore, n int) {
	ranked := make([]*contracts.CompositeScore, 0, len(scores))
	for _, cs := range scores {
		if cs.Overall != nil {
			ranked = append(ranked, cs)
		}
	}
	if len(ranked) == 0 {
		fmt.Println("\nNo publishable overall scores this run.")
		return
	}

	sort.Slice(ranked, func(i, j int) bool { return *ranked[i].Overall > *ranked[j].Overall })
	if n > len(ranked) {
		n = len(ranked)
	}

	fmt.Printf("\n📊 Top %d:\n", n)
	fmt.Println("   Ticker    Overall  Rating        Stage        Tier")
	for _, cs := range ranked[:n] {
		fmt.Printf("   %-8s  %6.2f   %-12s  %-11s  %s\n",
			cs.EntityID, *cs.Overall, cs.Rating, cs.Stage, cs.Confidence.Tier)
	}
}
