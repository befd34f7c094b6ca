package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show recent scoring runs",
	Long: `Lists recent scoring runs with their state and counts.

Example:
  go run ./cmd/score status
  go run ./cmd/score status --limit 20`,
	RunE: runStatus,
}

var statusLimit int

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().IntVar(&statusLimit, "limit", 10, "number of runs to show")
}

func runStatus(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Recent Scoring Runs ===")

	s, err := buildStack()
	if err != nil {
		return fmt.Errorf("❌ %w", err)
	}
	defer s.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	runs, err := s.scores.RecentRuns(ctx, statusLimit)
	if err != nil {
		return fmt.Errorf("❌ query runs: %w", err)
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}

	fmt.Println("Date        State      Scored  Failed  Config        Run ID")
	for _, run := range runs {
		hash := run.ConfigHash
		if len(hash) > 12 {
			hash = hash[:12]
		}
		fmt.Printf("%s  %-9s  %6d  %6d  %-12s  %s\n",
			run.Date.Format("2006-01-02"), run.State, run.EntitiesScored,
			len(run.Failures), hash, run.ID)
		if run.Error != "" {
			fmt.Printf("            ⚠️  %s\n", run.Error)
		}
	}
	return nil
}
