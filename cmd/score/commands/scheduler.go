package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/investorcenter/score-engine/internal/scheduler"
	"github.com/investorcenter/score-engine/internal/scheduler/jobs"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Manage the scoring scheduler",
	Long: `Runs the scheduler daemon or manages its jobs.

Subcommands:
  start  - start the scheduler daemon
  list   - list registered jobs
  run    - trigger a job immediately

Example:
  go run ./cmd/score scheduler start
  go run ./cmd/score scheduler run daily_score_run`,
}

var (
	schedulerStartCmd = &cobra.Command{
		Use:   "start",
		Short: "Start the scheduler daemon",
		Long: `Starts the scheduler and registers the daily scoring job
on the cron expression from SCHEDULE_CRON.

Stop with Ctrl+C.`,
		RunE: runSchedulerStart,
	}

	schedulerListCmd = &cobra.Command{
		Use:   "list",
		Short: "List registered jobs",
		RunE:  runSchedulerList,
	}

	schedulerRunCmd = &cobra.Command{
		Use:   "run [job_name]",
		Short: "Trigger a job immediately",
		Args:  cobra.ExactArgs(1),
		RunE:  runSchedulerJob,
	}
)

func init() {
	rootCmd.AddCommand(schedulerCmd)
	schedulerCmd.AddCommand(schedulerStartCmd)
	schedulerCmd.AddCommand(schedulerListCmd)
	schedulerCmd.AddCommand(schedulerRunCmd)
}

// buildScheduler wires the scheduler with the daily scoring job.
func buildScheduler(s *stack) (*scheduler.Scheduler, error) {
	sched := scheduler.New(s.log, s.cfg.RunTimeout)

	job := jobs.NewScoreRunJob(s.orchestrator, s.cfg.ScheduleCron, s.log)
	if err := sched.AddJob(job); err != nil {
		return nil, fmt.Errorf("register %s: %w", job.Name(), err)
	}

	return sched, nil
}

func runSchedulerStart(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Scoring Scheduler ===")

	s, err := buildStack()
	if err != nil {
		return fmt.Errorf("❌ %w", err)
	}
	defer s.Close()

	if !s.cfg.ScheduleEnabled {
		return fmt.Errorf("❌ scheduling is disabled (SCHEDULE_ENABLED=false)")
	}

	sched, err := buildScheduler(s)
	if err != nil {
		return fmt.Errorf("❌ %w", err)
	}

	sched.Start()
	fmt.Printf("✅ Scheduler started (schedule: %s)\n", s.cfg.ScheduleCron)
	fmt.Println("Press Ctrl+C to stop")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	fmt.Println("\nShutting down...")
	sched.Stop()
	fmt.Println("✅ Scheduler stopped")
	return nil
}

func runSchedulerList(cmd *cobra.Command, args []string) error {
	s, err := buildStack()
	if err != nil {
		return fmt.Errorf("❌ %w", err)
	}
	defer s.Close()

	sched, err := buildScheduler(s)
	if err != nil {
		return fmt.Errorf("❌ %w", err)
	}

	fmt.Println("Registered jobs:")
	for _, name := range sched.Jobs() {
		fmt.Printf("  - %s\n", name)
	}
	return nil
}

func runSchedulerJob(cmd *cobra.Command, args []string) error {
	jobName := args[0]

	s, err := buildStack()
	if err != nil {
		return fmt.Errorf("❌ %w", err)
	}
	defer s.Close()

	sched, err := buildScheduler(s)
	if err != nil {
		return fmt.Errorf("❌ %w", err)
	}

	fmt.Printf("Triggering %s...\n", jobName)
	if err := sched.RunJob(jobName); err != nil {
		return fmt.Errorf("❌ %w", err)
	}

	// RunJob is asynchronous; poll until the one-shot execution records.
	for {
		history, err := sched.History(jobName)
		if err != nil {
			return fmt.Errorf("❌ %w", err)
		}
		if results := history.LatestResults(1); len(results) > 0 {
			r := results[0]
			if !r.Success {
				return fmt.Errorf("❌ job failed: %s", r.Error)
			}
			fmt.Printf("✅ %s completed in %s\n", jobName, r.Duration.Round(time.Millisecond))
			return nil
		}
		time.Sleep(500 * time.Millisecond)
	}
}
