package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/cohortlab/retain/internal/cohort"
	"github.com/cohortlab/retain/internal/scheduler"
	"github.com/cohortlab/retain/internal/scheduler/jobs"
	"github.com/cohortlab/retain/pkg/config"
	"github.com/cohortlab/retain/pkg/database"
	"github.com/cohortlab/retain/pkg/logger"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Run the background refit scheduler",
	Long: `Starts the scheduler daemon.

Registered jobs:
- refit: re-estimates (alpha, beta) for every tracked dataset from its
  stored observation history and appends the result (REFIT_SCHEDULE,
  default 03:00 daily)

Subcommands:
  start  - start the scheduler daemon
  run    - run a specific job once, immediately

Example:
  go run ./cmd/retain scheduler start
  go run ./cmd/retain scheduler run refit`,
}

var (
	schedulerStartCmd = &cobra.Command{
		Use:   "start",
		Short: "Start the scheduler daemon",
		RunE:  runScheduler,
	}

	schedulerRunCmd = &cobra.Command{
		Use:   "run [job_name]",
		Short: "Run a specific job immediately",
		Args:  cobra.ExactArgs(1),
		RunE:  runSchedulerJob,
	}
)

func init() {
	rootCmd.AddCommand(schedulerCmd)
	schedulerCmd.AddCommand(schedulerStartCmd)
	schedulerCmd.AddCommand(schedulerRunCmd)
}

func runScheduler(cmd *cobra.Command, args []string) error {
	fmt.Println("=== retain Scheduler ===")

	sched, cleanup, err := initScheduler()
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	defer cleanup()

	sched.Start()

	fmt.Println("\nScheduler started")
	fmt.Println("Press Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	fmt.Println("\nShutting down scheduler...")
	sched.Stop()
	fmt.Println("Scheduler stopped")

	return nil
}

func runSchedulerJob(cmd *cobra.Command, args []string) error {
	jobName := args[0]

	fmt.Printf("Running job: %s\n", jobName)

	sched, cleanup, err := initScheduler()
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	defer cleanup()

	if err := sched.RunJob(jobName); err != nil {
		return fmt.Errorf("run job: %w", err)
	}

	// RunJob is asynchronous; block until the job has recorded a result.
	history, err := sched.GetJobHistory(jobName)
	if err != nil {
		return err
	}
	for history.Latest() == nil {
		time.Sleep(200 * time.Millisecond)
	}

	latest := history.Latest()
	if !latest.Success {
		return fmt.Errorf("job %s failed: %s", jobName, latest.Error)
	}

	fmt.Printf("Job %s completed in %s\n", jobName, latest.Duration)
	return nil
}

func initScheduler() (*scheduler.Scheduler, func(), error) {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	// 3. Connect to database
	db, err := database.New(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}

	// 4. Create repository
	repo := cohort.NewRepository(db.Pool)

	// 5. Create scheduler and register jobs
	sched := scheduler.New(log)
	if err := sched.AddJob(jobs.NewRefit(repo, cfg.Scheduler.RefitSchedule, log)); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("register refit job: %w", err)
	}

	return sched, db.Close, nil
}
