package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ballotwatch/internal/core/domain"
	"github.com/custodia-labs/ballotwatch/internal/logger"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run scheduled discovery in the foreground",
	Long: `Runs the discovery scheduler until interrupted.

Discovery runs on the configured frequency (weekly, daily or manual) and
syncs its results. Edits to the config file are picked up without a restart.`,
	Args: cobra.NoArgs,
	RunE: runSchedule,
}

var scheduleStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show scheduled tasks and their recent runs",
	Args:  cobra.NoArgs,
	RunE:  runScheduleStatus,
}

var scheduleHistory int

func init() {
	scheduleStatusCmd.Flags().IntVarP(&scheduleHistory, "history", "n", 5, "recent executions to show per task")
	scheduleCmd.AddCommand(scheduleStatusCmd)
	rootCmd.AddCommand(scheduleCmd)
}

func runScheduleStatus(cmd *cobra.Command, _ []string) error {
	if scheduler == nil {
		return errors.New("scheduler not configured")
	}
	ctx := cmd.Context()

	tasks, err := scheduler.Tasks(ctx)
	if err != nil {
		return fmt.Errorf("list tasks: %w", err)
	}
	if len(tasks) == 0 {
		cmd.Println("Nothing scheduled. Discovery runs only when triggered by hand.")
		return nil
	}

	rows := make([][]string, 0, len(tasks))
	for _, task := range tasks {
		rows = append(rows, []string{
			task.Name,
			yesNo(task.Enabled),
			task.Interval.String(),
			formatWhen(task.LastRun),
			formatWhen(task.NextRun),
			orDash(task.LastError),
		})
	}
	cmd.Println(renderTable([]string{"Task", "Enabled", "Every", "Last run", "Next run", "Last error"}, rows, nil))

	for _, task := range tasks {
		history, err := scheduler.History(ctx, task.ID, scheduleHistory)
		if err != nil {
			return fmt.Errorf("history of %s: %w", task.ID, err)
		}
		if len(history) == 0 {
			continue
		}
		cmd.Printf("\nRecent %s runs:\n", task.Name)
		for _, r := range history {
			status := "ok"
			if !r.Success {
				status = "failed: " + r.Error
			}
			cmd.Printf("  %s  %s  %d candidates  %s\n",
				formatWhen(r.StartedAt), r.Duration().Round(time.Second), r.ItemsProcessed, status)
		}
	}
	return nil
}

func formatWhen(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

func runSchedule(cmd *cobra.Command, _ []string) error {
	if scheduler == nil || settingsService == nil {
		return errors.New("scheduler not configured")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	settings, err := settingsService.Get()
	if err != nil {
		return err
	}
	if err := scheduler.Reconfigure(ctx, domain.SchedulerConfigFor(*settings)); err != nil {
		logger.Warn("scheduler: %v", err)
	}

	if configWatcher != nil {
		go watchConfig(ctx)
	}

	cmd.Printf("Scheduler running (%s). Press Ctrl+C to stop.\n", settings.Frequency.Description())
	err = scheduler.Start(ctx)
	if stopErr := scheduler.Stop(); stopErr != nil {
		logger.Warn("scheduler stop: %v", stopErr)
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// watchConfig reschedules discovery whenever the config file changes.
func watchConfig(ctx context.Context) {
	err := configWatcher.Watch(ctx, func() {
		if err := settingsService.Reload(); err != nil {
			logger.Warn("reload settings: %v", err)
			return
		}
		settings, err := settingsService.Get()
		if err != nil {
			logger.Warn("read settings: %v", err)
			return
		}
		if err := scheduler.Reconfigure(ctx, domain.SchedulerConfigFor(*settings)); err != nil {
			logger.Warn("reschedule: %v", err)
			return
		}
		logger.Info("settings changed, discovery frequency %s", settings.Frequency)
	})
	if err != nil {
		logger.Warn("config watch stopped: %v", err)
	}
}
