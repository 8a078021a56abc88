package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/architips/internal/core/domain"
)

var scheduleHistoryLimit int

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Inspect background update tasks",
	RunE:  runScheduleStatus,
}

var scheduleStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show scheduled tasks and recent runs",
	Args:  cobra.NoArgs,
	RunE:  runScheduleStatus,
}

var scheduleRunCmd = &cobra.Command{
	Use:   "run [task-id]",
	Short: "Run a task immediately",
	Long: `Runs a background task now and records the run.

Tasks:
  version-check    compare the remote version with the installed one
  content-refresh  download and install the latest content`,
	Args: cobra.ExactArgs(1),
	RunE: runScheduleRun,
}

func init() {
	scheduleStatusCmd.Flags().IntVarP(&scheduleHistoryLimit, "limit", "n", 3, "runs to show per task")
	scheduleCmd.AddCommand(scheduleStatusCmd)
	scheduleCmd.AddCommand(scheduleRunCmd)
	rootCmd.AddCommand(scheduleCmd)
}

func runScheduleStatus(cmd *cobra.Command, _ []string) error {
	if scheduler == nil {
		return errors.New("scheduler not configured")
	}

	ctx := commandContext(cmd)
	tasks, err := scheduler.Tasks(ctx)
	if err != nil {
		return fmt.Errorf("listing tasks: %w", err)
	}
	if len(tasks) == 0 {
		cmd.Println("No scheduled tasks. Run 'architips serve' to start the scheduler.")
		return nil
	}

	for i := range tasks {
		t := &tasks[i]
		state := "enabled"
		if !t.Enabled {
			state = "disabled"
		}
		cmd.Printf("%s (%s, every %s, %s)\n", t.Name, t.ID, t.Interval, state)
		cmd.Printf("  Last run: %s\n", formatTime(t.LastRun))
		cmd.Printf("  Next run: %s\n", formatTime(t.NextRun))
		if t.LastError != "" {
			cmd.Printf("  Last error: %s\n", t.LastError)
		}

		runs, err := scheduler.History(ctx, t.ID, scheduleHistoryLimit)
		if err != nil {
			return fmt.Errorf("loading history for %s: %w", t.ID, err)
		}
		for _, r := range runs {
			cmd.Printf("    %s  %-20s %s\n", r.StartedAt.Local().Format(time.DateTime), r.Outcome, r.Detail)
		}
	}
	return nil
}

func runScheduleRun(cmd *cobra.Command, args []string) error {
	if scheduler == nil {
		return errors.New("scheduler not configured")
	}

	run, err := scheduler.RunNow(commandContext(cmd), args[0])
	if err != nil {
		return fmt.Errorf("running %s: %w", args[0], err)
	}
	cmd.Printf("%s: %s", run.TaskID, run.Outcome)
	if run.Detail != "" {
		cmd.Printf(" (%s)", run.Detail)
	}
	cmd.Println()

	if run.Outcome == domain.UpdateError {
		return fmt.Errorf("task %s failed", run.TaskID)
	}
	return nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return t.Local().Format(time.DateTime)
}
