package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/architips/internal/logger"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Reload content when the local file changes",
	Long: `Watches the downloaded content file and drops cached content whenever it is
written, replaced or removed by another process. Runs until interrupted.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run background updates",
	Long: `Runs the update scheduler and the content watcher until interrupted.
The scheduler checks the remote version and refreshes content at the
intervals configured under scheduler.* in config.toml.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(serveCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	if overrideWatcher == nil {
		return errors.New("watcher not configured")
	}

	ctx := commandContext(cmd)
	if err := overrideWatcher.Start(ctx); err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer overrideWatcher.Close()

	cmd.Println("Watching for content changes. Press Ctrl+C to stop.")
	<-ctx.Done()
	return nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	if scheduler == nil {
		return errors.New("scheduler not configured")
	}

	ctx := commandContext(cmd)
	if overrideWatcher != nil {
		if err := overrideWatcher.Start(ctx); err != nil {
			return fmt.Errorf("starting watcher: %w", err)
		}
		defer overrideWatcher.Close()
	}

	if err := scheduler.Start(ctx); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}
	cmd.Println("Background updates running. Press Ctrl+C to stop.")

	<-ctx.Done()
	if err := scheduler.Stop(); err != nil {
		logger.Warn("stopping scheduler: %v", err)
	}
	return nil
}
