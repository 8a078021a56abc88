package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/architips/internal/core/domain"
	"github.com/custodia-labs/architips/internal/core/ports/driving"
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Check for and download remote content",
}

var updateCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Compare the remote version with the installed one",
	Args:  cobra.NoArgs,
	RunE:  runUpdateCheck,
}

var updateDownloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Download the latest content",
	Long: `Downloads the remote content and replaces the cached copy once it has been
validated. On failure the previous content stays in place.`,
	Args: cobra.NoArgs,
	RunE: runUpdateDownload,
}

// isTerminal reports whether progress can be redrawn in place.
var isTerminal = func(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func init() {
	updateCmd.AddCommand(updateCheckCmd)
	updateCmd.AddCommand(updateDownloadCmd)
	rootCmd.AddCommand(updateCmd)
}

func runUpdateCheck(cmd *cobra.Command, _ []string) error {
	if updateService == nil {
		return errors.New("update service not configured")
	}
	task := updateService.CheckVersion(commandContext(cmd))
	return followUpdate(cmd, task)
}

func runUpdateDownload(cmd *cobra.Command, _ []string) error {
	if updateService == nil {
		return errors.New("update service not configured")
	}
	task, err := updateService.DownloadContent(commandContext(cmd))
	if err != nil {
		return fmt.Errorf("download failed: %w", err)
	}
	return followUpdate(cmd, task)
}

// followUpdate prints task events until the terminal one.
// Progress is redrawn in place on a terminal and omitted otherwise.
func followUpdate(cmd *cobra.Command, task driving.UpdateTask) error {
	out := cmd.OutOrStdout()
	tty := isTerminal(out)
	ctx := commandContext(cmd)

	inProgress := false
	for {
		select {
		case <-ctx.Done():
			task.Cancel()
			<-task.Done()
			return ctx.Err()

		case ev, ok := <-task.Events():
			if !ok {
				return updateResult(task.Result())
			}
			if ev.State == domain.UpdateDownloadingContent {
				if tty {
					fmt.Fprintf(out, "\r%s", ev.Message())
					inProgress = true
				}
				continue
			}
			if inProgress {
				fmt.Fprintln(out)
				inProgress = false
			}
			if ev.State == domain.UpdateError {
				continue
			}
			fmt.Fprintln(out, ev.Message())
		}
	}
}

func updateResult(ev domain.UpdateEvent) error {
	if ev.State != domain.UpdateError {
		return nil
	}
	if ev.Err != nil {
		return fmt.Errorf("update failed: %w", ev.Err)
	}
	return fmt.Errorf("update failed: %s", ev.Reason)
}
