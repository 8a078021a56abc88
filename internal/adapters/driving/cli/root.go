// Package cli implements the architips command line.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/architips/internal/core/ports/driving"
	"github.com/custodia-labs/architips/internal/logger"
)

// version is set by SetVersion from build flags.
var version = "dev"

// Watcher invalidates cached content when the override changes on disk.
type Watcher interface {
	Start(ctx context.Context) error
	Close() error
}

// Services holds everything the commands drive.
type Services struct {
	Catalogue driving.CatalogueService
	Ledger    driving.LedgerService
	Updates   driving.UpdateService
	Search    driving.SearchService
	Favorites driving.FavoritesService
	Settings  driving.SettingsService
	Content   driving.ContentService
	Scheduler driving.Scheduler
	Watcher   Watcher
}

var (
	catalogueService driving.CatalogueService
	ledgerService    driving.LedgerService
	updateService    driving.UpdateService
	searchService    driving.SearchService
	favoritesService driving.FavoritesService
	settingsService  driving.SettingsService
	contentService   driving.ContentService
	scheduler        driving.Scheduler
	overrideWatcher  Watcher
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "architips",
	Short: "Browse and sync architecture tips",
	Long: `architips keeps a local copy of the ArchiTips content, lets you browse and
search its categories and rules, and tracks which categories are unlocked.

Content is fetched from a remote source with 'architips update' and cached
on disk. Until then, the bundled content is used.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// SetServices installs the services the commands use.
func SetServices(s *Services) {
	catalogueService = s.Catalogue
	ledgerService = s.Ledger
	updateService = s.Updates
	searchService = s.Search
	favoritesService = s.Favorites
	settingsService = s.Settings
	contentService = s.Content
	scheduler = s.Scheduler
	overrideWatcher = s.Watcher
}

// SetVersion sets the version reported by 'architips version'.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// commandContext returns the command's context, or Background outside Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
