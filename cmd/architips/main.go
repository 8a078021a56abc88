package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/custodia-labs/architips/internal/adapters/driven/config/file"
	contentfile "github.com/custodia-labs/architips/internal/adapters/driven/content/file"
	"github.com/custodia-labs/architips/internal/adapters/driven/remote/githubsource"
	"github.com/custodia-labs/architips/internal/adapters/driven/remote/httpsource"
	"github.com/custodia-labs/architips/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/architips/internal/adapters/driven/watch"
	"github.com/custodia-labs/architips/internal/adapters/driving/cli"
	"github.com/custodia-labs/architips/internal/core/domain"
	"github.com/custodia-labs/architips/internal/core/ports/driven"
	"github.com/custodia-labs/architips/internal/core/services"
	"github.com/custodia-labs/architips/internal/logger"
)

// Version is set via -ldflags at build time.
var Version = "dev"

// homeEnv overrides the data directory.
const homeEnv = "ARCHITIPS_HOME"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	dir, err := dataDir()
	if err != nil {
		return fmt.Errorf("resolving data directory: %w", err)
	}

	configStore, err := file.NewConfigStore(dir)
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}
	ledgerStore, err := file.NewNamedStore(dir, file.LedgerFileName)
	if err != nil {
		return fmt.Errorf("opening ledger: %w", err)
	}

	settingsService := services.NewSettingsService(configStore)
	settings, err := settingsService.Get()
	if err != nil {
		logger.Warn("invalid settings, using defaults: %v", err)
		settings = settingsService.GetDefaults()
	}

	db, err := sqlite.NewStore(filepath.Join(dir, "data"))
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	contentStore := contentfile.NewStore(dir, settings.Content.BundledPath)
	cache := services.NewContentCache(contentStore)
	ledger := services.NewLedger(ledgerStore)

	favorites := services.NewFavoritesService(db.FavoriteStore())
	catalogue := services.NewCatalogueService(cache, ledger, db.FavoriteStore())

	source, err := newRemoteSource(settings)
	if err != nil {
		return fmt.Errorf("creating remote source: %w", err)
	}
	logger.Debug("remote source: %s", source.Name())

	updater := services.NewUpdater(source, contentStore, cache, catalogue,
		settings.Update.InstalledVersion, settings.Content.MaxBytes)

	search := services.NewSearchService(catalogue)
	cache.OnInvalidate(search.ClearCache)
	favorites.OnChange(search.ClearCache)

	scheduler := services.NewScheduler(settingsService.SchedulerConfig(), db.SchedulerStore(), updater)
	watcher := watch.NewOverrideWatcher(contentStore.OverridePath(), watch.DefaultDebounce, cache.Invalidate)

	cli.SetVersion(Version)
	cli.SetServices(&cli.Services{
		Catalogue: catalogue,
		Ledger:    ledger,
		Updates:   updater,
		Search:    search,
		Favorites: favorites,
		Settings:  settingsService,
		Content:   services.NewContentService(contentStore, cache),
		Scheduler: scheduler,
		Watcher:   watcher,
	})

	return cli.Execute(ctx)
}

// dataDir returns $ARCHITIPS_HOME, or ~/.architips.
func dataDir() (string, error) {
	if dir := os.Getenv(homeEnv); dir != "" {
		return dir, nil
	}
	return file.DefaultDir()
}

func newRemoteSource(settings domain.SyncSettings) (driven.RemoteSource, error) {
	switch settings.Update.Source {
	case domain.UpdateSourceGitHub:
		return githubsource.New(githubsource.ConfigFromSettings(settings))
	default:
		return httpsource.New(httpsource.ConfigFromSettings(settings)), nil
	}
}
