package services

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/custodia-labs/architips/internal/core/domain"
	"github.com/custodia-labs/architips/internal/core/ports/driven"
	"github.com/custodia-labs/architips/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyContentURL        = "content.url"
	keyContentVersionURL = "content.version_url"
	keyContentBundled    = "content.bundled_path"
	keyContentMaxBytes   = "content.max_bytes"

	keyUpdateSource    = "update.source"
	keyUpdateInstalled = "update.installed_version"
	keyUpdateConnectMS = "update.connect_timeout_ms"
	keyUpdateReadMS    = "update.read_timeout_ms"
	keyUpdateCheckS    = "update.check_interval_s"

	keyGitHubOwner       = "github.owner"
	keyGitHubRepo        = "github.repo"
	keyGitHubPath        = "github.path"
	keyGitHubVersionPath = "github.version_path"
	keyGitHubRef         = "github.ref"
	keyGitHubToken       = "github.token"

	keySchedulerEnabled     = "scheduler.enabled"
	keySchedulerVersionMins = "scheduler.version_check_interval_m"
	keySchedulerRefreshMins = "scheduler.content_refresh_interval_m"
	keySchedulerTickSeconds = "scheduler.tick_s"
)

type settingKind int

const (
	kindString settingKind = iota
	kindInt
	kindBool
)

var settingKinds = map[string]settingKind{
	keyContentURL:           kindString,
	keyContentVersionURL:    kindString,
	keyContentBundled:       kindString,
	keyContentMaxBytes:      kindInt,
	keyUpdateSource:         kindString,
	keyUpdateInstalled:      kindString,
	keyUpdateConnectMS:      kindInt,
	keyUpdateReadMS:         kindInt,
	keyUpdateCheckS:         kindInt,
	keyGitHubOwner:          kindString,
	keyGitHubRepo:           kindString,
	keyGitHubPath:           kindString,
	keyGitHubVersionPath:    kindString,
	keyGitHubRef:            kindString,
	keyGitHubToken:          kindString,
	keySchedulerEnabled:     kindBool,
	keySchedulerVersionMins: kindInt,
	keySchedulerRefreshMins: kindInt,
	keySchedulerTickSeconds: kindInt,
}

// SettingsService maps config.toml keys onto sync settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current settings, falling back to defaults for missing keys.
func (s *SettingsService) Get() (domain.SyncSettings, error) {
	d := domain.DefaultSyncSettings()

	settings := domain.SyncSettings{
		Content: domain.ContentSettings{
			URL:         s.getString(keyContentURL, d.Content.URL),
			VersionURL:  s.getString(keyContentVersionURL, d.Content.VersionURL),
			BundledPath: s.configStore.GetString(keyContentBundled),
			MaxBytes:    int64(s.getInt(keyContentMaxBytes, int(d.Content.MaxBytes))),
		},
		Update: domain.UpdateSettings{
			Source:           domain.UpdateSource(s.getString(keyUpdateSource, d.Update.Source.String())),
			InstalledVersion: s.configStore.GetString(keyUpdateInstalled),
			ConnectTimeout:   s.getDuration(keyUpdateConnectMS, time.Millisecond, d.Update.ConnectTimeout),
			ReadTimeout:      s.getDuration(keyUpdateReadMS, time.Millisecond, d.Update.ReadTimeout),
			CheckInterval:    s.getDuration(keyUpdateCheckS, time.Second, d.Update.CheckInterval),
		},
		GitHub: domain.GitHubSettings{
			Owner:       s.getString(keyGitHubOwner, d.GitHub.Owner),
			Repo:        s.getString(keyGitHubRepo, d.GitHub.Repo),
			Path:        s.getString(keyGitHubPath, d.GitHub.Path),
			VersionPath: s.getString(keyGitHubVersionPath, d.GitHub.VersionPath),
			Ref:         s.getString(keyGitHubRef, d.GitHub.Ref),
			Token:       s.configStore.GetString(keyGitHubToken),
		},
	}

	if err := settings.Validate(); err != nil {
		return settings, err
	}
	return settings, nil
}

// Set parses value for the key's type and persists it.
func (s *SettingsService) Set(key, value string) error {
	kind, ok := settingKinds[key]
	if !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	var parsed any
	switch kind {
	case kindInt:
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("%w: %s must be a non-negative integer", domain.ErrInvalidInput, key)
		}
		parsed = n
	case kindBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be true or false", domain.ErrInvalidInput, key)
		}
		parsed = b
	default:
		parsed = value
	}

	if key == keyUpdateSource && !domain.UpdateSource(value).IsValid() {
		return fmt.Errorf("%w: update.source must be %q or %q",
			domain.ErrInvalidInput, domain.UpdateSourceHTTP, domain.UpdateSourceGitHub)
	}

	if err := s.configStore.Set(key, parsed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Keys returns all recognised setting keys, sorted.
func (s *SettingsService) Keys() []string {
	keys := make([]string, 0, len(settingKinds))
	for k := range settingKinds {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.SyncSettings {
	return domain.DefaultSyncSettings()
}

// SchedulerConfig builds the background task configuration.
// An interval of zero minutes disables that task.
func (s *SettingsService) SchedulerConfig() domain.SchedulerConfig {
	d := domain.DefaultSchedulerConfig()

	cfg := domain.SchedulerConfig{
		Enabled: s.getBool(keySchedulerEnabled, d.Enabled),
		Tick:    s.getDuration(keySchedulerTickSeconds, time.Second, d.Tick),
		Tasks:   make(map[string]domain.TaskConfig, len(d.Tasks)),
	}

	intervals := map[string]string{
		domain.TaskIDVersionCheck:   keySchedulerVersionMins,
		domain.TaskIDContentRefresh: keySchedulerRefreshMins,
	}
	for id, key := range intervals {
		interval := d.Task(id).Interval
		if _, set := s.configStore.Get(key); set {
			interval = time.Duration(s.configStore.GetInt(key)) * time.Minute
		}
		cfg.Tasks[id] = domain.TaskConfig{Enabled: interval > 0, Interval: interval}
	}
	return cfg
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getDuration(key string, unit, defaultVal time.Duration) time.Duration {
	val := s.configStore.GetInt(key)
	if val <= 0 {
		return defaultVal
	}
	return time.Duration(val) * unit
}
