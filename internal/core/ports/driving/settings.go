package driving

import "github.com/custodia-labs/architips/internal/core/domain"

// SettingsService manages synchronisation settings.
type SettingsService interface {
	// Get returns the current settings with defaults applied.
	Get() (domain.SyncSettings, error)

	// Set updates one setting by key and persists it.
	Set(key, value string) error

	// Keys returns the recognised setting keys.
	Keys() []string

	// GetDefaults returns default settings.
	GetDefaults() domain.SyncSettings

	// SchedulerConfig returns the background task configuration.
	SchedulerConfig() domain.SchedulerConfig
}
