package domain

import (
	"fmt"
	"time"
)

const unknownDescription = "Unknown"

// Default remote locations for the content blob.
const (
	DefaultContentURL = "https://raw.githubusercontent.com/Gitmichkighe/ArchiTips/main/ArchiTips_v1.json"
	DefaultVersionURL = "https://raw.githubusercontent.com/Gitmichkighe/ArchiTips/main/version.txt"
)

// UpdateSource identifies where remote content is fetched from.
type UpdateSource string

// Available update sources.
const (
	// UpdateSourceHTTP fetches plain URLs.
	UpdateSourceHTTP UpdateSource = "http"

	// UpdateSourceGitHub fetches files from a GitHub repository through the API.
	UpdateSourceGitHub UpdateSource = "github"
)

// IsValid returns true if the update source is recognised.
func (s UpdateSource) IsValid() bool {
	switch s {
	case UpdateSourceHTTP, UpdateSourceGitHub:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (s UpdateSource) String() string {
	return string(s)
}

// Description returns a human-readable description of the source.
func (s UpdateSource) Description() string {
	switch s {
	case UpdateSourceHTTP:
		return "HTTP (plain URLs)"
	case UpdateSourceGitHub:
		return "GitHub repository"
	default:
		return unknownDescription
	}
}

// ContentSettings configures where content comes from.
type ContentSettings struct {
	// URL is the remote content endpoint.
	URL string

	// VersionURL is the remote plain-text version endpoint.
	VersionURL string

	// BundledPath overrides the embedded default content. Empty uses the embedded copy.
	BundledPath string

	// MaxBytes caps a downloaded content blob.
	MaxBytes int64
}

// UpdateSettings configures the remote updater.
type UpdateSettings struct {
	Source           UpdateSource
	InstalledVersion string
	ConnectTimeout   time.Duration
	ReadTimeout      time.Duration
	CheckInterval    time.Duration
}

// GitHubSettings locates content inside a GitHub repository.
type GitHubSettings struct {
	Owner       string
	Repo        string
	Path        string
	VersionPath string
	Ref         string
	Token       string
}

// SyncSettings holds all content synchronisation settings.
type SyncSettings struct {
	Content ContentSettings
	Update  UpdateSettings
	GitHub  GitHubSettings
}

// DefaultSyncSettings returns settings matching the published content location.
func DefaultSyncSettings() SyncSettings {
	return SyncSettings{
		Content: ContentSettings{
			URL:        DefaultContentURL,
			VersionURL: DefaultVersionURL,
			MaxBytes:   16 << 20,
		},
		Update: UpdateSettings{
			Source:         UpdateSourceHTTP,
			ConnectTimeout: 5 * time.Second,
			ReadTimeout:    5 * time.Second,
			CheckInterval:  2 * time.Second,
		},
		GitHub: GitHubSettings{
			Owner:       "Gitmichkighe",
			Repo:        "ArchiTips",
			Path:        "ArchiTips_v1.json",
			VersionPath: "version.txt",
			Ref:         "main",
		},
	}
}

// Validate checks the settings are usable.
func (s SyncSettings) Validate() error {
	if !s.Update.Source.IsValid() {
		return fmt.Errorf("%w: unknown update source %q", ErrInvalidInput, s.Update.Source)
	}
	if s.Update.ConnectTimeout <= 0 || s.Update.ReadTimeout <= 0 {
		return fmt.Errorf("%w: timeouts must be positive", ErrInvalidInput)
	}
	if s.Content.MaxBytes <= 0 {
		return fmt.Errorf("%w: content.max_bytes must be positive", ErrInvalidInput)
	}
	switch s.Update.Source {
	case UpdateSourceHTTP:
		if s.Content.URL == "" {
			return fmt.Errorf("%w: content.url is required", ErrInvalidInput)
		}
	case UpdateSourceGitHub:
		if s.GitHub.Owner == "" || s.GitHub.Repo == "" || s.GitHub.Path == "" {
			return fmt.Errorf("%w: github.owner, github.repo and github.path are required", ErrInvalidInput)
		}
	}
	return nil
}
