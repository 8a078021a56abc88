package domain

import "fmt"

// UpdateState is a state of the remote updater.
type UpdateState string

// Updater states.
const (
	UpdateIdle               UpdateState = "idle"
	UpdateChecking           UpdateState = "checking"
	UpdateUpToDate           UpdateState = "up_to_date"
	UpdateAvailable          UpdateState = "update_available"
	UpdateDownloadingContent UpdateState = "downloading_content"
	UpdateContentUpdated     UpdateState = "content_updated"
	UpdateError              UpdateState = "error"
)

// IsTerminal returns true if no further events follow this state.
func (s UpdateState) IsTerminal() bool {
	switch s {
	case UpdateUpToDate, UpdateAvailable, UpdateContentUpdated, UpdateError:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (s UpdateState) String() string {
	return string(s)
}

// UpdateEvent is a single transition emitted by an update task.
type UpdateEvent struct {
	// State is the state entered.
	State UpdateState `json:"state"`

	// Progress is the download percentage (0-100) for UpdateDownloadingContent.
	Progress int `json:"progress,omitempty"`

	// LatestVersion is set for UpdateAvailable.
	LatestVersion string `json:"latest_version,omitempty"`

	// Categories is the number of categories after UpdateContentUpdated.
	Categories int `json:"categories,omitempty"`

	// Reason describes the failure for UpdateError.
	Reason string `json:"reason,omitempty"`

	// Err is the underlying error for UpdateError. Not serialised.
	Err error `json:"-"`
}

// Message renders the event for display.
func (e UpdateEvent) Message() string {
	switch e.State {
	case UpdateChecking:
		return "Checking for updates..."
	case UpdateUpToDate:
		return "App is up to date"
	case UpdateAvailable:
		return fmt.Sprintf("A new version %s is available", e.LatestVersion)
	case UpdateDownloadingContent:
		return fmt.Sprintf("Downloading content... %d%%", e.Progress)
	case UpdateContentUpdated:
		return "Content updated!"
	case UpdateError:
		return "Update check failed: " + e.Reason
	default:
		return string(e.State)
	}
}

// ProgressPercent computes floor(done*100/total).
// It returns false when the total size is unknown.
func ProgressPercent(done, total int64) (int, bool) {
	if total <= 0 {
		return 0, false
	}
	if done >= total {
		return 100, true
	}
	return int(done * 100 / total), true
}
