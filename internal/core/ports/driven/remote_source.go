package driven

import (
	"context"
	"io"
)

// RemoteSource fetches the published version string and content blob.
type RemoteSource interface {
	// Name identifies the source in logs.
	Name() string

	// FetchVersion returns the trimmed remote version string.
	FetchVersion(ctx context.Context) (string, error)

	// OpenContent starts a content download. The returned size is the
	// declared length in bytes, or -1 when unknown. Callers must close the body.
	OpenContent(ctx context.Context) (io.ReadCloser, int64, error)
}
