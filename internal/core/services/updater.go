package services

import (
	"context"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/custodia-labs/architips/internal/core/domain"
	"github.com/custodia-labs/architips/internal/core/ports/driven"
	"github.com/custodia-labs/architips/internal/core/ports/driving"
	"github.com/custodia-labs/architips/internal/logger"
)

// Ensure Updater implements the interface.
var _ driving.UpdateService = (*Updater)(nil)

// Updater fetches remote content and commits it through the content store.
// At most one download runs at a time.
type Updater struct {
	source    driven.RemoteSource
	store     driven.ContentStore
	cache     *ContentCache
	catalogue driving.CatalogueService

	installedVersion string
	maxBytes         int64

	downloading atomic.Bool
}

// NewUpdater creates an updater. maxBytes caps a downloaded blob.
func NewUpdater(
	source driven.RemoteSource,
	store driven.ContentStore,
	cache *ContentCache,
	catalogue driving.CatalogueService,
	installedVersion string,
	maxBytes int64,
) *Updater {
	return &Updater{
		source:           source,
		store:            store,
		cache:            cache,
		catalogue:        catalogue,
		installedVersion: installedVersion,
		maxBytes:         maxBytes,
	}
}

// CheckVersion compares the trimmed remote version with the installed one.
func (u *Updater) CheckVersion(ctx context.Context) driving.UpdateTask {
	ctx, cancel := context.WithCancel(ctx)
	task := newUpdateTask(cancel)

	go func() {
		task.emit(domain.UpdateEvent{State: domain.UpdateChecking})
		task.finish(u.checkVersion(ctx))
	}()
	return task
}

func (u *Updater) checkVersion(ctx context.Context) domain.UpdateEvent {
	latest, err := u.source.FetchVersion(ctx)
	if err != nil {
		logger.Warn("update: version check via %s failed: %v", u.source.Name(), err)
		return errorEvent(err)
	}
	if latest == "" {
		return errorEvent(fmt.Errorf("%w: empty version response", domain.ErrParse))
	}
	if latest == u.installedVersion {
		logger.Debug("update: %s is current", latest)
		return domain.UpdateEvent{State: domain.UpdateUpToDate}
	}
	logger.Info("update: %s available (installed %q)", latest, u.installedVersion)
	return domain.UpdateEvent{State: domain.UpdateAvailable, LatestVersion: latest}
}

// DownloadContent fetches the remote blob, validates it and replaces the
// cached content. The previous content survives any failure.
func (u *Updater) DownloadContent(ctx context.Context) (driving.UpdateTask, error) {
	if !u.downloading.CompareAndSwap(false, true) {
		return nil, domain.ErrUpdateInProgress
	}

	ctx, cancel := context.WithCancel(ctx)
	task := newUpdateTask(cancel)

	go func() {
		task.emit(domain.UpdateEvent{State: domain.UpdateChecking})
		result := u.download(ctx, task)
		// Cleared before the terminal event so a waiter can start the next download.
		u.downloading.Store(false)
		task.finish(result)
	}()
	return task, nil
}

// Downloading reports whether a download is running.
func (u *Updater) Downloading() bool {
	return u.downloading.Load()
}

func (u *Updater) download(ctx context.Context, task *updateTask) domain.UpdateEvent {
	logger.Section("Content Download")

	data, err := u.fetch(ctx, task)
	if err != nil {
		logger.Warn("update: download via %s failed: %v", u.source.Name(), err)
		return errorEvent(err)
	}

	raw, err := domain.ParseContent(data)
	if err != nil {
		logger.Warn("update: rejecting downloaded content: %v", err)
		return errorEvent(err)
	}
	if len(raw) == 0 {
		return errorEvent(fmt.Errorf("%w: content has no categories", domain.ErrParse))
	}

	if err := ctx.Err(); err != nil {
		return errorEvent(err)
	}

	if err := u.store.Write(ctx, data); err != nil {
		logger.Error("update: committing content: %v", err)
		return errorEvent(fmt.Errorf("%w: %w", domain.ErrStorage, err))
	}

	u.cache.Invalidate()

	// The content is committed; recompute even if the caller has gone away.
	categories, err := u.catalogue.LoadCategories(context.WithoutCancel(ctx))
	if err != nil {
		logger.Warn("update: reloading categories: %v", err)
	}

	logger.Info("update: content updated, %d categories", len(categories))
	return domain.UpdateEvent{State: domain.UpdateContentUpdated, Categories: len(categories)}
}

func (u *Updater) fetch(ctx context.Context, task *updateTask) ([]byte, error) {
	body, size, err := u.source.OpenContent(ctx)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	if u.maxBytes > 0 && size > u.maxBytes {
		return nil, fmt.Errorf("%w: %d bytes exceeds %d", domain.ErrContentTooLarge, size, u.maxBytes)
	}

	var r io.Reader = body
	if u.maxBytes > 0 {
		r = io.LimitReader(body, u.maxBytes+1)
	}
	r = &progressReader{r: r, total: size, report: task.progress}

	if size > 0 {
		task.progress(0)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: reading content: %w", domain.ErrTransport, err)
	}

	if u.maxBytes > 0 && int64(len(data)) > u.maxBytes {
		return nil, fmt.Errorf("%w: more than %d bytes", domain.ErrContentTooLarge, u.maxBytes)
	}
	if size > 0 && int64(len(data)) < size {
		return nil, fmt.Errorf("%w: received %d of %d bytes", domain.ErrTransport, len(data), size)
	}
	return data, nil
}

// progressReader reports floor(read*100/total) after every read.
type progressReader struct {
	r      io.Reader
	total  int64
	read   int64
	report func(int)
}

func (p *progressReader) Read(buf []byte) (int, error) {
	n, err := p.r.Read(buf)
	if n > 0 {
		p.read += int64(n)
		if percent, ok := domain.ProgressPercent(p.read, p.total); ok {
			p.report(percent)
		}
	}
	return n, err
}
