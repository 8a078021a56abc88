package services

import (
	"context"
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/custodia-labs/architips/internal/core/domain"
	"github.com/custodia-labs/architips/internal/core/ports/driven"
	"github.com/custodia-labs/architips/internal/logger"
)

// ContentCache holds at most one parsed snapshot of the content store.
// Concurrent first reads share a single load. A load that started before an
// Invalidate never publishes its result.
type ContentCache struct {
	store driven.ContentStore
	group singleflight.Group

	mu         sync.Mutex
	snapshot   *domain.Snapshot
	generation uint64
	listeners  []func()
}

// NewContentCache creates an empty cache over the store.
func NewContentCache(store driven.ContentStore) *ContentCache {
	return &ContentCache{store: store}
}

// Get returns the cached snapshot, loading it from the store if needed.
// Read and parse failures yield an empty snapshot that is not retained,
// so the next call tries again.
func (c *ContentCache) Get(ctx context.Context) *domain.Snapshot {
	c.mu.Lock()
	if c.snapshot != nil {
		snap := c.snapshot
		c.mu.Unlock()
		return snap
	}
	gen := c.generation
	c.mu.Unlock()

	// The load is shared, so it must not die with whichever caller started it.
	loadCtx := context.WithoutCancel(ctx)
	v, _, _ := c.group.Do(strconv.FormatUint(gen, 10), func() (any, error) {
		return c.load(loadCtx, gen), nil
	})
	return v.(*domain.Snapshot)
}

// Invalidate drops the cached snapshot and notifies listeners.
func (c *ContentCache) Invalidate() {
	c.mu.Lock()
	c.generation++
	c.snapshot = nil
	listeners := make([]func(), len(c.listeners))
	copy(listeners, c.listeners)
	c.mu.Unlock()

	logger.Debug("content cache invalidated")
	for _, fn := range listeners {
		fn()
	}
}

// OnInvalidate registers fn to run after every invalidation.
func (c *ContentCache) OnInvalidate(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// Loaded reports whether a snapshot is currently held.
func (c *ContentCache) Loaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot != nil
}

func (c *ContentCache) load(ctx context.Context, gen uint64) *domain.Snapshot {
	data, err := c.store.Read(ctx)
	if err != nil {
		logger.Warn("reading content: %v", err)
		return domain.EmptySnapshot()
	}

	raw, err := domain.ParseContent(data)
	if err != nil {
		logger.Warn("parsing content: %v", err)
		return domain.EmptySnapshot()
	}

	snap := domain.NewSnapshot(raw)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation == gen {
		c.snapshot = snap
		logger.Debug("content cache loaded %d categories", snap.Len())
	} else {
		logger.Debug("discarding content loaded before invalidation")
	}
	return snap
}
