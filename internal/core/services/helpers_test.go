package services

import (
	"context"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/architips/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/architips/internal/core/domain"
	"github.com/custodia-labs/architips/internal/core/ports/driven"
)

const fixtureContent = `[
    {"category": "Kitchen", "rules": ["Use an island for prep", "Keep the work triangle compact"]},
    {"category": "Lighting", "rules": ["Layer ambient and task light"]},
    {"category": "Stairs", "rules": ["Keep risers consistent", "Add a handrail on both sides"]},
    {"category": "Garden", "rules": []}
]`

const updatedContent = `[
    {"category": "Kitchen", "rules": ["Use an island for prep"]},
    {"category": "Bathroom", "rules": ["Ventilate to the outside"]}
]`

// fixture wires the content pipeline over in-memory stores.
type fixture struct {
	store     *memory.ContentStore
	config    *memory.ConfigStore
	favorites *memory.FavoriteStore
	cache     *ContentCache
	ledger    *Ledger
	catalogue *CatalogueService
}

func newFixture(t *testing.T, content string) *fixture {
	t.Helper()
	f := &fixture{
		store:     memory.NewContentStore([]byte(content)),
		config:    memory.NewConfigStore(),
		favorites: memory.NewFavoriteStore(),
	}
	f.cache = NewContentCache(f.store)
	f.ledger = NewLedger(f.config)
	f.catalogue = NewCatalogueService(f.cache, f.ledger, f.favorites)
	return f
}

func (f *fixture) categories(t *testing.T) []domain.Category {
	t.Helper()
	categories, err := f.catalogue.LoadCategories(context.Background())
	require.NoError(t, err)
	return categories
}

func categoryNames(categories []domain.Category) []string {
	out := make([]string, len(categories))
	for i, c := range categories {
		out[i] = c.Name
	}
	return out
}

// fakeSource implements driven.RemoteSource for testing.
type fakeSource struct {
	mu         sync.Mutex
	version    string
	versionErr error
	content    []byte
	size       int64
	openErr    error
	readErr    error
	// gate, when set, blocks the body's first read until closed.
	gate chan struct{}
	// opened is closed once OpenContent has been called.
	opened chan struct{}
}

var _ driven.RemoteSource = (*fakeSource)(nil)

func newFakeSource(content string) *fakeSource {
	return &fakeSource{
		version: "1.0",
		content: []byte(content),
		size:    int64(len(content)),
		opened:  make(chan struct{}),
	}
}

func (f *fakeSource) Name() string { return "fake" }

func (f *fakeSource) FetchVersion(ctx context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return f.version, f.versionErr
}

func (f *fakeSource) OpenContent(ctx context.Context) (io.ReadCloser, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	select {
	case <-f.opened:
	default:
		close(f.opened)
	}
	if f.openErr != nil {
		return nil, 0, f.openErr
	}
	return &fakeBody{
		ctx:  ctx,
		r:    &chunkReader{data: f.content, chunk: 7},
		gate: f.gate,
		err:  f.readErr,
	}, f.size, nil
}

type fakeBody struct {
	ctx  context.Context
	r    io.Reader
	gate chan struct{}
	err  error
}

func (b *fakeBody) Read(p []byte) (int, error) {
	if b.gate != nil {
		select {
		case <-b.gate:
		case <-b.ctx.Done():
			return 0, b.ctx.Err()
		}
	}
	if err := b.ctx.Err(); err != nil {
		return 0, err
	}
	n, err := b.r.Read(p)
	if err == io.EOF && b.err != nil {
		return n, b.err
	}
	return n, err
}

func (b *fakeBody) Close() error { return nil }

// chunkReader returns at most chunk bytes per read so progress advances in steps.
type chunkReader struct {
	data  []byte
	chunk int
}

func (c *chunkReader) Read(p []byte) (int, error) {
	if len(c.data) == 0 {
		return 0, io.EOF
	}
	n := min(len(p), c.chunk, len(c.data))
	copy(p, c.data[:n])
	c.data = c.data[n:]
	return n, nil
}

func drain(t *testing.T, events <-chan domain.UpdateEvent) []domain.UpdateEvent {
	t.Helper()
	var out []domain.UpdateEvent
	for ev := range events {
		out = append(out, ev)
	}
	return out
}

func states(events []domain.UpdateEvent) []domain.UpdateState {
	out := make([]domain.UpdateState, len(events))
	for i, ev := range events {
		out[i] = ev.State
	}
	return out
}
