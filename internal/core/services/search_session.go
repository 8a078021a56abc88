package services

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/architips/internal/core/domain"
	"github.com/custodia-labs/architips/internal/core/ports/driving"
)

// DefaultSearchDebounce is the pause after the last keystroke before a query runs.
const DefaultSearchDebounce = 300 * time.Millisecond

// SearchResult is one published search outcome.
type SearchResult struct {
	Generation uint64
	Query      string
	Categories []domain.Category
	Banner     string
	Err        error
}

// SearchSession runs interactive searches. Each Submit supersedes the
// previous query: its timer is stopped, its in-flight search is cancelled and
// its results are never published.
type SearchSession struct {
	search   driving.SearchService
	debounce time.Duration
	publish  func(SearchResult)

	mu         sync.Mutex
	base       context.Context
	generation uint64
	timer      *time.Timer
	cancel     context.CancelFunc
	closed     bool
}

// NewSearchSession creates a session. publish is called with the session
// lock held and must not call back into the session.
func NewSearchSession(
	ctx context.Context,
	search driving.SearchService,
	debounce time.Duration,
	publish func(SearchResult),
) *SearchSession {
	return &SearchSession{
		search:   search,
		debounce: debounce,
		publish:  publish,
		base:     ctx,
	}
}

// Submit schedules query and returns its generation.
// An empty query publishes an empty result immediately.
func (s *SearchSession) Submit(query string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return s.generation
	}

	s.generation++
	gen := s.generation
	s.stopLocked()

	if query == "" {
		s.publish(SearchResult{Generation: gen, Query: query, Categories: []domain.Category{}})
		return gen
	}

	s.timer = time.AfterFunc(s.debounce, func() { s.run(gen, query) })
	return gen
}

// Generation returns the newest submitted generation.
func (s *SearchSession) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// Close stops pending and in-flight searches. Nothing is published afterwards.
func (s *SearchSession) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.generation++
	s.stopLocked()
}

func (s *SearchSession) stopLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *SearchSession) run(gen uint64, query string) {
	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(s.base)
	s.cancel = cancel
	s.mu.Unlock()

	categories, err := s.search.Search(ctx, query)

	s.mu.Lock()
	defer s.mu.Unlock()
	cancel()
	if gen != s.generation {
		return
	}
	s.cancel = nil

	result := SearchResult{Generation: gen, Query: query, Err: err}
	if err == nil {
		result.Categories = categories
		result.Banner = domain.SearchBanner(query, categories)
	}
	s.publish(result)
}
