package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/architips/internal/core/ports/driven"
)

// Ensure ContentStore implements the interface.
var _ driven.ContentStore = (*ContentStore)(nil)

// ContentStore keeps the bundled default and the override in memory.
type ContentStore struct {
	mu       sync.RWMutex
	bundled  []byte
	override []byte
	reads    int
	readErr  error
	writeErr error
	onRead   func()
}

// NewContentStore creates a store whose bundled default is the given bytes.
func NewContentStore(bundled []byte) *ContentStore {
	return &ContentStore{bundled: clone(bundled)}
}

// Read returns the override if set, else the bundled default.
func (s *ContentStore) Read(ctx context.Context) ([]byte, error) {
	s.mu.Lock()
	s.reads++
	hook := s.onRead
	s.mu.Unlock()

	if hook != nil {
		hook()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.readErr != nil {
		return nil, s.readErr
	}
	if s.override != nil {
		return clone(s.override), nil
	}
	return clone(s.bundled), nil
}

// Write replaces the override.
func (s *ContentStore) Write(_ context.Context, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return s.writeErr
	}
	s.override = clone(data)
	if s.override == nil {
		s.override = []byte{}
	}
	return nil
}

// HasOverride reports whether an override has been written.
func (s *ContentStore) HasOverride() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.override != nil
}

// ClearOverride drops the override.
func (s *ContentStore) ClearOverride(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return s.writeErr
	}
	s.override = nil
	return nil
}

// OverridePath is empty; there is nothing on disk to watch.
func (s *ContentStore) OverridePath() string {
	return ""
}

// ReadCount returns how many times Read was called.
func (s *ContentStore) ReadCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reads
}

// FailReads makes Read return err. Pass nil to recover.
func (s *ContentStore) FailReads(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.readErr = err
}

// FailWrites makes Write and ClearOverride return err. Pass nil to recover.
func (s *ContentStore) FailWrites(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writeErr = err
}

// OnRead installs a hook run at the start of every Read, before the bytes
// are taken. Tests use it to hold a load open.
func (s *ContentStore) OnRead(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onRead = fn
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
