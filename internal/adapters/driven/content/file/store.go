package file

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/custodia-labs/architips/internal/assets"
	"github.com/custodia-labs/architips/internal/core/ports/driven"
	"github.com/custodia-labs/architips/internal/logger"
)

// OverrideFileName is the downloaded content file inside the data directory.
const OverrideFileName = "ArchiTips_v1.json"

// Ensure Store implements the interface.
var _ driven.ContentStore = (*Store)(nil)

// Store reads and writes the content override on disk.
type Store struct {
	dir         string
	bundledPath string
}

// NewStore creates a store keeping its override in dir. An empty bundledPath
// uses the embedded default content.
func NewStore(dir, bundledPath string) *Store {
	return &Store{dir: dir, bundledPath: bundledPath}
}

// OverridePath returns the override file location.
func (s *Store) OverridePath() string {
	return filepath.Join(s.dir, OverrideFileName)
}

// Read returns the override if it exists, else the bundled default.
func (s *Store) Read(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.OverridePath())
	if err == nil {
		return data, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("reading content override: %w", err)
	}
	return s.readBundled()
}

func (s *Store) readBundled() ([]byte, error) {
	if s.bundledPath == "" {
		return bytes.Clone(assets.Content), nil
	}
	data, err := os.ReadFile(s.bundledPath)
	if err != nil {
		return nil, fmt.Errorf("reading bundled content: %w", err)
	}
	return data, nil
}

// Write replaces the override atomically.
func (s *Store) Write(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return fmt.Errorf("creating content directory: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, "."+OverrideFileName+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0600); err != nil {
		return fmt.Errorf("setting content permissions: %w", err)
	}
	if err := os.Rename(tmpPath, s.OverridePath()); err != nil {
		return fmt.Errorf("replacing content override: %w", err)
	}
	committed = true

	logger.Debug("content: wrote %d bytes to %s", len(data), s.OverridePath())
	return nil
}

// HasOverride reports whether a downloaded override exists.
func (s *Store) HasOverride() bool {
	_, err := os.Stat(s.OverridePath())
	return err == nil
}

// ClearOverride removes the override. A missing override is not an error.
func (s *Store) ClearOverride(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.Remove(s.OverridePath()); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing content override: %w", err)
	}
	return nil
}
