package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/ekoelbar/barclient/internal/storage"
)

// Store writes one file per key under dir. Writes go to a temp file first
// and are renamed into place so a crash never leaves a half-written value.
type Store struct {
	fs     afero.Fs
	dir    string
	logger *zap.Logger
}

var _ storage.Storage = (*Store)(nil)

// New creates the directory if needed. Pass afero.NewOsFs() for real disks
// and afero.NewMemMapFs() in tests.
func New(fs afero.Fs, dir string, logger *zap.Logger) (*Store, error) {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage dir: %w", err)
	}
	return &Store{fs: fs, dir: dir, logger: logger}, nil
}

func (s *Store) path(key string) string {
	// keys are fixed identifiers, but keep them from escaping dir
	safe := strings.NewReplacer("/", "_", "\\", "_", "..", "_").Replace(key)
	return filepath.Join(s.dir, safe+".json")
}

func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	data, err := afero.ReadFile(s.fs, s.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return data, nil
}

func (s *Store) Set(_ context.Context, key string, value []byte) error {
	target := s.path(key)
	tmp := target + ".tmp"

	if err := afero.WriteFile(s.fs, tmp, value, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	if err := s.fs.Rename(tmp, target); err != nil {
		if rmErr := s.fs.Remove(tmp); rmErr != nil {
			s.logger.Warn("Failed to remove temp file", zap.String("path", tmp), zap.Error(rmErr))
		}
		return fmt.Errorf("failed to replace %s: %w", key, err)
	}
	return nil
}
