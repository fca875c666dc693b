package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/kbukum/memoscribe/storage"
)

// Storage implements storage.Storage on a single directory.
type Storage struct {
	basePath string
}

// NewStorage creates the base directory if needed and returns a store
// rooted at its absolute path.
func NewStorage(basePath string) (*Storage, error) {
	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve base path: %w", err)
	}
	if err := os.MkdirAll(abs, 0o750); err != nil {
		return nil, fmt.Errorf("storage: create base directory: %w", err)
	}
	return &Storage{basePath: abs}, nil
}

// BasePath returns the absolute root directory.
func (s *Storage) BasePath() string {
	return s.basePath
}

// resolve maps name to a path inside the base directory.
func (s *Storage) resolve(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("storage: empty file name")
	}
	full := filepath.Join(s.basePath, filepath.Clean("/"+name))
	if full != s.basePath && !strings.HasPrefix(full, s.basePath+string(filepath.Separator)) {
		return "", fmt.Errorf("storage: %q escapes the base directory", name)
	}
	return full, nil
}

// Upload writes reader to name with owner-only permissions.
func (s *Storage) Upload(ctx context.Context, name string, reader io.Reader) error {
	full, err := s.resolve(name)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o750); err != nil {
		return fmt.Errorf("storage: create directory: %w", err)
	}

	f, err := os.OpenFile(full, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("storage: create file: %w", err)
	}
	if _, err := io.Copy(f, reader); err != nil {
		f.Close() //nolint:errcheck // the copy error is the one worth reporting
		return fmt.Errorf("storage: write file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("storage: close file: %w", err)
	}
	return nil
}

// Delete removes name. A missing file is not an error.
func (s *Storage) Delete(_ context.Context, name string) error {
	full, err := s.resolve(name)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("storage: delete file: %w", err)
	}
	return nil
}

// Exists reports whether name is present.
func (s *Storage) Exists(_ context.Context, name string) (bool, error) {
	full, err := s.resolve(name)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(full); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("storage: stat file: %w", err)
	}
	return true, nil
}

// LocalPath returns the absolute path of name.
func (s *Storage) LocalPath(name string) (string, error) {
	return s.resolve(name)
}

var _ storage.Storage = (*Storage)(nil)
