package storage

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned when a named file does not exist.
var ErrNotFound = errors.New("storage: file not found")

// Storage stores named files.
type Storage interface {
	// Upload writes reader's content to name, replacing any existing file.
	Upload(ctx context.Context, name string, reader io.Reader) error

	// Delete removes name. Deleting a missing file is not an error.
	Delete(ctx context.Context, name string) error

	// Exists reports whether name is present.
	Exists(ctx context.Context, name string) (bool, error)

	// LocalPath returns the absolute filesystem path of name.
	LocalPath(name string) (string, error)
}
