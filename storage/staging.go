package storage

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/google/uuid"
	"lukechampine.com/blake3"

	"github.com/kbukum/memoscribe/logger"
)

// ErrEmptyContent is returned when staging zero bytes.
var ErrEmptyContent = errors.New("storage: refusing to stage empty content")

// StagedFile is a temporary file holding one upload. It is released at most
// once; later Release calls do nothing.
type StagedFile struct {
	store  Storage
	name   string
	path   string
	size   int64
	digest string

	once sync.Once
}

// Name returns the file name inside the store.
func (f *StagedFile) Name() string { return f.name }

// Path returns the absolute filesystem path.
func (f *StagedFile) Path() string { return f.path }

// Size returns the content length in bytes.
func (f *StagedFile) Size() int64 { return f.size }

// Digest returns the hex BLAKE3-256 digest of the content.
func (f *StagedFile) Digest() string { return f.digest }

// Release deletes the file. Failures are logged at debug level and
// otherwise ignored.
func (f *StagedFile) Release(ctx context.Context) {
	f.once.Do(func() {
		if err := f.store.Delete(ctx, f.name); err != nil {
			logger.WithComponent("storage").Debug("Staged file cleanup failed",
				logger.Fields("path", f.path, logger.FieldError, err.Error()))
		}
	})
}

// Stage writes data to a new file named <uuid><suffix>. The suffix should
// include its leading dot. Empty data is rejected before anything is written.
func Stage(ctx context.Context, store Storage, suffix string, data []byte) (*StagedFile, error) {
	if len(data) == 0 {
		return nil, ErrEmptyContent
	}
	if strings.ContainsAny(suffix, `/\`) {
		return nil, fmt.Errorf("storage: invalid suffix %q", suffix)
	}

	name := uuid.NewString() + suffix
	h := blake3.New(32, nil)
	if err := store.Upload(ctx, name, io.TeeReader(bytes.NewReader(data), h)); err != nil {
		// A partial write may have left a file behind.
		_ = store.Delete(context.WithoutCancel(ctx), name)
		return nil, fmt.Errorf("storage: stage upload: %w", err)
	}

	path, err := store.LocalPath(name)
	if err != nil {
		_ = store.Delete(context.WithoutCancel(ctx), name)
		return nil, fmt.Errorf("storage: resolve staged path: %w", err)
	}

	return &StagedFile{
		store:  store,
		name:   name,
		path:   path,
		size:   int64(len(data)),
		digest: hex.EncodeToString(h.Sum(nil)),
	}, nil
}

// WithStaged stages data, calls fn with the staged file and releases the
// file when fn returns or panics. Release runs on a context that is not
// canceled with ctx so cleanup happens even for abandoned requests.
func WithStaged(ctx context.Context, store Storage, suffix string, data []byte, fn func(*StagedFile) error) error {
	f, err := Stage(ctx, store, suffix, data)
	if err != nil {
		return err
	}
	defer f.Release(context.WithoutCancel(ctx))
	return fn(f)
}
