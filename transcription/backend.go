package transcription

import (
	"context"

	"github.com/kbukum/memoscribe/provider"
)

// Backend loads speech models.
type Backend interface {
	provider.Provider

	// Load builds a model for modelID on device. It blocks until the model
	// is usable and is called at most once per process.
	Load(ctx context.Context, modelID, device string) (Model, error)
}

// Model transcribes audio files. Implementations must be safe for
// concurrent use.
type Model interface {
	// Run transcribes the file at audioPath. It blocks for the duration of
	// inference and should stop early when ctx is done.
	Run(ctx context.Context, audioPath string) (*Output, error)
}

// Backends is the registry the Loader resolves backends from.
type Backends = provider.Registry[Backend]

// NewBackends creates an empty backend registry.
func NewBackends() *Backends {
	return provider.NewRegistry[Backend]()
}
