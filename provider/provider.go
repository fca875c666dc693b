package provider

import (
	"context"
	"errors"
)

// ErrNotRegistered is returned by Registry.Create for unknown names.
var ErrNotRegistered = errors.New("provider not registered")

// Provider is implemented by every backend.
type Provider interface {
	// Name returns the registration name.
	Name() string
	// IsAvailable reports whether the backend can serve requests right now.
	IsAvailable(ctx context.Context) bool
}

// Factory builds a provider from free-form options.
type Factory[T Provider] func(opts map[string]any) (T, error)
