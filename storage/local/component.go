package local

import (
	"context"
	"fmt"
	"os"

	"github.com/kbukum/memoscribe/component"
)

// Component reports the staging directory through the component registry.
type Component struct {
	store *Storage
}

// NewComponent wraps store for lifecycle management.
func NewComponent(store *Storage) *Component {
	return &Component{store: store}
}

var _ component.Component = (*Component)(nil)

// Name returns the component name.
func (c *Component) Name() string { return "storage" }

// Start recreates the base directory in case it was removed after
// construction.
func (c *Component) Start(_ context.Context) error {
	if err := os.MkdirAll(c.store.basePath, 0o750); err != nil {
		return fmt.Errorf("storage start: %w", err)
	}
	return nil
}

// Stop does nothing; staged files are released by their owners.
func (c *Component) Stop(_ context.Context) error { return nil }

// Health checks that the base directory exists.
func (c *Component) Health(_ context.Context) component.Health {
	info, err := os.Stat(c.store.basePath)
	switch {
	case err != nil:
		return component.Health{Name: c.Name(), Status: component.StatusUnhealthy, Message: err.Error()}
	case !info.IsDir():
		return component.Health{Name: c.Name(), Status: component.StatusUnhealthy, Message: "base path is not a directory"}
	}
	return component.Health{Name: c.Name(), Status: component.StatusHealthy, Message: c.store.basePath}
}
