package local

import (
	"fmt"
	"os"
	"path/filepath"
)

// Config holds local filesystem storage configuration.
type Config struct {
	// BasePath is the directory files are written to.
	BasePath string `mapstructure:"base_path" json:"base_path"`
}

// DefaultBasePath returns <os temp dir>/memoscribe.
func DefaultBasePath() string {
	return filepath.Join(os.TempDir(), "memoscribe")
}

// ApplyDefaults fills in zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.BasePath == "" {
		c.BasePath = DefaultBasePath()
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.BasePath == "" {
		return fmt.Errorf("storage.base_path is required")
	}
	return nil
}
