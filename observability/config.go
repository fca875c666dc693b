package observability

import (
	"fmt"
	"time"
)

// Config controls telemetry export.
type Config struct {
	TracingEnabled bool          `yaml:"tracing_enabled" mapstructure:"tracing_enabled"`
	MetricsEnabled bool          `yaml:"metrics_enabled" mapstructure:"metrics_enabled"`
	Endpoint       string        `yaml:"endpoint" mapstructure:"endpoint"`
	Insecure       bool          `yaml:"insecure" mapstructure:"insecure"`
	SampleRate     float64       `yaml:"sample_rate" mapstructure:"sample_rate"`
	ExportInterval time.Duration `yaml:"export_interval" mapstructure:"export_interval"`
}

// ServiceInfo identifies the service in exported resources.
type ServiceInfo struct {
	Name        string
	Version     string
	Environment string
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.Endpoint == "" {
		c.Endpoint = "localhost:4318"
	}
	if c.SampleRate == 0 {
		c.SampleRate = 1.0
	}
	if c.ExportInterval == 0 {
		c.ExportInterval = 15 * time.Second
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.SampleRate < 0 || c.SampleRate > 1 {
		return fmt.Errorf("observability.sample_rate must be between 0 and 1 (got: %v)", c.SampleRate)
	}
	if (c.TracingEnabled || c.MetricsEnabled) && c.Endpoint == "" {
		return fmt.Errorf("observability.endpoint is required when export is enabled")
	}
	return nil
}
