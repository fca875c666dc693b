package auth

import (
	"fmt"

	"github.com/kbukum/memoscribe/auth/jwt"
)

// Config holds authentication configuration for the /api routes.
type Config struct {
	// Enabled turns on bearer token checks.
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`

	jwt.Config `yaml:",inline" mapstructure:",squash"`
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	c.Config.ApplyDefaults()
}

// Validate checks the token settings when authentication is enabled.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if err := c.Config.Validate(); err != nil {
		return fmt.Errorf("auth: %w", err)
	}
	return nil
}

// Describe returns a one-line summary for startup logs.
func (c *Config) Describe() string {
	if !c.Enabled {
		return "disabled"
	}
	if c.Issuer != "" {
		return fmt.Sprintf("JWT(%s) issuer=%s", c.Method, c.Issuer)
	}
	return fmt.Sprintf("JWT(%s)", c.Method)
}
