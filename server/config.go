package server

import (
	"fmt"
	"time"

	"github.com/kbukum/memoscribe/server/middleware"
	"github.com/kbukum/memoscribe/util"
)

// Config holds HTTP server configuration.
type Config struct {
	Host string `yaml:"host" mapstructure:"host"`
	Port int    `yaml:"port" mapstructure:"port"`

	ReadTimeout time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	// WriteTimeout covers the whole transcription, which runs inside the
	// request.
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" mapstructure:"idle_timeout"`

	// MaxBodySize caps request bodies, e.g. "100MB".
	MaxBodySize string                `yaml:"max_body_size" mapstructure:"max_body_size"`
	CORS        middleware.CORSConfig `yaml:"cors" mapstructure:"cors"`
	// RateLimitPerMinute caps /api requests per client IP; 0 disables it.
	RateLimitPerMinute int `yaml:"rate_limit_per_minute" mapstructure:"rate_limit_per_minute"`
	// StaticDir holds the built frontend (index.html and assets).
	StaticDir string `yaml:"static_dir" mapstructure:"static_dir"`
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.Port == 0 {
		c.Port = 8000
	}
	setDuration(&c.ReadTimeout, time.Minute)
	setDuration(&c.WriteTimeout, 10*time.Minute)
	setDuration(&c.IdleTimeout, 2*time.Minute)
	if c.MaxBodySize == "" {
		c.MaxBodySize = "100MB"
	}
	if c.StaticDir == "" {
		c.StaticDir = "static"
	}

	cors := &c.CORS
	if len(cors.AllowedOrigins) == 0 {
		cors.AllowedOrigins = []string{"*"}
	}
	if len(cors.AllowedMethods) == 0 {
		cors.AllowedMethods = []string{"GET", "POST", "OPTIONS"}
	}
	if len(cors.AllowedHeaders) == 0 {
		cors.AllowedHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-Id"}
	}
	if cors.MaxAge == 0 {
		cors.MaxAge = 600
	}
}

func setDuration(d *time.Duration, def time.Duration) {
	if *d == 0 {
		*d = def
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("server.port must be between 0 and 65535 (got: %d)", c.Port)
	}
	for name, d := range map[string]time.Duration{
		"read_timeout":  c.ReadTimeout,
		"write_timeout": c.WriteTimeout,
		"idle_timeout":  c.IdleTimeout,
	} {
		if d < 0 {
			return fmt.Errorf("server.%s must be non-negative (got: %s)", name, d)
		}
	}
	if c.RateLimitPerMinute < 0 {
		return fmt.Errorf("server.rate_limit_per_minute must be non-negative (got: %d)", c.RateLimitPerMinute)
	}
	if c.MaxBodySize != "" && util.ParseSize(c.MaxBodySize, -1) <= 0 {
		return fmt.Errorf("server.max_body_size is not a valid size (got: %q)", c.MaxBodySize)
	}
	if c.CORS.MaxAge < 0 {
		return fmt.Errorf("server.cors.max_age must be non-negative (got: %d)", c.CORS.MaxAge)
	}
	return nil
}
