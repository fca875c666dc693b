package main

import (
	"fmt"

	"github.com/kbukum/memoscribe/auth"
	"github.com/kbukum/memoscribe/config"
	"github.com/kbukum/memoscribe/observability"
	"github.com/kbukum/memoscribe/server"
	"github.com/kbukum/memoscribe/storage/local"
	"github.com/kbukum/memoscribe/transcription"
	"github.com/kbukum/memoscribe/transcription/whisper"
	"github.com/kbukum/memoscribe/transcription/whispercli"
)

const serviceName = "memoscribe"

// AppConfig is the full memoscribe configuration.
type AppConfig struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Server        server.Config        `yaml:"server" mapstructure:"server"`
	Transcription TranscriptionConfig  `yaml:"transcription" mapstructure:"transcription"`
	Storage       local.Config         `yaml:"storage" mapstructure:"storage"`
	Auth          auth.Config          `yaml:"auth" mapstructure:"auth"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`
}

// TranscriptionConfig adds per-backend settings to the loader settings.
type TranscriptionConfig struct {
	transcription.Config `yaml:",inline" mapstructure:",squash"`

	CLI  whispercli.Config `yaml:"cli" mapstructure:"cli"`
	HTTP whisper.Config    `yaml:"http" mapstructure:"http"`
}

// ApplyDefaults fills unset fields in every section.
func (c *AppConfig) ApplyDefaults() {
	if c.Name == "" {
		c.Name = serviceName
	}
	c.ServiceConfig.ApplyDefaults()
	c.Server.ApplyDefaults()
	c.Transcription.Config.ApplyDefaults()
	c.Transcription.CLI.ApplyDefaults()
	c.Transcription.HTTP.ApplyDefaults()
	c.Storage.ApplyDefaults()
	c.Auth.ApplyDefaults()
	c.Observability.ApplyDefaults()
}

// Validate checks every section. Only the selected backend's settings are
// validated.
func (c *AppConfig) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Transcription.Config.Validate(); err != nil {
		return fmt.Errorf("transcription: %w", err)
	}
	switch c.Transcription.Backend {
	case whispercli.ProviderName:
		if err := c.Transcription.CLI.Validate(); err != nil {
			return fmt.Errorf("transcription.cli: %w", err)
		}
	case whisper.ProviderName:
		if err := c.Transcription.HTTP.Validate(); err != nil {
			return fmt.Errorf("transcription.http: %w", err)
		}
	}
	if err := c.Storage.Validate(); err != nil {
		return err
	}
	if err := c.Auth.Validate(); err != nil {
		return err
	}
	return c.Observability.Validate()
}
