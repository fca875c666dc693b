package transcription

import (
	"time"

	"github.com/kbukum/memoscribe/validation"
)

// Defaults.
const (
	DefaultBackend   = "whisper-cli"
	DefaultModel     = "base"
	DefaultWorkers   = 2
	DefaultQueueWait = 30 * time.Second
)

// Config controls model loading and inference dispatch.
type Config struct {
	// Backend names the registered backend to load the model with.
	Backend string `yaml:"backend" mapstructure:"backend" validate:"required"`
	// Model is the model identifier passed to the backend.
	Model string `yaml:"model" mapstructure:"model" validate:"required"`
	// Device forces a device. Empty or "auto" probes for an accelerator.
	Device string `yaml:"device" mapstructure:"device"`
	// Workers is the number of concurrent inference jobs.
	Workers int `yaml:"workers" mapstructure:"workers" validate:"gte=1,lte=64"`
	// QueueWait bounds how long a request waits for a free worker. Zero
	// means DefaultQueueWait; a negative value fails at once when all
	// workers are busy.
	QueueWait time.Duration `yaml:"queue_wait" mapstructure:"queue_wait"`
	// InferenceTimeout bounds one model run; zero means no limit.
	InferenceTimeout time.Duration `yaml:"inference_timeout" mapstructure:"inference_timeout" validate:"gte=0"`
	// SkipWarmUp disables loading the model at startup.
	SkipWarmUp bool `yaml:"skip_warm_up" mapstructure:"skip_warm_up"`
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.Backend == "" {
		c.Backend = DefaultBackend
	}
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.Workers == 0 {
		c.Workers = DefaultWorkers
	}
	if c.QueueWait == 0 {
		c.QueueWait = DefaultQueueWait
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	return validation.Validate(c)
}
