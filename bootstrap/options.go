package bootstrap

import (
	"os"
	"time"

	"github.com/kbukum/memoscribe/logger"
)

const defaultGracefulTimeout = 15 * time.Second

// Option configures the App during creation.
type Option func(*appOptions)

type appOptions struct {
	logger          *logger.Logger
	gracefulTimeout time.Duration
	signals         []os.Signal
}

func resolveOptions(opts []Option) *appOptions {
	o := &appOptions{gracefulTimeout: defaultGracefulTimeout}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets the application logger. Without it the global logger is
// initialized from the config's Logging section.
func WithLogger(l *logger.Logger) Option {
	return func(o *appOptions) {
		o.logger = l
	}
}

// WithGracefulTimeout bounds OnStop hooks plus component shutdown.
func WithGracefulTimeout(d time.Duration) Option {
	return func(o *appOptions) {
		if d > 0 {
			o.gracefulTimeout = d
		}
	}
}

// WithSignals replaces the shutdown signals (SIGINT and SIGTERM by default).
func WithSignals(sig ...os.Signal) Option {
	return func(o *appOptions) {
		o.signals = sig
	}
}
