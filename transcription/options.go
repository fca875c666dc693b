package transcription

import (
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/memoscribe/logger"
	"github.com/kbukum/memoscribe/observability"
)

type options struct {
	log     *logger.Logger
	tracer  trace.Tracer
	metrics *observability.Metrics
	prober  DeviceProber
}

// Option configures a Loader or Pipeline.
type Option func(*options)

// WithLogger sets the logger. The component tag is added automatically.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithTracer sets the tracer used for spans.
func WithTracer(t trace.Tracer) Option {
	return func(o *options) { o.tracer = t }
}

// WithMetrics sets the metric instruments.
func WithMetrics(m *observability.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithDeviceProber sets how the Loader detects accelerators. Ignored by
// Pipeline.
func WithDeviceProber(p DeviceProber) Option {
	return func(o *options) { o.prober = p }
}

func buildOptions(opts []Option) options {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = logger.GetGlobalLogger()
	}
	o.log = o.log.WithComponent("transcription")
	if o.tracer == nil {
		o.tracer = observability.Tracer(observability.InstrumentationName)
	}
	return o
}
