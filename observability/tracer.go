package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/memoscribe/logger"
)

// InstrumentationName is the tracer and meter name used by this module.
const InstrumentationName = "github.com/kbukum/memoscribe"

// InitTracer installs a batching OTLP/HTTP tracer provider as the global
// provider. The caller must shut it down on exit.
func InitTracer(ctx context.Context, cfg Config, info ServiceInfo) (*sdktrace.TracerProvider, error) {
	opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating trace exporter: %w", err)
	}

	res, err := newResource(info)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sampler(cfg.SampleRate))),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	logger.Info("Tracer initialized", logger.Fields(
		"endpoint", cfg.Endpoint,
		"sample_rate", cfg.SampleRate,
	))
	return tp, nil
}

func sampler(rate float64) sdktrace.Sampler {
	switch {
	case rate >= 1.0:
		return sdktrace.AlwaysSample()
	case rate <= 0:
		return sdktrace.NeverSample()
	default:
		return sdktrace.TraceIDRatioBased(rate)
	}
}

// newResource merges service attributes into the SDK default resource. The
// attributes are schemaless so they never conflict with the default's schema.
func newResource(info ServiceInfo) (*resource.Resource, error) {
	attrs := []attribute.KeyValue{semconv.ServiceName(info.Name)}
	if info.Version != "" {
		attrs = append(attrs, semconv.ServiceVersion(info.Version))
	}
	if info.Environment != "" {
		attrs = append(attrs, semconv.DeploymentEnvironment(info.Environment))
	}
	return resource.Merge(resource.Default(), resource.NewSchemaless(attrs...))
}

// Tracer returns a named tracer from the global provider.
func Tracer(name string) trace.Tracer {
	return otel.Tracer(name)
}

// StartSpan starts a span on the module tracer.
func StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return Tracer(InstrumentationName).Start(ctx, name, opts...)
}

// EndSpan records err (if any) and the final status, then ends span.
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// Span names.
const (
	SpanTranscribe = "transcription.transcribe"
	SpanModelLoad  = "transcription.load_model"
	SpanInference  = "transcription.inference"
)

// Attribute keys.
const (
	AttrState      = "transcription.state"
	AttrBackend    = "transcription.backend"
	AttrModel      = "transcription.model"
	AttrDevice     = "transcription.device"
	AttrBytes      = "transcription.bytes"
	AttrDigest     = "transcription.digest"
	AttrErrorCode  = "error.code"
	AttrRequestID  = "request.id"
	AttrDurationMs = "duration_ms"
)
