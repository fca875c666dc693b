package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/memoscribe/logger"
)

// InitMeter installs a periodic OTLP/HTTP meter provider as the global
// provider. The caller must shut it down on exit.
func InitMeter(ctx context.Context, cfg Config, info ServiceInfo) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(info)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	var readerOpts []sdkmetric.PeriodicReaderOption
	if cfg.ExportInterval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(cfg.ExportInterval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)

	logger.Info("Meter initialized", logger.Fields(
		"endpoint", cfg.Endpoint,
		"interval", cfg.ExportInterval.String(),
	))
	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metrics holds the transcription instruments. A nil *Metrics records
// nothing.
type Metrics struct {
	requests     metric.Int64Counter
	duration     metric.Float64Histogram
	loadDuration metric.Float64Histogram
	stagedBytes  metric.Int64Histogram
	inFlight     metric.Int64UpDownCounter
}

// NewMetrics creates the instruments on meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	requests, err := meter.Int64Counter("transcription.requests",
		metric.WithDescription("Transcription requests by final state"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating transcription.requests counter: %w", err)
	}

	duration, err := meter.Float64Histogram("transcription.duration",
		metric.WithDescription("End-to-end transcription latency"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating transcription.duration histogram: %w", err)
	}

	loadDuration, err := meter.Float64Histogram("transcription.model_load.duration",
		metric.WithDescription("Time spent loading the model"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating transcription.model_load.duration histogram: %w", err)
	}

	stagedBytes, err := meter.Int64Histogram("transcription.staged_bytes",
		metric.WithDescription("Size of staged audio uploads"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating transcription.staged_bytes histogram: %w", err)
	}

	inFlight, err := meter.Int64UpDownCounter("transcription.in_flight",
		metric.WithDescription("Transcriptions currently in progress"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating transcription.in_flight counter: %w", err)
	}

	return &Metrics{
		requests:     requests,
		duration:     duration,
		loadDuration: loadDuration,
		stagedBytes:  stagedBytes,
		inFlight:     inFlight,
	}, nil
}

// RecordStart marks a transcription as in progress.
func (m *Metrics) RecordStart(ctx context.Context) {
	if m == nil {
		return
	}
	m.inFlight.Add(ctx, 1)
}

// RecordTranscription records a finished transcription with its final state.
func (m *Metrics) RecordTranscription(ctx context.Context, state string, d time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("state", state))
	m.inFlight.Add(ctx, -1)
	m.requests.Add(ctx, 1, attrs)
	m.duration.Record(ctx, d.Seconds(), attrs)
}

// RecordModelLoad records one model load attempt.
func (m *Metrics) RecordModelLoad(ctx context.Context, backend, device, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.loadDuration.Record(ctx, d.Seconds(), metric.WithAttributes(
		attribute.String("backend", backend),
		attribute.String("device", device),
		attribute.String("status", status),
	))
}

// RecordStagedBytes records the size of a staged upload.
func (m *Metrics) RecordStagedBytes(ctx context.Context, n int64) {
	if m == nil {
		return
	}
	m.stagedBytes.Record(ctx, n)
}
