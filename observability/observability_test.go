package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestConfigApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()

	if cfg.Endpoint != "localhost:4318" {
		t.Errorf("expected default endpoint, got %q", cfg.Endpoint)
	}
	if cfg.SampleRate != 1.0 {
		t.Errorf("expected sample rate 1.0, got %v", cfg.SampleRate)
	}
	if cfg.ExportInterval != 15*time.Second {
		t.Errorf("expected 15s interval, got %v", cfg.ExportInterval)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"disabled", Config{}, false},
		{"enabled with endpoint", Config{TracingEnabled: true, Endpoint: "otel:4318", SampleRate: 0.5}, false},
		{"sample rate too high", Config{SampleRate: 1.5}, true},
		{"negative sample rate", Config{SampleRate: -0.1}, true},
		{"enabled without endpoint", Config{MetricsEnabled: true}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.cfg.Validate(); (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestSetupDisabled(t *testing.T) {
	tel, err := Setup(context.Background(), Config{}, ServiceInfo{Name: "memoscribe"})
	if err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	if tel.Enabled() {
		t.Error("expected no providers when export is disabled")
	}
	if err := tel.Shutdown(context.Background()); err != nil {
		t.Errorf("unexpected shutdown error: %v", err)
	}
}

func TestSetupEnabled(t *testing.T) {
	cfg := Config{TracingEnabled: true, MetricsEnabled: true, Insecure: true}
	cfg.ApplyDefaults()

	tel, err := Setup(context.Background(), cfg, ServiceInfo{Name: "memoscribe", Version: "0.1.0", Environment: "test"})
	if err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	if !tel.Enabled() {
		t.Error("expected providers to be installed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	// Nothing listens on the endpoint; only the shutdown path is exercised.
	_ = tel.Shutdown(ctx)
}

func TestNewResource(t *testing.T) {
	res, err := newResource(ServiceInfo{Name: "memoscribe", Version: "0.1.0", Environment: "test"})
	if err != nil {
		t.Fatalf("newResource failed: %v", err)
	}
	found := false
	for _, kv := range res.Attributes() {
		if string(kv.Key) == "service.name" && kv.Value.AsString() == "memoscribe" {
			found = true
		}
	}
	if !found {
		t.Error("expected service.name attribute")
	}
}

func TestSampler(t *testing.T) {
	tests := []struct {
		rate float64
		want string
	}{
		{1.0, "AlwaysOnSampler"},
		{0, "AlwaysOffSampler"},
	}
	for _, tc := range tests {
		if got := sampler(tc.rate).Description(); got != tc.want {
			t.Errorf("sampler(%v) = %q, want %q", tc.rate, got, tc.want)
		}
	}
	if got := sampler(0.5).Description(); got == "AlwaysOnSampler" || got == "AlwaysOffSampler" {
		t.Errorf("expected ratio sampler, got %q", got)
	}
}

func TestEndSpan(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	tracer := tp.Tracer("test")

	_, ok := tracer.Start(context.Background(), SpanTranscribe)
	EndSpan(ok, nil)
	_, failed := tracer.Start(context.Background(), SpanModelLoad)
	EndSpan(failed, errors.New("device not found"))

	spans := rec.Ended()
	if len(spans) != 2 {
		t.Fatalf("expected 2 spans, got %d", len(spans))
	}
	if spans[0].Status().Code != codes.Ok {
		t.Errorf("expected Ok status, got %v", spans[0].Status().Code)
	}
	if spans[1].Status().Code != codes.Error || spans[1].Status().Description != "device not found" {
		t.Errorf("unexpected error status %+v", spans[1].Status())
	}
	if len(spans[1].Events()) == 0 {
		t.Error("expected the error to be recorded as an event")
	}
}

func TestNewMetricsNoop(t *testing.T) {
	m, err := NewMetrics(noop.NewMeterProvider().Meter("test"))
	if err != nil {
		t.Fatalf("NewMetrics failed: %v", err)
	}
	ctx := context.Background()
	m.RecordStart(ctx)
	m.RecordTranscription(ctx, "succeeded", time.Second)
	m.RecordModelLoad(ctx, "whisper-cli", "cpu", "ok", time.Second)
	m.RecordStagedBytes(ctx, 1024)
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	ctx := context.Background()
	m.RecordStart(ctx)
	m.RecordTranscription(ctx, "failed", time.Millisecond)
	m.RecordModelLoad(ctx, "whisper-cli", "cpu", "error", time.Millisecond)
	m.RecordStagedBytes(ctx, 1)
}

func TestMetricsRecorded(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	m, err := NewMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("NewMetrics failed: %v", err)
	}
	ctx := context.Background()
	m.RecordStart(ctx)
	m.RecordTranscription(ctx, "succeeded", 2*time.Second)
	m.RecordStagedBytes(ctx, 2048)

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatalf("Collect failed: %v", err)
	}

	names := map[string]bool{}
	for _, sm := range rm.ScopeMetrics {
		for _, md := range sm.Metrics {
			names[md.Name] = true
		}
	}
	for _, want := range []string{"transcription.requests", "transcription.duration", "transcription.staged_bytes"} {
		if !names[want] {
			t.Errorf("expected metric %q to be exported, got %v", want, names)
		}
	}
}
