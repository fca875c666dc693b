// Package observability wires OpenTelemetry tracing and metrics.
//
// Setup installs OTLP/HTTP exporters when enabled and leaves the global
// no-op providers in place otherwise, so instrumented code never needs to
// check whether telemetry is on:
//
//	tel, err := observability.Setup(ctx, cfg.Observability, observability.ServiceInfo{Name: "memoscribe"})
//	defer tel.Shutdown(ctx)
//
//	metrics, err := observability.NewMetrics(observability.Meter("memoscribe"))
//	metrics.RecordTranscription(ctx, "succeeded", elapsed)
package observability
