package observability

import (
	"context"
	"errors"
	"fmt"
)

// Telemetry owns the providers installed by Setup.
type Telemetry struct {
	shutdowns []func(context.Context) error
}

// Setup installs the exporters enabled in cfg. With nothing enabled it
// returns a Telemetry whose Shutdown is a no-op.
func Setup(ctx context.Context, cfg Config, info ServiceInfo) (*Telemetry, error) {
	t := &Telemetry{}
	if cfg.TracingEnabled {
		tp, err := InitTracer(ctx, cfg, info)
		if err != nil {
			return nil, fmt.Errorf("observability: %w", err)
		}
		t.shutdowns = append(t.shutdowns, tp.Shutdown)
	}
	if cfg.MetricsEnabled {
		mp, err := InitMeter(ctx, cfg, info)
		if err != nil {
			_ = t.Shutdown(ctx)
			return nil, fmt.Errorf("observability: %w", err)
		}
		t.shutdowns = append(t.shutdowns, mp.Shutdown)
	}
	return t, nil
}

// Enabled reports whether any exporter is running.
func (t *Telemetry) Enabled() bool {
	return len(t.shutdowns) > 0
}

// Shutdown flushes and stops every installed provider.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	var errs []error
	for i := len(t.shutdowns) - 1; i >= 0; i-- {
		if err := t.shutdowns[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	t.shutdowns = nil
	return errors.Join(errs...)
}
