package transcription

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/kbukum/memoscribe/component"
	"github.com/kbukum/memoscribe/errors"
	"github.com/kbukum/memoscribe/logger"
	"github.com/kbukum/memoscribe/observability"
	"github.com/kbukum/memoscribe/provider"
	"github.com/kbukum/memoscribe/resilience"
)

// ModelSource hands out the shared model.
type ModelSource interface {
	EnsureReady(ctx context.Context) (Model, error)
}

// Loader loads the model at most once and memoizes the outcome.
type Loader struct {
	cfg      Config
	backends *Backends
	pool     *resilience.Bulkhead
	cell     *component.Lazy[Model]
	opts     options

	// Written by the single load before the cell is published; read only
	// after State reports ready or failed.
	device string
}

// NewLoader creates a loader for cfg.Backend and cfg.Model. Nothing is
// loaded until EnsureReady or WarmUp is called.
func NewLoader(cfg Config, backends *Backends, opts ...Option) *Loader {
	l := &Loader{
		cfg:      cfg,
		backends: backends,
		pool: resilience.NewBulkhead(resilience.BulkheadConfig{
			Name:          "model-load",
			MaxConcurrent: 1,
		}),
		opts: buildOptions(opts),
	}
	l.cell = component.NewLazy("transcription-model", l.load)
	return l
}

// EnsureReady returns the model, loading it if this is the first call.
// A failed load returns the same *errors.AppError to every caller. A caller
// waiting on someone else's load gives up with ctx.Err() when ctx ends.
func (l *Loader) EnsureReady(ctx context.Context) (Model, error) {
	return l.cell.Get(ctx)
}

// WarmUp loads the model and logs a warning on failure. The failure stays
// memoized; requests will report it.
func (l *Loader) WarmUp(ctx context.Context) {
	start := time.Now()
	if _, err := l.EnsureReady(ctx); err != nil {
		l.opts.log.Warn("Could not warm transcription model on startup", logger.Fields(
			logger.FieldModel, l.cfg.Model,
			logger.FieldBackend, l.cfg.Backend,
			logger.FieldError, err.Error(),
		))
		return
	}
	l.opts.log.Info("Transcription model warm", logger.DurationFields("warm_up", time.Since(start)))
}

// State reports idle, loading, ready or failed.
func (l *Loader) State() component.LazyState {
	return l.cell.State()
}

// Device returns the device the model was loaded on, or "" before a
// successful load.
func (l *Loader) Device() string {
	if l.State() != component.LazyReady {
		return ""
	}
	return l.device
}

// load runs once, inside the Lazy guard, on a context without cancellation.
func (l *Loader) load(ctx context.Context) (model Model, err error) {
	start := time.Now()
	device := ""

	ctx, span := l.opts.tracer.Start(ctx, observability.SpanModelLoad)
	span.SetAttributes(
		attribute.String(observability.AttrBackend, l.cfg.Backend),
		attribute.String(observability.AttrModel, l.cfg.Model),
	)
	defer func() {
		status := "ok"
		if err != nil {
			status = "error"
		}
		span.SetAttributes(attribute.String(observability.AttrDevice, device))
		l.opts.metrics.RecordModelLoad(ctx, l.cfg.Backend, device, status, time.Since(start))
		observability.EndSpan(span, err)
	}()
	defer func() {
		if p := recover(); p != nil {
			model, err = nil, l.fail(fmt.Errorf("model initialization panicked: %v", p), device)
		}
	}()

	backend, err := l.backends.Create(l.cfg.Backend, nil)
	if err != nil {
		if stderrors.Is(err, provider.ErrNotRegistered) {
			err = fmt.Errorf("transcription backend %q is not registered", l.cfg.Backend)
		}
		return nil, l.fail(err, device)
	}

	device, err = ResolveDevice(ctx, l.cfg.Device, l.opts.prober)
	if err != nil {
		return nil, l.fail(fmt.Errorf("device detection failed: %w", err), device)
	}

	l.opts.log.Info("Loading transcription model", logger.Fields(
		logger.FieldModel, l.cfg.Model,
		logger.FieldBackend, backend.Name(),
		logger.FieldDevice, device,
	))

	model, err = resilience.Submit(ctx, l.pool, 0, func(ctx context.Context) (Model, error) {
		return backend.Load(ctx, l.cfg.Model, device)
	}).Wait()
	if err == nil && model == nil {
		err = fmt.Errorf("backend %s returned no model", backend.Name())
	}
	if err != nil {
		return nil, l.fail(err, device)
	}

	l.device = device
	l.opts.log.Info("Transcription model loaded", logger.Fields(
		logger.FieldModel, l.cfg.Model,
		logger.FieldDevice, device,
		logger.FieldDuration, time.Since(start).Milliseconds(),
	))
	return model, nil
}

func (l *Loader) fail(cause error, device string) *errors.AppError {
	appErr := errors.ResourceUnavailable(cause)
	l.opts.log.Error("Transcription model unavailable", logger.Fields(
		logger.FieldModel, l.cfg.Model,
		logger.FieldBackend, l.cfg.Backend,
		logger.FieldDevice, device,
		logger.FieldError, cause.Error(),
	))
	return appErr
}

// --- component.Component ---

var _ component.Component = (*Loader)(nil)

// Name returns the component name.
func (l *Loader) Name() string { return "transcription-model" }

// Start does nothing; loading is driven by WarmUp or the first request.
func (l *Loader) Start(context.Context) error { return nil }

// Stop does nothing; the model lives as long as the process.
func (l *Loader) Stop(context.Context) error { return nil }

// Health maps the load state: ready is healthy, failed is unhealthy, and
// idle or loading is degraded.
func (l *Loader) Health(context.Context) component.Health {
	h := component.Health{Name: l.Name()}
	switch l.State() {
	case component.LazyReady:
		h.Status = component.StatusHealthy
		h.Message = fmt.Sprintf("%s on %s", l.cfg.Model, l.device)
	case component.LazyFailed:
		h.Status = component.StatusUnhealthy
		h.Message = l.cell.Err().Error()
		if appErr, ok := errors.AsAppError(l.cell.Err()); ok {
			h.Message = appErr.Message
		}
	default:
		h.Status = component.StatusDegraded
		h.Message = string(l.State())
	}
	return h
}
