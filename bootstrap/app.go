package bootstrap

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/kbukum/memoscribe/component"
	"github.com/kbukum/memoscribe/logger"
)

// App owns the configuration, components and hooks of a long-running
// service. C is the typed application config.
type App[C Config] struct {
	Name       string
	Version    string
	Cfg        C
	Components *component.Registry
	Logger     *logger.Logger

	gracefulTimeout time.Duration
	signals         []os.Signal
	summary         []summaryLine

	onStart []Hook
	onReady []Hook
	onStop  []Hook
}

type summaryLine struct{ key, value string }

// NewApp applies defaults, validates cfg and sets up logging.
func NewApp[C Config](cfg C, opts ...Option) (*App[C], error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	base := cfg.GetServiceConfig()
	o := resolveOptions(opts)

	app := &App[C]{
		Name:            base.Name,
		Version:         base.Version,
		Cfg:             cfg,
		Components:      component.NewRegistry(),
		gracefulTimeout: o.gracefulTimeout,
		signals:         o.signals,
	}
	app.Components.SetStopTimeout(o.gracefulTimeout)
	if len(app.signals) == 0 {
		app.signals = []os.Signal{syscall.SIGINT, syscall.SIGTERM}
	}

	if o.logger != nil {
		app.Logger = o.logger
	} else {
		logger.Init(&base.Logging)
		app.Logger = logger.GetGlobalLogger()
	}
	return app, nil
}

// RegisterComponent adds c to the registry. Components start in
// registration order.
func (a *App[C]) RegisterComponent(c component.Component) error {
	return a.Components.Register(c)
}

// AddSummary records a key/value line for the startup summary.
func (a *App[C]) AddSummary(key, value string) {
	a.summary = append(a.summary, summaryLine{key, value})
}

// ReadyCheck reports components that are not healthy.
func (a *App[C]) ReadyCheck(ctx context.Context) error {
	var pending []string
	for _, h := range a.Components.HealthAll(ctx) {
		if h.Status == component.StatusHealthy {
			continue
		}
		detail := h.Name + "=" + string(h.Status)
		if h.Message != "" {
			detail += "(" + h.Message + ")"
		}
		pending = append(pending, detail)
	}
	if len(pending) > 0 {
		return fmt.Errorf("components not healthy: %s", strings.Join(pending, ", "))
	}
	return nil
}

// Run starts everything, blocks until a shutdown signal or ctx is done, then
// shuts down gracefully. Startup failures stop whatever already started.
func (a *App[C]) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := a.startup(ctx); err != nil {
		if stopErr := a.stop(); stopErr != nil {
			a.Logger.Error("Shutdown after failed startup", logger.ErrorFields("bootstrap", stopErr))
		}
		return err
	}

	a.Logger.Info("Application ready, waiting for shutdown signal")
	a.WaitForSignal(ctx)
	cancel()
	return a.stop()
}

func (a *App[C]) startup(ctx context.Context) error {
	start := time.Now()
	a.Logger.Info("Starting application", map[string]interface{}{
		"name":    a.Name,
		"version": a.Version,
	})

	if err := a.Components.StartAll(ctx); err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}
	if err := runHooks(ctx, a.onStart); err != nil {
		return fmt.Errorf("onStart hook failed: %w", err)
	}

	// A loading model is expected here; readiness is served by /ready.
	if err := a.ReadyCheck(ctx); err != nil {
		a.Logger.Info("Ready check pending", map[string]interface{}{
			logger.FieldError: err.Error(),
		})
	}

	if err := runHooks(ctx, a.onReady); err != nil {
		return fmt.Errorf("onReady hook failed: %w", err)
	}

	a.displaySummary(ctx, time.Since(start))
	return nil
}

func (a *App[C]) displaySummary(ctx context.Context, took time.Duration) {
	fields := map[string]interface{}{
		"startup": took.Round(time.Millisecond).String(),
	}
	for _, l := range a.summary {
		fields[l.key] = l.value
	}
	for _, h := range a.Components.HealthAll(ctx) {
		fields["component."+h.Name] = string(h.Status)
	}
	a.Logger.Info("Startup summary", fields)
}

// WaitForSignal blocks until a shutdown signal arrives or ctx is done.
func (a *App[C]) WaitForSignal(ctx context.Context) os.Signal {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, a.signals...)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		a.Logger.Info("Received shutdown signal", map[string]interface{}{
			"signal": sig.String(),
		})
		return sig
	case <-ctx.Done():
		a.Logger.Info("Context canceled, shutting down")
		return nil
	}
}

// stop runs OnStop hooks and stops components within the graceful timeout.
func (a *App[C]) stop() error {
	a.Logger.Info("Shutting down application", map[string]interface{}{
		"timeout": a.gracefulTimeout.String(),
	})

	ctx, cancel := context.WithTimeout(context.Background(), a.gracefulTimeout)
	defer cancel()

	var shutdownErr error
	if err := runHooks(ctx, a.onStop); err != nil {
		a.Logger.Error("OnStop hook error", logger.ErrorFields("bootstrap", err))
		shutdownErr = err
	}
	if err := a.Components.StopAll(ctx); err != nil {
		a.Logger.Error("Shutdown completed with errors", logger.ErrorFields("bootstrap", err))
		if shutdownErr == nil {
			shutdownErr = err
		}
	}

	a.Logger.Info("Application shutdown complete")
	return shutdownErr
}
