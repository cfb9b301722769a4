package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/kbukum/initkit/component"
	"github.com/kbukum/initkit/initialization"
	"github.com/kbukum/initkit/logger"
	"github.com/kbukum/initkit/observability"
	"github.com/kbukum/initkit/scheduler"
)

// App wires configuration, logging, telemetry, the scheduler and the
// component registry into one lifecycle.
//
// Example:
//
//	app, err := bootstrap.NewApp(&cfg)
//	app.Register("database", openDatabase)
//	app.Register("api", startAPI, "database")
//	app.Run(context.Background())
type App[C Config] struct {
	Name       string
	Version    string
	Cfg        C
	Logger     *logger.Logger
	Scheduler  *scheduler.Dispatcher
	Components *component.Registry
	Metrics    *observability.Metrics

	gracefulTimeout time.Duration
	summaryOut      io.Writer

	onStart []Hook
	onReady []Hook
	onStop  []Hook

	stopOnce          sync.Once
	stopErr           error
	shutdownTelemetry observability.ShutdownFunc
}

// NewApp creates a new application instance from a typed config.
// It applies defaults, validates the config, and initializes the logger.
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
		gracefulTimeout: 15 * time.Second,
		summaryOut:      os.Stdout,
	}
	if o.gracefulTimeout != nil {
		app.gracefulTimeout = *o.gracefulTimeout
	}
	if o.summaryOut != nil {
		app.summaryOut = o.summaryOut
	}

	if o.logger != nil {
		app.Logger = o.logger
	} else {
		logger.Init(&base.Logging)
		app.Logger = logger.GetGlobalLogger()
	}
	logger.Adopt(app.Logger)
	app.Scheduler = scheduler.NewDispatcher(cfg.GetSchedulerConfig())

	app.Metrics = o.metrics
	if app.Metrics == nil {
		m, err := observability.NewMetrics(observability.Meter(base.Name))
		if err != nil {
			return nil, fmt.Errorf("creating metrics: %w", err)
		}
		app.Metrics = m
	}

	app.Components = component.NewRegistry(
		initialization.WithScheduler(app.Scheduler),
		initialization.WithLogger(logger.Get(logger.NameInitialization)),
		initialization.WithMetrics(app.Metrics),
	)
	return app, nil
}

// Register adds a subsystem initialized by cb after dependsOn.
func (a *App[C]) Register(name string, cb initialization.Callback, dependsOn ...string) error {
	return a.Components.Register(name, cb, dependsOn...)
}

// RegisterComponent adds a component to the application's registry.
func (a *App[C]) RegisterComponent(c component.Component) error {
	return a.Components.Add(c)
}

// ReadyCheck verifies that all registered components are healthy.
func (a *App[C]) ReadyCheck(ctx context.Context) error {
	var unhealthy []string
	for _, h := range a.Components.Health(ctx) {
		if h.Status != component.StatusHealthy {
			detail := h.Name + "=" + string(h.Status)
			if h.Message != "" {
				detail += "(" + h.Message + ")"
			}
			unhealthy = append(unhealthy, detail)
		}
	}
	if len(unhealthy) > 0 {
		return fmt.Errorf("unhealthy components: %v", unhealthy)
	}
	return nil
}

// Start brings the application up: telemetry, the scheduler, every
// registered component, then the OnStart and OnReady hooks.
func (a *App[C]) Start(ctx context.Context) error {
	start := time.Now()

	a.Logger.Info("Starting application", map[string]interface{}{
		"name":    a.Name,
		"version": a.Version,
	})

	shutdown, err := observability.Setup(ctx, a.Cfg.GetObservabilityConfig())
	if err != nil {
		return fmt.Errorf("observability setup failed: %w", err)
	}
	a.shutdownTelemetry = shutdown

	a.Scheduler.Start()

	if err := a.Components.InitializeAll(ctx); err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	if err := runHooks(ctx, phaseStart, a.onStart); err != nil {
		return fmt.Errorf("onStart hook failed: %w", err)
	}

	if err := a.ReadyCheck(ctx); err != nil {
		a.Logger.Warn("Ready check reported issues", map[string]interface{}{
			logger.FieldError: err.Error(),
		})
	}

	if err := runHooks(ctx, phaseReady, a.onReady); err != nil {
		return fmt.Errorf("onReady hook failed: %w", err)
	}

	a.DisplaySummary(time.Since(start))
	return nil
}

// Run starts the application, blocks until a shutdown signal or ctx ends,
// then shuts down gracefully.
func (a *App[C]) Run(ctx context.Context) error {
	if err := a.Start(ctx); err != nil {
		return errors.Join(err, a.Shutdown(context.Background()))
	}

	a.Logger.Info("Application ready, waiting for shutdown signal")
	a.WaitForSignal(ctx)

	return a.Shutdown(context.Background())
}

// RunTask starts the application, runs task and shuts down when the task
// completes or is canceled by SIGINT/SIGTERM. Use it for CLI tools and
// batch jobs.
func (a *App[C]) RunTask(ctx context.Context, task func(ctx context.Context) error) error {
	if err := a.Start(ctx); err != nil {
		return errors.Join(err, a.Shutdown(context.Background()))
	}

	taskCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	taskErr := task(taskCtx)
	if stopErr := a.Shutdown(context.Background()); stopErr != nil && taskErr == nil {
		return stopErr
	}
	return taskErr
}

// DisplaySummary writes the startup summary.
func (a *App[C]) DisplaySummary(startup time.Duration) {
	s := NewSummary(a.Name, a.Version)
	s.SetStartupDuration(startup)
	s.Render(a.summaryOut, a.Components)
}

// WaitForSignal blocks until an OS interrupt/term signal or context cancellation.
func (a *App[C]) WaitForSignal(ctx context.Context) os.Signal {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		a.Logger.Info("Received shutdown signal, graceful shutdown starting", map[string]interface{}{
			"signal": sig.String(),
		})
		return sig
	case <-ctx.Done():
		a.Logger.Info("Context canceled, shutting down")
		return nil
	}
}

// Shutdown runs the OnStop hooks, stops components in reverse dependency
// order, stops the scheduler and flushes telemetry, all within the
// graceful timeout. Only the first call does any work.
func (a *App[C]) Shutdown(ctx context.Context) error {
	a.stopOnce.Do(func() {
		a.stopErr = a.stop(ctx)
	})
	return a.stopErr
}

func (a *App[C]) stop(parent context.Context) error {
	a.Logger.Info("Shutting down application", map[string]interface{}{
		"timeout": a.gracefulTimeout.String(),
	})

	ctx, cancel := context.WithTimeout(parent, a.gracefulTimeout)
	defer cancel()

	var errs []error
	record := func(msg string, err error) {
		if err == nil {
			return
		}
		a.Logger.Error(msg, map[string]interface{}{logger.FieldError: err.Error()})
		errs = append(errs, err)
	}

	record("OnStop hook error", runHooks(ctx, phaseStop, a.onStop))
	record("Component shutdown error", a.Components.StopAll(ctx))
	record("Scheduler stop error", a.Scheduler.Stop(ctx))
	if a.shutdownTelemetry != nil {
		record("Telemetry shutdown error", a.shutdownTelemetry(ctx))
	}

	a.Logger.Info("Application shutdown complete")
	return errors.Join(errs...)
}
