package initialization

import (
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/initkit/logger"
	"github.com/kbukum/initkit/observability"
	"github.com/kbukum/initkit/scheduler"
)

// Option configures a Processor.
type Option func(*Processor)

// WithDependencies declares dependencies initialized before the callback.
func WithDependencies(deps ...Dependency) Option {
	return func(p *Processor) {
		p.deps = append(p.deps, deps...)
	}
}

// WithScheduler sets the scheduler used to leave the caller's goroutine
// and handed to the callback. Defaults to scheduler.NewInline().
func WithScheduler(s scheduler.Scheduler) Option {
	return func(p *Processor) {
		if s != nil {
			p.sched = s
		}
	}
}

// WithLogger sets the diagnostic sink.
func WithLogger(s logger.Sink) Option {
	return func(p *Processor) {
		if s != nil {
			p.sink = s
		}
	}
}

// WithMetrics enables metric recording.
func WithMetrics(m *observability.Metrics) Option {
	return func(p *Processor) {
		p.metrics = m
	}
}

// WithTracer sets the tracer used for the initialization.run span.
func WithTracer(t trace.Tracer) Option {
	return func(p *Processor) {
		if t != nil {
			p.tracer = t
		}
	}
}
