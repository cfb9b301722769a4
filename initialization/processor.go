package initialization

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/initkit/asynclock"
	"github.com/kbukum/initkit/logger"
	"github.com/kbukum/initkit/observability"
	"github.com/kbukum/initkit/scheduler"
)

// Callback is a subsystem's initialization logic. It runs with background
// affinity and may use sched to borrow the foreground loop.
type Callback func(ctx context.Context, sched scheduler.Scheduler) error

// Processor runs a Callback at most once, after its dependencies, and
// memoizes the outcome. It implements Dependency so processors compose.
type Processor struct {
	id   string
	name string
	cb   Callback
	deps []Dependency

	sched   scheduler.Scheduler
	sink    logger.Sink
	metrics *observability.Metrics
	tracer  trace.Tracer

	lock  *asynclock.Lock
	state atomic.Pointer[State]

	mu     sync.Mutex
	flight *flight
}

var _ Dependency = (*Processor)(nil)

// New creates a processor named name. A nil cb makes the processor a pure
// aggregate of its dependencies.
func New(name string, cb Callback, opts ...Option) *Processor {
	p := &Processor{
		id:     uuid.NewString(),
		name:   name,
		cb:     cb,
		sched:  scheduler.NewInline(),
		sink:   logger.Get(logger.NameInitialization),
		tracer: observability.Tracer("github.com/kbukum/initkit/initialization"),
		lock:   asynclock.New(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.state.Store(&State{Status: StatusUninitialized, At: time.Now()})
	return p
}

// Name returns the owner name.
func (p *Processor) Name() string { return p.name }

// ID returns the processor's unique id.
func (p *Processor) ID() string { return p.id }

// Dependencies returns a copy of the declared dependencies.
func (p *Processor) Dependencies() []Dependency {
	out := make([]Dependency, len(p.deps))
	copy(out, p.deps)
	return out
}

// State returns the current snapshot without locking.
func (p *Processor) State() State {
	return *p.state.Load()
}

// IsFinalized reports whether initialization has succeeded.
func (p *Processor) IsFinalized() bool {
	return p.state.Load().Status == StatusSucceeded
}

// Initialize runs the processor if it has not run yet and returns its
// outcome. Concurrent and repeated calls are safe; after a failure every
// call returns the same error value.
//
// ctx bounds only this caller's wait. Once started, the work runs to
// completion even if every caller gives up. Waiting callers hold no
// scheduler resources; the run itself is detached through the scheduler.
func (p *Processor) Initialize(ctx context.Context) error {
	if s := p.state.Load(); s.Status.Terminal() {
		return s.Err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	f := p.join(ctx)
	select {
	case <-f.done:
		return f.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// flight is one submission of the run to the scheduler. Callers arriving
// while it is pending share it.
type flight struct {
	done chan struct{}
	err  error
}

func (p *Processor) join(ctx context.Context) *flight {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.flight != nil {
		return p.flight
	}

	f := &flight{done: make(chan struct{})}
	p.flight = f
	out := p.sched.Detach(context.WithoutCancel(ctx), p.runOnce)
	go p.land(f, out)
	return f
}

// land publishes the flight's result. A rejected submission leaves the
// state untouched so a later call may submit again.
func (p *Processor) land(f *flight, out <-chan error) {
	err := <-out
	p.mu.Lock()
	f.err = err
	p.flight = nil
	p.mu.Unlock()
	close(f.done)
}

func (p *Processor) runOnce(ctx context.Context) error {
	release, err := p.lock.Acquire(ctx)
	if err != nil {
		return err
	}
	defer release()

	cur := p.state.Load()
	if cur.Status.Terminal() {
		return cur.Err
	}

	next := &State{Status: StatusInitializing, Attempt: uuid.NewString(), At: time.Now()}
	if !p.state.CompareAndSwap(cur, next) {
		return p.state.Load().Err
	}

	err = scheduler.Call(ctx, func(ctx context.Context) error {
		return p.run(ctx, next.Attempt)
	})
	// A panic outside the callback, such as a diagnostic assertion, skips
	// the state store in run.
	if p.state.Load() == next {
		p.state.Store(&State{Status: StatusFailed, Err: err, Attempt: next.Attempt, At: time.Now()})
	}
	return err
}

func (p *Processor) run(ctx context.Context, attempt string) error {
	start := time.Now()
	ctx, span := p.tracer.Start(ctx, observability.SpanInitializationRun, trace.WithAttributes(
		attribute.String(observability.AttrOwner, p.name),
		attribute.String(observability.AttrAttempt, attempt),
		attribute.Int(observability.AttrDependencies, len(p.deps)),
	))
	p.metrics.InitializationStarted(ctx, p.name)

	p.sink.Verbose(p.name, "initialization started", logger.Fields(
		logger.FieldOwner, p.name,
		logger.FieldAttempt, attempt,
		"dependencies", len(p.deps),
	))

	err := Await(ctx, p.deps...)
	if err == nil && p.cb != nil {
		err = invoke(ctx, p.name, p.sched, p.cb)
	}

	status := StatusSucceeded
	if err != nil {
		status = StatusFailed
	}
	p.state.Store(&State{Status: status, Err: err, Attempt: attempt, At: time.Now()})

	elapsed := time.Since(start)
	span.SetAttributes(attribute.String(observability.AttrStatus, status.String()))
	observability.EndSpan(span, err)
	p.metrics.InitializationFinished(ctx, p.name, status.String(), elapsed)

	f := logger.Fields(
		logger.FieldOwner, p.name,
		logger.FieldAttempt, attempt,
		logger.FieldDuration, elapsed.Milliseconds(),
	)
	if err != nil {
		p.sink.Always(p.name, "initialization failed", logger.MergeWithError(f, err))
		return err
	}
	p.sink.Verbose(p.name, "initialization finished", f)
	return nil
}
