package scheduler

import (
	"context"
	"sync"

	apperrors "github.com/kbukum/initkit/errors"
	"github.com/kbukum/initkit/logger"
)

type foregroundJob struct {
	ctx    context.Context
	fn     Func
	result chan error
}

// Dispatcher is a Scheduler with a single foreground loop goroutine and a
// bounded background pool.
type Dispatcher struct {
	cfg  Config
	log  *logger.Logger
	fg   chan foregroundJob
	sem  chan struct{}
	done chan struct{}

	mu       sync.Mutex
	started  bool
	stopped  bool
	loopDone chan struct{}
	inflight sync.WaitGroup
}

var _ Scheduler = (*Dispatcher)(nil)

// NewDispatcher creates a Dispatcher. Call Start before submitting
// foreground work; background work is accepted immediately.
func NewDispatcher(cfg Config) *Dispatcher {
	cfg.ApplyDefaults()
	return &Dispatcher{
		cfg:      cfg,
		log:      logger.Get(logger.NameScheduler),
		fg:       make(chan foregroundJob, cfg.ForegroundQueue),
		sem:      make(chan struct{}, cfg.Workers),
		done:     make(chan struct{}),
		loopDone: make(chan struct{}),
	}
}

// Start launches the foreground loop. Calling it again is a no-op.
func (d *Dispatcher) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started || d.stopped {
		return
	}
	d.started = true
	go d.loop()

	d.log.Debug("Dispatcher started", map[string]interface{}{
		"workers": d.cfg.Workers,
	})
}

// Stop rejects new work, stops the foreground loop and waits for running
// background and detached jobs until ctx is done. Safe to call multiple times.
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.mu.Lock()
	if !d.stopped {
		d.stopped = true
		close(d.done)
		if !d.started {
			close(d.loopDone)
		}
	}
	d.mu.Unlock()

	drained := make(chan struct{})
	go func() {
		<-d.loopDone
		d.inflight.Wait()
		close(drained)
	}()

	select {
	case <-drained:
		d.log.Debug("Dispatcher stopped")
		return nil
	case <-ctx.Done():
		d.log.Warn("Dispatcher stop timed out with work still running")
		return ctx.Err()
	}
}

// Run executes fn on the background pool and waits for the result.
func (d *Dispatcher) Run(ctx context.Context, fn Func) error {
	if AffinityOf(ctx) == AffinityBackground {
		return Call(ctx, fn)
	}
	select {
	case err := <-d.Go(ctx, fn):
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Go executes fn on the background pool once a worker slot is free.
func (d *Dispatcher) Go(ctx context.Context, fn Func) <-chan error {
	out := make(chan error, 1)
	if !d.track() {
		out <- apperrors.SchedulerStopped()
		return out
	}

	go func() {
		defer d.inflight.Done()
		select {
		case d.sem <- struct{}{}:
		case <-ctx.Done():
			out <- ctx.Err()
			return
		case <-d.done:
			out <- apperrors.SchedulerStopped()
			return
		}
		defer func() { <-d.sem }()
		out <- Call(WithAffinity(ctx, AffinityBackground), fn)
	}()
	return out
}

// Detach executes fn on a dedicated goroutine that does not take a worker
// slot. Long waits that themselves depend on pool work belong here, since
// holding a slot while waiting on the pool can starve it.
func (d *Dispatcher) Detach(ctx context.Context, fn Func) <-chan error {
	out := make(chan error, 1)
	if !d.track() {
		out <- apperrors.SchedulerStopped()
		return out
	}

	go func() {
		defer d.inflight.Done()
		out <- Call(WithAffinity(ctx, AffinityBackground), fn)
	}()
	return out
}

// RunOnForeground queues fn on the foreground loop and waits for it. When
// ctx is already foreground, fn runs inline.
func (d *Dispatcher) RunOnForeground(ctx context.Context, fn Func) error {
	if d.IsForeground(ctx) {
		return Call(ctx, fn)
	}

	job := foregroundJob{ctx: ctx, fn: fn, result: make(chan error, 1)}
	select {
	case d.fg <- job:
	case <-d.done:
		return apperrors.SchedulerStopped()
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-job.result:
		return err
	case <-d.loopDone:
		select {
		case err := <-job.result:
			return err
		default:
			return apperrors.SchedulerStopped()
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SwitchToBackground tags ctx with background affinity.
func (d *Dispatcher) SwitchToBackground(ctx context.Context) context.Context {
	return WithAffinity(ctx, AffinityBackground)
}

// IsForeground reports whether ctx carries foreground affinity.
func (d *Dispatcher) IsForeground(ctx context.Context) bool {
	return AffinityOf(ctx) == AffinityForeground
}

// InUse returns the number of occupied background worker slots.
func (d *Dispatcher) InUse() int {
	return len(d.sem)
}

// track registers a background job unless the dispatcher is stopped.
func (d *Dispatcher) track() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return false
	}
	d.inflight.Add(1)
	return true
}

func (d *Dispatcher) loop() {
	defer close(d.loopDone)
	for {
		select {
		case <-d.done:
			d.rejectQueued()
			return
		case job := <-d.fg:
			if err := job.ctx.Err(); err != nil {
				job.result <- err
				continue
			}
			job.result <- Call(WithAffinity(job.ctx, AffinityForeground), job.fn)
		}
	}
}

// rejectQueued fails foreground jobs that were queued but never ran.
func (d *Dispatcher) rejectQueued() {
	for {
		select {
		case job := <-d.fg:
			job.result <- apperrors.SchedulerStopped()
		default:
			return
		}
	}
}
