package scheduler

import "context"

// Scheduler moves work between the foreground loop and the background pool.
type Scheduler interface {
	// Run executes fn on the background pool and waits for it, or for ctx.
	// Returning early on ctx does not cancel fn.
	Run(ctx context.Context, fn Func) error

	// Go executes fn on the background pool. The returned channel receives
	// exactly one value and is never closed.
	Go(ctx context.Context, fn Func) <-chan error

	// Detach executes fn with background affinity on its own goroutine,
	// outside the worker bound. The scheduler still tracks it: Stop waits
	// for it and a stopped scheduler rejects it. The returned channel
	// receives exactly one value.
	Detach(ctx context.Context, fn Func) <-chan error

	// RunOnForeground executes fn on the foreground loop and waits for it.
	RunOnForeground(ctx context.Context, fn Func) error

	// SwitchToBackground returns a context that continues the current flow
	// with background affinity. Blocking work should follow it, never the
	// foreground loop.
	SwitchToBackground(ctx context.Context) context.Context

	// IsForeground reports whether ctx belongs to the foreground loop.
	IsForeground(ctx context.Context) bool
}

// Inline is a Scheduler without a dedicated foreground loop. Background work
// runs on its own goroutine, or inline when ctx is already background, and
// foreground work is serialized by a mutex. It suits tests and tools.
type Inline struct {
	fg chan struct{}
}

var _ Scheduler = (*Inline)(nil)

// NewInline creates an Inline scheduler.
func NewInline() *Inline {
	return &Inline{fg: make(chan struct{}, 1)}
}

// Run executes fn with background affinity.
func (s *Inline) Run(ctx context.Context, fn Func) error {
	if AffinityOf(ctx) == AffinityBackground {
		return Call(ctx, fn)
	}
	select {
	case err := <-s.Go(ctx, fn):
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Go executes fn on a new goroutine with background affinity.
func (s *Inline) Go(ctx context.Context, fn Func) <-chan error {
	out := make(chan error, 1)
	bg := WithAffinity(ctx, AffinityBackground)
	go func() { out <- Call(bg, fn) }()
	return out
}

// Detach is Go; Inline has no worker bound to step outside of.
func (s *Inline) Detach(ctx context.Context, fn Func) <-chan error {
	return s.Go(ctx, fn)
}

// RunOnForeground executes fn while holding the foreground slot.
func (s *Inline) RunOnForeground(ctx context.Context, fn Func) error {
	if s.IsForeground(ctx) {
		return Call(ctx, fn)
	}
	select {
	case s.fg <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-s.fg }()
	return Call(WithAffinity(ctx, AffinityForeground), fn)
}

// SwitchToBackground tags ctx with background affinity.
func (s *Inline) SwitchToBackground(ctx context.Context) context.Context {
	return WithAffinity(ctx, AffinityBackground)
}

// IsForeground reports whether ctx carries foreground affinity.
func (s *Inline) IsForeground(ctx context.Context) bool {
	return AffinityOf(ctx) == AffinityForeground
}
