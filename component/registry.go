package component

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	apperrors "github.com/kbukum/initkit/errors"
	"github.com/kbukum/initkit/initialization"
	"github.com/kbukum/initkit/logger"
)

const stopTimeout = 10 * time.Second

// entry holds one registered subsystem.
type entry struct {
	name        string
	deps        []string
	cb          initialization.Callback
	stop        Stopper
	description *Description
	proc        *initialization.Processor
	stopped     bool
}

// Registry builds and drives the processors of named subsystems.
type Registry struct {
	mu      sync.RWMutex
	entries []*entry
	lookup  map[string]*entry
	levels  [][]string
	built   bool
	opts    []initialization.Option
}

// NewRegistry creates a registry. opts are applied to every processor it
// builds, typically WithScheduler, WithLogger and WithMetrics.
func NewRegistry(opts ...initialization.Option) *Registry {
	return &Registry{
		lookup: make(map[string]*entry),
		opts:   opts,
	}
}

// Register adds a subsystem initialized by cb after every name in
// dependsOn. Dependencies may be registered later, up to Build.
func (r *Registry) Register(name string, cb initialization.Callback, dependsOn ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.register(name, cb, dependsOn)
}

// Add registers a Component, using its Start as the callback and its Stop
// as the stopper.
func (r *Registry) Add(c Component) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.register(c.Name(), c.Start, c.DependsOn()); err != nil {
		return err
	}
	e := r.lookup[c.Name()]
	e.stop = c.Stop
	if d, ok := c.(Describable); ok {
		desc := d.Describe()
		e.description = &desc
	}
	return nil
}

// OnStop attaches a stopper to a registered subsystem.
func (r *Registry) OnStop(name string, stop Stopper) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.lookup[name]
	if !ok {
		return apperrors.NotFound(name)
	}
	e.stop = stop
	return nil
}

func (r *Registry) register(name string, cb initialization.Callback, dependsOn []string) error {
	if r.built {
		return apperrors.New(apperrors.ErrCodeInternal, "component registry is already built").
			WithDetail("component", name)
	}
	if name == "" {
		return apperrors.InvalidConfig("component name is required")
	}
	if _, exists := r.lookup[name]; exists {
		return apperrors.AlreadyRegistered(name)
	}

	seen := make(map[string]struct{}, len(dependsOn))
	deps := make([]string, 0, len(dependsOn))
	for _, d := range dependsOn {
		if _, dup := seen[d]; dup {
			continue
		}
		seen[d] = struct{}{}
		deps = append(deps, d)
	}

	e := &entry{name: name, deps: deps, cb: cb}
	r.entries = append(r.entries, e)
	r.lookup[name] = e

	logger.Debug("Component registered", map[string]interface{}{
		logger.FieldComponent: name,
		"depends_on":          deps,
	})
	return nil
}

// Build validates the dependency graph and creates the processors. It is
// safe to call more than once; only the first successful call builds.
func (r *Registry) Build() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.build()
}

func (r *Registry) build() error {
	if r.built {
		return nil
	}

	graph := make(map[string][]string, len(r.entries))
	for _, e := range r.entries {
		graph[e.name] = e.deps
	}
	levels, err := buildLevels(graph)
	if err != nil {
		return err
	}

	for _, level := range levels {
		for _, name := range level {
			e := r.lookup[name]
			deps := make([]initialization.Dependency, 0, len(e.deps))
			for _, d := range e.deps {
				deps = append(deps, r.lookup[d].proc)
			}
			opts := append([]initialization.Option{}, r.opts...)
			opts = append(opts, initialization.WithDependencies(deps...))
			e.proc = initialization.New(name, e.cb, opts...)
		}
	}

	r.levels = levels
	r.built = true

	logger.Info("Component graph built", map[string]interface{}{
		"count":  len(r.entries),
		"levels": len(levels),
	})
	return nil
}

// InitializeAll builds the graph if needed and initializes every
// subsystem concurrently. A failure is reported once, under the name of the
// subsystem that produced it; dependents that only inherited it are not
// reported again. The failures are joined.
func (r *Registry) InitializeAll(ctx context.Context) error {
	r.mu.Lock()
	if err := r.build(); err != nil {
		r.mu.Unlock()
		return err
	}
	entries := make([]*entry, len(r.entries))
	copy(entries, r.entries)
	r.mu.Unlock()

	logger.Info("Initializing all components", map[string]interface{}{
		"count": len(entries),
	})

	results := make([]error, len(entries))
	var g errgroup.Group
	for i, e := range entries {
		g.Go(func() error {
			results[i] = e.proc.Initialize(ctx)
			return nil
		})
	}
	_ = g.Wait()

	var errs []error
	for i, e := range entries {
		if results[i] == nil || r.inherited(e, results[i]) {
			continue
		}
		errs = append(errs, apperrors.InitializationFailed(e.name, results[i]))
	}

	if err := errors.Join(errs...); err != nil {
		logger.Error("Component initialization failed", map[string]interface{}{
			logger.FieldError: err.Error(),
		})
		return err
	}

	logger.Info("All components initialized")
	return nil
}

// inherited reports whether err is the memoized failure of one of e's
// dependencies.
func (r *Registry) inherited(e *entry, err error) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, name := range e.deps {
		dep, ok := r.lookup[name]
		if !ok || dep.proc == nil {
			continue
		}
		if st := dep.proc.State(); st.Status == initialization.StatusFailed && errors.Is(err, st.Err) {
			return true
		}
	}
	return false
}

// StopAll stops every finalized subsystem that has a stopper, dependents
// before their dependencies. Each stopper runs at most once.
func (r *Registry) StopAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.built {
		return nil
	}

	logger.Info("Stopping all components")

	var errs []error
	for i := len(r.levels) - 1; i >= 0; i-- {
		for _, name := range r.levels[i] {
			e := r.lookup[name]
			if e.stop == nil || e.stopped || !e.proc.IsFinalized() {
				continue
			}
			e.stopped = true

			stopCtx, cancel := context.WithTimeout(ctx, stopTimeout)
			if err := e.stop(stopCtx); err != nil {
				errs = append(errs, fmt.Errorf("failed to stop %s: %w", name, err))
				logger.Error("Component stop failed", map[string]interface{}{
					logger.FieldComponent: name,
					logger.FieldError:     err.Error(),
				})
			} else {
				logger.Info("Component stopped", map[string]interface{}{logger.FieldComponent: name})
			}
			cancel()
		}
	}

	return errors.Join(errs...)
}

// Health reports each subsystem's state in registration order.
func (r *Registry) Health(ctx context.Context) []Health {
	r.mu.RLock()
	defer r.mu.RUnlock()

	results := make([]Health, 0, len(r.entries))
	for _, e := range r.entries {
		results = append(results, healthOf(e))
	}
	return results
}

func healthOf(e *entry) Health {
	h := Health{Name: e.name, Status: StatusDegraded}
	if e.proc == nil {
		h.Message = initialization.StatusUninitialized.String()
		return h
	}
	st := e.proc.State()
	switch st.Status {
	case initialization.StatusSucceeded:
		h.Status = StatusHealthy
	case initialization.StatusFailed:
		h.Status = StatusUnhealthy
		h.Message = st.Err.Error()
	default:
		h.Message = st.Status.String()
	}
	return h
}

// Get returns the processor built for name, or nil before Build or for an
// unknown name.
func (r *Registry) Get(name string) *initialization.Processor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if e, ok := r.lookup[name]; ok {
		return e.proc
	}
	return nil
}

// Names returns registered names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.entries))
	for _, e := range r.entries {
		names = append(names, e.name)
	}
	return names
}

// Levels returns the dependency levels computed by Build.
func (r *Registry) Levels() [][]string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([][]string, len(r.levels))
	for i, level := range r.levels {
		out[i] = append([]string(nil), level...)
	}
	return out
}

// Info describes one subsystem for the startup summary.
type Info struct {
	Name         string
	Dependencies []string
	Description  *Description
	Health       Health
}

// Describe returns summary information for every subsystem.
func (r *Registry) Describe() []Info {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Info, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, Info{
			Name:         e.name,
			Dependencies: append([]string(nil), e.deps...),
			Description:  e.description,
			Health:       healthOf(e),
		})
	}
	return out
}
