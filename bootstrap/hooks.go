package bootstrap

import (
	"context"
	"errors"
	"fmt"
)

// Hook is a lifecycle callback. Start and ready hooks run after the
// component graph initialized, so they may rely on every registered
// subsystem being finalized.
type Hook func(ctx context.Context) error

type phase string

const (
	phaseStart phase = "start"
	phaseReady phase = "ready"
	phaseStop  phase = "stop"
)

// OnStart registers hooks that run once InitializeAll succeeded and before
// the ready check.
func (a *App[C]) OnStart(hooks ...Hook) {
	a.onStart = append(a.onStart, hooks...)
}

// OnReady registers hooks that run after the ready check.
func (a *App[C]) OnReady(hooks ...Hook) {
	a.onReady = append(a.onReady, hooks...)
}

// OnStop registers hooks that run at shutdown, before component stoppers
// and before the scheduler stops, so they may still schedule work.
func (a *App[C]) OnStop(hooks ...Hook) {
	a.onStop = append(a.onStop, hooks...)
}

// runHooks runs hooks in registration order. Start and ready hooks stop at
// the first failure. Stop hooks all run and their failures are joined, so
// one failing teardown does not skip the others.
func runHooks(ctx context.Context, p phase, hooks []Hook) error {
	var errs []error
	for i, h := range hooks {
		if err := h(ctx); err != nil {
			err = fmt.Errorf("%s hook %d failed: %w", p, i, err)
			if p != phaseStop {
				return err
			}
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
