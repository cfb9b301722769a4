package initialization

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/kbukum/initkit/scheduler"
)

// Dependency is anything a Processor must see initialized before running
// its own callback.
type Dependency interface {
	Initialize(ctx context.Context) error
	IsFinalized() bool
}

// Await initializes deps concurrently and waits for all of them. It returns
// the first error observed, unchanged; a panicking dependency is reported as
// a PANIC error.
func Await(ctx context.Context, deps ...Dependency) error {
	switch len(deps) {
	case 0:
		return nil
	case 1:
		return scheduler.Call(ctx, deps[0].Initialize)
	}

	var g errgroup.Group
	for _, dep := range deps {
		g.Go(func() error {
			return scheduler.Call(ctx, dep.Initialize)
		})
	}
	return g.Wait()
}
