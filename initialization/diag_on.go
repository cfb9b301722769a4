//go:build initdiag

package initialization

import (
	"context"
	"sync/atomic"

	"github.com/kbukum/initkit/scheduler"
)

const diagnostics = true

// trackedScheduler counts foreground borrows still running.
type trackedScheduler struct {
	scheduler.Scheduler
	borrows atomic.Int64
}

func (t *trackedScheduler) RunOnForeground(ctx context.Context, fn scheduler.Func) error {
	t.borrows.Add(1)
	defer t.borrows.Add(-1)
	return t.Scheduler.RunOnForeground(ctx, fn)
}

func invoke(ctx context.Context, owner string, sched scheduler.Scheduler, cb Callback) error {
	entered := scheduler.AffinityOf(ctx)
	tracked := &trackedScheduler{Scheduler: sched}

	err := scheduler.Call(ctx, func(ctx context.Context) error {
		return cb(ctx, tracked)
	})

	if aerr := checkAffinity(owner, entered, tracked.borrows.Load()); aerr != nil {
		panic(aerr)
	}
	return err
}
