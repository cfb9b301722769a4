//go:build !initdiag

package initialization

import (
	"context"

	"github.com/kbukum/initkit/scheduler"
)

const diagnostics = false

func invoke(ctx context.Context, owner string, sched scheduler.Scheduler, cb Callback) error {
	return scheduler.Call(ctx, func(ctx context.Context) error {
		return cb(ctx, sched)
	})
}
