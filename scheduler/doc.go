// Package scheduler provides the thread-scheduling handle used by the
// initialization runtime: one privileged foreground loop plus a bounded
// background worker pool.
//
// Goroutines carry no identity, so affinity travels in the context.
// Work started by a Scheduler receives a context tagged with where it
// runs, and IsForeground answers from that tag. Code that needs to hop
// pools calls Run (background) or RunOnForeground. Hopping to the pool
// you are already on runs the work inline, so nested calls cannot starve
// the pool.
//
// A goroutine running on the foreground loop that blocks on background
// work which itself needs the foreground loop will deadlock. Foreground
// code should start such work with Go and continue without waiting.
//
// # Usage
//
//	d := scheduler.NewDispatcher(scheduler.Config{Workers: 4})
//	d.Start()
//	defer d.Stop(ctx)
//
//	err := d.Run(ctx, func(ctx context.Context) error {
//	    return d.RunOnForeground(ctx, refreshView)
//	})
package scheduler
