// Package initialization runs a subsystem's one-time setup exactly once and
// remembers how it went.
//
// A Processor owns a callback and a set of dependencies. The first call to
// Initialize hands the run to the scheduler as detached work, which takes
// the processor's async lock, initializes every dependency concurrently and
// then runs the callback. Callers wait without occupying a worker slot, so
// the callback has the whole background pool to itself.
// The outcome is stored permanently: later callers get nil after success,
// or the very error value the first run produced after failure. A failed
// processor is never retried; build a new one to try again.
//
// Basic usage:
//
//	db := initialization.New("database", func(ctx context.Context, s scheduler.Scheduler) error {
//	    return pool.Ping(ctx)
//	})
//	api := initialization.New("api", startAPI,
//	    initialization.WithDependencies(db),
//	    initialization.WithScheduler(dispatcher),
//	)
//	if err := api.Initialize(ctx); err != nil {
//	    return err
//	}
//
// A callback that borrows the foreground loop through RunOnForeground must
// return it before the callback itself returns. Builds tagged initdiag
// check this and fail the run with a PANIC error on violation; release
// builds do not check.
//
// Foreground code must not block on Initialize while the callback needs the
// foreground loop. Use Go on the scheduler and select on its result instead.
package initialization
