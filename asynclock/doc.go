// Package asynclock provides a mutual-exclusion lock that can be held
// across blocking calls and released from a different goroutine than the
// one that acquired it.
//
// Unlike sync.Mutex, acquisition honors context cancellation, and the lock
// keeps an explicit queue of waiters. On release, ownership is handed
// directly to the oldest waiter, so a goroutine arriving later cannot barge
// ahead of one that is already queued.
//
// # Usage
//
//	lock := asynclock.New()
//	err := lock.Do(ctx, func(ctx context.Context) error {
//	    return slowSetup(ctx)
//	})
//
// Or, when the critical section spans several functions:
//
//	release, err := lock.Acquire(ctx)
//	if err != nil {
//	    return err
//	}
//	defer release()
package asynclock
