package asynclock

import (
	"container/list"
	"context"
	"sync"
)

// Release gives up a held lock. Calling it more than once is a no-op.
type Release func()

// Lock is a context-aware mutual-exclusion lock with a FIFO waiter queue.
// The zero value is not usable; call New.
type Lock struct {
	mu      sync.Mutex
	held    bool
	waiters list.List // of chan struct{}
}

// New creates an unlocked Lock.
func New() *Lock {
	return &Lock{}
}

// Acquire blocks until the lock is held or ctx is done. On success it
// returns the Release for this hold; on failure it returns ctx.Err() and
// the caller holds nothing.
func (l *Lock) Acquire(ctx context.Context) (Release, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.mu.Lock()
	if !l.held && l.waiters.Len() == 0 {
		l.held = true
		l.mu.Unlock()
		return l.newRelease(), nil
	}
	ready := make(chan struct{})
	elem := l.waiters.PushBack(ready)
	l.mu.Unlock()

	select {
	case <-ready:
		return l.newRelease(), nil
	case <-ctx.Done():
		l.mu.Lock()
		select {
		case <-ready:
			// Ownership arrived while we were giving up; pass it on.
			l.mu.Unlock()
			l.release()
		default:
			l.waiters.Remove(elem)
			l.mu.Unlock()
		}
		return nil, ctx.Err()
	}
}

// TryAcquire takes the lock only if it is free and nobody is queued.
func (l *Lock) TryAcquire() (Release, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held || l.waiters.Len() > 0 {
		return nil, false
	}
	l.held = true
	return l.newRelease(), true
}

// Do runs fn while holding the lock. The lock is released on every exit
// path; a panic in fn propagates after the release.
func (l *Lock) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	release, err := l.Acquire(ctx)
	if err != nil {
		return err
	}
	defer release()
	return fn(ctx)
}

// Locked reports whether the lock is currently held.
func (l *Lock) Locked() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.held
}

// Waiters returns the number of goroutines queued in Acquire.
func (l *Lock) Waiters() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.waiters.Len()
}

func (l *Lock) newRelease() Release {
	var once sync.Once
	return func() { once.Do(l.release) }
}

// release hands the lock to the oldest waiter, or marks it free.
func (l *Lock) release() {
	l.mu.Lock()
	defer l.mu.Unlock()
	front := l.waiters.Front()
	if front == nil {
		l.held = false
		return
	}
	l.waiters.Remove(front)
	close(front.Value.(chan struct{}))
}
