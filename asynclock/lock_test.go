package asynclock

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func waitForWaiters(t *testing.T, l *Lock, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for l.Waiters() != n {
		if time.Now().After(deadline) {
			t.Fatalf("expected %d waiters, got %d", n, l.Waiters())
		}
		time.Sleep(time.Millisecond)
	}
}

func TestAcquireRelease(t *testing.T) {
	l := New()
	if l.Locked() {
		t.Fatal("expected new lock to be free")
	}

	release, err := l.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	if !l.Locked() {
		t.Error("expected lock to be held after Acquire")
	}

	release()
	if l.Locked() {
		t.Error("expected lock to be free after release")
	}
}

func TestReleaseIsIdempotent(t *testing.T) {
	l := New()
	first, _ := l.Acquire(context.Background())
	first()

	second, ok := l.TryAcquire()
	if !ok {
		t.Fatal("expected TryAcquire to succeed on free lock")
	}
	// A stale release must not free someone else's hold.
	first()
	if !l.Locked() {
		t.Error("expected lock to stay held after a repeated release")
	}
	second()
}

func TestMutualExclusion(t *testing.T) {
	l := New()
	const workers = 50

	var active, maxActive int32
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := l.Do(context.Background(), func(ctx context.Context) error {
				n := atomic.AddInt32(&active, 1)
				for {
					m := atomic.LoadInt32(&maxActive)
					if n <= m || atomic.CompareAndSwapInt32(&maxActive, m, n) {
						break
					}
				}
				time.Sleep(100 * time.Microsecond)
				atomic.AddInt32(&active, -1)
				return nil
			})
			if err != nil {
				t.Errorf("Do failed: %v", err)
			}
		}()
	}
	wg.Wait()

	if maxActive != 1 {
		t.Errorf("expected at most 1 holder, observed %d", maxActive)
	}
	if l.Locked() {
		t.Error("expected lock to be free after all workers finish")
	}
}

func TestReleaseFromAnotherGoroutine(t *testing.T) {
	l := New()
	release, _ := l.Acquire(context.Background())

	done := make(chan struct{})
	go func() {
		release()
		close(done)
	}()
	<-done

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	r2, err := l.Acquire(ctx)
	if err != nil {
		t.Fatalf("expected acquire after cross-goroutine release, got %v", err)
	}
	r2()
}

func TestAcquireHonorsCancellation(t *testing.T) {
	l := New()
	release, _ := l.Acquire(context.Background())
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	r, err := l.Acquire(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if r != nil {
		t.Error("expected nil release on failed acquire")
	}
	if n := l.Waiters(); n != 0 {
		t.Errorf("expected cancelled waiter to be removed, got %d", n)
	}
}

func TestAcquireWithDoneContext(t *testing.T) {
	l := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := l.Acquire(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected canceled, got %v", err)
	}
	if l.Locked() {
		t.Error("expected lock to remain free")
	}
}

func TestHandOffOrder(t *testing.T) {
	l := New()
	release, _ := l.Acquire(context.Background())

	var mu sync.Mutex
	var order []int
	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			_ = l.Do(context.Background(), func(ctx context.Context) error {
				mu.Lock()
				order = append(order, id)
				mu.Unlock()
				return nil
			})
		}(i)
		waitForWaiters(t, l, i+1)
	}

	release()
	wg.Wait()

	for i, id := range order {
		if id != i {
			t.Fatalf("expected hand-off order [0 1 2], got %v", order)
		}
	}
}

func TestCancelledWaiterDoesNotBlockOthers(t *testing.T) {
	l := New()
	release, _ := l.Acquire(context.Background())

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		_, err := l.Acquire(ctx)
		errCh <- err
	}()
	waitForWaiters(t, l, 1)

	got := make(chan struct{})
	go func() {
		r, err := l.Acquire(context.Background())
		if err == nil {
			r()
		}
		close(got)
	}()
	waitForWaiters(t, l, 2)

	cancel()
	if err := <-errCh; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected canceled, got %v", err)
	}
	release()

	select {
	case <-got:
	case <-time.After(2 * time.Second):
		t.Fatal("second waiter never acquired the lock")
	}
}

func TestDoReleasesOnError(t *testing.T) {
	l := New()
	want := errors.New("critical section failed")
	if err := l.Do(context.Background(), func(ctx context.Context) error { return want }); err != want {
		t.Fatalf("expected %v, got %v", want, err)
	}
	if l.Locked() {
		t.Error("expected lock to be released after error")
	}
}

func TestDoReleasesOnPanic(t *testing.T) {
	l := New()
	func() {
		defer func() {
			if r := recover(); r == nil {
				t.Error("expected panic to propagate")
			}
		}()
		_ = l.Do(context.Background(), func(ctx context.Context) error { panic("boom") })
	}()
	if l.Locked() {
		t.Error("expected lock to be released after panic")
	}
}

func TestTryAcquire(t *testing.T) {
	l := New()
	release, ok := l.TryAcquire()
	if !ok {
		t.Fatal("expected TryAcquire to succeed")
	}
	if _, ok := l.TryAcquire(); ok {
		t.Error("expected TryAcquire to fail while held")
	}
	release()
}
