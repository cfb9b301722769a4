package scheduler

import (
	"context"
	"runtime/debug"

	apperrors "github.com/kbukum/initkit/errors"
)

// Affinity describes which execution context a piece of work is bound to.
type Affinity int

const (
	// AffinityNone is the affinity of a context no scheduler has tagged.
	AffinityNone Affinity = iota
	// AffinityForeground marks work running on the foreground loop.
	AffinityForeground
	// AffinityBackground marks work running on the background pool.
	AffinityBackground
)

// String returns the affinity name.
func (a Affinity) String() string {
	switch a {
	case AffinityForeground:
		return "foreground"
	case AffinityBackground:
		return "background"
	default:
		return "none"
	}
}

type affinityKey struct{}

// WithAffinity returns a copy of ctx tagged with a.
func WithAffinity(ctx context.Context, a Affinity) context.Context {
	return context.WithValue(ctx, affinityKey{}, a)
}

// AffinityOf returns the affinity ctx was tagged with.
func AffinityOf(ctx context.Context) Affinity {
	if a, ok := ctx.Value(affinityKey{}).(Affinity); ok {
		return a
	}
	return AffinityNone
}

// Func is a unit of work handed to a Scheduler.
type Func func(ctx context.Context) error

// Call runs fn and converts a panic into an error carrying the stack.
func Call(ctx context.Context, fn Func) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = apperrors.Panic(r, debug.Stack())
		}
	}()
	return fn(ctx)
}
