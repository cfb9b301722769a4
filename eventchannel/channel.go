package eventchannel

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	apperrors "github.com/kbukum/initkit/errors"
	"github.com/kbukum/initkit/logger"
	"github.com/kbukum/initkit/observability"
)

// ErrClosed is the cause of every error returned by Publish after Close.
var ErrClosed = errors.New("eventchannel: closed")

// Event marks a type that may travel through a Channel.
type Event interface {
	EventType() string
}

// Channel is an unbounded single-producer single-consumer event queue.
type Channel[T Event] struct {
	id   string
	name string

	mu     sync.Mutex
	queue  []T
	closed bool

	notify chan struct{}
	done   chan struct{}

	log     logger.Sink
	metrics *observability.Metrics
}

// New creates an open channel.
func New[T Event](opts ...Option) *Channel[T] {
	o := options{name: "events"}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = logger.Get(logger.NameEventChannel)
	}
	return &Channel[T]{
		id:      uuid.NewString(),
		name:    o.name,
		notify:  make(chan struct{}, 1),
		done:    make(chan struct{}),
		log:     o.log,
		metrics: o.metrics,
	}
}

// ID returns the channel's unique id.
func (c *Channel[T]) ID() string { return c.id }

// Name returns the channel name.
func (c *Channel[T]) Name() string { return c.name }

// Publish appends item to the queue without blocking. After Close it
// returns a CHANNEL_CLOSED error wrapping ErrClosed and drops nothing
// that was already queued.
func (c *Channel[T]) Publish(item T) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		c.metrics.EventRejected(context.Background(), c.name)
		return apperrors.ChannelClosed(c.name).
			WithCause(ErrClosed).
			WithDetail("event_type", eventType(item))
	}
	c.queue = append(c.queue, item)
	c.mu.Unlock()

	c.metrics.EventPublished(context.Background(), c.name)
	select {
	case c.notify <- struct{}{}:
	default:
	}
	return nil
}

// eventType returns item's type, or "" when EventType panics, as it may
// for a nil pointer event.
func eventType[T Event](item T) (typ string) {
	defer func() {
		if recover() != nil {
			typ = ""
		}
	}()
	return item.EventType()
}

// Next returns the oldest queued event. It blocks until one is available
// or the channel is closed and empty, in which case ok is false and err is
// nil. The only error is ctx.Err() when the consumer's own ctx ends first.
func (c *Channel[T]) Next(ctx context.Context) (item T, ok bool, err error) {
	for {
		c.mu.Lock()
		if len(c.queue) > 0 {
			item = c.queue[0]
			var zero T
			c.queue[0] = zero
			c.queue = c.queue[1:]
			if len(c.queue) == 0 {
				c.queue = nil
			}
			c.mu.Unlock()
			c.metrics.EventDelivered(ctx, c.name)
			return item, true, nil
		}
		closed := c.closed
		c.mu.Unlock()

		if closed {
			return item, false, nil
		}

		select {
		case <-c.notify:
		case <-c.done:
		case <-ctx.Done():
			return item, false, ctx.Err()
		}
	}
}

// Close marks the channel closed and wakes a blocked Next. Calling it
// again is a no-op. It always returns nil.
func (c *Channel[T]) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	pending := len(c.queue)
	close(c.done)
	c.mu.Unlock()

	c.log.Verbose(c.name, "channel closed", logger.Fields(
		logger.FieldChannel, c.name,
		"pending", pending,
	))
	return nil
}

// Len returns the number of queued events.
func (c *Channel[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.queue)
}

// IsClosed reports whether Close has been called.
func (c *Channel[T]) IsClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Done is closed when the channel is closed. Queued events may remain.
func (c *Channel[T]) Done() <-chan struct{} {
	return c.done
}
