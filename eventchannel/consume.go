package eventchannel

import (
	"context"

	"github.com/kbukum/initkit/logger"
)

// Drain calls fn for every event until the channel is closed and empty.
// It stops early with fn's error or ctx.Err().
func Drain[T Event](ctx context.Context, ch *Channel[T], fn func(ctx context.Context, item T) error) error {
	for {
		item, ok, err := ch.Next(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if err := fn(ctx, item); err != nil {
			return err
		}
	}
}

// Sink is a push callback for event sources that cannot handle errors.
type Sink[T Event] func(item T)

// NewSink returns a Sink that publishes into ch. A publish after close is
// logged unconditionally and counted as rejected instead of being returned.
func NewSink[T Event](ch *Channel[T]) Sink[T] {
	return func(item T) {
		if err := ch.Publish(item); err != nil {
			ch.log.Always(ch.name, "publish after close", logger.Fields(
				logger.FieldChannel, ch.name,
				"event_type", eventType(item),
				logger.FieldError, err.Error(),
			))
		}
	}
}
