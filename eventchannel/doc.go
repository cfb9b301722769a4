// Package eventchannel bridges push-style event sources to a single
// pull-style consumer.
//
// A Channel is an unbounded FIFO queue. Publish never blocks the producer;
// Next blocks the consumer until an event arrives or the channel is closed.
// Closing is permanent and idempotent. Events already queued when Close is
// called are still delivered, in order, before Next reports the close.
//
//	ch := eventchannel.New[OrderPlaced](eventchannel.WithName("orders"))
//	go source.Subscribe(eventchannel.NewSink(ch))
//
//	err := eventchannel.Drain(ctx, ch, func(ctx context.Context, ev OrderPlaced) error {
//	    return handle(ctx, ev)
//	})
//
// One producer and one consumer are assumed. Concurrent Next calls from
// two consumers are not supported.
package eventchannel
