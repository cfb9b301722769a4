package eventchannel

import (
	"github.com/kbukum/initkit/logger"
	"github.com/kbukum/initkit/observability"
)

type options struct {
	name    string
	log     logger.Sink
	metrics *observability.Metrics
}

// Option configures a Channel.
type Option func(*options)

// WithName sets the channel name used in errors, logs and metrics.
func WithName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.name = name
		}
	}
}

// WithLogger sets the diagnostic sink.
func WithLogger(l logger.Sink) Option {
	return func(o *options) { o.log = l }
}

// WithMetrics enables metric recording.
func WithMetrics(m *observability.Metrics) Option {
	return func(o *options) { o.metrics = m }
}
