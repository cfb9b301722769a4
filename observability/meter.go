package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/initkit/logger"
)

// Metric names.
const (
	MetricInitializationTotal    = "initialization.total"
	MetricInitializationDuration = "initialization.duration"
	MetricInitializationInflight = "initialization.inflight"
	MetricChannelPublished       = "eventchannel.published"
	MetricChannelDelivered       = "eventchannel.delivered"
	MetricChannelRejected        = "eventchannel.rejected"
	MetricChannelDepth           = "eventchannel.depth"
)

// InitMeter initializes the OpenTelemetry meter provider with an OTLP HTTP
// exporter. The provider should be shut down on application exit.
func InitMeter(ctx context.Context, cfg Config) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(cfg.ServiceName, cfg.ServiceVersion, cfg.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if cfg.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(cfg.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"service", cfg.ServiceName,
		"endpoint", cfg.Endpoint,
		"interval", cfg.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	if name == "" {
		name = defaultTracerName
	}
	return otel.Meter(name)
}

// Metrics holds the instruments recorded by processors and channels.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	initTotal    metric.Int64Counter
	initDuration metric.Float64Histogram
	initInflight metric.Int64UpDownCounter
	published    metric.Int64Counter
	delivered    metric.Int64Counter
	rejected     metric.Int64Counter
	depth        metric.Int64UpDownCounter
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	initTotal, err := meter.Int64Counter(MetricInitializationTotal,
		metric.WithDescription("Completed initializations by owner and outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricInitializationTotal, err)
	}

	initDuration, err := meter.Float64Histogram(MetricInitializationDuration,
		metric.WithDescription("Duration of initialization work in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s histogram: %w", MetricInitializationDuration, err)
	}

	initInflight, err := meter.Int64UpDownCounter(MetricInitializationInflight,
		metric.WithDescription("Initializations currently running"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s gauge: %w", MetricInitializationInflight, err)
	}

	published, err := meter.Int64Counter(MetricChannelPublished,
		metric.WithDescription("Events accepted by a channel"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricChannelPublished, err)
	}

	delivered, err := meter.Int64Counter(MetricChannelDelivered,
		metric.WithDescription("Events handed to a consumer"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricChannelDelivered, err)
	}

	rejected, err := meter.Int64Counter(MetricChannelRejected,
		metric.WithDescription("Publishes rejected because the channel was closed"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricChannelRejected, err)
	}

	depth, err := meter.Int64UpDownCounter(MetricChannelDepth,
		metric.WithDescription("Events queued and not yet delivered"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s gauge: %w", MetricChannelDepth, err)
	}

	return &Metrics{
		initTotal:    initTotal,
		initDuration: initDuration,
		initInflight: initInflight,
		published:    published,
		delivered:    delivered,
		rejected:     rejected,
		depth:        depth,
	}, nil
}

// InitializationStarted marks one initialization as running.
func (m *Metrics) InitializationStarted(ctx context.Context, owner string) {
	if m == nil {
		return
	}
	m.initInflight.Add(ctx, 1, metric.WithAttributes(attribute.String(AttrOwner, owner)))
}

// InitializationFinished records the outcome of one initialization.
func (m *Metrics) InitializationFinished(ctx context.Context, owner, status string, d time.Duration) {
	if m == nil {
		return
	}
	ownerAttr := attribute.String(AttrOwner, owner)
	m.initInflight.Add(ctx, -1, metric.WithAttributes(ownerAttr))
	m.initTotal.Add(ctx, 1, metric.WithAttributes(ownerAttr, attribute.String(AttrStatus, status)))
	m.initDuration.Record(ctx, d.Seconds(), metric.WithAttributes(ownerAttr))
}

// EventPublished records an accepted publish.
func (m *Metrics) EventPublished(ctx context.Context, channel string) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String(AttrChannel, channel))
	m.published.Add(ctx, 1, attrs)
	m.depth.Add(ctx, 1, attrs)
}

// EventDelivered records an event handed to the consumer.
func (m *Metrics) EventDelivered(ctx context.Context, channel string) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String(AttrChannel, channel))
	m.delivered.Add(ctx, 1, attrs)
	m.depth.Add(ctx, -1, attrs)
}

// EventRejected records a publish refused by a closed channel.
func (m *Metrics) EventRejected(ctx context.Context, channel string) {
	if m == nil {
		return
	}
	m.rejected.Add(ctx, 1, metric.WithAttributes(attribute.String(AttrChannel, channel)))
}
