package observability

import (
	"context"
	"testing"
	"time"

	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newTestMetrics(t *testing.T) (*Metrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	m, err := NewMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("NewMetrics failed: %v", err)
	}
	return m, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("collect failed: %v", err)
	}
	out := map[string]metricdata.Metrics{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func sumInt(t *testing.T, m metricdata.Metrics) int64 {
	t.Helper()
	sum, ok := m.Data.(metricdata.Sum[int64])
	if !ok {
		t.Fatalf("metric %s is not an int64 sum", m.Name)
	}
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	ctx := context.Background()
	m.InitializationStarted(ctx, "db")
	m.InitializationFinished(ctx, "db", "succeeded", time.Second)
	m.EventPublished(ctx, "c")
	m.EventDelivered(ctx, "c")
	m.EventRejected(ctx, "c")
}

func TestInitializationMetrics(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.InitializationStarted(ctx, "db")
	m.InitializationFinished(ctx, "db", "failed", 10*time.Millisecond)

	got := collect(t, reader)
	if v := sumInt(t, got[MetricInitializationTotal]); v != 1 {
		t.Errorf("expected 1 initialization, got %d", v)
	}
	if v := sumInt(t, got[MetricInitializationInflight]); v != 0 {
		t.Errorf("expected inflight back to 0, got %d", v)
	}

	sum := got[MetricInitializationTotal].Data.(metricdata.Sum[int64])
	status, _ := sum.DataPoints[0].Attributes.Value(attribute.Key(AttrStatus))
	if status.AsString() != "failed" {
		t.Errorf("expected status=failed, got %q", status.AsString())
	}
	if _, ok := got[MetricInitializationDuration].Data.(metricdata.Histogram[float64]); !ok {
		t.Error("expected duration histogram")
	}
}

func TestChannelMetrics(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.EventPublished(ctx, "orders")
	m.EventPublished(ctx, "orders")
	m.EventDelivered(ctx, "orders")
	m.EventRejected(ctx, "orders")

	got := collect(t, reader)
	if v := sumInt(t, got[MetricChannelPublished]); v != 2 {
		t.Errorf("expected 2 published, got %d", v)
	}
	if v := sumInt(t, got[MetricChannelDelivered]); v != 1 {
		t.Errorf("expected 1 delivered, got %d", v)
	}
	if v := sumInt(t, got[MetricChannelRejected]); v != 1 {
		t.Errorf("expected 1 rejected, got %d", v)
	}
	if v := sumInt(t, got[MetricChannelDepth]); v != 1 {
		t.Errorf("expected depth 1, got %d", v)
	}
}

func TestSetupDisabled(t *testing.T) {
	shutdown, err := Setup(context.Background(), Config{})
	if err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("shutdown failed: %v", err)
	}
}

func TestConfig(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if cfg.Endpoint != "localhost:4318" {
		t.Errorf("expected default endpoint, got %q", cfg.Endpoint)
	}
	if cfg.Interval != 15*time.Second {
		t.Errorf("expected 15s interval, got %s", cfg.Interval)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := (&Config{SampleRate: 2}).Validate(); err == nil {
		t.Error("expected error for sample rate above 1")
	}
	if err := (&Config{Enabled: true}).Validate(); err == nil {
		t.Error("expected error for enabled without endpoint")
	}
}

func TestNewResource(t *testing.T) {
	res, err := newResource("svc", "1.0.0", "test")
	if err != nil {
		t.Fatalf("newResource failed: %v", err)
	}
	v, ok := res.Set().Value(attribute.Key("service.name"))
	if !ok || v.AsString() != "svc" {
		t.Errorf("expected service.name=svc, got %v", v)
	}
}
