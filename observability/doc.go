// Package observability wires OpenTelemetry tracing and metrics into the
// initialization runtime and event channels.
//
// Providers are optional. Without InitTracer/InitMeter the global otel
// providers are no-ops, and a nil *Metrics records nothing, so the runtime
// packages call into this package unconditionally.
//
// Setup:
//
//	shutdown, err := observability.Setup(ctx, cfg)
//	defer shutdown(ctx)
//
// Instruments:
//
//	metrics, err := observability.NewMetrics(observability.Meter("initkit"))
//	p := initialization.New("db", openDB, initialization.WithMetrics(metrics))
package observability
