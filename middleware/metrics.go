package middleware

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope name for helmsman metrics.
const meterName = "github.com/helmsman-orch/helmsman"

// Metrics returns middleware that records per-invocation metrics using
// the global OTel MeterProvider. If no MeterProvider is configured, noop
// instruments are used and this middleware becomes a pass-through.
//
// Instruments:
//   - helmsman.hook.duration (Float64Histogram): invocation time in
//     seconds, with attributes: hook, module, status ("ok" or "error")
//   - helmsman.hook.invocations (Int64Counter): total invocations,
//     with attributes: hook, module, status ("ok" or "error")
func Metrics() Middleware {
	meter := otel.Meter(meterName)
	return MetricsWithMeter(meter)
}

// MetricsWithMeter returns metrics middleware using the provided meter.
// This variant allows injecting a specific MeterProvider for testing.
func MetricsWithMeter(meter metric.Meter) Middleware {
	// Create instruments once at middleware construction time. On error
	// the OTel API returns noop instruments, so the middleware degrades
	// gracefully.
	duration, dErr := meter.Float64Histogram(
		"helmsman.hook.duration",
		metric.WithDescription("Duration of hook module invocations in seconds"),
		metric.WithUnit("s"),
	)
	_ = dErr

	invocations, iErr := meter.Int64Counter(
		"helmsman.hook.invocations",
		metric.WithDescription("Total number of hook module invocations"),
		metric.WithUnit("{invocation}"),
	)
	_ = iErr

	return func(ctx context.Context, c *Call, next Handler) error {
		start := time.Now()
		err := next(ctx)
		elapsed := time.Since(start).Seconds()

		status := "ok"
		if err != nil {
			status = "error"
		}

		attrs := metric.WithAttributes(
			attribute.String("hook", c.Event),
			attribute.String("module", c.Module),
			attribute.String("status", status),
		)

		duration.Record(ctx, elapsed, attrs)
		invocations.Add(ctx, 1, attrs)

		return err
	}
}
