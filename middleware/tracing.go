package middleware

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// tracerName is the instrumentation scope name for helmsman tracing.
const tracerName = "github.com/helmsman-orch/helmsman"

// Tracing returns middleware that wraps each hook invocation in an
// OpenTelemetry span. If no TracerProvider is configured globally, the
// default noop tracer is used and this middleware becomes a pass-through
// with zero overhead.
//
// Span attributes include: helmsman.hook.event and helmsman.hook.module.
// On error, the span status is set to codes.Error with the error message.
func Tracing() Middleware {
	tracer := otel.Tracer(tracerName)
	return TracingWithTracer(tracer)
}

// TracingWithTracer returns tracing middleware using the provided tracer.
// This variant allows injecting a specific TracerProvider for testing.
func TracingWithTracer(tracer trace.Tracer) Middleware {
	return func(ctx context.Context, c *Call, next Handler) error {
		ctx, span := tracer.Start(ctx, "helmsman.hook.invoke",
			trace.WithAttributes(
				attribute.String("helmsman.hook.event", c.Event),
				attribute.String("helmsman.hook.module", c.Module),
			),
			trace.WithSpanKind(trace.SpanKindInternal),
		)
		defer span.End()

		err := next(ctx)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}

		return err
	}
}
