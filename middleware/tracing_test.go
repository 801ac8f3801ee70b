package middleware_test

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	"github.com/helmsman-orch/helmsman/middleware"
)

func setupTestTracer() (*tracetest.SpanRecorder, trace.Tracer) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	return sr, tp.Tracer("test")
}

func TestTracing_CreatesSpan(t *testing.T) {
	sr, tracer := setupTestTracer()
	m := middleware.TracingWithTracer(tracer)

	err := m(context.Background(), testCall(), func(_ context.Context) error {
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	spans := sr.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Name() != "helmsman.hook.invoke" {
		t.Errorf("span name = %q, want %q", spans[0].Name(), "helmsman.hook.invoke")
	}
}

func TestTracing_SpanAttributes(t *testing.T) {
	sr, tracer := setupTestTracer()
	m := middleware.TracingWithTracer(tracer)

	_ = m(context.Background(), testCall(), func(_ context.Context) error {
		return nil
	})

	spans := sr.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	attrs := make(map[attribute.Key]string)
	for _, kv := range spans[0].Attributes() {
		attrs[kv.Key] = kv.Value.AsString()
	}
	if attrs["helmsman.hook.event"] != "task_labels" {
		t.Errorf("event attr = %q", attrs["helmsman.hook.event"])
	}
	if attrs["helmsman.hook.module"] != "labeler" {
		t.Errorf("module attr = %q", attrs["helmsman.hook.module"])
	}
}

func TestTracing_ErrorStatus(t *testing.T) {
	sr, tracer := setupTestTracer()
	m := middleware.TracingWithTracer(tracer)

	boom := errors.New("hook boom")
	err := m(context.Background(), testCall(), func(_ context.Context) error {
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected error passed through, got %v", err)
	}

	spans := sr.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Status().Code != codes.Error {
		t.Errorf("span status = %v, want Error", spans[0].Status().Code)
	}
}
