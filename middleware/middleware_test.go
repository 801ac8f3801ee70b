package middleware_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/helmsman-orch/helmsman/middleware"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testCall() *middleware.Call {
	return &middleware.Call{Event: "task_labels", Module: "labeler"}
}

func TestChain_ExecutionOrder(t *testing.T) {
	var order []string

	mw1 := func(ctx context.Context, _ *middleware.Call, next middleware.Handler) error {
		order = append(order, "mw1-before")
		err := next(ctx)
		order = append(order, "mw1-after")
		return err
	}

	mw2 := func(ctx context.Context, _ *middleware.Call, next middleware.Handler) error {
		order = append(order, "mw2-before")
		err := next(ctx)
		order = append(order, "mw2-after")
		return err
	}

	chain := middleware.Chain(mw1, mw2)
	handler := func(_ context.Context) error {
		order = append(order, "handler")
		return nil
	}

	if err := chain(context.Background(), testCall(), handler); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := []string{"mw1-before", "mw2-before", "handler", "mw2-after", "mw1-after"}
	if len(order) != len(expected) {
		t.Fatalf("expected %d calls, got %d: %v", len(expected), len(order), order)
	}
	for i, want := range expected {
		if order[i] != want {
			t.Errorf("order[%d] = %q, want %q", i, order[i], want)
		}
	}
}

func TestChain_Empty(t *testing.T) {
	chain := middleware.Chain()
	called := false
	handler := func(_ context.Context) error {
		called = true
		return nil
	}
	if err := chain(context.Background(), testCall(), handler); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Error("handler not called through empty chain")
	}
}

func TestChain_ErrorPropagates(t *testing.T) {
	boom := errors.New("hook boom")
	chain := middleware.Chain(
		func(ctx context.Context, _ *middleware.Call, next middleware.Handler) error {
			return next(ctx)
		},
	)
	err := chain(context.Background(), testCall(), func(_ context.Context) error {
		return boom
	})
	if !errors.Is(err, boom) {
		t.Errorf("expected handler error, got %v", err)
	}
}

func TestRecover_ConvertsPanicToError(t *testing.T) {
	m := middleware.Recover(discardLogger())
	err := m(context.Background(), testCall(), func(_ context.Context) error {
		panic("module exploded")
	})
	if err == nil {
		t.Fatal("expected error from recovered panic")
	}
	if !strings.Contains(err.Error(), "labeler") {
		t.Errorf("error should name the module: %v", err)
	}
}

func TestRecover_PassThroughOnSuccess(t *testing.T) {
	m := middleware.Recover(discardLogger())
	if err := m(context.Background(), testCall(), func(_ context.Context) error {
		return nil
	}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLogging_PassesErrorThrough(t *testing.T) {
	boom := errors.New("hook boom")
	m := middleware.Logging(discardLogger())
	err := m(context.Background(), testCall(), func(_ context.Context) error {
		return boom
	})
	if !errors.Is(err, boom) {
		t.Errorf("expected error passed through, got %v", err)
	}
}

func TestLogging_LogsFailureAtWarn(t *testing.T) {
	var buf strings.Builder
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	m := middleware.Logging(logger)

	_ = m(context.Background(), testCall(), func(_ context.Context) error {
		return errors.New("hook boom")
	})

	out := buf.String()
	if !strings.Contains(out, "level=WARN") {
		t.Errorf("expected warn log, got %q", out)
	}
	if !strings.Contains(out, "module=labeler") {
		t.Errorf("expected module attr, got %q", out)
	}
}
