package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
)

// Recover returns middleware that recovers from panics in a hook module.
// Panics are converted to errors and logged with a stack trace, so a
// panicking module is isolated exactly like an erroring one.
func Recover(logger *slog.Logger) Middleware {
	return func(ctx context.Context, c *Call, next Handler) (retErr error) {
		defer func() {
			if r := recover(); r != nil {
				stack := string(debug.Stack())
				logger.Error("hook module panicked",
					slog.String("hook", c.Event),
					slog.String("module", c.Module),
					slog.Any("panic", r),
					slog.String("stack", stack),
				)
				retErr = fmt.Errorf("panic in hook module %s: %v", c.Module, r)
			}
		}()
		return next(ctx)
	}
}
