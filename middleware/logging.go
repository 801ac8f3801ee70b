package middleware

import (
	"context"
	"log/slog"
	"time"
)

// Logging returns middleware that logs each hook invocation. Successful
// calls log at debug level to keep the hot path quiet; failures log at
// warn with the elapsed time.
func Logging(logger *slog.Logger) Middleware {
	return func(ctx context.Context, c *Call, next Handler) error {
		start := time.Now()
		err := next(ctx)
		elapsed := time.Since(start)

		if err != nil {
			logger.Warn("hook invocation failed",
				slog.String("hook", c.Event),
				slog.String("module", c.Module),
				slog.Duration("elapsed", elapsed),
				slog.String("error", err.Error()),
			)
		} else {
			logger.Debug("hook invocation completed",
				slog.String("hook", c.Event),
				slog.String("module", c.Module),
				slog.Duration("elapsed", elapsed),
			)
		}

		return err
	}
}
