// Package middleware provides composable middleware around hook module
// invocations. Middleware wraps each module call synchronously and can
// observe or guard it (recover from panics, log, trace, record metrics).
package middleware

import "context"

// Call identifies one hook invocation: which lifecycle event fired and
// which module is being called.
type Call struct {
	// Event is the lifecycle event name, e.g. "task_labels".
	Event string
	// Module is the name of the hook module being invoked.
	Module string
}

// Handler is the terminal function that performs the module call.
type Handler func(ctx context.Context) error

// Middleware wraps a Handler with cross-cutting logic. It receives the
// current context, the call being made, and the next handler. Middleware
// MUST call next to continue the chain (unless short-circuiting on error).
type Middleware func(ctx context.Context, c *Call, next Handler) error

// Chain composes multiple middleware into a single Middleware.
// Middleware are applied right-to-left: the first middleware in the
// list is the outermost wrapper.
//
// Example: Chain(logging, recovery, metrics) executes as:
//
//	logging → recovery → metrics → handler
func Chain(mws ...Middleware) Middleware {
	return func(ctx context.Context, c *Call, next Handler) error {
		h := next
		for i := len(mws) - 1; i >= 0; i-- {
			mw := mws[i]
			prev := h
			h = func(ctx context.Context) error {
				return mw(ctx, c, prev)
			}
		}
		return h(ctx)
	}
}
