package audithook

import "log/slog"

// Option configures a Hook.
type Option func(*Hook)

// WithActions restricts the hook to emit only the listed actions.
// By default all actions are enabled. Unknown actions are silently ignored.
//
// Example:
//
//	audithook.New(recorder,
//	    audithook.WithActions(
//	        audithook.ActionNodeLost,
//	        audithook.ActionExecutorRemoved,
//	    ),
//	)
func WithActions(actions ...string) Option {
	return func(h *Hook) {
		h.enabled = make(map[string]bool, len(actions))
		for _, a := range actions {
			h.enabled[a] = true
		}
	}
}

// WithLogger sets a custom logger for the hook.
func WithLogger(l *slog.Logger) Option {
	return func(h *Hook) { h.logger = l }
}
