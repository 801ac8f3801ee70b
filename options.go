package helmsman

import (
	"log/slog"

	"github.com/helmsman-orch/helmsman/hook"
	"github.com/helmsman-orch/helmsman/middleware"
)

// Option configures an Agent.
type Option func(*Agent) error

// Agent is the host-facing facade: it owns the hook manager and loads the
// configured modules. The host calls dispatch methods on Hooks() from its
// lifecycle code paths.
type Agent struct {
	config   Config
	logger   *slog.Logger
	resolver hook.Resolver
	mws      []middleware.Middleware
	hooks    *hook.Manager
}

// New creates an Agent with the given options. A resolver is required.
func New(opts ...Option) (*Agent, error) {
	a := &Agent{
		config: DefaultConfig(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}
	if a.resolver == nil {
		return nil, ErrNoResolver
	}
	a.hooks = hook.NewManager(a.resolver, a.logger, hook.WithMiddleware(a.mws...))
	return a, nil
}

// Initialize loads the configured hook modules, in order. Loading stops
// at the first failure; modules loaded before it stay loaded.
func (a *Agent) Initialize() error {
	return a.hooks.Load(a.config.HookModules)
}

// Hooks returns the hook manager.
func (a *Agent) Hooks() *hook.Manager { return a.hooks }

// Logger returns the agent's logger.
func (a *Agent) Logger() *slog.Logger { return a.logger }

// Config returns a copy of the agent's configuration.
func (a *Agent) Config() Config { return a.config }

// WithLogger sets the structured logger for the agent and hook manager.
func WithLogger(l *slog.Logger) Option {
	return func(a *Agent) error {
		a.logger = l
		return nil
	}
}

// WithResolver sets the module resolver used to construct hook modules.
func WithResolver(r hook.Resolver) Option {
	return func(a *Agent) error {
		a.resolver = r
		return nil
	}
}

// WithHookModules sets the ordered list of hook modules to load at
// initialization.
func WithHookModules(names ...string) Option {
	return func(a *Agent) error {
		a.config.HookModules = names
		return nil
	}
}

// WithHookList sets the hook modules from a comma-separated list, the
// form the host's flag parsing produces.
func WithHookList(hookList string) Option {
	return func(a *Agent) error {
		a.config.HookModules = ParseHookList(hookList)
		return nil
	}
}

// WithHookMiddleware wraps every hook invocation with the given
// middleware, outermost first.
func WithHookMiddleware(mws ...middleware.Middleware) Option {
	return func(a *Agent) error {
		a.mws = append(a.mws, mws...)
		return nil
	}
}
