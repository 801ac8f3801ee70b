// Package modules provides the in-memory module registry that backs the
// hook manager's name resolution. The host registers a factory per module
// name at startup; the hook manager resolves names through the
// hook.Resolver interface this registry implements.
package modules

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/helmsman-orch/helmsman/hook"
)

var (
	// ErrAlreadyRegistered is returned when a factory is registered
	// under a name that is already taken.
	ErrAlreadyRegistered = errors.New("helmsman: module already registered")
	// ErrUnknownModule is returned by Create for an unregistered name.
	ErrUnknownModule = errors.New("helmsman: unknown module")
)

// Factory constructs a fresh hook instance. It is called once per Load of
// the module's name, so a module unloaded and re-loaded gets a new
// instance.
type Factory func() (hook.Hook, error)

// Registry maps module names to factories. It is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// Compile-time interface check.
var _ hook.Resolver = (*Registry)(nil)

// NewRegistry creates an empty module registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory under the given name.
func (r *Registry) Register(name string, f Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.factories[name]; ok {
		return fmt.Errorf("module %q: %w", name, ErrAlreadyRegistered)
	}
	r.factories[name] = f
	return nil
}

// Contains implements hook.Resolver.
func (r *Registry) Contains(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.factories[name]
	return ok
}

// Create implements hook.Resolver.
func (r *Registry) Create(name string) (hook.Hook, error) {
	r.mu.RLock()
	f, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("module %q: %w", name, ErrUnknownModule)
	}
	return f()
}

// Names returns the registered module names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
