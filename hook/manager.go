package hook

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/helmsman-orch/helmsman/meta"
	"github.com/helmsman-orch/helmsman/middleware"
)

var (
	// ErrAlreadyLoaded is returned by Load when a module with the same
	// name is already in the registry.
	ErrAlreadyLoaded = errors.New("helmsman: hook module already loaded")
	// ErrModuleNotFound is returned by Load when the resolver knows no
	// module with the requested name.
	ErrModuleNotFound = errors.New("helmsman: no such hook module")
	// ErrInstantiationFailed is returned by Load when the resolver fails
	// to construct the module.
	ErrInstantiationFailed = errors.New("helmsman: hook module instantiation failed")
	// ErrNotLoaded is returned by Unload for a module that is not loaded.
	ErrNotLoaded = errors.New("helmsman: hook module not loaded")
	// ErrDecorationFailed is returned by DecorateContainerEnvironment
	// when any one module's concurrent call fails.
	ErrDecorationFailed = errors.New("helmsman: container environment decoration failed")
)

// Named entry types pair a hook implementation with the module name
// captured at load time. This avoids type-asserting back to Hook inside
// the dispatch methods.
type taskLabelEntry struct {
	name string
	hook TaskLabelDecorator
}

type runTaskLabelEntry struct {
	name string
	hook RunTaskLabelDecorator
}

type executorEnvEntry struct {
	name string
	hook ExecutorEnvironmentDecorator
}

type taskStatusEntry struct {
	name string
	hook TaskStatusDecorator
}

type nodeResourcesEntry struct {
	name string
	hook NodeResourcesDecorator
}

type nodeAttributesEntry struct {
	name string
	hook NodeAttributesDecorator
}

type containerEnvEntry struct {
	name string
	hook ContainerEnvironmentDecorator
}

type nodeLostEntry struct {
	name string
	hook NodeLostHandler
}

type containerLaunchEntry struct {
	name string
	hook ContainerLaunchHandler
}

type postFetchEntry struct {
	name string
	hook PostFetchHandler
}

type executorRemovedEntry struct {
	name string
	hook ExecutorRemovedHandler
}

// entry is one loaded module in registry order.
type entry struct {
	name string
	hook Hook
}

// Manager owns the set of loaded hook modules and dispatches lifecycle
// events to them.
//
// Modules are kept in load order, and order is a contract: sequential
// decorators fold results so a module loaded later can override the edits
// of an earlier one, and the concurrent container-environment merge
// resolves duplicate variable names in favor of the later module.
// Unloading and re-loading a name places it at the end of the order.
//
// A single mutex serializes registry mutation and sequential-decorator
// dispatch: a decorator dispatch holds it for the whole chain, so two
// concurrent decorator dispatches never interleave module calls.
// Notifications and the container-environment fan-out snapshot the module
// list under the mutex but invoke modules outside it, so an unload racing
// an in-flight notification is best-effort by design.
type Manager struct {
	resolver Resolver
	logger   *slog.Logger
	mw       middleware.Middleware

	mu      sync.Mutex
	entries []entry
	loaded  map[string]struct{}

	// Type-cached slices for each lifecycle event, maintained under mu.
	taskLabel       []taskLabelEntry
	runTaskLabel    []runTaskLabelEntry
	executorEnv     []executorEnvEntry
	taskStatus      []taskStatusEntry
	nodeResources   []nodeResourcesEntry
	nodeAttributes  []nodeAttributesEntry
	containerEnv    []containerEnvEntry
	nodeLost        []nodeLostEntry
	containerLaunch []containerLaunchEntry
	postFetch       []postFetchEntry
	executorRemoved []executorRemovedEntry
}

// Option configures a Manager.
type Option func(*Manager)

// WithMiddleware wraps every module invocation with the given middleware,
// outermost first.
func WithMiddleware(mws ...middleware.Middleware) Option {
	return func(m *Manager) {
		if len(mws) > 0 {
			m.mw = middleware.Chain(mws...)
		}
	}
}

// NewManager creates a Manager that resolves module names through the
// given resolver. A nil logger falls back to slog.Default().
func NewManager(resolver Resolver, logger *slog.Logger, opts ...Option) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Manager{
		resolver: resolver,
		logger:   logger,
		loaded:   make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// ──────────────────────────────────────────────────
// Registry
// ──────────────────────────────────────────────────

// Initialize loads the comma-separated list of module names, in order.
// An empty list is a no-op.
func (m *Manager) Initialize(hookList string) error {
	if hookList == "" {
		return nil
	}
	return m.Load(strings.Split(hookList, ","))
}

// Load resolves and loads each named module, in order. It stops at the
// first failing name; modules loaded earlier in the same call stay
// loaded. There is no rollback.
func (m *Manager) Load(names []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, name := range names {
		if _, ok := m.loaded[name]; ok {
			return fmt.Errorf("hook module %q: %w", name, ErrAlreadyLoaded)
		}
		if !m.resolver.Contains(name) {
			return fmt.Errorf("hook module %q: %w", name, ErrModuleNotFound)
		}
		h, err := m.resolver.Create(name)
		if err != nil {
			return fmt.Errorf("hook module %q: %w: %v", name, ErrInstantiationFailed, err)
		}
		m.entries = append(m.entries, entry{name: name, hook: h})
		m.loaded[name] = struct{}{}
		m.register(name, h)
	}
	return nil
}

// Unload removes the named module from the registry.
func (m *Manager) Unload(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.loaded[name]; !ok {
		return fmt.Errorf("hook module %q: %w", name, ErrNotLoaded)
	}
	delete(m.loaded, name)
	m.entries = slices.DeleteFunc(m.entries, func(e entry) bool {
		return e.name == name
	})
	m.rebuild()
	return nil
}

// HooksAvailable reports whether any module is loaded. Callers use it to
// skip dispatch entirely on the common zero-module path.
func (m *Manager) HooksAvailable() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries) > 0
}

// register appends a newly loaded module to every event cache it
// implements. Caller holds mu.
func (m *Manager) register(name string, h Hook) {
	if d, ok := h.(TaskLabelDecorator); ok {
		m.taskLabel = append(m.taskLabel, taskLabelEntry{name, d})
	}
	if d, ok := h.(RunTaskLabelDecorator); ok {
		m.runTaskLabel = append(m.runTaskLabel, runTaskLabelEntry{name, d})
	}
	if d, ok := h.(ExecutorEnvironmentDecorator); ok {
		m.executorEnv = append(m.executorEnv, executorEnvEntry{name, d})
	}
	if d, ok := h.(TaskStatusDecorator); ok {
		m.taskStatus = append(m.taskStatus, taskStatusEntry{name, d})
	}
	if d, ok := h.(NodeResourcesDecorator); ok {
		m.nodeResources = append(m.nodeResources, nodeResourcesEntry{name, d})
	}
	if d, ok := h.(NodeAttributesDecorator); ok {
		m.nodeAttributes = append(m.nodeAttributes, nodeAttributesEntry{name, d})
	}
	if d, ok := h.(ContainerEnvironmentDecorator); ok {
		m.containerEnv = append(m.containerEnv, containerEnvEntry{name, d})
	}
	if n, ok := h.(NodeLostHandler); ok {
		m.nodeLost = append(m.nodeLost, nodeLostEntry{name, n})
	}
	if n, ok := h.(ContainerLaunchHandler); ok {
		m.containerLaunch = append(m.containerLaunch, containerLaunchEntry{name, n})
	}
	if n, ok := h.(PostFetchHandler); ok {
		m.postFetch = append(m.postFetch, postFetchEntry{name, n})
	}
	if n, ok := h.(ExecutorRemovedHandler); ok {
		m.executorRemoved = append(m.executorRemoved, executorRemovedEntry{name, n})
	}
}

// rebuild recomputes every event cache from the ordered entry list.
// Caller holds mu.
func (m *Manager) rebuild() {
	m.taskLabel = nil
	m.runTaskLabel = nil
	m.executorEnv = nil
	m.taskStatus = nil
	m.nodeResources = nil
	m.nodeAttributes = nil
	m.containerEnv = nil
	m.nodeLost = nil
	m.containerLaunch = nil
	m.postFetch = nil
	m.executorRemoved = nil
	for _, e := range m.entries {
		m.register(e.name, e.hook)
	}
}

// invoke runs one module call through the middleware chain, if any.
func (m *Manager) invoke(ctx context.Context, event, module string, fn func(context.Context) error) error {
	if m.mw == nil {
		return fn(ctx)
	}
	return m.mw(ctx, &middleware.Call{Event: event, Module: module}, middleware.Handler(fn))
}

// logHookError logs a warning when a module's hook call returns an error.
// Outside the container-environment fan-in, module errors are absorbed —
// they must not stop the chain or reach the lifecycle-event caller.
func (m *Manager) logHookError(hook, module string, err error) {
	m.logger.Warn("hook module failed",
		slog.String("hook", hook),
		slog.String("module", module),
		slog.String("error", err.Error()),
	)
}

// ──────────────────────────────────────────────────
// Sequential decorators
// ──────────────────────────────────────────────────

// DecorateTaskLabels folds task-label decoration over the loaded modules
// when the master launches a task. Each module sees the labels as left by
// the modules before it; a module that errors leaves them untouched.
func (m *Manager) DecorateTaskLabels(ctx context.Context, task meta.TaskInfo, fw meta.FrameworkInfo, node meta.NodeInfo) meta.Labels {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.taskLabel) == 0 {
		return task.Labels
	}

	task = task.Clone()
	for _, e := range m.taskLabel {
		var result *meta.Labels
		err := m.invoke(ctx, "task_labels", e.name, func(ctx context.Context) error {
			var err error
			result, err = e.hook.DecorateTaskLabels(ctx, task, fw, node)
			return err
		})
		if err != nil {
			m.logHookError("DecorateTaskLabels", e.name, err)
			continue
		}
		if result != nil {
			task.Labels = result.Clone()
		}
	}
	return task.Labels
}

// DecorateRunTaskLabels folds task-label decoration over the loaded
// modules when the agent runs a task.
func (m *Manager) DecorateRunTaskLabels(ctx context.Context, task meta.TaskInfo, exec meta.ExecutorInfo, fw meta.FrameworkInfo, node meta.NodeInfo) meta.Labels {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.runTaskLabel) == 0 {
		return task.Labels
	}

	task = task.Clone()
	for _, e := range m.runTaskLabel {
		var result *meta.Labels
		err := m.invoke(ctx, "run_task_labels", e.name, func(ctx context.Context) error {
			var err error
			result, err = e.hook.DecorateRunTaskLabels(ctx, task, exec, fw, node)
			return err
		})
		if err != nil {
			m.logHookError("DecorateRunTaskLabels", e.name, err)
			continue
		}
		if result != nil {
			task.Labels = result.Clone()
		}
	}
	return task.Labels
}

// DecorateExecutorEnvironment folds environment decoration over the
// loaded modules before an executor is launched. The returned environment
// replaces the executor's command environment wholesale at each step.
func (m *Manager) DecorateExecutorEnvironment(ctx context.Context, exec meta.ExecutorInfo) meta.Environment {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.executorEnv) == 0 {
		return exec.Command.Environment
	}

	exec = exec.Clone()
	for _, e := range m.executorEnv {
		var result *meta.Environment
		err := m.invoke(ctx, "executor_environment", e.name, func(ctx context.Context) error {
			var err error
			result, err = e.hook.DecorateExecutorEnvironment(ctx, exec)
			return err
		})
		if err != nil {
			m.logHookError("DecorateExecutorEnvironment", e.name, err)
			continue
		}
		if result != nil {
			exec.Command.Environment = result.Clone()
		}
	}
	return exec.Command.Environment
}

// DecorateTaskStatus folds status decoration over the loaded modules.
// The merge is field-level: a module's returned status replaces only the
// Labels and ContainerStatus fields it actually set, independently.
func (m *Manager) DecorateTaskStatus(ctx context.Context, fwID meta.FrameworkID, status meta.TaskStatus) meta.TaskStatus {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.taskStatus) == 0 {
		return status
	}

	status = status.Clone()
	for _, e := range m.taskStatus {
		var result *meta.TaskStatus
		err := m.invoke(ctx, "task_status", e.name, func(ctx context.Context) error {
			var err error
			result, err = e.hook.DecorateTaskStatus(ctx, fwID, status)
			return err
		})
		if err != nil {
			m.logHookError("DecorateTaskStatus", e.name, err)
			continue
		}
		if result == nil {
			continue
		}
		if result.Labels != nil {
			l := result.Labels.Clone()
			status.Labels = &l
		}
		if result.ContainerStatus != nil {
			cs := result.ContainerStatus.Clone()
			status.ContainerStatus = &cs
		}
	}
	return status
}

// DecorateNodeResources folds resource decoration over the loaded modules
// before a node advertises its resources.
func (m *Manager) DecorateNodeResources(ctx context.Context, node meta.NodeInfo) meta.Resources {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.nodeResources) == 0 {
		return node.Resources
	}

	node = node.Clone()
	for _, e := range m.nodeResources {
		var result *meta.Resources
		err := m.invoke(ctx, "node_resources", e.name, func(ctx context.Context) error {
			var err error
			result, err = e.hook.DecorateNodeResources(ctx, node)
			return err
		})
		if err != nil {
			m.logHookError("DecorateNodeResources", e.name, err)
			continue
		}
		if result != nil {
			node.Resources = result.Clone()
		}
	}
	return node.Resources
}

// DecorateNodeAttributes folds attribute decoration over the loaded
// modules before a node advertises its attributes.
func (m *Manager) DecorateNodeAttributes(ctx context.Context, node meta.NodeInfo) meta.Attributes {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.nodeAttributes) == 0 {
		return node.Attributes
	}

	node = node.Clone()
	for _, e := range m.nodeAttributes {
		var result *meta.Attributes
		err := m.invoke(ctx, "node_attributes", e.name, func(ctx context.Context) error {
			var err error
			result, err = e.hook.DecorateNodeAttributes(ctx, node)
			return err
		})
		if err != nil {
			m.logHookError("DecorateNodeAttributes", e.name, err)
			continue
		}
		if result != nil {
			node.Attributes = result.Clone()
		}
	}
	return node.Attributes
}

// ──────────────────────────────────────────────────
// Concurrent decorator
// ──────────────────────────────────────────────────

// DecorateContainerEnvironment runs container-environment decoration on
// every implementing module concurrently and merges the completed results
// in load order, later modules overwriting duplicate variable names. The
// merged map is seeded with req.Env, so with no modules loaded the caller
// gets its input back.
//
// Unlike every other dispatch, this one is all-or-nothing: if any module
// fails, the whole call fails and no partial map is returned. There is no
// per-module timeout; a stalled module stalls the fan-in.
func (m *Manager) DecorateContainerEnvironment(ctx context.Context, req ContainerEnvRequest) (map[string]string, error) {
	m.mu.Lock()
	hooks := slices.Clone(m.containerEnv)
	m.mu.Unlock()

	env := make(map[string]string, len(req.Env))
	for k, v := range req.Env {
		env[k] = v
	}
	if len(hooks) == 0 {
		return env, nil
	}

	// Results are collected by load-order index so the merge below is
	// deterministic regardless of completion order.
	results := make([]map[string]string, len(hooks))
	var g errgroup.Group
	for i, e := range hooks {
		g.Go(func() error {
			err := m.invoke(ctx, "container_environment", e.name, func(ctx context.Context) error {
				var err error
				results[i], err = e.hook.DecorateContainerEnvironment(ctx, req)
				return err
			})
			if err != nil {
				return fmt.Errorf("hook module %q: %w", e.name, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecorationFailed, err)
	}

	for _, r := range results {
		for k, v := range r {
			env[k] = v
		}
	}
	return env, nil
}

// ──────────────────────────────────────────────────
// Notifications
// ──────────────────────────────────────────────────

// NodeLost notifies every implementing module that the master declared a
// node lost. Module errors are logged and absorbed.
func (m *Manager) NodeLost(ctx context.Context, node meta.NodeInfo) {
	m.mu.Lock()
	hooks := slices.Clone(m.nodeLost)
	m.mu.Unlock()

	for _, e := range hooks {
		err := m.invoke(ctx, "node_lost", e.name, func(ctx context.Context) error {
			return e.hook.OnNodeLost(ctx, node)
		})
		if err != nil {
			m.logHookError("OnNodeLost", e.name, err)
		}
	}
}

// ContainerLaunch notifies every implementing module that a container is
// about to be launched. Module errors are logged and absorbed.
func (m *Manager) ContainerLaunch(ctx context.Context, launch ContainerLaunch) {
	m.mu.Lock()
	hooks := slices.Clone(m.containerLaunch)
	m.mu.Unlock()

	for _, e := range hooks {
		err := m.invoke(ctx, "container_launch", e.name, func(ctx context.Context) error {
			return e.hook.OnContainerLaunch(ctx, launch)
		})
		if err != nil {
			m.logHookError("OnContainerLaunch", e.name, err)
		}
	}
}

// PostFetch notifies every implementing module that a container's
// artifacts have been fetched. Module errors are logged and absorbed.
func (m *Manager) PostFetch(ctx context.Context, containerID meta.ContainerID, directory string) {
	m.mu.Lock()
	hooks := slices.Clone(m.postFetch)
	m.mu.Unlock()

	for _, e := range hooks {
		err := m.invoke(ctx, "post_fetch", e.name, func(ctx context.Context) error {
			return e.hook.OnPostFetch(ctx, containerID, directory)
		})
		if err != nil {
			m.logHookError("OnPostFetch", e.name, err)
		}
	}
}

// ExecutorRemoved notifies every implementing module that an executor has
// been removed. Module errors are logged and absorbed.
func (m *Manager) ExecutorRemoved(ctx context.Context, fw meta.FrameworkInfo, exec meta.ExecutorInfo) {
	m.mu.Lock()
	hooks := slices.Clone(m.executorRemoved)
	m.mu.Unlock()

	for _, e := range hooks {
		err := m.invoke(ctx, "executor_removed", e.name, func(ctx context.Context) error {
			return e.hook.OnExecutorRemoved(ctx, fw, exec)
		})
		if err != nil {
			m.logHookError("OnExecutorRemoved", e.name, err)
		}
	}
}
