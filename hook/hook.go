// Package hook defines the lifecycle-hook system for Helmsman.
// Hook modules observe and decorate lifecycle events on the control
// plane — task launch, executor environment setup, container launch
// preparation, status updates, and node resource/attribute advertisement.
//
// Each lifecycle event is a separate interface so modules opt in only
// to the events they care about. A decorator returning (nil, nil) has
// no opinion and leaves the payload unchanged.
package hook

import (
	"context"

	"github.com/helmsman-orch/helmsman/meta"
)

// Hook is the polymorphic handle to a loaded hook module. Modules
// implement any subset of the event interfaces below; the Manager
// discovers which at load time.
type Hook any

// Resolver turns a textual module name into a constructed hook
// instance. It is the boundary to the module-loading subsystem; the
// modules package provides the in-memory implementation.
type Resolver interface {
	// Contains reports whether a module with the given name is known.
	Contains(name string) bool
	// Create constructs a new instance of the named module.
	Create(name string) (Hook, error)
}

// ──────────────────────────────────────────────────
// Sequential decorators
// ──────────────────────────────────────────────────

// TaskLabelDecorator decorates task labels when the master launches a task.
type TaskLabelDecorator interface {
	DecorateTaskLabels(ctx context.Context, task meta.TaskInfo, fw meta.FrameworkInfo, node meta.NodeInfo) (*meta.Labels, error)
}

// RunTaskLabelDecorator decorates task labels when the agent runs a task.
type RunTaskLabelDecorator interface {
	DecorateRunTaskLabels(ctx context.Context, task meta.TaskInfo, exec meta.ExecutorInfo, fw meta.FrameworkInfo, node meta.NodeInfo) (*meta.Labels, error)
}

// ExecutorEnvironmentDecorator decorates the environment an executor is
// launched with.
type ExecutorEnvironmentDecorator interface {
	DecorateExecutorEnvironment(ctx context.Context, exec meta.ExecutorInfo) (*meta.Environment, error)
}

// TaskStatusDecorator decorates status updates before they are forwarded.
// The returned status is merged field-by-field: a nil Labels or
// ContainerStatus in the returned value leaves that field of the payload
// untouched.
type TaskStatusDecorator interface {
	DecorateTaskStatus(ctx context.Context, fwID meta.FrameworkID, status meta.TaskStatus) (*meta.TaskStatus, error)
}

// NodeResourcesDecorator decorates the resources a node advertises.
type NodeResourcesDecorator interface {
	DecorateNodeResources(ctx context.Context, node meta.NodeInfo) (*meta.Resources, error)
}

// NodeAttributesDecorator decorates the attributes a node advertises.
type NodeAttributesDecorator interface {
	DecorateNodeAttributes(ctx context.Context, node meta.NodeInfo) (*meta.Attributes, error)
}

// ──────────────────────────────────────────────────
// Concurrent decorator
// ──────────────────────────────────────────────────

// ContainerEnvRequest carries the inputs to container-environment
// decoration. Task is nil when the container hosts a bare executor.
type ContainerEnvRequest struct {
	Task             *meta.TaskInfo
	Executor         meta.ExecutorInfo
	ContainerName    string
	SandboxDirectory string
	MappedDirectory  string
	Env              map[string]string
}

// ContainerEnvironmentDecorator contributes environment variables to a
// container being prepared for launch. Implementations run concurrently
// with one another; a nil map means no opinion. Variables returned by a
// module loaded later overwrite same-named variables from earlier ones.
type ContainerEnvironmentDecorator interface {
	DecorateContainerEnvironment(ctx context.Context, req ContainerEnvRequest) (map[string]string, error)
}

// ──────────────────────────────────────────────────
// Notifications
// ──────────────────────────────────────────────────

// NodeLostHandler is notified when the master declares a node lost.
type NodeLostHandler interface {
	OnNodeLost(ctx context.Context, node meta.NodeInfo) error
}

// ContainerLaunch carries the full launch context for a container about
// to start. Task is nil when the container hosts a bare executor.
type ContainerLaunch struct {
	Container        meta.ContainerInfo
	Command          meta.CommandInfo
	Task             *meta.TaskInfo
	Executor         meta.ExecutorInfo
	ContainerName    string
	SandboxDirectory string
	MappedDirectory  string
	Resources        *meta.Resources
	Env              map[string]string
}

// ContainerLaunchHandler is notified immediately before a container is
// launched.
type ContainerLaunchHandler interface {
	OnContainerLaunch(ctx context.Context, launch ContainerLaunch) error
}

// PostFetchHandler is notified after a container's artifacts have been
// fetched into its sandbox directory.
type PostFetchHandler interface {
	OnPostFetch(ctx context.Context, containerID meta.ContainerID, directory string) error
}

// ExecutorRemovedHandler is notified after an executor has been removed
// from the agent.
type ExecutorRemovedHandler interface {
	OnExecutorRemoved(ctx context.Context, fw meta.FrameworkInfo, exec meta.ExecutorInfo) error
}
