package audithook

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/helmsman-orch/helmsman/hook"
	"github.com/helmsman-orch/helmsman/meta"
)

// Compile-time interface checks.
var (
	_ hook.NodeLostHandler        = (*Hook)(nil)
	_ hook.ContainerLaunchHandler = (*Hook)(nil)
	_ hook.PostFetchHandler       = (*Hook)(nil)
	_ hook.ExecutorRemovedHandler = (*Hook)(nil)
)

// Recorder is the interface audit backends must implement. It is defined
// locally so this package does not depend on any particular audit or
// storage library — callers inject their backend at wiring time.
type Recorder interface {
	// Record persists a fully-formed audit event.
	Record(ctx context.Context, event *AuditEvent) error
}

// RecorderFunc is an adapter to use a plain function as a Recorder.
type RecorderFunc func(ctx context.Context, event *AuditEvent) error

func (f RecorderFunc) Record(ctx context.Context, event *AuditEvent) error {
	return f(ctx, event)
}

// AuditEvent is the structured record emitted for each notification.
type AuditEvent struct {
	// What happened
	Action   string `json:"action"`
	Resource string `json:"resource"`
	Category string `json:"category"`

	// Details
	ResourceID string         `json:"resource_id,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	Severity   string         `json:"severity"`
}

// Severity constants.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityCritical = "critical"
)

// Hook mirrors lifecycle notifications into an audit trail backend.
type Hook struct {
	recorder Recorder
	enabled  map[string]bool // nil = all enabled
	logger   *slog.Logger
}

// New creates a Hook that emits audit events through the provided Recorder.
func New(r Recorder, opts ...Option) *Hook {
	h := &Hook{
		recorder: r,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// OnNodeLost implements hook.NodeLostHandler.
func (h *Hook) OnNodeLost(ctx context.Context, node meta.NodeInfo) error {
	return h.record(ctx, ActionNodeLost, SeverityCritical,
		ResourceNode, string(node.ID), CategoryNode,
		"hostname", node.Hostname,
	)
}

// OnContainerLaunch implements hook.ContainerLaunchHandler.
func (h *Hook) OnContainerLaunch(ctx context.Context, launch hook.ContainerLaunch) error {
	kv := []any{
		"executor_id", string(launch.Executor.ID),
		"framework_id", string(launch.Executor.FrameworkID),
		"sandbox_directory", launch.SandboxDirectory,
	}
	if launch.Task != nil {
		kv = append(kv, "task_id", string(launch.Task.ID))
	}
	return h.record(ctx, ActionContainerLaunch, SeverityInfo,
		ResourceContainer, launch.ContainerName, CategoryContainer,
		kv...,
	)
}

// OnPostFetch implements hook.PostFetchHandler.
func (h *Hook) OnPostFetch(ctx context.Context, containerID meta.ContainerID, directory string) error {
	return h.record(ctx, ActionPostFetch, SeverityInfo,
		ResourceContainer, string(containerID), CategoryContainer,
		"directory", directory,
	)
}

// OnExecutorRemoved implements hook.ExecutorRemovedHandler.
func (h *Hook) OnExecutorRemoved(ctx context.Context, fw meta.FrameworkInfo, exec meta.ExecutorInfo) error {
	return h.record(ctx, ActionExecutorRemoved, SeverityInfo,
		ResourceExecutor, string(exec.ID), CategoryExecutor,
		"framework_id", string(fw.ID),
		"framework_name", fw.Name,
	)
}

// record builds and sends an audit event if the action is enabled.
// The kvPairs argument is a list of key-value pairs added to Metadata.
func (h *Hook) record(
	ctx context.Context,
	action, severity string,
	resource, resourceID, category string,
	kvPairs ...any,
) error {
	if h.enabled != nil && !h.enabled[action] {
		return nil
	}

	md := make(map[string]any, len(kvPairs)/2)
	for i := 0; i+1 < len(kvPairs); i += 2 {
		key, ok := kvPairs[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", kvPairs[i])
		}
		md[key] = kvPairs[i+1]
	}

	evt := &AuditEvent{
		Action:     action,
		Resource:   resource,
		Category:   category,
		ResourceID: resourceID,
		Metadata:   md,
		Severity:   severity,
	}

	if recErr := h.recorder.Record(ctx, evt); recErr != nil {
		h.logger.Warn("audithook: failed to record audit event",
			"action", action,
			"resource_id", resourceID,
			"error", recErr,
		)
	}
	return nil
}
