// Package observability provides a built-in hook module that counts
// dispatched lifecycle events. Load it alongside policy modules to get
// per-event dispatch rates with no policy effect: its decorators always
// return no opinion.
package observability

import (
	"context"

	gu "github.com/xraph/go-utils/metrics"

	"github.com/helmsman-orch/helmsman/hook"
	"github.com/helmsman-orch/helmsman/meta"
)

// Compile-time interface checks.
var (
	_ hook.TaskLabelDecorator            = (*MetricsHook)(nil)
	_ hook.RunTaskLabelDecorator         = (*MetricsHook)(nil)
	_ hook.ExecutorEnvironmentDecorator  = (*MetricsHook)(nil)
	_ hook.ContainerEnvironmentDecorator = (*MetricsHook)(nil)
	_ hook.TaskStatusDecorator           = (*MetricsHook)(nil)
	_ hook.NodeResourcesDecorator        = (*MetricsHook)(nil)
	_ hook.NodeAttributesDecorator       = (*MetricsHook)(nil)
	_ hook.NodeLostHandler               = (*MetricsHook)(nil)
	_ hook.ContainerLaunchHandler        = (*MetricsHook)(nil)
	_ hook.PostFetchHandler              = (*MetricsHook)(nil)
	_ hook.ExecutorRemovedHandler        = (*MetricsHook)(nil)
)

// MetricsHook counts each lifecycle event it sees. It implements every
// capability interface so a single loaded instance observes all dispatch
// traffic.
type MetricsHook struct {
	TaskLabels      gu.Counter
	RunTaskLabels   gu.Counter
	ExecutorEnv     gu.Counter
	ContainerEnv    gu.Counter
	TaskStatus      gu.Counter
	NodeResources   gu.Counter
	NodeAttributes  gu.Counter
	NodeLost        gu.Counter
	ContainerLaunch gu.Counter
	PostFetch       gu.Counter
	ExecutorRemoved gu.Counter
}

// NewMetricsHook creates a MetricsHook using a default metrics collector.
func NewMetricsHook() *MetricsHook {
	return NewMetricsHookWithFactory(gu.NewMetricsCollector("helmsman/observability"))
}

// NewMetricsHookWithFactory creates a MetricsHook with the provided
// MetricFactory, for hosts that already carry one.
func NewMetricsHookWithFactory(factory gu.MetricFactory) *MetricsHook {
	return &MetricsHook{
		TaskLabels:      factory.Counter("helmsman.hook.task_labels"),
		RunTaskLabels:   factory.Counter("helmsman.hook.run_task_labels"),
		ExecutorEnv:     factory.Counter("helmsman.hook.executor_environment"),
		ContainerEnv:    factory.Counter("helmsman.hook.container_environment"),
		TaskStatus:      factory.Counter("helmsman.hook.task_status"),
		NodeResources:   factory.Counter("helmsman.hook.node_resources"),
		NodeAttributes:  factory.Counter("helmsman.hook.node_attributes"),
		NodeLost:        factory.Counter("helmsman.hook.node_lost"),
		ContainerLaunch: factory.Counter("helmsman.hook.container_launch"),
		PostFetch:       factory.Counter("helmsman.hook.post_fetch"),
		ExecutorRemoved: factory.Counter("helmsman.hook.executor_removed"),
	}
}

// DecorateTaskLabels implements hook.TaskLabelDecorator.
func (m *MetricsHook) DecorateTaskLabels(_ context.Context, _ meta.TaskInfo, _ meta.FrameworkInfo, _ meta.NodeInfo) (*meta.Labels, error) {
	m.TaskLabels.Inc()
	return nil, nil
}

// DecorateRunTaskLabels implements hook.RunTaskLabelDecorator.
func (m *MetricsHook) DecorateRunTaskLabels(_ context.Context, _ meta.TaskInfo, _ meta.ExecutorInfo, _ meta.FrameworkInfo, _ meta.NodeInfo) (*meta.Labels, error) {
	m.RunTaskLabels.Inc()
	return nil, nil
}

// DecorateExecutorEnvironment implements hook.ExecutorEnvironmentDecorator.
func (m *MetricsHook) DecorateExecutorEnvironment(_ context.Context, _ meta.ExecutorInfo) (*meta.Environment, error) {
	m.ExecutorEnv.Inc()
	return nil, nil
}

// DecorateContainerEnvironment implements hook.ContainerEnvironmentDecorator.
func (m *MetricsHook) DecorateContainerEnvironment(_ context.Context, _ hook.ContainerEnvRequest) (map[string]string, error) {
	m.ContainerEnv.Inc()
	return nil, nil
}

// DecorateTaskStatus implements hook.TaskStatusDecorator.
func (m *MetricsHook) DecorateTaskStatus(_ context.Context, _ meta.FrameworkID, _ meta.TaskStatus) (*meta.TaskStatus, error) {
	m.TaskStatus.Inc()
	return nil, nil
}

// DecorateNodeResources implements hook.NodeResourcesDecorator.
func (m *MetricsHook) DecorateNodeResources(_ context.Context, _ meta.NodeInfo) (*meta.Resources, error) {
	m.NodeResources.Inc()
	return nil, nil
}

// DecorateNodeAttributes implements hook.NodeAttributesDecorator.
func (m *MetricsHook) DecorateNodeAttributes(_ context.Context, _ meta.NodeInfo) (*meta.Attributes, error) {
	m.NodeAttributes.Inc()
	return nil, nil
}

// OnNodeLost implements hook.NodeLostHandler.
func (m *MetricsHook) OnNodeLost(_ context.Context, _ meta.NodeInfo) error {
	m.NodeLost.Inc()
	return nil
}

// OnContainerLaunch implements hook.ContainerLaunchHandler.
func (m *MetricsHook) OnContainerLaunch(_ context.Context, _ hook.ContainerLaunch) error {
	m.ContainerLaunch.Inc()
	return nil
}

// OnPostFetch implements hook.PostFetchHandler.
func (m *MetricsHook) OnPostFetch(_ context.Context, _ meta.ContainerID, _ string) error {
	m.PostFetch.Inc()
	return nil
}

// OnExecutorRemoved implements hook.ExecutorRemovedHandler.
func (m *MetricsHook) OnExecutorRemoved(_ context.Context, _ meta.FrameworkInfo, _ meta.ExecutorInfo) error {
	m.ExecutorRemoved.Inc()
	return nil
}
