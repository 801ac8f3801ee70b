package observability_test

import (
	"context"
	"testing"

	gu "github.com/xraph/go-utils/metrics"

	"github.com/helmsman-orch/helmsman/hook"
	"github.com/helmsman-orch/helmsman/meta"
	"github.com/helmsman-orch/helmsman/observability"
)

func newTestHook() *observability.MetricsHook {
	return observability.NewMetricsHookWithFactory(gu.NewMetricsCollector("test"))
}

func TestMetricsHook_DecoratorsHaveNoOpinion(t *testing.T) {
	h := newTestHook()
	ctx := context.Background()

	labels, err := h.DecorateTaskLabels(ctx, meta.TaskInfo{}, meta.FrameworkInfo{}, meta.NodeInfo{})
	if err != nil || labels != nil {
		t.Errorf("DecorateTaskLabels = %v, %v; want no opinion", labels, err)
	}
	env, err := h.DecorateContainerEnvironment(ctx, hook.ContainerEnvRequest{})
	if err != nil || env != nil {
		t.Errorf("DecorateContainerEnvironment = %v, %v; want no opinion", env, err)
	}
}

func TestMetricsHook_CountsDecorations(t *testing.T) {
	h := newTestHook()
	ctx := context.Background()

	_, _ = h.DecorateTaskLabels(ctx, meta.TaskInfo{}, meta.FrameworkInfo{}, meta.NodeInfo{})
	_, _ = h.DecorateTaskLabels(ctx, meta.TaskInfo{}, meta.FrameworkInfo{}, meta.NodeInfo{})
	if h.TaskLabels.Value() != 2 {
		t.Errorf("TaskLabels = %v, want 2", h.TaskLabels.Value())
	}

	_, _ = h.DecorateRunTaskLabels(ctx, meta.TaskInfo{}, meta.ExecutorInfo{}, meta.FrameworkInfo{}, meta.NodeInfo{})
	if h.RunTaskLabels.Value() != 1 {
		t.Errorf("RunTaskLabels = %v, want 1", h.RunTaskLabels.Value())
	}

	_, _ = h.DecorateExecutorEnvironment(ctx, meta.ExecutorInfo{})
	if h.ExecutorEnv.Value() != 1 {
		t.Errorf("ExecutorEnv = %v, want 1", h.ExecutorEnv.Value())
	}

	_, _ = h.DecorateTaskStatus(ctx, "fw-1", meta.TaskStatus{})
	if h.TaskStatus.Value() != 1 {
		t.Errorf("TaskStatus = %v, want 1", h.TaskStatus.Value())
	}

	_, _ = h.DecorateNodeResources(ctx, meta.NodeInfo{})
	_, _ = h.DecorateNodeAttributes(ctx, meta.NodeInfo{})
	if h.NodeResources.Value() != 1 || h.NodeAttributes.Value() != 1 {
		t.Error("node decorator counters not incremented")
	}
}

func TestMetricsHook_CountsNotifications(t *testing.T) {
	h := newTestHook()
	ctx := context.Background()

	if err := h.OnNodeLost(ctx, meta.NodeInfo{}); err != nil {
		t.Fatalf("OnNodeLost: %v", err)
	}
	if err := h.OnContainerLaunch(ctx, hook.ContainerLaunch{}); err != nil {
		t.Fatalf("OnContainerLaunch: %v", err)
	}
	if err := h.OnPostFetch(ctx, "c-1", "/sandbox"); err != nil {
		t.Fatalf("OnPostFetch: %v", err)
	}
	if err := h.OnExecutorRemoved(ctx, meta.FrameworkInfo{}, meta.ExecutorInfo{}); err != nil {
		t.Fatalf("OnExecutorRemoved: %v", err)
	}

	if h.NodeLost.Value() != 1 || h.ContainerLaunch.Value() != 1 ||
		h.PostFetch.Value() != 1 || h.ExecutorRemoved.Value() != 1 {
		t.Error("notification counters not incremented")
	}
}
