package helmsman_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/helmsman-orch/helmsman"
	"github.com/helmsman-orch/helmsman/hook"
	"github.com/helmsman-orch/helmsman/meta"
	"github.com/helmsman-orch/helmsman/modules"
)

type labeler struct{}

func (labeler) DecorateTaskLabels(_ context.Context, task meta.TaskInfo, _ meta.FrameworkInfo, _ meta.NodeInfo) (*meta.Labels, error) {
	l := task.Labels.Clone().Set("decorated", "true")
	return &l, nil
}

func testRegistry(t *testing.T) *modules.Registry {
	t.Helper()
	reg := modules.NewRegistry()
	if err := reg.Register("labeler", func() (hook.Hook, error) { return labeler{}, nil }); err != nil {
		t.Fatal(err)
	}
	return reg
}

func TestNew_RequiresResolver(t *testing.T) {
	_, err := helmsman.New()
	if !errors.Is(err, helmsman.ErrNoResolver) {
		t.Fatalf("expected ErrNoResolver, got %v", err)
	}
}

func TestAgent_InitializeLoadsConfiguredModules(t *testing.T) {
	agent, err := helmsman.New(
		helmsman.WithResolver(testRegistry(t)),
		helmsman.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		helmsman.WithHookModules("labeler"),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := agent.Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if !agent.Hooks().HooksAvailable() {
		t.Fatal("expected hooks available after initialization")
	}

	labels := agent.Hooks().DecorateTaskLabels(context.Background(), meta.TaskInfo{ID: "t-1"}, meta.FrameworkInfo{}, meta.NodeInfo{})
	if v, _ := labels.Get("decorated"); v != "true" {
		t.Errorf("decorated = %q, want true", v)
	}
}

func TestAgent_InitializeFailsOnUnknownModule(t *testing.T) {
	agent, err := helmsman.New(
		helmsman.WithResolver(testRegistry(t)),
		helmsman.WithHookList("labeler,ghost"),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := agent.Initialize(); !errors.Is(err, hook.ErrModuleNotFound) {
		t.Fatalf("expected ErrModuleNotFound, got %v", err)
	}
	// "labeler" was loaded before "ghost" failed.
	if !agent.Hooks().HooksAvailable() {
		t.Error("modules before the failing name should stay loaded")
	}
}

func TestParseHookList(t *testing.T) {
	if got := helmsman.ParseHookList(""); got != nil {
		t.Errorf("ParseHookList(\"\") = %v, want nil", got)
	}
	got := helmsman.ParseHookList("a,b,c")
	if len(got) != 3 || got[0] != "a" || got[2] != "c" {
		t.Errorf("ParseHookList(a,b,c) = %v", got)
	}
}
