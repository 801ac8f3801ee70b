package modules_test

import (
	"errors"
	"testing"

	"github.com/helmsman-orch/helmsman/hook"
	"github.com/helmsman-orch/helmsman/modules"
)

type stubHook struct{}

func stubFactory() (hook.Hook, error) { return &stubHook{}, nil }

func TestRegistry_RegisterAndCreate(t *testing.T) {
	r := modules.NewRegistry()
	if err := r.Register("labeler", stubFactory); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if !r.Contains("labeler") {
		t.Error("Contains(labeler) = false")
	}
	if r.Contains("ghost") {
		t.Error("Contains(ghost) = true")
	}

	h, err := r.Create("labeler")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, ok := h.(*stubHook); !ok {
		t.Errorf("Create returned %T", h)
	}
}

func TestRegistry_DuplicateName(t *testing.T) {
	r := modules.NewRegistry()
	if err := r.Register("labeler", stubFactory); err != nil {
		t.Fatal(err)
	}
	err := r.Register("labeler", stubFactory)
	if !errors.Is(err, modules.ErrAlreadyRegistered) {
		t.Errorf("expected ErrAlreadyRegistered, got %v", err)
	}
}

func TestRegistry_CreateUnknown(t *testing.T) {
	r := modules.NewRegistry()
	_, err := r.Create("ghost")
	if !errors.Is(err, modules.ErrUnknownModule) {
		t.Errorf("expected ErrUnknownModule, got %v", err)
	}
}

func TestRegistry_FactoryError(t *testing.T) {
	r := modules.NewRegistry()
	boom := errors.New("constructor boom")
	if err := r.Register("flaky", func() (hook.Hook, error) { return nil, boom }); err != nil {
		t.Fatal(err)
	}
	_, err := r.Create("flaky")
	if !errors.Is(err, boom) {
		t.Errorf("expected factory error, got %v", err)
	}
}

func TestRegistry_NamesSorted(t *testing.T) {
	r := modules.NewRegistry()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		if err := r.Register(name, stubFactory); err != nil {
			t.Fatal(err)
		}
	}
	names := r.Names()
	want := []string{"alpha", "mid", "zeta"}
	if len(names) != len(want) {
		t.Fatalf("Names() = %v", names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("Names()[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}
