// Package helmsman provides a pluggable lifecycle-hook dispatcher for a
// cluster-orchestrator control plane. External parties register named hook
// modules that observe and decorate lifecycle events — task launch,
// executor environment setup, container launch preparation, status
// updates, and node resource/attribute advertisement.
//
// Helmsman is designed as a library, not a service. The host registers
// module factories, configures which modules to load, and calls the hook
// manager's dispatch methods from its own lifecycle code paths.
//
// # Quick Start
//
//	reg := modules.NewRegistry()
//	reg.Register("labeler", func() (hook.Hook, error) { return &Labeler{}, nil })
//
//	agent, err := helmsman.New(
//	    helmsman.WithResolver(reg),
//	    helmsman.WithHookModules("labeler"),
//	)
//	if err != nil { ... }
//	if err := agent.Initialize(); err != nil { ... }
//
//	labels := agent.Hooks().DecorateTaskLabels(ctx, task, fw, node)
//
// # Architecture
//
// Each lifecycle event has its own capability interface in the hook
// package; modules implement only the events they care about. The hook
// manager keeps modules in load order and dispatches each event with the
// discipline that event requires: sequential result-folding for
// decorators, fire-and-forget for notifications, and a concurrent
// fan-out/fan-in with a deterministic last-wins merge for
// container-environment decoration.
package helmsman
