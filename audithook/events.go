package audithook

// Audit event actions. Each constant corresponds to one lifecycle
// notification and becomes the Action field of the audit event.
const (
	ActionNodeLost        = "node.lost"
	ActionContainerLaunch = "container.launch"
	ActionPostFetch       = "container.post_fetch"
	ActionExecutorRemoved = "executor.removed"
)

// Audit event categories group related actions.
const (
	CategoryNode      = "helmsman.node"
	CategoryContainer = "helmsman.container"
	CategoryExecutor  = "helmsman.executor"
)

// Resource types used as the Resource field in audit events.
const (
	ResourceNode      = "node"
	ResourceContainer = "container"
	ResourceExecutor  = "executor"
)

// AllActions returns every action this module can emit.
func AllActions() []string {
	return []string{
		ActionNodeLost,
		ActionContainerLaunch,
		ActionPostFetch,
		ActionExecutorRemoved,
	}
}
