// Package meta defines the descriptor value types exchanged between the
// orchestrator and hook modules: tasks, executors, frameworks, nodes,
// statuses, and the label/environment/resource/attribute sets hooks
// decorate.
//
// Descriptors are plain values. Dispatch never shares a payload between
// hooks — each decoration chain works on a clone so the caller's value is
// never mutated behind its back.
package meta

import "github.com/google/uuid"

// Typed identifiers. Descriptors arrive from the orchestrator with their
// IDs already assigned; only container IDs are ever minted here.
type (
	// TaskID uniquely identifies a task within a framework.
	TaskID string
	// ExecutorID uniquely identifies an executor within a framework.
	ExecutorID string
	// FrameworkID uniquely identifies a registered framework.
	FrameworkID string
	// NodeID uniquely identifies an agent node in the cluster.
	NodeID string
	// ContainerID uniquely identifies a launched container.
	ContainerID string
)

// NewContainerID mints a fresh container identifier.
func NewContainerID() ContainerID {
	return ContainerID(uuid.NewString())
}

// Label is a single free-form key/value pair attached to a task or status.
type Label struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Labels is an ordered label set.
type Labels []Label

// Clone returns a deep copy of the label set.
func (l Labels) Clone() Labels {
	if l == nil {
		return nil
	}
	out := make(Labels, len(l))
	copy(out, l)
	return out
}

// Get returns the value of the first label with the given key and whether
// it was found.
func (l Labels) Get(key string) (string, bool) {
	for _, lb := range l {
		if lb.Key == key {
			return lb.Value, true
		}
	}
	return "", false
}

// Set replaces the first label with the given key, or appends one.
func (l Labels) Set(key, value string) Labels {
	for i, lb := range l {
		if lb.Key == key {
			l[i].Value = value
			return l
		}
	}
	return append(l, Label{Key: key, Value: value})
}

// Variable is a single environment variable.
type Variable struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Environment is an ordered list of environment variables, as handed to a
// launched command. Duplicate names are allowed; later entries win when the
// environment is materialized.
type Environment []Variable

// Clone returns a deep copy of the environment.
func (e Environment) Clone() Environment {
	if e == nil {
		return nil
	}
	out := make(Environment, len(e))
	copy(out, e)
	return out
}

// ToMap flattens the environment into a name→value map. Later duplicates
// overwrite earlier ones.
func (e Environment) ToMap() map[string]string {
	out := make(map[string]string, len(e))
	for _, v := range e {
		out[v.Name] = v.Value
	}
	return out
}

// CommandInfo describes the command an executor or task runs.
type CommandInfo struct {
	Value       string      `json:"value"`
	Arguments   []string    `json:"arguments,omitempty"`
	Environment Environment `json:"environment,omitempty"`
}

// Clone returns a deep copy of the command descriptor.
func (c CommandInfo) Clone() CommandInfo {
	out := c
	if c.Arguments != nil {
		out.Arguments = make([]string, len(c.Arguments))
		copy(out.Arguments, c.Arguments)
	}
	out.Environment = c.Environment.Clone()
	return out
}

// TaskInfo describes a task to be launched on a node.
type TaskInfo struct {
	ID          TaskID      `json:"id"`
	Name        string      `json:"name"`
	FrameworkID FrameworkID `json:"framework_id"`
	NodeID      NodeID      `json:"node_id"`
	Command     CommandInfo `json:"command"`
	Labels      Labels      `json:"labels,omitempty"`
	Resources   Resources   `json:"resources,omitempty"`
}

// Clone returns a deep copy of the task descriptor.
func (t TaskInfo) Clone() TaskInfo {
	out := t
	out.Command = t.Command.Clone()
	out.Labels = t.Labels.Clone()
	out.Resources = t.Resources.Clone()
	return out
}

// ExecutorInfo describes an executor process that runs tasks on a node.
type ExecutorInfo struct {
	ID          ExecutorID  `json:"id"`
	FrameworkID FrameworkID `json:"framework_id"`
	Name        string      `json:"name"`
	Command     CommandInfo `json:"command"`
	Resources   Resources   `json:"resources,omitempty"`
	Labels      Labels      `json:"labels,omitempty"`
}

// Clone returns a deep copy of the executor descriptor.
func (e ExecutorInfo) Clone() ExecutorInfo {
	out := e
	out.Command = e.Command.Clone()
	out.Resources = e.Resources.Clone()
	out.Labels = e.Labels.Clone()
	return out
}

// FrameworkInfo describes a framework registered with the orchestrator.
type FrameworkInfo struct {
	ID        FrameworkID `json:"id"`
	Name      string      `json:"name"`
	Principal string      `json:"principal,omitempty"`
	Roles     []string    `json:"roles,omitempty"`
}

// NodeInfo describes an agent node: where it is and what it advertises.
type NodeInfo struct {
	ID         NodeID     `json:"id"`
	Hostname   string     `json:"hostname"`
	Port       int        `json:"port"`
	Resources  Resources  `json:"resources,omitempty"`
	Attributes Attributes `json:"attributes,omitempty"`
}

// Clone returns a deep copy of the node descriptor.
func (n NodeInfo) Clone() NodeInfo {
	out := n
	out.Resources = n.Resources.Clone()
	out.Attributes = n.Attributes.Clone()
	return out
}

// Resource is a named quantity of something a node offers (cpus, mem,
// disk, ports expressed as a scalar count, ...).
type Resource struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Role  string  `json:"role,omitempty"`
}

// Resources is the set of resources a node advertises or a task consumes.
type Resources []Resource

// Clone returns a deep copy of the resource set.
func (r Resources) Clone() Resources {
	if r == nil {
		return nil
	}
	out := make(Resources, len(r))
	copy(out, r)
	return out
}

// Get returns the value of the first resource with the given name and
// whether it was found.
func (r Resources) Get(name string) (float64, bool) {
	for _, res := range r {
		if res.Name == name {
			return res.Value, true
		}
	}
	return 0, false
}

// Attribute is a single key/value fact a node advertises (rack, zone, ...).
type Attribute struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Attributes is the set of attributes a node advertises.
type Attributes []Attribute

// Clone returns a deep copy of the attribute set.
func (a Attributes) Clone() Attributes {
	if a == nil {
		return nil
	}
	out := make(Attributes, len(a))
	copy(out, a)
	return out
}

// ContainerType selects the containerizer used to launch a container.
type ContainerType string

const (
	// ContainerTypeDocker launches through the docker containerizer.
	ContainerTypeDocker ContainerType = "docker"
	// ContainerTypeUniversal launches through the built-in containerizer.
	ContainerTypeUniversal ContainerType = "universal"
)

// ContainerInfo describes the container a task or executor runs in.
type ContainerInfo struct {
	Type  ContainerType `json:"type"`
	Image string        `json:"image,omitempty"`
}

// NetworkInfo describes one network a container is attached to.
type NetworkInfo struct {
	Name        string   `json:"name,omitempty"`
	IPAddresses []string `json:"ip_addresses,omitempty"`
}

// ContainerStatus reports runtime container state inside a task status.
type ContainerStatus struct {
	ContainerID  ContainerID   `json:"container_id"`
	NetworkInfos []NetworkInfo `json:"network_infos,omitempty"`
}

// Clone returns a deep copy of the container status.
func (c ContainerStatus) Clone() ContainerStatus {
	out := c
	if c.NetworkInfos != nil {
		out.NetworkInfos = make([]NetworkInfo, len(c.NetworkInfos))
		copy(out.NetworkInfos, c.NetworkInfos)
		for i, ni := range c.NetworkInfos {
			if ni.IPAddresses != nil {
				addrs := make([]string, len(ni.IPAddresses))
				copy(addrs, ni.IPAddresses)
				out.NetworkInfos[i].IPAddresses = addrs
			}
		}
	}
	return out
}

// TaskState is the lifecycle state reported in a task status update.
type TaskState string

const (
	// TaskStateStaging means the task has been accepted but not started.
	TaskStateStaging TaskState = "staging"
	// TaskStateStarting means the executor is launching the task.
	TaskStateStarting TaskState = "starting"
	// TaskStateRunning means the task is executing.
	TaskStateRunning TaskState = "running"
	// TaskStateFinished means the task completed successfully.
	TaskStateFinished TaskState = "finished"
	// TaskStateFailed means the task terminated with an error.
	TaskStateFailed TaskState = "failed"
	// TaskStateKilled means the task was killed by request.
	TaskStateKilled TaskState = "killed"
	// TaskStateLost means the task was lost with the node or executor.
	TaskStateLost TaskState = "lost"
)

// TaskStatus is a status update for a task. Labels and ContainerStatus are
// pointers because their presence is meaningful: a status decorator that
// returns a TaskStatus with a nil Labels leaves the labels alone while
// still being able to replace the container status, and vice versa.
type TaskStatus struct {
	TaskID          TaskID           `json:"task_id"`
	State           TaskState        `json:"state"`
	Message         string           `json:"message,omitempty"`
	Labels          *Labels          `json:"labels,omitempty"`
	ContainerStatus *ContainerStatus `json:"container_status,omitempty"`
}

// Clone returns a deep copy of the status, including the optional fields.
func (s TaskStatus) Clone() TaskStatus {
	out := s
	if s.Labels != nil {
		l := s.Labels.Clone()
		out.Labels = &l
	}
	if s.ContainerStatus != nil {
		cs := s.ContainerStatus.Clone()
		out.ContainerStatus = &cs
	}
	return out
}
