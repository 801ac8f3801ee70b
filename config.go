package helmsman

import "strings"

// Config holds configuration for the Agent.
type Config struct {
	// HookModules is the ordered list of hook module names to load at
	// initialization. Order matters: it decides decoration precedence.
	HookModules []string
}

// DefaultConfig returns a Config with no hook modules configured.
func DefaultConfig() Config {
	return Config{}
}

// ParseHookList splits a comma-separated module list into names, in
// order. An empty string yields no names.
func ParseHookList(hookList string) []string {
	if hookList == "" {
		return nil
	}
	return strings.Split(hookList, ",")
}
