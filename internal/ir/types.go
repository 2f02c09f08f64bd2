package ir

import "time"

// Workflow is the decoded form of a workflow document: a kind discriminator
// plus an ordered list of nodes. Node order is preserved exactly as written
// since it is the tie-break used by the topological sort (spec.md §4.2).
type Workflow struct {
	Kind  string `json:"kind" yaml:"kind" validate:"required,eq=process"`
	Nodes []Node `json:"nodes" yaml:"nodes" validate:"required,min=1,dive"`
}

// Node is one unit of work in the dependency graph.
type Node struct {
	ID            string       `json:"id" yaml:"id" validate:"required,node_id"`
	ActionRef     string       `json:"actionRef" yaml:"actionRef" validate:"required,action_ref"`
	SchemaVersion string       `json:"schemaVersion" yaml:"schemaVersion" validate:"omitempty,schema_version"`
	DependsOn     []string     `json:"dependsOn" yaml:"dependsOn"`
	Input         Value        `json:"input" yaml:"input"`
	Retry         *RetryPolicy `json:"retry" yaml:"retry"`
	TimeoutMs     *int64       `json:"timeoutMs" yaml:"timeoutMs" validate:"omitempty,min=0"`
}

// RetryPolicy controls how many attempts an executor makes for a node and
// how long it waits between attempts (spec.md §4.5).
type RetryPolicy struct {
	MaxAttempts int   `json:"maxAttempts" yaml:"maxAttempts" validate:"min=1"`
	BackoffMs   int64 `json:"backoffMs" yaml:"backoffMs" validate:"min=0"`
}

// DefaultSchemaVersion is applied when a node omits schemaVersion entirely
// (spec.md §3: "optional, default v1").
const DefaultSchemaVersion = "v1"

// DefaultMaxAttempts is used when a node declares no retry policy at all.
const DefaultMaxAttempts = 1

// DefaultBackoffMs is the wait between attempts when a retry policy is
// present but omits backoffMs.
const DefaultBackoffMs int64 = 0

// EffectiveMaxAttempts returns the node's configured attempt ceiling,
// defaulting to DefaultMaxAttempts when no retry policy is set.
func (n Node) EffectiveMaxAttempts() int {
	if n.Retry == nil || n.Retry.MaxAttempts <= 0 {
		return DefaultMaxAttempts
	}
	return n.Retry.MaxAttempts
}

// EffectiveBackoff returns the node's configured inter-attempt delay,
// defaulting to DefaultBackoffMs when no retry policy is set.
func (n Node) EffectiveBackoff() time.Duration {
	ms := DefaultBackoffMs
	if n.Retry != nil {
		ms = n.Retry.BackoffMs
	}
	if ms < 0 {
		ms = 0
	}
	return time.Duration(ms) * time.Millisecond
}

// EffectiveTimeout returns the node's configured timeout, or zero if the
// node declares none (meaning "no timeout", per spec.md §3).
func (n Node) EffectiveTimeout() time.Duration {
	if n.TimeoutMs == nil || *n.TimeoutMs <= 0 {
		return 0
	}
	return time.Duration(*n.TimeoutMs) * time.Millisecond
}
