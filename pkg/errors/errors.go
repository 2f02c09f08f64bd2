// Package errors defines the typed error taxonomy used across the engine.
//
// Each stage of the pipeline (load, validate, resolve, execute) raises one
// of the types below so callers can use errors.As to recover the exit code
// and classification without parsing message strings.
package errors

import "fmt"

// StructuralError indicates malformed workflow IR: missing kind, empty
// nodes, or a top-level value that is not a mapping. Maps to exit code 2.
type StructuralError struct {
	Path    string
	Message string
	Err     error
}

// NewStructuralError constructs a StructuralError.
func NewStructuralError(path, message string, err error) error {
	return &StructuralError{Path: path, Message: message, Err: err}
}

func (e *StructuralError) Error() string {
	if e == nil {
		return ""
	}
	if e.Path != "" {
		return fmt.Sprintf("invalid workflow: %s: %s", e.Path, e.Message)
	}
	return fmt.Sprintf("invalid workflow: %s", e.Message)
}

// Unwrap exposes the underlying cause.
func (e *StructuralError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// GraphError indicates a structural problem with the dependency graph:
// cycles, dangling dependsOn ids, an unknown action, or a malformed
// actionRef. Maps to exit code 3.
type GraphError struct {
	Message string
	Err     error
}

// NewGraphError constructs a GraphError.
func NewGraphError(message string, err error) error {
	return &GraphError{Message: message, Err: err}
}

func (e *GraphError) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

// Unwrap exposes the underlying cause.
func (e *GraphError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Classification distinguishes retryable failures from permanent ones in
// the node executor's state machine (spec.md §4.5/§7).
type Classification int

const (
	// Retryable failures are re-attempted up to the node's maxAttempts.
	Retryable Classification = iota
	// Permanent failures fail the node immediately, no retry.
	Permanent
)

// String renders the classification for logs and metrics.
func (c Classification) String() string {
	if c == Permanent {
		return "permanent"
	}
	return "retryable"
}

// ResolverError indicates a failure while resolving a $ref against the
// output context: an unsupported path prefix, a missing field, an
// out-of-range index, or a template literal rejected under a strict mode.
// Carries a Classification because an unresolved upstream node id is
// retryable while every other resolver failure is permanent (spec.md §4.3).
type ResolverError struct {
	Path           string
	Message        string
	Classification Classification
	Err            error
}

// NewResolverError constructs a ResolverError with the given classification.
func NewResolverError(path, message string, class Classification, err error) error {
	return &ResolverError{Path: path, Message: message, Classification: class, Err: err}
}

func (e *ResolverError) Error() string {
	if e == nil {
		return ""
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Path)
	}
	return e.Message
}

// Unwrap exposes the underlying cause.
func (e *ResolverError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// HandlerError wraps a failure raised by (or attributed to) an action
// handler invocation: an explicit classification from the handler, a
// cooperative timeout breach, a non-mapping return value, or an
// unclassified exception (treated as Retryable per spec.md §4.5).
type HandlerError struct {
	NodeID         string
	ActionRef      string
	Classification Classification
	Err            error
}

// NewHandlerError constructs a HandlerError.
func NewHandlerError(nodeID, actionRef string, class Classification, err error) error {
	return &HandlerError{NodeID: nodeID, ActionRef: actionRef, Classification: class, Err: err}
}

func (e *HandlerError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err == nil {
		return fmt.Sprintf("node %s: handler failed", e.NodeID)
	}
	return fmt.Sprintf("node %s: %v", e.NodeID, e.Err)
}

// Unwrap exposes the underlying cause.
func (e *HandlerError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// PolicyError indicates a quarantined (actionRef, schemaVersion) pair was
// invoked under a strict mode (verify/prod). Always permanent, exit 4.
type PolicyError struct {
	NodeID    string
	ActionRef string
	Version   string
}

// NewPolicyError constructs a PolicyError.
func NewPolicyError(nodeID, actionRef, version string) error {
	return &PolicyError{NodeID: nodeID, ActionRef: actionRef, Version: version}
}

func (e *PolicyError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("action quarantined: %s:%s", e.ActionRef, e.Version)
}
