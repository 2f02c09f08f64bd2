// Package handler defines the contract action implementations satisfy
// (spec.md §6.3) and the helpers they use to classify failures.
package handler

import (
	stderrors "errors"

	"github.com/nodeflowrun/automator/internal/ir"
	automatorerrors "github.com/nodeflowrun/automator/pkg/errors"
)

// Handler is the contract every action implementation satisfies. Run must
// not mutate node or resolvedInput, has no access to the output context,
// and must return a Mapping value — any other Value kind is treated by
// the executor as a permanent failure.
type Handler interface {
	Run(node ir.Node, resolvedInput ir.Value) (ir.Value, error)
}

// Func adapts a plain function to the Handler interface.
type Func func(node ir.Node, resolvedInput ir.Value) (ir.Value, error)

// Run calls f.
func (f Func) Run(node ir.Node, resolvedInput ir.Value) (ir.Value, error) {
	return f(node, resolvedInput)
}

// Retryable wraps err as a retryable condition a handler can return to
// request the executor retry the attempt.
func Retryable(nodeID, actionRef string, err error) error {
	return automatorerrors.NewHandlerError(nodeID, actionRef, automatorerrors.Retryable, err)
}

// Permanent wraps err as a permanent condition: the executor must not
// retry and fails the node immediately.
func Permanent(nodeID, actionRef string, err error) error {
	return automatorerrors.NewHandlerError(nodeID, actionRef, automatorerrors.Permanent, err)
}

// Classify reports the Classification carried by err if it is (or wraps)
// a *automatorerrors.HandlerError; any other error — including one raised
// by a handler without going through Retryable/Permanent — is treated as
// Retryable, per spec.md §4.5/§6.3 ("any other exception is treated as
// retryable").
func Classify(err error) automatorerrors.Classification {
	var handlerErr *automatorerrors.HandlerError
	if stderrors.As(err, &handlerErr) {
		return handlerErr.Classification
	}
	return automatorerrors.Retryable
}
