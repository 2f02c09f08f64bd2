package errors

import (
	stdErrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStructuralErrorWrapsUnderlying(t *testing.T) {
	t.Parallel()

	underlying := fmt.Errorf("unexpected token")
	err := NewStructuralError("nodes", "must be a non-empty sequence", underlying)

	var structuralErr *StructuralError
	require.ErrorAs(t, err, &structuralErr)
	require.Equal(t, "nodes", structuralErr.Path)
	require.True(t, stdErrors.Is(err, underlying))
	require.Contains(t, err.Error(), "nodes")
}

func TestGraphErrorMessage(t *testing.T) {
	t.Parallel()

	err := NewGraphError("cycle detected: a, b", nil)

	var graphErr *GraphError
	require.ErrorAs(t, err, &graphErr)
	require.Equal(t, "cycle detected: a, b", err.Error())
}

func TestResolverErrorCarriesClassification(t *testing.T) {
	t.Parallel()

	underlying := stdErrors.New("no such node")
	err := NewResolverError("$.nodes.a.output.x", "$ref to unknown node", Retryable, underlying)

	var resolverErr *ResolverError
	require.ErrorAs(t, err, &resolverErr)
	require.Equal(t, Retryable, resolverErr.Classification)
	require.True(t, stdErrors.Is(err, underlying))
	require.Contains(t, err.Error(), "$.nodes.a.output.x")
}

func TestHandlerErrorIncludesNodeContext(t *testing.T) {
	t.Parallel()

	underlying := stdErrors.New("boom")
	err := NewHandlerError("b", "plugin.core.echo", Permanent, underlying)

	var handlerErr *HandlerError
	require.ErrorAs(t, err, &handlerErr)
	require.Equal(t, "b", handlerErr.NodeID)
	require.Equal(t, Permanent, handlerErr.Classification)
	require.True(t, stdErrors.Is(err, underlying))
}

func TestPolicyErrorIncludesActionRef(t *testing.T) {
	t.Parallel()

	err := NewPolicyError("a", "plugin.http.get", "v1")

	var policyErr *PolicyError
	require.ErrorAs(t, err, &policyErr)
	require.Equal(t, "plugin.http.get", policyErr.ActionRef)
	require.Contains(t, err.Error(), "plugin.http.get:v1")
}

func TestClassificationString(t *testing.T) {
	t.Parallel()

	require.Equal(t, "retryable", Retryable.String())
	require.Equal(t, "permanent", Permanent.String())
}
