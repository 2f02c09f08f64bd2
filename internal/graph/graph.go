// Package graph builds the dependency graph from a workflow's nodes and
// computes a deterministic execution order via Kahn's algorithm.
package graph

import (
	"fmt"
	"strings"

	automatorerrors "github.com/nodeflowrun/automator/pkg/errors"
	"github.com/nodeflowrun/automator/internal/ir"
)

// Node is one vertex of the dependency graph: the workflow node plus its
// position in IR order, used to break topological-sort ties deterministically
// (spec.md §4.2 — ties resolve in the order nodes appear in the document,
// not lexically by id).
type Node struct {
	IR    ir.Node
	Index int

	dependsOn []string
	dependents []string
}

// Graph is the full dependency graph plus the IR-declared node order.
type Graph struct {
	nodes []*Node
	byID  map[string]*Node
}

// Build constructs a Graph from a workflow's nodes, validating that every
// dependsOn id refers to a node that actually exists. Duplicate ids and
// unknown dependency targets are reported as GraphError (exit code 3,
// spec.md §7).
func Build(nodes []ir.Node) (*Graph, error) {
	g := &Graph{byID: make(map[string]*Node, len(nodes))}

	for i, n := range nodes {
		if _, exists := g.byID[n.ID]; exists {
			return nil, automatorerrors.NewGraphError(fmt.Sprintf("duplicate node id: %s", n.ID), nil)
		}
		node := &Node{IR: n, Index: i, dependsOn: n.DependsOn}
		g.byID[n.ID] = node
		g.nodes = append(g.nodes, node)
	}

	for _, node := range g.nodes {
		for _, dep := range node.dependsOn {
			target, ok := g.byID[dep]
			if !ok {
				return nil, automatorerrors.NewGraphError(
					fmt.Sprintf("node %s depends on unknown node %s", node.IR.ID, dep), nil)
			}
			target.dependents = append(target.dependents, node.IR.ID)
		}
	}

	return g, nil
}

// Node looks up a node by id.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.byID[id]
	return n, ok
}

// Order returns a topological ordering of the graph's node ids using Kahn's
// algorithm. Ties among nodes simultaneously ready (indegree 0) are broken
// by IR declaration order, so the resulting order is deterministic and
// reproducible across runs. Returns a GraphError naming every node left
// with nonzero indegree if the graph contains a cycle.
func (g *Graph) Order() ([]string, error) {
	indegree := make(map[string]int, len(g.nodes))
	for _, n := range g.nodes {
		indegree[n.IR.ID] = len(n.dependsOn)
	}

	ready := make([]*Node, 0)
	for _, n := range g.nodes {
		if indegree[n.IR.ID] == 0 {
			ready = append(ready, n)
		}
	}

	var order []string
	for len(ready) > 0 {
		next := popLowestIndex(&ready)
		order = append(order, next.IR.ID)

		for _, depID := range next.dependents {
			indegree[depID]--
			if indegree[depID] == 0 {
				ready = append(ready, g.byID[depID])
			}
		}
	}

	if len(order) != len(g.nodes) {
		var remaining []string
		for _, n := range g.nodes {
			if indegree[n.IR.ID] > 0 {
				remaining = append(remaining, n.IR.ID)
			}
		}
		// Report remaining ids in IR order for a deterministic message.
		sortByIRIndex(remaining, g.byID)
		return nil, automatorerrors.NewGraphError(fmt.Sprintf("cycle detected: %s", strings.Join(remaining, ", ")), nil)
	}

	return order, nil
}

// popLowestIndex removes and returns the element of ready with the lowest
// IR Index, preserving the IR-order tie-break.
func popLowestIndex(ready *[]*Node) *Node {
	r := *ready
	lowest := 0
	for i := 1; i < len(r); i++ {
		if r[i].Index < r[lowest].Index {
			lowest = i
		}
	}
	n := r[lowest]
	*ready = append(r[:lowest], r[lowest+1:]...)
	return n
}

func sortByIRIndex(ids []string, byID map[string]*Node) {
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && byID[ids[j-1]].Index > byID[ids[j]].Index; j-- {
			ids[j-1], ids[j] = ids[j], ids[j-1]
		}
	}
}
