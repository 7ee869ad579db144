package models

import "fmt"

// WorkflowGraph is the immutable node/edge document a run interprets. It is
// constructed once per invocation from the stored workflow and never mutated.
type WorkflowGraph struct {
	Nodes []*Node `json:"nodes"`
	Edges []*Edge `json:"edges"`
}

// GraphValidationError reports a structurally invalid workflow graph.
type GraphValidationError struct {
	Reason string
}

func (e *GraphValidationError) Error() string {
	return "invalid workflow graph: " + e.Reason
}

// Validate checks the structural invariants the traversal engine relies on:
// at least one node, exactly one start node, and edges that reference
// existing node IDs.
func (g *WorkflowGraph) Validate() error {
	if len(g.Nodes) == 0 {
		return &GraphValidationError{Reason: "graph has no nodes"}
	}

	ids := make(map[string]struct{}, len(g.Nodes))
	starts := 0

	for _, node := range g.Nodes {
		if node.ID == "" {
			return &GraphValidationError{Reason: "node with empty id"}
		}

		if _, exists := ids[node.ID]; exists {
			return &GraphValidationError{Reason: fmt.Sprintf("duplicate node id %q", node.ID)}
		}

		ids[node.ID] = struct{}{}

		if node.Kind == NodeKindStart {
			starts++
		}
	}

	if starts == 0 {
		return &GraphValidationError{Reason: "graph has no start node"}
	}

	if starts > 1 {
		return &GraphValidationError{Reason: "graph has more than one start node"}
	}

	for _, edge := range g.Edges {
		if _, exists := ids[edge.Source]; !exists {
			return &GraphValidationError{Reason: fmt.Sprintf("edge %q references missing source node %q", edge.ID, edge.Source)}
		}

		if _, exists := ids[edge.Target]; !exists {
			return &GraphValidationError{Reason: fmt.Sprintf("edge %q references missing target node %q", edge.ID, edge.Target)}
		}
	}

	return nil
}

// NodeByID returns the node with the given ID, or nil.
func (g *WorkflowGraph) NodeByID(id string) *Node {
	for _, node := range g.Nodes {
		if node.ID == id {
			return node
		}
	}

	return nil
}

// StartNode returns the single start node, or nil for an invalid graph.
func (g *WorkflowGraph) StartNode() *Node {
	for _, node := range g.Nodes {
		if node.Kind == NodeKindStart {
			return node
		}
	}

	return nil
}

// OutgoingEdges returns the edges leaving the given node, in document order.
func (g *WorkflowGraph) OutgoingEdges(nodeID string) []*Edge {
	var edges []*Edge

	for _, edge := range g.Edges {
		if edge.Source == nodeID {
			edges = append(edges, edge)
		}
	}

	return edges
}

// ExecutableNodeCount returns the number of nodes that count toward run
// progress, excluding start and end markers.
func (g *WorkflowGraph) ExecutableNodeCount() int {
	count := 0

	for _, node := range g.Nodes {
		if !node.IsTerminal() {
			count++
		}
	}

	return count
}
