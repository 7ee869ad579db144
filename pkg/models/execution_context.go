package models

// ExecutionContext is the mutable state threaded through one run. It is
// exclusively owned by that run; Variables are seeded from caller input and
// Results accumulates one entry per executed non-terminal node.
type ExecutionContext struct {
	RunID      string         `json:"run_id"`
	WorkflowID string         `json:"workflow_id"`
	Variables  map[string]any `json:"variables,omitempty"`
	Results    map[string]any `json:"results,omitempty"`
}

// NewExecutionContext builds the context for a fresh run, copying the
// caller-supplied input so concurrent runs never share variable maps.
func NewExecutionContext(runID, workflowID string, input map[string]any) *ExecutionContext {
	variables := make(map[string]any, len(input))
	for k, v := range input {
		variables[k] = v
	}

	return &ExecutionContext{
		RunID:      runID,
		WorkflowID: workflowID,
		Variables:  variables,
		Results:    make(map[string]any),
	}
}

// RecordResult stores a node's executor output. Results are append-only;
// node IDs are unique per run so entries are never overwritten.
func (c *ExecutionContext) RecordResult(nodeID string, result any) {
	if c.Results == nil {
		c.Results = make(map[string]any)
	}

	c.Results[nodeID] = result
}
