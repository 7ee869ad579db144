package models

import "time"

// Workflow is a stored workflow definition scoped to an office (tenant).
// Name, description, version and is_active are presentation fields; the
// engine only consumes the graph.
type Workflow struct {
	ID          string         `json:"id"`
	OfficeID    string         `json:"office_id"   validate:"required"`
	Name        string         `json:"name"        validate:"required,min=3"`
	Description string         `json:"description"`
	Version     int            `json:"version"`
	IsActive    bool           `json:"is_active"`
	Graph       *WorkflowGraph `json:"graph"`
	Variables   map[string]any `json:"variables,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   *time.Time     `json:"deleted_at,omitempty"`
}

// HasGraph reports whether the workflow carries an executable graph.
func (w *Workflow) HasGraph() bool {
	return w.Graph != nil && len(w.Graph.Nodes) > 0
}
