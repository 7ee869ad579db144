package models

// Branch tokens carried on a conditional node's outgoing edges. The traversal
// engine matches the token returned by the conditional executor against the
// edge's SourceHandle to pick a path.
const (
	BranchTrue  = "true"
	BranchFalse = "false"
)

// Edge is a directed connection between two nodes.
type Edge struct {
	ID           string `json:"id"            validate:"required"`
	Source       string `json:"source"        validate:"required"` // Source node ID
	Target       string `json:"target"        validate:"required"` // Target node ID
	SourceHandle string `json:"source_handle,omitempty"`           // Branch token on conditional outputs
}
