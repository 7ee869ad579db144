package models

import "time"

// RunStatus represents the lifecycle state of a workflow run.
type RunStatus string

const (
	RunStatusPending   RunStatus = "pending"
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
	RunStatusPaused    RunStatus = "paused" // Settable externally, never produced by the engine
)

// WorkflowRun is the durable, queryable state of one workflow execution.
// The engine is the sole writer of Status, Progress, CurrentNodeID,
// CompletedAt, Error and Result for the lifetime of the run.
type WorkflowRun struct {
	ID            string         `json:"id"`
	WorkflowID    string         `json:"workflow_id" validate:"required"`
	OfficeID      string         `json:"office_id"   validate:"required"`
	Status        RunStatus      `json:"status"`
	Progress      int            `json:"progress"` // 0-100, monotonically non-decreasing while running
	CurrentNodeID *string        `json:"current_node_id,omitempty"`
	StartedAt     time.Time      `json:"started_at"`
	CompletedAt   *time.Time     `json:"completed_at,omitempty"`
	Error         *string        `json:"error,omitempty"`
	Result        map[string]any `json:"result,omitempty"`
}

// IsTerminal reports whether the run reached a final state.
func (r *WorkflowRun) IsTerminal() bool {
	return r.Status == RunStatusCompleted || r.Status == RunStatusFailed
}
