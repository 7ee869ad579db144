// Package events defines the run lifecycle notifications published on the event bus.
package events

import "time"

type EventType string

const Topic = "fluxlane.runs"

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	RunStartedEvent   EventType = "run.started"
	RunCompletedEvent EventType = "run.completed"
	RunFailedEvent    EventType = "run.failed"
	NodeExecutedEvent EventType = "run.node.executed"
)

type BaseEvent struct {
	ID         string    `json:"id"`
	Type       EventType `json:"type"`
	Timestamp  time.Time `json:"timestamp"`
	WorkflowID string    `json:"workflow_id"`
	OfficeID   string    `json:"office_id"`
	RunID      string    `json:"run_id"`
}

type RunStarted struct {
	BaseEvent

	Input map[string]any `json:"input,omitempty"`
}

func (e RunStarted) GetType() EventType {
	return RunStartedEvent
}

type RunCompleted struct {
	BaseEvent

	Result   map[string]any `json:"result,omitempty"`
	Duration time.Duration  `json:"duration"`
}

func (e RunCompleted) GetType() EventType {
	return RunCompletedEvent
}

type RunFailed struct {
	BaseEvent

	Error    string        `json:"error"`
	Duration time.Duration `json:"duration"`
}

func (e RunFailed) GetType() EventType {
	return RunFailedEvent
}

// NodeExecuted is emitted after each executed node, mirroring the progress
// written to the run record.
type NodeExecuted struct {
	BaseEvent

	NodeID   string `json:"node_id"`
	NodeKind string `json:"node_kind"`
	Branch   string `json:"branch,omitempty"`
	Progress int    `json:"progress"`
}

func (e NodeExecuted) GetType() EventType {
	return NodeExecutedEvent
}
