package marker

import (
	"context"

	"github.com/fluxlane/fluxlane/pkg/models"
	"github.com/fluxlane/fluxlane/pkg/protocol"
)

// StartFactory creates the executor for start nodes.
type StartFactory struct{}

func NewStartFactory() protocol.ExecutorFactory {
	return &StartFactory{}
}

func (f *StartFactory) Create(_ context.Context) (protocol.Executor, error) {
	return &Executor{}, nil
}

func (f *StartFactory) Kind() string {
	return models.NodeKindStart
}

func (f *StartFactory) Name() string {
	return "Start"
}

func (f *StartFactory) Description() string {
	return "Entry point of a workflow. Every graph has exactly one start node."
}

func (f *StartFactory) Schema() map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": map[string]any{},
	}
}

// EndFactory creates the executor for end nodes.
type EndFactory struct{}

func NewEndFactory() protocol.ExecutorFactory {
	return &EndFactory{}
}

func (f *EndFactory) Create(_ context.Context) (protocol.Executor, error) {
	return &Executor{}, nil
}

func (f *EndFactory) Kind() string {
	return models.NodeKindEnd
}

func (f *EndFactory) Name() string {
	return "End"
}

func (f *EndFactory) Description() string {
	return "Terminal marker. Reaching an end node does not cut short other in-flight branches."
}

func (f *EndFactory) Schema() map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": map[string]any{},
	}
}
