package delay

import (
	"context"

	"github.com/fluxlane/fluxlane/pkg/models"
	"github.com/fluxlane/fluxlane/pkg/protocol"
)

type Factory struct{}

func NewFactory() protocol.ExecutorFactory {
	return &Factory{}
}

func (f *Factory) Create(_ context.Context) (protocol.Executor, error) {
	return &Executor{}, nil
}

func (f *Factory) Kind() string {
	return models.NodeKindDelay
}

func (f *Factory) Name() string {
	return "Delay"
}

func (f *Factory) Description() string {
	return "Pauses the run for a configured number of milliseconds."
}

func (f *Factory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"duration_ms": map[string]any{
				"type":        "number",
				"description": "How long to pause, in milliseconds.",
			},
		},
	}
}
