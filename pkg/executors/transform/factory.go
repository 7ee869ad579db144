package transform

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
	return models.NodeKindTransform
}

func (f *Factory) Name() string {
	return "Transform"
}

func (f *Factory) Description() string {
	return "Derives a new value from variables and prior node results via a template expression."
}

func (f *Factory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"expression": map[string]any{
				"type":        "string",
				"description": "Template expression producing the node's output value.",
			},
		},
		"required": []string{"expression"},
	}
}
