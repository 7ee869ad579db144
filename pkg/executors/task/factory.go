package task

import (
	"context"
	"log/slog"

	"github.com/fluxlane/fluxlane/pkg/models"
	"github.com/fluxlane/fluxlane/pkg/protocol"
)

type Factory struct {
	generator protocol.TextGenerator
	logger    *slog.Logger
}

func NewFactory(generator protocol.TextGenerator, logger *slog.Logger) protocol.ExecutorFactory {
	return &Factory{generator: generator, logger: logger}
}

func (f *Factory) Create(_ context.Context) (protocol.Executor, error) {
	return NewExecutor(f.generator, f.logger), nil
}

func (f *Factory) Kind() string {
	return models.NodeKindTask
}

func (f *Factory) Name() string {
	return "Task"
}

func (f *Factory) Description() string {
	return "Runs a described unit of work through the text-generation collaborator, degrading to a completion stub when generation is unavailable."
}

func (f *Factory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"label": map[string]any{
				"type":        "string",
				"description": "Display label, used in the completion stub output.",
			},
			"description": map[string]any{
				"type":        "string",
				"description": "What the task should do. Empty descriptions skip generation.",
			},
		},
	}
}
