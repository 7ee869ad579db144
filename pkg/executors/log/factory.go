package log

import (
	"context"
	"log/slog"

	"github.com/fluxlane/fluxlane/pkg/models"
	"github.com/fluxlane/fluxlane/pkg/protocol"
)

type Factory struct {
	logger *slog.Logger
}

func NewFactory(logger *slog.Logger) protocol.ExecutorFactory {
	return &Factory{logger: logger}
}

func (f *Factory) Create(_ context.Context) (protocol.Executor, error) {
	return NewExecutor(f.logger), nil
}

func (f *Factory) Kind() string {
	return models.NodeKindLog
}

func (f *Factory) Name() string {
	return "Log"
}

func (f *Factory) Description() string {
	return "Writes a templated message to the run log."
}

func (f *Factory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"message": map[string]any{
				"type":        "string",
				"description": "Message to log. Supports templating over variables and results.",
			},
			"level": map[string]any{
				"type": "string",
				"enum": []string{"debug", "info", "warn", "error"},
			},
		},
	}
}
