package conditional

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
	return models.NodeKindConditional
}

func (f *Factory) Name() string {
	return "Conditional"
}

func (f *Factory) Description() string {
	return "Evaluates a condition and routes execution to the true or false path."
}

func (f *Factory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"condition": map[string]any{
				"type":        "string",
				"description": "Condition expression evaluated against run variables and node results.",
				"examples": []string{
					`score >= 80`,
					`status == "active"`,
					`results.fetch.status == 200`,
					`enabled`,
					`true`,
				},
			},
		},
	}
}
