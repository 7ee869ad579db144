package webhook

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/fluxlane/fluxlane/pkg/models"
	"github.com/fluxlane/fluxlane/pkg/protocol"
)

type Factory struct {
	client *http.Client
	logger *slog.Logger
}

// NewFactory creates a webhook executor factory. A nil client gets the
// default 30s-timeout client.
func NewFactory(client *http.Client, logger *slog.Logger) protocol.ExecutorFactory {
	return &Factory{client: client, logger: logger}
}

func (f *Factory) Create(_ context.Context) (protocol.Executor, error) {
	return NewExecutor(f.client, f.logger), nil
}

func (f *Factory) Kind() string {
	return models.NodeKindWebhook
}

func (f *Factory) Name() string {
	return "Webhook"
}

func (f *Factory) Description() string {
	return "POSTs the run's variables and accumulated results to an external URL."
}

func (f *Factory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"url": map[string]any{
				"type":        "string",
				"description": "Destination URL for the JSON envelope.",
			},
		},
		"required": []string{"url"},
	}
}
