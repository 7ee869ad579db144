// Package log provides a node executor that writes a templated message to
// the structured log.
package log

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fluxlane/fluxlane/pkg/models"
	"github.com/fluxlane/fluxlane/pkg/protocol"
	"github.com/fluxlane/fluxlane/pkg/template"
)

type Executor struct {
	logger *slog.Logger
}

func NewExecutor(logger *slog.Logger) *Executor {
	return &Executor{logger: logger}
}

func (e *Executor) Execute(_ context.Context, node *models.Node, execCtx *models.ExecutionContext) (protocol.Outcome, error) {
	message := node.StringAttribute("message")

	rendered, err := template.RenderWithContext(message, execCtx)
	if err != nil {
		// fall back to the raw message on template errors
		rendered = message
	}

	text := fmt.Sprintf("%v", rendered)

	switch node.StringAttribute("level") {
	case "debug":
		e.logger.Debug(text, "node_id", node.ID)
	case "warn":
		e.logger.Warn(text, "node_id", node.ID)
	case "error":
		e.logger.Error(text, "node_id", node.ID)
	default:
		e.logger.Info(text, "node_id", node.ID)
	}

	return protocol.ResultOutcome(map[string]any{
		"success": true,
		"message": text,
	}), nil
}
