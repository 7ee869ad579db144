// Package transform provides a node executor that derives a new value from
// the run's variables and results via a template expression.
package transform

import (
	"context"

	"github.com/fluxlane/fluxlane/pkg/models"
	"github.com/fluxlane/fluxlane/pkg/protocol"
	"github.com/fluxlane/fluxlane/pkg/template"
)

type Executor struct{}

func (e *Executor) Execute(_ context.Context, node *models.Node, execCtx *models.ExecutionContext) (protocol.Outcome, error) {
	expression := node.StringAttribute("expression")

	value, err := template.RenderWithContext(expression, execCtx)
	if err != nil {
		return protocol.ResultOutcome(map[string]any{
			"success": false,
			"error":   err.Error(),
		}), nil
	}

	return protocol.ResultOutcome(map[string]any{
		"success": true,
		"output":  value,
	}), nil
}
