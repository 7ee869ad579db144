// Package conditional provides the branching node executor. It evaluates the
// node's condition attribute and routes traversal to the true or false path.
package conditional

import (
	"context"
	"log/slog"

	"github.com/fluxlane/fluxlane/pkg/condition"
	"github.com/fluxlane/fluxlane/pkg/models"
	"github.com/fluxlane/fluxlane/pkg/protocol"
)

type Executor struct {
	evaluator *condition.Evaluator
	logger    *slog.Logger
}

func NewExecutor(logger *slog.Logger) *Executor {
	return &Executor{
		evaluator: condition.NewEvaluator(logger),
		logger:    logger,
	}
}

// Execute evaluates the condition and returns the branch token matched
// against outgoing edge handles. Evaluation is fail-closed: a malformed
// condition takes the false branch, it never fails the run.
func (e *Executor) Execute(_ context.Context, node *models.Node, execCtx *models.ExecutionContext) (protocol.Outcome, error) {
	expression := node.StringAttribute("condition")
	result := e.evaluator.Evaluate(expression, execCtx)

	e.logger.Debug("evaluated condition",
		"node_id", node.ID,
		"condition", expression,
		"result", result,
	)

	branch := models.BranchFalse
	if result {
		branch = models.BranchTrue
	}

	return protocol.BranchOutcome(branch, map[string]any{
		"condition": expression,
		"result":    result,
	}), nil
}
