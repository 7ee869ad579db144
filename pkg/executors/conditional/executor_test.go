package conditional

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/fluxlane/fluxlane/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestExecutor() *Executor {
	return NewExecutor(slog.New(slog.NewTextHandler(os.Stderr, nil)))
}

func TestExecute_TrueBranch(t *testing.T) {
	executor := newTestExecutor()
	execCtx := models.NewExecutionContext("run-1", "wf-1", map[string]any{"score": 90})

	node := &models.Node{
		ID:         "gate",
		Kind:       models.NodeKindConditional,
		Attributes: map[string]any{"condition": "score >= 80"},
	}

	outcome, err := executor.Execute(context.Background(), node, execCtx)
	require.NoError(t, err)

	assert.Equal(t, models.BranchTrue, outcome.Branch)
	assert.True(t, outcome.Recorded)
	assert.Equal(t, map[string]any{"condition": "score >= 80", "result": true}, outcome.Result)
}

func TestExecute_FalseBranch(t *testing.T) {
	executor := newTestExecutor()
	execCtx := models.NewExecutionContext("run-1", "wf-1", map[string]any{"score": 70})

	node := &models.Node{
		ID:         "gate",
		Kind:       models.NodeKindConditional,
		Attributes: map[string]any{"condition": "score >= 80"},
	}

	outcome, err := executor.Execute(context.Background(), node, execCtx)
	require.NoError(t, err)

	assert.Equal(t, models.BranchFalse, outcome.Branch)
}

func TestExecute_MissingConditionTakesTrueBranch(t *testing.T) {
	executor := newTestExecutor()
	execCtx := models.NewExecutionContext("run-1", "wf-1", nil)

	node := &models.Node{ID: "gate", Kind: models.NodeKindConditional}

	outcome, err := executor.Execute(context.Background(), node, execCtx)
	require.NoError(t, err)

	assert.Equal(t, models.BranchTrue, outcome.Branch)
}
