package task

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/fluxlane/fluxlane/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	output string
	err    error

	lastSystem string
	lastUser   string
}

func (g *fakeGenerator) Generate(_ context.Context, systemPrompt, userPrompt string) (string, error) {
	g.lastSystem = systemPrompt
	g.lastUser = userPrompt

	return g.output, g.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}

func taskNode(attributes map[string]any) *models.Node {
	return &models.Node{ID: "task-1", Kind: models.NodeKindTask, Attributes: attributes}
}

func TestExecute_NoDescriptionReturnsStub(t *testing.T) {
	generator := &fakeGenerator{output: "should not be called"}
	executor := NewExecutor(generator, testLogger())
	execCtx := models.NewExecutionContext("run-1", "wf-1", nil)

	outcome, err := executor.Execute(context.Background(), taskNode(map[string]any{"label": "Send report"}), execCtx)
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"success": true,
		"output":  `Task "Send report" completed`,
	}, outcome.Result)
	assert.Empty(t, generator.lastUser)
}

func TestExecute_NilGeneratorReturnsStub(t *testing.T) {
	executor := NewExecutor(nil, testLogger())
	execCtx := models.NewExecutionContext("run-1", "wf-1", nil)

	node := taskNode(map[string]any{"label": "Summarize", "description": "Summarize the quarter"})

	outcome, err := executor.Execute(context.Background(), node, execCtx)
	require.NoError(t, err)

	assert.Equal(t, `Task "Summarize" completed`, outcome.Result.(map[string]any)["output"])
}

func TestExecute_GenerationSuccess(t *testing.T) {
	generator := &fakeGenerator{output: "Quarterly revenue grew 12%."}
	executor := NewExecutor(generator, testLogger())
	execCtx := models.NewExecutionContext("run-1", "wf-1", map[string]any{"quarter": "Q3"})

	node := taskNode(map[string]any{"label": "Summarize", "description": "Summarize the quarter"})

	outcome, err := executor.Execute(context.Background(), node, execCtx)
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"success": true,
		"output":  "Quarterly revenue grew 12%.",
	}, outcome.Result)
	assert.Contains(t, generator.lastUser, "Summarize the quarter")
	assert.Contains(t, generator.lastUser, `"quarter":"Q3"`)
}

func TestExecute_GenerationFailureDegradesToStub(t *testing.T) {
	generator := &fakeGenerator{err: errors.New("rate limited")}
	executor := NewExecutor(generator, testLogger())
	execCtx := models.NewExecutionContext("run-1", "wf-1", nil)

	node := taskNode(map[string]any{"label": "Summarize", "description": "Summarize the quarter"})

	outcome, err := executor.Execute(context.Background(), node, execCtx)
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"success": true,
		"output":  `Task "Summarize" completed`,
	}, outcome.Result)
}

func TestExecute_LabelFallsBackToNodeID(t *testing.T) {
	executor := NewExecutor(nil, testLogger())
	execCtx := models.NewExecutionContext("run-1", "wf-1", nil)

	outcome, err := executor.Execute(context.Background(), taskNode(nil), execCtx)
	require.NoError(t, err)

	assert.Equal(t, `Task "task-1" completed`, outcome.Result.(map[string]any)["output"])
}
