package transform

import (
	"context"
	"testing"

	"github.com/fluxlane/fluxlane/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecute_RendersExpression(t *testing.T) {
	executor := &Executor{}
	execCtx := models.NewExecutionContext("run-1", "wf-1", map[string]any{"count": 2})

	node := &models.Node{
		ID:         "double",
		Kind:       models.NodeKindTransform,
		Attributes: map[string]any{"expression": "{{.variables.count}}"},
	}

	outcome, err := executor.Execute(context.Background(), node, execCtx)
	require.NoError(t, err)

	result := outcome.Result.(map[string]any)
	assert.Equal(t, true, result["success"])
	assert.Equal(t, 2.0, result["output"])
}

func TestExecute_BrokenTemplateDoesNotThrow(t *testing.T) {
	executor := &Executor{}
	execCtx := models.NewExecutionContext("run-1", "wf-1", nil)

	node := &models.Node{
		ID:         "bad",
		Kind:       models.NodeKindTransform,
		Attributes: map[string]any{"expression": "{{.broken"},
	}

	outcome, err := executor.Execute(context.Background(), node, execCtx)
	require.NoError(t, err)

	result := outcome.Result.(map[string]any)
	assert.Equal(t, false, result["success"])
	assert.NotEmpty(t, result["error"])
}
