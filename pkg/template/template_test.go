package template

import (
	"testing"

	"github.com/fluxlane/fluxlane/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_PlainString(t *testing.T) {
	result, err := Render("hello", nil)
	require.NoError(t, err)
	assert.Equal(t, "hello", result)
}

func TestRender_Variables(t *testing.T) {
	result, err := Render("{{.name}}", map[string]any{"name": "alice"})
	require.NoError(t, err)
	assert.Equal(t, "alice", result)
}

func TestRender_NumberAndBoolSniffing(t *testing.T) {
	result, err := Render("{{.count}}", map[string]any{"count": 42})
	require.NoError(t, err)
	assert.Equal(t, 42.0, result)

	result, err = Render("{{.flag}}", map[string]any{"flag": true})
	require.NoError(t, err)
	assert.Equal(t, true, result)
}

func TestRender_JSONSniffing(t *testing.T) {
	result, err := Render(`{"a": {{.count}}}`, map[string]any{"count": 1})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": 1.0}, result)
}

func TestRender_ParseError(t *testing.T) {
	_, err := Render("{{.broken", nil)
	assert.Error(t, err)
}

func TestRenderWithContext(t *testing.T) {
	execCtx := models.NewExecutionContext("run-1", "wf-1", map[string]any{"city": "lisbon"})
	execCtx.RecordResult("fetch", map[string]any{"status": 200})

	result, err := RenderWithContext("{{.variables.city}}", execCtx)
	require.NoError(t, err)
	assert.Equal(t, "lisbon", result)

	result, err = RenderWithContext("{{.results.fetch.status}}", execCtx)
	require.NoError(t, err)
	assert.Equal(t, 200.0, result)

	result, err = RenderWithContext("{{.run.id}}", execCtx)
	require.NoError(t, err)
	assert.Equal(t, "run-1", result)
}
