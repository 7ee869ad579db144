package condition

import (
	"log/slog"
	"os"
	"testing"

	"github.com/fluxlane/fluxlane/pkg/models"
	"github.com/stretchr/testify/assert"
)

func newTestEvaluator() *Evaluator {
	return NewEvaluator(slog.New(slog.NewTextHandler(os.Stderr, nil)))
}

func execCtxWith(variables, results map[string]any) *models.ExecutionContext {
	return &models.ExecutionContext{
		RunID:      "run-1",
		WorkflowID: "wf-1",
		Variables:  variables,
		Results:    results,
	}
}

func TestEvaluate_EmptyAndLiterals(t *testing.T) {
	evaluator := newTestEvaluator()
	ctx := execCtxWith(nil, nil)

	assert.True(t, evaluator.Evaluate("", ctx))
	assert.True(t, evaluator.Evaluate("   ", ctx))
	assert.True(t, evaluator.Evaluate("true", ctx))
	assert.True(t, evaluator.Evaluate("TRUE", ctx))
	assert.False(t, evaluator.Evaluate("false", ctx))
	assert.False(t, evaluator.Evaluate("False", ctx))
}

func TestEvaluate_NumericComparisons(t *testing.T) {
	evaluator := newTestEvaluator()

	tests := []struct {
		name       string
		expression string
		variables  map[string]any
		expected   bool
	}{
		{"greater or equal true", "score >= 80", map[string]any{"score": 90}, true},
		{"greater or equal false", "score >= 80", map[string]any{"score": 70}, false},
		{"boundary is not misparsed as strict greater", "x >= 10", map[string]any{"x": 10}, true},
		{"less or equal", "x <= 10", map[string]any{"x": 10}, true},
		{"strict greater", "x > 10", map[string]any{"x": 10}, false},
		{"strict less", "x < 10", map[string]any{"x": 9.5}, true},
		{"float variable", "score >= 80", map[string]any{"score": 80.5}, true},
		{"numeric string coerces", "score >= 80", map[string]any{"score": "90"}, true},
		{"numeric string below threshold", "score >= 80", map[string]any{"score": "70"}, false},
		{"quoted numeric literal coerces", "score >= '80'", map[string]any{"score": 90}, true},
		{"non-numeric operand fails closed", "name > 10", map[string]any{"name": "alice"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, evaluator.Evaluate(tt.expression, execCtxWith(tt.variables, nil)))
		})
	}
}

func TestEvaluate_EqualityWithoutCoercion(t *testing.T) {
	evaluator := newTestEvaluator()

	// A numeric literal equals a numeric variable of any width.
	assert.True(t, evaluator.Evaluate("count == 5", execCtxWith(map[string]any{"count": 5}, nil)))
	assert.True(t, evaluator.Evaluate("count == 5", execCtxWith(map[string]any{"count": 5.0}, nil)))

	// But it never equals the string spelling of the same number.
	assert.False(t, evaluator.Evaluate("count == 5", execCtxWith(map[string]any{"count": "5"}, nil)))
	assert.True(t, evaluator.Evaluate("count != 5", execCtxWith(map[string]any{"count": "5"}, nil)))

	// Strict variants behave identically.
	assert.True(t, evaluator.Evaluate("count === 5", execCtxWith(map[string]any{"count": 5}, nil)))
	assert.False(t, evaluator.Evaluate("count !== 5", execCtxWith(map[string]any{"count": 5}, nil)))
}

func TestEvaluate_StringLiterals(t *testing.T) {
	evaluator := newTestEvaluator()
	ctx := execCtxWith(map[string]any{"status": "active"}, nil)

	assert.True(t, evaluator.Evaluate(`status == "active"`, ctx))
	assert.True(t, evaluator.Evaluate("status == 'active'", ctx))
	assert.False(t, evaluator.Evaluate(`status == "inactive"`, ctx))

	// Unquoted right side falls back to a raw string literal.
	assert.True(t, evaluator.Evaluate("status == active", ctx))
}

func TestEvaluate_ResultsPath(t *testing.T) {
	evaluator := newTestEvaluator()
	ctx := execCtxWith(nil, map[string]any{
		"fetch": map[string]any{
			"success": true,
			"status":  float64(200),
		},
	})

	assert.True(t, evaluator.Evaluate("results.fetch.status == 200", ctx))
	assert.True(t, evaluator.Evaluate("results.fetch.success == true", ctx))

	// Missing path segments resolve to undefined, which equals nothing.
	assert.False(t, evaluator.Evaluate("results.fetch.missing == 200", ctx))
	assert.False(t, evaluator.Evaluate("results.nothere.status == 200", ctx))

	// Walking through a non-traversable value is also undefined.
	assert.False(t, evaluator.Evaluate("results.fetch.status.deep == 1", ctx))
}

func TestEvaluate_BareVariableTruthiness(t *testing.T) {
	evaluator := newTestEvaluator()

	tests := []struct {
		name      string
		variables map[string]any
		expected  bool
	}{
		{"true boolean", map[string]any{"enabled": true}, true},
		{"false boolean", map[string]any{"enabled": false}, false},
		{"non-empty string", map[string]any{"enabled": "yes"}, true},
		{"false string", map[string]any{"enabled": "false"}, false},
		{"zero number", map[string]any{"enabled": 0}, false},
		{"non-zero number", map[string]any{"enabled": 3}, true},
		{"missing variable", map[string]any{}, false},
		{"nil value", map[string]any{"enabled": nil}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, evaluator.Evaluate("enabled", execCtxWith(tt.variables, nil)))
		})
	}
}

func TestEvaluate_Deterministic(t *testing.T) {
	evaluator := newTestEvaluator()
	ctx := execCtxWith(map[string]any{"score": 42}, nil)

	first := evaluator.Evaluate("score >= 40", ctx)
	second := evaluator.Evaluate("score >= 40", ctx)

	assert.Equal(t, first, second)
	assert.True(t, first)
}

func TestEvaluate_MalformedInputFailsClosed(t *testing.T) {
	evaluator := newTestEvaluator()
	ctx := execCtxWith(nil, nil)

	assert.False(t, evaluator.Evaluate(">=", ctx))
	assert.False(t, evaluator.Evaluate("== 5", ctx))
	assert.False(t, evaluator.Evaluate("garbage expression here", ctx))
}
