// Package condition evaluates the mini expression language used by
// conditional workflow nodes against a run's execution context.
package condition

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/fluxlane/fluxlane/pkg/models"
)

// operators in match priority order. Longer tokens come before their
// one-character prefixes so ">=" is never misparsed as ">".
var operators = []string{"===", "!==", "==", "!=", ">=", "<=", ">", "<"}

// undefined marks a results-path lookup that walked off the structure.
// Mirrors the distinction between a missing value and an explicit nil.
type undefined struct{}

// Evaluator resolves and compares condition expressions. Evaluation is
// fail-closed: malformed input is logged and yields false, never an error.
type Evaluator struct {
	logger *slog.Logger
}

func NewEvaluator(logger *slog.Logger) *Evaluator {
	return &Evaluator{logger: logger}
}

// Evaluate returns the boolean outcome of expr against the execution context.
// An empty expression is vacuously true: a conditional with no condition
// always takes the true branch.
func (e *Evaluator) Evaluate(expr string, execCtx *models.ExecutionContext) (result bool) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("condition evaluation panicked", "expression", expr, "panic", r)

			result = false
		}
	}()

	expr = strings.TrimSpace(expr)
	if expr == "" {
		return true
	}

	switch strings.ToLower(expr) {
	case "true":
		return true
	case "false":
		return false
	}

	for _, op := range operators {
		idx := strings.Index(expr, op)
		if idx < 0 {
			continue
		}

		left := e.resolve(strings.TrimSpace(expr[:idx]), execCtx)
		right := e.resolve(strings.TrimSpace(expr[idx+len(op):]), execCtx)

		return e.compare(op, left, right, expr)
	}

	// No operator: the whole expression is a variable name.
	value, ok := execCtx.Variables[expr]
	if !ok {
		return false
	}

	return truthy(value)
}

// resolve maps an operand string to a value: quoted string literal, numeric
// literal, boolean literal, variable, results path, or the raw string as a
// last resort.
func (e *Evaluator) resolve(operand string, execCtx *models.ExecutionContext) any {
	if len(operand) >= 2 {
		first, last := operand[0], operand[len(operand)-1]
		if (first == '\'' && last == '\'') || (first == '"' && last == '"') {
			return operand[1 : len(operand)-1]
		}
	}

	if number, err := strconv.ParseFloat(operand, 64); err == nil {
		return number
	}

	switch operand {
	case "true":
		return true
	case "false":
		return false
	}

	if value, ok := execCtx.Variables[operand]; ok {
		return value
	}

	if path, ok := strings.CutPrefix(operand, "results."); ok {
		return walkResults(execCtx.Results, path)
	}

	return operand
}

// walkResults follows a dot-separated path through the accumulated node
// results, returning undefined when a segment is missing or the current
// value is not traversable.
func walkResults(results map[string]any, path string) any {
	var current any = results

	for segment := range strings.SplitSeq(path, ".") {
		container, ok := current.(map[string]any)
		if !ok {
			return undefined{}
		}

		current, ok = container[segment]
		if !ok {
			return undefined{}
		}
	}

	return current
}

func (e *Evaluator) compare(op string, left, right any, expr string) bool {
	switch op {
	case "==", "===":
		return looseEqual(left, right)
	case "!=", "!==":
		return !looseEqual(left, right)
	}

	// Ordering operators coerce both sides to numbers, numeric strings
	// included. Equality never coerces across types.
	leftNum, leftOK := orderingNumber(left)
	rightNum, rightOK := orderingNumber(right)

	if !leftOK || !rightOK {
		e.logger.Debug("non-numeric operand in ordering comparison", "expression", expr)

		return false
	}

	switch op {
	case ">":
		return leftNum > rightNum
	case "<":
		return leftNum < rightNum
	case ">=":
		return leftNum >= rightNum
	case "<=":
		return leftNum <= rightNum
	}

	return false
}

// looseEqual compares resolved values without cross-type coercion: numbers of
// different Go widths compare numerically, but a number never equals its
// string spelling.
func looseEqual(left, right any) bool {
	if _, ok := left.(undefined); ok {
		_, ok = right.(undefined)

		return ok
	}

	if leftNum, ok := toNumber(left); ok {
		rightNum, ok := toNumber(right)

		return ok && leftNum == rightNum
	}

	switch l := left.(type) {
	case string:
		r, ok := right.(string)

		return ok && l == r
	case bool:
		r, ok := right.(bool)

		return ok && l == r
	case nil:
		return right == nil
	}

	return false
}

// orderingNumber coerces an operand for ordering comparisons: numeric Go
// types pass through and numeric strings are parsed. Anything else fails
// the comparison closed.
func orderingNumber(value any) (float64, bool) {
	if s, ok := value.(string); ok {
		number, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0, false
		}

		return number, true
	}

	return toNumber(value)
}

// toNumber accepts the numeric types produced by JSON decoding and Go callers.
func toNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint64:
		return float64(v), true
	default:
		return 0, false
	}
}

func truthy(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}

		return v != ""
	case []any:
		return len(v) > 0
	case map[string]any:
		return len(v) > 0
	case nil:
		return false
	default:
		if n, ok := toNumber(value); ok {
			return n != 0
		}

		return false
	}
}
