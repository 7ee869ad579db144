// Package delay provides a node executor that pauses traversal for a
// configured duration.
package delay

import (
	"context"
	"time"

	"github.com/fluxlane/fluxlane/pkg/models"
	"github.com/fluxlane/fluxlane/pkg/protocol"
)

type Executor struct{}

func (e *Executor) Execute(ctx context.Context, node *models.Node, _ *models.ExecutionContext) (protocol.Outcome, error) {
	duration := durationOf(node)

	select {
	case <-time.After(duration):
	case <-ctx.Done():
		return protocol.ResultOutcome(map[string]any{
			"success": false,
			"error":   ctx.Err().Error(),
		}), nil
	}

	return protocol.ResultOutcome(map[string]any{
		"success":    true,
		"delayed_ms": duration.Milliseconds(),
	}), nil
}

func durationOf(node *models.Node) time.Duration {
	if node.Attributes == nil {
		return 0
	}

	switch v := node.Attributes["duration_ms"].(type) {
	case float64:
		return time.Duration(v) * time.Millisecond
	case int:
		return time.Duration(v) * time.Millisecond
	default:
		return 0
	}
}
