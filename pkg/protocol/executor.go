// Package protocol defines the interfaces and contracts for pluggable node executors.
package protocol

import (
	"context"

	"github.com/fluxlane/fluxlane/pkg/models"
)

// Outcome is what a node executor hands back to the traversal engine: a
// branch token for conditional kinds, or a result value recorded into the
// execution context for everything else.
type Outcome struct {
	// Branch selects which outgoing edges to follow. Empty for
	// non-conditional executors (all outgoing edges are followed).
	Branch string

	// Result is persisted into the run's results under the node ID.
	Result any

	// Recorded reports whether Result should be persisted. Start and end
	// markers produce no result entry.
	Recorded bool
}

// BranchOutcome builds the outcome of a conditional executor.
func BranchOutcome(branch string, result any) Outcome {
	return Outcome{Branch: branch, Result: result, Recorded: true}
}

// ResultOutcome builds the outcome of a regular executor.
func ResultOutcome(result any) Outcome {
	return Outcome{Result: result, Recorded: true}
}

// Executor implements one node kind's behavior. Implementations must not
// return an error for expected failures (unreachable webhook, unavailable
// generator, malformed condition); those are encoded into the outcome so the
// run proceeds. A returned error fails the whole run.
type Executor interface {
	Execute(ctx context.Context, node *models.Node, execCtx *models.ExecutionContext) (Outcome, error)
}

// ExecutorFactory creates executor instances and describes the node kind it serves.
type ExecutorFactory interface {
	// Create builds an executor bound to the run-independent collaborators
	// it needs. Executors are stateless with respect to individual runs.
	Create(ctx context.Context) (Executor, error)

	// Kind returns the node kind this factory serves.
	Kind() string

	// Name returns the human-readable name for this node kind.
	Name() string

	// Description returns a description of what nodes of this kind do.
	Description() string

	// Schema returns the JSON schema for the node's attributes.
	Schema() map[string]any
}
