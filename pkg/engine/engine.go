// Package engine executes workflow graphs and manages the run lifecycle.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/fluxlane/fluxlane/pkg/eventbus"
	"github.com/fluxlane/fluxlane/pkg/events"
	"github.com/fluxlane/fluxlane/pkg/models"
	"github.com/fluxlane/fluxlane/pkg/otelhelper"
	"github.com/fluxlane/fluxlane/pkg/persistence"
	"github.com/fluxlane/fluxlane/pkg/registry"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// runningProgressCeiling caps progress while the run is still executing;
// only a terminal completed run reports 100.
const runningProgressCeiling = 99

// Engine walks a workflow graph breadth-first from its start node, executing
// each reachable node exactly once and persisting progress after every
// executable node.
type Engine struct {
	registry  *registry.Registry
	runs      persistence.RunRepository
	publisher eventbus.EventPublisher
	tracer    trace.Tracer
	logger    *slog.Logger
}

func NewEngine(
	reg *registry.Registry,
	runs persistence.RunRepository,
	publisher eventbus.EventPublisher,
	tracer trace.Tracer,
	logger *slog.Logger,
) *Engine {
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("engine")
	}

	return &Engine{
		registry:  reg,
		runs:      runs,
		publisher: publisher,
		tracer:    tracer,
		logger:    logger,
	}
}

// ExecuteGraph runs the workflow's graph to completion and returns the
// accumulated node results. The caller owns the run's terminal transition;
// the engine only advances Progress and CurrentNodeID while running.
func (e *Engine) ExecuteGraph(
	ctx context.Context,
	workflow *models.Workflow,
	run *models.WorkflowRun,
	execCtx *models.ExecutionContext,
) (map[string]any, error) {
	graph := workflow.Graph

	start := graph.StartNode()
	if start == nil {
		return nil, &models.GraphValidationError{Reason: "graph has no start node"}
	}

	logger := e.logger.With(
		slog.String("workflow_id", workflow.ID),
		slog.String("run_id", run.ID),
	)

	total := graph.ExecutableNodeCount()
	processed := 0

	queue := []string{start.ID}
	visited := make(map[string]struct{}, len(graph.Nodes))

	for len(queue) > 0 {
		nodeID := queue[0]
		queue = queue[1:]

		if _, seen := visited[nodeID]; seen {
			continue
		}

		visited[nodeID] = struct{}{}

		node := graph.NodeByID(nodeID)
		if node == nil {
			return nil, fmt.Errorf("node %q referenced but not present in graph", nodeID)
		}

		run.CurrentNodeID = &node.ID
		e.persistRun(ctx, run, logger)

		branch, err := e.executeNode(ctx, node, execCtx, logger)
		if err != nil {
			return nil, fmt.Errorf("node %q failed: %w", node.ID, err)
		}

		if !node.IsTerminal() {
			processed++

			run.Progress = progressFor(processed, total)
			e.persistRun(ctx, run, logger)

			e.publishNodeExecuted(ctx, workflow, run, node, branch)
		}

		queue = append(queue, e.nextTargets(graph, node, branch)...)
	}

	return execCtx.Results, nil
}

// persistRun writes the run's state best effort. A failed write is logged
// and traversal continues; only executor and traversal errors fail a run.
func (e *Engine) persistRun(ctx context.Context, run *models.WorkflowRun, logger *slog.Logger) {
	if err := e.runs.UpdateRun(ctx, run); err != nil {
		logger.Warn("Failed to persist run state", slog.String("error", err.Error()))
	}
}

func (e *Engine) executeNode(
	ctx context.Context,
	node *models.Node,
	execCtx *models.ExecutionContext,
	logger *slog.Logger,
) (string, error) {
	logger = logger.With(slog.String("node_id", node.ID), slog.String("node_kind", node.Kind))

	ctx, span := otelhelper.StartSpan(ctx, e.tracer, "engine.execute_node",
		attribute.String(otelhelper.NodeIDKey, node.ID),
		attribute.String(otelhelper.NodeKindKey, node.Kind),
		attribute.String(otelhelper.RunIDKey, execCtx.RunID),
	)
	defer span.End()

	kind := node.Kind

	if !e.registry.IsRegistered(kind) {
		// Start and end markers produce no result entry even when their
		// executors are not registered.
		if node.IsTerminal() {
			return "", nil
		}

		logger.Warn("No executor registered for node kind, skipping")
		execCtx.RecordResult(node.ID, map[string]any{
			"skipped": true,
			"reason":  fmt.Sprintf("no executor registered for kind %q", kind),
		})

		return "", nil
	}

	executor, err := e.registry.CreateExecutor(ctx, kind)
	if err != nil {
		otelhelper.SetError(span, err)

		return "", err
	}

	logger.Info("Executing node")

	outcome, err := executor.Execute(ctx, node, execCtx)
	if err != nil {
		otelhelper.SetError(span, err)

		return "", err
	}

	if outcome.Recorded {
		execCtx.RecordResult(node.ID, outcome.Result)
	}

	return outcome.Branch, nil
}

// nextTargets picks which successors to enqueue. Conditional nodes follow only
// the edges whose SourceHandle matches the returned branch token; every other
// node follows all outgoing edges.
func (e *Engine) nextTargets(graph *models.WorkflowGraph, node *models.Node, branch string) []string {
	edges := graph.OutgoingEdges(node.ID)

	if node.Kind != models.NodeKindConditional || branch == "" {
		return targets(edges)
	}

	matched := make([]*models.Edge, 0, len(edges))

	for _, edge := range edges {
		if edge.SourceHandle == branch {
			matched = append(matched, edge)
		}
	}

	return targets(matched)
}

func (e *Engine) publishNodeExecuted(
	ctx context.Context,
	workflow *models.Workflow,
	run *models.WorkflowRun,
	node *models.Node,
	branch string,
) {
	if e.publisher == nil {
		return
	}

	event := events.NodeExecuted{
		BaseEvent: newBaseEvent(events.NodeExecutedEvent, workflow, run),
		NodeID:    node.ID,
		NodeKind:  node.Kind,
		Branch:    branch,
		Progress:  run.Progress,
	}

	if err := e.publisher.Publish(ctx, workflow.ID, event); err != nil {
		e.logger.Warn("Failed to publish node executed event",
			slog.String("run_id", run.ID), slog.String("error", err.Error()))
	}
}

func newBaseEvent(eventType events.EventType, workflow *models.Workflow, run *models.WorkflowRun) events.BaseEvent {
	return events.BaseEvent{
		ID:         uuid.NewString(),
		Type:       eventType,
		Timestamp:  time.Now().UTC(),
		WorkflowID: workflow.ID,
		OfficeID:   workflow.OfficeID,
		RunID:      run.ID,
	}
}

func targets(edges []*models.Edge) []string {
	ids := make([]string, 0, len(edges))
	for _, edge := range edges {
		ids = append(ids, edge.Target)
	}

	return ids
}

// progressFor reports completion as a rounded percentage, capped below 100
// while the run is still executing. A graph with only start and end markers
// has no measurable work, so it reports the midpoint until it finishes.
func progressFor(processed, total int) int {
	if total == 0 {
		return 50
	}

	progress := int(math.Round(float64(processed) / float64(total) * 100))
	if progress > runningProgressCeiling {
		progress = runningProgressCeiling
	}

	return progress
}
