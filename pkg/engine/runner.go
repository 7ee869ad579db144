package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/fluxlane/fluxlane/pkg/eventbus"
	"github.com/fluxlane/fluxlane/pkg/events"
	"github.com/fluxlane/fluxlane/pkg/models"
	"github.com/fluxlane/fluxlane/pkg/persistence"
	"github.com/google/uuid"
)

// Runner owns the run lifecycle: it validates the invocation, creates the run
// record and executes the graph on a detached goroutine. Callers get the run
// back immediately and poll or subscribe for its outcome.
type Runner struct {
	workflows persistence.WorkflowRepository
	runs      persistence.RunRepository
	engine    *Engine
	publisher eventbus.EventPublisher
	logger    *slog.Logger
	active    sync.WaitGroup
}

func NewRunner(
	workflows persistence.WorkflowRepository,
	runs persistence.RunRepository,
	eng *Engine,
	publisher eventbus.EventPublisher,
	logger *slog.Logger,
) *Runner {
	return &Runner{
		workflows: workflows,
		runs:      runs,
		engine:    eng,
		publisher: publisher,
		logger:    logger,
	}
}

// StartRun validates the workflow and creates a running run record, then
// executes the graph asynchronously. No run record is created when validation
// fails, so a bad invocation leaves no trace in the run store. A non-empty
// officeID scopes the lookup to that tenant.
func (r *Runner) StartRun(ctx context.Context, workflowID, officeID string, input map[string]any) (*models.WorkflowRun, error) {
	workflow, err := r.workflows.WorkflowByID(ctx, workflowID)
	if err != nil {
		return nil, err
	}

	if officeID != "" && workflow.OfficeID != officeID {
		return nil, &persistence.WorkflowError{Op: "StartRun", WorkflowID: workflowID, Err: persistence.ErrWorkflowNotFound}
	}

	if !workflow.HasGraph() {
		return nil, &models.GraphValidationError{Reason: "workflow has no graph"}
	}

	if err := workflow.Graph.Validate(); err != nil {
		return nil, err
	}

	runID, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate run ID: %w", err)
	}

	run := &models.WorkflowRun{
		ID:         runID.String(),
		WorkflowID: workflow.ID,
		OfficeID:   workflow.OfficeID,
		Status:     models.RunStatusRunning,
		Progress:   0,
		StartedAt:  time.Now().UTC(),
	}

	if err := r.runs.CreateRun(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to create run: %w", err)
	}

	r.publish(ctx, workflow, run, events.RunStarted{
		BaseEvent: newBaseEvent(events.RunStartedEvent, workflow, run),
		Input:     input,
	})

	execCtx := models.NewExecutionContext(run.ID, workflow.ID, mergeVariables(workflow.Variables, input))

	r.active.Add(1)

	go r.execute(context.WithoutCancel(ctx), workflow, run, execCtx)

	return run, nil
}

// Wait blocks until all in-flight runs reach a terminal state. Used during
// shutdown and by tests.
func (r *Runner) Wait() {
	r.active.Wait()
}

func (r *Runner) execute(ctx context.Context, workflow *models.Workflow, run *models.WorkflowRun, execCtx *models.ExecutionContext) {
	defer r.active.Done()

	logger := r.logger.With(
		slog.String("workflow_id", workflow.ID),
		slog.String("run_id", run.ID),
	)

	defer func() {
		if recovered := recover(); recovered != nil {
			logger.Error("Run panicked", slog.Any("panic", recovered))
			r.finishFailed(ctx, workflow, run, fmt.Errorf("run panicked: %v", recovered))
		}
	}()

	logger.Info("Starting workflow run")

	results, err := r.engine.ExecuteGraph(ctx, workflow, run, execCtx)
	if err != nil {
		logger.Error("Workflow run failed", slog.String("error", err.Error()))
		r.finishFailed(ctx, workflow, run, err)

		return
	}

	now := time.Now().UTC()
	run.Status = models.RunStatusCompleted
	run.Progress = 100
	run.CurrentNodeID = nil
	run.CompletedAt = &now
	run.Result = results

	if err := r.runs.UpdateRun(ctx, run); err != nil {
		logger.Error("Failed to persist completed run", slog.String("error", err.Error()))

		return
	}

	logger.Info("Workflow run completed", slog.Duration("duration", now.Sub(run.StartedAt)))

	r.publish(ctx, workflow, run, events.RunCompleted{
		BaseEvent: newBaseEvent(events.RunCompletedEvent, workflow, run),
		Result:    results,
		Duration:  now.Sub(run.StartedAt),
	})
}

// finishFailed marks the run failed. Partial node results are discarded; the
// run record keeps only the error and the node it stopped on.
func (r *Runner) finishFailed(ctx context.Context, workflow *models.Workflow, run *models.WorkflowRun, runErr error) {
	now := time.Now().UTC()
	message := runErr.Error()

	run.Status = models.RunStatusFailed
	run.CompletedAt = &now
	run.Error = &message
	run.Result = nil

	if err := r.runs.UpdateRun(ctx, run); err != nil {
		r.logger.Error("Failed to persist failed run",
			slog.String("run_id", run.ID), slog.String("error", err.Error()))
	}

	r.publish(ctx, workflow, run, events.RunFailed{
		BaseEvent: newBaseEvent(events.RunFailedEvent, workflow, run),
		Error:     message,
		Duration:  now.Sub(run.StartedAt),
	})
}

func (r *Runner) publish(ctx context.Context, workflow *models.Workflow, run *models.WorkflowRun, event eventbus.Event) {
	if r.publisher == nil {
		return
	}

	if err := r.publisher.Publish(ctx, workflow.ID, event); err != nil {
		r.logger.Warn("Failed to publish run event",
			slog.String("run_id", run.ID),
			slog.String("event_type", string(event.GetType())),
			slog.String("error", err.Error()))
	}
}

// mergeVariables overlays caller input on the workflow's stored defaults.
func mergeVariables(defaults, input map[string]any) map[string]any {
	merged := make(map[string]any, len(defaults)+len(input))

	for k, v := range defaults {
		merged[k] = v
	}

	for k, v := range input {
		merged[k] = v
	}

	return merged
}
