package services

import (
	"context"
	"fmt"

	"github.com/fluxlane/fluxlane/pkg/engine"
	"github.com/fluxlane/fluxlane/pkg/models"
	"github.com/fluxlane/fluxlane/pkg/persistence"
)

// Run provides workflow invocation and run queries.
type Run struct {
	persistence persistence.Persistence
	runner      *engine.Runner
}

func NewRun(persistence persistence.Persistence, runner *engine.Runner) *Run {
	return &Run{
		persistence: persistence,
		runner:      runner,
	}
}

// Start validates the workflow and launches an asynchronous run. The returned
// run is already persisted in the running state; its outcome is observed by
// polling FetchByID or subscribing to run events.
func (r *Run) Start(ctx context.Context, workflowID, officeID string, input map[string]any) (*models.WorkflowRun, error) {
	workflow, err := r.persistence.WorkflowRepository().WorkflowByID(ctx, workflowID)
	if err != nil {
		return nil, err
	}

	if !workflow.IsActive {
		return nil, fmt.Errorf("workflow %s: %w", workflowID, ErrWorkflowInactive)
	}

	return r.runner.StartRun(ctx, workflowID, officeID, input)
}

// FetchByID retrieves a run by its ID.
func (r *Run) FetchByID(ctx context.Context, id string) (*models.WorkflowRun, error) {
	return r.persistence.RunRepository().RunByID(ctx, id)
}

// ListByWorkflow retrieves the runs of a workflow, newest first.
func (r *Run) ListByWorkflow(ctx context.Context, workflowID string) ([]*models.WorkflowRun, error) {
	if _, err := r.persistence.WorkflowRepository().WorkflowByID(ctx, workflowID); err != nil {
		return nil, err
	}

	runs, err := r.persistence.RunRepository().RunsByWorkflow(ctx, workflowID)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}

	return runs, nil
}
