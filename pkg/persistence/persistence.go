// Package persistence provides the durable store abstraction for workflows and runs.
package persistence

import (
	"context"

	"github.com/fluxlane/fluxlane/pkg/models"
)

// WorkflowRepository stores workflow definitions.
type WorkflowRepository interface {
	Workflows(ctx context.Context, officeID string) ([]*models.Workflow, error)
	WorkflowByID(ctx context.Context, id string) (*models.Workflow, error)
	SaveWorkflow(ctx context.Context, workflow *models.Workflow) error
	DeleteWorkflow(ctx context.Context, id string) error
}

// RunRepository stores run records. The engine is the only writer of a run
// row after creation; reads serve the polling API.
type RunRepository interface {
	CreateRun(ctx context.Context, run *models.WorkflowRun) error
	RunByID(ctx context.Context, id string) (*models.WorkflowRun, error)
	UpdateRun(ctx context.Context, run *models.WorkflowRun) error
	RunsByWorkflow(ctx context.Context, workflowID string) ([]*models.WorkflowRun, error)
}

type Persistence interface {
	WorkflowRepository() WorkflowRepository
	RunRepository() RunRepository
	HealthCheck(ctx context.Context) error
	Close(ctx context.Context) error
}
