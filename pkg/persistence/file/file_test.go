package file

import (
	"context"
	"testing"
	"time"

	"github.com/fluxlane/fluxlane/pkg/models"
	"github.com/fluxlane/fluxlane/pkg/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleWorkflow(officeID string) *models.Workflow {
	return &models.Workflow{
		OfficeID: officeID,
		Name:     "Lead routing",
		IsActive: true,
		Graph: &models.WorkflowGraph{
			Nodes: []*models.Node{
				{ID: "start", Kind: models.NodeKindStart},
				{ID: "end", Kind: models.NodeKindEnd},
			},
			Edges: []*models.Edge{
				{ID: "e1", Source: "start", Target: "end"},
			},
		},
	}
}

func TestWorkflowRepository_SaveAndGet(t *testing.T) {
	ctx := context.Background()
	p := NewPersistence(t.TempDir())
	repo := p.WorkflowRepository()

	workflow := sampleWorkflow("office-1")
	require.NoError(t, repo.SaveWorkflow(ctx, workflow))
	require.NotEmpty(t, workflow.ID)
	assert.False(t, workflow.CreatedAt.IsZero())

	loaded, err := repo.WorkflowByID(ctx, workflow.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lead routing", loaded.Name)
	assert.Equal(t, "office-1", loaded.OfficeID)
	require.NotNil(t, loaded.Graph)
	assert.Len(t, loaded.Graph.Nodes, 2)
}

func TestWorkflowRepository_NotFound(t *testing.T) {
	ctx := context.Background()
	p := NewPersistence(t.TempDir())

	_, err := p.WorkflowRepository().WorkflowByID(ctx, "missing")
	assert.True(t, persistence.IsWorkflowNotFound(err))
}

func TestWorkflowRepository_OfficeFilter(t *testing.T) {
	ctx := context.Background()
	p := NewPersistence(t.TempDir())
	repo := p.WorkflowRepository()

	require.NoError(t, repo.SaveWorkflow(ctx, sampleWorkflow("office-1")))
	require.NoError(t, repo.SaveWorkflow(ctx, sampleWorkflow("office-2")))

	workflows, err := repo.Workflows(ctx, "office-1")
	require.NoError(t, err)
	assert.Len(t, workflows, 1)

	all, err := repo.Workflows(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestWorkflowRepository_SoftDelete(t *testing.T) {
	ctx := context.Background()
	p := NewPersistence(t.TempDir())
	repo := p.WorkflowRepository()

	workflow := sampleWorkflow("office-1")
	require.NoError(t, repo.SaveWorkflow(ctx, workflow))
	require.NoError(t, repo.DeleteWorkflow(ctx, workflow.ID))

	_, err := repo.WorkflowByID(ctx, workflow.ID)
	assert.True(t, persistence.IsWorkflowNotFound(err))
}

func TestRunRepository_Lifecycle(t *testing.T) {
	ctx := context.Background()
	p := NewPersistence(t.TempDir())
	repo := p.RunRepository()

	run := &models.WorkflowRun{
		ID:         "run-1",
		WorkflowID: "wf-1",
		OfficeID:   "office-1",
		Status:     models.RunStatusRunning,
		StartedAt:  time.Now().UTC(),
	}

	require.NoError(t, repo.CreateRun(ctx, run))

	run.Progress = 50
	current := "node-2"
	run.CurrentNodeID = &current
	require.NoError(t, repo.UpdateRun(ctx, run))

	loaded, err := repo.RunByID(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, 50, loaded.Progress)
	require.NotNil(t, loaded.CurrentNodeID)
	assert.Equal(t, "node-2", *loaded.CurrentNodeID)
}

func TestRunRepository_UpdateMissingRun(t *testing.T) {
	ctx := context.Background()
	p := NewPersistence(t.TempDir())

	err := p.RunRepository().UpdateRun(ctx, &models.WorkflowRun{ID: "ghost"})
	assert.True(t, persistence.IsRunNotFound(err))
}

func TestRunRepository_RunsByWorkflow(t *testing.T) {
	ctx := context.Background()
	p := NewPersistence(t.TempDir())
	repo := p.RunRepository()

	older := &models.WorkflowRun{ID: "run-a", WorkflowID: "wf-1", StartedAt: time.Now().Add(-time.Hour)}
	newer := &models.WorkflowRun{ID: "run-b", WorkflowID: "wf-1", StartedAt: time.Now()}
	other := &models.WorkflowRun{ID: "run-c", WorkflowID: "wf-2", StartedAt: time.Now()}

	for _, run := range []*models.WorkflowRun{older, newer, other} {
		require.NoError(t, repo.CreateRun(ctx, run))
	}

	runs, err := repo.RunsByWorkflow(ctx, "wf-1")
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-b", runs[0].ID)
	assert.Equal(t, "run-a", runs[1].ID)
}

func TestPersistence_HealthCheck(t *testing.T) {
	p := NewPersistence(t.TempDir())
	assert.NoError(t, p.HealthCheck(context.Background()))

	missing := NewPersistence("/nonexistent/fluxlane-test")
	assert.Error(t, missing.HealthCheck(context.Background()))
}
