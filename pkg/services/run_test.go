package services

import (
	"context"
	"log/slog"
	"testing"

	"github.com/fluxlane/fluxlane/pkg/engine"
	"github.com/fluxlane/fluxlane/pkg/models"
	"github.com/fluxlane/fluxlane/pkg/persistence/file"
	"github.com/fluxlane/fluxlane/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRunFixture(t *testing.T) (*Workflow, *Run, *engine.Runner) {
	t.Helper()

	logger := slog.Default()
	p := file.NewPersistence(t.TempDir())

	reg := registry.NewRegistry(logger)
	reg.RegisterDefaultExecutors(nil)

	eng := engine.NewEngine(reg, p.RunRepository(), nil, nil, logger)
	runner := engine.NewRunner(p.WorkflowRepository(), p.RunRepository(), eng, nil, logger)

	return NewWorkflow(p, reg), NewRun(p, runner), runner
}

func TestRun_StartAndFetch(t *testing.T) {
	workflowService, runService, runner := newRunFixture(t)

	created, err := workflowService.Create(context.Background(), validWorkflow())
	require.NoError(t, err)

	run, err := runService.Start(context.Background(), created.ID, "office-1", map[string]any{"customer": "acme"})
	require.NoError(t, err)
	assert.Equal(t, models.RunStatusRunning, run.Status)

	runner.Wait()

	finished, err := runService.FetchByID(context.Background(), run.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RunStatusCompleted, finished.Status)
}

func TestRun_StartRejectsInactiveWorkflow(t *testing.T) {
	workflowService, runService, _ := newRunFixture(t)

	workflow := validWorkflow()
	workflow.IsActive = false

	created, err := workflowService.Create(context.Background(), workflow)
	require.NoError(t, err)

	_, err = runService.Start(context.Background(), created.ID, "", nil)
	assert.ErrorIs(t, err, ErrWorkflowInactive)
	assert.True(t, IsConflictError(err))
}

func TestRun_StartMissingWorkflow(t *testing.T) {
	_, runService, _ := newRunFixture(t)

	_, err := runService.Start(context.Background(), "missing", "", nil)
	assert.ErrorIs(t, err, ErrWorkflowNotFound)
}

func TestRun_ListByWorkflow(t *testing.T) {
	workflowService, runService, runner := newRunFixture(t)

	created, err := workflowService.Create(context.Background(), validWorkflow())
	require.NoError(t, err)

	_, err = runService.Start(context.Background(), created.ID, "", nil)
	require.NoError(t, err)
	_, err = runService.Start(context.Background(), created.ID, "", nil)
	require.NoError(t, err)

	runner.Wait()

	runs, err := runService.ListByWorkflow(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}

func TestRun_ListByMissingWorkflow(t *testing.T) {
	_, runService, _ := newRunFixture(t)

	_, err := runService.ListByWorkflow(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrWorkflowNotFound)
}
