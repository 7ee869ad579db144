package file

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fluxlane/fluxlane/pkg/models"
	"github.com/fluxlane/fluxlane/pkg/persistence"
)

// RunRepository stores each run as runs/<id>.json.
type RunRepository struct {
	root string
}

func NewRunRepository(root string) *RunRepository {
	return &RunRepository{root: root}
}

func (r *RunRepository) dir() string {
	return filepath.Join(r.root, "runs")
}

func (r *RunRepository) CreateRun(_ context.Context, run *models.WorkflowRun) error {
	if err := validateID(run.ID); err != nil {
		return &persistence.RunError{Op: "CreateRun", RunID: run.ID, Err: err}
	}

	if err := os.MkdirAll(r.dir(), 0750); err != nil {
		return &persistence.RunError{Op: "CreateRun", RunID: run.ID, Err: err}
	}

	return r.write(run, "CreateRun")
}

func (r *RunRepository) RunByID(_ context.Context, id string) (*models.WorkflowRun, error) {
	if err := validateID(id); err != nil {
		return nil, &persistence.RunError{Op: "RunByID", RunID: id, Err: err}
	}

	data, err := os.ReadFile(filepath.Join(r.dir(), id+".json")) // #nosec G304 -- id is validated
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &persistence.RunError{Op: "RunByID", RunID: id, Err: persistence.ErrRunNotFound}
		}

		return nil, &persistence.RunError{Op: "RunByID", RunID: id, Err: err}
	}

	var run models.WorkflowRun
	if err := json.Unmarshal(data, &run); err != nil {
		return nil, &persistence.RunError{Op: "RunByID", RunID: id, Err: err}
	}

	return &run, nil
}

func (r *RunRepository) UpdateRun(_ context.Context, run *models.WorkflowRun) error {
	if err := validateID(run.ID); err != nil {
		return &persistence.RunError{Op: "UpdateRun", RunID: run.ID, Err: err}
	}

	if _, err := os.Stat(filepath.Join(r.dir(), run.ID+".json")); os.IsNotExist(err) {
		return &persistence.RunError{Op: "UpdateRun", RunID: run.ID, Err: persistence.ErrRunNotFound}
	}

	return r.write(run, "UpdateRun")
}

func (r *RunRepository) RunsByWorkflow(ctx context.Context, workflowID string) ([]*models.WorkflowRun, error) {
	root := os.DirFS(r.dir())

	files, err := fs.Glob(root, "*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to list run files: %w", err)
	}

	runs := make([]*models.WorkflowRun, 0, len(files))

	for _, file := range files {
		run, err := r.RunByID(ctx, strings.TrimSuffix(file, ".json"))
		if err != nil {
			return nil, err
		}

		if run.WorkflowID == workflowID {
			runs = append(runs, run)
		}
	}

	// Newest first, the order the run history view wants.
	sort.Slice(runs, func(i, j int) bool {
		return runs[i].StartedAt.After(runs[j].StartedAt)
	})

	return runs, nil
}

func (r *RunRepository) write(run *models.WorkflowRun, op string) error {
	data, err := json.Marshal(run)
	if err != nil {
		return &persistence.RunError{Op: op, RunID: run.ID, Err: err}
	}

	if err := os.WriteFile(filepath.Join(r.dir(), run.ID+".json"), data, 0600); err != nil {
		return &persistence.RunError{Op: op, RunID: run.ID, Err: err}
	}

	return nil
}
