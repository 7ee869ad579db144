package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fluxlane/fluxlane/pkg/models"
	"github.com/fluxlane/fluxlane/pkg/persistence"
	"github.com/google/uuid"
)

// WorkflowRepository stores each workflow as workflows/<id>.json.
type WorkflowRepository struct {
	root string
}

func NewWorkflowRepository(root string) *WorkflowRepository {
	return &WorkflowRepository{root: root}
}

// validateID guards file paths against traversal through record IDs.
func validateID(id string) error {
	if id == "" {
		return errors.New("id cannot be empty")
	}

	if strings.Contains(id, "..") || strings.ContainsAny(id, `/\`) {
		return errors.New("id contains invalid characters")
	}

	return nil
}

func (r *WorkflowRepository) dir() string {
	return filepath.Join(r.root, "workflows")
}

func (r *WorkflowRepository) Workflows(ctx context.Context, officeID string) ([]*models.Workflow, error) {
	root := os.DirFS(r.dir())

	files, err := fs.Glob(root, "*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to list workflow files: %w", err)
	}

	workflows := make([]*models.Workflow, 0, len(files))

	for _, file := range files {
		workflow, err := r.WorkflowByID(ctx, strings.TrimSuffix(file, ".json"))
		if err != nil {
			if persistence.IsWorkflowNotFound(err) {
				continue
			}

			return nil, err
		}

		if officeID != "" && workflow.OfficeID != officeID {
			continue
		}

		workflows = append(workflows, workflow)
	}

	sort.Slice(workflows, func(i, j int) bool {
		return workflows[i].CreatedAt.After(workflows[j].CreatedAt)
	})

	return workflows, nil
}

func (r *WorkflowRepository) WorkflowByID(_ context.Context, id string) (*models.Workflow, error) {
	if err := validateID(id); err != nil {
		return nil, &persistence.WorkflowError{Op: "WorkflowByID", WorkflowID: id, Err: err}
	}

	data, err := os.ReadFile(filepath.Join(r.dir(), id+".json")) // #nosec G304 -- id is validated
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &persistence.WorkflowError{Op: "WorkflowByID", WorkflowID: id, Err: persistence.ErrWorkflowNotFound}
		}

		return nil, &persistence.WorkflowError{Op: "WorkflowByID", WorkflowID: id, Err: err}
	}

	var workflow models.Workflow
	if err := json.Unmarshal(data, &workflow); err != nil {
		return nil, &persistence.WorkflowError{Op: "WorkflowByID", WorkflowID: id, Err: err}
	}

	if workflow.DeletedAt != nil {
		return nil, &persistence.WorkflowError{Op: "WorkflowByID", WorkflowID: id, Err: persistence.ErrWorkflowNotFound}
	}

	return &workflow, nil
}

func (r *WorkflowRepository) SaveWorkflow(_ context.Context, workflow *models.Workflow) error {
	now := time.Now().UTC()

	if workflow.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("failed to generate workflow ID: %w", err)
		}

		workflow.ID = id.String()
	}

	if err := validateID(workflow.ID); err != nil {
		return &persistence.WorkflowError{Op: "SaveWorkflow", WorkflowID: workflow.ID, Err: err}
	}

	if workflow.CreatedAt.IsZero() {
		workflow.CreatedAt = now
	}

	workflow.UpdatedAt = now

	if err := os.MkdirAll(r.dir(), 0750); err != nil {
		return &persistence.WorkflowError{Op: "SaveWorkflow", WorkflowID: workflow.ID, Err: err}
	}

	data, err := json.Marshal(workflow)
	if err != nil {
		return &persistence.WorkflowError{Op: "SaveWorkflow", WorkflowID: workflow.ID, Err: err}
	}

	if err := os.WriteFile(filepath.Join(r.dir(), workflow.ID+".json"), data, 0600); err != nil {
		return &persistence.WorkflowError{Op: "SaveWorkflow", WorkflowID: workflow.ID, Err: err}
	}

	return nil
}

// DeleteWorkflow soft deletes by stamping deleted_at, matching the SQL
// implementation's behavior.
func (r *WorkflowRepository) DeleteWorkflow(ctx context.Context, id string) error {
	workflow, err := r.WorkflowByID(ctx, id)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	workflow.DeletedAt = &now

	data, err := json.Marshal(workflow)
	if err != nil {
		return &persistence.WorkflowError{Op: "DeleteWorkflow", WorkflowID: id, Err: err}
	}

	if err := os.WriteFile(filepath.Join(r.dir(), id+".json"), data, 0600); err != nil {
		return &persistence.WorkflowError{Op: "DeleteWorkflow", WorkflowID: id, Err: err}
	}

	return nil
}
