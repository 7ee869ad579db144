package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/fluxlane/fluxlane/pkg/models"
	"github.com/fluxlane/fluxlane/pkg/persistence"
	"github.com/google/uuid"
)

// WorkflowRepository handles workflow-related database operations.
type WorkflowRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewWorkflowRepository(db *sql.DB, logger *slog.Logger) *WorkflowRepository {
	return &WorkflowRepository{db: db, logger: logger}
}

const workflowColumns = `
	id
  , office_id
  , name
  , description
  , version
  , is_active
  , graph
  , variables
  , created_at
  , updated_at
  , deleted_at
`

func (r *WorkflowRepository) Workflows(ctx context.Context, officeID string) ([]*models.Workflow, error) {
	query := `
		SELECT ` + workflowColumns + `
		FROM workflows
		WHERE deleted_at IS NULL
		  AND ($1 = '' OR office_id = $1)
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, officeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query workflows: %w", err)
	}

	defer func() {
		if err := rows.Close(); err != nil {
			r.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	workflows := make([]*models.Workflow, 0)

	for rows.Next() {
		workflow, err := scanWorkflow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan workflow: %w", err)
		}

		workflows = append(workflows, workflow)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating workflows: %w", err)
	}

	return workflows, nil
}

func (r *WorkflowRepository) WorkflowByID(ctx context.Context, id string) (*models.Workflow, error) {
	query := `
		SELECT ` + workflowColumns + `
		FROM workflows
		WHERE id = $1 AND deleted_at IS NULL
	`

	workflow, err := scanWorkflow(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &persistence.WorkflowError{Op: "WorkflowByID", WorkflowID: id, Err: persistence.ErrWorkflowNotFound}
		}

		return nil, &persistence.WorkflowError{Op: "WorkflowByID", WorkflowID: id, Err: err}
	}

	return workflow, nil
}

func (r *WorkflowRepository) SaveWorkflow(ctx context.Context, workflow *models.Workflow) error {
	now := time.Now().UTC()

	if workflow.CreatedAt.IsZero() {
		workflow.CreatedAt = now
	}

	workflow.UpdatedAt = now

	if workflow.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("failed to generate workflow ID: %w", err)
		}

		workflow.ID = id.String()
	}

	graphJSON, err := json.Marshal(workflow.Graph)
	if err != nil {
		return fmt.Errorf("failed to marshal graph: %w", err)
	}

	variablesJSON, err := json.Marshal(workflow.Variables)
	if err != nil {
		return fmt.Errorf("failed to marshal variables: %w", err)
	}

	query := `
		INSERT INTO workflows (id, office_id, name, description, version, is_active, graph, variables, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			office_id = EXCLUDED.office_id
		  , name = EXCLUDED.name
		  , description = EXCLUDED.description
		  , version = EXCLUDED.version
		  , is_active = EXCLUDED.is_active
		  , graph = EXCLUDED.graph
		  , variables = EXCLUDED.variables
		  , updated_at = EXCLUDED.updated_at
	`

	_, err = r.db.ExecContext(ctx, query,
		workflow.ID,
		workflow.OfficeID,
		workflow.Name,
		workflow.Description,
		workflow.Version,
		workflow.IsActive,
		graphJSON,
		variablesJSON,
		workflow.CreatedAt,
		workflow.UpdatedAt,
	)
	if err != nil {
		return &persistence.WorkflowError{Op: "SaveWorkflow", WorkflowID: workflow.ID, Err: err}
	}

	return nil
}

// DeleteWorkflow soft deletes a workflow by setting deleted_at.
func (r *WorkflowRepository) DeleteWorkflow(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE workflows SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL", id)
	if err != nil {
		return &persistence.WorkflowError{Op: "DeleteWorkflow", WorkflowID: id, Err: err}
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return &persistence.WorkflowError{Op: "DeleteWorkflow", WorkflowID: id, Err: err}
	}

	if affected == 0 {
		return &persistence.WorkflowError{Op: "DeleteWorkflow", WorkflowID: id, Err: persistence.ErrWorkflowNotFound}
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWorkflow(row rowScanner) (*models.Workflow, error) {
	var (
		workflow      models.Workflow
		graphJSON     []byte
		variablesJSON []byte
		deletedAt     sql.NullTime
	)

	err := row.Scan(
		&workflow.ID,
		&workflow.OfficeID,
		&workflow.Name,
		&workflow.Description,
		&workflow.Version,
		&workflow.IsActive,
		&graphJSON,
		&variablesJSON,
		&workflow.CreatedAt,
		&workflow.UpdatedAt,
		&deletedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(graphJSON) > 0 {
		if err := json.Unmarshal(graphJSON, &workflow.Graph); err != nil {
			return nil, fmt.Errorf("failed to unmarshal graph: %w", err)
		}
	}

	if len(variablesJSON) > 0 {
		if err := json.Unmarshal(variablesJSON, &workflow.Variables); err != nil {
			return nil, fmt.Errorf("failed to unmarshal variables: %w", err)
		}
	}

	if deletedAt.Valid {
		workflow.DeletedAt = &deletedAt.Time
	}

	return &workflow, nil
}
