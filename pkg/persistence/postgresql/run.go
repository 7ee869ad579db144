package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/fluxlane/fluxlane/pkg/models"
	"github.com/fluxlane/fluxlane/pkg/persistence"
)

// RunRepository handles workflow run database operations.
type RunRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewRunRepository(db *sql.DB, logger *slog.Logger) *RunRepository {
	return &RunRepository{db: db, logger: logger}
}

const runColumns = `
	id
  , workflow_id
  , office_id
  , status
  , progress
  , current_node_id
  , started_at
  , completed_at
  , error
  , result
`

func (r *RunRepository) CreateRun(ctx context.Context, run *models.WorkflowRun) error {
	resultJSON, err := json.Marshal(run.Result)
	if err != nil {
		return fmt.Errorf("failed to marshal run result: %w", err)
	}

	query := `
		INSERT INTO workflow_runs (id, workflow_id, office_id, status, progress, current_node_id, started_at, completed_at, error, result)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err = r.db.ExecContext(ctx, query,
		run.ID,
		run.WorkflowID,
		run.OfficeID,
		run.Status,
		run.Progress,
		run.CurrentNodeID,
		run.StartedAt,
		run.CompletedAt,
		run.Error,
		resultJSON,
	)
	if err != nil {
		return &persistence.RunError{Op: "CreateRun", RunID: run.ID, Err: err}
	}

	return nil
}

func (r *RunRepository) RunByID(ctx context.Context, id string) (*models.WorkflowRun, error) {
	query := `
		SELECT ` + runColumns + `
		FROM workflow_runs
		WHERE id = $1
	`

	run, err := scanRun(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &persistence.RunError{Op: "RunByID", RunID: id, Err: persistence.ErrRunNotFound}
		}

		return nil, &persistence.RunError{Op: "RunByID", RunID: id, Err: err}
	}

	return run, nil
}

func (r *RunRepository) UpdateRun(ctx context.Context, run *models.WorkflowRun) error {
	resultJSON, err := json.Marshal(run.Result)
	if err != nil {
		return fmt.Errorf("failed to marshal run result: %w", err)
	}

	query := `
		UPDATE workflow_runs SET
			status = $2
		  , progress = $3
		  , current_node_id = $4
		  , completed_at = $5
		  , error = $6
		  , result = $7
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		run.ID,
		run.Status,
		run.Progress,
		run.CurrentNodeID,
		run.CompletedAt,
		run.Error,
		resultJSON,
	)
	if err != nil {
		return &persistence.RunError{Op: "UpdateRun", RunID: run.ID, Err: err}
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return &persistence.RunError{Op: "UpdateRun", RunID: run.ID, Err: err}
	}

	if affected == 0 {
		return &persistence.RunError{Op: "UpdateRun", RunID: run.ID, Err: persistence.ErrRunNotFound}
	}

	return nil
}

func (r *RunRepository) RunsByWorkflow(ctx context.Context, workflowID string) ([]*models.WorkflowRun, error) {
	query := `
		SELECT ` + runColumns + `
		FROM workflow_runs
		WHERE workflow_id = $1
		ORDER BY started_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, workflowID)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}

	defer func() {
		if err := rows.Close(); err != nil {
			r.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	runs := make([]*models.WorkflowRun, 0)

	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}

		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}

	return runs, nil
}

func scanRun(row rowScanner) (*models.WorkflowRun, error) {
	var (
		run           models.WorkflowRun
		status        string
		currentNodeID sql.NullString
		completedAt   sql.NullTime
		runError      sql.NullString
		resultJSON    []byte
	)

	err := row.Scan(
		&run.ID,
		&run.WorkflowID,
		&run.OfficeID,
		&status,
		&run.Progress,
		&currentNodeID,
		&run.StartedAt,
		&completedAt,
		&runError,
		&resultJSON,
	)
	if err != nil {
		return nil, err
	}

	run.Status = models.RunStatus(status)

	if currentNodeID.Valid {
		run.CurrentNodeID = &currentNodeID.String
	}

	if completedAt.Valid {
		run.CompletedAt = &completedAt.Time
	}

	if runError.Valid {
		run.Error = &runError.String
	}

	if len(resultJSON) > 0 {
		if err := json.Unmarshal(resultJSON, &run.Result); err != nil {
			return nil, fmt.Errorf("failed to unmarshal run result: %w", err)
		}
	}

	return &run, nil
}
