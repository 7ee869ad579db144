package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/fluxlane/fluxlane/pkg/models"
	"github.com/fluxlane/fluxlane/pkg/persistence"
	"github.com/fluxlane/fluxlane/pkg/protocol"
	"github.com/fluxlane/fluxlane/pkg/registry"
	"github.com/go-playground/validator/v10"
	"github.com/xeipuuv/gojsonschema"
)

// Workflow provides workflow CRUD with structural and per-node validation.
type Workflow struct {
	persistence persistence.Persistence
	registry    *registry.Registry
	validator   *validator.Validate
}

func NewWorkflow(persistence persistence.Persistence, reg *registry.Registry) *Workflow {
	return &Workflow{
		persistence: persistence,
		registry:    reg,
		validator:   validator.New(validator.WithRequiredStructEnabled()),
	}
}

// HealthCheck checks the health of the persistence layer.
func (w *Workflow) HealthCheck(ctx context.Context) (string, bool) {
	if w.persistence == nil {
		return "Persistence layer not initialized", false
	}

	err := w.persistence.HealthCheck(ctx)
	if err != nil {
		return "Persistence layer is unhealthy: " + err.Error(), false
	}

	return "Persistence layer is healthy", true
}

// List retrieves workflows, optionally filtered by office.
func (w *Workflow) List(ctx context.Context, officeID string) ([]*models.Workflow, error) {
	workflows, err := w.persistence.WorkflowRepository().Workflows(ctx, officeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list workflows: %w", err)
	}

	return workflows, nil
}

// FetchByID retrieves a workflow by its ID.
func (w *Workflow) FetchByID(ctx context.Context, id string) (*models.Workflow, error) {
	return w.persistence.WorkflowRepository().WorkflowByID(ctx, id)
}

// Create adds a new workflow to the repository.
func (w *Workflow) Create(ctx context.Context, workflow *models.Workflow) (*models.Workflow, error) {
	if err := w.validateWorkflow(workflow); err != nil {
		return nil, err
	}

	workflow.ID = ""
	workflow.Version = 1

	err := w.persistence.WorkflowRepository().SaveWorkflow(ctx, workflow)
	if err != nil {
		return nil, fmt.Errorf("failed to create workflow: %w", err)
	}

	return workflow, nil
}

// Update modifies an existing workflow by its ID, bumping its version.
func (w *Workflow) Update(ctx context.Context, workflowID string, workflow *models.Workflow) (*models.Workflow, error) {
	existing, err := w.persistence.WorkflowRepository().WorkflowByID(ctx, workflowID)
	if err != nil {
		return nil, err
	}

	if err := w.validateWorkflow(workflow); err != nil {
		return nil, err
	}

	workflow.ID = workflowID
	workflow.CreatedAt = existing.CreatedAt
	workflow.Version = existing.Version + 1

	err = w.persistence.WorkflowRepository().SaveWorkflow(ctx, workflow)
	if err != nil {
		return nil, fmt.Errorf("failed to update workflow: %w", err)
	}

	return workflow, nil
}

// Delete removes a workflow by its ID.
func (w *Workflow) Delete(ctx context.Context, workflowID string) error {
	return w.persistence.WorkflowRepository().DeleteWorkflow(ctx, workflowID)
}

func (w *Workflow) validateWorkflow(workflow *models.Workflow) error {
	if workflow == nil {
		return ErrWorkflowNil
	}

	if strings.TrimSpace(workflow.Name) == "" {
		return ErrWorkflowNameRequired
	}

	if workflow.Graph == nil {
		return nil
	}

	if err := workflow.Graph.Validate(); err != nil {
		return NewValidationError("validateWorkflow", "INVALID_GRAPH", err.Error(), ErrInvalidGraph)
	}

	for _, node := range workflow.Graph.Nodes {
		if err := w.validator.Struct(node); err != nil {
			return NewValidationError("validateWorkflow", "INVALID_NODE",
				fmt.Sprintf("node %q: %v", node.ID, err), ErrInvalidGraph)
		}

		if err := w.validateNodeAttributes(node); err != nil {
			return err
		}
	}

	for _, edge := range workflow.Graph.Edges {
		if err := w.validator.Struct(edge); err != nil {
			return NewValidationError("validateWorkflow", "INVALID_EDGE",
				fmt.Sprintf("edge %q: %v", edge.ID, err), ErrInvalidGraph)
		}
	}

	return nil
}

// validateNodeAttributes checks a node's attributes against the JSON schema
// declared by its executor factory. Kinds without a registered executor are
// accepted as-is; they are skipped at run time.
func (w *Workflow) validateNodeAttributes(node *models.Node) error {
	if w.registry == nil {
		return nil
	}

	var factory protocol.ExecutorFactory

	for _, candidate := range w.registry.Factories() {
		if candidate.Kind() == node.Kind {
			factory = candidate

			break
		}
	}

	if factory == nil || len(factory.Schema()) == 0 {
		return nil
	}

	attributes := node.Attributes
	if attributes == nil {
		attributes = map[string]any{}
	}

	schemaLoader := gojsonschema.NewGoLoader(factory.Schema())
	dataLoader := gojsonschema.NewGoLoader(attributes)

	result, err := gojsonschema.Validate(schemaLoader, dataLoader)
	if err != nil {
		return fmt.Errorf("failed to validate node %q attributes: %w", node.ID, err)
	}

	if !result.Valid() {
		details := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			details = append(details, desc.String())
		}

		return NewValidationError("validateNodeAttributes", "INVALID_NODE_ATTRIBUTES",
			fmt.Sprintf("node %q: %s", node.ID, strings.Join(details, "; ")), ErrInvalidGraph)
	}

	return nil
}
