// Package web provides HTTP request and response types for the workflow API.
package web

import "github.com/fluxlane/fluxlane/pkg/models"

// CreateWorkflowRequest represents the request body for creating a new workflow.
type CreateWorkflowRequest struct {
	Name        string                `json:"name"        validate:"required,min=3"`
	Description string                `json:"description"`
	OfficeID    string                `json:"office_id"   validate:"required"`
	IsActive    *bool                 `json:"is_active,omitempty"`
	Graph       *models.WorkflowGraph `json:"graph,omitempty"`
	Variables   map[string]any        `json:"variables,omitempty"`
}

// UpdateWorkflowRequest represents the request body for updating an existing
// workflow. All fields are optional to support partial updates.
type UpdateWorkflowRequest struct {
	Name        *string               `json:"name,omitempty"        validate:"omitempty,min=3"`
	Description *string               `json:"description,omitempty"`
	IsActive    *bool                 `json:"is_active,omitempty"`
	Graph       *models.WorkflowGraph `json:"graph,omitempty"`
	Variables   map[string]any        `json:"variables,omitempty"`
}

// ExecuteWorkflowRequest carries the caller-supplied input variables for a
// run. OfficeID, when present, must match the workflow's tenant.
type ExecuteWorkflowRequest struct {
	OfficeID string         `json:"office_id,omitempty"`
	Input    map[string]any `json:"input,omitempty"`
}

// ExecuteWorkflowResponse acknowledges an accepted invocation.
type ExecuteWorkflowResponse struct {
	Success bool   `json:"success"`
	RunID   string `json:"run_id"`
}

// NodeKindResponse describes one registered node kind for editor palettes.
type NodeKindResponse struct {
	Kind        string         `json:"kind"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Schema      map[string]any `json:"schema"`
}
