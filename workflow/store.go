package workflow

import (
	"context"

	"github.com/hireflow/hireflow/id"
)

// ListOpts controls pagination for workflow list queries.
type ListOpts struct {
	// Limit is the maximum number of workflows to return. Zero means no limit.
	Limit int
	// Offset is the number of workflows to skip.
	Offset int
	// Status filters by workflow status. Empty means all statuses.
	Status Status
}

// Store defines the persistence contract for workflows. Updates are
// whole-record writes under the single-writer-per-id rule; every update
// bumps UpdatedAt.
type Store interface {
	// CreateWorkflow persists a new workflow.
	CreateWorkflow(ctx context.Context, wf *Workflow) error

	// GetWorkflow retrieves a workflow by ID.
	GetWorkflow(ctx context.Context, wfID id.WorkflowID) (*Workflow, error)

	// UpdateWorkflow persists changes to an existing workflow.
	UpdateWorkflow(ctx context.Context, wf *Workflow) error

	// ListWorkflows returns workflows matching the given options.
	ListWorkflows(ctx context.Context, opts ListOpts) ([]*Workflow, error)
}
