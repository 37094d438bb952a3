package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hireflow/hireflow"
	"github.com/hireflow/hireflow/id"
	"github.com/hireflow/hireflow/workflow"
)

// CreateWorkflow persists a new workflow.
func (s *Store) CreateWorkflow(ctx context.Context, wf *workflow.Workflow) error {
	steps, err := json.Marshal(wf.Steps)
	if err != nil {
		return fmt.Errorf("hireflow/postgres: marshal steps: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO hireflow_workflows
			(id, type, status, current_step, total_steps, steps, params,
			 checkpoint, resumed, error, session_id, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		wf.ID.String(), string(wf.Type), string(wf.Status),
		wf.CurrentStep, wf.TotalSteps, steps,
		rawOrNil(wf.Params), rawOrNil(wf.Checkpoint), rawOrNil(wf.Resumed),
		wf.Error, wf.SessionID, wf.UserID,
		wf.CreatedAt, wf.UpdatedAt,
	)
	if err != nil {
		if isDuplicateKey(err) {
			return hireflow.ErrWorkflowExists
		}
		return fmt.Errorf("hireflow/postgres: create workflow: %w", err)
	}
	return nil
}

// GetWorkflow retrieves a workflow by ID.
func (s *Store) GetWorkflow(ctx context.Context, wfID id.WorkflowID) (*workflow.Workflow, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, type, status, current_step, total_steps, steps, params,
		       checkpoint, resumed, error, session_id, user_id, created_at, updated_at
		FROM hireflow_workflows
		WHERE id = $1`,
		wfID.String(),
	)

	wf, err := scanWorkflow(row)
	if err != nil {
		if isNoRows(err) {
			return nil, hireflow.ErrWorkflowNotFound
		}
		return nil, fmt.Errorf("hireflow/postgres: get workflow: %w", err)
	}
	return wf, nil
}

// UpdateWorkflow persists changes to an existing workflow.
func (s *Store) UpdateWorkflow(ctx context.Context, wf *workflow.Workflow) error {
	steps, err := json.Marshal(wf.Steps)
	if err != nil {
		return fmt.Errorf("hireflow/postgres: marshal steps: %w", err)
	}

	tag, err := s.pool.Exec(ctx, `
		UPDATE hireflow_workflows SET
			status = $2, current_step = $3, total_steps = $4, steps = $5,
			params = $6, checkpoint = $7, resumed = $8, error = $9,
			updated_at = $10
		WHERE id = $1`,
		wf.ID.String(), string(wf.Status), wf.CurrentStep, wf.TotalSteps,
		steps, rawOrNil(wf.Params), rawOrNil(wf.Checkpoint), rawOrNil(wf.Resumed),
		wf.Error, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("hireflow/postgres: update workflow: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return hireflow.ErrWorkflowNotFound
	}
	return nil
}

// ListWorkflows returns workflows matching the given options, most
// recently created first.
func (s *Store) ListWorkflows(ctx context.Context, opts workflow.ListOpts) ([]*workflow.Workflow, error) {
	q := `
		SELECT id, type, status, current_step, total_steps, steps, params,
		       checkpoint, resumed, error, session_id, user_id, created_at, updated_at
		FROM hireflow_workflows`
	args := []any{}

	if opts.Status != "" {
		q += ` WHERE status = $1`
		args = append(args, string(opts.Status))
	}
	q += ` ORDER BY created_at DESC`
	if opts.Limit > 0 {
		q += fmt.Sprintf(` LIMIT %d`, opts.Limit)
	}
	if opts.Offset > 0 {
		q += fmt.Sprintf(` OFFSET %d`, opts.Offset)
	}

	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("hireflow/postgres: list workflows: %w", err)
	}
	defer rows.Close()

	var workflows []*workflow.Workflow
	for rows.Next() {
		wf, scanErr := scanWorkflow(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("hireflow/postgres: list workflows scan: %w", scanErr)
		}
		workflows = append(workflows, wf)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("hireflow/postgres: list workflows rows: %w", err)
	}
	return workflows, nil
}

// rowScanner is satisfied by both pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanWorkflow(row rowScanner) (*workflow.Workflow, error) {
	var (
		wf       workflow.Workflow
		rawID    string
		typ      string
		status   string
		steps    []byte
		params   []byte
		chkpt    []byte
		resumed  []byte
	)

	err := row.Scan(
		&rawID, &typ, &status, &wf.CurrentStep, &wf.TotalSteps, &steps,
		&params, &chkpt, &resumed, &wf.Error, &wf.SessionID, &wf.UserID,
		&wf.CreatedAt, &wf.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	wfID, err := id.ParseWorkflowID(rawID)
	if err != nil {
		return nil, fmt.Errorf("parse workflow id: %w", err)
	}
	wf.ID = wfID
	wf.Type = workflow.Type(typ)
	wf.Status = workflow.Status(status)
	if err := json.Unmarshal(steps, &wf.Steps); err != nil {
		return nil, fmt.Errorf("unmarshal steps: %w", err)
	}
	wf.Params = params
	wf.Checkpoint = chkpt
	wf.Resumed = resumed
	return &wf, nil
}

// rawOrNil maps an empty JSON payload to SQL NULL.
func rawOrNil(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	return []byte(raw)
}
