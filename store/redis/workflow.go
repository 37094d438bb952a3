package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/hireflow/hireflow"
	"github.com/hireflow/hireflow/id"
	"github.com/hireflow/hireflow/workflow"
)

// CreateWorkflow persists a new workflow.
func (s *Store) CreateWorkflow(ctx context.Context, wf *workflow.Workflow) error {
	wfID := wf.ID.String()
	key := workflowKey(wfID)

	exists, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("hireflow/redis: create workflow exists: %w", err)
	}
	if exists > 0 {
		return hireflow.ErrWorkflowExists
	}

	data, err := json.Marshal(wf)
	if err != nil {
		return fmt.Errorf("hireflow/redis: marshal workflow: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, key, data, 0)
	pipe.SAdd(ctx, workflowIDsKey, wfID)
	_, err = pipe.Exec(ctx)
	if err != nil {
		return fmt.Errorf("hireflow/redis: create workflow: %w", err)
	}
	return nil
}

// GetWorkflow retrieves a workflow by ID.
func (s *Store) GetWorkflow(ctx context.Context, wfID id.WorkflowID) (*workflow.Workflow, error) {
	data, err := s.client.Get(ctx, workflowKey(wfID.String())).Result()
	if err != nil {
		if err == goredis.Nil {
			return nil, hireflow.ErrWorkflowNotFound
		}
		return nil, fmt.Errorf("hireflow/redis: get workflow: %w", err)
	}

	wf := new(workflow.Workflow)
	if err := json.Unmarshal([]byte(data), wf); err != nil {
		return nil, fmt.Errorf("hireflow/redis: unmarshal workflow: %w", err)
	}
	return wf, nil
}

// UpdateWorkflow persists changes to an existing workflow.
func (s *Store) UpdateWorkflow(ctx context.Context, wf *workflow.Workflow) error {
	key := workflowKey(wf.ID.String())

	exists, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("hireflow/redis: update workflow exists: %w", err)
	}
	if exists == 0 {
		return hireflow.ErrWorkflowNotFound
	}

	wf.UpdatedAt = time.Now().UTC()
	data, err := json.Marshal(wf)
	if err != nil {
		return fmt.Errorf("hireflow/redis: marshal workflow: %w", err)
	}
	if err := s.client.Set(ctx, key, data, 0).Err(); err != nil {
		return fmt.Errorf("hireflow/redis: update workflow: %w", err)
	}
	return nil
}

// ListWorkflows returns workflows matching the given options, most
// recently created first.
func (s *Store) ListWorkflows(ctx context.Context, opts workflow.ListOpts) ([]*workflow.Workflow, error) {
	ids, err := s.client.SMembers(ctx, workflowIDsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("hireflow/redis: list workflows smembers: %w", err)
	}

	var workflows []*workflow.Workflow
	for _, wfID := range ids {
		data, getErr := s.client.Get(ctx, workflowKey(wfID)).Result()
		if getErr != nil {
			continue
		}
		wf := new(workflow.Workflow)
		if convErr := json.Unmarshal([]byte(data), wf); convErr != nil {
			continue
		}
		if opts.Status != "" && wf.Status != opts.Status {
			continue
		}
		workflows = append(workflows, wf)
	}

	sort.Slice(workflows, func(i, k int) bool {
		return workflows[i].CreatedAt.After(workflows[k].CreatedAt)
	})

	if opts.Offset > 0 {
		if opts.Offset >= len(workflows) {
			return nil, nil
		}
		workflows = workflows[opts.Offset:]
	}
	if opts.Limit > 0 && opts.Limit < len(workflows) {
		workflows = workflows[:opts.Limit]
	}
	return workflows, nil
}
