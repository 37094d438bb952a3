// Package memory implements store.Store fully in memory. Safe for
// concurrent access. Intended for unit testing and development.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/hireflow/hireflow"
	"github.com/hireflow/hireflow/id"
	"github.com/hireflow/hireflow/record"
	"github.com/hireflow/hireflow/workflow"
)

// Ensure Store implements store.Store at compile time.
// We can't import store here (import cycle), so we verify each subsystem.
var (
	_ workflow.Store = (*Store)(nil)
	_ record.Store   = (*Store)(nil)
)

// Store is a fully in-memory implementation of store.Store.
type Store struct {
	mu sync.RWMutex

	workflows  map[string]*workflow.Workflow
	candidates map[string]*record.Candidate
	jobs       map[string]*record.Job
	emails     map[string]*record.Email
	events     map[string]*record.CalendarEvent
}

// New returns a new empty Store.
func New() *Store {
	return &Store{
		workflows:  make(map[string]*workflow.Workflow),
		candidates: make(map[string]*record.Candidate),
		jobs:       make(map[string]*record.Job),
		emails:     make(map[string]*record.Email),
		events:     make(map[string]*record.CalendarEvent),
	}
}

// ──────────────────────────────────────────────────
// Lifecycle — Migrate / Ping / Close
// ──────────────────────────────────────────────────

// Migrate is a no-op for the memory store.
func (m *Store) Migrate(_ context.Context) error { return nil }

// Ping always succeeds for the memory store.
func (m *Store) Ping(_ context.Context) error { return nil }

// Close is a no-op for the memory store.
func (m *Store) Close() error { return nil }

// ──────────────────────────────────────────────────
// Workflow Store
// ──────────────────────────────────────────────────

// CreateWorkflow persists a new workflow.
func (m *Store) CreateWorkflow(_ context.Context, wf *workflow.Workflow) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := wf.ID.String()
	if _, exists := m.workflows[key]; exists {
		return hireflow.ErrWorkflowExists
	}
	m.workflows[key] = cloneWorkflow(wf)
	return nil
}

// GetWorkflow retrieves a workflow by ID.
func (m *Store) GetWorkflow(_ context.Context, wfID id.WorkflowID) (*workflow.Workflow, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	wf, ok := m.workflows[wfID.String()]
	if !ok {
		return nil, hireflow.ErrWorkflowNotFound
	}
	return cloneWorkflow(wf), nil
}

// UpdateWorkflow persists changes to an existing workflow.
func (m *Store) UpdateWorkflow(_ context.Context, wf *workflow.Workflow) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := wf.ID.String()
	if _, ok := m.workflows[key]; !ok {
		return hireflow.ErrWorkflowNotFound
	}
	cp := cloneWorkflow(wf)
	cp.UpdatedAt = time.Now().UTC()
	m.workflows[key] = cp
	return nil
}

// ListWorkflows returns workflows matching the given options, most
// recently created first.
func (m *Store) ListWorkflows(_ context.Context, opts workflow.ListOpts) ([]*workflow.Workflow, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*workflow.Workflow, 0, len(m.workflows))
	for _, wf := range m.workflows {
		if opts.Status != "" && wf.Status != opts.Status {
			continue
		}
		result = append(result, cloneWorkflow(wf))
	}

	sort.Slice(result, func(i, k int) bool {
		return result[i].CreatedAt.After(result[k].CreatedAt)
	})

	if opts.Offset > 0 {
		if opts.Offset >= len(result) {
			return nil, nil
		}
		result = result[opts.Offset:]
	}
	if opts.Limit > 0 && len(result) > opts.Limit {
		result = result[:opts.Limit]
	}

	return result, nil
}

// ──────────────────────────────────────────────────
// Record Store — candidates
// ──────────────────────────────────────────────────

// CreateCandidate persists a new candidate.
func (m *Store) CreateCandidate(_ context.Context, cand *record.Candidate) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *cand
	m.candidates[cand.ID.String()] = &cp
	return nil
}

// GetCandidate retrieves a candidate by ID.
func (m *Store) GetCandidate(_ context.Context, candID id.CandidateID) (*record.Candidate, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cand, ok := m.candidates[candID.String()]
	if !ok {
		return nil, hireflow.ErrCandidateNotFound
	}
	cp := *cand
	return &cp, nil
}

// ListCandidates returns candidates matching the filter, most recently
// created first.
func (m *Store) ListCandidates(_ context.Context, filter record.CandidateFilter) ([]*record.Candidate, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*record.Candidate, 0, len(m.candidates))
	for _, cand := range m.candidates {
		if filter.Status != "" && cand.Status != filter.Status {
			continue
		}
		if !filter.JobID.IsNil() && cand.JobID.String() != filter.JobID.String() {
			continue
		}
		if !filter.UpdatedBefore.IsZero() {
			touched := cand.UpdatedAt
			if touched.IsZero() {
				touched = cand.CreatedAt
			}
			if !touched.Before(filter.UpdatedBefore) {
				continue
			}
		}
		cp := *cand
		result = append(result, &cp)
	}

	sort.Slice(result, func(i, k int) bool {
		return result[i].CreatedAt.After(result[k].CreatedAt)
	})

	if filter.Limit > 0 && len(result) > filter.Limit {
		result = result[:filter.Limit]
	}
	return result, nil
}

// UpdateCandidate persists changes to an existing candidate.
func (m *Store) UpdateCandidate(_ context.Context, cand *record.Candidate) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := cand.ID.String()
	if _, ok := m.candidates[key]; !ok {
		return hireflow.ErrCandidateNotFound
	}
	cp := *cand
	cp.UpdatedAt = time.Now().UTC()
	m.candidates[key] = &cp
	return nil
}

// ──────────────────────────────────────────────────
// Record Store — jobs
// ──────────────────────────────────────────────────

// CreateJob persists a new job posting.
func (m *Store) CreateJob(_ context.Context, posting *record.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *posting
	m.jobs[posting.ID.String()] = &cp
	return nil
}

// GetJob retrieves a job posting by ID.
func (m *Store) GetJob(_ context.Context, jobID id.JobID) (*record.Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	posting, ok := m.jobs[jobID.String()]
	if !ok {
		return nil, hireflow.ErrJobNotFound
	}
	cp := *posting
	return &cp, nil
}

// ListJobs returns job postings matching the filter, most recently
// created first.
func (m *Store) ListJobs(_ context.Context, filter record.JobFilter) ([]*record.Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*record.Job, 0, len(m.jobs))
	for _, posting := range m.jobs {
		if filter.Status != "" && posting.Status != filter.Status {
			continue
		}
		cp := *posting
		result = append(result, &cp)
	}

	sort.Slice(result, func(i, k int) bool {
		return result[i].CreatedAt.After(result[k].CreatedAt)
	})

	if filter.Limit > 0 && len(result) > filter.Limit {
		result = result[:filter.Limit]
	}
	return result, nil
}

// ──────────────────────────────────────────────────
// Record Store — emails / calendar events
// ──────────────────────────────────────────────────

// CreateEmail persists a newly drafted email.
func (m *Store) CreateEmail(_ context.Context, email *record.Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *email
	m.emails[email.ID.String()] = &cp
	return nil
}

// GetEmail retrieves a drafted email by ID.
func (m *Store) GetEmail(_ context.Context, emailID id.EmailID) (*record.Email, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	email, ok := m.emails[emailID.String()]
	if !ok {
		return nil, hireflow.ErrEmailNotFound
	}
	cp := *email
	return &cp, nil
}

// UpdateEmail persists changes to an existing email.
func (m *Store) UpdateEmail(_ context.Context, email *record.Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := email.ID.String()
	if _, ok := m.emails[key]; !ok {
		return hireflow.ErrEmailNotFound
	}
	cp := *email
	cp.UpdatedAt = time.Now().UTC()
	m.emails[key] = &cp
	return nil
}

// CreateCalendarEvent persists a booked interview slot.
func (m *Store) CreateCalendarEvent(_ context.Context, evt *record.CalendarEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *evt
	m.events[evt.ID.String()] = &cp
	return nil
}

// CalendarEvents returns every booked slot, unordered. Test helper.
func (m *Store) CalendarEvents() []*record.CalendarEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*record.CalendarEvent, 0, len(m.events))
	for _, evt := range m.events {
		cp := *evt
		result = append(result, &cp)
	}
	return result
}

// cloneWorkflow deep-copies a workflow so store reads and caller
// mutations never alias the Steps slice or the raw JSON payloads.
func cloneWorkflow(wf *workflow.Workflow) *workflow.Workflow {
	cp := *wf
	if wf.Steps != nil {
		cp.Steps = make([]workflow.Step, len(wf.Steps))
		copy(cp.Steps, wf.Steps)
	}
	cp.Params = cloneRaw(wf.Params)
	cp.Checkpoint = cloneRaw(wf.Checkpoint)
	cp.Resumed = cloneRaw(wf.Resumed)
	return &cp
}

func cloneRaw(b []byte) []byte {
	if b == nil {
		return nil
	}
	cp := make([]byte, len(b))
	copy(cp, b)
	return cp
}
