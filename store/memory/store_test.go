package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hireflow/hireflow"
	"github.com/hireflow/hireflow/id"
	"github.com/hireflow/hireflow/record"
	"github.com/hireflow/hireflow/workflow"
)

func newTestWorkflow(t *testing.T, typ workflow.Type) *workflow.Workflow {
	t.Helper()
	return workflow.New(typ, "sess-1", "user-1", nil)
}

func TestWorkflowCreateGet(t *testing.T) {
	ctx := context.Background()
	s := New()

	wf := newTestWorkflow(t, workflow.TypeBulkOutreach)
	if err := s.CreateWorkflow(ctx, wf); err != nil {
		t.Fatalf("CreateWorkflow: %v", err)
	}

	got, err := s.GetWorkflow(ctx, wf.ID)
	if err != nil {
		t.Fatalf("GetWorkflow: %v", err)
	}
	if got.Type != workflow.TypeBulkOutreach {
		t.Errorf("type = %q, want %q", got.Type, workflow.TypeBulkOutreach)
	}
	if len(got.Steps) != len(wf.Steps) {
		t.Errorf("steps = %d, want %d", len(got.Steps), len(wf.Steps))
	}
}

func TestWorkflowCreateDuplicate(t *testing.T) {
	ctx := context.Background()
	s := New()

	wf := newTestWorkflow(t, workflow.TypeBulkOutreach)
	if err := s.CreateWorkflow(ctx, wf); err != nil {
		t.Fatalf("CreateWorkflow: %v", err)
	}
	if err := s.CreateWorkflow(ctx, wf); !errors.Is(err, hireflow.ErrWorkflowExists) {
		t.Errorf("duplicate create err = %v, want ErrWorkflowExists", err)
	}
}

func TestWorkflowGetNotFound(t *testing.T) {
	ctx := context.Background()
	s := New()

	_, err := s.GetWorkflow(ctx, id.NewWorkflowID())
	if !errors.Is(err, hireflow.ErrWorkflowNotFound) {
		t.Errorf("err = %v, want ErrWorkflowNotFound", err)
	}
}

func TestWorkflowUpdate(t *testing.T) {
	ctx := context.Background()
	s := New()

	wf := newTestWorkflow(t, workflow.TypeCandidateReview)
	if err := s.CreateWorkflow(ctx, wf); err != nil {
		t.Fatalf("CreateWorkflow: %v", err)
	}

	wf.Status = workflow.StatusPaused
	wf.CurrentStep = 2
	if err := s.UpdateWorkflow(ctx, wf); err != nil {
		t.Fatalf("UpdateWorkflow: %v", err)
	}

	got, err := s.GetWorkflow(ctx, wf.ID)
	if err != nil {
		t.Fatalf("GetWorkflow: %v", err)
	}
	if got.Status != workflow.StatusPaused {
		t.Errorf("status = %q, want paused", got.Status)
	}
	if got.CurrentStep != 2 {
		t.Errorf("current step = %d, want 2", got.CurrentStep)
	}
	if got.UpdatedAt.IsZero() {
		t.Error("UpdatedAt not set on update")
	}
}

func TestWorkflowUpdateNotFound(t *testing.T) {
	ctx := context.Background()
	s := New()

	wf := newTestWorkflow(t, workflow.TypeJobLaunch)
	if err := s.UpdateWorkflow(ctx, wf); !errors.Is(err, hireflow.ErrWorkflowNotFound) {
		t.Errorf("err = %v, want ErrWorkflowNotFound", err)
	}
}

func TestWorkflowCopyIsolation(t *testing.T) {
	ctx := context.Background()
	s := New()

	wf := newTestWorkflow(t, workflow.TypeBulkOutreach)
	if err := s.CreateWorkflow(ctx, wf); err != nil {
		t.Fatalf("CreateWorkflow: %v", err)
	}

	// Mutating the caller's copy after create must not leak into the store.
	wf.Steps[0].Status = workflow.StepDone
	wf.Status = workflow.StatusCancelled

	got, err := s.GetWorkflow(ctx, wf.ID)
	if err != nil {
		t.Fatalf("GetWorkflow: %v", err)
	}
	if got.Steps[0].Status != workflow.StepPending {
		t.Errorf("stored step status = %q, want pending", got.Steps[0].Status)
	}
	if got.Status != workflow.StatusRunning {
		t.Errorf("stored status = %q, want running", got.Status)
	}
}

func TestListWorkflowsFilterAndPaginate(t *testing.T) {
	ctx := context.Background()
	s := New()

	for i := 0; i < 5; i++ {
		wf := newTestWorkflow(t, workflow.TypeBulkOutreach)
		if i%2 == 1 {
			wf.Status = workflow.StatusDone
		}
		if err := s.CreateWorkflow(ctx, wf); err != nil {
			t.Fatalf("CreateWorkflow: %v", err)
		}
	}

	running, err := s.ListWorkflows(ctx, workflow.ListOpts{Status: workflow.StatusRunning})
	if err != nil {
		t.Fatalf("ListWorkflows: %v", err)
	}
	if len(running) != 3 {
		t.Errorf("running = %d, want 3", len(running))
	}

	page, err := s.ListWorkflows(ctx, workflow.ListOpts{Limit: 2, Offset: 1})
	if err != nil {
		t.Fatalf("ListWorkflows: %v", err)
	}
	if len(page) != 2 {
		t.Errorf("page = %d, want 2", len(page))
	}

	empty, err := s.ListWorkflows(ctx, workflow.ListOpts{Offset: 99})
	if err != nil {
		t.Fatalf("ListWorkflows: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("past-end offset = %d workflows, want 0", len(empty))
	}
}

func TestCandidateLifecycle(t *testing.T) {
	ctx := context.Background()
	s := New()

	cand := &record.Candidate{
		Entity: hireflow.NewEntity(),
		ID:     id.NewCandidateID(),
		Name:   "Ada",
		Email:  "ada@example.com",
		Status: record.CandidateNew,
	}
	if err := s.CreateCandidate(ctx, cand); err != nil {
		t.Fatalf("CreateCandidate: %v", err)
	}

	got, err := s.GetCandidate(ctx, cand.ID)
	if err != nil {
		t.Fatalf("GetCandidate: %v", err)
	}
	if got.Name != "Ada" {
		t.Errorf("name = %q, want Ada", got.Name)
	}

	got.Status = record.CandidateContacted
	if err := s.UpdateCandidate(ctx, got); err != nil {
		t.Fatalf("UpdateCandidate: %v", err)
	}

	got, err = s.GetCandidate(ctx, cand.ID)
	if err != nil {
		t.Fatalf("GetCandidate: %v", err)
	}
	if got.Status != record.CandidateContacted {
		t.Errorf("status = %q, want contacted", got.Status)
	}

	_, err = s.GetCandidate(ctx, id.NewCandidateID())
	if !errors.Is(err, hireflow.ErrCandidateNotFound) {
		t.Errorf("err = %v, want ErrCandidateNotFound", err)
	}
}

func TestListCandidatesFilters(t *testing.T) {
	ctx := context.Background()
	s := New()

	jobID := id.NewJobID()
	now := time.Now().UTC()

	seed := []*record.Candidate{
		{ID: id.NewCandidateID(), Status: record.CandidateNew, JobID: jobID},
		{ID: id.NewCandidateID(), Status: record.CandidateNew},
		{ID: id.NewCandidateID(), Status: record.CandidateContacted, JobID: jobID},
	}
	for i, cand := range seed {
		cand.CreatedAt = now.Add(time.Duration(i) * time.Minute)
		cand.UpdatedAt = cand.CreatedAt
		if err := s.CreateCandidate(ctx, cand); err != nil {
			t.Fatalf("CreateCandidate: %v", err)
		}
	}

	byStatus, err := s.ListCandidates(ctx, record.CandidateFilter{Status: record.CandidateNew})
	if err != nil {
		t.Fatalf("ListCandidates: %v", err)
	}
	if len(byStatus) != 2 {
		t.Errorf("status filter = %d candidates, want 2", len(byStatus))
	}

	byJob, err := s.ListCandidates(ctx, record.CandidateFilter{JobID: jobID})
	if err != nil {
		t.Fatalf("ListCandidates: %v", err)
	}
	if len(byJob) != 2 {
		t.Errorf("job filter = %d candidates, want 2", len(byJob))
	}

	stale, err := s.ListCandidates(ctx, record.CandidateFilter{
		UpdatedBefore: now.Add(90 * time.Second),
	})
	if err != nil {
		t.Fatalf("ListCandidates: %v", err)
	}
	if len(stale) != 2 {
		t.Errorf("updated-before filter = %d candidates, want 2", len(stale))
	}

	limited, err := s.ListCandidates(ctx, record.CandidateFilter{Limit: 1})
	if err != nil {
		t.Fatalf("ListCandidates: %v", err)
	}
	if len(limited) != 1 {
		t.Fatalf("limit = %d candidates, want 1", len(limited))
	}
	// Most recently created first.
	if limited[0].ID.String() != seed[2].ID.String() {
		t.Errorf("limited[0] = %s, want newest candidate %s", limited[0].ID, seed[2].ID)
	}
}

func TestJobLifecycle(t *testing.T) {
	ctx := context.Background()
	s := New()

	posting := &record.Job{
		Entity: hireflow.NewEntity(),
		ID:     id.NewJobID(),
		Title:  "Platform Engineer",
		Status: record.JobOpen,
	}
	if err := s.CreateJob(ctx, posting); err != nil {
		t.Fatalf("CreateJob: %v", err)
	}

	got, err := s.GetJob(ctx, posting.ID)
	if err != nil {
		t.Fatalf("GetJob: %v", err)
	}
	if got.Title != "Platform Engineer" {
		t.Errorf("title = %q", got.Title)
	}

	open, err := s.ListJobs(ctx, record.JobFilter{Status: record.JobOpen})
	if err != nil {
		t.Fatalf("ListJobs: %v", err)
	}
	if len(open) != 1 {
		t.Errorf("open jobs = %d, want 1", len(open))
	}

	closed, err := s.ListJobs(ctx, record.JobFilter{Status: record.JobClosed})
	if err != nil {
		t.Fatalf("ListJobs: %v", err)
	}
	if len(closed) != 0 {
		t.Errorf("closed jobs = %d, want 0", len(closed))
	}

	_, err = s.GetJob(ctx, id.NewJobID())
	if !errors.Is(err, hireflow.ErrJobNotFound) {
		t.Errorf("err = %v, want ErrJobNotFound", err)
	}
}

func TestEmailLifecycle(t *testing.T) {
	ctx := context.Background()
	s := New()

	email := &record.Email{
		Entity:  hireflow.NewEntity(),
		ID:      id.NewEmailID(),
		ToEmail: "ada@example.com",
		Subject: "Hello",
		Status:  record.EmailPending,
	}
	if err := s.CreateEmail(ctx, email); err != nil {
		t.Fatalf("CreateEmail: %v", err)
	}

	email.Status = record.EmailSent
	email.MessageID = "msg-1"
	if err := s.UpdateEmail(ctx, email); err != nil {
		t.Fatalf("UpdateEmail: %v", err)
	}

	got, err := s.GetEmail(ctx, email.ID)
	if err != nil {
		t.Fatalf("GetEmail: %v", err)
	}
	if got.Status != record.EmailSent || got.MessageID != "msg-1" {
		t.Errorf("email = %q/%q, want sent/msg-1", got.Status, got.MessageID)
	}

	_, err = s.GetEmail(ctx, id.NewEmailID())
	if !errors.Is(err, hireflow.ErrEmailNotFound) {
		t.Errorf("err = %v, want ErrEmailNotFound", err)
	}
}

func TestCalendarEvents(t *testing.T) {
	ctx := context.Background()
	s := New()

	evt := &record.CalendarEvent{
		Entity:      hireflow.NewEntity(),
		ID:          id.NewCalendarID(),
		CandidateID: id.NewCandidateID(),
		Title:       "Interview: Ada",
		StartAt:     time.Now().UTC().Add(24 * time.Hour),
		EndAt:       time.Now().UTC().Add(25 * time.Hour),
	}
	if err := s.CreateCalendarEvent(ctx, evt); err != nil {
		t.Fatalf("CreateCalendarEvent: %v", err)
	}

	events := s.CalendarEvents()
	if len(events) != 1 {
		t.Fatalf("events = %d, want 1", len(events))
	}
	if events[0].Title != "Interview: Ada" {
		t.Errorf("title = %q", events[0].Title)
	}
}

func TestLifecycleNoOps(t *testing.T) {
	ctx := context.Background()
	s := New()

	if err := s.Migrate(ctx); err != nil {
		t.Errorf("Migrate: %v", err)
	}
	if err := s.Ping(ctx); err != nil {
		t.Errorf("Ping: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}
