package workflow

import (
	"encoding/json"

	"github.com/hireflow/hireflow"
	"github.com/hireflow/hireflow/id"
)

// Status represents the lifecycle state of a workflow.
type Status string

const (
	// StatusRunning means the workflow is currently executing a phase.
	StatusRunning Status = "running"
	// StatusPaused means the workflow is awaiting a human decision.
	StatusPaused Status = "paused"
	// StatusDone means the workflow finished. Terminal.
	StatusDone Status = "done"
	// StatusCancelled means the workflow was rejected, failed, or had an
	// unknown type. Terminal.
	StatusCancelled Status = "cancelled"
)

// Terminal reports whether the status permits no further transitions.
func (s Status) Terminal() bool {
	return s == StatusDone || s == StatusCancelled
}

// StepStatus represents the state of one step within a workflow.
// It only ever moves pending → running → done.
type StepStatus string

const (
	// StepPending means the step has not started.
	StepPending StepStatus = "pending"
	// StepRunning means the step is executing.
	StepRunning StepStatus = "running"
	// StepDone means the step finished.
	StepDone StepStatus = "done"
)

// Step is one labeled step of a workflow.
type Step struct {
	Label  string     `json:"label"`
	Status StepStatus `json:"status"`
}

// Workflow is the unit of long-running, resumable work.
//
// While paused, Checkpoint holds the typed payload the runner needs to
// finish, and Resumed is empty. Approval moves the checkpoint into
// Resumed; the resume phase reads it from there. The caller never
// drives the same workflow id from two places at once — the design is
// single-writer per id.
type Workflow struct {
	hireflow.Entity

	ID          id.WorkflowID   `json:"id"`
	Type        Type            `json:"workflow_type"`
	Status      Status          `json:"status"`
	CurrentStep int             `json:"current_step"`
	TotalSteps  int             `json:"total_steps"`
	Steps       []Step          `json:"steps"`
	Params      json.RawMessage `json:"params,omitempty"`
	Checkpoint  json.RawMessage `json:"checkpoint_data,omitempty"`
	Resumed     json.RawMessage `json:"resumed,omitempty"`
	Error       string          `json:"error,omitempty"`
	SessionID   string          `json:"session_id,omitempty"`
	UserID      string          `json:"user_id,omitempty"`
}

// New creates a workflow of the given type with its steps initialized
// from the type's template. Unknown types get zero steps; the run call
// surfaces the dispatch failure.
func New(typ Type, sessionID, userID string, params json.RawMessage) *Workflow {
	labels, _ := StepsFor(typ)
	steps := make([]Step, len(labels))
	for i, label := range labels {
		steps[i] = Step{Label: label, Status: StepPending}
	}

	return &Workflow{
		Entity:     hireflow.NewEntity(),
		ID:         id.NewWorkflowID(),
		Type:       typ,
		Status:     StatusRunning,
		Steps:      steps,
		TotalSteps: len(steps),
		Params:     params,
		SessionID:  sessionID,
		UserID:     userID,
	}
}

// Paused reports whether the workflow is awaiting approval.
func (w *Workflow) Paused() bool { return w.Status == StatusPaused }

// Resuming reports whether the workflow carries an injected checkpoint,
// i.e. its next run call executes the resume phase.
func (w *Workflow) Resuming() bool { return len(w.Resumed) > 0 }
