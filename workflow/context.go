package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hireflow/hireflow"
	"github.com/hireflow/hireflow/ai"
	"github.com/hireflow/hireflow/mail"
	"github.com/hireflow/hireflow/record"
	"github.com/hireflow/hireflow/stream"
)

// Deps bundles everything a runner needs: persistence, collaborators,
// the outbound event stream, logging, and tunables. Now is injectable
// for deterministic slot and staleness tests.
type Deps struct {
	Store   Store
	Records record.Store
	Drafter ai.Drafter
	Ranker  ai.Ranker
	Sender  mail.Sender
	Out     *stream.Stream
	Logger  *slog.Logger
	Config  hireflow.Config
	Now     func() time.Time
}

// Execution is the context one run call passes through a Runner. It
// owns all workflow state transitions: step progress, pausing with a
// checkpoint, and terminal completion. Runners call its methods in
// strictly sequential order, so events reach the stream in
// non-decreasing step order with the terminal event last.
type Execution struct {
	ctx  context.Context
	wf   *Workflow
	deps Deps
}

// NewExecution creates the execution context for one run call.
// Called by the engine, not by users.
func NewExecution(ctx context.Context, wf *Workflow, deps Deps) *Execution {
	if deps.Now == nil {
		deps.Now = func() time.Time { return time.Now().UTC() }
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Execution{ctx: ctx, wf: wf, deps: deps}
}

// Context returns the underlying context.Context.
func (e *Execution) Context() context.Context { return e.ctx }

// Workflow returns the workflow being executed.
func (e *Execution) Workflow() *Workflow { return e.wf }

// Records returns the recruiting record store.
func (e *Execution) Records() record.Store { return e.deps.Records }

// Drafter returns the LLM drafting collaborator.
func (e *Execution) Drafter() ai.Drafter { return e.deps.Drafter }

// Ranker returns the LLM ranking collaborator.
func (e *Execution) Ranker() ai.Ranker { return e.deps.Ranker }

// Sender returns the mail transport collaborator.
func (e *Execution) Sender() mail.Sender { return e.deps.Sender }

// Logger returns the structured logger.
func (e *Execution) Logger() *slog.Logger { return e.deps.Logger }

// Config returns the runner tunables.
func (e *Execution) Config() hireflow.Config { return e.deps.Config }

// Now returns the injected clock's current time.
func (e *Execution) Now() time.Time { return e.deps.Now() }

// Step executes the workflow step at the given index. It persists the
// running transition, emits the "running" step event, runs fn, persists
// the done transition, and emits the "done" step event. A crash between
// any two of those writes leaves the record one persisted step behind,
// which the recovery sweep can replay.
func (e *Execution) Step(index int, fn func(ctx context.Context) error) error {
	if index < 0 || index >= len(e.wf.Steps) {
		return fmt.Errorf("workflow %s: step index %d out of range", e.wf.Type, index)
	}

	e.wf.Steps[index].Status = StepRunning
	e.wf.CurrentStep = index
	if err := e.persist(); err != nil {
		return err
	}
	e.emitStep(index)

	if err := fn(e.ctx); err != nil {
		return fmt.Errorf("workflow %s step %q: %w", e.wf.Type, e.wf.Steps[index].Label, err)
	}

	e.wf.Steps[index].Status = StepDone
	if err := e.persist(); err != nil {
		return err
	}
	e.emitStep(index)

	return nil
}

// Pause persists the typed checkpoint, marks the workflow paused, and
// emits the approval-request done event. The checkpoint is written
// before the event goes out, so an observer seeing the approval request
// can rely on the paused state being durable.
func (e *Execution) Pause(checkpoint any, block ApprovalBlock, reply string, extra ...any) error {
	data, err := json.Marshal(checkpoint)
	if err != nil {
		return fmt.Errorf("workflow %s: encode checkpoint: %w", e.wf.Type, err)
	}

	block.Type = BlockApproval
	block.WorkflowID = e.wf.ID.String()

	e.wf.Status = StatusPaused
	e.wf.Checkpoint = data
	if err := e.persist(); err != nil {
		return err
	}

	blocks := []json.RawMessage{mustMarshalBlock(block)}
	for _, b := range extra {
		blocks = append(blocks, mustMarshalBlock(b))
	}

	e.emitDone(DoneEventData{
		Reply:          reply,
		SessionID:      e.wf.SessionID,
		Blocks:         blocks,
		WorkflowID:     e.wf.ID.String(),
		WorkflowStatus: StatusPaused,
	})
	return nil
}

// Finish marks the workflow done and emits the terminal done event.
// The checkpoint and the injected resume payload are both cleared so a
// finished workflow no longer reads as resuming. Blocks, if any, are
// marshaled into the event payload.
func (e *Execution) Finish(reply string, blocks ...any) error {
	e.wf.Status = StatusDone
	e.wf.Checkpoint = nil
	e.wf.Resumed = nil
	if err := e.persist(); err != nil {
		return err
	}

	raw := make([]json.RawMessage, 0, len(blocks))
	for _, b := range blocks {
		raw = append(raw, mustMarshalBlock(b))
	}

	e.emitDone(DoneEventData{
		Reply:          reply,
		SessionID:      e.wf.SessionID,
		Blocks:         raw,
		WorkflowID:     e.wf.ID.String(),
		WorkflowStatus: StatusDone,
	})
	return nil
}

// persist writes the workflow back to the store, bumping UpdatedAt.
func (e *Execution) persist() error {
	e.wf.Touch()
	if err := e.deps.Store.UpdateWorkflow(e.ctx, e.wf); err != nil {
		return fmt.Errorf("workflow %s: persist %s: %w", e.wf.Type, e.wf.ID, err)
	}
	return nil
}

func (e *Execution) emitStep(index int) {
	e.deps.Out.Emit(stream.EventWorkflowStep, StepEventData{
		WorkflowID: e.wf.ID.String(),
		StepIndex:  index,
		TotalSteps: e.wf.TotalSteps,
		Label:      e.wf.Steps[index].Label,
		Status:     e.wf.Steps[index].Status,
	})
}

func (e *Execution) emitDone(data DoneEventData) {
	e.deps.Out.Emit(stream.EventDone, data)
}
