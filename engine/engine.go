// Package engine wires the hireflow subsystems together: the store, the
// external collaborators (LLM drafting/ranking, mail transport), and
// the workflow state machine. It exposes the caller-facing operations —
// create, run, resume, recover — and owns the failure backstop that
// guarantees every run call terminates its stream with a done event.
package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hireflow/hireflow"
	"github.com/hireflow/hireflow/ai"
	"github.com/hireflow/hireflow/mail"
	"github.com/hireflow/hireflow/record"
	"github.com/hireflow/hireflow/stream"
	"github.com/hireflow/hireflow/workflow"
)

// recoverConcurrency bounds the fan-out of the startup recovery sweep.
const recoverConcurrency = 4

// Store is the persistence the engine needs: workflows plus recruiting
// records. The composite store.Store satisfies it.
type Store interface {
	workflow.Store
	record.Store
}

// Engine drives workflow execution. One Engine serves many workflows;
// per-workflow single-writer discipline is the caller's responsibility
// (never run/resume the same workflow id from two places at once).
type Engine struct {
	store   Store
	drafter ai.Drafter
	ranker  ai.Ranker
	sender  mail.Sender
	logger  *slog.Logger
	cfg     hireflow.Config
	bufSize int
	now     func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithConfig overrides the runner tunables.
func WithConfig(cfg hireflow.Config) Option {
	return func(e *Engine) { e.cfg = cfg }
}

// WithClock injects the time source used for slot proposals and
// staleness math. Tests use this for determinism.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithStreamBuffer sets the per-run event stream buffer size.
func WithStreamBuffer(n int) Option {
	return func(e *Engine) { e.bufSize = n }
}

// New creates an Engine.
func New(store Store, drafter ai.Drafter, ranker ai.Ranker, sender mail.Sender, opts ...Option) *Engine {
	e := &Engine{
		store:   store,
		drafter: drafter,
		ranker:  ranker,
		sender:  sender,
		logger:  slog.Default(),
		cfg:     hireflow.DefaultConfig(),
		bufSize: stream.DefaultBufferSize,
		now:     func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// CreateWorkflow persists a new workflow of the given type. Unknown
// types are accepted here with zero steps; the dispatch failure
// surfaces on the subsequent Run call, before any side effects.
func (e *Engine) CreateWorkflow(
	ctx context.Context,
	sessionID, userID string,
	typ workflow.Type,
	params any,
) (*workflow.Workflow, error) {
	var data json.RawMessage
	if params != nil {
		encoded, err := json.Marshal(params)
		if err != nil {
			return nil, fmt.Errorf("engine: marshal params for workflow %q: %w", typ, err)
		}
		data = encoded
	}

	wf := workflow.New(typ, sessionID, userID, data)
	if err := e.store.CreateWorkflow(ctx, wf); err != nil {
		return nil, fmt.Errorf("engine: create workflow %q: %w", typ, err)
	}

	e.logger.Info("workflow created",
		slog.String("workflow_id", wf.ID.String()),
		slog.String("type", string(typ)),
	)
	return wf, nil
}

// Run executes the workflow's current phase — the initial phase for a
// fresh workflow, the resume phase when a checkpoint was injected — in
// a background goroutine, returning the ordered event stream. The
// stream always ends with a done event and then closes, whatever
// happens inside the runner.
func (e *Engine) Run(ctx context.Context, wf *workflow.Workflow) *stream.Stream {
	st := stream.New(e.bufSize)
	go e.execute(ctx, wf, st)
	return st
}

// Resume applies a human decision to a paused workflow. A reply the
// approval gate does not recognize as approval cancels the workflow;
// an approval injects the checkpoint and re-enters the runner in its
// resume phase.
func (e *Engine) Resume(ctx context.Context, wf *workflow.Workflow, userMessage string) *stream.Stream {
	st := stream.New(e.bufSize)

	go func() {
		if wf.Status != workflow.StatusPaused {
			e.logger.Warn("resume refused",
				slog.String("workflow_id", wf.ID.String()),
				slog.String("status", string(wf.Status)),
				slog.String("error", hireflow.ErrNotPaused.Error()),
			)
			st.Emit(stream.EventDone, workflow.DoneEventData{
				Reply:          "Workflow is not awaiting approval.",
				SessionID:      wf.SessionID,
				WorkflowID:     wf.ID.String(),
				WorkflowStatus: wf.Status,
			})
			st.Close()
			return
		}

		if workflow.Classify(userMessage) == workflow.DecisionCancelled {
			e.logger.Info("workflow cancelled by reply",
				slog.String("workflow_id", wf.ID.String()),
			)
			wf.Status = workflow.StatusCancelled
			wf.Touch()
			if err := e.store.UpdateWorkflow(ctx, wf); err != nil {
				e.logger.Error("failed to persist cancellation",
					slog.String("workflow_id", wf.ID.String()),
					slog.String("error", err.Error()),
				)
			}
			st.Emit(stream.EventDone, workflow.DoneEventData{
				Reply:          "Workflow cancelled.",
				SessionID:      wf.SessionID,
				WorkflowID:     wf.ID.String(),
				WorkflowStatus: workflow.StatusCancelled,
			})
			st.Close()
			return
		}

		// Approved: inject the checkpoint, flip back to running, and
		// re-enter the runner on a freshly loaded record.
		wf.Resumed = wf.Checkpoint
		wf.Status = workflow.StatusRunning
		wf.Touch()
		if err := e.store.UpdateWorkflow(ctx, wf); err != nil {
			e.fail(ctx, wf, st, fmt.Errorf("persist approval: %w", err))
			st.Close()
			return
		}

		reloaded, err := e.store.GetWorkflow(ctx, wf.ID)
		if err != nil {
			e.fail(ctx, wf, st, fmt.Errorf("reload workflow: %w", err))
			st.Close()
			return
		}

		e.execute(ctx, reloaded, st)
	}()

	return st
}

// RecoverInterrupted re-runs workflows left in "running" state by a
// crash. Paused workflows are untouched — they are waiting on a human,
// not on us. Called once at startup.
func (e *Engine) RecoverInterrupted(ctx context.Context) error {
	interrupted, err := e.store.ListWorkflows(ctx, workflow.ListOpts{Status: workflow.StatusRunning})
	if err != nil {
		return fmt.Errorf("engine: list interrupted workflows: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(recoverConcurrency)

	for _, wf := range interrupted {
		e.logger.Info("recovering interrupted workflow",
			slog.String("workflow_id", wf.ID.String()),
			slog.String("type", string(wf.Type)),
		)
		g.Go(func() error {
			st := e.Run(gctx, wf)
			for range st.C() {
				// Drain; nobody is watching a recovered run live.
			}
			return nil
		})
	}

	return g.Wait()
}

// execute runs one phase of the workflow and closes the stream. A
// runner error or panic forces the workflow to cancelled; the stream
// still terminates with a done event either way.
func (e *Engine) execute(ctx context.Context, wf *workflow.Workflow, st *stream.Stream) {
	defer func() {
		if r := recover(); r != nil {
			e.fail(ctx, wf, st, fmt.Errorf("panic: %v", r))
		}
		st.Close()
	}()

	// Done and cancelled are terminal. Re-running a finished workflow
	// would replay its side effects, so refuse without touching state.
	if wf.Status.Terminal() {
		e.logger.Warn("run refused",
			slog.String("workflow_id", wf.ID.String()),
			slog.String("status", string(wf.Status)),
			slog.String("error", hireflow.ErrTerminal.Error()),
		)
		st.Emit(stream.EventDone, workflow.DoneEventData{
			Reply:          fmt.Sprintf("Workflow already finished with status %q.", wf.Status),
			SessionID:      wf.SessionID,
			WorkflowID:     wf.ID.String(),
			WorkflowStatus: wf.Status,
		})
		return
	}

	runner, ok := workflow.RunnerFor(wf.Type)
	if !ok {
		e.logger.Warn("unknown workflow type",
			slog.String("workflow_id", wf.ID.String()),
			slog.String("type", string(wf.Type)),
		)
		wf.Status = workflow.StatusCancelled
		wf.Touch()
		if err := e.store.UpdateWorkflow(ctx, wf); err != nil {
			e.logger.Error("failed to persist unknown-type cancellation",
				slog.String("workflow_id", wf.ID.String()),
				slog.String("error", err.Error()),
			)
		}
		st.Emit(stream.EventDone, workflow.DoneEventData{
			Reply:          fmt.Sprintf("Unknown workflow type %q.", wf.Type),
			SessionID:      wf.SessionID,
			WorkflowID:     wf.ID.String(),
			WorkflowStatus: workflow.StatusCancelled,
		})
		return
	}

	exec := workflow.NewExecution(ctx, wf, workflow.Deps{
		Store:   e.store,
		Records: e.store,
		Drafter: e.drafter,
		Ranker:  e.ranker,
		Sender:  e.sender,
		Out:     st,
		Logger:  e.logger,
		Config:  e.cfg,
		Now:     e.now,
	})

	var err error
	if wf.Resuming() {
		err = runner.Resume(exec)
	} else {
		err = runner.Run(exec)
	}
	if err != nil {
		e.fail(ctx, wf, st, err)
	}
}

// fail forces the workflow to cancelled, persists the error, and emits
// the generic failure done event.
func (e *Engine) fail(ctx context.Context, wf *workflow.Workflow, st *stream.Stream, runErr error) {
	e.logger.Error("workflow failed",
		slog.String("workflow_id", wf.ID.String()),
		slog.String("type", string(wf.Type)),
		slog.String("error", runErr.Error()),
	)

	wf.Status = workflow.StatusCancelled
	wf.Error = runErr.Error()
	wf.Touch()
	if err := e.store.UpdateWorkflow(ctx, wf); err != nil {
		e.logger.Error("failed to persist workflow failure",
			slog.String("workflow_id", wf.ID.String()),
			slog.String("error", err.Error()),
		)
	}

	st.Emit(stream.EventDone, workflow.DoneEventData{
		Reply:          fmt.Sprintf("Something went wrong running this workflow: %s", runErr),
		SessionID:      wf.SessionID,
		WorkflowID:     wf.ID.String(),
		WorkflowStatus: workflow.StatusCancelled,
	})
}
