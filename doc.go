// Package hireflow is a recruiting-automation workflow orchestrator.
//
// It drives long-running, resumable multi-step workflows (bulk outreach,
// candidate review, interview scheduling, pipeline cleanup, job launch)
// that interleave automated steps, LLM-backed decisions, and a
// human-in-the-loop approval boundary. A workflow persists its progress
// and a typed checkpoint before every pause, so a process restart
// between steps never loses work.
//
// Hireflow is a library, not a service. Configure a store, plug in the
// external collaborators (record lookups, LLM drafting/ranking, mail
// transport), and drive workflows through the engine package:
//
//	eng := engine.New(store, drafter, ranker, sender)
//	wf, err := eng.CreateWorkflow(ctx, sessionID, userID, workflow.TypeBulkOutreach, params)
//	st := eng.Run(ctx, wf)
//	for evt := range st.C() { ... }
//
// The root package holds shared types: sentinel errors, entity
// timestamps, configuration defaults, and ID aliases. Subsystems live in
// their own packages: workflow (the state-machine core), record
// (recruiting entities), ai and mail (collaborator interfaces), stream
// (ordered event delivery), engine (wiring), and store (backends).
//
// All entity IDs use TypeID — type-prefixed, K-sortable, UUIDv7-based,
// compile-time safe identifiers.
package hireflow
