// Package workflow is the state-machine core of hireflow.
//
// A Workflow is a persisted, resumable multi-step task of a fixed type.
// Each type binds a fixed ordered list of step labels to a Runner — a
// two-phase procedure:
//
//   - The initial phase performs the read/compute steps (lookups, LLM
//     drafting, ranking) up to, but not including, the side-effecting
//     final action. It then persists a typed checkpoint, marks the
//     workflow paused, and emits an approval request. If the initial
//     lookup finds no work at all, it short-circuits straight to done.
//   - The resume phase, entered after a human approves, reads the
//     checkpoint back and performs the side effects (sending email,
//     flipping candidate status, booking a calendar slot), then marks
//     the workflow done.
//
// Between the two phases sits the approval gate: a fail-closed
// classifier over the human's free-text reply. Anything not clearly an
// approval cancels the workflow.
//
// Runners hold no state across calls; everything they need is read from
// and written to the Store. That is the resumability contract — a run
// can always be restarted as a fresh call after a crash.
package workflow
