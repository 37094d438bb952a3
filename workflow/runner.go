package workflow

// Runner is the per-type state machine implementation. Both phases are
// restartable as fresh calls: they hold no state beyond what they read
// from the store through the Execution.
//
// Run is the initial phase: read/compute steps up to, but not
// including, the side-effecting action, ending in either a pause with a
// checkpoint or (for no-op lookups) a terminal done.
//
// Resume is entered after approval, with the checkpoint injected into
// the workflow's Resumed field. It performs the side effects and ends
// in a terminal done.
//
// A non-nil error from either phase is structural: the engine backstop
// forces the workflow to cancelled and terminates the stream with a
// failure done event. Per-item collaborator failures are handled inside
// the runners (skip and continue), never returned.
type Runner interface {
	Run(e *Execution) error
	Resume(e *Execution) error
}
