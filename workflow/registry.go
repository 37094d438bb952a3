package workflow

// Type identifies a workflow type. The set is closed: each type binds a
// fixed step template and a Runner at compile time.
type Type string

const (
	// TypeBulkOutreach drafts and, after approval, sends outreach email
	// to a batch of candidates.
	TypeBulkOutreach Type = "bulk_outreach"
	// TypeCandidateReview ranks one candidate against all open jobs and
	// suggests a status transition.
	TypeCandidateReview Type = "candidate_review"
	// TypeInterviewScheduling books an interview slot and drafts the
	// invite email.
	TypeInterviewScheduling Type = "interview_scheduling"
	// TypePipelineCleanup sweeps stale contacted candidates into
	// reject/archive/follow-up buckets.
	TypePipelineCleanup Type = "pipeline_cleanup"
	// TypeJobLaunch ranks candidates for a job and drafts an outreach
	// batch for the top matches.
	TypeJobLaunch Type = "job_launch"
)

// stepTemplates is the fixed ordered step-label list per workflow type.
// TotalSteps is sized from this at creation time.
var stepTemplates = map[Type][]string{
	TypeBulkOutreach:        {"Find candidates", "Draft emails", "Review batch", "Send emails"},
	TypeCandidateReview:     {"Load candidate", "Run match analysis", "Suggest action", "Execute action"},
	TypeInterviewScheduling: {"Load candidate & job", "Propose time slots", "Create calendar event", "Draft invite email"},
	TypePipelineCleanup:     {"Find stale candidates", "Categorize actions", "Execute actions"},
	TypeJobLaunch:           {"Load job details", "Find matching candidates", "Rank candidates", "Draft outreach batch", "Send outreach"},
}

// runners binds each type to its Runner. Unknown types fall through to
// the dispatch-failure path in the engine.
var runners = map[Type]Runner{
	TypeBulkOutreach:        bulkOutreachRunner{},
	TypeCandidateReview:     candidateReviewRunner{},
	TypeInterviewScheduling: interviewSchedulingRunner{},
	TypePipelineCleanup:     pipelineCleanupRunner{},
	TypeJobLaunch:           jobLaunchRunner{},
}

// StepsFor returns the step-label template for a workflow type.
// Returns false for unknown types.
func StepsFor(typ Type) ([]string, bool) {
	labels, ok := stepTemplates[typ]
	return labels, ok
}

// RunnerFor returns the Runner bound to a workflow type.
// Returns false for unknown types.
func RunnerFor(typ Type) (Runner, bool) {
	r, ok := runners[typ]
	return r, ok
}

// Types returns all registered workflow types.
func Types() []Type {
	out := make([]Type, 0, len(stepTemplates))
	for typ := range stepTemplates {
		out = append(out, typ)
	}
	return out
}
