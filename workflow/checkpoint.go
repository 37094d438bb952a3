package workflow

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hireflow/hireflow/id"
	"github.com/hireflow/hireflow/record"
)

// Checkpoint payloads are a closed set of typed structs, one per
// workflow type. The store carries them as opaque JSON; only the owning
// runner encodes and decodes them.

// BulkOutreachCheckpoint is persisted by bulk_outreach before pausing:
// the drafted email ids the resume phase will attempt to send.
type BulkOutreachCheckpoint struct {
	EmailIDs []id.EmailID `json:"email_ids"`
	JobID    id.JobID     `json:"job_id,omitempty"`
}

// CandidateReviewCheckpoint is persisted by candidate_review: the
// status transition awaiting approval.
type CandidateReviewCheckpoint struct {
	CandidateID id.CandidateID         `json:"candidate_id"`
	Suggested   record.CandidateStatus `json:"suggested_status"`
	JobID       id.JobID               `json:"job_id"`
	JobTitle    string                 `json:"job_title,omitempty"`
	Score       float64                `json:"score"`
}

// TimeSlot is one proposed interview slot.
type TimeSlot struct {
	StartAt time.Time `json:"start_at"`
	EndAt   time.Time `json:"end_at"`
}

// InterviewSchedulingCheckpoint is persisted by interview_scheduling:
// the selected slot awaiting approval, plus the alternatives shown.
type InterviewSchedulingCheckpoint struct {
	CandidateID id.CandidateID `json:"candidate_id"`
	JobID       id.JobID       `json:"job_id"`
	Selected    TimeSlot       `json:"selected"`
	Slots       []TimeSlot     `json:"slots"`
}

// CleanupVerdict is the action pipeline_cleanup proposes for one stale
// candidate.
type CleanupVerdict string

const (
	// VerdictReject rejects candidates stale for 14 days or more.
	VerdictReject CleanupVerdict = "reject"
	// VerdictArchive withdraws candidates stale for 7 days or more.
	VerdictArchive CleanupVerdict = "archive"
	// VerdictFollowUp flags younger stale candidates for a manual nudge.
	// Informational only; the resume phase leaves them untouched.
	VerdictFollowUp CleanupVerdict = "follow_up"
)

// CleanupAction is one candidate's proposed cleanup action.
type CleanupAction struct {
	CandidateID id.CandidateID `json:"candidate_id"`
	Name        string         `json:"name"`
	Verdict     CleanupVerdict `json:"verdict"`
	AgeDays     int            `json:"age_days"`
}

// PipelineCleanupCheckpoint is persisted by pipeline_cleanup: the
// classified action list awaiting approval.
type PipelineCleanupCheckpoint struct {
	Actions []CleanupAction `json:"actions"`
}

// JobLaunchCheckpoint is persisted by job_launch: the target job and
// the drafted email ids the resume phase will attempt to send.
type JobLaunchCheckpoint struct {
	JobID    id.JobID     `json:"job_id"`
	EmailIDs []id.EmailID `json:"email_ids"`
}

// ── Caller-supplied parameters per workflow type ────

// BulkOutreachParams are the inputs for bulk_outreach. With no explicit
// candidate list, up to the configured batch limit of "new" candidates
// is picked, optionally filtered by JobID.
type BulkOutreachParams struct {
	CandidateIDs []id.CandidateID `json:"candidate_ids,omitempty"`
	JobID        id.JobID         `json:"job_id,omitempty"`
	Instructions string           `json:"instructions,omitempty"`
}

// CandidateReviewParams are the inputs for candidate_review.
type CandidateReviewParams struct {
	CandidateID id.CandidateID `json:"candidate_id"`
}

// InterviewSchedulingParams are the inputs for interview_scheduling.
type InterviewSchedulingParams struct {
	CandidateID id.CandidateID `json:"candidate_id"`
	JobID       id.JobID       `json:"job_id"`
}

// PipelineCleanupParams are the inputs for pipeline_cleanup. StaleDays
// overrides the configured staleness window when positive; the
// reject/archive age thresholds are fixed.
type PipelineCleanupParams struct {
	StaleDays int `json:"stale_days,omitempty"`
}

// JobLaunchParams are the inputs for job_launch. A nil JobID targets
// the most recently created job; TopK overrides the configured default
// when positive.
type JobLaunchParams struct {
	JobID        id.JobID `json:"job_id,omitempty"`
	TopK         int      `json:"top_k,omitempty"`
	Instructions string   `json:"instructions,omitempty"`
}

// decodeParams unmarshals the workflow's caller-supplied parameters
// into the type the runner expects. Empty params decode to the zero
// value.
//
// This is a package-level generic function because Go does not allow
// generic methods on non-generic receiver types.
func decodeParams[T any](wf *Workflow) (T, error) {
	var params T
	if len(wf.Params) == 0 {
		return params, nil
	}
	if err := json.Unmarshal(wf.Params, &params); err != nil {
		return params, fmt.Errorf("workflow %s: decode params: %w", wf.Type, err)
	}
	return params, nil
}

// decodeCheckpoint unmarshals the checkpoint injected on approval into
// the type the resume phase expects.
func decodeCheckpoint[T any](wf *Workflow) (T, error) {
	var cp T
	if len(wf.Resumed) == 0 {
		return cp, fmt.Errorf("workflow %s: no checkpoint injected for resume", wf.Type)
	}
	if err := json.Unmarshal(wf.Resumed, &cp); err != nil {
		return cp, fmt.Errorf("workflow %s: decode checkpoint: %w", wf.Type, err)
	}
	return cp, nil
}
