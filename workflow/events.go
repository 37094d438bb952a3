package workflow

import (
	"encoding/json"

	"github.com/hireflow/hireflow/ai"
)

// StepEventData is the payload of a "workflow_step" stream event.
type StepEventData struct {
	WorkflowID string     `json:"workflow_id"`
	StepIndex  int        `json:"step_index"`
	TotalSteps int        `json:"total_steps"`
	Label      string     `json:"label"`
	Status     StepStatus `json:"status"`
}

// DoneEventData is the payload of the terminal "done" stream event of a
// run call. When the run pauses for approval, Blocks carries an
// ApprovalBlock and WorkflowStatus is "paused".
type DoneEventData struct {
	Reply          string            `json:"reply"`
	SessionID      string            `json:"session_id,omitempty"`
	Blocks         []json.RawMessage `json:"blocks,omitempty"`
	Suggestions    []string          `json:"suggestions,omitempty"`
	ContextHint    string            `json:"context_hint,omitempty"`
	WorkflowID     string            `json:"workflow_id,omitempty"`
	WorkflowStatus Status            `json:"workflow_status,omitempty"`
}

// BlockApproval is the Type discriminator of an ApprovalBlock.
const BlockApproval = "approval_block"

// BlockMatchReport is the Type discriminator of a MatchReportBlock.
const BlockMatchReport = "match_report"

// PreviewItem is one row of an approval preview — typically one
// affected candidate or drafted email.
type PreviewItem struct {
	Label  string `json:"label"`
	Detail string `json:"detail,omitempty"`
}

// ApprovalBlock asks the human to approve or cancel the pending
// side-effecting action. Emitted inside the done event of a pausing run.
type ApprovalBlock struct {
	Type         string        `json:"type"`
	WorkflowID   string        `json:"workflow_id"`
	Title        string        `json:"title"`
	Description  string        `json:"description,omitempty"`
	ApproveLabel string        `json:"approve_label"`
	CancelLabel  string        `json:"cancel_label"`
	PreviewItems []PreviewItem `json:"preview_items,omitempty"`
}

// MatchReportBlock carries candidate_review's ranking results.
type MatchReportBlock struct {
	Type     string        `json:"type"`
	Rankings []ai.JobScore `json:"rankings"`
	Summary  string        `json:"summary,omitempty"`
}

// mustMarshalBlock marshals a UI block, panicking on error (programming
// error: blocks are plain data structs).
func mustMarshalBlock(block any) json.RawMessage {
	data, err := json.Marshal(block)
	if err != nil {
		panic("workflow: marshal block: " + err.Error())
	}
	return data
}
