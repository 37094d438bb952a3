package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hireflow/hireflow"
	"github.com/hireflow/hireflow/record"
)

// Age thresholds for classifying stale candidates, relative to "now" at
// classification time. Distinct from the staleness window, which only
// decides who gets looked at.
const (
	rejectAfter  = 14 * 24 * time.Hour
	archiveAfter = 7 * 24 * time.Hour
)

// pipelineCleanupRunner finds contacted candidates that have gone
// stale, proposes a reject/archive/follow-up action per candidate, and
// applies the destructive ones after approval.
type pipelineCleanupRunner struct{}

func (pipelineCleanupRunner) Run(e *Execution) error {
	params, err := decodeParams[PipelineCleanupParams](e.Workflow())
	if err != nil {
		return err
	}

	window := e.Config().StaleWindow
	if params.StaleDays > 0 {
		window = time.Duration(params.StaleDays) * 24 * time.Hour
	}

	var stale []*record.Candidate
	if err := e.Step(0, func(ctx context.Context) error {
		stale, err = e.Records().ListCandidates(ctx, record.CandidateFilter{
			Status:        record.CandidateContacted,
			UpdatedBefore: e.Now().Add(-window),
		})
		return err
	}); err != nil {
		return err
	}

	if len(stale) == 0 {
		return e.Finish("Pipeline is clean! No stale candidates found.")
	}

	var actions []CleanupAction
	if err := e.Step(1, func(context.Context) error {
		actions = classifyStale(stale, e.Now())
		return nil
	}); err != nil {
		return err
	}

	counts := map[CleanupVerdict]int{}
	preview := make([]PreviewItem, len(actions))
	for i, action := range actions {
		counts[action.Verdict]++
		preview[i] = PreviewItem{
			Label:  action.Name,
			Detail: fmt.Sprintf("%s (%d days stale)", action.Verdict, action.AgeDays),
		}
	}

	return e.Pause(
		PipelineCleanupCheckpoint{Actions: actions},
		ApprovalBlock{
			Title: "Review pipeline cleanup",
			Description: fmt.Sprintf("%d to reject, %d to archive, %d to follow up.",
				counts[VerdictReject], counts[VerdictArchive], counts[VerdictFollowUp]),
			ApproveLabel: "Apply cleanup",
			CancelLabel:  "Cancel",
			PreviewItems: preview,
		},
		fmt.Sprintf("Found %d stale candidates. Review the proposed actions and approve to apply.", len(actions)),
	)
}

func (pipelineCleanupRunner) Resume(e *Execution) error {
	cp, err := decodeCheckpoint[PipelineCleanupCheckpoint](e.Workflow())
	if err != nil {
		return err
	}

	var rejected, archived, flagged int
	if err := e.Step(2, func(ctx context.Context) error {
		for _, action := range cp.Actions {
			var target record.CandidateStatus
			switch action.Verdict {
			case VerdictReject:
				target = record.CandidateRejected
			case VerdictArchive:
				target = record.CandidateWithdrawn
			case VerdictFollowUp:
				// Informational only; left untouched.
				flagged++
				continue
			default:
				continue
			}

			cand, getErr := e.Records().GetCandidate(ctx, action.CandidateID)
			if getErr != nil {
				if errors.Is(getErr, hireflow.ErrCandidateNotFound) {
					e.Logger().Warn("stale candidate vanished, skipping",
						slog.String("candidate_id", action.CandidateID.String()),
					)
					continue
				}
				return getErr
			}
			cand.Status = target
			if updateErr := e.Records().UpdateCandidate(ctx, cand); updateErr != nil {
				e.Logger().Error("cleanup update failed, skipping",
					slog.String("candidate_id", action.CandidateID.String()),
					slog.String("error", updateErr.Error()),
				)
				continue
			}

			if action.Verdict == VerdictReject {
				rejected++
			} else {
				archived++
			}
		}
		return nil
	}); err != nil {
		return err
	}

	return e.Finish(fmt.Sprintf(
		"Cleanup applied: %d rejected, %d archived, %d flagged for follow-up.",
		rejected, archived, flagged,
	))
}

// classifyStale buckets each stale candidate by how long it has sat
// untouched: ≥14 days reject, ≥7 days archive, younger follow_up.
func classifyStale(stale []*record.Candidate, now time.Time) []CleanupAction {
	actions := make([]CleanupAction, 0, len(stale))
	for _, cand := range stale {
		touched := cand.UpdatedAt
		if touched.IsZero() {
			touched = cand.CreatedAt
		}
		age := now.Sub(touched)

		verdict := VerdictFollowUp
		switch {
		case age >= rejectAfter:
			verdict = VerdictReject
		case age >= archiveAfter:
			verdict = VerdictArchive
		}

		actions = append(actions, CleanupAction{
			CandidateID: cand.ID,
			Name:        cand.Name,
			Verdict:     verdict,
			AgeDays:     int(age.Hours() / 24),
		})
	}
	return actions
}
