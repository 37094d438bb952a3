package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hireflow/hireflow"
	"github.com/hireflow/hireflow/ai"
	"github.com/hireflow/hireflow/id"
	"github.com/hireflow/hireflow/record"
)

// interviewSchedulingRunner proposes interview slots for a candidate
// and, on approval, books the selected slot, updates the candidate, and
// drafts the invite email. Only the scheduling itself is gated; the
// invite draft happens in the resume phase without a second approval.
type interviewSchedulingRunner struct{}

func (interviewSchedulingRunner) Run(e *Execution) error {
	params, err := decodeParams[InterviewSchedulingParams](e.Workflow())
	if err != nil {
		return err
	}
	if params.CandidateID.IsNil() {
		return e.Finish("No candidate specified for scheduling.")
	}

	var (
		cand *record.Candidate
		job  *record.Job
	)
	if err := e.Step(0, func(ctx context.Context) error {
		c, getErr := e.Records().GetCandidate(ctx, params.CandidateID)
		if getErr != nil {
			if errors.Is(getErr, hireflow.ErrCandidateNotFound) {
				return nil
			}
			return getErr
		}
		cand = c

		if !params.JobID.IsNil() {
			j, jobErr := e.Records().GetJob(ctx, params.JobID)
			if jobErr == nil {
				job = j
			}
		}
		return nil
	}); err != nil {
		return err
	}

	if cand == nil {
		return e.Finish("Candidate not found — nothing to schedule.")
	}

	var slots []TimeSlot
	if err := e.Step(1, func(context.Context) error {
		slots = proposeSlots(e.Now(), e.Config().InterviewSlots)
		return nil
	}); err != nil {
		return err
	}

	preview := make([]PreviewItem, len(slots))
	for i, slot := range slots {
		preview[i] = PreviewItem{
			Label:  fmt.Sprintf("Option %d", i+1),
			Detail: slot.StartAt.Format("Mon Jan 2, 15:04 MST"),
		}
	}

	title := cand.Name
	if job != nil {
		title = fmt.Sprintf("%s — %s", cand.Name, job.Title)
	}

	return e.Pause(
		InterviewSchedulingCheckpoint{
			CandidateID: cand.ID,
			JobID:       params.JobID,
			Selected:    slots[0],
			Slots:       slots,
		},
		ApprovalBlock{
			Title:        "Confirm interview slot",
			Description:  fmt.Sprintf("Schedule %s for %s?", title, slots[0].StartAt.Format("Mon Jan 2, 15:04 MST")),
			ApproveLabel: "Schedule",
			CancelLabel:  "Cancel",
			PreviewItems: preview,
		},
		fmt.Sprintf("Proposed %d interview slots for %s. Approve to book the first.", len(slots), cand.Name),
	)
}

func (interviewSchedulingRunner) Resume(e *Execution) error {
	cp, err := decodeCheckpoint[InterviewSchedulingCheckpoint](e.Workflow())
	if err != nil {
		return err
	}

	var (
		cand *record.Candidate
		job  *record.Job
	)
	if err := e.Step(2, func(ctx context.Context) error {
		c, getErr := e.Records().GetCandidate(ctx, cp.CandidateID)
		if getErr != nil {
			if errors.Is(getErr, hireflow.ErrCandidateNotFound) {
				return nil
			}
			return getErr
		}
		cand = c

		if !cp.JobID.IsNil() {
			j, jobErr := e.Records().GetJob(ctx, cp.JobID)
			if jobErr == nil {
				job = j
			}
		}

		title := fmt.Sprintf("Interview: %s", cand.Name)
		if job != nil {
			title = fmt.Sprintf("Interview: %s — %s", cand.Name, job.Title)
		}
		evt := &record.CalendarEvent{
			Entity:      hireflow.NewEntity(),
			ID:          id.NewCalendarID(),
			CandidateID: cand.ID,
			JobID:       cp.JobID,
			Title:       title,
			StartAt:     cp.Selected.StartAt,
			EndAt:       cp.Selected.EndAt,
		}
		if createErr := e.Records().CreateCalendarEvent(ctx, evt); createErr != nil {
			return createErr
		}

		cand.Status = record.CandidateInterviewScheduled
		return e.Records().UpdateCandidate(ctx, cand)
	}); err != nil {
		return err
	}

	if cand == nil {
		return e.Finish("Candidate no longer exists — nothing scheduled.")
	}

	drafted := false
	if err := e.Step(3, func(ctx context.Context) error {
		draft, draftErr := e.Drafter().DraftEmail(ctx, ai.DraftRequest{
			Candidate: cand,
			Job:       job,
			Kind:      ai.KindInterviewInvite,
		})
		if draftErr != nil {
			e.Logger().Warn("invite drafting failed",
				slog.String("candidate_id", cand.ID.String()),
				slog.String("error", draftErr.Error()),
			)
			return nil
		}

		email := &record.Email{
			Entity:      hireflow.NewEntity(),
			ID:          id.NewEmailID(),
			CandidateID: cand.ID,
			JobID:       cp.JobID,
			ToEmail:     cand.Email,
			Subject:     draft.Subject,
			Body:        draft.Body,
			Status:      record.EmailPending,
		}
		if createErr := e.Records().CreateEmail(ctx, email); createErr != nil {
			e.Logger().Warn("persisting invite draft failed",
				slog.String("candidate_id", cand.ID.String()),
				slog.String("error", createErr.Error()),
			)
			return nil
		}
		drafted = true
		return nil
	}); err != nil {
		return err
	}

	when := cp.Selected.StartAt.Format("Mon Jan 2, 15:04 MST")
	if drafted {
		return e.Finish(fmt.Sprintf("Interview scheduled for %s. Invite email drafted and ready to send.", when))
	}
	return e.Finish(fmt.Sprintf("Interview scheduled for %s. Invite email could not be drafted.", when))
}

// proposeSlots builds n one-hour slots starting tomorrow at 10:00, one
// slot per consecutive day at consecutive hours (10:00, 11:00, 12:00).
func proposeSlots(now time.Time, n int) []TimeSlot {
	if n <= 0 {
		n = 3
	}
	tomorrow := now.AddDate(0, 0, 1)
	slots := make([]TimeSlot, n)
	for i := 0; i < n; i++ {
		day := tomorrow.AddDate(0, 0, i)
		start := time.Date(day.Year(), day.Month(), day.Day(), 10+i, 0, 0, 0, time.UTC)
		slots[i] = TimeSlot{StartAt: start, EndAt: start.Add(time.Hour)}
	}
	return slots
}
