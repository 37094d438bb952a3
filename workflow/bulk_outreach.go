package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hireflow/hireflow"
	"github.com/hireflow/hireflow/ai"
	"github.com/hireflow/hireflow/id"
	"github.com/hireflow/hireflow/mail"
	"github.com/hireflow/hireflow/record"
)

// bulkOutreachRunner drafts outreach emails for a batch of candidates,
// pauses for review, and sends the batch on approval.
type bulkOutreachRunner struct{}

func (bulkOutreachRunner) Run(e *Execution) error {
	params, err := decodeParams[BulkOutreachParams](e.Workflow())
	if err != nil {
		return err
	}

	var candidates []*record.Candidate
	if err := e.Step(0, func(ctx context.Context) error {
		candidates, err = findOutreachCandidates(ctx, e, params)
		return err
	}); err != nil {
		return err
	}

	if len(candidates) == 0 {
		return e.Finish("No candidates found for outreach — nothing to do.")
	}

	var (
		emailIDs []id.EmailID
		preview  []PreviewItem
	)
	if err := e.Step(1, func(ctx context.Context) error {
		emailIDs, preview = draftOutreachBatch(ctx, e, candidates, params.JobID, params.Instructions)
		return nil
	}); err != nil {
		return err
	}

	if len(emailIDs) == 0 {
		return e.Finish("Couldn't draft any outreach emails for the selected candidates.")
	}

	if err := e.Step(2, func(context.Context) error { return nil }); err != nil {
		return err
	}

	return e.Pause(
		BulkOutreachCheckpoint{EmailIDs: emailIDs, JobID: params.JobID},
		ApprovalBlock{
			Title:        "Review outreach batch",
			Description:  fmt.Sprintf("Ready to send %d outreach emails.", len(emailIDs)),
			ApproveLabel: "Send emails",
			CancelLabel:  "Cancel",
			PreviewItems: preview,
		},
		fmt.Sprintf("Drafted %d outreach emails. Review the batch and approve to send.", len(emailIDs)),
	)
}

func (bulkOutreachRunner) Resume(e *Execution) error {
	cp, err := decodeCheckpoint[BulkOutreachCheckpoint](e.Workflow())
	if err != nil {
		return err
	}

	var sent int
	if err := e.Step(3, func(ctx context.Context) error {
		sent = sendDraftedEmails(ctx, e, cp.EmailIDs)
		return nil
	}); err != nil {
		return err
	}

	return e.Finish(fmt.Sprintf("Sent %d/%d emails.", sent, len(cp.EmailIDs)))
}

// findOutreachCandidates resolves the outreach batch: the caller's
// explicit id list, or up to the configured limit of "new" candidates,
// optionally filtered by job.
func findOutreachCandidates(ctx context.Context, e *Execution, params BulkOutreachParams) ([]*record.Candidate, error) {
	if len(params.CandidateIDs) == 0 {
		return e.Records().ListCandidates(ctx, record.CandidateFilter{
			Status: record.CandidateNew,
			JobID:  params.JobID,
			Limit:  e.Config().OutreachBatchLimit,
		})
	}

	candidates := make([]*record.Candidate, 0, len(params.CandidateIDs))
	for _, candID := range params.CandidateIDs {
		cand, err := e.Records().GetCandidate(ctx, candID)
		if err != nil {
			if errors.Is(err, hireflow.ErrCandidateNotFound) {
				e.Logger().Warn("outreach candidate missing, skipping",
					slog.String("candidate_id", candID.String()),
				)
				continue
			}
			return nil, err
		}
		candidates = append(candidates, cand)
	}
	return candidates, nil
}

// draftOutreachBatch drafts one outreach email per candidate and
// persists each as a pending Email record. A drafting failure skips
// that candidate; it never aborts the batch.
func draftOutreachBatch(
	ctx context.Context,
	e *Execution,
	candidates []*record.Candidate,
	jobID id.JobID,
	instructions string,
) ([]id.EmailID, []PreviewItem) {
	var job *record.Job
	if !jobID.IsNil() {
		j, err := e.Records().GetJob(ctx, jobID)
		if err == nil {
			job = j
		}
	}

	var (
		emailIDs []id.EmailID
		preview  []PreviewItem
	)
	for _, cand := range candidates {
		draft, err := e.Drafter().DraftEmail(ctx, ai.DraftRequest{
			Candidate:    cand,
			Job:          job,
			Kind:         ai.KindOutreach,
			Instructions: instructions,
		})
		if err != nil {
			e.Logger().Warn("drafting failed, skipping candidate",
				slog.String("candidate_id", cand.ID.String()),
				slog.String("error", err.Error()),
			)
			continue
		}

		email := &record.Email{
			Entity:      hireflow.NewEntity(),
			ID:          id.NewEmailID(),
			CandidateID: cand.ID,
			JobID:       jobID,
			ToEmail:     cand.Email,
			Subject:     draft.Subject,
			Body:        draft.Body,
			Status:      record.EmailPending,
		}
		if err := e.Records().CreateEmail(ctx, email); err != nil {
			e.Logger().Warn("persisting draft failed, skipping candidate",
				slog.String("candidate_id", cand.ID.String()),
				slog.String("error", err.Error()),
			)
			continue
		}

		emailIDs = append(emailIDs, email.ID)
		preview = append(preview, PreviewItem{Label: cand.Name, Detail: draft.Subject})
	}
	return emailIDs, preview
}

// sendDraftedEmails attempts to send each checkpointed email. Emails
// already marked sent are counted and skipped, so a retried resume
// never double-sends. A send failure marks the email failed, logs, and
// moves on. Each successful send flips the linked candidate to
// "contacted".
func sendDraftedEmails(ctx context.Context, e *Execution, emailIDs []id.EmailID) int {
	sent := 0
	for _, emailID := range emailIDs {
		email, err := e.Records().GetEmail(ctx, emailID)
		if err != nil {
			e.Logger().Warn("drafted email missing, skipping",
				slog.String("email_id", emailID.String()),
				slog.String("error", err.Error()),
			)
			continue
		}
		if email.Status == record.EmailSent {
			sent++
			continue
		}

		receipt, err := e.Sender().Send(ctx, mail.Message{
			To:      email.ToEmail,
			Subject: email.Subject,
			Body:    email.Body,
		})
		if err != nil || receipt.Status != mail.StatusOK {
			detail := ""
			if err != nil {
				detail = err.Error()
			} else {
				detail = receipt.Detail
			}
			e.Logger().Warn("send failed, skipping email",
				slog.String("email_id", emailID.String()),
				slog.String("error", detail),
			)
			email.Status = record.EmailFailed
			if updateErr := e.Records().UpdateEmail(ctx, email); updateErr != nil {
				e.Logger().Error("failed to mark email failed",
					slog.String("email_id", emailID.String()),
					slog.String("error", updateErr.Error()),
				)
			}
			continue
		}

		now := e.Now()
		email.Status = record.EmailSent
		email.MessageID = receipt.MessageID
		email.SentAt = &now
		if err := e.Records().UpdateEmail(ctx, email); err != nil {
			e.Logger().Error("failed to mark email sent",
				slog.String("email_id", emailID.String()),
				slog.String("error", err.Error()),
			)
		}

		if !email.CandidateID.IsNil() {
			markContacted(ctx, e, email.CandidateID)
		}
		sent++
	}
	return sent
}

func markContacted(ctx context.Context, e *Execution, candID id.CandidateID) {
	cand, err := e.Records().GetCandidate(ctx, candID)
	if err != nil {
		e.Logger().Warn("candidate missing after send",
			slog.String("candidate_id", candID.String()),
		)
		return
	}
	cand.Status = record.CandidateContacted
	if err := e.Records().UpdateCandidate(ctx, cand); err != nil {
		e.Logger().Error("failed to mark candidate contacted",
			slog.String("candidate_id", candID.String()),
			slog.String("error", err.Error()),
		)
	}
}
