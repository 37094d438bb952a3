package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/hireflow/hireflow"
	"github.com/hireflow/hireflow/ai"
	"github.com/hireflow/hireflow/id"
	"github.com/hireflow/hireflow/record"
)

// jobLaunchRunner kicks off sourcing for a job posting: ranks
// candidates against it, drafts outreach for the top matches, and sends
// the batch after approval.
type jobLaunchRunner struct{}

func (jobLaunchRunner) Run(e *Execution) error {
	params, err := decodeParams[JobLaunchParams](e.Workflow())
	if err != nil {
		return err
	}

	topK := e.Config().LaunchTopK
	if params.TopK > 0 {
		topK = params.TopK
	}

	var job *record.Job
	if err := e.Step(0, func(ctx context.Context) error {
		job, err = resolveLaunchJob(ctx, e, params.JobID)
		return err
	}); err != nil {
		return err
	}

	if job == nil {
		return e.Finish("No job found to launch.")
	}

	var (
		ranked  []ai.RankedCandidate
		rankErr error
	)
	if err := e.Step(1, func(ctx context.Context) error {
		ranked, rankErr = e.Ranker().RankCandidatesForJob(ctx, job.ID, topK)
		return nil
	}); err != nil {
		return err
	}

	if rankErr != nil {
		e.Logger().Warn("candidate ranking failed",
			slog.String("job_id", job.ID.String()),
			slog.String("error", rankErr.Error()),
		)
		return e.Finish(fmt.Sprintf("Couldn't rank candidates for %q — try again later.", job.Title))
	}
	if len(ranked) == 0 {
		return e.Finish(fmt.Sprintf("No matching candidates found for %q.", job.Title))
	}

	if err := e.Step(2, func(context.Context) error {
		sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })
		if len(ranked) > topK {
			ranked = ranked[:topK]
		}
		return nil
	}); err != nil {
		return err
	}

	var (
		emailIDs []id.EmailID
		preview  []PreviewItem
	)
	if err := e.Step(3, func(ctx context.Context) error {
		emailIDs, preview = draftLaunchBatch(ctx, e, job, ranked, params.Instructions)
		return nil
	}); err != nil {
		return err
	}

	if len(emailIDs) == 0 {
		return e.Finish(fmt.Sprintf("Couldn't draft outreach for any of the %d ranked candidates.", len(ranked)))
	}

	return e.Pause(
		JobLaunchCheckpoint{JobID: job.ID, EmailIDs: emailIDs},
		ApprovalBlock{
			Title:        "Review launch outreach",
			Description:  fmt.Sprintf("Ready to send %d outreach emails for %q.", len(emailIDs), job.Title),
			ApproveLabel: "Send outreach",
			CancelLabel:  "Cancel",
			PreviewItems: preview,
		},
		fmt.Sprintf("Drafted %d outreach emails for %q. Review and approve to send.", len(emailIDs), job.Title),
	)
}

func (jobLaunchRunner) Resume(e *Execution) error {
	cp, err := decodeCheckpoint[JobLaunchCheckpoint](e.Workflow())
	if err != nil {
		return err
	}

	var sent int
	if err := e.Step(4, func(ctx context.Context) error {
		sent = sendDraftedEmails(ctx, e, cp.EmailIDs)
		return nil
	}); err != nil {
		return err
	}

	return e.Finish(fmt.Sprintf("Sent %d/%d emails.", sent, len(cp.EmailIDs)))
}

// resolveLaunchJob picks the target job: the explicit id when given,
// otherwise the most recently created posting.
func resolveLaunchJob(ctx context.Context, e *Execution, jobID id.JobID) (*record.Job, error) {
	if !jobID.IsNil() {
		job, err := e.Records().GetJob(ctx, jobID)
		if err != nil {
			if errors.Is(err, hireflow.ErrJobNotFound) {
				return nil, nil
			}
			return nil, err
		}
		return job, nil
	}

	jobs, err := e.Records().ListJobs(ctx, record.JobFilter{Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(jobs) == 0 {
		return nil, nil
	}
	return jobs[0], nil
}

// draftLaunchBatch drafts one outreach email per ranked candidate,
// persisting each as a pending Email. Candidates whose full record has
// vanished are drafted from the ranking entry alone.
func draftLaunchBatch(
	ctx context.Context,
	e *Execution,
	job *record.Job,
	ranked []ai.RankedCandidate,
	instructions string,
) ([]id.EmailID, []PreviewItem) {
	var (
		emailIDs []id.EmailID
		preview  []PreviewItem
	)
	for _, rc := range ranked {
		cand, err := e.Records().GetCandidate(ctx, rc.ID)
		if err != nil {
			cand = &record.Candidate{ID: rc.ID, Name: rc.Name, Email: rc.Email}
		}

		draft, err := e.Drafter().DraftEmail(ctx, ai.DraftRequest{
			Candidate:    cand,
			Job:          job,
			Kind:         ai.KindOutreach,
			Instructions: instructions,
		})
		if err != nil {
			e.Logger().Warn("drafting failed, skipping candidate",
				slog.String("candidate_id", rc.ID.String()),
				slog.String("error", err.Error()),
			)
			continue
		}

		email := &record.Email{
			Entity:      hireflow.NewEntity(),
			ID:          id.NewEmailID(),
			CandidateID: cand.ID,
			JobID:       job.ID,
			ToEmail:     cand.Email,
			Subject:     draft.Subject,
			Body:        draft.Body,
			Status:      record.EmailPending,
		}
		if err := e.Records().CreateEmail(ctx, email); err != nil {
			e.Logger().Warn("persisting draft failed, skipping candidate",
				slog.String("candidate_id", rc.ID.String()),
				slog.String("error", err.Error()),
			)
			continue
		}

		emailIDs = append(emailIDs, email.ID)
		preview = append(preview, PreviewItem{Label: cand.Name, Detail: draft.Subject})
	}
	return emailIDs, preview
}
