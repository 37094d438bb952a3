package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hireflow/hireflow"
	"github.com/hireflow/hireflow/ai"
	"github.com/hireflow/hireflow/record"
)

// candidateReviewRunner ranks one candidate against all open jobs and,
// when the top match is strong enough, suggests a status transition for
// approval. A weak match still reports the rankings but completes
// without an approval gate.
type candidateReviewRunner struct{}

func (candidateReviewRunner) Run(e *Execution) error {
	params, err := decodeParams[CandidateReviewParams](e.Workflow())
	if err != nil {
		return err
	}
	if params.CandidateID.IsNil() {
		return e.Finish("No candidate specified for review.")
	}

	var cand *record.Candidate
	if err := e.Step(0, func(ctx context.Context) error {
		c, getErr := e.Records().GetCandidate(ctx, params.CandidateID)
		if getErr != nil {
			if errors.Is(getErr, hireflow.ErrCandidateNotFound) {
				return nil
			}
			return getErr
		}
		cand = c
		return nil
	}); err != nil {
		return err
	}

	if cand == nil {
		return e.Finish("Candidate not found — nothing to review.")
	}

	var (
		ranking *ai.CandidateRanking
		rankErr error
	)
	if err := e.Step(1, func(ctx context.Context) error {
		jobs, listErr := e.Records().ListJobs(ctx, record.JobFilter{Status: record.JobOpen})
		if listErr != nil {
			return listErr
		}
		if len(jobs) == 0 {
			return nil
		}
		ranking, rankErr = e.Ranker().RankJobsForCandidate(ctx, cand, jobs)
		return nil
	}); err != nil {
		return err
	}

	if rankErr != nil {
		e.Logger().Warn("match analysis failed",
			slog.String("candidate_id", cand.ID.String()),
			slog.String("error", rankErr.Error()),
		)
		return e.Finish(fmt.Sprintf("Couldn't run match analysis for %s — flagged for manual review.", cand.Name))
	}
	if ranking == nil || len(ranking.Rankings) == 0 {
		return e.Finish(fmt.Sprintf("No open jobs to match %s against.", cand.Name))
	}

	var suggested record.CandidateStatus
	if err := e.Step(2, func(context.Context) error {
		top := ranking.Rankings[0]
		if top.Score >= e.Config().ReviewThreshold {
			if cand.Status == record.CandidateNew {
				suggested = record.CandidateScreening
			} else {
				suggested = record.CandidateInterviewScheduled
			}
		}
		return nil
	}); err != nil {
		return err
	}

	report := MatchReportBlock{
		Type:     BlockMatchReport,
		Rankings: ranking.Rankings,
		Summary:  ranking.Summary,
	}

	if suggested == "" {
		return e.Finish(
			fmt.Sprintf("No strong match for %s — no status change suggested.", cand.Name),
			report,
		)
	}

	top := ranking.Rankings[0]
	return e.Pause(
		CandidateReviewCheckpoint{
			CandidateID: cand.ID,
			Suggested:   suggested,
			JobID:       top.JobID,
			JobTitle:    top.Title,
			Score:       top.Score,
		},
		ApprovalBlock{
			Title:        "Review suggested action",
			Description:  fmt.Sprintf("Top match %q (score %.2f). Move %s to %q?", top.Title, top.Score, cand.Name, suggested),
			ApproveLabel: "Apply",
			CancelLabel:  "Cancel",
			PreviewItems: []PreviewItem{{
				Label:  cand.Name,
				Detail: fmt.Sprintf("%s → %s", cand.Status, suggested),
			}},
		},
		fmt.Sprintf("%s scored %.2f against %q. Approve to move them to %q.", cand.Name, top.Score, top.Title, suggested),
		report,
	)
}

func (candidateReviewRunner) Resume(e *Execution) error {
	cp, err := decodeCheckpoint[CandidateReviewCheckpoint](e.Workflow())
	if err != nil {
		return err
	}

	var cand *record.Candidate
	if err := e.Step(3, func(ctx context.Context) error {
		c, getErr := e.Records().GetCandidate(ctx, cp.CandidateID)
		if getErr != nil {
			if errors.Is(getErr, hireflow.ErrCandidateNotFound) {
				return nil
			}
			return getErr
		}
		c.Status = cp.Suggested
		if updateErr := e.Records().UpdateCandidate(ctx, c); updateErr != nil {
			return updateErr
		}
		cand = c
		return nil
	}); err != nil {
		return err
	}

	if cand == nil {
		return e.Finish("Candidate no longer exists — nothing applied.")
	}
	return e.Finish(fmt.Sprintf("Moved %s to %q.", cand.Name, cp.Suggested))
}
