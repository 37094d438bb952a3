// Package ai defines the LLM collaborator interfaces the workflow
// runners depend on: email drafting and candidate/job ranking. Hireflow
// does not implement these — the surrounding application plugs in a
// provider (and tests plug in fakes).
package ai

import (
	"context"

	"github.com/hireflow/hireflow/id"
	"github.com/hireflow/hireflow/record"
)

// EmailKind identifies the flavor of email being drafted.
type EmailKind string

const (
	// KindOutreach is a first-touch outreach email.
	KindOutreach EmailKind = "outreach"
	// KindInterviewInvite is an interview invitation email.
	KindInterviewInvite EmailKind = "interview_invite"
	// KindFollowUp is a follow-up nudge email.
	KindFollowUp EmailKind = "follow_up"
)

// DraftRequest describes one email to draft.
type DraftRequest struct {
	Candidate    *record.Candidate
	Job          *record.Job // optional
	Kind         EmailKind
	Instructions string
}

// Draft is a drafted email body.
type Draft struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Drafter drafts emails for a candidate (and optionally a job).
type Drafter interface {
	DraftEmail(ctx context.Context, req DraftRequest) (*Draft, error)
}

// JobScore is one job's ranking against a candidate.
type JobScore struct {
	JobID     id.JobID `json:"job_id"`
	Score     float64  `json:"score"` // 0..1
	Title     string   `json:"title"`
	Company   string   `json:"company,omitempty"`
	Strengths []string `json:"strengths,omitempty"`
	Gaps      []string `json:"gaps,omitempty"`
	OneLiner  string   `json:"one_liner,omitempty"`
}

// CandidateRanking is the result of ranking one candidate against a set
// of open jobs, best match first.
type CandidateRanking struct {
	Rankings []JobScore `json:"rankings"`
	Summary  string     `json:"summary,omitempty"`
}

// RankedCandidate is one candidate's ranking against a job posting.
type RankedCandidate struct {
	ID    id.CandidateID `json:"id"`
	Name  string         `json:"name"`
	Email string         `json:"email,omitempty"`
	Score float64        `json:"score"` // 0..1
}

// Ranker scores candidates against job postings.
type Ranker interface {
	// RankJobsForCandidate ranks the given open jobs for one candidate,
	// best match first.
	RankJobsForCandidate(ctx context.Context, cand *record.Candidate, jobs []*record.Job) (*CandidateRanking, error)

	// RankCandidatesForJob returns the top-k candidates for a job
	// posting, best match first.
	RankCandidatesForJob(ctx context.Context, jobID id.JobID, topK int) ([]RankedCandidate, error)
}
