// Package record defines the recruiting entities the orchestrator works
// on — candidates, job postings, drafted emails, calendar events — and
// the store contract for them. The orchestrator mutates these records
// but does not own their wider lifecycle; they belong to the
// surrounding application.
package record

import (
	"time"

	"github.com/hireflow/hireflow"
	"github.com/hireflow/hireflow/id"
)

// CandidateStatus represents where a candidate sits in the pipeline.
type CandidateStatus string

const (
	// CandidateNew means the candidate was ingested but not yet touched.
	CandidateNew CandidateStatus = "new"
	// CandidateScreening means the candidate is under review.
	CandidateScreening CandidateStatus = "screening"
	// CandidateContacted means outreach was sent and a reply is pending.
	CandidateContacted CandidateStatus = "contacted"
	// CandidateInterviewScheduled means an interview slot was booked.
	CandidateInterviewScheduled CandidateStatus = "interview_scheduled"
	// CandidateRejected means the candidate was rejected.
	CandidateRejected CandidateStatus = "rejected"
	// CandidateWithdrawn means the candidate was archived out of the pipeline.
	CandidateWithdrawn CandidateStatus = "withdrawn"
)

// Candidate is one person in the recruiting pipeline.
type Candidate struct {
	hireflow.Entity

	ID     id.CandidateID  `json:"id"`
	Name   string          `json:"name"`
	Email  string          `json:"email,omitempty"`
	Status CandidateStatus `json:"status"`
	JobID  id.JobID        `json:"job_id,omitempty"`
	Notes  string          `json:"notes,omitempty"`
}

// JobStatus represents the lifecycle state of a job posting.
type JobStatus string

const (
	// JobOpen means the posting accepts candidates.
	JobOpen JobStatus = "open"
	// JobClosed means the posting no longer accepts candidates.
	JobClosed JobStatus = "closed"
)

// Job is one job posting candidates are matched against.
type Job struct {
	hireflow.Entity

	ID          id.JobID  `json:"id"`
	Title       string    `json:"title"`
	Company     string    `json:"company,omitempty"`
	Description string    `json:"description,omitempty"`
	Status      JobStatus `json:"status"`
}

// EmailStatus represents the delivery state of a drafted email.
type EmailStatus string

const (
	// EmailPending means the email is drafted but not yet sent.
	EmailPending EmailStatus = "pending"
	// EmailSent means the email was handed to the mail transport.
	EmailSent EmailStatus = "sent"
	// EmailFailed means the transport rejected the email.
	EmailFailed EmailStatus = "failed"
)

// Email is an outbound email drafted by a workflow. It is persisted in
// pending state before approval and flipped to sent/failed on resume.
type Email struct {
	hireflow.Entity

	ID          id.EmailID     `json:"id"`
	CandidateID id.CandidateID `json:"candidate_id,omitempty"`
	JobID       id.JobID       `json:"job_id,omitempty"`
	ToEmail     string         `json:"to_email"`
	Subject     string         `json:"subject"`
	Body        string         `json:"body"`
	Status      EmailStatus    `json:"status"`
	MessageID   string         `json:"message_id,omitempty"`
	SentAt      *time.Time     `json:"sent_at,omitempty"`
}

// CalendarEvent is one booked interview slot.
type CalendarEvent struct {
	hireflow.Entity

	ID          id.CalendarID  `json:"id"`
	CandidateID id.CandidateID `json:"candidate_id"`
	JobID       id.JobID       `json:"job_id,omitempty"`
	Title       string         `json:"title"`
	StartAt     time.Time      `json:"start_at"`
	EndAt       time.Time      `json:"end_at"`
}
