package record

import (
	"context"
	"time"

	"github.com/hireflow/hireflow/id"
)

// CandidateFilter controls candidate list queries. Zero values mean
// "no constraint".
type CandidateFilter struct {
	// Status filters by candidate status.
	Status CandidateStatus
	// JobID filters by linked job posting.
	JobID id.JobID
	// UpdatedBefore keeps only candidates last touched before the given
	// instant (UpdatedAt, falling back to CreatedAt when never updated).
	UpdatedBefore time.Time
	// Limit caps the number of candidates returned. Zero means no limit.
	Limit int
}

// JobFilter controls job posting list queries.
type JobFilter struct {
	// Status filters by posting status. Empty means all.
	Status JobStatus
	// Limit caps the number of postings returned. Zero means no limit.
	Limit int
}

// Store defines the persistence contract for recruiting records.
// The workflow runners treat it as an external collaborator: reads
// before a pause, writes during the resume phase.
type Store interface {
	// CreateCandidate persists a new candidate.
	CreateCandidate(ctx context.Context, cand *Candidate) error

	// GetCandidate retrieves a candidate by ID.
	GetCandidate(ctx context.Context, candID id.CandidateID) (*Candidate, error)

	// ListCandidates returns candidates matching the filter, most
	// recently created first.
	ListCandidates(ctx context.Context, filter CandidateFilter) ([]*Candidate, error)

	// UpdateCandidate persists changes to an existing candidate.
	UpdateCandidate(ctx context.Context, cand *Candidate) error

	// CreateJob persists a new job posting.
	CreateJob(ctx context.Context, posting *Job) error

	// GetJob retrieves a job posting by ID.
	GetJob(ctx context.Context, jobID id.JobID) (*Job, error)

	// ListJobs returns job postings matching the filter, most recently
	// created first.
	ListJobs(ctx context.Context, filter JobFilter) ([]*Job, error)

	// CreateEmail persists a newly drafted email.
	CreateEmail(ctx context.Context, email *Email) error

	// GetEmail retrieves a drafted email by ID.
	GetEmail(ctx context.Context, emailID id.EmailID) (*Email, error)

	// UpdateEmail persists changes to an existing email.
	UpdateEmail(ctx context.Context, email *Email) error

	// CreateCalendarEvent persists a booked interview slot.
	CreateCalendarEvent(ctx context.Context, evt *CalendarEvent) error
}
