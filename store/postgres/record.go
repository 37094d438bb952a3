package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/hireflow/hireflow"
	"github.com/hireflow/hireflow/id"
	"github.com/hireflow/hireflow/record"
)

// ── Candidates ──

// CreateCandidate persists a new candidate.
func (s *Store) CreateCandidate(ctx context.Context, cand *record.Candidate) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO hireflow_candidates
			(id, name, email, status, job_id, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		cand.ID.String(), cand.Name, cand.Email, string(cand.Status),
		idOrEmpty(cand.JobID), cand.Notes, cand.CreatedAt, cand.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("hireflow/postgres: create candidate: %w", err)
	}
	return nil
}

// GetCandidate retrieves a candidate by ID.
func (s *Store) GetCandidate(ctx context.Context, candID id.CandidateID) (*record.Candidate, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, name, email, status, job_id, notes, created_at, updated_at
		FROM hireflow_candidates
		WHERE id = $1`,
		candID.String(),
	)

	cand, err := scanCandidate(row)
	if err != nil {
		if isNoRows(err) {
			return nil, hireflow.ErrCandidateNotFound
		}
		return nil, fmt.Errorf("hireflow/postgres: get candidate: %w", err)
	}
	return cand, nil
}

// ListCandidates returns candidates matching the filter, most recently
// created first.
func (s *Store) ListCandidates(ctx context.Context, filter record.CandidateFilter) ([]*record.Candidate, error) {
	q := `
		SELECT id, name, email, status, job_id, notes, created_at, updated_at
		FROM hireflow_candidates
		WHERE 1=1`
	args := []any{}

	if filter.Status != "" {
		args = append(args, string(filter.Status))
		q += fmt.Sprintf(` AND status = $%d`, len(args))
	}
	if !filter.JobID.IsNil() {
		args = append(args, filter.JobID.String())
		q += fmt.Sprintf(` AND job_id = $%d`, len(args))
	}
	if !filter.UpdatedBefore.IsZero() {
		args = append(args, filter.UpdatedBefore)
		q += fmt.Sprintf(` AND updated_at < $%d`, len(args))
	}
	q += ` ORDER BY created_at DESC`
	if filter.Limit > 0 {
		q += fmt.Sprintf(` LIMIT %d`, filter.Limit)
	}

	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("hireflow/postgres: list candidates: %w", err)
	}
	defer rows.Close()

	var candidates []*record.Candidate
	for rows.Next() {
		cand, scanErr := scanCandidate(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("hireflow/postgres: list candidates scan: %w", scanErr)
		}
		candidates = append(candidates, cand)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("hireflow/postgres: list candidates rows: %w", err)
	}
	return candidates, nil
}

// UpdateCandidate persists changes to an existing candidate.
func (s *Store) UpdateCandidate(ctx context.Context, cand *record.Candidate) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE hireflow_candidates SET
			name = $2, email = $3, status = $4, job_id = $5, notes = $6,
			updated_at = $7
		WHERE id = $1`,
		cand.ID.String(), cand.Name, cand.Email, string(cand.Status),
		idOrEmpty(cand.JobID), cand.Notes, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("hireflow/postgres: update candidate: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return hireflow.ErrCandidateNotFound
	}
	return nil
}

// ── Jobs ──

// CreateJob persists a new job posting.
func (s *Store) CreateJob(ctx context.Context, posting *record.Job) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO hireflow_jobs
			(id, title, company, description, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		posting.ID.String(), posting.Title, posting.Company,
		posting.Description, string(posting.Status),
		posting.CreatedAt, posting.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("hireflow/postgres: create job: %w", err)
	}
	return nil
}

// GetJob retrieves a job posting by ID.
func (s *Store) GetJob(ctx context.Context, jobID id.JobID) (*record.Job, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, title, company, description, status, created_at, updated_at
		FROM hireflow_jobs
		WHERE id = $1`,
		jobID.String(),
	)

	posting, err := scanJob(row)
	if err != nil {
		if isNoRows(err) {
			return nil, hireflow.ErrJobNotFound
		}
		return nil, fmt.Errorf("hireflow/postgres: get job: %w", err)
	}
	return posting, nil
}

// ListJobs returns job postings matching the filter, most recently
// created first.
func (s *Store) ListJobs(ctx context.Context, filter record.JobFilter) ([]*record.Job, error) {
	q := `
		SELECT id, title, company, description, status, created_at, updated_at
		FROM hireflow_jobs`
	args := []any{}

	if filter.Status != "" {
		args = append(args, string(filter.Status))
		q += ` WHERE status = $1`
	}
	q += ` ORDER BY created_at DESC`
	if filter.Limit > 0 {
		q += fmt.Sprintf(` LIMIT %d`, filter.Limit)
	}

	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("hireflow/postgres: list jobs: %w", err)
	}
	defer rows.Close()

	var postings []*record.Job
	for rows.Next() {
		posting, scanErr := scanJob(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("hireflow/postgres: list jobs scan: %w", scanErr)
		}
		postings = append(postings, posting)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("hireflow/postgres: list jobs rows: %w", err)
	}
	return postings, nil
}

// ── Emails / calendar events ──

// CreateEmail persists a newly drafted email.
func (s *Store) CreateEmail(ctx context.Context, email *record.Email) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO hireflow_emails
			(id, candidate_id, job_id, to_email, subject, body, status,
			 message_id, sent_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		email.ID.String(), idOrEmpty(email.CandidateID), idOrEmpty(email.JobID),
		email.ToEmail, email.Subject, email.Body, string(email.Status),
		email.MessageID, email.SentAt, email.CreatedAt, email.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("hireflow/postgres: create email: %w", err)
	}
	return nil
}

// GetEmail retrieves a drafted email by ID.
func (s *Store) GetEmail(ctx context.Context, emailID id.EmailID) (*record.Email, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, candidate_id, job_id, to_email, subject, body, status,
		       message_id, sent_at, created_at, updated_at
		FROM hireflow_emails
		WHERE id = $1`,
		emailID.String(),
	)

	email, err := scanEmail(row)
	if err != nil {
		if isNoRows(err) {
			return nil, hireflow.ErrEmailNotFound
		}
		return nil, fmt.Errorf("hireflow/postgres: get email: %w", err)
	}
	return email, nil
}

// UpdateEmail persists changes to an existing email.
func (s *Store) UpdateEmail(ctx context.Context, email *record.Email) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE hireflow_emails SET
			to_email = $2, subject = $3, body = $4, status = $5,
			message_id = $6, sent_at = $7, updated_at = $8
		WHERE id = $1`,
		email.ID.String(), email.ToEmail, email.Subject, email.Body,
		string(email.Status), email.MessageID, email.SentAt, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("hireflow/postgres: update email: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return hireflow.ErrEmailNotFound
	}
	return nil
}

// CreateCalendarEvent persists a booked interview slot.
func (s *Store) CreateCalendarEvent(ctx context.Context, evt *record.CalendarEvent) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO hireflow_calendar_events
			(id, candidate_id, job_id, title, start_at, end_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		evt.ID.String(), idOrEmpty(evt.CandidateID), idOrEmpty(evt.JobID),
		evt.Title, evt.StartAt, evt.EndAt, evt.CreatedAt, evt.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("hireflow/postgres: create calendar event: %w", err)
	}
	return nil
}

// ── scan helpers ──

func scanCandidate(row rowScanner) (*record.Candidate, error) {
	var (
		cand   record.Candidate
		rawID  string
		status string
		jobID  string
	)

	err := row.Scan(
		&rawID, &cand.Name, &cand.Email, &status, &jobID, &cand.Notes,
		&cand.CreatedAt, &cand.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	candID, err := id.ParseCandidateID(rawID)
	if err != nil {
		return nil, fmt.Errorf("parse candidate id: %w", err)
	}
	cand.ID = candID
	cand.Status = record.CandidateStatus(status)
	if jobID != "" {
		parsed, parseErr := id.ParseJobID(jobID)
		if parseErr != nil {
			return nil, fmt.Errorf("parse candidate job id: %w", parseErr)
		}
		cand.JobID = parsed
	}
	return &cand, nil
}

func scanJob(row rowScanner) (*record.Job, error) {
	var (
		posting record.Job
		rawID   string
		status  string
	)

	err := row.Scan(
		&rawID, &posting.Title, &posting.Company, &posting.Description,
		&status, &posting.CreatedAt, &posting.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	jobID, err := id.ParseJobID(rawID)
	if err != nil {
		return nil, fmt.Errorf("parse job id: %w", err)
	}
	posting.ID = jobID
	posting.Status = record.JobStatus(status)
	return &posting, nil
}

func scanEmail(row rowScanner) (*record.Email, error) {
	var (
		email  record.Email
		rawID  string
		candID string
		jobID  string
		status string
	)

	err := row.Scan(
		&rawID, &candID, &jobID, &email.ToEmail, &email.Subject, &email.Body,
		&status, &email.MessageID, &email.SentAt,
		&email.CreatedAt, &email.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	emailID, err := id.ParseEmailID(rawID)
	if err != nil {
		return nil, fmt.Errorf("parse email id: %w", err)
	}
	email.ID = emailID
	email.Status = record.EmailStatus(status)
	if candID != "" {
		parsed, parseErr := id.ParseCandidateID(candID)
		if parseErr != nil {
			return nil, fmt.Errorf("parse email candidate id: %w", parseErr)
		}
		email.CandidateID = parsed
	}
	if jobID != "" {
		parsed, parseErr := id.ParseJobID(jobID)
		if parseErr != nil {
			return nil, fmt.Errorf("parse email job id: %w", parseErr)
		}
		email.JobID = parsed
	}
	return &email, nil
}

// idOrEmpty maps a nil ID to the empty string, matching the TEXT NOT
// NULL DEFAULT '' columns.
func idOrEmpty(v id.ID) string {
	if v.IsNil() {
		return ""
	}
	return v.String()
}
