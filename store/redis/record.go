package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/hireflow/hireflow"
	"github.com/hireflow/hireflow/id"
	"github.com/hireflow/hireflow/record"
)

// ── Candidates ──

// CreateCandidate persists a new candidate.
func (s *Store) CreateCandidate(ctx context.Context, cand *record.Candidate) error {
	data, err := json.Marshal(cand)
	if err != nil {
		return fmt.Errorf("hireflow/redis: marshal candidate: %w", err)
	}

	candID := cand.ID.String()
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, candidateKey(candID), data, 0)
	pipe.SAdd(ctx, candidateIDsKey, candID)
	_, err = pipe.Exec(ctx)
	if err != nil {
		return fmt.Errorf("hireflow/redis: create candidate: %w", err)
	}
	return nil
}

// GetCandidate retrieves a candidate by ID.
func (s *Store) GetCandidate(ctx context.Context, candID id.CandidateID) (*record.Candidate, error) {
	data, err := s.client.Get(ctx, candidateKey(candID.String())).Result()
	if err != nil {
		if err == goredis.Nil {
			return nil, hireflow.ErrCandidateNotFound
		}
		return nil, fmt.Errorf("hireflow/redis: get candidate: %w", err)
	}

	cand := new(record.Candidate)
	if err := json.Unmarshal([]byte(data), cand); err != nil {
		return nil, fmt.Errorf("hireflow/redis: unmarshal candidate: %w", err)
	}
	return cand, nil
}

// ListCandidates returns candidates matching the filter, most recently
// created first.
func (s *Store) ListCandidates(ctx context.Context, filter record.CandidateFilter) ([]*record.Candidate, error) {
	ids, err := s.client.SMembers(ctx, candidateIDsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("hireflow/redis: list candidates smembers: %w", err)
	}

	var candidates []*record.Candidate
	for _, candID := range ids {
		data, getErr := s.client.Get(ctx, candidateKey(candID)).Result()
		if getErr != nil {
			continue
		}
		cand := new(record.Candidate)
		if convErr := json.Unmarshal([]byte(data), cand); convErr != nil {
			continue
		}
		if filter.Status != "" && cand.Status != filter.Status {
			continue
		}
		if !filter.JobID.IsNil() && cand.JobID.String() != filter.JobID.String() {
			continue
		}
		if !filter.UpdatedBefore.IsZero() {
			touched := cand.UpdatedAt
			if touched.IsZero() {
				touched = cand.CreatedAt
			}
			if !touched.Before(filter.UpdatedBefore) {
				continue
			}
		}
		candidates = append(candidates, cand)
	}

	sort.Slice(candidates, func(i, k int) bool {
		return candidates[i].CreatedAt.After(candidates[k].CreatedAt)
	})

	if filter.Limit > 0 && filter.Limit < len(candidates) {
		candidates = candidates[:filter.Limit]
	}
	return candidates, nil
}

// UpdateCandidate persists changes to an existing candidate.
func (s *Store) UpdateCandidate(ctx context.Context, cand *record.Candidate) error {
	key := candidateKey(cand.ID.String())

	exists, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("hireflow/redis: update candidate exists: %w", err)
	}
	if exists == 0 {
		return hireflow.ErrCandidateNotFound
	}

	cand.UpdatedAt = time.Now().UTC()
	data, err := json.Marshal(cand)
	if err != nil {
		return fmt.Errorf("hireflow/redis: marshal candidate: %w", err)
	}
	if err := s.client.Set(ctx, key, data, 0).Err(); err != nil {
		return fmt.Errorf("hireflow/redis: update candidate: %w", err)
	}
	return nil
}

// ── Jobs ──

// CreateJob persists a new job posting.
func (s *Store) CreateJob(ctx context.Context, posting *record.Job) error {
	data, err := json.Marshal(posting)
	if err != nil {
		return fmt.Errorf("hireflow/redis: marshal job: %w", err)
	}

	jID := posting.ID.String()
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, jobKey(jID), data, 0)
	pipe.SAdd(ctx, jobIDsKey, jID)
	_, err = pipe.Exec(ctx)
	if err != nil {
		return fmt.Errorf("hireflow/redis: create job: %w", err)
	}
	return nil
}

// GetJob retrieves a job posting by ID.
func (s *Store) GetJob(ctx context.Context, jobID id.JobID) (*record.Job, error) {
	data, err := s.client.Get(ctx, jobKey(jobID.String())).Result()
	if err != nil {
		if err == goredis.Nil {
			return nil, hireflow.ErrJobNotFound
		}
		return nil, fmt.Errorf("hireflow/redis: get job: %w", err)
	}

	posting := new(record.Job)
	if err := json.Unmarshal([]byte(data), posting); err != nil {
		return nil, fmt.Errorf("hireflow/redis: unmarshal job: %w", err)
	}
	return posting, nil
}

// ListJobs returns job postings matching the filter, most recently
// created first.
func (s *Store) ListJobs(ctx context.Context, filter record.JobFilter) ([]*record.Job, error) {
	ids, err := s.client.SMembers(ctx, jobIDsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("hireflow/redis: list jobs smembers: %w", err)
	}

	var postings []*record.Job
	for _, jID := range ids {
		data, getErr := s.client.Get(ctx, jobKey(jID)).Result()
		if getErr != nil {
			continue
		}
		posting := new(record.Job)
		if convErr := json.Unmarshal([]byte(data), posting); convErr != nil {
			continue
		}
		if filter.Status != "" && posting.Status != filter.Status {
			continue
		}
		postings = append(postings, posting)
	}

	sort.Slice(postings, func(i, k int) bool {
		return postings[i].CreatedAt.After(postings[k].CreatedAt)
	})

	if filter.Limit > 0 && filter.Limit < len(postings) {
		postings = postings[:filter.Limit]
	}
	return postings, nil
}

// ── Emails / calendar events ──

// CreateEmail persists a newly drafted email.
func (s *Store) CreateEmail(ctx context.Context, email *record.Email) error {
	data, err := json.Marshal(email)
	if err != nil {
		return fmt.Errorf("hireflow/redis: marshal email: %w", err)
	}
	if err := s.client.Set(ctx, emailKey(email.ID.String()), data, 0).Err(); err != nil {
		return fmt.Errorf("hireflow/redis: create email: %w", err)
	}
	return nil
}

// GetEmail retrieves a drafted email by ID.
func (s *Store) GetEmail(ctx context.Context, emailID id.EmailID) (*record.Email, error) {
	data, err := s.client.Get(ctx, emailKey(emailID.String())).Result()
	if err != nil {
		if err == goredis.Nil {
			return nil, hireflow.ErrEmailNotFound
		}
		return nil, fmt.Errorf("hireflow/redis: get email: %w", err)
	}

	email := new(record.Email)
	if err := json.Unmarshal([]byte(data), email); err != nil {
		return nil, fmt.Errorf("hireflow/redis: unmarshal email: %w", err)
	}
	return email, nil
}

// UpdateEmail persists changes to an existing email.
func (s *Store) UpdateEmail(ctx context.Context, email *record.Email) error {
	key := emailKey(email.ID.String())

	exists, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("hireflow/redis: update email exists: %w", err)
	}
	if exists == 0 {
		return hireflow.ErrEmailNotFound
	}

	email.UpdatedAt = time.Now().UTC()
	data, err := json.Marshal(email)
	if err != nil {
		return fmt.Errorf("hireflow/redis: marshal email: %w", err)
	}
	if err := s.client.Set(ctx, key, data, 0).Err(); err != nil {
		return fmt.Errorf("hireflow/redis: update email: %w", err)
	}
	return nil
}

// CreateCalendarEvent persists a booked interview slot.
func (s *Store) CreateCalendarEvent(ctx context.Context, evt *record.CalendarEvent) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("hireflow/redis: marshal calendar event: %w", err)
	}
	if err := s.client.Set(ctx, calendarKey(evt.ID.String()), data, 0).Err(); err != nil {
		return fmt.Errorf("hireflow/redis: create calendar event: %w", err)
	}
	return nil
}
