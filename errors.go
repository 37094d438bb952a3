package hireflow

import "errors"

var (
	// Not found errors.
	ErrWorkflowNotFound  = errors.New("hireflow: workflow not found")
	ErrCandidateNotFound = errors.New("hireflow: candidate not found")
	ErrJobNotFound       = errors.New("hireflow: job not found")
	ErrEmailNotFound     = errors.New("hireflow: email not found")

	// Conflict errors.
	ErrWorkflowExists = errors.New("hireflow: workflow already exists")

	// State errors.
	ErrNotPaused = errors.New("hireflow: workflow is not paused")
	ErrTerminal  = errors.New("hireflow: workflow is in a terminal state")
)
