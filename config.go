package hireflow

import "time"

// Config holds tunables for the workflow runners.
type Config struct {
	// OutreachBatchLimit caps how many "new" candidates a bulk outreach
	// workflow picks up when the caller gives no explicit id list.
	OutreachBatchLimit int

	// LaunchTopK is the default number of ranked candidates a job launch
	// workflow drafts outreach for.
	LaunchTopK int

	// StaleWindow is how long a contacted candidate may sit untouched
	// before pipeline cleanup considers it stale.
	StaleWindow time.Duration

	// InterviewSlots is the number of one-hour interview slots proposed
	// by the scheduling workflow.
	InterviewSlots int

	// ReviewThreshold is the minimum top ranking score for candidate
	// review to suggest a status change.
	ReviewThreshold float64
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		OutreachBatchLimit: 10,
		LaunchTopK:         5,
		StaleWindow:        3 * 24 * time.Hour,
		InterviewSlots:     3,
		ReviewThreshold:    0.6,
	}
}
