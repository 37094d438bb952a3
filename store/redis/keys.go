package redis

// Redis key naming conventions for hireflow data.
// All keys are prefixed with "hireflow:" to avoid collisions.

const keyPrefix = "hireflow:"

// ── Workflow keys ──

// workflowKey returns the key for a workflow entity: hireflow:workflow:{id}
func workflowKey(id string) string { return keyPrefix + "workflow:" + id }

// workflowIDsKey is the Set tracking all workflow IDs for enumeration.
const workflowIDsKey = keyPrefix + "workflow_ids"

// ── Candidate keys ──

// candidateKey returns the key for a candidate entity: hireflow:candidate:{id}
func candidateKey(id string) string { return keyPrefix + "candidate:" + id }

// candidateIDsKey is the Set tracking all candidate IDs for enumeration.
const candidateIDsKey = keyPrefix + "candidate_ids"

// ── Job keys ──

// jobKey returns the key for a job posting entity: hireflow:job:{id}
func jobKey(id string) string { return keyPrefix + "job:" + id }

// jobIDsKey is the Set tracking all job posting IDs for enumeration.
const jobIDsKey = keyPrefix + "job_ids"

// ── Email keys ──

// emailKey returns the key for a drafted email entity: hireflow:email:{id}
func emailKey(id string) string { return keyPrefix + "email:" + id }

// ── Calendar keys ──

// calendarKey returns the key for a calendar event entity: hireflow:calendar:{id}
func calendarKey(id string) string { return keyPrefix + "calendar:" + id }
