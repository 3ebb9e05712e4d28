// Package core defines the domain types shared by Quasar's warehouse
// connectors: job handles, job status snapshots, the status query
// capability, and the verification outcome.
package core

import "context"

// JobHandle is the opaque identifier of an asynchronous remote
// operation, obtained from whatever collaborator launched it.
type JobHandle string

// JobState is the coarse execution state of a remote job.
type JobState string

const (
	// StatePending means the job is queued but not yet running.
	StatePending JobState = "PENDING"
	// StateInProgress means the job is running; polling continues.
	StateInProgress JobState = "IN_PROGRESS"
	// StateCompleted means the job finished successfully.
	StateCompleted JobState = "COMPLETED"
	// StateFailed means the job reached a failed terminal state.
	StateFailed JobState = "FAILED"
	// StateUnknown means the service reported a state this connector
	// does not recognize.
	StateUnknown JobState = "UNKNOWN"
)

// Terminal reports whether no further state change is expected.
func (s JobState) Terminal() bool {
	return s == StateCompleted || s == StateFailed
}

// JobStatus is an immutable snapshot of a remote job's status. A fresh
// instance is produced on every poll.
type JobStatus struct {
	State       JobState `json:"state"`
	Detail      string   `json:"detail,omitempty"`
	OperationID string   `json:"operation_id"`
}

// StatusQuery issues one remote status check for a job. Fetch may
// block on network I/O; network or parse failures surface as errors
// and are fatal to the enclosing poll.
type StatusQuery interface {
	Fetch(ctx context.Context, job JobHandle) (JobStatus, error)
}

// Outcome is the verifier's final judgment of a job. When Resolved is
// true and TimedOut is false, LastStatus holds a terminal state.
type Outcome struct {
	Resolved   bool       `json:"resolved"`
	TimedOut   bool       `json:"timed_out"`
	LastStatus *JobStatus `json:"last_status,omitempty"`
}
