// Package lifecycle owns the job status state machine. Every status
// mutation in the system flows through Manager.Transition; the directory
// store is only written with the job this manager returns.
package lifecycle

import (
	"fmt"

	"github.com/kontraq/kontraq-be/internal/domain"
)

// Manager validates and applies job status transitions.
//
// Allowed moves:
//
//	Open -> Assigned   (requires a target subcontractor id)
//	Assigned -> Completed
//	any state -> same state (idempotent no-op)
//
// Everything else fails with domain.ErrInvalidTransition. Completed is
// terminal and Open can never skip straight to Completed.
type Manager struct{}

// NewManager creates a lifecycle manager.
func NewManager() *Manager {
	return &Manager{}
}

// Transition returns a copy of job moved to next. subID is consulted only
// for Open -> Assigned, where it becomes the job's subcontractor; on every
// other move the existing subcontractor id is retained. Reapplying the
// current status returns the job unchanged.
func (m *Manager) Transition(job *domain.Job, next domain.JobStatus, subID string) (*domain.Job, error) {
	if !domain.ValidJobStatus(next) {
		return nil, fmt.Errorf("%w: job %s: unknown status %q", domain.ErrInvalidTransition, job.JobID, next)
	}

	if job.Status == next {
		out := *job
		return &out, nil
	}

	switch {
	case job.Status == domain.JobStatusOpen && next == domain.JobStatusAssigned:
		if subID == "" {
			return nil, fmt.Errorf("%w: job %s: assignment requires a subcontractor", domain.ErrInvalidTransition, job.JobID)
		}
		out := *job
		out.Status = domain.JobStatusAssigned
		out.SubcontractorID = subID
		return &out, nil

	case job.Status == domain.JobStatusAssigned && next == domain.JobStatusCompleted:
		out := *job
		out.Status = domain.JobStatusCompleted
		return &out, nil

	default:
		return nil, fmt.Errorf("%w: job %s: %s -> %s", domain.ErrInvalidTransition, job.JobID, job.Status, next)
	}
}
