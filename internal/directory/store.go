package directory

import (
	"context"

	"github.com/kontraq/kontraq-be/internal/domain"
)

// JobFilter narrows ListJobs. Zero-valued fields are ignored.
type JobFilter struct {
	Status          domain.JobStatus
	ZipCode         string
	SubcontractorID string
	ContractorID    string
}

// Store is the directory of jobs, subcontractors, and accounts. It is pure
// data access: no business rule lives here beyond the optimistic version
// check on job writes. All invariants are enforced by the callers.
type Store interface {
	GetJob(ctx context.Context, jobID string) (*domain.Job, error)
	ListJobs(ctx context.Context, filter JobFilter) ([]domain.Job, error)

	// UpsertJob inserts a new job or replaces an existing one. For updates
	// the caller must present the version it read; a mismatch fails with
	// domain.ErrConcurrentModification and the stored row stays untouched.
	UpsertJob(ctx context.Context, job *domain.Job) error

	GetSubcontractor(ctx context.Context, subID string) (*domain.Subcontractor, error)
	ListSubcontractors(ctx context.Context) ([]domain.Subcontractor, error)
	UpsertSubcontractor(ctx context.Context, sub *domain.Subcontractor) error

	GetAccount(ctx context.Context, accountID string) (*domain.Account, error)
	UpsertAccount(ctx context.Context, account *domain.Account) error
}

// Match reports whether job passes the filter.
func (f JobFilter) Match(job *domain.Job) bool {
	if f.Status != "" && job.Status != f.Status {
		return false
	}
	if f.ZipCode != "" && job.ZipCode != f.ZipCode {
		return false
	}
	if f.SubcontractorID != "" && job.SubcontractorID != f.SubcontractorID {
		return false
	}
	if f.ContractorID != "" && job.ContractorID != f.ContractorID {
		return false
	}
	return true
}
