// Package query exposes the read-only views consumed by the presentation
// layer. Every view is a plain filter or aggregation over the current
// directory snapshot, recomputed per call.
package query

import (
	"context"

	"github.com/kontraq/kontraq-be/internal/directory"
	"github.com/kontraq/kontraq-be/internal/domain"
	"github.com/kontraq/kontraq-be/internal/eligibility"
)

// Facade bundles the derived read views.
type Facade struct {
	store directory.Store
}

// NewFacade creates a query facade over the given store.
func NewFacade(store directory.Store) *Facade {
	return &Facade{store: store}
}

// Job returns a single job by id.
func (f *Facade) Job(ctx context.Context, jobID string) (*domain.Job, error) {
	return f.store.GetJob(ctx, jobID)
}

// Jobs lists jobs matching the filter; the named views below are fixed
// slices of this one.
func (f *Facade) Jobs(ctx context.Context, filter directory.JobFilter) ([]domain.Job, error) {
	return f.store.ListJobs(ctx, filter)
}

// OpenJobs lists jobs awaiting assignment.
func (f *Facade) OpenJobs(ctx context.Context) ([]domain.Job, error) {
	return f.Jobs(ctx, directory.JobFilter{Status: domain.JobStatusOpen})
}

// ActiveJobs lists jobs currently assigned.
func (f *Facade) ActiveJobs(ctx context.Context) ([]domain.Job, error) {
	return f.Jobs(ctx, directory.JobFilter{Status: domain.JobStatusAssigned})
}

// CompletedJobs lists finished jobs.
func (f *Facade) CompletedJobs(ctx context.Context) ([]domain.Job, error) {
	return f.Jobs(ctx, directory.JobFilter{Status: domain.JobStatusCompleted})
}

// JobsBySubcontractor lists all jobs ever assigned to the subcontractor.
func (f *Facade) JobsBySubcontractor(ctx context.Context, subID string) ([]domain.Job, error) {
	return f.Jobs(ctx, directory.JobFilter{SubcontractorID: subID})
}

// JobsByZip lists jobs located in the given zip code.
func (f *Facade) JobsByZip(ctx context.Context, zip string) ([]domain.Job, error) {
	return f.Jobs(ctx, directory.JobFilter{ZipCode: zip})
}

// Stats is the contractor dashboard aggregate.
type Stats struct {
	OpenCount      int     `json:"open_count"`
	AssignedCount  int     `json:"assigned_count"`
	CompletedCount int     `json:"completed_count"`
	SuccessRate    float64 `json:"success_rate"`
}

// SuccessRate is completed / (assigned + completed), 0 when no job has
// reached either state.
func (f *Facade) SuccessRate(ctx context.Context) (float64, error) {
	stats, err := f.Stats(ctx)
	if err != nil {
		return 0, err
	}
	return stats.SuccessRate, nil
}

// Stats computes the status counts and success rate in one pass.
func (f *Facade) Stats(ctx context.Context) (*Stats, error) {
	jobs, err := f.store.ListJobs(ctx, directory.JobFilter{})
	if err != nil {
		return nil, err
	}

	stats := &Stats{}
	for i := range jobs {
		switch jobs[i].Status {
		case domain.JobStatusOpen:
			stats.OpenCount++
		case domain.JobStatusAssigned:
			stats.AssignedCount++
		case domain.JobStatusCompleted:
			stats.CompletedCount++
		}
	}

	if denom := stats.AssignedCount + stats.CompletedCount; denom > 0 {
		stats.SuccessRate = float64(stats.CompletedCount) / float64(denom)
	}

	return stats, nil
}

// EligibleSubcontractorsForJob returns, in directory order, the
// subcontractors that may be assigned to the job right now: Available
// with a Valid license.
func (f *Facade) EligibleSubcontractorsForJob(ctx context.Context, jobID string) ([]domain.Subcontractor, error) {
	job, err := f.store.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	subs, err := f.store.ListSubcontractors(ctx)
	if err != nil {
		return nil, err
	}

	return eligibility.Filter(job, subs, eligibility.AssignmentCriteria()), nil
}

// BrowseSubcontractors is the discovery view: optional zip and specialty
// matching on top of the availability and license clauses. Empty zip or
// specialty disables that clause.
func (f *Facade) BrowseSubcontractors(ctx context.Context, zip string, specialty domain.Specialty) ([]domain.Subcontractor, error) {
	subs, err := f.store.ListSubcontractors(ctx)
	if err != nil {
		return nil, err
	}

	probe := domain.Job{ZipCode: zip, JobType: specialty}
	criteria := eligibility.BrowseCriteria(zip != "", specialty != "")
	return eligibility.Filter(&probe, subs, criteria), nil
}
