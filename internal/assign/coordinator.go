// Package assign orchestrates the eligibility check and the Open ->
// Assigned commit as one atomic unit per job. It is the only entry point
// that assigns jobs; the presentation layer never talks to the lifecycle
// manager or the store directly for this.
package assign

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/kontraq/kontraq-be/internal/directory"
	"github.com/kontraq/kontraq-be/internal/domain"
	"github.com/kontraq/kontraq-be/internal/eligibility"
	"github.com/kontraq/kontraq-be/internal/lifecycle"
)

// Notifier delivers the post-commit assignment event. Delivery is
// fire-and-forget: a failure is logged and never unwinds the assignment.
type Notifier interface {
	JobAssigned(ctx context.Context, event domain.AssignmentEvent) error
}

// Gate is the trial/payment precondition consulted before contractor
// actions. A rejection surfaces as domain.ErrAccessDenied.
type Gate interface {
	Allow(ctx context.Context, accountID string) error
}

// Config holds coordinator dependencies and policy knobs.
type Config struct {
	Logger    *slog.Logger
	Store     directory.Store
	Lifecycle *lifecycle.Manager
	Gate      Gate
	Notifier  Notifier

	// MarkSubcontractorBooked flips the subcontractor to Booked on a
	// successful assignment. Off by default: subcontractors may carry
	// several concurrent jobs unless operations decides otherwise.
	MarkSubcontractorBooked bool
}

// Coordinator serializes assignment per job and commits transitions
// through the lifecycle manager.
type Coordinator struct {
	logger     *slog.Logger
	store      directory.Store
	lifecycle  *lifecycle.Manager
	gate       Gate
	notifier   Notifier
	markBooked bool

	jobLocks sync.Map // jobID -> *sync.Mutex
}

// NewCoordinator creates an assignment coordinator.
func NewCoordinator(cfg *Config) *Coordinator {
	return &Coordinator{
		logger:     cfg.Logger,
		store:      cfg.Store,
		lifecycle:  cfg.Lifecycle,
		gate:       cfg.Gate,
		notifier:   cfg.Notifier,
		markBooked: cfg.MarkSubcontractorBooked,
	}
}

// lockJob serializes callers on a single job id. Assigns on distinct jobs
// proceed independently.
func (c *Coordinator) lockJob(jobID string) func() {
	v, _ := c.jobLocks.LoadOrStore(jobID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// Assign validates and commits jobID -> Assigned with subID. actorID is
// the contractor account checked against the trial gate; an unknown or
// empty actor is denied, never waved through.
//
// Failure modes: domain.ErrAccessDenied, domain.ErrJobNotFound,
// domain.ErrJobNotOpen, domain.ErrSubcontractorNotFound,
// domain.ErrSubcontractorIneligible, domain.ErrConcurrentModification.
// Each is terminal for the call; the caller decides whether to re-fetch
// and retry.
func (c *Coordinator) Assign(ctx context.Context, actorID, jobID, subID string) (*domain.Job, error) {
	if c.gate != nil {
		if err := c.gate.Allow(ctx, actorID); err != nil {
			return nil, err
		}
	}

	unlock := c.lockJob(jobID)
	defer unlock()

	job, err := c.store.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	if job.Status != domain.JobStatusOpen {
		return nil, fmt.Errorf("%w: job %s is %s", domain.ErrJobNotOpen, job.JobID, job.Status)
	}

	sub, err := c.store.GetSubcontractor(ctx, subID)
	if err != nil {
		return nil, err
	}

	// Eligibility is checked at the instant of assignment, under the
	// same lock that guards the commit.
	if !eligibility.Eligible(job, sub, eligibility.AssignmentCriteria()) {
		return nil, fmt.Errorf("%w: subcontractor %s (availability=%s, license=%s)",
			domain.ErrSubcontractorIneligible, sub.SubcontractorID, sub.Availability, sub.LicenseStatus)
	}

	assigned, err := c.lifecycle.Transition(job, domain.JobStatusAssigned, sub.SubcontractorID)
	if err != nil {
		return nil, err
	}
	assigned.UpdatedAt = time.Now().UTC()

	if err := c.store.UpsertJob(ctx, assigned); err != nil {
		return nil, err
	}

	if c.markBooked {
		sub.Availability = domain.AvailabilityBooked
		sub.UpdatedAt = assigned.UpdatedAt
		if err := c.store.UpsertSubcontractor(ctx, sub); err != nil {
			// The assignment is committed; losing the availability flip is
			// recoverable through the profile flow.
			c.logger.Error("Failed to mark subcontractor booked",
				slog.String("subcontractor_id", sub.SubcontractorID),
				slog.String("error", err.Error()),
			)
		}
	}

	c.notifyAssigned(ctx, assigned)

	c.logger.Info("Job assigned",
		slog.String("job_id", assigned.JobID),
		slog.String("subcontractor_id", assigned.SubcontractorID),
	)

	return assigned, nil
}

// UpdateStatus routes a plain status change through the lifecycle manager.
// Admin and contractor callers share this path; role only matters to the
// transport layer. Reapplying the current status is a no-op.
func (c *Coordinator) UpdateStatus(ctx context.Context, jobID string, status domain.JobStatus) (*domain.Job, error) {
	unlock := c.lockJob(jobID)
	defer unlock()

	job, err := c.store.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	next, err := c.lifecycle.Transition(job, status, "")
	if err != nil {
		return nil, err
	}

	if next.Status == job.Status {
		return next, nil
	}

	next.UpdatedAt = time.Now().UTC()
	if err := c.store.UpsertJob(ctx, next); err != nil {
		return nil, err
	}

	c.logger.Info("Job status updated",
		slog.String("job_id", next.JobID),
		slog.String("status", string(next.Status)),
	)

	return next, nil
}

func (c *Coordinator) notifyAssigned(ctx context.Context, job *domain.Job) {
	if c.notifier == nil {
		return
	}

	event := domain.AssignmentEvent{
		JobID:           job.JobID,
		SubcontractorID: job.SubcontractorID,
		EventType:       domain.EventTypeAssigned,
	}

	if err := c.notifier.JobAssigned(ctx, event); err != nil {
		c.logger.Error("Failed to publish assignment event",
			slog.String("job_id", job.JobID),
			slog.String("subcontractor_id", job.SubcontractorID),
			slog.String("error", err.Error()),
		)
	}
}
