package notifier

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kontraq/kontraq-be/internal/domain"
)

// processEvent resolves the event to a phone number and message text and
// hands it to the SMS sender under the configured delivery timeout.
func (n *Notifier) processEvent(ctx context.Context, event *domain.AssignmentEvent) error {
	if event.EventType != domain.EventTypeAssigned {
		return fmt.Errorf("unknown event type %q", event.EventType)
	}

	sub, err := n.store.GetSubcontractor(ctx, event.SubcontractorID)
	if err != nil {
		// A missing subcontractor will not appear on retry.
		return fmt.Errorf("failed to resolve subcontractor: %w", err)
	}

	job, err := n.store.GetJob(ctx, event.JobID)
	if err != nil {
		return fmt.Errorf("failed to resolve job: %w", err)
	}

	msg := Message{
		To:   sub.Phone,
		Body: assignmentText(job),
	}

	sendCtx, cancel := context.WithTimeout(ctx, n.sendTimeout)
	defer cancel()

	if err := n.sender.Send(sendCtx, msg); err != nil {
		return fmt.Errorf("failed to send assignment SMS: %w", err)
	}

	n.logger.Info("Assignment notification delivered",
		slog.String("job_id", job.JobID),
		slog.String("subcontractor_id", sub.SubcontractorID),
	)

	return nil
}

// assignmentText formats the SMS body for a newly assigned job.
func assignmentText(job *domain.Job) string {
	return fmt.Sprintf(
		"You have been assigned a new job: %s at %s (%s). Client: %s.",
		job.JobType, job.Location, job.ZipCode, job.ClientName,
	)
}
