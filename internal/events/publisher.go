// Package events publishes domain events to RabbitMQ for the notifier
// service to consume.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/kontraq/kontraq-be/internal/domain"
	"github.com/kontraq/kontraq-be/shared/rabbitmq"
)

// Publisher emits assignment events onto the notifications exchange.
type Publisher struct {
	logger *slog.Logger
	client *rabbitmq.Client
}

// NewPublisher creates an event publisher over the given broker client.
func NewPublisher(logger *slog.Logger, client *rabbitmq.Client) *Publisher {
	return &Publisher{
		logger: logger,
		client: client,
	}
}

// JobAssigned publishes the post-commit assignment event. The broker
// publish retries internally; a final failure is returned to the caller,
// which logs it without unwinding the assignment.
func (p *Publisher) JobAssigned(ctx context.Context, event domain.AssignmentEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode assignment event: %w", err)
	}

	if err := p.client.PublishWithRetry(ctx, body, "application/json"); err != nil {
		return fmt.Errorf("failed to publish assignment event: %w", err)
	}

	p.logger.Debug("Assignment event published",
		slog.String("job_id", event.JobID),
		slog.String("subcontractor_id", event.SubcontractorID),
	)

	return nil
}
